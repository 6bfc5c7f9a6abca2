package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/simshi01/thansgiving-day/app/logger"
	"github.com/simshi01/thansgiving-day/config"
	"github.com/simshi01/thansgiving-day/viewer"
	"github.com/spf13/cobra"
)

func newViewCmd() *cobra.Command {
	var (
		configPath string
		server     string
		mode       string
		plain      bool
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show the wall in the terminal",
		Long: `Follows a running server and shows its messages as bubbles.

Modes:
  rotation  cycle through the latest messages (default)
  cycle     replay the server schedule in step with other viewers

Prints plain show/expire lines instead of a UI with --plain or when stdout
is not a terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if server != "" {
				cfg.Viewer.Server = server
			}
			if mode != "" {
				cfg.Viewer.Mode = mode
			}
			if cfg.Viewer.Mode != config.ModeRotation && cfg.Viewer.Mode != config.ModeCycle {
				return fmt.Errorf("view: mode %q is not one of rotation, cycle", cfg.Viewer.Mode)
			}

			// console logs would tear the UI
			log := logger.Component("viewer")
			if !plain {
				log = zerolog.Nop()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return viewer.Run(ctx, cfg.Viewer, plain, cmd.OutOrStdout(), log)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&server, "server", "", "server base URL (overrides viewer.server)")
	cmd.Flags().StringVar(&mode, "mode", "", "rotation or cycle (overrides viewer.mode)")
	cmd.Flags().BoolVar(&plain, "plain", false, "print lines instead of drawing the wall")
	return cmd
}
