package main

import (
	"fmt"
	"os"

	"github.com/simshi01/thansgiving-day/app/logger"
	"github.com/simshi01/thansgiving-day/config"
	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "thanksgiving",
		Short:        "Thanksgiving wall: a shared wall of gratitude messages",
		Long:         "Runs the wall's API and websocket server, maintains its message store and shows the wall in a terminal.",
		SilenceUsage: true,
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newSweepCmd())
	cmd.AddCommand(newModerateCmd())
	cmd.AddCommand(newViewCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "thanksgiving %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

// loadConfig reads the optional config file and sets up logging from it.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := logger.Setup(cfg.Log.Level, cfg.Log.File); err != nil {
		return nil, err
	}
	return cfg, nil
}

func addConfigFlag(cmd *cobra.Command, path *string) {
	cmd.Flags().StringVarP(path, "config", "c", "", "path to YAML config file (defaults plus environment when empty)")
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
