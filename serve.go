package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/simshi01/thansgiving-day/app"
	"github.com/simshi01/thansgiving-day/app/logger"
	"github.com/simshi01/thansgiving-day/app/models"
	"github.com/simshi01/thansgiving-day/app/moderation"
	"github.com/simshi01/thansgiving-day/app/sweeper"
	"github.com/simshi01/thansgiving-day/config"
	"github.com/simshi01/thansgiving-day/websocket"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and websocket server",
		Long: `Opens the message store, migrates it, and serves the wall.

Routes:
  POST/GET/DELETE /messages, GET /schedule, GET /time (also under /api)
  GET /health
  GET /ws (websocket)

Stops gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log := logger.Component("server")

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("cannot close store")
		}
	}()

	notifications := make(chan models.Event, 256)
	wall := app.New(store, moderation.WithLimit(cfg.Moderation.MaxLength), notifications, app.Options{
		ScheduleInterval: cfg.Schedule.Interval,
		ScheduleDuration: cfg.Schedule.Duration,
		ActiveWindow:     cfg.Sync.ActiveWindow,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		Logger:           logger.Component("app"),
	})

	sweep, err := sweeper.New(store, cfg.Sweep.Cron, cfg.Sweep.MaxAge, sweeper.WithLogger(logger.Component("sweeper")))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := websocket.NewHub(wall, notifications, wall.AllowedOrigins(), logger.Component("websocket"))
	go hub.Run(ctx)

	sweep.Start()
	defer sweep.Stop()

	serveWs := func(w http.ResponseWriter, r *http.Request) {
		websocket.ServeWs(hub, w, r)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", serveWs)
	mux.HandleFunc("/api/ws", serveWs)
	mux.Handle("/", wall.Handler())

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("storage", cfg.Storage.Driver).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve: shutdown: %w", err)
	}
	return nil
}
