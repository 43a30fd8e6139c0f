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

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	router "github.com/dkeye/Lobby/internal/adapters/http"
	"github.com/dkeye/Lobby/internal/app"
	"github.com/dkeye/Lobby/internal/app/orch"
	"github.com/dkeye/Lobby/internal/config"
	"github.com/dkeye/Lobby/internal/core"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Mode == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	policy, err := app.ParsePolicy(cfg.Backpressure)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid backpressure policy")
	}
	hub := app.NewHub(policy)
	rooms := core.NewRegistry(hub)
	o := orch.New(rooms, hub, orch.Defaults{
		Config:    cfg.Room.Defaults(),
		TeamCount: cfg.Room.TeamCount,
	})

	r := router.SetupRouter(ctx, cfg, o)
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("Lobby server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		runJanitor(gctx, o, cfg.Janitor)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
	log.Info().Msg("Server exited gracefully")
}

// runJanitor evicts finished and abandoned rooms until ctx is done.
func runJanitor(ctx context.Context, o *orch.Orchestrator, cfg config.JanitorConfig) {
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := o.Sweep(now, cfg.IdleTTL); len(removed) > 0 {
				log.Info().Str("module", "janitor").Int("rooms", len(removed)).Msg("sweep done")
			}
		}
	}
}
