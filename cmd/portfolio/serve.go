package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"folio.dev/internal/config"
	"folio.dev/internal/handlers"
	"folio.dev/internal/palette"
	"folio.dev/internal/services"
	"folio.dev/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.String("addr", "", "Listen address (overrides server.addr)")
	f.String("db", "", "SQLite database path (overrides store.path)")
	f.String("seed", "", "YAML dataset loaded at startup (overrides store.seed)")
	f.Bool("watch", false, "Reload the seed file when it changes")
	f.Bool("memory", false, "Keep content in memory instead of SQLite")
}

// applyServeFlags lays explicitly set flags over the loaded config
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("addr") {
		cfg.Server.Addr, _ = f.GetString("addr")
	}
	if f.Changed("db") {
		cfg.Store.Path, _ = f.GetString("db")
	}
	if f.Changed("seed") {
		cfg.Store.Seed, _ = f.GetString("seed")
	}
	if f.Changed("watch") {
		cfg.Store.Watch, _ = f.GetBool("watch")
	}
	if mem, _ := f.GetBool("memory"); mem {
		cfg.Store.Driver = config.DriverMemory
	}
	return cfg.Validate()
}

// openStore opens the configured store and loads the seed into it.
// An SQLite store without a readable seed keeps its existing content.
func openStore(ctx context.Context, cfg *config.Config) (store.Writer, error) {
	var st store.Writer
	switch cfg.Store.Driver {
	case config.DriverMemory:
		st = store.NewMemory()
	default:
		db, err := store.OpenSQLite(cfg.Store.Path, logger)
		if err != nil {
			return nil, err
		}
		st = db
	}

	if cfg.Store.Seed == "" {
		return st, nil
	}
	ds, err := store.LoadDataset(cfg.Store.Seed)
	if err != nil {
		if cfg.Store.Driver == config.DriverMemory {
			_ = st.Close()
			return nil, err
		}
		logger.Warn("Seed not loaded, serving stored content", zap.String("seed", cfg.Store.Seed), zap.Error(err))
		return st, nil
	}
	if err := st.Replace(ctx, ds); err != nil {
		_ = st.Close()
		return nil, err
	}
	logger.Info("Seed loaded", zap.String("seed", cfg.Store.Seed), zap.Int("projects", len(ds.Projects)))
	return st, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := applyServeFlags(cmd, cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	sampler := palette.New(palette.Options{
		Client:      &http.Client{},
		Timeout:     cfg.Palette.Timeout,
		MaxBytes:    cfg.Palette.MaxBytes,
		Concurrency: cfg.Palette.Concurrency,
		Cache:       cfg.Palette.Cache,
		Logger:      logger.Named("palette"),
	})
	projects := services.NewProjectService(st, sampler, logger.Named("projects"))
	about := services.NewAboutService(st, logger.Named("about"))

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: handlers.SetupRoutes(handlers.Deps{
			Projects:  projects,
			About:     about,
			Sampler:   sampler,
			StaticDir: cfg.Server.StaticDir,
			Logger:    logger.Named("http"),
		}),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	var watcher *store.Watcher
	if cfg.Store.Watch {
		watcher, err = store.NewWatcher(cfg.Store.Seed, st, logger.Named("watcher"), projects.Refresh)
		if err != nil {
			return fmt.Errorf("watch seed: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		projects.Refresh(gctx)
		return nil
	})

	if watcher != nil {
		g.Go(func() error { return watcher.Run(gctx) })
	}

	g.Go(func() error {
		logger.Info("Server listening", zap.String("addr", cfg.Server.Addr), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed", zap.Error(err))
			_ = srv.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}
