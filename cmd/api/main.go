package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/Dysaca22/round-table/internal/config"
	"github.com/Dysaca22/round-table/internal/engine"
	"github.com/Dysaca22/round-table/internal/handler"
	"github.com/Dysaca22/round-table/internal/service/ai"
	"github.com/Dysaca22/round-table/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env is optional; the system environment alone is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load configuration", err)
	}

	logger := newLogger(cfg)

	settings, err := openSettingsStore(ctx, cfg, logger)
	if err != nil {
		fatal("failed to open settings store", err)
	}
	defer settings.Close()

	if err := seedProviderDefaults(ctx, cfg, settings); err != nil {
		logger.Warn().Err(err).Msg("failed to seed provider defaults")
	}

	gateway := ai.NewService(logger)
	eng := engine.New(gateway, logger)

	router := handler.NewRouter(eng, settings, gateway, logger)

	startServer(ctx, cfg.Server, router, logger)
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if cfg.IsDevelopment() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

// openSettingsStore opens the SQLite store, falling back to the in-memory
// store when the database cannot be opened or DB_PATH is "memory".
func openSettingsStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (store.SettingsStore, error) {
	if cfg.Store.Path == "memory" {
		logger.Info().Msg("using in-memory settings store")
		return store.NewMemoryStore(), nil
	}

	sqlite, err := store.NewSQLiteStore(ctx, cfg.Store.Path)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.Store.Path).
			Msg("sqlite unavailable, settings will not persist")
		return store.NewMemoryStore(), nil
	}
	logger.Info().Str("path", cfg.Store.Path).Msg("sqlite settings store opened")
	return sqlite, nil
}

// seedProviderDefaults copies Ark credentials from the environment into the
// persisted settings on first run. Persisted settings win once present.
func seedProviderDefaults(ctx context.Context, cfg *config.Config, settings store.SettingsStore) error {
	current, err := settings.Load(ctx)
	if err != nil {
		return err
	}
	if current.AI.APIKey != "" || cfg.AI.APIKey == "" {
		return nil
	}

	current.AI = cfg.AI.ProviderDefaults()
	return settings.Save(ctx, current)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger zerolog.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info().Str("addr", serverCfg.Addr).Msg("round table backend listening")
	if err := runServer(ctx, srv); err != nil {
		fatal("server error", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func fatal(msg string, err error) {
	l := zerolog.New(os.Stderr).With().Timestamp().Logger()
	l.Fatal().Err(err).Msg(msg)
}
