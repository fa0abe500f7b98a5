package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/planner/internal/application"
	"github.com/example/planner/internal/config"
	httptransport "github.com/example/planner/internal/http"
	"github.com/example/planner/internal/logging"
	"github.com/example/planner/internal/persistence/sqlstore"
	"github.com/example/planner/internal/seed"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("planner exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("planner", flag.ContinueOnError)
	seedPath := flags.String("seed", "", "YAML file with users, lists and tasks to insert before serving")
	migrateOnly := flags.Bool("migrate-only", false, "apply migrations (and the seed file) then exit")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.New(cfg.Log)
	slog.SetDefault(logger)
	httptransport.SetMode(cfg.Log.Level)

	store, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if *seedPath != "" {
		if err := applySeed(ctx, store, *seedPath, time.Now().UTC(), logger); err != nil {
			return err
		}
	}
	if *migrateOnly {
		logger.InfoContext(ctx, "migrations applied, exiting")
		return nil
	}

	server := httptransport.NewServer(cfg.Server, newHandler(store, cfg.Cache, time.Now, logger), logger)
	return server.Run(ctx)
}

func openStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sqlstore.Store, error) {
	store, err := sqlstore.Open(ctx, sqlstore.Config{
		Driver:          cfg.Driver,
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return store, nil
}

func applySeed(ctx context.Context, store *sqlstore.Store, path string, now time.Time, logger *slog.Logger) error {
	file, err := seed.Load(path)
	if err != nil {
		return err
	}
	result, err := seed.Apply(ctx, store, file, now)
	if err != nil {
		return fmt.Errorf("failed to apply seed %s: %w", path, err)
	}
	logger.InfoContext(ctx, "seed applied",
		"path", path,
		"users", len(file.Users),
		"event_lists", len(result.EventLists),
		"task_lists", len(result.TaskLists),
		"tasks", len(result.Tasks),
	)
	return nil
}

// newHandler wires the event service over store and returns the routed API.
func newHandler(store *sqlstore.Store, cache config.CacheConfig, now func() time.Time, logger *slog.Logger) http.Handler {
	events := application.NewEventServiceWithOptions(
		newEventListDirectoryAdapter(store),
		newEventRepositoryAdapter(store),
		newTaskDirectoryAdapter(store),
		now,
		application.EventServiceOptions{
			CalendarCacheTTL:  cache.TTL,
			CalendarCacheSize: cache.Size,
			AfterTransaction:  store.AfterTransaction,
			Logger:            logger,
		},
	)

	return httptransport.NewRouter(httptransport.RouterConfig{
		Events:   httptransport.NewEventHandler(events, store, logger),
		Calendar: httptransport.NewCalendarHandler(events, now, logger),
		Health:   httptransport.NewHealthHandler(store, logger),
		Logger:   logger,
	})
}
