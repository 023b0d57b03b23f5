package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tomlord1122/tracker-backend/internal/analytics"
	"github.com/Tomlord1122/tracker-backend/internal/cache"
	"github.com/Tomlord1122/tracker-backend/internal/config"
	"github.com/Tomlord1122/tracker-backend/internal/database"
	"github.com/Tomlord1122/tracker-backend/internal/logger"
	"github.com/Tomlord1122/tracker-backend/internal/repository"
	"github.com/Tomlord1122/tracker-backend/internal/server"
	"github.com/Tomlord1122/tracker-backend/internal/service"
)

// shutdownTimeout is how long in-flight requests get to finish.
const shutdownTimeout = 5 * time.Second

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var migrate bool

	serve := func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), configPath, migrate)
	}

	root := &cobra.Command{
		Use:          "tracker",
		Short:        "Personal progress tracker API",
		SilenceUsage: true,
		RunE:         serve,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	root.Flags().BoolVar(&migrate, "migrate", true, "auto-migrate the schema before serving")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE:  serve,
	}
	serveCmd.Flags().BoolVar(&migrate, "migrate", true, "auto-migrate the schema before serving")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), configPath)
		},
	}

	root.AddCommand(serveCmd, migrateCmd)
	return root
}

// bootstrap loads the config and builds the logger.
func bootstrap(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func runMigrate(ctx context.Context, configPath string) error {
	cfg, log, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	dbService, err := database.New(cfg.Database, log)
	if err != nil {
		log.Error("database connection failed", zap.Error(err))
		return err
	}
	defer dbService.Close()

	if err := dbService.Migrate(ctx); err != nil {
		log.Error("migration failed", zap.Error(err))
		return err
	}
	return nil
}

func runServe(ctx context.Context, configPath string, migrate bool) error {
	cfg, log, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.Server.Timezone, err)
	}
	opts, err := analyticsOptions(cfg.Habits)
	if err != nil {
		return err
	}

	dbService, err := database.New(cfg.Database, log)
	if err != nil {
		log.Error("database connection failed", zap.Error(err))
		return err
	}
	if migrate {
		if err := dbService.Migrate(ctx); err != nil {
			_ = dbService.Close()
			return err
		}
	}

	listCache := cache.New(cfg.Redis)
	if cfg.Redis.Enabled() {
		log.Info("list cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.TTL))
	}

	repos := repository.NewGormRepositories(dbService.GetDB())
	services := service.New(repos, listCache, opts, service.NewClock(loc, nil), log)
	apiServer := server.NewServer(cfg.Server, services, dbService, log)

	// The first signal starts a graceful shutdown; a second one kills the process.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	context.AfterFunc(ctx, stop)

	log.Info("starting server", zap.String("addr", apiServer.Addr), zap.String("timezone", loc.String()))
	return runServer(ctx, apiServer, log, listCache, dbService)
}

func analyticsOptions(cfg config.HabitsConfig) (analytics.Options, error) {
	rule, err := analytics.ParseStreakRule(cfg.StreakRule)
	if err != nil {
		return analytics.Options{}, err
	}
	return analytics.Options{
		Rule:     rule,
		Lookback: cfg.StreakLookbackDays,
		Window:   cfg.CompletionWindowDays,
	}, nil
}

// runServer serves until ctx is done or the listener fails. Either way every
// resource is closed before it returns.
func runServer(ctx context.Context, apiServer *http.Server, log *zap.Logger, resources ...io.Closer) error {
	defer closeAll(log, resources)

	serveErr := make(chan error, 1)
	go func() { serveErr <- apiServer.ListenAndServe() }()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server ListenAndServe error", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down gracefully, press Ctrl+C again to force")
	ctxTimeout, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Warn("server forced to shutdown", zap.Error(err))
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("HTTP server ListenAndServe error", zap.Error(err))
		return err
	}
	log.Info("graceful shutdown complete")
	return nil
}

func closeAll(log *zap.Logger, resources []io.Closer) {
	for _, r := range resources {
		if err := r.Close(); err != nil {
			log.Warn("error closing resource", zap.String("resource", fmt.Sprintf("%T", r)), zap.Error(err))
		}
	}
}
