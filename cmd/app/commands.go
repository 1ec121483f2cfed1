package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parcellocker/cmd"
	"parcellocker/internal/adapters/out/postgres"
	"parcellocker/internal/core/application/usecases/commands"
	"parcellocker/internal/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

var serveSkipProvision bool

// serveCmd runs the API until SIGINT or SIGTERM.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and background jobs",
	Long: `Run the HTTP API and the cron jobs that clean up expired passes and
expire uncollected parcels.

On startup the schema is migrated and the locker inventory provisioned
(unless --skip-provision is given). Provisioning only adds missing lockers.`,
	RunE: runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(c *cobra.Command, _ []string) error {
		return withDatabase(func(_ cmd.Config, db *gorm.DB, log *zap.Logger) error {
			if err := postgres.Migrate(db); err != nil {
				return err
			}
			log.Info("schema migrated")
			return nil
		})
	},
}

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create the lockers listed in the inventory file",
	Long: `Create the lockers listed in LOCKERS_FILE (default configs/lockers.yaml).
Without the file the default inventory of 20 lockers, L-001..L-020, is used.
Existing lockers are left untouched.`,
	RunE: func(c *cobra.Command, _ []string) error {
		return withDatabase(func(cfg cmd.Config, db *gorm.DB, log *zap.Logger) error {
			if err := postgres.Migrate(db); err != nil {
				return err
			}
			root := cmd.NewCompositionRoot(cfg, db, log)
			defer func() { _ = root.Close() }()
			return provision(c.Context(), cfg, root, log)
		})
	},
}

func runServe(c *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withDatabase(func(cfg cmd.Config, db *gorm.DB, log *zap.Logger) error {
		if err := postgres.Migrate(db); err != nil {
			return err
		}

		root := cmd.NewCompositionRoot(cfg, db, log)
		defer func() {
			if err := root.Close(); err != nil {
				log.Warn("failed to close notifier", zap.Error(err))
			}
		}()

		if !serveSkipProvision {
			if err := provision(ctx, cfg, root, log); err != nil {
				return err
			}
		}

		jobManager, err := root.CreateJobManager()
		if err != nil {
			return err
		}
		if err = jobManager.StartAll(); err != nil {
			return err
		}
		defer jobManager.StopAll()

		e := root.CreateEcho()
		addr := net.JoinHostPort("0.0.0.0", cfg.HTTPPort)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			log.Info("http server listening", zap.String("addr", addr))
			if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
			defer cancel()

			log.Info("shutting down")
			return e.Shutdown(shutdownCtx)
		})

		return g.Wait()
	})
}

func provision(ctx context.Context, cfg cmd.Config, root *cmd.CompositionRoot, log *zap.Logger) error {
	specs, err := cmd.LoadLockerSpecs(cfg.LockersFile)
	if err != nil {
		return err
	}

	command, err := commands.NewProvisionLockersCommand(specs)
	if err != nil {
		return err
	}

	result, err := root.CreateProvisionLockersCommandHandler().Handle(ctx, command)
	if err != nil {
		return fmt.Errorf("provision lockers: %w", err)
	}

	log.Info("lockers provisioned",
		zap.Int("created", result.Created),
		zap.Int("existing", result.Existing),
	)
	return nil
}

// withDatabase loads the config, builds the logger and opens the database
// for the duration of fn.
func withDatabase(fn func(cmd.Config, *gorm.DB, *zap.Logger) error) error {
	cfg, err := cmd.LoadConfig(envFile)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := postgres.Open(cfg.DatabaseConfig())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if closeErr := postgres.Close(db); closeErr != nil {
			log.Warn("failed to close database", zap.Error(closeErr))
		}
	}()

	return fn(cfg, db, log)
}
