// Command masctl runs maintenance tasks against the MASGOLF database and server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/masgolf/backend/internal/infrastructure/config"
	"github.com/masgolf/backend/internal/infrastructure/logger"
	"github.com/masgolf/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logLevel string

// env is the configuration, logger and database shared by database commands
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *persistence.Database
}

func (e *env) Close() {
	if e.db != nil {
		_ = e.db.Close()
	}
	_ = e.log.Sync()
}

// openEnv loads config.toml / MAS_* variables and connects to the database
func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := newLogger()
	if err != nil {
		return nil, err
	}
	// keep SQL traces out of command output unless asked for
	db, err := persistence.NewDatabase(&cfg.Database, log, logLevel)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func newLogger() (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "15:04:05",
	})
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "masctl",
		Short:         "MASGOLF operations CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.AddCommand(
		newNormalizePhonesCmd(),
		newExportCampaignCmd(),
		newMigrateImagesCmd(),
		newSmokeLoginCmd(),
		newSeedCmd(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "masctl:", err)
		os.Exit(1)
	}
}
