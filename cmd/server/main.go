// @title           HomeClean Backend API
// @version         1.0.0
// @description     Backend API for the HomeClean marketplace. House owners post cleaning tasks for their properties, cleaners accept and complete them, and payments settle through Stripe.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"homeclean-backend/internal/config"
	"homeclean-backend/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "homeclean",
		Short:         "HomeClean marketplace API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(func(cfg *config.Config, logger *zap.Logger) error {
				return serve(cmd.Context(), cfg, logger)
			})
		},
	}
	root.AddCommand(newMigrateCmd(), newJobCmd())
	return root
}

// withApp loads configuration and a logger, and flushes the logger on exit.
func withApp(fn func(*config.Config, *zap.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	return fn(cfg, logger)
}
