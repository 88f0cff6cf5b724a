package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"homeclean-backend/internal/config"
	"homeclean-backend/internal/database"
	"homeclean-backend/internal/jobs"
	"homeclean-backend/internal/supabase"
)

func newMigrateCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if list {
				names, err := database.Pending()
				if err != nil {
					return err
				}
				for _, name := range names {
					cmd.Println(name)
				}
				return nil
			}
			return withApp(func(cfg *config.Config, logger *zap.Logger) error {
				return migrate(cmd.Context(), cfg.DatabaseURL, logger)
			})
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "print embedded migrations without connecting")
	return cmd
}

func newJobCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "job <name>",
		Short: "Run a scheduled job once and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(cfg *config.Config, logger *zap.Logger) error {
				if cfg.DatabaseURL == "" {
					return errors.New("DATABASE_URL is required")
				}
				db, err := supabase.NewDatabaseClient(cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer db.Close()

				scheduler := jobs.NewScheduler(logger)
				if err := scheduler.AddJob(jobs.NewExpireStaleTasksJob(db, logger)); err != nil {
					return err
				}
				return scheduler.Trigger(cmd.Context(), args[0])
			})
		},
	}
}

func migrate(ctx context.Context, dbURL string, logger *zap.Logger) error {
	if dbURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	migrator, err := database.NewMigrator(dbURL, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	applied, err := migrator.Run(ctx)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("migrations complete", zap.Int("applied", applied))
	return nil
}
