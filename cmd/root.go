package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"billing-service/internal/repository"
	"billing-service/pkg/config"
	"billing-service/pkg/database"
	"billing-service/pkg/logger"
)

var version = "1.0.0"

var (
	appConfig *config.Config
	log       *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "billing-service",
	Short: "GST billing, inventory and purchasing backend",
	Long: `billing-service keeps the inventory, bills, purchases, customers and
suppliers of a building-materials shop and computes GST on every document.

Configuration is read from the environment and from a .env file in the
working directory.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		appConfig, err = config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		log, err = logger.InitLogger(appConfig)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// openRepository connects to the database and migrates the schema
func openRepository(ctx context.Context) (*gorm.DB, *repository.GormRepository, error) {
	db, err := database.Open(appConfig.DB)
	if err != nil {
		return nil, nil, err
	}

	repo := repository.NewGormRepository(db)
	migrateCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := repo.Migrate(migrateCtx); err != nil {
		_ = database.Close(db)
		return nil, nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, repo, nil
}
