package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"billing-service/internal/repository"
	"billing-service/internal/service"
	"billing-service/pkg/database"
	"billing-service/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample catalog into an empty inventory",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, repo, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer database.Close(db)

		added, err := seedInventory(cmd.Context(), repo)
		if err != nil {
			return err
		}
		log.Info("Sample inventory loaded", zap.Int("added", added))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func seedInventory(ctx context.Context, repo repository.Repository) (int, error) {
	return service.SeedSampleInventory(logger.WithContext(ctx, log), repo)
}
