package main

import (
	"github.com/spf13/cobra"

	"billing-service/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer database.Close(db)

		log.Info("Schema migrated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
