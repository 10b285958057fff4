package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/nepkart/database/seeders"
	"github.com/shashiranjanraj/nepkart/pkg/app"
	"github.com/shashiranjanraj/nepkart/pkg/database"
)

// dbCommand builds a command that boots config, logging and the database
// before calling run with the command's stdout.
func dbCommand(use, short string, run func(out io.Writer, db *gorm.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cleanup, err := app.Boot()
			defer cleanup()
			if err != nil {
				return err
			}
			return run(cmd.OutOrStdout(), database.DB)
		},
	}
}

var (
	migrateCmd         = dbCommand("migrate", "Apply pending migrations", app.Migrate)
	migrateRollbackCmd = dbCommand("migrate:rollback", "Revert the most recent migration batch", app.Rollback)
	migrateStatusCmd   = dbCommand("migrate:status", "List migrations and whether they ran", app.MigrationStatus)
	seedCmd            = dbCommand("seed", "Create the admin account and starter catalog", seed)
)

func seed(out io.Writer, db *gorm.DB) error {
	done, err := seeders.RunAll(db)
	for _, name := range done {
		fmt.Fprintf(out, "Seeded:  %s\n", name)
	}
	return err
}
