package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stwalsh4118/marquee/internal/db"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.migrate(cmd); err != nil {
				return err
			}
			return printVersion(cmd, ctx)
		},
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printVersion(cmd, ctx)
		},
	})

	return migrateCmd
}

func printVersion(cmd *cobra.Command, ctx *commandContext) error {
	database, err := ctx.database(cmd)
	if err != nil {
		return err
	}
	sqlDB, err := database.GetSQLDB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	version, dirty, err := db.MigrationVersion(sqlDB, ctx.config.Database.MigrationsPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if version == 0 {
		fmt.Fprintln(out, "Schema version: none")
		return nil
	}
	fmt.Fprintf(out, "Schema version: %d (dirty: %s)\n", version, yesNo(dirty))
	return nil
}
