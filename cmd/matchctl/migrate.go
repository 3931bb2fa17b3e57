package main

import (
	"context"
	"fmt"

	"talent-match/internal/database"
	"talent-match/internal/database/migration"

	"github.com/spf13/cobra"
)

var (
	migrateDir    string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDB(cmd, func(ctx context.Context, e env, db database.DB) error {
			r := migration.Runner{Dir: migrateDir, Logger: e.log}

			var (
				migs []migration.Migration
				err  error
			)
			if migrateDryRun {
				migs, err = r.Pending(ctx, db.SQLDB())
			} else {
				migs, err = r.Run(ctx, db.SQLDB())
			}
			if err != nil {
				return err
			}

			verb := "applied"
			if migrateDryRun {
				verb = "pending"
			}
			out := cmd.OutOrStdout()
			if len(migs) == 0 {
				fmt.Fprintf(out, "no migrations %s\n", verb)
				return nil
			}
			for _, m := range migs {
				fmt.Fprintf(out, "%s V%d %s\n", verb, m.Version, m.Name)
			}
			return nil
		})
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateDir, "dir", "migrations", "directory holding V<n>__<name>.sql files")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "list pending migrations without applying them")
	rootCmd.AddCommand(migrateCmd)
}
