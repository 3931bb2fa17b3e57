package main

import (
	"context"
	"fmt"

	"talent-match/internal/database"
	"talent-match/internal/database/seeder"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo candidates and opportunities",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDB(cmd, func(ctx context.Context, e env, db database.DB) error {
			r := seeder.Runner{Seeders: seeder.Defaults(), Logger: e.log}
			if err := r.Run(ctx, db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seed complete")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
