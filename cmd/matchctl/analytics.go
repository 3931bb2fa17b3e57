package main

import (
	"context"

	"talent-match/internal/app"

	"github.com/spf13/cobra"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Print score analytics for a candidate or an opportunity",
}

var analyticsCandidateCmd = &cobra.Command{
	Use:   "candidate <id>",
	Short: "Summarize a candidate's persisted scores",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("candidate", args[0])
		if err != nil {
			return err
		}
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			out, err := c.Matching.GetCandidateAnalytics(ctx, id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		})
	},
}

var analyticsJobCmd = &cobra.Command{
	Use:   "job <id>",
	Short: "Summarize an opportunity's persisted scores",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("job", args[0])
		if err != nil {
			return err
		}
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			out, err := c.Matching.GetJobAnalytics(ctx, id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		})
	},
}

func init() {
	analyticsCmd.AddCommand(analyticsCandidateCmd, analyticsJobCmd)
	rootCmd.AddCommand(analyticsCmd)
}
