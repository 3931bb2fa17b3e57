package main

import (
	"context"

	"talent-match/internal/app"
	"talent-match/internal/usecase"

	"github.com/spf13/cobra"
)

var recalculateCmd = &cobra.Command{
	Use:   "recalculate",
	Short: "Recompute and persist scores for a candidate or an opportunity",
}

var recalculateCandidateCmd = &cobra.Command{
	Use:   "candidate <id>",
	Short: "Rescore a candidate against every active opportunity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("candidate", args[0])
		if err != nil {
			return err
		}
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			res, err := c.Matching.UpdateCandidateScores(ctx, id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summarize(res))
		})
	},
}

var recalculateJobCmd = &cobra.Command{
	Use:   "job <id>",
	Short: "Rescore an opportunity against every eligible candidate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("job", args[0])
		if err != nil {
			return err
		}
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			res, err := c.Matching.UpdateJobScores(ctx, id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summarize(res))
		})
	},
}

type pairLine struct {
	CandidateID  string `json:"candidate_id"`
	JobID        string `json:"job_id"`
	OverallScore *int   `json:"overall_score,omitempty"`
	Error        string `json:"error,omitempty"`
}

type batchSummary struct {
	Succeeded int        `json:"succeeded"`
	Failed    int        `json:"failed"`
	Pairs     []pairLine `json:"pairs"`
}

func summarize(res usecase.BatchResult) batchSummary {
	out := batchSummary{Succeeded: res.Succeeded, Failed: res.Failed, Pairs: make([]pairLine, 0, len(res.Results))}
	for _, r := range res.Results {
		line := pairLine{CandidateID: r.CandidateID.String(), JobID: r.JobID.String()}
		if r.OK() {
			v := r.OverallScore
			line.OverallScore = &v
		} else {
			line.Error = r.Err.Error()
		}
		out.Pairs = append(out.Pairs, line)
	}
	return out
}

func init() {
	recalculateCmd.AddCommand(recalculateCandidateCmd, recalculateJobCmd)
	rootCmd.AddCommand(recalculateCmd)
}
