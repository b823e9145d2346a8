package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/shipr/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show journaled releases",
	Long:  "Show journaled releases (version, tag, coverage, outcome, timestamp)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		dbConn, err := history.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()

		rels, err := history.NewRepository(dbConn).List(limit)
		if err != nil {
			return err
		}
		if len(rels) == 0 {
			fmt.Println("no releases recorded")
			return nil
		}
		for _, r := range rels {
			cov := "-"
			if r.Coverage.Valid {
				cov = fmt.Sprintf("%.0f%%", r.Coverage.Float64)
			}
			outcome := r.Outcome
			if r.Outcome == history.OutcomeFailed && r.FailedState.Valid {
				outcome = fmt.Sprintf("%s@%s", r.Outcome, r.FailedState.String)
			}
			fmt.Printf("%s\t%s\tcov %s\t%s\t%s\n", r.Version, r.Tag, cov, outcome, r.CreatedAt)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum entries to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}
