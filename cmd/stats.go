package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show answer history per stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		sums, err := st.EventRepo().StageSummaries(cmd.Context())
		if err != nil {
			return fmt.Errorf("load stage summaries: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(sums) == 0 {
			fmt.Fprintln(out, "No answers recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-22s  %8s  %8s  %8s  %9s\n", "Stage", "Attempts", "Correct", "Accuracy", "Avg time")
		fmt.Fprintln(out, strings.Repeat("─", 63))

		var total store.StageSummary
		for _, s := range sums {
			name := s.Stage
			if id, ok := content.ParseStage(s.Stage); ok {
				name = content.StageDisplayName(id)
			}
			fmt.Fprintf(out, "%-22s  %8d  %8d  %7d%%  %9s\n",
				name, s.Attempts, s.Correct, s.Accuracy(), s.AvgResponseTime.Round(100*time.Millisecond))
			total.Attempts += s.Attempts
			total.Correct += s.Correct
		}

		fmt.Fprintf(out, "\n%d answers, %d%% correct\n", total.Attempts, total.Accuracy())
		return nil
	},
}
