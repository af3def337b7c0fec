package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/spacedrep"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List items due for review",
	Long:  "List items whose review date has passed, most overdue first. Requires durable mastery to have recorded progress.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var stage content.StageID
		if s, _ := cmd.Flags().GetString("stage"); s != "" {
			id, ok := content.ParseStage(s)
			if !ok {
				return fmt.Errorf("%w: %q", content.ErrUnknownStage, s)
			}
			stage = id
		}
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		sched, err := spacedrep.LoadScheduler(cmd.Context(), st.ProgressRepo())
		if err != nil {
			return err
		}
		now := time.Now()
		due := sched.DueItems(now, stage)

		out := cmd.OutOrStdout()
		if len(due) == 0 {
			fmt.Fprintln(out, "Nothing due. Come back later.")
			return nil
		}

		fmt.Fprintf(out, "%-22s  %-24s  %-16s  %8s\n", "Stage", "Item", "Due since", "Overdue")
		fmt.Fprintln(out, strings.Repeat("─", 76))
		for i, rs := range due {
			if limit > 0 && i == limit {
				fmt.Fprintf(out, "... and %d more\n", len(due)-limit)
				break
			}
			fmt.Fprintf(out, "%-22s  %-24s  %-16s  %7.1fd\n",
				content.StageDisplayName(rs.Stage), rs.ItemID,
				rs.NextReview.Local().Format("2006-01-02 15:04"), rs.OverdueDays(now))
		}
		fmt.Fprintf(out, "\n%d items due\n", len(due))
		return nil
	},
}

func init() {
	dueCmd.Flags().String("stage", "", "Only list items of this stage")
	dueCmd.Flags().Int("limit", 50, "Maximum rows to print (0 = all)")
}
