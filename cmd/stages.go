package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/harf/internal/content"
)

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List stages and their item counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := content.Load(cfg.ContentDir)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-20s  %-28s  %5s  %s\n", "ID", "Title", "Items", "Next")
		fmt.Fprintln(out, strings.Repeat("─", 72))

		total := 0
		for _, s := range content.AllStages() {
			n := cat.Count(s)
			next := content.NextStage(s)
			nextName := "-"
			if next != s {
				nextName = string(next)
			}
			fmt.Fprintf(out, "%-20s  %-28s  %5d  %s\n", s, cat.Title(s), n, nextName)
			total += n
		}
		fmt.Fprintf(out, "\n%d items in %d stages\n", total, len(cat.Stages()))
		return nil
	},
}
