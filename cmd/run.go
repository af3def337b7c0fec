package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/harf/internal/app"
	"github.com/abhisek/harf/internal/ui/theme"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a review session in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	playCmd.Flags().String("stage", "", "Stage to preselect (alphabet, harakat, ...)")
	playCmd.Flags().String("difficulty", "", "Option difficulty: beginner, intermediate or advanced")
	playCmd.Flags().Bool("durable-mastery", false, "Carry streak and mastery across sessions")
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	d, err := buildDeps(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer d.Close()

	theme.Apply(cfg.Theme)
	if err := theme.Load(ctx, d.store.Settings()); err != nil {
		d.logger.Warn("using configured theme", "error", err)
	}

	d.logger.Info("starting terminal app", "stage", cfg.StageID(), "difficulty", cfg.Level(), "stages", len(d.catalog.Stages()))
	if err := app.Run(ctx, d.env()); err != nil {
		return fmt.Errorf("harf: %w", err)
	}
	return nil
}
