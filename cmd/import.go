package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/harf/internal/content"
)

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx|file.csv>",
	Short: "Convert a spreadsheet into a stage file",
	Long: `Convert an Excel or CSV sheet into a stage JSON file. The first row
names the columns (id, kind, difficulty, letter, arabic, audio, question,
answer, name, transliteration, meaning, description, options). Place the
output in content_dir to extend the built-in catalog.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stageFlag, _ := cmd.Flags().GetString("stage")
		stage, ok := content.ParseStage(stageFlag)
		if !ok {
			return fmt.Errorf("%w: %q", content.ErrUnknownStage, stageFlag)
		}
		sheet, _ := cmd.Flags().GetString("sheet")
		kind, _ := cmd.Flags().GetString("kind")
		out, _ := cmd.Flags().GetString("out")

		level := content.Beginner
		if d, _ := cmd.Flags().GetString("difficulty"); d != "" {
			if level, ok = content.ParseDifficulty(d); !ok {
				return fmt.Errorf("unknown difficulty %q", d)
			}
		}

		res, err := content.ImportSpreadsheet(content.ImportConfig{
			FilePath:   args[0],
			Stage:      stage,
			SheetName:  sheet,
			Difficulty: level,
			Kind:       content.Kind(kind),
		})
		if err != nil {
			return fmt.Errorf("import %s: %w", args[0], err)
		}

		w := cmd.OutOrStdout()
		for _, e := range res.Errors {
			fmt.Fprintln(w, "skipped:", e)
		}
		fmt.Fprintf(w, "%d rows, %d imported, %d skipped\n", res.TotalProcessed, res.Imported, res.Skipped)
		if res.Imported == 0 {
			return errors.New("nothing to write")
		}

		if out == "" {
			out = string(stage) + ".json"
		}
		if err := content.WriteStageFile(out, res.File); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		abs, _ := filepath.Abs(out)
		fmt.Fprintln(w, "wrote", abs)
		return nil
	},
}

func init() {
	importCmd.Flags().String("stage", "", "Target stage (required)")
	importCmd.Flags().String("sheet", "", "Sheet name for xlsx files (default: first sheet)")
	importCmd.Flags().String("kind", "", "Item kind for rows without a kind column")
	importCmd.Flags().String("difficulty", "", "Difficulty for rows without a difficulty column")
	importCmd.Flags().StringP("out", "o", "", "Output path (default: <stage>.json)")
	importCmd.MarkFlagRequired("stage")
}
