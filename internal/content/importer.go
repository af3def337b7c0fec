package content

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportConfig controls how a spreadsheet is turned into a stage file.
type ImportConfig struct {
	FilePath   string            // .xlsx or .csv
	Stage      StageID           // target stage
	SheetName  string            // xlsx only; defaults to the first sheet
	Difficulty Difficulty        // used when a row has no difficulty column
	Kind       Kind              // used when a row has no kind column
	Columns    map[string]string // header name overrides: field -> header
}

// ImportResult summarizes an import run.
type ImportResult struct {
	File           StageFile
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// Recognised header names. Matching is case-insensitive.
var importFields = []string{
	"id", "kind", "difficulty", "letter", "arabic", "audio", "question",
	"answer", "name", "transliteration", "meaning", "description", "options",
}

// ImportSpreadsheet reads rows from an Excel or CSV file. The first row is
// the header. Rows that fail validation are skipped and reported.
func ImportSpreadsheet(cfg ImportConfig) (*ImportResult, error) {
	if _, ok := ParseStage(string(cfg.Stage)); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, cfg.Stage)
	}
	if cfg.Difficulty == "" {
		cfg.Difficulty = Beginner
	}
	if cfg.Kind == "" {
		cfg.Kind = defaultKind(cfg.Stage)
	}

	var (
		rows [][]string
		err  error
	)
	if strings.EqualFold(filepath.Ext(cfg.FilePath), ".csv") {
		rows, err = readCSV(cfg.FilePath)
	} else {
		rows, err = readXLSX(cfg.FilePath, cfg.SheetName)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("spreadsheet is empty")
	}

	index := headerIndex(rows[0], cfg.Columns)
	if _, ok := index["letter"]; !ok {
		if _, ok := index["arabic"]; !ok {
			if _, ok := index["answer"]; !ok {
				return nil, errors.New("header needs a letter, arabic or answer column")
			}
		}
	}

	res := &ImportResult{File: StageFile{Stage: cfg.Stage, Title: StageDisplayName(cfg.Stage)}}
	seen := make(map[string]bool)
	for i, row := range rows[1:] {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}
		res.TotalProcessed++

		it := rowItem(row, index, cfg)
		if it.ID == "" {
			it.ID = fmt.Sprintf("%s-%03d", cfg.Stage, rowNum-1)
		}
		if seen[it.ID] {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: duplicate id %q", rowNum, it.ID))
			continue
		}
		if err := it.Validate(); err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		seen[it.ID] = true
		it.Stage = ""
		res.File.Items = append(res.File.Items, it)
		res.Imported++
	}
	return res, nil
}

// WriteStageFile encodes f as indented JSON, checks it against the stage
// schema and writes it to path.
func WriteStageFile(path string, f StageFile) error {
	raw, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode stage file: %w", err)
	}
	if err := ValidateStageFile(raw); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, append(raw, '\n'), 0o644)
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func headerIndex(header []string, overrides map[string]string) map[string]int {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.ToLower(strings.TrimSpace(h))] = i
	}
	index := make(map[string]int)
	for _, field := range importFields {
		name := field
		if o, ok := overrides[field]; ok && o != "" {
			name = strings.ToLower(o)
		}
		if i, ok := pos[name]; ok {
			index[field] = i
		}
	}
	return index
}

func rowItem(row []string, index map[string]int, cfg ImportConfig) Item {
	get := func(field string) string {
		i, ok := index[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	it := Item{
		ID:              get("id"),
		Kind:            Kind(get("kind")),
		Letter:          get("letter"),
		Arabic:          get("arabic"),
		Audio:           get("audio"),
		Question:        get("question"),
		Answer:          get("answer"),
		Name:            get("name"),
		Transliteration: get("transliteration"),
		Meaning:         get("meaning"),
		Description:     get("description"),
	}
	if it.Kind == "" {
		it.Kind = cfg.Kind
	}
	if d, ok := ParseDifficulty(strings.ToLower(get("difficulty"))); ok {
		it.Difficulty = d
	} else {
		it.Difficulty = cfg.Difficulty
	}
	if opts := get("options"); opts != "" {
		for _, o := range strings.Split(opts, "|") {
			if o = strings.TrimSpace(o); o != "" {
				it.SuppliedOptions = append(it.SuppliedOptions, o)
			}
		}
	}
	return it
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func defaultKind(stage StageID) Kind {
	switch stage {
	case StageAlphabet, StageLongVowels, StageSukunTanwin:
		return KindLetter
	case StageWordRoots:
		return KindRoot
	case StageSimpleSentence:
		return KindSentence
	case StageQuranic:
		return KindQuranic
	case StageListening:
		return KindListeningWord
	default:
		return KindWord
	}
}
