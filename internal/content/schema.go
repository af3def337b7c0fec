package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrInvalidCatalog wraps schema violations in a stage file.
var ErrInvalidCatalog = errors.New("invalid catalog file")

const stageFileSchemaURL = "schema://harf/stage-file.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func stageNames() []any {
	out := make([]any, 0, len(AllStages()))
	for _, s := range AllStages() {
		out = append(out, string(s))
	}
	return out
}

func kindNames() []any {
	kinds := []Kind{
		KindLetter, KindWord, KindRoot, KindSentence, KindQuranic,
		KindListeningLetter, KindListeningSyllable, KindListeningWord,
		KindListeningSentence, KindListeningContext,
		KindDictationLetter, KindDictationSyllable, KindDictationWord, KindDictationSentence,
	}
	out := make([]any, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, string(k))
	}
	return out
}

// stageFileSchema describes the JSON layout of a catalog stage file.
func stageFileSchema() map[string]any {
	str := map[string]any{"type": "string"}
	return map[string]any{
		"type":     "object",
		"required": []any{"stage", "items"},
		"properties": map[string]any{
			"stage":       map[string]any{"enum": stageNames()},
			"title":       str,
			"description": str,
			"items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"id", "kind", "difficulty"},
					"properties": map[string]any{
						"id":              map[string]any{"type": "string", "minLength": 1},
						"kind":            map[string]any{"enum": kindNames()},
						"difficulty":      map[string]any{"enum": []any{"beginner", "intermediate", "advanced"}},
						"letter":          str,
						"arabic":          str,
						"audio":           str,
						"question":        str,
						"answer":          str,
						"name":            str,
						"transliteration": str,
						"meaning":         str,
						"description":     str,
						"options": map[string]any{
							"type":  "array",
							"items": str,
						},
					},
					"anyOf": []any{
						map[string]any{"required": []any{"letter"}},
						map[string]any{"required": []any{"arabic"}},
						map[string]any{"required": []any{"audio"}},
						map[string]any{"required": []any{"question"}},
					},
				},
			},
		},
	}
}

func compiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants decoded JSON values, not Go literals.
		defBytes, err := json.Marshal(stageFileSchema())
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(defBytes, &def); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(stageFileSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(stageFileSchemaURL)
	})
	return compiledSchema, compileErr
}

// ValidateStageFile checks raw JSON against the stage file schema.
func ValidateStageFile(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("%w: invalid JSON: %w", ErrInvalidCatalog, err)
	}
	sch, err := compiled()
	if err != nil {
		return fmt.Errorf("compile stage schema: %w", err)
	}
	if err := sch.Validate(parsed); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	return nil
}
