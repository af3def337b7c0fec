package content

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed catalog/*.json
var builtinFS embed.FS

// Provider is the read-only source of learning items, keyed by stage.
type Provider interface {
	// Items returns the ordered item set for a stage. The returned slice is
	// owned by the caller.
	Items(stage StageID) ([]Item, error)
}

// StageFile is the on-disk catalog format: one stage per file.
type StageFile struct {
	Stage       StageID `json:"stage"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Items       []Item  `json:"items"`
}

// Catalog is a Provider backed by validated stage files.
type Catalog struct {
	stages map[StageID]*StageFile
}

var _ Provider = (*Catalog)(nil)

// NewCatalog builds a catalog from already-decoded stage files. Items are
// validated and stamped with their stage; duplicate IDs within a stage are
// rejected.
func NewCatalog(files ...StageFile) (*Catalog, error) {
	c := &Catalog{stages: make(map[StageID]*StageFile)}
	for _, f := range files {
		if err := c.add(f); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// LoadBuiltin loads the catalog compiled into the binary.
func LoadBuiltin() (*Catalog, error) {
	return Load("")
}

// Load loads the built-in catalog and, when dir is non-empty, every *.json
// stage file in dir. Files in dir extend the built-in stage of the same name.
func Load(dir string) (*Catalog, error) {
	c := &Catalog{stages: make(map[StageID]*StageFile)}

	entries, err := fs.Glob(builtinFS, "catalog/*.json")
	if err != nil {
		return nil, fmt.Errorf("list builtin catalog: %w", err)
	}
	sort.Strings(entries)
	for _, name := range entries {
		raw, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if err := c.addRaw(name, raw); err != nil {
			return nil, err
		}
	}

	if dir == "" {
		return c, nil
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list content dir: %w", err)
	}
	sort.Strings(paths)
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		if err := c.addRaw(p, raw); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) addRaw(name string, raw []byte) error {
	if err := ValidateStageFile(raw); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	var f StageFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	if err := c.add(f); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (c *Catalog) add(f StageFile) error {
	if _, ok := ParseStage(string(f.Stage)); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStage, f.Stage)
	}

	existing := c.stages[f.Stage]
	if existing == nil {
		existing = &StageFile{Stage: f.Stage, Title: f.Title, Description: f.Description}
		c.stages[f.Stage] = existing
	}

	seen := make(map[string]bool, len(existing.Items)+len(f.Items))
	for _, it := range existing.Items {
		seen[it.ID] = true
	}
	for _, it := range f.Items {
		it.Stage = f.Stage
		// Answers are compared verbatim against distractor pools.
		it.Letter = strings.TrimSpace(it.Letter)
		it.Arabic = strings.TrimSpace(it.Arabic)
		it.Answer = strings.TrimSpace(it.Answer)
		if err := it.Validate(); err != nil {
			return fmt.Errorf("stage %s: %w", f.Stage, err)
		}
		if seen[it.ID] {
			return fmt.Errorf("stage %s: duplicate item id %q", f.Stage, it.ID)
		}
		seen[it.ID] = true
		existing.Items = append(existing.Items, it)
	}
	return nil
}

// Items returns deep copies of the stage's items in catalog order.
func (c *Catalog) Items(stage StageID) ([]Item, error) {
	f, ok := c.stages[stage]
	if !ok {
		if _, known := ParseStage(string(stage)); !known {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStage, stage)
		}
		return nil, nil
	}
	items := make([]Item, len(f.Items))
	for i, it := range f.Items {
		items[i] = it.Clone()
	}
	return items, nil
}

// Count returns the number of items in a stage.
func (c *Catalog) Count(stage StageID) int {
	if f, ok := c.stages[stage]; ok {
		return len(f.Items)
	}
	return 0
}

// Title returns the catalog title for a stage, falling back to the display name.
func (c *Catalog) Title(stage StageID) string {
	if f, ok := c.stages[stage]; ok && f.Title != "" {
		return f.Title
	}
	return StageDisplayName(stage)
}

// Stages returns the stages that have content, in progression order.
func (c *Catalog) Stages() []StageID {
	var out []StageID
	for _, s := range AllStages() {
		if f, ok := c.stages[s]; ok && len(f.Items) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// ArabicValues returns the Arabic text of every item in a stage, skipping
// empty values. Used as the distractor pool for word and sentence stages.
func (c *Catalog) ArabicValues(stage StageID) []string {
	f, ok := c.stages[stage]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(f.Items))
	for _, it := range f.Items {
		if it.Arabic != "" {
			out = append(out, it.Arabic)
		}
	}
	return out
}
