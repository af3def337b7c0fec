package theme

import (
	"context"
	"fmt"
	"image/color"
	"slices"
	"sync"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/harf/internal/store"
)

// SettingKey is the persistence key for the selected palette.
const SettingKey = "theme"

// DefaultName is used when nothing is stored.
const DefaultName = "blue"

// Palette is a named set of accent colors. Neutrals are shared.
type Palette struct {
	Name      string
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
}

var palettes = []Palette{
	{Name: "blue", Primary: lipgloss.Color("#3B82F6"), Secondary: lipgloss.Color("#06B6D4"), Accent: lipgloss.Color("#F59E0B")},
	{Name: "green", Primary: lipgloss.Color("#10B981"), Secondary: lipgloss.Color("#84CC16"), Accent: lipgloss.Color("#F97316")},
	{Name: "purple", Primary: lipgloss.Color("#8B5CF6"), Secondary: lipgloss.Color("#14B8A6"), Accent: lipgloss.Color("#F97316")},
	{Name: "orange", Primary: lipgloss.Color("#F97316"), Secondary: lipgloss.Color("#EAB308"), Accent: lipgloss.Color("#3B82F6")},
	{Name: "gray", Primary: lipgloss.Color("#9CA3AF"), Secondary: lipgloss.Color("#64748B"), Accent: lipgloss.Color("#E5E7EB")},
}

// Names lists the available palettes in display order.
func Names() []string {
	out := make([]string, len(palettes))
	for i, p := range palettes {
		out[i] = p.Name
	}
	return out
}

// Lookup returns the palette with the given name.
func Lookup(name string) (Palette, bool) {
	i := slices.IndexFunc(palettes, func(p Palette) bool { return p.Name == name })
	if i < 0 {
		return Palette{}, false
	}
	return palettes[i], true
}

// Shared neutrals.
var (
	Success = lipgloss.Color("#22C55E") // Green
	Error   = lipgloss.Color("#F43F5E") // Rose
	Text    = lipgloss.Color("#F8FAFC") // White
	TextDim = lipgloss.Color("#94A3B8") // Slate
	BgDark  = lipgloss.Color("#0F172A") // Deep Navy
	BgCard  = lipgloss.Color("#1E293B") // Dark Slate
	Border  = lipgloss.Color("#334155") // Slate
)

// Active palette colors. Set by Apply.
var (
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	current   string
)

// Styles derived from the active palette. Rebuilt by Apply.
var (
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Body       lipgloss.Style
	Hint       lipgloss.Style
	Card       lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Correct    lipgloss.Style
	Incorrect  lipgloss.Style
	Arabic     lipgloss.Style
)

var mu sync.Mutex

func init() {
	Apply(DefaultName)
}

// Apply switches the active palette. Unknown names fall back to the
// default and report false.
func Apply(name string) bool {
	mu.Lock()
	defer mu.Unlock()

	p, ok := Lookup(name)
	if !ok {
		p, _ = Lookup(DefaultName)
	}
	Primary, Secondary, Accent = p.Primary, p.Secondary, p.Accent
	current = p.Name

	Title = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Body = lipgloss.NewStyle().Foreground(Text)
	Hint = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(1, 2)
	Selected = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Correct = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)
	Arabic = lipgloss.NewStyle().Foreground(Text).Bold(true).Align(lipgloss.Center)
	return ok
}

// Current returns the active palette name.
func Current() string {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// Load applies the stored palette, if any.
func Load(ctx context.Context, kv store.KV) error {
	name, ok, err := kv.Load(ctx, SettingKey)
	if err != nil {
		return fmt.Errorf("load theme: %w", err)
	}
	if ok {
		Apply(name)
	}
	return nil
}

// Save applies and persists a palette.
func Save(ctx context.Context, kv store.KV, name string) error {
	if _, ok := Lookup(name); !ok {
		return fmt.Errorf("unknown theme %q", name)
	}
	Apply(name)
	if err := kv.Save(ctx, SettingKey, name); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// Next returns the palette after the current one, wrapping around.
func Next() string {
	names := Names()
	i := slices.Index(names, Current())
	return names[(i+1)%len(names)]
}
