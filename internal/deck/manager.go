// Package deck owns the working set of a review session: the main deck, the
// wrong stack, and the transitions between them as answers arrive.
package deck

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/options"
	"github.com/abhisek/harf/internal/spacedrep"
	"github.com/abhisek/harf/internal/stats"
)

var (
	// ErrNoCurrentItem is returned by Submit when there is nothing to answer.
	ErrNoCurrentItem = errors.New("no current item")

	// ErrNotInitialized is returned by Restart before any Initialize.
	ErrNotInitialized = errors.New("deck not initialized")
)

// State is the deck lifecycle state.
type State int

const (
	StateEmpty State = iota
	StateActive
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateComplete:
		return "complete"
	default:
		return "empty"
	}
}

// OptionGenerator builds the option set for an item.
type OptionGenerator interface {
	Generate(it *content.Item, level content.Difficulty) []string
}

// Result describes the outcome of one submission.
type Result struct {
	Correct         bool
	Item            content.Item // the updated item
	Selected        string
	CorrectAnswer   string
	Retired         bool // mastered and removed from the session
	Recycled        bool // the wrong stack was shuffled back into the main deck
	SessionComplete bool
}

// Manager is the deck state machine. It is not safe for concurrent use;
// a session has exactly one writer.
type Manager struct {
	provider content.Provider
	gen      OptionGenerator
	rng      options.Source
	params   spacedrep.Params
	now      func() time.Time

	stage      content.StageID
	difficulty content.Difficulty
	state      State

	catalog []content.Item // canonical copy for statistics
	index   map[string]int // item ID -> catalog position
	main    []content.Item
	wrong   []content.Item
	retired map[string]bool

	score    int
	attempts int
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithParams overrides the mastery and scheduling rules.
func WithParams(p spacedrep.Params) Option {
	return func(m *Manager) { m.params = p }
}

// New returns an empty manager.
func New(provider content.Provider, gen OptionGenerator, rng options.Source, opts ...Option) *Manager {
	m := &Manager{
		provider: provider,
		gen:      gen,
		rng:      rng,
		params:   spacedrep.DefaultParams(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Initialize loads the stage, attaches fresh options to every item,
// shuffles, and resets the wrong stack and counters. An empty stage leaves
// the deck complete.
func (m *Manager) Initialize(stage content.StageID, difficulty content.Difficulty) error {
	items, err := m.provider.Items(stage)
	if err != nil {
		m.reset()
		return fmt.Errorf("load stage %s: %w", stage, err)
	}

	m.reset()
	m.stage = stage
	m.difficulty = difficulty

	m.catalog = make([]content.Item, len(items))
	m.index = make(map[string]int, len(items))
	for i, it := range items {
		it.Stage = stage
		it.Options = m.gen.Generate(&it, difficulty)
		m.catalog[i] = it
		m.index[it.ID] = i
	}

	m.main = make([]content.Item, len(m.catalog))
	for i := range m.catalog {
		m.main[i] = m.catalog[i].Clone()
	}
	options.Shuffle(m.rng, m.main)

	if len(m.main) == 0 {
		m.state = StateComplete
	} else {
		m.state = StateActive
	}
	return nil
}

// Restart reinitializes with the same stage and difficulty.
func (m *Manager) Restart() error {
	if m.stage == "" {
		return ErrNotInitialized
	}
	return m.Initialize(m.stage, m.difficulty)
}

func (m *Manager) reset() {
	m.state = StateEmpty
	m.catalog = nil
	m.index = nil
	m.main = nil
	m.wrong = nil
	m.retired = make(map[string]bool)
	m.score = 0
	m.attempts = 0
}

// Submit grades the current item against selected and advances the deck.
// It fails with ErrNoCurrentItem, without touching state, when the deck is
// empty or complete.
func (m *Manager) Submit(selected string, responseTime time.Duration) (Result, error) {
	if len(m.main) == 0 {
		return Result{}, ErrNoCurrentItem
	}

	cur := m.main[0]
	answer := cur.CorrectAnswer()
	correct := selected == answer

	m.attempts++
	if correct {
		m.score++
	}

	updated := m.params.Update(cur, correct, responseTime, m.now())
	m.main = m.main[1:]

	res := Result{
		Correct:       correct,
		Item:          updated,
		Selected:      selected,
		CorrectAnswer: answer,
	}

	switch {
	case correct && updated.Mastery == 0:
		m.main = append(m.main, updated)
	case correct:
		m.retired[updated.ID] = true
		res.Retired = true
	default:
		m.wrong = append(m.wrong, updated)
	}

	if i, ok := m.index[updated.ID]; ok {
		m.catalog[i] = updated.Clone()
	}

	// The wrong stack here already includes this call's push.
	if len(m.main) == 0 {
		if len(m.wrong) == 0 {
			m.state = StateComplete
			res.SessionComplete = true
		} else {
			options.Shuffle(m.rng, m.wrong)
			m.main = m.wrong
			m.wrong = nil
			res.Recycled = true
		}
	}

	return res, nil
}

// Current returns the item at the front of the main deck.
func (m *Manager) Current() (content.Item, bool) {
	if len(m.main) == 0 {
		return content.Item{}, false
	}
	return m.main[0].Clone(), true
}

// Options returns the option set of the current item.
func (m *Manager) Options() []string {
	if len(m.main) == 0 {
		return nil
	}
	return append([]string(nil), m.main[0].Options...)
}

// Stats derives the session statistics.
func (m *Manager) Stats() stats.Stats {
	return stats.Compute(stats.Input{
		Score:      m.score,
		Attempts:   m.attempts,
		MainDeck:   len(m.main),
		WrongStack: len(m.wrong),
		Catalog:    m.catalog,
	})
}

// State returns the lifecycle state.
func (m *Manager) State() State { return m.state }

// Stage returns the loaded stage.
func (m *Manager) Stage() content.StageID { return m.stage }

// Difficulty returns the option difficulty in use.
func (m *Manager) Difficulty() content.Difficulty { return m.difficulty }

// MainDeck returns a copy of the forward queue, front first.
func (m *Manager) MainDeck() []content.Item { return cloneAll(m.main) }

// WrongStack returns a copy of the retry collection.
func (m *Manager) WrongStack() []content.Item { return cloneAll(m.wrong) }

// Catalog returns a copy of the stage's items with their session progress.
func (m *Manager) Catalog() []content.Item { return cloneAll(m.catalog) }

// IsRetired reports whether an item was mastered and removed this session.
func (m *Manager) IsRetired(id string) bool { return m.retired[id] }

func cloneAll(items []content.Item) []content.Item {
	out := make([]content.Item, len(items))
	for i := range items {
		out[i] = items[i].Clone()
	}
	return out
}
