package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/events"
	"github.com/abhisek/harf/internal/spacedrep"
	"github.com/abhisek/harf/internal/store"
)

// Recorder persists every outcome: the answer goes to the event log and
// the item's scheduling state to the progress table. Failures are logged.
// Run it behind events.Async so storage latency never reaches the deck.
type Recorder struct {
	events   store.EventRepo
	progress store.ProgressRepo
	logger   *slog.Logger
}

// NewRecorder returns a recorder. Either repo may be nil.
func NewRecorder(eventRepo store.EventRepo, progress store.ProgressRepo, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Recorder{events: eventRepo, progress: progress, logger: logger}
}

func (r *Recorder) Observe(o events.Outcome) {
	ctx := context.Background()
	if r.events != nil {
		err := r.events.AppendAnswerEvent(ctx, store.AnswerEventData{
			SessionID:     o.SessionID,
			Stage:         string(o.Stage),
			ItemID:        o.Item.ID,
			Kind:          string(o.Item.Kind),
			Difficulty:    string(o.Difficulty),
			Selected:      o.Selected,
			CorrectAnswer: o.CorrectAnswer,
			Correct:       o.Correct,
			ResponseTime:  o.ResponseTime,
			Timestamp:     o.At,
		})
		if err != nil {
			r.logger.Warn("append answer event failed", "item", o.Item.Key(), "error", err)
		}
	}
	if r.progress != nil {
		it := o.Item
		it.Stage = o.Stage
		if err := r.progress.SaveProgress(ctx, spacedrep.FromItem(it).Progress()); err != nil {
			r.logger.Warn("save item progress failed", "item", it.Key(), "error", err)
		}
	}
}

// durableProvider seeds each item's progress from the progress table so
// mastery carries across sessions.
type durableProvider struct {
	inner    content.Provider
	progress store.ProgressRepo
}

func (p *durableProvider) Items(stage content.StageID) ([]content.Item, error) {
	items, err := p.inner.Items(stage)
	if err != nil {
		return nil, err
	}
	saved, err := p.progress.LoadProgress(context.Background(), string(stage))
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	for i := range items {
		if pr, ok := saved[items[i].ID]; ok {
			spacedrep.FromProgress(pr).Apply(&items[i])
		}
	}
	return items, nil
}
