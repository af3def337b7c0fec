package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with ent's SQL builders.
type eventRepo struct {
	db      *sql.DB
	dialect string
	seq     *sequenceCounter
}

var answerColumns = []string{
	"sequence", "session_id", "stage", "item_id", "kind", "difficulty",
	"selected", "correct_answer", "correct", "response_ms", "created_at",
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(r.dialect).
		Insert("answer_events").
		Columns(answerColumns...).
		Values(
			seqNum, data.SessionID, data.Stage, data.ItemID, data.Kind, data.Difficulty,
			data.Selected, data.CorrectAnswer, data.Correct, data.ResponseTime.Milliseconds(),
			stamp(data.Timestamp),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAnswerEvents(ctx context.Context, opts QueryOpts) ([]AnswerEventRecord, error) {
	b := entsql.Dialect(r.dialect)
	sel := b.Select(answerColumns...).
		From(b.Table("answer_events")).
		OrderBy(entsql.Desc("sequence"))
	applyOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var out []AnswerEventRecord
	for rows.Next() {
		var (
			rec        AnswerEventRecord
			responseMs int64
			createdAt  int64
		)
		if err := rows.Scan(
			&rec.Sequence, &rec.SessionID, &rec.Stage, &rec.ItemID, &rec.Kind, &rec.Difficulty,
			&rec.Selected, &rec.CorrectAnswer, &rec.Correct, &responseMs, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		rec.ResponseTime = time.Duration(responseMs) * time.Millisecond
		rec.Timestamp = time.UnixMilli(createdAt).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) StageSummaries(ctx context.Context) ([]StageSummary, error) {
	b := entsql.Dialect(r.dialect)
	query, args := b.Select("stage", "correct", entsql.Count("*"), entsql.Sum("response_ms")).
		From(b.Table("answer_events")).
		GroupBy("stage", "correct").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stage summaries: %w", err)
	}
	defer rows.Close()

	type acc struct {
		attempts, correct int
		totalMs           int64
	}
	byStage := make(map[string]*acc)
	for rows.Next() {
		var (
			stage   string
			correct bool
			count   int64
			sumMs   int64
		)
		if err := rows.Scan(&stage, &correct, &count, &sumMs); err != nil {
			return nil, fmt.Errorf("scan stage summary: %w", err)
		}
		a := byStage[stage]
		if a == nil {
			a = &acc{}
			byStage[stage] = a
		}
		a.attempts += int(count)
		a.totalMs += sumMs
		if correct {
			a.correct += int(count)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]StageSummary, 0, len(byStage))
	for stage, a := range byStage {
		s := StageSummary{Stage: stage, Attempts: a.attempts, Correct: a.correct}
		if a.attempts > 0 {
			s.AvgResponseTime = time.Duration(a.totalMs/int64(a.attempts)) * time.Millisecond
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stage < out[j].Stage })
	return out, nil
}

// applyOpts adds the QueryOpts filters to a selector.
func applyOpts(sel *entsql.Selector, opts QueryOpts) {
	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("created_at", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("created_at", opts.To.UnixMilli()))
	}
	if opts.Stage != "" {
		preds = append(preds, entsql.EQ("stage", opts.Stage))
	}
	if opts.SessionID != "" {
		preds = append(preds, entsql.EQ("session_id", opts.SessionID))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}

// stamp converts t to unix milliseconds, defaulting to now.
func stamp(t time.Time) int64 {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UnixMilli()
}
