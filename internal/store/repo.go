package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	Before    int64     // sequence < Before
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
	Stage     string    // exact stage match
	SessionID string    // exact session match
}

// AnswerEventData records one submitted answer.
type AnswerEventData struct {
	SessionID     string
	Stage         string
	ItemID        string
	Kind          string
	Difficulty    string
	Selected      string
	CorrectAnswer string
	Correct       bool
	ResponseTime  time.Duration
	Timestamp     time.Time // zero means now
}

// AnswerEventRecord is a stored answer event.
type AnswerEventRecord struct {
	Sequence int64
	AnswerEventData
}

// Session actions.
const (
	SessionStart   = "start"
	SessionEnd     = "end"
	SessionRestart = "restart"
)

// SessionEventData records a session lifecycle transition.
type SessionEventData struct {
	SessionID  string
	Action     string
	Stage      string
	Difficulty string
	Attempts   int
	Score      int
	Accuracy   int
	Duration   time.Duration
	Timestamp  time.Time // zero means now
}

// SessionEventRecord is a stored session event.
type SessionEventRecord struct {
	Sequence int64
	SessionEventData
}

// StageSummary aggregates the answer history of one stage.
type StageSummary struct {
	Stage           string
	Attempts        int
	Correct         int
	AvgResponseTime time.Duration
}

// Accuracy returns the rounded percentage of correct answers.
func (s StageSummary) Accuracy() int {
	if s.Attempts == 0 {
		return 0
	}
	return int(float64(s.Correct)/float64(s.Attempts)*100 + 0.5)
}

// EventRepo provides append and query access to learner history.
type EventRepo interface {
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
	QueryAnswerEvents(ctx context.Context, opts QueryOpts) ([]AnswerEventRecord, error)
	QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEventRecord, error)

	// StageSummaries aggregates answers per stage, ordered by stage name.
	StageSummaries(ctx context.Context) ([]StageSummary, error)
}

// ItemProgress is the durable learning state of one item.
type ItemProgress struct {
	Stage        string
	ItemID       string
	Streak       int
	Mastery      int
	EaseFactor   float64
	Interval     time.Duration
	LastReviewed time.Time
	NextReview   time.Time
}

// ProgressRepo stores per-item progress for durable mastery and
// long-horizon review scheduling.
type ProgressRepo interface {
	SaveProgress(ctx context.Context, p ItemProgress) error

	// LoadProgress returns the stage's progress keyed by item ID.
	LoadProgress(ctx context.Context, stage string) (map[string]ItemProgress, error)

	// AllProgress returns every stored record ordered by next review.
	AllProgress(ctx context.Context) ([]ItemProgress, error)
}

// KV is the key-value persistence port for cross-session settings.
type KV interface {
	// Load returns the stored value and whether the key exists.
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, value string) error
}

// SnapshotData captures the learner profile at a point in time.
type SnapshotData struct {
	Version int                  `json:"version"`
	Profile *ProfileSnapshotData `json:"profile,omitempty"`
}

// ProfileSnapshotData is the persisted gamification profile.
type ProfileSnapshotData struct {
	TotalPoints   int             `json:"total_points"`
	Level         int             `json:"level"`
	XP            int             `json:"xp"`
	TotalXP       int             `json:"total_xp"`
	Badges        []string        `json:"badges,omitempty"`
	DayStreak     int             `json:"day_streak"`
	LongestStreak int             `json:"longest_streak"`
	LastActiveDay string          `json:"last_active_day,omitempty"` // YYYY-MM-DD
	ChallengeDay  string          `json:"challenge_day,omitempty"`   // YYYY-MM-DD
	Challenges    []ChallengeData `json:"challenges,omitempty"`
	StagesToday   []string        `json:"stages_today,omitempty"`
	VocabMastered int             `json:"vocab_mastered"`
}

// ChallengeData is the persisted progress of one daily challenge.
type ChallengeData struct {
	ID        string `json:"id"`
	Progress  int    `json:"progress"`
	Completed bool   `json:"completed"`
}

// Snapshot represents a point-in-time capture of learner state.
type Snapshot struct {
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages learner state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot. A zero Sequence is assigned from the
	// global counter.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}
