package api

import (
	"time"

	"github.com/abhisek/harf/internal/analytics"
	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/deck"
	"github.com/abhisek/harf/internal/gamification"
	"github.com/abhisek/harf/internal/session"
	"github.com/abhisek/harf/internal/stats"
)

type errorResponse struct {
	Error string `json:"error"`
}

type stageResponse struct {
	ID    content.StageID `json:"id"`
	Name  string          `json:"name"`
	Cards int             `json:"cards"`
	Due   int             `json:"due"`
}

type startRequest struct {
	Stage      string `json:"stage"`
	Difficulty string `json:"difficulty"`
}

type answerRequest struct {
	Selected string `json:"selected"`
}

type cardResponse struct {
	ID          string       `json:"id"`
	Kind        content.Kind `json:"kind"`
	Prompt      string       `json:"prompt"`
	Instruction string       `json:"instruction,omitempty"`
	Audio       string       `json:"audio,omitempty"`
	Options     []string     `json:"options"`
}

type sessionResponse struct {
	ID         string             `json:"id"`
	Stage      content.StageID    `json:"stage"`
	Difficulty content.Difficulty `json:"difficulty"`
	Phase      string             `json:"phase"`
	Card       *cardResponse      `json:"card,omitempty"`
	Stats      stats.Stats        `json:"stats"`
	Summary    *summaryResponse   `json:"summary,omitempty"`
}

type resultResponse struct {
	Correct         bool   `json:"correct"`
	Selected        string `json:"selected"`
	CorrectAnswer   string `json:"correct_answer"`
	Retired         bool   `json:"retired"`
	Recycled        bool   `json:"recycled"`
	SessionComplete bool   `json:"session_complete"`
}

type answerResponse struct {
	Result  resultResponse  `json:"result"`
	Session sessionResponse `json:"session"`
}

type awardResponse struct {
	Kind   string    `json:"kind"`
	Badge  string    `json:"badge,omitempty"`
	Level  int       `json:"level,omitempty"`
	XP     int       `json:"xp,omitempty"`
	Reason string    `json:"reason"`
	At     time.Time `json:"awarded_at"`
}

type summaryResponse struct {
	Complete     bool            `json:"complete"`
	DurationSecs int             `json:"duration_secs"`
	Points       int             `json:"points"`
	NextStage    content.StageID `json:"next_stage"`
	Awards       []awardResponse `json:"awards"`
}

type challengeResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Progress  int    `json:"progress"`
	Target    int    `json:"target"`
	XP        int    `json:"xp"`
	Completed bool   `json:"completed"`
}

type profileResponse struct {
	Points        int                 `json:"points"`
	Level         int                 `json:"level"`
	Title         string              `json:"title"`
	XP            int                 `json:"xp"`
	XPNeeded      int                 `json:"xp_needed"`
	TotalXP       int                 `json:"total_xp"`
	DayStreak     int                 `json:"day_streak"`
	LongestStreak int                 `json:"longest_streak"`
	Badges        []string            `json:"badges"`
	Challenges    []challengeResponse `json:"challenges"`
}

type recommendationResponse struct {
	Type        analytics.RecommendationType `json:"type"`
	Priority    string                       `json:"priority"`
	Description string                       `json:"description"`
}

type stepResponse struct {
	Type        analytics.StepType `json:"type"`
	Duration    string             `json:"duration"`
	Description string             `json:"description"`
	Stage       content.StageID    `json:"stage,omitempty"`
}

type insightsResponse struct {
	RecentAnswers   int                      `json:"recent_answers"`
	Accuracy        int                      `json:"accuracy"`
	Struggles       []string                 `json:"struggles"`
	Recommendations []recommendationResponse `json:"recommendations"`
	Path            []stepResponse           `json:"path"`
}

type dueResponse struct {
	Stage       content.StageID `json:"stage"`
	ItemID      string          `json:"item_id"`
	NextReview  time.Time       `json:"next_review"`
	OverdueDays float64         `json:"overdue_days"`
}

func newCard(it content.Item) *cardResponse {
	return &cardResponse{
		ID:          it.ID,
		Kind:        it.Kind,
		Prompt:      it.DisplayText(),
		Instruction: it.Instruction(),
		Audio:       it.Audio,
		Options:     it.Options,
	}
}

func newResult(r deck.Result) resultResponse {
	return resultResponse{
		Correct:         r.Correct,
		Selected:        r.Selected,
		CorrectAnswer:   r.CorrectAnswer,
		Retired:         r.Retired,
		Recycled:        r.Recycled,
		SessionComplete: r.SessionComplete,
	}
}

func newSummary(sum *session.Summary) *summaryResponse {
	out := &summaryResponse{
		Complete:     sum.Complete,
		DurationSecs: int(sum.Duration.Seconds()),
		Points:       sum.Points,
		NextStage:    sum.NextStage,
		Awards:       make([]awardResponse, 0, len(sum.Awards)),
	}
	for _, a := range sum.Awards {
		out.Awards = append(out.Awards, awardResponse{
			Kind:   a.Kind.String(),
			Badge:  string(a.Badge),
			Level:  a.Level,
			XP:     a.XP,
			Reason: a.Reason,
			At:     a.AwardedAt,
		})
	}
	return out
}

func newProfile(svc *gamification.Service) profileResponse {
	p := svc.Profile()
	lp := svc.LevelProgress()
	out := profileResponse{
		Points:        p.TotalPoints,
		Level:         lp.Level,
		Title:         gamification.RewardFor(lp.Level).Title,
		XP:            lp.XP,
		XPNeeded:      lp.Needed,
		TotalXP:       p.TotalXP,
		DayStreak:     p.Streak.Current,
		LongestStreak: p.Streak.Longest,
		Badges:        make([]string, 0, len(p.Badges)),
	}
	for _, b := range p.Badges {
		out.Badges = append(out.Badges, string(b))
	}
	for _, c := range svc.Challenges() {
		out.Challenges = append(out.Challenges, challengeResponse{
			ID:        c.ID,
			Title:     c.Title,
			Progress:  c.Progress,
			Target:    c.Target,
			XP:        c.XP,
			Completed: c.Completed,
		})
	}
	return out
}
