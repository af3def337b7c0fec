package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/harf/internal/analytics"
	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/events"
	"github.com/abhisek/harf/internal/gamification"
	"github.com/abhisek/harf/internal/session"
)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func newTestServer(t *testing.T, rateLimit float64) (*Server, *testClock) {
	t.Helper()
	cat, err := content.NewCatalog(content.StageFile{
		Stage: content.StageAlphabet,
		Items: []content.Item{{ID: "alif", Kind: content.KindLetter, Letter: "ا"}},
	})
	require.NoError(t, err)

	clk := &testClock{t: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)}
	rewards := gamification.NewService(nil, nil, gamification.WithClock(clk.now))
	tracker := analytics.NewTracker()
	bus := events.NewBus(nil)
	bus.Subscribe(rewards)
	bus.Subscribe(tracker)

	srv, err := New(Options{
		Catalog: cat,
		NewSession: func() (*session.Session, error) {
			return session.New(session.Options{Catalog: cat, Bus: bus, Rewards: rewards, Seed: 5, Now: clk.now})
		},
		Rewards:   rewards,
		Tracker:   tracker,
		RateLimit: rateLimit,
		Now:       clk.now,
	})
	require.NoError(t, err)
	return srv, clk
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNew_RequiresCatalogAndFactory(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestListStages(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	rec := do(t, srv, http.MethodGet, "/api/v1/stages", "")
	require.Equal(t, http.StatusOK, rec.Code)

	stages := decode[[]stageResponse](t, rec)
	require.Len(t, stages, 9)
	assert.Equal(t, content.StageAlphabet, stages[0].ID)
	assert.Equal(t, 1, stages[0].Cards)
	assert.Equal(t, 0, stages[1].Cards)
}

func TestSessionLifecycle(t *testing.T) {
	srv, _ := newTestServer(t, 0)

	rec := do(t, srv, http.MethodPost, "/api/v1/sessions", `{"stage":"alphabet","difficulty":"beginner"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	started := decode[sessionResponse](t, rec)
	require.NotEmpty(t, started.ID)
	require.NotNil(t, started.Card)
	assert.Equal(t, "alif", started.Card.ID)
	assert.Equal(t, "active", started.Phase)

	path := "/api/v1/sessions/" + started.ID
	rec = do(t, srv, http.MethodPost, path+"/answer", `{"selected":"ا"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[answerResponse](t, rec)
	assert.True(t, first.Result.Correct)
	assert.False(t, first.Result.Retired)
	assert.Equal(t, "active", first.Session.Phase)

	rec = do(t, srv, http.MethodPost, path+"/answer", `{"selected":"ا"}`)
	second := decode[answerResponse](t, rec)
	assert.True(t, second.Result.Retired)
	assert.True(t, second.Result.SessionComplete)
	assert.Equal(t, "summary", second.Session.Phase)
	require.NotNil(t, second.Session.Summary)
	assert.True(t, second.Session.Summary.Complete)
	assert.Nil(t, second.Session.Card)

	rec = do(t, srv, http.MethodPost, path+"/answer", `{"selected":"ا"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, srv.Len())

	rec = do(t, srv, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartSession_Validation(t *testing.T) {
	srv, _ := newTestServer(t, 0)

	rec := do(t, srv, http.MethodPost, "/api/v1/sessions", `{"stage":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/v1/sessions", `{"stage":"alphabet","difficulty":"expert"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRestart(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	started := decode[sessionResponse](t, do(t, srv, http.MethodPost, "/api/v1/sessions", `{"stage":"alphabet"}`))
	path := "/api/v1/sessions/" + started.ID

	do(t, srv, http.MethodPost, path+"/answer", `{"selected":"x"}`)
	rec := do(t, srv, http.MethodPost, path+"/restart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[sessionResponse](t, rec)
	assert.Equal(t, 0, got.Stats.Attempts)
	assert.Equal(t, started.ID, got.ID)
}

func TestProfileAndInsights(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	started := decode[sessionResponse](t, do(t, srv, http.MethodPost, "/api/v1/sessions", `{"stage":"alphabet"}`))
	path := "/api/v1/sessions/" + started.ID
	do(t, srv, http.MethodPost, path+"/answer", `{"selected":"ا"}`)
	do(t, srv, http.MethodPost, path+"/answer", `{"selected":"ا"}`)

	rec := do(t, srv, http.MethodGet, "/api/v1/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[profileResponse](t, rec)
	assert.Positive(t, p.Points)
	assert.Contains(t, p.Badges, string(gamification.BadgeStageMaster))
	assert.Len(t, p.Challenges, len(gamification.DailyChallenges))

	rec = do(t, srv, http.MethodGet, "/api/v1/insights?stage=alphabet", "")
	require.Equal(t, http.StatusOK, rec.Code)
	in := decode[insightsResponse](t, rec)
	assert.Equal(t, 2, in.RecentAnswers)
	assert.Equal(t, 100, in.Accuracy)
	require.NotEmpty(t, in.Path)
	assert.Equal(t, analytics.StepProgressive, in.Path[0].Type)
}

func TestDue_NoProgressRepo(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	rec := do(t, srv, http.MethodGet, "/api/v1/due", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, 1)
	// Burst is two requests for a rate of one per second.
	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/healthz", "").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, do(t, srv, http.MethodGet, "/healthz", "").Code)
}

func TestSweepEndsIdleSessions(t *testing.T) {
	srv, clk := newTestServer(t, 0)
	do(t, srv, http.MethodPost, "/api/v1/sessions", `{"stage":"alphabet"}`)
	require.Equal(t, 1, srv.Len())

	clk.t = clk.t.Add(DefaultIdleTimeout / 2)
	assert.Equal(t, 0, srv.Sweep(context.Background()))

	clk.t = clk.t.Add(DefaultIdleTimeout)
	assert.Equal(t, 1, srv.Sweep(context.Background()))
	assert.Equal(t, 0, srv.Len())
}

func TestLimiterStoreSweep(t *testing.T) {
	clk := &testClock{t: time.Unix(0, 0)}
	s := newLimiterStore(5, 0, clk.now)
	ok, err := s.Allow("1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)

	clk.t = clk.t.Add(time.Hour)
	assert.Equal(t, 1, s.sweep())
}
