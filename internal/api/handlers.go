package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/deck"
	"github.com/abhisek/harf/internal/session"
	"github.com/abhisek/harf/internal/spacedrep"
)

func fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, content.ErrUnknownStage), errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, session.ErrNotActive), errors.Is(err, deck.ErrNoCurrentItem):
		status = http.StatusConflict
	}
	return c.JSON(status, errorResponse{Error: err.Error()})
}

var errBadRequest = errors.New("bad request")

func badRequest(msg string) error {
	return fmt.Errorf("%w: %s", errBadRequest, msg)
}

func sessionView(id string, sess *session.Session) sessionResponse {
	out := sessionResponse{
		ID:         id,
		Stage:      sess.Stage(),
		Difficulty: sess.Difficulty(),
		Phase:      sess.Phase().String(),
		Stats:      sess.Stats(),
	}
	if it, ok := sess.Current(); ok && sess.Phase() == session.PhaseActive {
		out.Card = newCard(it)
	}
	if sum, ok := sess.Summary(); ok {
		out.Summary = newSummary(sum)
	}
	return out
}

// GET /api/v1/stages
func (s *Server) listStages(c echo.Context) error {
	due := map[content.StageID]int{}
	if s.opts.Progress != nil {
		sched, err := spacedrep.LoadScheduler(c.Request().Context(), s.opts.Progress)
		if err != nil {
			return fail(c, err)
		}
		for _, rs := range sched.DueItems(s.opts.Now(), "") {
			due[rs.Stage]++
		}
	}

	out := make([]stageResponse, 0, len(content.AllStages()))
	for _, st := range content.AllStages() {
		items, err := s.opts.Catalog.Items(st)
		if err != nil {
			return fail(c, err)
		}
		out = append(out, stageResponse{
			ID:    st,
			Name:  content.StageDisplayName(st),
			Cards: len(items),
			Due:   due[st],
		})
	}
	return c.JSON(http.StatusOK, out)
}

// POST /api/v1/sessions
func (s *Server) startSession(c echo.Context) error {
	var req startRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, badRequest("invalid request body"))
	}
	stage, ok := content.ParseStage(req.Stage)
	if !ok {
		return fail(c, badRequest("unknown stage "+req.Stage))
	}
	level := content.Beginner
	if req.Difficulty != "" {
		if level, ok = content.ParseDifficulty(req.Difficulty); !ok {
			return fail(c, badRequest("unknown difficulty "+req.Difficulty))
		}
	}

	sess, err := s.opts.NewSession()
	if err != nil {
		return fail(c, err)
	}
	if err := sess.Start(c.Request().Context(), stage, level); err != nil {
		return fail(c, err)
	}
	id := s.add(sess)
	s.logger.Info("api session started", "handle", id, "session", sess.ID(), "stage", stage)
	return c.JSON(http.StatusCreated, sessionView(id, sess))
}

// GET /api/v1/sessions/:id
func (s *Server) getSession(c echo.Context) error {
	id := c.Param("id")
	e, err := s.lookup(id)
	if err != nil {
		return fail(c, err)
	}
	defer e.mu.Unlock()
	return c.JSON(http.StatusOK, sessionView(id, e.sess))
}

// POST /api/v1/sessions/:id/answer
//
// The answer is graded and the session advanced in one call; the response
// carries the grading and the next card.
func (s *Server) answer(c echo.Context) error {
	var req answerRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, badRequest("invalid request body"))
	}
	id := c.Param("id")
	e, err := s.lookup(id)
	if err != nil {
		return fail(c, err)
	}
	defer e.mu.Unlock()

	ctx := c.Request().Context()
	res, err := e.sess.Answer(ctx, req.Selected)
	if err != nil {
		return fail(c, err)
	}
	e.sess.Next(ctx)
	return c.JSON(http.StatusOK, answerResponse{
		Result:  newResult(res),
		Session: sessionView(id, e.sess),
	})
}

// POST /api/v1/sessions/:id/restart
func (s *Server) restart(c echo.Context) error {
	id := c.Param("id")
	e, err := s.lookup(id)
	if err != nil {
		return fail(c, err)
	}
	defer e.mu.Unlock()
	if err := e.sess.Restart(c.Request().Context()); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, sessionView(id, e.sess))
}

// DELETE /api/v1/sessions/:id
func (s *Server) endSession(c echo.Context) error {
	id := c.Param("id")
	e, err := s.lookup(id)
	if err != nil {
		return fail(c, err)
	}
	e.sess.End(c.Request().Context())
	view := sessionView(id, e.sess)
	e.mu.Unlock()
	s.remove(id)
	return c.JSON(http.StatusOK, view)
}

// GET /api/v1/profile
func (s *Server) profile(c echo.Context) error {
	if s.opts.Rewards == nil {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "rewards disabled"})
	}
	return c.JSON(http.StatusOK, newProfile(s.opts.Rewards))
}

// GET /api/v1/insights?stage=
func (s *Server) insights(c echo.Context) error {
	if s.opts.Tracker == nil {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "analytics disabled"})
	}
	stage := content.StageAlphabet
	if q := c.QueryParam("stage"); q != "" {
		var ok bool
		if stage, ok = content.ParseStage(q); !ok {
			return fail(c, badRequest("unknown stage "+q))
		}
	}

	t := s.opts.Tracker
	sum := t.Summary(s.opts.Now())
	out := insightsResponse{
		RecentAnswers:   sum.RecentAnswers,
		Accuracy:        sum.Accuracy,
		Struggles:       []string{},
		Recommendations: []recommendationResponse{},
	}
	for _, p := range sum.StruggleAreas {
		out.Struggles = append(out.Struggles, p.Key.Description())
	}
	for _, r := range t.Recommendations() {
		out.Recommendations = append(out.Recommendations, recommendationResponse{
			Type:        r.Type,
			Priority:    r.Priority.String(),
			Description: r.Description,
		})
	}
	for _, st := range t.Path(stage) {
		out.Path = append(out.Path, stepResponse{
			Type:        st.Type,
			Duration:    st.Duration,
			Description: st.Description,
			Stage:       st.Stage,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// GET /api/v1/due?stage=
func (s *Server) due(c echo.Context) error {
	if s.opts.Progress == nil {
		return c.JSON(http.StatusOK, []dueResponse{})
	}
	var stage content.StageID
	if q := c.QueryParam("stage"); q != "" {
		var ok bool
		if stage, ok = content.ParseStage(q); !ok {
			return fail(c, badRequest("unknown stage "+q))
		}
	}
	sched, err := spacedrep.LoadScheduler(c.Request().Context(), s.opts.Progress)
	if err != nil {
		return fail(c, err)
	}
	now := s.opts.Now()
	out := []dueResponse{}
	for _, rs := range sched.DueItems(now, stage) {
		out = append(out, dueResponse{
			Stage:       rs.Stage,
			ItemID:      rs.ItemID,
			NextReview:  rs.NextReview,
			OverdueDays: rs.OverdueDays(now),
		})
	}
	return c.JSON(http.StatusOK, out)
}
