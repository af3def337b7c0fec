package api

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterStore keeps one token bucket per client. It satisfies echo's
// middleware.RateLimiterStore.
type limiterStore struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	now     func() time.Time
	clients map[string]*client
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(perSecond float64, burst int, now func() time.Time) *limiterStore {
	if burst < 1 {
		burst = max(int(perSecond)*2, 1)
	}
	return &limiterStore{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		ttl:     10 * time.Minute,
		now:     now,
		clients: make(map[string]*client),
	}
}

// Allow consumes a token for identifier.
func (s *limiterStore) Allow(identifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c, ok := s.clients[identifier]
	if !ok {
		c = &client{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.clients[identifier] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1), nil
}

// sweep forgets clients idle for longer than the ttl.
func (s *limiterStore) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	n := 0
	for id, c := range s.clients {
		if c.lastSeen.Before(cutoff) {
			delete(s.clients, id)
			n++
		}
	}
	return n
}
