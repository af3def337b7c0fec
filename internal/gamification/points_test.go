package gamification

import (
	"testing"
	"time"

	"github.com/abhisek/harf/internal/content"
)

func TestPoints(t *testing.T) {
	tests := []struct {
		name    string
		level   content.Difficulty
		correct bool
		rt      time.Duration
		streak  int
		want    int
	}{
		{"incorrect", content.Advanced, false, 500 * time.Millisecond, 30, 0},
		{"slow beginner", content.Beginner, true, 3 * time.Second, 1, 10},
		{"under 2s", content.Beginner, true, 1500 * time.Millisecond, 1, 15},
		{"under 1s", content.Beginner, true, 800 * time.Millisecond, 1, 20},
		{"streak 5", content.Beginner, true, 3 * time.Second, 5, 15},
		{"streak 10", content.Beginner, true, 3 * time.Second, 10, 30},
		{"streak 20", content.Beginner, true, 3 * time.Second, 20, 90},
		{"intermediate", content.Intermediate, true, 3 * time.Second, 1, 15},
		{"advanced fast streak", content.Advanced, true, 500 * time.Millisecond, 10, 120},
		{"intermediate floors", content.Intermediate, true, 1500 * time.Millisecond, 5, 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Points(tt.level, tt.correct, tt.rt, tt.streak); got != tt.want {
				t.Errorf("Points() = %d, want %d", got, tt.want)
			}
		})
	}
}
