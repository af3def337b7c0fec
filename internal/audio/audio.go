// Package audio resolves and plays pronunciation clips. Playback is always
// best-effort: a missing clip or player never affects a review.
package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/harf/internal/content"
)

// ErrNotFound is returned when a clip reference does not resolve to a file.
var ErrNotFound = errors.New("audio clip not found")

// DefaultPreloadConcurrency bounds concurrent file checks during preload.
const DefaultPreloadConcurrency = 8

// Player plays a clip by reference.
type Player interface {
	Play(ctx context.Context, ref string) error
}

// Nop discards every request.
type Nop struct{}

func (Nop) Play(context.Context, string) error { return nil }

// Library maps clip references to files under a root directory.
type Library struct {
	root   string
	logger *slog.Logger

	mu       sync.RWMutex
	resolved map[string]string
}

// NewLibrary returns a library rooted at dir.
func NewLibrary(dir string, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Library{root: dir, logger: logger, resolved: make(map[string]string)}
}

// Resolve returns the file path for ref, checking the filesystem on first
// use. References may not escape the root.
func (l *Library) Resolve(ref string) (string, error) {
	l.mu.RLock()
	p, ok := l.resolved[ref]
	l.mu.RUnlock()
	if ok {
		return p, nil
	}

	clean := filepath.Clean(filepath.FromSlash(ref))
	if ref == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	p = filepath.Join(l.root, clean)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %q", ErrNotFound, ref)
	}

	l.mu.Lock()
	l.resolved[ref] = p
	l.mu.Unlock()
	return p, nil
}

// Ready reports whether ref was already resolved.
func (l *Library) Ready(ref string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.resolved[ref]
	return ok
}

// Preload resolves the clips of items with bounded concurrency. Missing
// clips are logged and skipped. It returns how many clips resolved; the
// only error is context cancellation.
func (l *Library) Preload(ctx context.Context, items []content.Item, limit int) (int, error) {
	if limit <= 0 {
		limit = DefaultPreloadConcurrency
	}
	seen := make(map[string]bool)
	var refs []string
	for _, it := range items {
		if it.Audio != "" && !seen[it.Audio] {
			seen[it.Audio] = true
			refs = append(refs, it.Audio)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var mu sync.Mutex
	loaded := 0
	for _, ref := range refs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := l.Resolve(ref); err != nil {
				l.logger.Debug("audio preload miss", "ref", ref, "error", err)
				return nil
			}
			mu.Lock()
			loaded++
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	return loaded, err
}

// CommandPlayer plays clips through an external program, for example
// "mpg123 -q" or "afplay".
type CommandPlayer struct {
	lib     *Library
	command string
	args    []string
}

// NewCommandPlayer splits command on spaces; the clip path is appended as
// the last argument.
func NewCommandPlayer(lib *Library, command string) (*CommandPlayer, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("audio: empty player command")
	}
	return &CommandPlayer{lib: lib, command: fields[0], args: fields[1:]}, nil
}

func (p *CommandPlayer) Play(ctx context.Context, ref string) error {
	path, err := p.lib.Resolve(ref)
	if err != nil {
		return err
	}
	args := append(append([]string(nil), p.args...), path)
	if err := exec.CommandContext(ctx, p.command, args...).Run(); err != nil {
		return fmt.Errorf("play %s: %w", ref, err)
	}
	return nil
}

// Async plays clips on a background goroutine. Play never blocks; requests
// arriving while the queue is full are dropped.
type Async struct {
	inner  Player
	queue  chan string
	done   chan struct{}
	logger *slog.Logger
	once   sync.Once
	cancel context.CancelFunc
	ctx    context.Context
}

// NewAsync starts the playback goroutine.
func NewAsync(inner Player, buffer int, logger *slog.Logger) *Async {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())
	a := &Async{
		inner:  inner,
		queue:  make(chan string, buffer),
		done:   make(chan struct{}),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
	go a.run()
	return a
}

func (a *Async) run() {
	defer close(a.done)
	for ref := range a.queue {
		if err := a.inner.Play(a.ctx, ref); err != nil {
			a.logger.Warn("audio playback failed", "ref", ref, "error", err)
		}
	}
}

// Play enqueues ref. It always returns nil.
func (a *Async) Play(_ context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	select {
	case a.queue <- ref:
	default:
		a.logger.Debug("audio queue full, dropping clip", "ref", ref)
	}
	return nil
}

// Close stops the current clip and waits for the goroutine to exit. Play
// must not be called after Close.
func (a *Async) Close() {
	a.once.Do(func() {
		a.cancel()
		close(a.queue)
	})
	<-a.done
}
