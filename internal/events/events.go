// Package events fans answer outcomes out to downstream observers.
package events

import (
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/harf/internal/content"
)

// Outcome is emitted once per submitted answer.
type Outcome struct {
	SessionID       string
	Stage           content.StageID
	Difficulty      content.Difficulty
	Item            content.Item // updated item
	Correct         bool
	ResponseTime    time.Duration
	Selected        string
	CorrectAnswer   string
	Retired         bool
	SessionComplete bool
	At              time.Time
}

func (o Outcome) clone() Outcome {
	o.Item = o.Item.Clone()
	return o
}

// Observer receives outcomes. It cannot influence the deck.
type Observer interface {
	Observe(Outcome)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Outcome)

func (f ObserverFunc) Observe(o Outcome) { f(o) }

// Bus delivers outcomes to subscribers in subscription order.
type Bus struct {
	mu        sync.RWMutex
	observers []Observer
	logger    *slog.Logger
}

// NewBus returns an empty bus. A nil logger discards.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bus{logger: logger}
}

// Subscribe registers an observer.
func (b *Bus) Subscribe(o Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, o)
}

// Publish hands each observer its own copy of the outcome. A panicking
// observer is logged and skipped.
func (b *Bus) Publish(o Outcome) {
	b.mu.RLock()
	observers := append([]Observer(nil), b.observers...)
	b.mu.RUnlock()

	for _, obs := range observers {
		b.deliver(obs, o.clone())
	}
}

func (b *Bus) deliver(obs Observer, o Outcome) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("observer panicked", "item", o.Item.Key(), "panic", r)
		}
	}()
	obs.Observe(o)
}

// Async runs an observer on its own goroutine behind a buffered queue.
// When the queue is full the outcome is dropped and logged.
type Async struct {
	inner  Observer
	queue  chan Outcome
	done   chan struct{}
	logger *slog.Logger
	once   sync.Once

	mu      sync.Mutex
	idle    *sync.Cond
	pending int // enqueued but not yet handled
}

// NewAsync starts the worker goroutine.
func NewAsync(inner Observer, buffer int, logger *slog.Logger) *Async {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &Async{
		inner:  inner,
		queue:  make(chan Outcome, buffer),
		done:   make(chan struct{}),
		logger: logger,
	}
	a.idle = sync.NewCond(&a.mu)
	go a.run()
	return a
}

func (a *Async) run() {
	defer close(a.done)
	for o := range a.queue {
		func() {
			defer func() {
				if r := recover(); r != nil {
					a.logger.Error("async observer panicked", "item", o.Item.Key(), "panic", r)
				}
			}()
			a.inner.Observe(o)
		}()
		a.mu.Lock()
		a.pending--
		if a.pending == 0 {
			a.idle.Broadcast()
		}
		a.mu.Unlock()
	}
}

// Observe enqueues without blocking. It must not be called after Close.
func (a *Async) Observe(o Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()
	select {
	case a.queue <- o:
		a.pending++
	default:
		a.logger.Warn("observer queue full, dropping outcome", "item", o.Item.Key())
	}
}

// Flush blocks until every outcome enqueued so far has been handled.
func (a *Async) Flush() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for a.pending > 0 {
		a.idle.Wait()
	}
}

// Close stops accepting outcomes and waits for queued ones to drain.
func (a *Async) Close() {
	a.once.Do(func() { close(a.queue) })
	<-a.done
}
