package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/abhisek/harf/internal/analytics"
	"github.com/abhisek/harf/internal/audio"
	"github.com/abhisek/harf/internal/config"
	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/events"
	"github.com/abhisek/harf/internal/gamification"
	"github.com/abhisek/harf/internal/screens"
	"github.com/abhisek/harf/internal/session"
	"github.com/abhisek/harf/internal/spacedrep"
	"github.com/abhisek/harf/internal/store"
)

// Number of recent answer events replayed into the analytics tracker.
const trackerHistory = 2000

// loadConfig resolves configuration for cmd, honouring --config and every
// flag that names a config key.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore opens the configured database. For SQLite an empty db falls
// back to the default XDG path.
func openStore(cfg *config.Config) (*store.Store, error) {
	dsn := cfg.DBPath
	if cfg.DBDriver == store.DriverSQLite {
		if dsn == "" {
			p, err := store.DefaultDBPath()
			if err != nil {
				return nil, fmt.Errorf("resolve DB path: %w", err)
			}
			dsn = p
		} else if err := store.EnsureDir(dsn); err != nil {
			return nil, fmt.Errorf("create DB dir: %w", err)
		}
	}
	st, err := store.OpenDriver(cfg.DBDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// deps is everything a front-end needs, built once per command.
type deps struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	catalog  *content.Catalog
	bus      *events.Bus
	recorder *events.Async
	rewards  *gamification.Service
	tracker  *analytics.Tracker
	player   audio.Player
	params   spacedrep.Params
	closers  []func()
}

// buildDeps wires the store, catalog, reward and analytics observers and
// the audio player. stderrLogs sends logs to stderr when no log file is set;
// the terminal UI must leave it false.
func buildDeps(ctx context.Context, cfg *config.Config, stderrLogs bool) (*deps, error) {
	d := &deps{cfg: cfg}

	logger, closer, err := newLogger(cfg, stderrLogs)
	if err != nil {
		return nil, err
	}
	d.logger = logger
	d.closers = append(d.closers, func() { closer.Close() })

	st, err := openStore(cfg)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.store = st
	d.closers = append(d.closers, func() { st.Close() })

	cat, err := content.Load(cfg.ContentDir)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	d.catalog = cat

	d.params = spacedrep.DefaultParams()
	d.params.MasteryThreshold = cfg.MasteryThreshold
	d.params.SlowAnswer = cfg.SlowAnswer

	d.rewards = gamification.NewService(st.SnapshotRepo(), logger)
	if err := d.rewards.Load(ctx); err != nil {
		logger.Warn("starting with a fresh profile", "error", err)
	}

	recs, err := st.EventRepo().QueryAnswerEvents(ctx, store.QueryOpts{Limit: trackerHistory})
	if err != nil {
		logger.Warn("load answer history failed", "error", err)
	}
	slices.Reverse(recs)
	d.tracker = analytics.FromRecords(recs)

	// Storage runs off the answer path; rewards and analytics stay
	// synchronous so the next render already reflects the answer.
	d.recorder = events.NewAsync(session.NewRecorder(st.EventRepo(), st.ProgressRepo(), logger), 64, logger)
	d.bus = events.NewBus(logger)
	d.bus.Subscribe(d.rewards)
	d.bus.Subscribe(d.tracker)
	d.bus.Subscribe(d.recorder)
	d.closers = append(d.closers, d.recorder.Close)

	d.player = audio.Nop{}
	if cfg.AudioPlayer != "" {
		lib := audio.NewLibrary(cfg.AudioDir, logger)
		cp, err := audio.NewCommandPlayer(lib, cfg.AudioPlayer)
		if err != nil {
			d.Close()
			return nil, err
		}
		var all []content.Item
		for _, stage := range cat.Stages() {
			items, _ := cat.Items(stage)
			all = append(all, items...)
		}
		if n, err := lib.Preload(ctx, all, 0); err != nil {
			logger.Warn("audio preload interrupted", "error", err)
		} else {
			logger.Debug("audio clips resolved", "count", n)
		}
		async := audio.NewAsync(cp, 4, logger)
		d.player = async
		d.closers = append(d.closers, async.Close)
	}
	return d, nil
}

// newSession builds an unstarted session for the HTTP front-end.
func (d *deps) newSession() (*session.Session, error) {
	return session.New(session.Options{
		Catalog:  d.catalog,
		Bus:      d.bus,
		Events:   d.store.EventRepo(),
		Progress: d.store.ProgressRepo(),
		Rewards:  d.rewards,
		Player:   audio.Nop{},
		Logger:   d.logger,
		Seed:     d.cfg.Seed,
		Durable:  d.cfg.DurableMastery,
		Pending:  d.recorder,
		Params:   d.params,
	})
}

// env builds the terminal UI environment.
func (d *deps) env() *screens.Env {
	return &screens.Env{
		Catalog:       d.catalog,
		Bus:           d.bus,
		Events:        d.store.EventRepo(),
		Progress:      d.store.ProgressRepo(),
		Settings:      d.store.Settings(),
		Rewards:       d.rewards,
		Tracker:       d.tracker,
		Player:        d.player,
		Logger:        d.logger,
		Pending:       d.recorder,
		Seed:          d.cfg.Seed,
		Durable:       d.cfg.DurableMastery,
		Params:        d.params,
		Stage:         d.cfg.StageID(),
		Difficulty:    d.cfg.Level(),
		FeedbackDelay: d.cfg.FeedbackDelay,
	}
}

// Close releases resources in reverse order of acquisition.
func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

func newLogger(cfg *config.Config, stderrLogs bool) (*slog.Logger, io.Closer, error) {
	if cfg.LogFile == "" && stderrLogs {
		var level slog.Level
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nopCloser{}, nil
	}
	return cfg.NewLogger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// errAborted is returned when the learner declines a confirmation.
var errAborted = errors.New("aborted")
