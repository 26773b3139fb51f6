package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/rickgao/ah-ledger/internal/model"
	"github.com/rickgao/ah-ledger/internal/realm"
	"github.com/rickgao/ah-ledger/internal/stats"
	"github.com/rickgao/ah-ledger/internal/writer"
)

// RealmSource provides the realm directory.
type RealmSource interface {
	GetRealmStatus(ctx context.Context) ([]model.Realm, error)
}

// SnapshotFetcher obtains a snapshot for a representative realm.
type SnapshotFetcher interface {
	Fetch(ctx context.Context, slug string) (*model.Snapshot, error)
}

// DocumentWriter persists group documents and the realm index.
type DocumentWriter interface {
	WriteGroup(ctx context.Context, docs *stats.Documents) error
	WriteIndex(index *writer.RealmIndex) error
}

// Sink receives a copy of every written group. Sink failures do not fail the group.
type Sink interface {
	WriteGroup(ctx context.Context, docs *stats.Documents, lastModified int64) error
}

// Observer is notified of group and pass outcomes.
type Observer interface {
	ObserveGroup(outcome string, auctions int)
	ObserveSinkError()
	ObserveRun(status string, d time.Duration)
}

// Group outcomes reported to the Observer.
const (
	outcomeWritten     = "written"
	outcomeUnavailable = "unavailable"
	outcomeWriteFailed = "write_failed"
)

// Config holds runner settings.
type Config struct {
	GroupDelay time.Duration // Pause from the end of one group to the start of the next; 0 disables (default: 1s)
}

// DefaultConfig returns the standard one-second pacing.
func DefaultConfig() Config {
	return Config{GroupDelay: time.Second}
}

// Runner executes ledger passes.
type Runner struct {
	realms   RealmSource
	fetcher  SnapshotFetcher
	docs     DocumentWriter
	sink     Sink
	observer Observer
	logger   *slog.Logger
	delay    time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithSink mirrors written groups into s.
func WithSink(s Sink) Option {
	return func(r *Runner) {
		r.sink = s
	}
}

// WithObserver reports outcomes to o.
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		r.observer = o
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner.
func NewRunner(cfg Config, realms RealmSource, fetcher SnapshotFetcher, docs DocumentWriter, opts ...Option) *Runner {
	r := &Runner{
		realms:   realms,
		fetcher:  fetcher,
		docs:     docs,
		observer: nopObserver{},
		logger:   slog.Default(),
		delay:    cfg.GroupDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.observer == nil {
		r.observer = nopObserver{}
	}
	return r
}

// Run performs one pass.
//
// Per-group failures are counted in the Result, not returned. An error is
// returned when the realm directory cannot be fetched, realms.json cannot be
// written, or ctx is cancelled; in the last case the index still lists the
// groups written so far.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	var res Result

	realms, err := r.realms.GetRealmStatus(ctx)
	if err != nil {
		res.Duration = time.Since(start)
		r.observer.ObserveRun(StatusFailed.String(), res.Duration)
		r.logger.Error("failed to fetch realm directory", "err", err)
		return res, fmt.Errorf("fetch realm directory: %w", err)
	}

	names := make(map[string]string, len(realms))
	for _, rl := range realms {
		names[rl.Slug] = rl.Name
	}

	groups := realm.GroupRealms(realms)
	res.Groups = len(groups)

	r.logger.Info("ledger pass started",
		"realms", len(realms),
		"groups", len(groups),
		"group_delay", r.delay,
	)

	// Set after each group; nil before the first one.
	var pause *rate.Limiter

	index := writer.NewRealmIndex()
	var runErr error

	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if pause != nil {
			if err := pause.Wait(ctx); err != nil {
				runErr = err
				break
			}
		}

		auctions, err := r.processGroup(ctx, g, index, names)
		pause = r.pauseFromNow()
		if err != nil {
			if ctx.Err() != nil {
				runErr = ctx.Err()
				break
			}
			res.Failed++
			continue
		}
		res.Succeeded++
		res.Auctions += auctions
	}

	res.Realms = index.Len()
	if err := r.docs.WriteIndex(index); err != nil {
		r.logger.Error("failed to write realm index", "err", err)
		r.finish(&res, start)
		return res, fmt.Errorf("write realm index: %w", errors.Join(err, runErr))
	}

	r.finish(&res, start)
	if runErr != nil {
		return res, fmt.Errorf("pass interrupted: %w", runErr)
	}
	return res, nil
}

// processGroup fetches, aggregates and writes one auction house.
func (r *Runner) processGroup(ctx context.Context, g realm.Group, index *writer.RealmIndex, names map[string]string) (int, error) {
	slug := g.Representative()

	snap, err := r.fetcher.Fetch(ctx, slug)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Warn("skipping auction house",
				"realm", slug,
				"realms", g.Slugs,
				"err", err,
			)
			r.observer.ObserveGroup(outcomeUnavailable, 0)
		}
		return 0, err
	}

	acc := stats.New(slug)
	if err := acc.AddAll(snap.Auctions); err != nil {
		return 0, err
	}
	acc.Finalize()

	docs, err := acc.Documents()
	if err != nil {
		return 0, err
	}

	if err := r.docs.WriteGroup(ctx, docs); err != nil {
		r.logger.Error("failed to write auction house, data dropped",
			"realm", slug,
			"realms", g.Slugs,
			"auctions", len(snap.Auctions),
			"err", err,
		)
		r.observer.ObserveGroup(outcomeWriteFailed, len(snap.Auctions))
		return 0, err
	}

	index.AddGroup(g.Slugs, slug, snap.LastModified, names)

	if r.sink != nil {
		if err := r.sink.WriteGroup(ctx, docs, snap.LastModified); err != nil {
			r.logger.Warn("stats sink write failed",
				"realm", slug,
				"err", err,
			)
			r.observer.ObserveSinkError()
		}
	}

	r.observer.ObserveGroup(outcomeWritten, len(snap.Auctions))
	r.logger.Info("auction house written",
		"realm", slug,
		"realms", len(g.Slugs),
		"auctions", len(snap.Auctions),
		"players", acc.PlayerCount(),
		"last_modified", snap.LastModified,
	)
	return len(snap.Auctions), nil
}

// pauseFromNow returns a limiter whose next Wait blocks for a full GroupDelay
// counted from now, or nil when pacing is disabled.
func (r *Runner) pauseFromNow() *rate.Limiter {
	if r.delay <= 0 {
		return nil
	}
	l := rate.NewLimiter(rate.Every(r.delay), 1)
	l.Allow() // empty the bucket
	return l
}

func (r *Runner) finish(res *Result, start time.Time) {
	res.Duration = time.Since(start)
	status := res.Status()
	r.observer.ObserveRun(status.String(), res.Duration)
	r.logger.Info("ledger pass complete",
		"status", status,
		"groups", res.Groups,
		"succeeded", res.Succeeded,
		"failed", res.Failed,
		"realms", res.Realms,
		"auctions", res.Auctions,
		"duration", res.Duration,
	)
}

type nopObserver struct{}

func (nopObserver) ObserveGroup(string, int)         {}
func (nopObserver) ObserveSinkError()                {}
func (nopObserver) ObserveRun(string, time.Duration) {}
