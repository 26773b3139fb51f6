package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rickgao/ah-ledger/internal/api"
	"github.com/rickgao/ah-ledger/internal/model"
)

// ErrSnapshotUnavailable is returned when no usable snapshot could be
// obtained within the retry budget. The run skips the group and continues.
var ErrSnapshotUnavailable = errors.New("snapshot unavailable")

var errNoListing = errors.New("status has no file listing")

// Source is the subset of the API client used to obtain snapshots.
type Source interface {
	GetAuctionStatus(ctx context.Context, slug string) (*api.AuctionStatus, error)
	GetAuctionData(ctx context.Context, fileURL string) ([]model.AuctionRecord, error)
}

// AttemptObserver is notified after every status request.
type AttemptObserver interface {
	ObserveFetchAttempt(slug string, listed bool)
}

// Config holds the retry policy.
type Config struct {
	MaxRetries int           // Additional attempts after the first (default: 4)
	RetryDelay time.Duration // Pause between attempts (default: 1s)
}

// DefaultConfig returns the standard retry policy.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 4,
		RetryDelay: time.Second,
	}
}

// Fetcher obtains snapshots with bounded retries.
type Fetcher struct {
	cfg      Config
	source   Source
	observer AttemptObserver
	logger   *slog.Logger
}

// NewFetcher creates a Fetcher. observer may be nil.
func NewFetcher(cfg Config, source Source, observer AttemptObserver, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Fetcher{
		cfg:      cfg,
		source:   source,
		observer: observer,
		logger:   logger,
	}
}

// Fetch returns the current snapshot for slug.
//
// A status without a file listing, a failed status request and a failed
// payload download each consume one attempt. Retries stop as soon as a
// snapshot is obtained; after MaxRetries+1 attempts the error wraps
// ErrSnapshotUnavailable.
func (f *Fetcher) Fetch(ctx context.Context, slug string) (*model.Snapshot, error) {
	var lastErr error
	attempts := f.cfg.MaxRetries + 1

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			f.logger.Debug("retrying snapshot fetch",
				"realm", slug,
				"attempt", attempt,
				"reason", lastErr,
			)
			if err := sleep(ctx, f.cfg.RetryDelay); err != nil {
				return nil, err
			}
		}

		snap, err := f.attempt(ctx, slug)
		if err == nil {
			return snap, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: realm %s after %d attempts: %v", ErrSnapshotUnavailable, slug, attempts, lastErr)
}

func (f *Fetcher) attempt(ctx context.Context, slug string) (*model.Snapshot, error) {
	status, err := f.source.GetAuctionStatus(ctx, slug)
	listed := err == nil && status.HasFiles()
	if f.observer != nil {
		f.observer.ObserveFetchAttempt(slug, listed)
	}
	if err != nil {
		return nil, err
	}
	if !listed {
		return nil, errNoListing
	}

	file := status.Files[0]
	auctions, err := f.source.GetAuctionData(ctx, file.URL)
	if err != nil {
		return nil, err
	}

	return &model.Snapshot{
		Slug:         slug,
		LastModified: file.LastModified,
		Auctions:     auctions,
	}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
