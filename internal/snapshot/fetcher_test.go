package snapshot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rickgao/ah-ledger/internal/api"
	"github.com/rickgao/ah-ledger/internal/model"
)

// mockSource answers status requests from a scripted sequence.
// A nil entry means "no file listing"; past the end the last entry repeats.
type mockSource struct {
	statuses   []*api.AuctionStatus
	statusErr  error
	dataErr    error
	auctions   []model.AuctionRecord
	statusCall int
	dataCalls  []string
}

func (m *mockSource) GetAuctionStatus(ctx context.Context, slug string) (*api.AuctionStatus, error) {
	m.statusCall++
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	i := m.statusCall - 1
	if i >= len(m.statuses) {
		i = len(m.statuses) - 1
	}
	if m.statuses[i] == nil {
		return &api.AuctionStatus{}, nil
	}
	return m.statuses[i], nil
}

func (m *mockSource) GetAuctionData(ctx context.Context, fileURL string) ([]model.AuctionRecord, error) {
	m.dataCalls = append(m.dataCalls, fileURL)
	if m.dataErr != nil {
		return nil, m.dataErr
	}
	return m.auctions, nil
}

type countingObserver struct {
	listed, unlisted int
}

func (c *countingObserver) ObserveFetchAttempt(slug string, listed bool) {
	if listed {
		c.listed++
	} else {
		c.unlisted++
	}
}

func listed(url string, lastModified int64) *api.AuctionStatus {
	return &api.AuctionStatus{Files: []api.AuctionFile{{URL: url, LastModified: lastModified}}}
}

func testConfig() Config {
	return Config{MaxRetries: 4, RetryDelay: 0}
}

func TestFetch_FirstAttemptSucceeds(t *testing.T) {
	src := &mockSource{
		statuses: []*api.AuctionStatus{listed("http://dump/a.json", 1000)},
		auctions: []model.AuctionRecord{{Owner: "x", OwnerRealm: "r1", Buyout: 100, Quantity: 2}},
	}
	obs := &countingObserver{}

	snap, err := NewFetcher(testConfig(), src, obs, nil).Fetch(context.Background(), "aegwynn")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	// The corrected policy stops as soon as the listing is present.
	if src.statusCall != 1 {
		t.Errorf("status calls = %d, want 1", src.statusCall)
	}
	if snap.Slug != "aegwynn" || snap.LastModified != 1000 {
		t.Errorf("snapshot = %+v, want slug aegwynn lastModified 1000", snap)
	}
	if len(snap.Auctions) != 1 {
		t.Errorf("len(Auctions) = %d, want 1", len(snap.Auctions))
	}
	if len(src.dataCalls) != 1 || src.dataCalls[0] != "http://dump/a.json" {
		t.Errorf("data calls = %v, want [http://dump/a.json]", src.dataCalls)
	}
	if obs.listed != 1 || obs.unlisted != 0 {
		t.Errorf("observer listed/unlisted = %d/%d, want 1/0", obs.listed, obs.unlisted)
	}
}

func TestFetch_RetriesUntilListed(t *testing.T) {
	src := &mockSource{
		statuses: []*api.AuctionStatus{nil, nil, listed("http://dump/a.json", 5)},
	}
	obs := &countingObserver{}

	if _, err := NewFetcher(testConfig(), src, obs, nil).Fetch(context.Background(), "aegwynn"); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if src.statusCall != 3 {
		t.Errorf("status calls = %d, want 3", src.statusCall)
	}
	if obs.unlisted != 2 || obs.listed != 1 {
		t.Errorf("observer listed/unlisted = %d/%d, want 1/2", obs.listed, obs.unlisted)
	}
}

func TestFetch_BudgetExhausted(t *testing.T) {
	tests := []struct {
		name       string
		maxRetries int
		wantCalls  int
	}{
		{"default budget", 4, 5},
		{"no retries", 0, 1},
		{"negative treated as zero", -3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &mockSource{statuses: []*api.AuctionStatus{nil}}
			cfg := Config{MaxRetries: tt.maxRetries}

			_, err := NewFetcher(cfg, src, nil, nil).Fetch(context.Background(), "aegwynn")
			if !errors.Is(err, ErrSnapshotUnavailable) {
				t.Fatalf("error = %v, want ErrSnapshotUnavailable", err)
			}
			if !strings.Contains(err.Error(), "aegwynn") {
				t.Errorf("error %q should name the realm", err)
			}
			if src.statusCall != tt.wantCalls {
				t.Errorf("status calls = %d, want %d", src.statusCall, tt.wantCalls)
			}
			if len(src.dataCalls) != 0 {
				t.Errorf("data calls = %d, want 0", len(src.dataCalls))
			}
		})
	}
}

func TestFetch_StatusErrorsConsumeAttempts(t *testing.T) {
	src := &mockSource{statusErr: &api.APIError{StatusCode: 503, Message: "Service Unavailable"}}

	_, err := NewFetcher(Config{MaxRetries: 2}, src, nil, nil).Fetch(context.Background(), "aegwynn")
	if !errors.Is(err, ErrSnapshotUnavailable) {
		t.Fatalf("error = %v, want ErrSnapshotUnavailable", err)
	}
	if src.statusCall != 3 {
		t.Errorf("status calls = %d, want 3", src.statusCall)
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error %q should carry the last cause", err)
	}
}

func TestFetch_DataErrorRetried(t *testing.T) {
	src := &mockSource{
		statuses: []*api.AuctionStatus{listed("http://dump/a.json", 1)},
		dataErr:  errors.New("connection reset"),
	}

	_, err := NewFetcher(Config{MaxRetries: 1}, src, nil, nil).Fetch(context.Background(), "aegwynn")
	if !errors.Is(err, ErrSnapshotUnavailable) {
		t.Fatalf("error = %v, want ErrSnapshotUnavailable", err)
	}
	if len(src.dataCalls) != 2 {
		t.Errorf("data calls = %d, want 2", len(src.dataCalls))
	}
}

func TestFetch_ContextCancelledDuringDelay(t *testing.T) {
	src := &mockSource{statuses: []*api.AuctionStatus{nil}}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewFetcher(Config{MaxRetries: 4, RetryDelay: time.Second}, src, nil, nil).Fetch(ctx, "aegwynn")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want context.DeadlineExceeded", err)
	}
	if errors.Is(err, ErrSnapshotUnavailable) {
		t.Error("cancellation should not be reported as ErrSnapshotUnavailable")
	}
	if src.statusCall != 1 {
		t.Errorf("status calls = %d, want 1", src.statusCall)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxRetries != 4 {
		t.Errorf("MaxRetries = %d, want 4", cfg.MaxRetries)
	}
	if cfg.RetryDelay != time.Second {
		t.Errorf("RetryDelay = %v, want 1s", cfg.RetryDelay)
	}
}
