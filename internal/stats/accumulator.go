package stats

import (
	"errors"

	"github.com/rickgao/ah-ledger/internal/model"
)

var (
	// ErrFinalized is returned by Add after Finalize.
	ErrFinalized = errors.New("stats: accumulator already finalized")

	// ErrNotFinalized is returned by Documents before Finalize.
	ErrNotFinalized = errors.New("stats: accumulator not finalized")
)

// PlayerBucket holds one seller's totals and auctions in insertion order.
type PlayerBucket struct {
	Key      model.PlayerKey
	Stats    model.Stats
	Auctions []model.AuctionRecord
}

// Accumulator aggregates one auction house's snapshot.
// It is not safe for concurrent use.
type Accumulator struct {
	slug      string
	realm     model.Stats
	auctions  []model.AuctionRecord
	players   map[model.PlayerKey]*PlayerBucket
	order     []*PlayerBucket // first-seen order
	finalized bool
}

// New creates an empty accumulator for the auction house represented by slug.
func New(slug string) *Accumulator {
	return &Accumulator{
		slug:     slug,
		auctions: []model.AuctionRecord{},
		players:  make(map[model.PlayerKey]*PlayerBucket),
	}
}

// Slug returns the representative realm slug.
func (a *Accumulator) Slug() string {
	return a.slug
}

// Add folds one auction into the realm totals and its seller's bucket.
func (a *Accumulator) Add(rec model.AuctionRecord) error {
	if a.finalized {
		return ErrFinalized
	}

	a.auctions = append(a.auctions, rec)
	a.realm.Add(rec)

	key := rec.Key()
	bucket, ok := a.players[key]
	if !ok {
		bucket = &PlayerBucket{Key: key}
		a.players[key] = bucket
		a.order = append(a.order, bucket)
	}
	bucket.Stats.Add(rec)
	bucket.Auctions = append(bucket.Auctions, rec)

	return nil
}

// AddAll adds records in order, stopping at the first error.
func (a *Accumulator) AddAll(recs []model.AuctionRecord) error {
	for _, rec := range recs {
		if err := a.Add(rec); err != nil {
			return err
		}
	}
	return nil
}

// Finalize computes derived statistics and freezes the accumulator.
// No derived values exist yet; the hook fixes the ordering so that none
// can be skipped once they do. Calling it twice is a no-op.
func (a *Accumulator) Finalize() {
	if a.finalized {
		return
	}
	a.finalized = true
}

// Finalized reports whether Finalize has run.
func (a *Accumulator) Finalized() bool {
	return a.finalized
}

// RealmStats returns the auction-house-wide totals.
func (a *Accumulator) RealmStats() model.Stats {
	return a.realm
}

// PlayerCount returns the number of distinct sellers.
func (a *Accumulator) PlayerCount() int {
	return len(a.order)
}

// Player returns the bucket for key, if the seller has been seen.
func (a *Accumulator) Player(key model.PlayerKey) (PlayerBucket, bool) {
	b, ok := a.players[key]
	if !ok {
		return PlayerBucket{}, false
	}
	return *b, true
}

// Players returns all buckets in first-seen order.
func (a *Accumulator) Players() []PlayerBucket {
	out := make([]PlayerBucket, len(a.order))
	for i, b := range a.order {
		out[i] = *b
	}
	return out
}
