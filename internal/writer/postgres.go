package writer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/ah-ledger/internal/stats"
)

// SinkMetrics counts PostgresSink activity.
type SinkMetrics struct {
	Inserts   int64
	Conflicts int64
	Batches   int64
	Errors    int64
}

// realmSnapshotRow represents a row for the realm_snapshots table.
type realmSnapshotRow struct {
	RunID        uuid.UUID
	Slug         string
	LastModified int64 // API lastModified, ms since epoch
	AuctionCount int64
	BuyoutTotal  int64
	Items        int64
	PlayerCount  int
}

// playerSnapshotRow represents a row for the player_snapshots table.
type playerSnapshotRow struct {
	RunID        uuid.UUID
	Slug         string
	Player       string
	PlayerRealm  string
	AuctionCount int64
	BuyoutTotal  int64
	Items        int64
}

// PostgresSink mirrors auction-house and seller totals into Postgres.
// Rows are append-only and keyed by run ID, so a rerun never overwrites.
type PostgresSink struct {
	db     *pgxpool.Pool
	runID  uuid.UUID
	logger *slog.Logger

	mu      sync.Mutex
	metrics SinkMetrics
}

// NewPostgresSink creates a sink tagging every row with runID.
func NewPostgresSink(db *pgxpool.Pool, runID uuid.UUID, logger *slog.Logger) *PostgresSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSink{
		db:     db,
		runID:  runID,
		logger: logger,
	}
}

// Stats returns current metrics.
func (s *PostgresSink) Stats() SinkMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics
}

// WriteGroup inserts one realm row and one row per seller in a single batch.
func (s *PostgresSink) WriteGroup(ctx context.Context, docs *stats.Documents, lastModified int64) error {
	start := time.Now()
	realm, players := s.transform(docs, lastModified)

	conflicts, err := s.batchInsert(ctx, realm, players)
	if err != nil {
		s.mu.Lock()
		s.metrics.Errors++
		s.mu.Unlock()
		return fmt.Errorf("insert snapshot rows for %s: %w", docs.Slug, err)
	}

	rows := 1 + len(players)
	s.mu.Lock()
	s.metrics.Inserts += int64(rows - conflicts)
	s.metrics.Conflicts += int64(conflicts)
	s.metrics.Batches++
	s.mu.Unlock()

	s.logger.Debug("flushed snapshot rows",
		"slug", docs.Slug,
		"count", rows,
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
	return nil
}

// transform converts documents to table rows.
func (s *PostgresSink) transform(docs *stats.Documents, lastModified int64) (realmSnapshotRow, []playerSnapshotRow) {
	realm := realmSnapshotRow{
		RunID:        s.runID,
		Slug:         docs.Slug,
		LastModified: lastModified,
		AuctionCount: docs.Realm.AuctionCount,
		BuyoutTotal:  docs.Realm.BuyoutTotal,
		Items:        docs.Realm.Items,
		PlayerCount:  len(docs.Players.Players),
	}

	players := make([]playerSnapshotRow, 0, len(docs.Players.Players))
	for _, p := range docs.Players.Players {
		players = append(players, playerSnapshotRow{
			RunID:        s.runID,
			Slug:         docs.Slug,
			Player:       p.Player,
			PlayerRealm:  p.Realm,
			AuctionCount: p.Stats.AuctionCount,
			BuyoutTotal:  p.Stats.BuyoutTotal,
			Items:        p.Stats.Items,
		})
	}
	return realm, players
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (s *PostgresSink) batchInsert(ctx context.Context, realm realmSnapshotRow, players []playerSnapshotRow) (conflicts int, err error) {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO realm_snapshots (run_id, slug, last_modified, auction_count, buyout_total, items, player_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (run_id, slug) DO NOTHING
	`, realm.RunID, realm.Slug, realm.LastModified, realm.AuctionCount, realm.BuyoutTotal, realm.Items, realm.PlayerCount)

	for _, p := range players {
		batch.Queue(`
			INSERT INTO player_snapshots (run_id, slug, player, player_realm, auction_count, buyout_total, items)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (run_id, slug, player, player_realm) DO NOTHING
		`, p.RunID, p.Slug, p.Player, p.PlayerRealm, p.AuctionCount, p.BuyoutTotal, p.Items)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
