// Package store persists aggregated chat analytics snapshots to PostgreSQL
// and periodically captures them from a running aggregator.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aerovia-labs/faq-service/internal/analytics"
	"github.com/aerovia-labs/faq-service/pkg/logger"
	"github.com/aerovia-labs/faq-service/pkg/postgres"
	"github.com/aerovia-labs/faq-service/pkg/resilience"
)

// Store persists aggregated chat stats in PostgreSQL.
//
// It requires a `chat_stats_snapshots` table:
//
//	CREATE TABLE chat_stats_snapshots (
//	    id          BIGSERIAL PRIMARY KEY,
//	    data        JSONB NOT NULL,
//	    captured_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type Store struct {
	db     *postgres.Client
	logger *slog.Logger
}

// New creates a snapshot store.
func New(db *postgres.Client) *Store {
	return &Store{
		db:     db,
		logger: logger.WithComponent("analytics-store"),
	}
}

// snapshotRetention caps how many snapshots are kept; older rows are pruned
// in the same transaction as each insert.
const snapshotRetention = 500

// SaveSnapshot persists a stats snapshot and prunes rows beyond the
// retention cap.
func (s *Store) SaveSnapshot(ctx context.Context, stats analytics.AggregatedStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshaling stats: %w", err)
	}
	err = s.db.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chat_stats_snapshots (data, captured_at) VALUES ($1, $2)`,
			data, time.Now().UTC(),
		); err != nil {
			return fmt.Errorf("inserting snapshot: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM chat_stats_snapshots
			 WHERE id NOT IN (
			     SELECT id FROM chat_stats_snapshots
			     ORDER BY captured_at DESC LIMIT $1
			 )`,
			snapshotRetention,
		); err != nil {
			return fmt.Errorf("pruning snapshots: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving stats snapshot: %w", err)
	}
	s.logger.Info("stats snapshot saved",
		"total_questions", stats.TotalQuestions,
		"fallbacks", stats.Fallbacks,
	)
	return nil
}

// LatestSnapshot loads the most recent snapshot. Returns nil, nil when no
// snapshots exist yet.
func (s *Store) LatestSnapshot(ctx context.Context) (*analytics.AggregatedStats, error) {
	var data []byte
	err := s.db.DB.QueryRowContext(ctx,
		`SELECT data FROM chat_stats_snapshots ORDER BY captured_at DESC LIMIT 1`,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest snapshot: %w", err)
	}
	var stats analytics.AggregatedStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("unmarshaling snapshot: %w", err)
	}
	return &stats, nil
}

// ListSnapshots returns the last N snapshots, newest first.
func (s *Store) ListSnapshots(ctx context.Context, limit int) ([]analytics.AggregatedStats, error) {
	rows, err := s.db.DB.QueryContext(ctx,
		`SELECT data FROM chat_stats_snapshots ORDER BY captured_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []analytics.AggregatedStats
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		var stats analytics.AggregatedStats
		if err := json.Unmarshal(data, &stats); err != nil {
			s.logger.Warn("skipping corrupt snapshot", "error", err)
			continue
		}
		snapshots = append(snapshots, stats)
	}
	return snapshots, rows.Err()
}

// StartPeriodicSave launches a goroutine that snapshots the aggregator's
// stats to the database on the given interval, retrying transient failures
// with backoff.
func (s *Store) StartPeriodicSave(ctx context.Context, agg *analytics.Aggregator, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				stats := agg.Stats()
				err := resilience.Retry(ctx, "save-stats-snapshot", resilience.RetryConfig{}, func() error {
					saveCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
					defer cancel()
					return s.SaveSnapshot(saveCtx, stats)
				})
				if err != nil {
					s.logger.Error("periodic snapshot failed", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	s.logger.Info("periodic snapshot save started", "interval", interval)
}
