// Package store persists assembled snapshots and their reports.
// Writes happen once per run after assembly; a failed write is the
// caller's problem to log and never alters the snapshot itself.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/marketsnap/internal/contracts"
)

// Repository implements contracts.SnapshotStore over postgres
// ⭐ SSOT: 스냅샷 영속화는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

var _ contracts.SnapshotStore = (*Repository)(nil)

// NewRepository creates a snapshot repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveSnapshot stores the full snapshot payload as JSONB, keyed by run
func (r *Repository) SaveSnapshot(ctx context.Context, snapshot *contracts.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", snapshot.RunID, err)
	}

	query := `
		INSERT INTO snapshots (run_id, ticker, window_start, window_end, window_days, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (run_id) DO NOTHING
	`

	_, err = r.pool.Exec(ctx, query,
		snapshot.RunID,
		snapshot.Window.Ticker,
		snapshot.Window.Start,
		snapshot.Window.End,
		snapshot.Window.LengthDays,
		payload,
		snapshot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", snapshot.RunID, err)
	}
	return nil
}

// SaveReport stores the markdown narrative for a run
func (r *Repository) SaveReport(ctx context.Context, runID string, markdown string) error {
	query := `
		INSERT INTO reports (run_id, markdown, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (run_id) DO UPDATE SET markdown = EXCLUDED.markdown
	`

	if _, err := r.pool.Exec(ctx, query, runID, markdown); err != nil {
		return fmt.Errorf("save report %s: %w", runID, err)
	}
	return nil
}

// GetLatestSnapshot returns the newest stored snapshot for a ticker
// and window length, or nil when none exists.
func (r *Repository) GetLatestSnapshot(ctx context.Context, ticker string, days int) (*contracts.Snapshot, error) {
	query := `
		SELECT payload
		FROM snapshots
		WHERE ticker = $1 AND window_days = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	var payload []byte
	err := r.pool.QueryRow(ctx, query, ticker, days).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest snapshot for %s: %w", ticker, err)
	}

	var snapshot contracts.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot for %s: %w", ticker, err)
	}
	return &snapshot, nil
}

// EnsureSchema creates the backing tables when they do not exist yet
func (r *Repository) EnsureSchema(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS snapshots (
			run_id       TEXT PRIMARY KEY,
			ticker       TEXT NOT NULL,
			window_start DATE NOT NULL,
			window_end   DATE NOT NULL,
			window_days  INT  NOT NULL,
			payload      JSONB NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snapshots_ticker_days
			ON snapshots (ticker, window_days, created_at DESC);
		CREATE TABLE IF NOT EXISTS reports (
			run_id     TEXT PRIMARY KEY REFERENCES snapshots (run_id),
			markdown   TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
	`

	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
