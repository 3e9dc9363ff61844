// Package archive records check-cycle history in Postgres. It is optional
// infrastructure: the monitor runs fine without a database, the JSON store
// remains the source of truth.
package archive

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/yourorg/mls-monitor/internal/diff"
	"github.com/yourorg/mls-monitor/internal/listing"
)

type Archive struct{ DB *sql.DB }

func Open(dsn string) (*Archive, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Archive{DB: db}, nil
}

func (a *Archive) Ping(ctx context.Context) error { return a.DB.PingContext(ctx) }

func (a *Archive) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cycle_runs (
            run_id          TEXT PRIMARY KEY,
            started_at      TIMESTAMPTZ NOT NULL,
            finished_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
            total_current   INTEGER NOT NULL,
            new_count       INTEGER NOT NULL,
            removed_count   INTEGER NOT NULL,
            price_changes   INTEGER NOT NULL,
            status_changes  INTEGER NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS listing_snapshots (
            id              BIGSERIAL PRIMARY KEY,
            run_id          TEXT NOT NULL REFERENCES cycle_runs(run_id) ON DELETE CASCADE,
            listing_id      TEXT NOT NULL,
            payload         JSONB NOT NULL,
            payload_sha     TEXT NOT NULL,
            created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_run ON listing_snapshots(run_id);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_listing ON listing_snapshots(listing_id);`,
	}
	for _, s := range stmts {
		if _, err := a.DB.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// RecordCycle persists one run's summary and a snapshot of every current
// listing.
func (a *Archive) RecordCycle(ctx context.Context, runID string, startedAt time.Time, summary diff.Summary, listings []listing.Listing) error {
	tx, err := a.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO cycle_runs (run_id, started_at, total_current, new_count, removed_count, price_changes, status_changes)
         VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		runID, startedAt, summary.TotalCurrent,
		summary.NewCount, summary.RemovedCount,
		summary.PriceChanges, summary.StatusChanges)
	if err != nil {
		return err
	}

	for _, l := range listings {
		payload, err := json.Marshal(l)
		if err != nil {
			return err
		}
		sum := sha256.Sum256(payload)
		_, err = tx.ExecContext(ctx,
			`INSERT INTO listing_snapshots (run_id, listing_id, payload, payload_sha) VALUES ($1, $2, $3, $4)`,
			runID, l.ID, payload, hex.EncodeToString(sum[:]))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}
