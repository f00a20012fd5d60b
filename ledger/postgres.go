package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/picopay/bitserv/types"
)

const redemptionsSchema = `
CREATE TABLE IF NOT EXISTS redemptions (
	id          UUID PRIMARY KEY,
	identifier  TEXT NOT NULL UNIQUE,
	price       BIGINT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
)`

// Postgres is a shared ledger on a redemptions table; the unique constraint
// on identifier makes the insert the atomic check.
type Postgres struct {
	db *sql.DB
}

// OpenPostgres connects with the given DSN and ensures the redemptions
// table exists.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open ledger database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping ledger database: %w", err)
	}
	if _, err := db.ExecContext(ctx, redemptionsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create redemptions table: %w", err)
	}
	return &Postgres{db: db}, nil
}

// NewPostgres wraps an existing connection pool. The redemptions table must
// already exist.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) GetOrCreate(ctx context.Context, identifier string, price types.Price) (types.Record, bool, error) {
	rec := types.Record{
		ID:         uuid.NewString(),
		Identifier: identifier,
		Price:      price,
		CreatedAt:  time.Now().UTC(),
	}

	res, err := p.db.ExecContext(ctx,
		`INSERT INTO redemptions (id, identifier, price, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (identifier) DO NOTHING`,
		rec.ID, rec.Identifier, int64(rec.Price), rec.CreatedAt)
	if err != nil {
		return types.Record{}, false, fmt.Errorf("ledger write for %s: %w", identifier, err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return types.Record{}, false, err
	}
	if inserted > 0 {
		return rec, true, nil
	}

	var prior types.Record
	var price64 int64
	err = p.db.QueryRowContext(ctx,
		`SELECT id, identifier, price, created_at FROM redemptions WHERE identifier = $1`,
		identifier).Scan(&prior.ID, &prior.Identifier, &price64, &prior.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Lost a race with a concurrent delete; the layer never deletes, so
		// treat it as a storage fault rather than inventing a record.
		return types.Record{}, false, fmt.Errorf("ledger record for %s vanished", identifier)
	}
	if err != nil {
		return types.Record{}, false, fmt.Errorf("ledger read for %s: %w", identifier, err)
	}
	prior.Price = types.Price(price64)
	return prior, false, nil
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

var _ Ledger = (*Postgres)(nil)
