package journal

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists entries in a PostgreSQL table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS allweather_journal (
    id BIGSERIAL PRIMARY KEY,
    recorded_at TIMESTAMPTZ NOT NULL,
    source TEXT NOT NULL,
    operation TEXT NOT NULL,
    status TEXT NOT NULL,
    failed_state TEXT NOT NULL DEFAULT '',
    error TEXT NOT NULL DEFAULT '',
    contract TEXT NOT NULL DEFAULT '',
    tx_hash TEXT NOT NULL DEFAULT '',
    block_number BIGINT NOT NULL DEFAULT 0,
    gas_used BIGINT NOT NULL DEFAULT 0,
    value_wei TEXT NOT NULL DEFAULT '',
    fee_wei TEXT NOT NULL DEFAULT '',
    event TEXT NOT NULL DEFAULT '',
    duration_ms BIGINT NOT NULL DEFAULT 0
);
`

// NewPostgresStore connects to Postgres using the DSN and ensures the table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is empty")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func (p *PostgresStore) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

func (p *PostgresStore) Append(ctx context.Context, e Entry) error {
	_, err := p.pool.Exec(ctx, `
INSERT INTO allweather_journal (
    recorded_at, source, operation, status, failed_state, error, contract,
    tx_hash, block_number, gas_used, value_wei, fee_wei, event, duration_ms
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
`, e.RecordedAt, e.Source, e.Operation, e.Status, e.FailedState, e.Error, e.Contract,
		e.TxHash, int64(e.BlockNumber), int64(e.GasUsed), e.ValueWei, e.FeeWei, e.Event, e.DurationMs)
	return err
}

func (p *PostgresStore) Recent(ctx context.Context, source string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := p.pool.Query(ctx, `
SELECT recorded_at, source, operation, status, failed_state, error, contract,
       tx_hash, block_number, gas_used, value_wei, fee_wei, event, duration_ms
FROM allweather_journal
WHERE $1::text = '' OR source = $1
ORDER BY id DESC
LIMIT $2
`, source, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e            Entry
			block, gased int64
		)
		if err := rows.Scan(&e.RecordedAt, &e.Source, &e.Operation, &e.Status, &e.FailedState, &e.Error,
			&e.Contract, &e.TxHash, &block, &gased, &e.ValueWei, &e.FeeWei, &e.Event, &e.DurationMs); err != nil {
			return nil, err
		}
		e.BlockNumber = uint64(block)
		e.GasUsed = uint64(gased)
		out = append(out, e)
	}
	return out, rows.Err()
}
