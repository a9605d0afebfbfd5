package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"solanaSniper/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	signature  TEXT PRIMARY KEY,
	slot       BIGINT NOT NULL,
	block_time BIGINT,
	fee        BIGINT NOT NULL,
	failed     BOOLEAN NOT NULL,
	payload    JSONB NOT NULL,
	fetched_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS transactions_slot_idx ON transactions (slot);
CREATE TABLE IF NOT EXISTS account_updates (
	id           BIGSERIAL PRIMARY KEY,
	method       TEXT NOT NULL,
	subscription BIGINT NOT NULL,
	slot         BIGINT NOT NULL,
	payload      JSONB NOT NULL,
	received_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS account_updates_slot_idx ON account_updates (slot);
`

const upsertTransaction = `
	INSERT INTO transactions (
		signature, slot, block_time, fee, failed, payload, fetched_at, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
	ON CONFLICT (signature)
	DO UPDATE SET
		slot = EXCLUDED.slot,
		block_time = EXCLUDED.block_time,
		fee = EXCLUDED.fee,
		failed = EXCLUDED.failed,
		payload = EXCLUDED.payload,
		fetched_at = EXCLUDED.fetched_at,
		updated_at = now()
`

// Store provides Postgres persistence for enriched transactions and
// account updates.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// PutTransaction inserts or updates one transaction.
func (s *Store) PutTransaction(ctx context.Context, tx model.TransactionRecord) error {
	args, err := transactionArgs(tx)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, upsertTransaction, args...); err != nil {
		return fmt.Errorf("upsert transaction %s: %w", tx.Signature, err)
	}
	return nil
}

// UpsertTransactions writes a batch of transactions in one round trip.
func (s *Store) UpsertTransactions(ctx context.Context, txs []model.TransactionRecord) error {
	if len(txs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, tx := range txs {
		args, err := transactionArgs(tx)
		if err != nil {
			return err
		}
		batch.Queue(upsertTransaction, args...)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for _, tx := range txs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert transaction %s: %w", tx.Signature, err)
		}
	}
	return nil
}

// PutAccountUpdate appends one account update.
func (s *Store) PutAccountUpdate(ctx context.Context, update model.AccountUpdate) error {
	payload := string(update.Payload)
	if payload == "" {
		payload = "null"
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO account_updates (method, subscription, slot, payload, received_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		update.Method,
		int64(update.Subscription),
		int64(update.Slot),
		payload,
		parseTimestamp(update.ReceivedAt),
	)
	if err != nil {
		return fmt.Errorf("insert account update: %w", err)
	}
	return nil
}

func transactionArgs(tx model.TransactionRecord) ([]interface{}, error) {
	if tx.Signature == "" {
		return nil, fmt.Errorf("transaction signature is required")
	}
	payload, err := json.Marshal(tx)
	if err != nil {
		return nil, fmt.Errorf("marshal transaction %s: %w", tx.Signature, err)
	}
	return []interface{}{
		tx.Signature,
		int64(tx.Slot),
		tx.BlockTime,
		int64(tx.Meta.Fee),
		tx.Failed(),
		string(payload),
		parseTimestamp(tx.FetchedAt),
	}, nil
}

// parseTimestamp reads an RFC3339 record timestamp, defaulting to now.
func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Now().UTC()
	}
	return ts
}
