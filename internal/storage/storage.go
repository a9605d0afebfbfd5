package storage

import (
	"context"

	"solanaSniper/internal/model"
)

// Storage defines a sink for enriched transactions and account updates.
type Storage interface {
	PutTransaction(ctx context.Context, tx model.TransactionRecord) error
	PutAccountUpdate(ctx context.Context, update model.AccountUpdate) error
}
