package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"solanaSniper/internal/model"
)

// Retrying retries failed writes on the wrapped Storage with exponential
// backoff.
type Retrying struct {
	next       Storage
	name       string
	maxRetries int
	baseDelay  time.Duration
	logger     *zap.Logger
}

func WithRetry(next Storage, name string, maxRetries int, baseDelay time.Duration, logger *zap.Logger) *Retrying {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retrying{
		next:       next,
		name:       name,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

func (r *Retrying) PutTransaction(ctx context.Context, tx model.TransactionRecord) error {
	return withRetry(ctx, r.maxRetries, r.baseDelay, func(ctx context.Context) error {
		err := r.next.PutTransaction(ctx, tx)
		if err != nil {
			r.logger.Warn("store transaction failed", zap.String("storage", r.name), zap.String("signature", tx.Signature), zap.Error(err))
		}
		return err
	})
}

func (r *Retrying) PutAccountUpdate(ctx context.Context, update model.AccountUpdate) error {
	return withRetry(ctx, r.maxRetries, r.baseDelay, func(ctx context.Context) error {
		err := r.next.PutAccountUpdate(ctx, update)
		if err != nil {
			r.logger.Warn("store account update failed", zap.String("storage", r.name), zap.Uint64("slot", update.Slot), zap.Error(err))
		}
		return err
	})
}

func withRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	delay := baseDelay
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}
