package dispatch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"solanaSniper/internal/chain"
	"solanaSniper/internal/metrics"
	"solanaSniper/internal/model"
	"solanaSniper/internal/queue"
	"solanaSniper/internal/storage"
)

// Enricher fetches full transaction detail for a signature.
type Enricher interface {
	FetchTransaction(ctx context.Context, signature string) (model.TransactionRecord, error)
}

// Dispatcher drains the queue, enriches successful log events and hands
// records downstream. Enrichment runs sequentially in queue order.
type Dispatcher struct {
	enricher Enricher
	sink     storage.Storage
	logger   *zap.Logger
	now      func() time.Time
}

func New(enricher Enricher, sink storage.Storage, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		enricher: enricher,
		sink:     sink,
		logger:   logger,
		now:      time.Now,
	}
}

// Run processes events until the queue is closed and empty, returning nil,
// or until ctx is done, returning ctx.Err(). Per-event failures are logged.
func (d *Dispatcher) Run(ctx context.Context, in *queue.Queue) error {
	var processed uint64
	for {
		ev, ok, err := in.Get(ctx)
		if err != nil {
			return err
		}
		if !ok {
			d.logger.Info("queue closed, dispatcher done", zap.Uint64("events", processed))
			return nil
		}
		metrics.QueueDepth.Set(float64(in.Len()))

		processed++
		d.Dispatch(ctx, ev)
	}
}

// Dispatch handles a single event.
func (d *Dispatcher) Dispatch(ctx context.Context, ev model.Event) {
	metrics.EventsDispatched.WithLabelValues(string(ev.Kind())).Inc()

	switch e := ev.(type) {
	case model.LogEvent:
		d.handleLog(ctx, e)
	case model.AccountEvent:
		d.handleAccount(ctx, e)
	case model.UnrecognizedEvent:
		d.logger.Debug("unrecognized frame", zap.String("method", e.Method), zap.ByteString("id", e.ID))
	}
}

func (d *Dispatcher) handleLog(ctx context.Context, ev model.LogEvent) {
	if ev.HasError {
		metrics.FailedLogsDropped.Inc()
		d.logger.Debug("skip failed transaction", zap.String("signature", ev.Signature), zap.ByteString("err", ev.Err))
		return
	}

	d.logger.Info("successful transaction", zap.String("signature", ev.Signature), zap.Uint64("slot", ev.Slot))

	tx, err := d.enricher.FetchTransaction(ctx, ev.Signature)
	if err != nil {
		d.logger.Warn("enrichment failed",
			zap.String("signature", ev.Signature),
			zap.String("kind", string(chain.KindOf(err))),
			zap.Error(err),
		)
		return
	}

	if d.sink == nil {
		return
	}
	if err := d.sink.PutTransaction(ctx, tx); err != nil {
		d.logger.Warn("hand off transaction failed", zap.String("signature", tx.Signature), zap.Error(err))
	}
}

func (d *Dispatcher) handleAccount(ctx context.Context, ev model.AccountEvent) {
	d.logger.Debug("account notification",
		zap.String("method", ev.Method),
		zap.Uint64("subscription", ev.Subscription),
		zap.Uint64("slot", ev.Slot),
	)

	if d.sink == nil {
		return
	}
	if err := d.sink.PutAccountUpdate(ctx, model.NewAccountUpdate(ev, d.now())); err != nil {
		d.logger.Warn("hand off account update failed", zap.Uint64("slot", ev.Slot), zap.Error(err))
	}
}
