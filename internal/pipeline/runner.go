package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"solanaSniper/internal/dispatch"
	"solanaSniper/internal/ingest"
	"solanaSniper/internal/queue"
	"solanaSniper/internal/tracker"
)

// RunConfig holds runtime settings for a pipeline run.
type RunConfig struct {
	QueueCapacity int
}

// Runner wires the ingest, dispatch and track units together and reports
// the first failure among them.
//
// A dispatch or track failure cancels ingest, which closes the websocket.
// An ingest failure only closes the queue: dispatch keeps the parent context
// so events already enqueued are still drained and handed off.
type Runner struct {
	cfg        RunConfig
	subscriber *ingest.Subscriber
	consumer   *ingest.Consumer
	dispatcher *dispatch.Dispatcher
	tracker    *tracker.Tracker
	logger     *zap.Logger
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(
	cfg RunConfig,
	subscriber *ingest.Subscriber,
	consumer *ingest.Consumer,
	dispatcher *dispatch.Dispatcher,
	tr *tracker.Tracker,
	logger *zap.Logger,
) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:        cfg,
		subscriber: subscriber,
		consumer:   consumer,
		dispatcher: dispatcher,
		tracker:    tr,
		logger:     logger,
	}
}

// Run executes one pipeline run. It returns nil when the upstream closed
// cleanly and every buffered event was dispatched.
func (r *Runner) Run(ctx context.Context) error {
	if r.subscriber == nil || r.consumer == nil {
		return fmt.Errorf("subscriber and consumer are required")
	}
	if r.dispatcher == nil {
		return fmt.Errorf("dispatcher is nil")
	}
	if r.tracker == nil {
		return fmt.Errorf("tracker is nil")
	}

	logger := r.logger.With(zap.String("run_id", uuid.NewString()))
	q := queue.New(r.cfg.QueueCapacity)
	logger.Info("pipeline start", zap.Int("queue_capacity", q.Cap()))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer q.Close()

		conn, err := r.subscriber.Open(gctx)
		if err != nil {
			logger.Error("subscribe failed", zap.Error(err))
			return err
		}

		if err := r.consumer.Run(gctx, conn, q); err != nil {
			logger.Error("stream ended", zap.Error(err))
			return err
		}
		logger.Info("stream closed cleanly")
		return nil
	})

	g.Go(func() error {
		defer r.tracker.Close()
		return r.dispatcher.Run(ctx, q)
	})

	g.Go(func() error {
		return r.tracker.Run(ctx)
	})

	err := g.Wait()
	if stats, statsErr := r.tracker.Stats(context.Background()); statsErr == nil {
		logger.Info("pipeline done",
			zap.Uint64("transactions", stats.Transactions),
			zap.Uint64("account_updates", stats.AccountUpdates),
			zap.Uint64("total_fees", stats.TotalFees),
			zap.Uint64("last_slot", stats.LastSlot),
			zap.Error(err),
		)
	}
	return err
}
