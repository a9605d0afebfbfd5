package tracker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"solanaSniper/internal/metrics"
	"solanaSniper/internal/model"
	"solanaSniper/internal/storage"
)

const defaultInboxSize = 256

// ErrClosed is returned when a record is submitted after Close.
var ErrClosed = errors.New("tracker closed")

// Stats is a snapshot of what the tracker has handled.
type Stats struct {
	Transactions       uint64 `json:"transactions"`
	FailedTransactions uint64 `json:"failed_transactions"`
	TotalFees          uint64 `json:"total_fees"`
	AccountUpdates     uint64 `json:"account_updates"`
	StorageErrors      uint64 `json:"storage_errors"`
	LastSlot           uint64 `json:"last_slot"`
	LastSignature      string `json:"last_signature,omitempty"`
}

type message struct {
	tx      *model.TransactionRecord
	account *model.AccountUpdate
}

// Tracker receives records from the dispatcher over its inbox and owns all
// downstream state. Only the Run goroutine touches stats and storage.
type Tracker struct {
	store   storage.Storage
	logger  *zap.Logger
	inbox   chan message
	queries chan chan Stats
	closing chan struct{}
	done    chan struct{}
	once    sync.Once
	stats   Stats
}

func New(store storage.Storage, inboxSize int, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if inboxSize <= 0 {
		inboxSize = defaultInboxSize
	}
	return &Tracker{
		store:   store,
		logger:  logger,
		inbox:   make(chan message, inboxSize),
		queries: make(chan chan Stats),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// PutTransaction hands an enriched transaction to the tracker.
func (t *Tracker) PutTransaction(ctx context.Context, tx model.TransactionRecord) error {
	return t.send(ctx, message{tx: &tx})
}

// PutAccountUpdate hands an account update to the tracker.
func (t *Tracker) PutAccountUpdate(ctx context.Context, update model.AccountUpdate) error {
	return t.send(ctx, message{account: &update})
}

func (t *Tracker) send(ctx context.Context, msg message) error {
	select {
	case <-t.closing:
		return ErrClosed
	default:
	}

	select {
	case t.inbox <- msg:
		return nil
	case <-t.closing:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops intake. Run drains what is already in the inbox and returns.
// Close must not race with PutTransaction or PutAccountUpdate; the
// dispatcher calls it once after its last send.
func (t *Tracker) Close() {
	t.once.Do(func() {
		close(t.closing)
		close(t.inbox)
	})
}

// Stats asks the Run goroutine for a snapshot. After Run has returned it
// reports the final state.
func (t *Tracker) Stats(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)
	select {
	case t.queries <- reply:
	case <-t.done:
		return t.stats, nil
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}

	select {
	case stats := <-reply:
		return stats, nil
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}

// Run processes records until the inbox is closed and drained, or ctx is
// done.
func (t *Tracker) Run(ctx context.Context) error {
	defer close(t.done)

	for {
		select {
		case msg, ok := <-t.inbox:
			if !ok {
				t.logger.Info("tracker drained",
					zap.Uint64("transactions", t.stats.Transactions),
					zap.Uint64("account_updates", t.stats.AccountUpdates),
					zap.Uint64("storage_errors", t.stats.StorageErrors),
				)
				return nil
			}
			t.handle(ctx, msg)
		case reply := <-t.queries:
			reply <- t.stats
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (t *Tracker) handle(ctx context.Context, msg message) {
	switch {
	case msg.tx != nil:
		tx := *msg.tx
		t.stats.Transactions++
		t.stats.TotalFees += tx.Meta.Fee
		if tx.Failed() {
			t.stats.FailedTransactions++
		}
		t.observeSlot(tx.Slot)
		t.stats.LastSignature = tx.Signature

		if t.store == nil {
			return
		}
		if err := t.store.PutTransaction(ctx, tx); err != nil {
			t.stats.StorageErrors++
			metrics.StorageErrors.WithLabelValues(string(model.KindLog)).Inc()
			t.logger.Error("store transaction failed", zap.String("signature", tx.Signature), zap.Error(err))
		}
	case msg.account != nil:
		update := *msg.account
		t.stats.AccountUpdates++
		t.observeSlot(update.Slot)

		if t.store == nil {
			return
		}
		if err := t.store.PutAccountUpdate(ctx, update); err != nil {
			t.stats.StorageErrors++
			metrics.StorageErrors.WithLabelValues(string(model.KindAccount)).Inc()
			t.logger.Error("store account update failed", zap.Uint64("slot", update.Slot), zap.Error(err))
		}
	}
}

func (t *Tracker) observeSlot(slot uint64) {
	if slot > t.stats.LastSlot {
		t.stats.LastSlot = slot
	}
}
