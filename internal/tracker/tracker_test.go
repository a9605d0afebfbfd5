package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"solanaSniper/internal/model"
)

type memoryStorage struct {
	mu       sync.Mutex
	txs      []model.TransactionRecord
	accounts []model.AccountUpdate
	failTx   bool
}

func (m *memoryStorage) PutTransaction(_ context.Context, tx model.TransactionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTx {
		return errors.New("disk full")
	}
	m.txs = append(m.txs, tx)
	return nil
}

func (m *memoryStorage) PutAccountUpdate(_ context.Context, update model.AccountUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts = append(m.accounts, update)
	return nil
}

func TestTrackerDrainsAfterClose(t *testing.T) {
	store := &memoryStorage{}
	tr := New(store, 8, nil)
	ctx := context.Background()

	if err := tr.PutTransaction(ctx, model.TransactionRecord{Signature: "SIG1", Slot: 10, Meta: model.TransactionMeta{Fee: 5000}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := tr.PutTransaction(ctx, model.TransactionRecord{Signature: "SIG2", Slot: 12, Meta: model.TransactionMeta{Fee: 7000, Err: json.RawMessage(`{"InstructionError":[0,"Custom"]}`)}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := tr.PutAccountUpdate(ctx, model.AccountUpdate{Slot: 11}); err != nil {
		t.Fatalf("put: %v", err)
	}
	tr.Close()
	tr.Close()

	if err := tr.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(store.txs) != 2 || store.txs[0].Signature != "SIG1" || len(store.accounts) != 1 {
		t.Fatalf("unexpected stored records: %+v %+v", store.txs, store.accounts)
	}

	stats, err := tr.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := Stats{
		Transactions:       2,
		FailedTransactions: 1,
		TotalFees:          12000,
		AccountUpdates:     1,
		LastSlot:           12,
		LastSignature:      "SIG2",
	}
	if stats != want {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	if err := tr.PutTransaction(ctx, model.TransactionRecord{Signature: "SIG3"}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestTrackerStatsWhileRunning(t *testing.T) {
	tr := New(nil, 1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- tr.Run(ctx)
	}()

	if err := tr.PutAccountUpdate(ctx, model.AccountUpdate{Slot: 5}); err != nil {
		t.Fatalf("put: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for {
		stats, err := tr.Stats(ctx)
		if err != nil {
			t.Fatalf("stats: %v", err)
		}
		if stats.AccountUpdates == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("account update was not recorded: %+v", stats)
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestTrackerCountsStorageErrors(t *testing.T) {
	store := &memoryStorage{failTx: true}
	tr := New(store, 4, nil)
	ctx := context.Background()

	if err := tr.PutTransaction(ctx, model.TransactionRecord{Signature: "SIG1"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	tr.Close()
	if err := tr.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	stats, _ := tr.Stats(ctx)
	if stats.StorageErrors != 1 || stats.Transactions != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
