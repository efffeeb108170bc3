package core

import (
	"context"
	"testing"
)

func TestSnapshotRoundTripPreservesBalancesAndHistory(t *testing.T) {
	e, _, _, controller := newTestEngine(t, 1000, 10)
	from, to := addr(1), addr(2)
	e.ledger.Deposit(from, 1000)
	if _, err := e.Transfer(context.Background(), from, to, 100); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if err := e.Halt(controller); err != nil {
		t.Fatalf("halt: %v", err)
	}

	data := e.Snapshot()

	e2, backend2, platform2, _ := newTestEngine(t, 1000, 10)
	_ = backend2
	_ = platform2
	if err := e2.Restore(data); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if e2.Balance(from) != e.Balance(from) {
		t.Fatalf("from balance %d want %d", e2.Balance(from), e.Balance(from))
	}
	if e2.Balance(to) != e.Balance(to) {
		t.Fatalf("to balance %d want %d", e2.Balance(to), e.Balance(to))
	}
	if e2.Controller() != e.Controller() {
		t.Fatalf("controller mismatch after restore")
	}
	if e2.Halted() {
		t.Fatalf("expected halted flag to be cleared on restore")
	}
	if e2.StatsSnapshot().TransferCount != e.StatsSnapshot().TransferCount {
		t.Fatalf("stats mismatch after restore")
	}
}

func TestSnapshotPanicsWhileFlushInProgress(t *testing.T) {
	e, _, _, _ := newTestEngine(t, 3, 1)
	from := addr(1)
	e.ledger.Deposit(from, 1000)
	for i := 0; i < 3; i++ {
		if _, err := e.Transfer(context.Background(), from, addr(2), 1); err != nil {
			t.Fatalf("transfer %d: %v", i, err)
		}
	}
	if !e.pump.Armed() {
		t.Fatalf("expected flusher armed after crossing threshold")
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic snapshotting mid-flush")
		}
	}()
	e.Snapshot()
}

func TestRestoreV0RestoresFlatBalancesAndEvents(t *testing.T) {
	e, _, _, _ := newTestEngine(t, 1000, 10)
	balances := map[Address]uint64{addr(1): 500, addr(2): 250}
	events := []Transaction{mkTx(1), mkTx(2)}
	e.RestoreV0(balances, events)

	if e.Balance(addr(1)) != 500 || e.Balance(addr(2)) != 250 {
		t.Fatalf("unexpected balances after restore_v0: %d, %d", e.Balance(addr(1)), e.Balance(addr(2)))
	}
	if e.history.Size() != 2 {
		t.Fatalf("expected 2 restored events, got %d", e.history.Size())
	}
}
