package core

import (
	"context"
	"testing"
)

func fillHead(h *HistoryData, n int) {
	for i := 0; i < n; i++ {
		h.Push(mkTx(uint64(i)))
	}
}

func TestFlusherHappyPathMigratesExactlyOneChunk(t *testing.T) {
	ctx := context.Background()
	h := NewHistoryData()
	fillHead(h, 10)
	backend := NewSimBackend(0)
	f := NewFlusher(backend, 10, false, Address{})

	for i := 0; i < 3; i++ {
		if f.Progress(ctx, h) != ProgressOk {
			t.Fatalf("tick %d: expected ProgressOk", i)
		}
	}
	if f.State() != StatePushChunk {
		t.Fatalf("expected StatePushChunk after create/install/metadata, got %v", f.State())
	}
	if f.Progress(ctx, h) != ProgressOk {
		t.Fatalf("expected ProgressOk on push_chunk tick")
	}
	if h.Head().Len() != 0 {
		t.Fatalf("expected head to be fully drained, got len %d", h.Head().Len())
	}
	if f.State() != StateDone {
		t.Fatalf("expected StateDone once head drops below chunk size, got %v", f.State())
	}
	if f.Progress(ctx, h) != ProgressDone {
		t.Fatalf("expected ProgressDone once state is Done")
	}
}

func TestFlusherPushChunkNeverSendsPartialChunk(t *testing.T) {
	ctx := context.Background()
	h := NewHistoryData()
	fillHead(h, 5) // fewer than chunk size
	backend := NewSimBackend(0)
	f := NewFlusher(backend, 10, false, Address{})

	for i := 0; i < 3; i++ {
		f.Progress(ctx, h)
	}
	if f.State() != StatePushChunk {
		t.Fatalf("expected StatePushChunk, got %v", f.State())
	}
	f.Progress(ctx, h)
	if f.State() != StateDone {
		t.Fatalf("expected immediate StateDone with no append when head is short, got %v", f.State())
	}
	if h.Head().Len() != 5 {
		t.Fatalf("expected head untouched, got len %d", h.Head().Len())
	}
}

func TestFlusherCreateCanisterFailureRetries(t *testing.T) {
	ctx := context.Background()
	h := NewHistoryData()
	fillHead(h, 10)
	backend := NewSimBackend(0)
	backend.InduceFailure("create_canister", 2)
	f := NewFlusher(backend, 10, false, Address{})

	for i := 0; i < 2; i++ {
		if f.Progress(ctx, h) != ProgressOk {
			t.Fatalf("tick %d: expected ProgressOk even on backend failure", i)
		}
		if f.State() != StateCreateCanister {
			t.Fatalf("tick %d: expected to still be retrying create_canister, got %v", i, f.State())
		}
	}
	f.Progress(ctx, h)
	if f.State() != StateInstallCode {
		t.Fatalf("expected to advance to install_code after retries exhausted, got %v", f.State())
	}
}

func TestFlusherAppendFailureRestartsAtCreateCanister(t *testing.T) {
	ctx := context.Background()
	h := NewHistoryData()
	fillHead(h, 10)
	backend := NewSimBackend(0)
	f := NewFlusher(backend, 10, false, Address{})
	for i := 0; i < 3; i++ {
		f.Progress(ctx, h)
	}
	backend.InduceFailure("append_transactions", 1)
	f.Progress(ctx, h)
	if f.State() != StateCreateCanister {
		t.Fatalf("expected restart at create_canister after append failure, got %v", f.State())
	}
	if h.Head().Len() != 10 {
		t.Fatalf("expected no events removed on a failed append, got len %d", h.Head().Len())
	}
}

func TestFlusherBlockedOnReentrantTick(t *testing.T) {
	ctx := context.Background()
	h := NewHistoryData()
	fillHead(h, 10)
	f := NewFlusher(NewSimBackend(0), 10, false, Address{})
	f.inProgress = true
	if f.Progress(ctx, h) != ProgressBlocked {
		t.Fatalf("expected ProgressBlocked while a tick is already in flight")
	}
}
