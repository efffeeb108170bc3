package core

import "testing"

func TestHistoryDataPushAssignsMonotoneIds(t *testing.T) {
	h := NewHistoryData()
	id0 := h.Push(mkTx(1))
	id1 := h.Push(mkTx(2))
	if id0 != 0 || id1 != 1 {
		t.Fatalf("ids = %d, %d; want 0, 1", id0, id1)
	}
	if h.Size() != 2 {
		t.Fatalf("size %d want 2", h.Size())
	}
}

func TestHistoryDataInsertBucketLinksHeadAndChain(t *testing.T) {
	h := NewHistoryData()
	h.Push(mkTx(1))
	h.Push(mkTx(2))
	bucketAddr := addr(1)
	h.InsertBucket(bucketAddr)
	if next := h.Head().Next(); next == nil || *next != bucketAddr {
		t.Fatalf("expected head.Next() to point at the inserted bucket")
	}
}

func TestHistoryDataInsertBucketOutOfOrderPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on out-of-order chain insert")
		}
	}()
	h := NewHistoryData()
	h.Push(mkTx(1))
	h.InsertBucket(addr(1))
	h.chain[0].startOffset = 100 // force the next InsertBucket to see it as out of order
	h.InsertBucket(addr(2))
}

func TestHistoryDataGetBucketForBinarySearch(t *testing.T) {
	h := NewHistoryData()
	for i := 0; i < 10; i++ {
		h.Push(mkTx(uint64(i)))
	}
	bucketA := addr(1)
	// Mirrors the flusher's real order: the chain link is recorded against
	// the head's offset *before* the migrated events are evicted.
	h.InsertBucket(bucketA)
	h.RemoveFirst(5) // covers ids [0,5)

	for i := uint64(0); i < 5; i++ {
		got, ok := h.GetBucketFor(i)
		if !ok || got != bucketA {
			t.Fatalf("id %d: expected bucket %v, got %v ok=%v", i, bucketA, got, ok)
		}
	}
	if _, ok := h.GetBucketFor(5); ok {
		t.Fatalf("id 5 is in the head's own range and should not resolve via chain")
	}
}

func TestHistoryDataGetTransactionLocalVsRemote(t *testing.T) {
	h := NewHistoryData()
	for i := 0; i < 5; i++ {
		h.Push(mkTx(uint64(i)))
	}
	bucketA := addr(1)
	h.InsertBucket(bucketA)
	h.RemoveFirst(3)

	tx, local, _, ok := h.GetTransaction(3)
	if !ok || !local || tx.Cycles != 3 {
		t.Fatalf("expected id 3 to resolve locally, got tx=%+v local=%v ok=%v", tx, local, ok)
	}

	_, local, bucket, ok := h.GetTransaction(1)
	if !ok || local || bucket != bucketA {
		t.Fatalf("expected id 1 to resolve to bucket %v, got local=%v bucket=%v ok=%v", bucketA, local, bucket, ok)
	}
}

func TestHistoryDataArchiveRoundTrip(t *testing.T) {
	h := NewHistoryData()
	for i := 0; i < 5; i++ {
		h.Push(mkTx(uint64(i)))
	}
	h.InsertBucket(addr(1))
	h.RemoveFirst(2)
	archive := h.Archive()

	h2 := NewHistoryData()
	h2.Load(archive)
	if h2.Size() != h.Size() {
		t.Fatalf("size %d want %d", h2.Size(), h.Size())
	}
	if h2.Head().Offset() != h.Head().Offset() {
		t.Fatalf("offset %d want %d", h2.Head().Offset(), h.Head().Offset())
	}
	if got, ok := h2.GetBucketFor(0); !ok || got != addr(1) {
		t.Fatalf("expected restored chain to resolve id 0 to bucket, got %v ok=%v", got, ok)
	}
}

func TestHistoryDataLoadRequiresEmptyTarget(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic loading into a non-empty HistoryData")
		}
	}()
	h := NewHistoryData()
	h.Push(mkTx(1))
	h.Load(Archive{})
}
