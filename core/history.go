package core

import (
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"
)

// chainEntry is one (startOffset, bucket address) link in the chain map.
type chainEntry struct {
	startOffset TransactionId
	addr        Address
}

// HistoryData owns the in-process head bucket and the chain map routing
// global transaction ids to older buckets (C2 + C3). The chain is kept
// non-decreasing in startOffset by InsertBucket, which only ever appends
// (history only grows), so GetBucketFor can binary-search it.
type HistoryData struct {
	head  *Bucket
	chain []chainEntry

	lookupCache *lru.Cache[TransactionId, Address]
}

// NewHistoryData returns a HistoryData with a fresh, zero-offset head.
func NewHistoryData() *HistoryData {
	head := NewBucket()
	head.SetMetadata(0, nil)
	cache, _ := lru.New[TransactionId, Address](256)
	return &HistoryData{head: head, lookupCache: cache}
}

// Head returns the in-process head bucket.
func (h *HistoryData) Head() *Bucket { return h.head }

// Size is the exclusive upper bound of the global id space covered so
// far: head.offset + len(head.events).
func (h *HistoryData) Size() TransactionId {
	return h.head.Offset() + uint64(h.head.Len())
}

// Push delegates to the head bucket, returning the newly assigned id.
func (h *HistoryData) Push(tx Transaction) TransactionId {
	return h.head.Push(tx)
}

// InsertBucket appends (head.offset, addr) to the chain and points the
// head bucket's Next at addr. Called by the flusher immediately after a
// new bucket has been provisioned and had its metadata written.
func (h *HistoryData) InsertBucket(addr Address) {
	entry := chainEntry{startOffset: h.head.Offset(), addr: addr}
	if n := len(h.chain); n > 0 && h.chain[n-1].startOffset > entry.startOffset {
		panic("core: chain map startOffset went backwards")
	}
	h.chain = append(h.chain, entry)
	h.head.UpdateNext(&addr)
	log.WithFields(log.Fields{"start_offset": entry.startOffset, "bucket": addr}).Info("history: bucket linked")
}

// RemoveFirst advances the head bucket's offset, shedding events the
// flusher has already copied out.
func (h *HistoryData) RemoveFirst(n int) { h.head.RemoveFirst(n) }

// GetBucketFor binary-searches the chain for the largest startOffset <=
// id. It returns false when id falls in the head's own range or the
// chain is empty.
func (h *HistoryData) GetBucketFor(id TransactionId) (Address, bool) {
	if id >= h.head.Offset() {
		return Address{}, false
	}
	if cached, ok := h.lookupCache.Get(id); ok {
		return cached, true
	}
	if len(h.chain) == 0 {
		return Address{}, false
	}
	i := sort.Search(len(h.chain), func(i int) bool {
		return h.chain[i].startOffset > id
	})
	if i == 0 {
		return Address{}, false
	}
	addr := h.chain[i-1].addr
	h.lookupCache.Add(id, addr)
	return addr, true
}

// GetTransaction returns the event locally if id is within the head's
// range. Otherwise it resolves the owning bucket via GetBucketFor; the
// caller (Engine) is responsible for asking the Backend to look the
// event up remotely in that bucket.
func (h *HistoryData) GetTransaction(id TransactionId) (tx Transaction, local bool, bucket Address, found bool) {
	if id >= h.head.Offset() {
		tx, ok := h.head.GetTransaction(id)
		return tx, true, Address{}, ok
	}
	addr, ok := h.GetBucketFor(id)
	if !ok {
		return Transaction{}, false, Address{}, false
	}
	return Transaction{}, false, addr, true
}

// Events returns a page starting at offset. If offset lies in the
// head's range it delegates to the head bucket directly; otherwise it
// returns an empty page whose NextCanister points at the bucket that
// should hold offset, so the caller can continue with a direct call to
// that bucket.
func (h *HistoryData) Events(offset *TransactionId, limit uint64, selfAddr Address) EventsPage {
	if offset == nil || *offset >= h.head.Offset() {
		return h.head.Events(offset, limit, selfAddr)
	}
	addr, ok := h.GetBucketFor(*offset)
	if !ok {
		return EventsPage{}
	}
	return EventsPage{NextOffset: *offset, NextCanister: &addr}
}

// Archive is the exported tuple (head offset, head events, chain),
// produced by Archive and consumed by Load for a cross-upgrade image.
type Archive struct {
	HeadOffset TransactionId
	HeadEvents []Transaction
	Chain      []ArchiveChainEntry
}

// ArchiveChainEntry is one exported (startOffset, address) chain link.
type ArchiveChainEntry struct {
	StartOffset TransactionId
	Addr        Address
}

// Archive exports the current state.
func (h *HistoryData) Archive() Archive {
	events := make([]Transaction, h.head.Len())
	copy(events, h.head.events)
	chain := make([]ArchiveChainEntry, len(h.chain))
	for i, e := range h.chain {
		chain[i] = ArchiveChainEntry{StartOffset: e.startOffset, Addr: e.addr}
	}
	return Archive{HeadOffset: h.head.Offset(), HeadEvents: events, Chain: chain}
}

// Load restores a previously exported Archive. The target HistoryData
// must be empty (a fresh NewHistoryData with no pushes/inserts yet).
func (h *HistoryData) Load(a Archive) {
	if h.Size() != 0 || len(h.chain) != 0 {
		panic("core: history_data.Load requires an empty target")
	}
	head := NewBucket()
	head.SetMetadata(a.HeadOffset, nil)
	head.Append(a.HeadEvents)
	chain := make([]chainEntry, len(a.Chain))
	for i, e := range a.Chain {
		chain[i] = chainEntry{startOffset: e.StartOffset, addr: e.Addr}
	}
	if len(chain) > 0 {
		next := chain[len(chain)-1].addr
		head.UpdateNext(&next)
	}
	cache, _ := lru.New[TransactionId, Address](256)
	h.head = head
	h.chain = chain
	h.lookupCache = cache
}

// LoadV0 restores the legacy format: a flat list of events with no
// bucket chain at all. It requires the target to be empty.
func (h *HistoryData) LoadV0(events []Transaction) {
	h.Load(Archive{HeadOffset: 0, HeadEvents: events})
}
