package core

// EventsPage is one page of a reverse-chronological history read, as
// returned by Bucket.Events / HistoryData.Events.
type EventsPage struct {
	Data         []Transaction
	NextOffset   TransactionId
	NextCanister *Address
}

// Bucket is a fixed-offset, append-only event array with paginated
// reverse-chronological reads and a chain link to an older bucket.
// Offset is set exactly once, before the first append, and thereafter
// is advanced only by RemoveFirst; Next points at an older bucket on
// the chain, or is nil when this is the oldest bucket (C1).
type Bucket struct {
	offset      TransactionId
	offsetIsSet bool
	events      []Transaction
	next        *Address
}

// NewBucket returns an empty, unmetadata'd bucket.
func NewBucket() *Bucket { return &Bucket{} }

// SetMetadata records the bucket's constant offset and its pointer to
// an older bucket. It may be called at most once.
func (b *Bucket) SetMetadata(offset TransactionId, next *Address) {
	if b.offsetIsSet {
		panic("core: bucket metadata already set")
	}
	b.offset = offset
	b.offsetIsSet = true
	b.next = next
}

// Offset returns the global id of the oldest event this bucket holds.
func (b *Bucket) Offset() TransactionId { return b.offset }

// Len returns the number of events currently held.
func (b *Bucket) Len() int { return len(b.events) }

// Next returns the pointer to the older bucket on the chain, or nil.
func (b *Bucket) Next() *Address { return b.next }

// UpdateNext updates the older-bucket pointer.
func (b *Bucket) UpdateNext(addr *Address) { b.next = addr }

// Append concatenates events to the end of the bucket, preserving order.
func (b *Bucket) Append(events []Transaction) {
	b.events = append(b.events, events...)
}

// Push appends a single event and returns its newly assigned global id.
func (b *Bucket) Push(event Transaction) TransactionId {
	id := b.offset + uint64(len(b.events))
	b.events = append(b.events, event)
	return id
}

// GetTransaction returns the event at the given global id, or false if
// id falls outside this bucket's range.
func (b *Bucket) GetTransaction(id TransactionId) (Transaction, bool) {
	if id < b.offset {
		return Transaction{}, false
	}
	idx := id - b.offset
	if idx >= uint64(len(b.events)) {
		return Transaction{}, false
	}
	return b.events[idx], true
}

// Events returns a page in reverse chronological order, strictly older
// than offsetParam. If offsetParam is nil, it is treated as the newest
// id in the bucket (offset+len(events)), clamped down to that maximum.
// selfAddr is this bucket's own address, used as the continuation
// pointer when more data remains inside this same bucket.
func (b *Bucket) Events(offsetParam *TransactionId, limit uint64, selfAddr Address) EventsPage {
	max := b.offset + uint64(len(b.events))
	offset := max
	if offsetParam != nil && *offsetParam < max {
		offset = *offsetParam
	}

	end := offset - b.offset
	take := limit + 1
	start := uint64(0)
	if end > take {
		start = end - take
	}

	window := b.events[start:end]
	hasMore := false
	if uint64(len(window)) > limit {
		window = window[1:]
		hasMore = true
	}

	data := make([]Transaction, len(window))
	for i, tx := range window {
		data[len(window)-1-i] = tx
	}

	page := EventsPage{Data: data}
	switch {
	case hasMore:
		page.NextCanister = &selfAddr
		page.NextOffset = b.offset + start + 1
	case b.next != nil:
		next := *b.next
		page.NextCanister = &next
		page.NextOffset = b.offset
	}
	return page
}

// RemoveFirst drops the first min(n, len(events)) events and advances
// offset by the same count.
func (b *Bucket) RemoveFirst(n int) {
	if n > len(b.events) {
		n = len(b.events)
	}
	b.events = append([]Transaction(nil), b.events[n:]...)
	b.offset += uint64(n)
}
