package core

import "sync"

// Stats carries cumulative accounting counters alongside the ledger.
// These are load-bearing for a correct snapshot round-trip even though
// spec.md's Non-goals exclude stats *display* formatting; this struct
// holds only the counters, no presentation logic.
type Stats struct {
	mu            sync.Mutex
	CyclesMinted  uint64
	CyclesBurned  uint64
	FeesCollected uint64
	TransferCount uint64
}

// NewStats returns a zeroed Stats block.
func NewStats() *Stats { return &Stats{} }

func (s *Stats) recordMint(amount, fee uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CyclesMinted += amount
	s.FeesCollected += fee
}

func (s *Stats) recordBurn(amount, fee uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CyclesBurned += amount
	s.FeesCollected += fee
}

func (s *Stats) recordFee(fee uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FeesCollected += fee
}

func (s *Stats) recordTransfer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TransferCount++
}

// Snapshot returns a copy of the counters for inclusion in a C10 image.
func (s *Stats) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		CyclesMinted:  s.CyclesMinted,
		CyclesBurned:  s.CyclesBurned,
		FeesCollected: s.FeesCollected,
		TransferCount: s.TransferCount,
	}
}

// Restore overwrites the counters from a previously captured snapshot.
func (s *Stats) Restore(snap Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CyclesMinted = snap.CyclesMinted
	s.CyclesBurned = snap.CyclesBurned
	s.FeesCollected = snap.FeesCollected
	s.TransferCount = snap.TransferCount
}
