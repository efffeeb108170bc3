package core

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// remoteBucket is one provisioned bucket as seen by SimBackend: a
// self-contained Bucket plus the install/metadata bookkeeping a real
// platform would track out of band.
type remoteBucket struct {
	installed bool
	meta      bool
	bucket    *Bucket
}

// SimBackend is an in-memory Backend used as the engine's default
// wiring and by tests. It stands in for the hosting platform's
// canister-management surface: CreateCanister synthesizes a
// deterministic address from a running counter hashed with the
// engine's own uuid-derived identity, and AppendTransactions simulates
// a fixed per-bucket memory cap by failing once a bucket would exceed
// it (spec §9 design note: "simulate bucket capacity by returning an
// error when a simulated memory cap is exceeded").
type SimBackend struct {
	mu       sync.Mutex
	selfID   Address
	counter  uint64
	buckets  map[Address]*remoteBucket
	eventCap int
	failNext map[string]int // op name -> remaining induced failures, for tests
}

// NewSimBackend returns a SimBackend with the given per-bucket event
// capacity (0 means unlimited).
func NewSimBackend(eventCap int) *SimBackend {
	id := uuid.New()
	var self Address
	h := crypto.Keccak256(id[:])
	copy(self[:], h)
	return &SimBackend{
		selfID:   self,
		buckets:  make(map[Address]*remoteBucket),
		eventCap: eventCap,
		failNext: make(map[string]int),
	}
}

// InduceFailure arms the next n calls to the named operation
// ("create_canister", "install_code", "write_metadata",
// "append_transactions") to fail. Test-only hook.
func (s *SimBackend) InduceFailure(op string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[op] = n
}

func (s *SimBackend) shouldFail(op string) bool {
	if n := s.failNext[op]; n > 0 {
		s.failNext[op] = n - 1
		return true
	}
	return false
}

func (s *SimBackend) nextAddress() Address {
	s.counter++
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], s.counter)
	digest := crypto.Keccak256(s.selfID[:], buf[:])
	var addr Address
	copy(addr[:], digest)
	return addr
}

// CreateCanister implements Backend.
func (s *SimBackend) CreateCanister(ctx context.Context) (Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shouldFail("create_canister") {
		return Address{}, fmt.Errorf("sim backend: create_canister failed")
	}
	addr := s.nextAddress()
	s.buckets[addr] = &remoteBucket{bucket: NewBucket()}
	return addr, nil
}

// InstallCode implements Backend.
func (s *SimBackend) InstallCode(ctx context.Context, addr Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shouldFail("install_code") {
		return fmt.Errorf("sim backend: install_code failed")
	}
	rb, ok := s.buckets[addr]
	if !ok {
		return fmt.Errorf("sim backend: unknown bucket %x", addr)
	}
	rb.installed = true
	return nil
}

// WriteMetadata implements Backend.
func (s *SimBackend) WriteMetadata(ctx context.Context, addr Address, meta BucketMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shouldFail("write_metadata") {
		return fmt.Errorf("sim backend: write_metadata failed")
	}
	rb, ok := s.buckets[addr]
	if !ok || !rb.installed {
		return fmt.Errorf("sim backend: bucket %x not installed", addr)
	}
	if rb.meta {
		return fmt.Errorf("sim backend: metadata already written for %x", addr)
	}
	rb.bucket.SetMetadata(meta.From, meta.Next)
	rb.meta = true
	return nil
}

// AppendTransactions implements Backend.
func (s *SimBackend) AppendTransactions(ctx context.Context, addr Address, events []Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shouldFail("append_transactions") {
		return fmt.Errorf("sim backend: append_transactions failed")
	}
	rb, ok := s.buckets[addr]
	if !ok || !rb.meta {
		return fmt.Errorf("sim backend: bucket %x not ready", addr)
	}
	if s.eventCap > 0 && rb.bucket.Len()+len(events) > s.eventCap {
		return fmt.Errorf("sim backend: bucket %x would exceed capacity", addr)
	}
	rb.bucket.Append(events)
	return nil
}

// LookupTransaction implements Backend.
func (s *SimBackend) LookupTransaction(ctx context.Context, addr Address, id TransactionId) (Transaction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rb, ok := s.buckets[addr]
	if !ok {
		return Transaction{}, false, fmt.Errorf("sim backend: unknown bucket %x", addr)
	}
	tx, found := rb.bucket.GetTransaction(id)
	return tx, found, nil
}

// ID implements Backend.
func (s *SimBackend) ID(ctx context.Context) (Address, error) {
	return s.selfID, nil
}

// Events lets tests/CLI page directly against a provisioned bucket,
// mirroring what a real bucket canister would expose.
func (s *SimBackend) Events(addr Address, offset *TransactionId, limit uint64) (EventsPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rb, ok := s.buckets[addr]
	if !ok {
		return EventsPage{}, fmt.Errorf("sim backend: unknown bucket %x", addr)
	}
	return rb.bucket.Events(offset, limit, addr), nil
}
