package core

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// EngineConfig configures a freshly constructed Engine.
type EngineConfig struct {
	// Controller is the only address that may halt the engine or drive
	// FinishPendingTasks. It is taken as given from this field; the
	// engine never assigns it from the first caller.
	Controller Address
	// FlushThreshold is the head-bucket length at which a push arms the
	// flusher. Must strictly exceed ChunkSize (spec §4.4 sizing note).
	FlushThreshold int
	// ChunkSize is how many events the flusher migrates per PushChunk
	// tick.
	ChunkSize int
	Backend   Backend
	Platform  Platform
	Fee       FeePolicy
	Now       func() uint64 // nanoseconds; defaults to time.Now().UnixNano()
}

// Engine is the root singleton wiring the balance ledger, history,
// flusher and controller/halt guard into the operation surface of
// spec §6. It replaces the teacher's process-wide mutable singletons
// with one value the hosting dispatcher owns and passes by reference
// into every handler.
type Engine struct {
	emitter
	ledger  *Ledger
	history *HistoryData
	backend Backend
	pump    ProgressPump

	flushThreshold int
	chunkSize      int

	controller Address
	halted     bool
}

// NewEngine constructs an Engine. Panics if FlushThreshold does not
// strictly exceed ChunkSize, per spec §4.4.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.FlushThreshold <= cfg.ChunkSize {
		panic("core: flush threshold must strictly exceed chunk size")
	}
	if cfg.Fee == nil {
		cfg.Fee = NewFlatRateFee()
	}
	if cfg.Now == nil {
		cfg.Now = func() uint64 { return uint64(time.Now().UnixNano()) }
	}
	ledger := NewLedger()
	history := NewHistoryData()
	e := &Engine{
		emitter: emitter{
			ledger:  ledger,
			history: history,
			fee:     cfg.Fee,
			stats:   NewStats(),
			now:     cfg.Now,
		},
		ledger:         ledger,
		history:        history,
		backend:        cfg.Backend,
		flushThreshold: cfg.FlushThreshold,
		chunkSize:      cfg.ChunkSize,
		controller:     cfg.Controller,
	}
	return e
}

// requireNotHalted panics, per spec §7, if the engine is halted. Every
// mutating operation except Snapshot calls this.
func (e *Engine) requireNotHalted() {
	if e.halted {
		panic(ErrHalted.Error())
	}
}

// Progress is C9: if a flusher is armed, advance it one tick. Every
// update handler below calls this first.
func (e *Engine) Progress(ctx context.Context) bool {
	if !e.pump.Armed() {
		return false
	}
	return e.pump.Progress(ctx, e.history)
}

// maybeArmFlusher arms a fresh flusher when the head bucket has reached
// FlushThreshold and nothing is currently armed (spec §4.4 sizing:
// re-arming only happens once a later push again crosses the
// threshold). Every flush provisions a brand new bucket, so the
// flusher always starts at CreateCanister.
func (e *Engine) maybeArmFlusher() {
	if e.pump.Armed() {
		return
	}
	if e.history.Head().Len() < e.flushThreshold {
		return
	}
	e.pump.Arm(NewFlusher(e.backend, e.chunkSize, false, Address{}))
	log.Info("engine: flush armed")
}

// checkFlushThreshold is called right after any operation that may have
// pushed a new history entry, arming the flusher if the threshold has
// just been crossed.
func (e *Engine) checkFlushThreshold() { e.maybeArmFlusher() }

// ---- Operation surface (spec §6) ----

// Balance returns acct's balance.
func (e *Engine) Balance(acct Address) uint64 { return e.ledger.Balance(acct) }

// Allowance returns the amount spender may withdraw from owner.
func (e *Engine) Allowance(owner, spender Address) uint64 { return e.ledger.Allowance(owner, spender) }

// Approve sets caller's allowance for spender.
func (e *Engine) Approve(ctx context.Context, caller, spender Address, amount uint64) (TransactionId, error) {
	e.requireNotHalted()
	e.Progress(ctx)
	id, err := e.emitter.Approve(caller, spender, amount)
	if err == nil {
		e.checkFlushThreshold()
	}
	return id, err
}

// Transfer moves amount cycles from caller to to.
func (e *Engine) Transfer(ctx context.Context, caller, to Address, amount uint64) (TransactionId, error) {
	e.requireNotHalted()
	e.Progress(ctx)
	id, err := e.emitter.Transfer(caller, to, amount)
	if err == nil {
		e.checkFlushThreshold()
	}
	return id, err
}

// TransferFrom moves amount cycles from from to to, on caller's behalf.
func (e *Engine) TransferFrom(ctx context.Context, caller, from, to Address, amount uint64) (TransactionId, error) {
	e.requireNotHalted()
	e.Progress(ctx)
	id, err := e.emitter.TransferFrom(caller, from, to, amount)
	if err == nil {
		e.checkFlushThreshold()
	}
	return id, err
}

// Mint accepts all cycles attached to the inbound message and credits
// to, minus the fee.
func (e *Engine) Mint(ctx context.Context, to Address, accepted uint64) (TransactionId, error) {
	e.requireNotHalted()
	e.Progress(ctx)
	id, err := e.emitter.Mint(to, accepted)
	if err == nil {
		e.checkFlushThreshold()
	}
	return id, err
}

// Burn debits amount cycles from caller by sending them to canister.
func (e *Engine) Burn(ctx context.Context, platform Platform, caller, canister Address, amount uint64) (TransactionId, error) {
	e.requireNotHalted()
	e.Progress(ctx)
	id, err := e.emitter.Burn(ctx, platform, caller, canister, amount)
	e.checkFlushThreshold()
	return id, err
}

// WalletCall forwards method on canister with cycles attached.
func (e *Engine) WalletCall(ctx context.Context, platform Platform, caller, canister Address, method string, args []byte, cycles uint64) ([]byte, TransactionId, error) {
	e.requireNotHalted()
	e.Progress(ctx)
	result, id, err := e.emitter.WalletCall(ctx, platform, caller, canister, method, args, cycles)
	e.checkFlushThreshold()
	return result, id, err
}

// WalletCreateCanister provisions a new canister funded with cycles.
func (e *Engine) WalletCreateCanister(ctx context.Context, platform Platform, caller Address, cycles uint64, controller *Address) (Address, TransactionId, error) {
	e.requireNotHalted()
	e.Progress(ctx)
	addr, id, err := e.emitter.WalletCreateCanister(ctx, platform, caller, cycles, controller)
	e.checkFlushThreshold()
	return addr, id, err
}

// WalletSend transfers amount cycles to canister with no payload.
func (e *Engine) WalletSend(ctx context.Context, platform Platform, caller, canister Address, amount uint64) (TransactionId, error) {
	e.requireNotHalted()
	e.Progress(ctx)
	id, err := e.emitter.WalletSend(ctx, platform, caller, canister, amount)
	e.checkFlushThreshold()
	return id, err
}

// GetTransaction resolves id from the head bucket or, for an older id,
// asks the backend to look it up in the owning bucket. When no backend
// is configured or the remote lookup fails or misses, it returns the
// bucket address the caller should ask instead.
func (e *Engine) GetTransaction(ctx context.Context, id TransactionId) (tx Transaction, found bool, remoteBucket *Address) {
	local, inHead, bucket, ok := e.history.GetTransaction(id)
	if !ok {
		return Transaction{}, false, nil
	}
	if inHead {
		return local, true, nil
	}
	if e.backend == nil {
		return Transaction{}, false, &bucket
	}
	tx, found, err := e.backend.LookupTransaction(ctx, bucket, id)
	if err != nil || !found {
		return Transaction{}, false, &bucket
	}
	return tx, true, nil
}

// Events returns a page of history starting at offset.
func (e *Engine) Events(offset *TransactionId, limit uint64, selfAddr Address) EventsPage {
	return e.history.Events(offset, limit, selfAddr)
}

// Halt sets the halted flag. Only the controller may call this.
func (e *Engine) Halt(caller Address) error {
	if caller != e.controller {
		return ErrNotController
	}
	e.halted = true
	log.WithField("caller", caller).Warn("engine: halted")
	return nil
}

// FinishPendingTasks repeatedly pumps Progress up to limit times. Only
// the controller may call this.
func (e *Engine) FinishPendingTasks(ctx context.Context, caller Address, limit int) error {
	if caller != e.controller {
		return ErrNotController
	}
	for i := 0; i < limit; i++ {
		if !e.Progress(ctx) {
			break
		}
	}
	return nil
}

// Controller returns the engine's controller address.
func (e *Engine) Controller() Address { return e.controller }

// Halted reports whether the engine is currently halted.
func (e *Engine) Halted() bool { return e.halted }

// StatsSnapshot returns a copy of the accounting counters.
func (e *Engine) StatsSnapshot() Stats { return e.stats.Snapshot() }
