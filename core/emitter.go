package core

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// emitter couples ledger mutations with history emission and the
// fee/refund discipline of spec §4.7 (C8). It is embedded in Engine.
type emitter struct {
	ledger  *Ledger
	history *HistoryData
	fee     FeePolicy
	stats   *Stats
	now     func() uint64 // nanoseconds
}

func (e *emitter) push(cycles, fee uint64, status Status, kind Kind) TransactionId {
	tx := NewTransaction(e.now(), cycles, fee, status, kind)
	return e.history.Push(tx)
}

// Transfer moves amount cycles from caller to to, purely internally:
// no outbound call, no refund accounting.
func (e *emitter) Transfer(caller, to Address, amount uint64) (TransactionId, error) {
	fee := e.fee.Compute(amount)
	if err := e.ledger.Transfer(caller, to, amount, fee); err != nil {
		return 0, err
	}
	e.stats.recordFee(fee)
	e.stats.recordTransfer()
	return e.push(amount, fee, StatusSucceeded, Transfer(caller, to)), nil
}

// Approve sets the allowance spender may draw from owner=caller.
func (e *emitter) Approve(caller, spender Address, amount uint64) (TransactionId, error) {
	fee := e.fee.Compute(amount)
	if err := e.ledger.Approve(caller, spender, amount, fee); err != nil {
		return 0, err
	}
	e.stats.recordFee(fee)
	return e.push(amount, fee, StatusSucceeded, ApproveKind(caller, spender)), nil
}

// TransferFrom moves amount cycles from owner to spender on caller's
// behalf, drawing against the owner→caller allowance.
func (e *emitter) TransferFrom(caller, owner, spender Address, amount uint64) (TransactionId, error) {
	fee := e.fee.Compute(amount)
	if err := e.ledger.TransferFrom(caller, owner, spender, amount, fee); err != nil {
		return 0, err
	}
	e.stats.recordFee(fee)
	e.stats.recordTransfer()
	return e.push(amount, fee, StatusSucceeded, TransferFromKind(caller, owner, spender)), nil
}

// Mint credits cycles to "to" by accepting all cycles available on the
// inbound message. accepted must strictly exceed the computed fee or
// the mint is rejected with AmountTooSmall; no balance change and no
// history entry occur on rejection.
func (e *emitter) Mint(to Address, accepted uint64) (TransactionId, error) {
	fee := e.fee.Compute(accepted)
	if accepted <= fee {
		return 0, ErrAmountTooSmall
	}
	credited := accepted - fee
	e.ledger.Deposit(to, credited)
	e.stats.recordMint(credited, fee)
	return e.push(credited, fee, StatusSucceeded, MintKind(to)), nil
}

// runOutboundCall is the shared withdraw -> call -> refund/emit
// skeleton behind WalletCall, Burn, WalletCreateCanister and
// WalletSend (spec §4.7; grounded on the original cycles_wallet.rs
// sharing this exact shape across its four handlers).
//
// doCall is invoked with the requested cycles already withdrawn from
// caller (plus the deduced fee); it returns the refunded amount and the
// opaque result. On failure the full requested amount (not the fee) is
// re-deposited and a FAILED entry is emitted with cycles=0; the fee is
// forfeited to the system.
func (e *emitter) runOutboundCall(
	caller Address,
	requested uint64,
	kind func(actualCycles uint64) Kind,
	doCall func() (result []byte, refunded uint64, err error),
) ([]byte, TransactionId, error) {
	deducedFee := e.fee.Compute(requested)
	if err := e.ledger.Withdraw(caller, requested+deducedFee); err != nil {
		return nil, 0, err
	}

	result, refunded, err := doCall()
	if err != nil {
		e.ledger.Deposit(caller, requested)
		e.stats.recordFee(deducedFee)
		id := e.push(0, deducedFee, StatusFailed, kind(0))
		log.WithFields(log.Fields{"caller": caller, "err": err}).Warn("emitter: outbound call failed, fee forfeited")
		return nil, id, ErrCallFailed
	}

	actualCycles := requested - refunded
	actualFee := e.fee.Compute(actualCycles)
	e.ledger.Deposit(caller, refunded+(deducedFee-actualFee))
	e.stats.recordFee(actualFee)
	id := e.push(actualCycles, actualFee, StatusSucceeded, kind(actualCycles))
	return result, id, nil
}

// WalletCall forwards a method invocation to canister, charging caller
// for requested cycles plus fee and refunding unused cycles.
func (e *emitter) WalletCall(ctx context.Context, platform Platform, caller, canister Address, method string, args []byte, requested uint64) ([]byte, TransactionId, error) {
	return e.runOutboundCall(caller, requested,
		func(actual uint64) Kind { return CanisterCalledKind(caller, canister, method) },
		func() ([]byte, uint64, error) { return platform.Call(ctx, canister, method, args, requested) },
	)
}

// Burn debits amount cycles from caller by sending them to canister.
func (e *emitter) Burn(ctx context.Context, platform Platform, caller, canister Address, amount uint64) (TransactionId, error) {
	_, id, err := e.runOutboundCall(caller, amount,
		func(actual uint64) Kind { return BurnKind(caller, canister) },
		func() ([]byte, uint64, error) {
			refunded, err := platform.Send(ctx, canister, amount)
			return nil, refunded, err
		},
	)
	if err != nil {
		return id, ErrInvalidTokenContract
	}
	e.stats.recordBurn(amount, e.fee.Compute(amount))
	return id, nil
}

// WalletSend is the burn primitive without a token-contract validity
// check, sharing the same skeleton (original cycles_wallet.rs
// wallet_send).
func (e *emitter) WalletSend(ctx context.Context, platform Platform, caller, canister Address, amount uint64) (TransactionId, error) {
	_, id, err := e.runOutboundCall(caller, amount,
		func(actual uint64) Kind { return BurnKind(caller, canister) },
		func() ([]byte, uint64, error) {
			refunded, err := platform.Send(ctx, canister, amount)
			return nil, refunded, err
		},
	)
	if err != nil {
		return id, ErrCallFailed
	}
	return id, nil
}

// WalletCreateCanister provisions a new canister funded with cycles.
func (e *emitter) WalletCreateCanister(ctx context.Context, platform Platform, caller Address, cycles uint64, controller *Address) (Address, TransactionId, error) {
	var created Address
	_, id, err := e.runOutboundCall(caller, cycles,
		func(actual uint64) Kind { return CanisterCreatedKind(caller, created) },
		func() ([]byte, uint64, error) {
			addr, refunded, err := platform.CreateCanister(ctx, cycles, controller)
			created = addr
			return nil, refunded, err
		},
	)
	if err != nil {
		return Address{}, id, ErrCallFailed
	}
	return created, id, nil
}
