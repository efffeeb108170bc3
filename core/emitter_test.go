package core

import (
	"context"
	"errors"
	"testing"
)

func newTestEmitter() *emitter {
	return &emitter{
		ledger:  NewLedger(),
		history: NewHistoryData(),
		fee:     SteppedFee{Threshold: 1 << 62, Low: 10, High: 10}, // constant fee for arithmetic clarity
		stats:   NewStats(),
		now:     func() uint64 { return 1_000_000 },
	}
}

func TestEmitterTransferEmitsHistoryAndMovesBalance(t *testing.T) {
	e := newTestEmitter()
	from, to := addr(1), addr(2)
	e.ledger.Deposit(from, 1000)

	id, err := e.Transfer(from, to, 100)
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if e.ledger.Balance(from) != 890 {
		t.Fatalf("from balance %d want 890", e.ledger.Balance(from))
	}
	if e.ledger.Balance(to) != 100 {
		t.Fatalf("to balance %d want 100", e.ledger.Balance(to))
	}
	tx, _, _, ok := e.history.GetTransaction(id)
	if !ok || tx.Status != StatusSucceeded || tx.Cycles != 100 || tx.Fee != 10 {
		t.Fatalf("unexpected history entry: %+v ok=%v", tx, ok)
	}
}

func TestEmitterTransferInsufficientBalanceEmitsNoHistory(t *testing.T) {
	e := newTestEmitter()
	from, to := addr(1), addr(2)
	e.ledger.Deposit(from, 5)
	if _, err := e.Transfer(from, to, 100); err != ErrInsufficientBalance {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if e.history.Size() != 0 {
		t.Fatalf("expected no history entry on a rejected transfer, got size %d", e.history.Size())
	}
}

func TestEmitterMintRejectsAmountNotCoveringFee(t *testing.T) {
	e := newTestEmitter()
	to := addr(1)
	if _, err := e.Mint(to, 5); err != ErrAmountTooSmall {
		t.Fatalf("expected ErrAmountTooSmall, got %v", err)
	}
	if e.ledger.Balance(to) != 0 {
		t.Fatalf("expected no credit on a rejected mint")
	}
}

func TestEmitterMintCreditsAcceptedMinusFee(t *testing.T) {
	e := newTestEmitter()
	to := addr(1)
	id, err := e.Mint(to, 110)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if e.ledger.Balance(to) != 100 {
		t.Fatalf("balance %d want 100", e.ledger.Balance(to))
	}
	tx, _, _, _ := e.history.GetTransaction(id)
	if tx.Cycles != 100 || tx.Fee != 10 {
		t.Fatalf("unexpected mint entry: %+v", tx)
	}
}

func TestRunOutboundCallSuccessRefundsUnusedCycles(t *testing.T) {
	e := newTestEmitter()
	caller, canister := addr(1), addr(2)
	e.ledger.Deposit(caller, 1000)

	platform := NewSimPlatform()
	platform.CallFn = func(ctx context.Context, c Address, method string, args []byte, cycles uint64) ([]byte, uint64, error) {
		return []byte("ok"), 40, nil // refund 40 of the requested 100
	}

	_, id, err := e.WalletCall(context.Background(), platform, caller, canister, "ping", nil, 100)
	if err != nil {
		t.Fatalf("wallet_call: %v", err)
	}
	// withdrawn 100 + fee(10) = 110; refunded 40 + (deducedFee 10 - actualFee 10) = 40
	if got, want := e.ledger.Balance(caller), uint64(1000-110+40); got != want {
		t.Fatalf("caller balance %d want %d", got, want)
	}
	tx, _, _, ok := e.history.GetTransaction(id)
	if !ok || tx.Status != StatusSucceeded || tx.Cycles != 60 {
		t.Fatalf("unexpected history entry: %+v ok=%v", tx, ok)
	}
}

func TestRunOutboundCallFailureForfeitsFeeAndRefundsPrincipal(t *testing.T) {
	e := newTestEmitter()
	caller, canister := addr(1), addr(2)
	e.ledger.Deposit(caller, 1000)

	platform := NewSimPlatform()
	platform.CallFn = func(ctx context.Context, c Address, method string, args []byte, cycles uint64) ([]byte, uint64, error) {
		return nil, 0, errors.New("canister trapped")
	}

	_, id, err := e.WalletCall(context.Background(), platform, caller, canister, "ping", nil, 100)
	if err != ErrCallFailed {
		t.Fatalf("expected ErrCallFailed, got %v", err)
	}
	// requested 100 is refunded; the 10-cycle fee is forfeited
	if got, want := e.ledger.Balance(caller), uint64(1000-10); got != want {
		t.Fatalf("caller balance %d want %d", got, want)
	}
	tx, _, _, ok := e.history.GetTransaction(id)
	if !ok || tx.Status != StatusFailed || tx.Cycles != 0 || tx.Fee != 10 {
		t.Fatalf("unexpected history entry: %+v ok=%v", tx, ok)
	}
}

func TestEmitterBurnWrapsCallFailureAsInvalidTokenContract(t *testing.T) {
	e := newTestEmitter()
	caller, canister := addr(1), addr(2)
	e.ledger.Deposit(caller, 1000)

	platform := NewSimPlatform()
	platform.SendFn = func(ctx context.Context, c Address, amount uint64) (uint64, error) {
		return 0, errors.New("not a token contract")
	}

	if _, err := e.Burn(context.Background(), platform, caller, canister, 100); err != ErrInvalidTokenContract {
		t.Fatalf("expected ErrInvalidTokenContract, got %v", err)
	}
}
