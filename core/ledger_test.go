package core

import "testing"

func addr(b byte) Address {
	var a Address
	a[0] = b
	return a
}

func TestLedgerDepositWithdraw(t *testing.T) {
	l := NewLedger()
	a := addr(1)
	l.Deposit(a, 100)
	if got := l.Balance(a); got != 100 {
		t.Fatalf("balance %d want 100", got)
	}
	if err := l.Withdraw(a, 30); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if got := l.Balance(a); got != 70 {
		t.Fatalf("balance %d want 70", got)
	}
}

func TestLedgerWithdrawInsufficientLeavesStateUnchanged(t *testing.T) {
	l := NewLedger()
	a := addr(1)
	l.Deposit(a, 10)
	if err := l.Withdraw(a, 11); err != ErrInsufficientBalance {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if got := l.Balance(a); got != 10 {
		t.Fatalf("balance %d want 10 (unchanged)", got)
	}
}

func TestLedgerWithdrawToZeroDeletesEntry(t *testing.T) {
	l := NewLedger()
	a := addr(1)
	l.Deposit(a, 10)
	if err := l.Withdraw(a, 10); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if _, ok := l.balances[a]; ok {
		t.Fatalf("expected balance entry to be deleted at zero")
	}
}

func TestLedgerTransferMovesAmountPlusFee(t *testing.T) {
	l := NewLedger()
	from, to := addr(1), addr(2)
	l.Deposit(from, 1000)
	if err := l.Transfer(from, to, 100, 10); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if got := l.Balance(from); got != 890 {
		t.Fatalf("from balance %d want 890", got)
	}
	if got := l.Balance(to); got != 100 {
		t.Fatalf("to balance %d want 100", got)
	}
}

func TestLedgerTransferSameAccountPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on from == to")
		}
	}()
	l := NewLedger()
	a := addr(1)
	l.Deposit(a, 100)
	_ = l.Transfer(a, a, 10, 1)
}

func TestLedgerApproveReservesFeeAndAllowanceIsAmountPlusFee(t *testing.T) {
	l := NewLedger()
	owner, spender := addr(1), addr(2)
	l.Deposit(owner, 1000)
	if err := l.Approve(owner, spender, 50, 5); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got := l.Allowance(owner, spender); got != 55 {
		t.Fatalf("allowance %d want 55", got)
	}
	if got := l.Balance(owner); got != 995 {
		t.Fatalf("owner balance %d want 995 (fee debited immediately)", got)
	}
}

func TestLedgerApproveZeroDeletesAllowance(t *testing.T) {
	l := NewLedger()
	owner, spender := addr(1), addr(2)
	l.Deposit(owner, 1000)
	if err := l.Approve(owner, spender, 50, 5); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := l.Approve(owner, spender, 0, 0); err != nil {
		t.Fatalf("approve zero: %v", err)
	}
	if _, ok := l.allowances[allowanceKey{owner, spender}]; ok {
		t.Fatalf("expected allowance entry to be deleted")
	}
}

func TestLedgerTransferFromConsumesAllowanceAndNeverGoesNegative(t *testing.T) {
	l := NewLedger()
	owner, caller, to := addr(1), addr(2), addr(3)
	l.Deposit(owner, 1000)
	if err := l.Approve(owner, caller, 100, 10); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := l.TransferFrom(caller, owner, to, 100, 10); err != nil {
		t.Fatalf("transfer_from: %v", err)
	}
	if got := l.Allowance(owner, caller); got != 0 {
		t.Fatalf("remaining allowance %d want 0", got)
	}
	if err := l.TransferFrom(caller, owner, to, 1, 0); err != ErrInsufficientAllowance {
		t.Fatalf("expected ErrInsufficientAllowance on exhausted allowance, got %v", err)
	}
}

func TestLedgerTransferFromExhaustedAllowanceFails(t *testing.T) {
	l := NewLedger()
	owner, caller, to := addr(1), addr(2), addr(3)
	l.Deposit(owner, 1000)
	if err := l.Approve(owner, caller, 10, 0); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := l.TransferFrom(caller, owner, to, 10, 1); err != ErrInsufficientAllowance {
		t.Fatalf("expected ErrInsufficientAllowance, got %v", err)
	}
}
