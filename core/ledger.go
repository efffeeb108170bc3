package core

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// allowanceKey identifies one (owner, spender) allowance entry.
type allowanceKey struct {
	owner   Address
	spender Address
}

// Ledger holds per-account cycle balances and per-(owner,spender)
// allowances. No key ever maps to zero: withdrawals that leave a balance
// at zero delete the entry, and approvals of zero delete the allowance.
// All mutations are synchronous and in-process (spec §4.5, §5).
type Ledger struct {
	mu         sync.RWMutex
	balances   map[Address]uint64
	allowances map[allowanceKey]uint64
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		balances:   make(map[Address]uint64),
		allowances: make(map[allowanceKey]uint64),
	}
}

// Balance returns the cycle balance of acct, or zero if it has none.
func (l *Ledger) Balance(acct Address) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[acct]
}

// Allowance returns the amount spender may withdraw from owner.
func (l *Ledger) Allowance(owner, spender Address) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.allowances[allowanceKey{owner, spender}]
}

// Deposit credits amt cycles to acct, creating the entry if absent.
func (l *Ledger) Deposit(acct Address, amt uint64) {
	if amt == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[acct] += amt
}

// Withdraw debits amt cycles from acct. It fails without mutating state
// if the balance is insufficient; on success the entry is removed once
// it reaches zero.
func (l *Ledger) Withdraw(acct Address, amt uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	bal := l.balances[acct]
	if bal < amt {
		return ErrInsufficientBalance
	}
	bal -= amt
	if bal == 0 {
		delete(l.balances, acct)
	} else {
		l.balances[acct] = bal
	}
	return nil
}

// Approve sets the allowance spender may draw from owner, debiting the
// fee from owner. A zero amt deletes the allowance; otherwise the stored
// value is amt+fee, reserving room for the fee transfer_from will later
// charge. owner must differ from spender.
func (l *Ledger) Approve(owner, spender Address, amt, fee uint64) error {
	if owner == spender {
		panic("core: approve owner == spender")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	bal := l.balances[owner]
	if bal < fee {
		return ErrInsufficientBalance
	}
	bal -= fee
	if bal == 0 {
		delete(l.balances, owner)
	} else {
		l.balances[owner] = bal
	}

	key := allowanceKey{owner, spender}
	if amt == 0 {
		delete(l.allowances, key)
	} else {
		l.allowances[key] = amt + fee
	}
	log.WithFields(log.Fields{"owner": owner, "spender": spender, "amount": amt, "fee": fee}).Debug("ledger: approve")
	return nil
}

// Transfer moves amt cycles from "from" to "to", debiting amt+fee from
// "from" and crediting amt to "to". from must differ from to and amt must
// be non-zero.
func (l *Ledger) Transfer(from, to Address, amt, fee uint64) error {
	if from == to {
		panic("core: transfer from == to")
	}
	if amt == 0 {
		panic("core: transfer amount == 0")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	total := amt + fee
	bal := l.balances[from]
	if bal < total {
		return ErrInsufficientBalance
	}
	bal -= total
	if bal == 0 {
		delete(l.balances, from)
	} else {
		l.balances[from] = bal
	}
	l.balances[to] += amt
	log.WithFields(log.Fields{"from": from, "to": to, "amount": amt, "fee": fee}).Debug("ledger: transfer")
	return nil
}

// TransferFrom moves amt cycles from owner to spender on caller's
// behalf, consuming amt+fee from the owner→caller allowance and
// debiting amt+fee from owner's balance. amt must be non-zero.
func (l *Ledger) TransferFrom(caller, owner, spender Address, amt, fee uint64) error {
	if amt == 0 {
		panic("core: transfer_from amount == 0")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	total := amt + fee
	key := allowanceKey{owner, caller}
	allowed := l.allowances[key]
	if allowed < total {
		return ErrInsufficientAllowance
	}
	bal := l.balances[owner]
	if bal < total {
		return ErrInsufficientBalance
	}

	bal -= total
	if bal == 0 {
		delete(l.balances, owner)
	} else {
		l.balances[owner] = bal
	}
	l.balances[spender] += amt

	remaining := allowed - total
	if remaining == 0 {
		delete(l.allowances, key)
	} else {
		l.allowances[key] = remaining
	}
	log.WithFields(log.Fields{"caller": caller, "owner": owner, "spender": spender, "amount": amt, "fee": fee}).Debug("ledger: transfer_from")
	return nil
}
