package core

import "github.com/ethereum/go-ethereum/rlp"

// balanceEntry/allowanceEntry flatten the ledger's maps into RLP-
// encodable slices; RLP has no native map support, the same constraint
// the teacher works around for its own state maps.
type balanceEntry struct {
	Addr Address
	Amt  uint64
}

type allowanceEntry struct {
	Owner   Address
	Spender Address
	Amt     uint64
}

type snapshotV1 struct {
	Balances   []balanceEntry
	Allowances []allowanceEntry
	HeadOffset TransactionId
	HeadEvents []Transaction
	Chain      []ArchiveChainEntry
	Controller Address
	Stats      Stats
	Halted     bool
}

// Snapshot atomically exports (balances, history archive, controller,
// stats) for a cross-upgrade image (C10). It panics if the flusher is
// still armed, matching the "try again later" guard spec.md requires to
// avoid capturing a partial migration.
func (e *Engine) Snapshot() []byte {
	if e.pump.Armed() {
		panic("core: snapshot attempted while flush is in progress, try again later")
	}

	e.ledger.mu.RLock()
	balances := make([]balanceEntry, 0, len(e.ledger.balances))
	for addr, amt := range e.ledger.balances {
		balances = append(balances, balanceEntry{Addr: addr, Amt: amt})
	}
	allowances := make([]allowanceEntry, 0, len(e.ledger.allowances))
	for key, amt := range e.ledger.allowances {
		allowances = append(allowances, allowanceEntry{Owner: key.owner, Spender: key.spender, Amt: amt})
	}
	e.ledger.mu.RUnlock()

	archive := e.history.Archive()
	snap := snapshotV1{
		Balances:   balances,
		Allowances: allowances,
		HeadOffset: archive.HeadOffset,
		HeadEvents: archive.HeadEvents,
		Chain:      archive.Chain,
		Controller: e.controller,
		Stats:      e.stats.Snapshot(),
		Halted:     e.halted,
	}
	data, err := rlp.EncodeToBytes(&snap)
	if err != nil {
		panic("core: snapshot encode: " + err.Error())
	}
	return data
}

// Restore overwrites Engine state from a previously exported snapshot.
// It requires the ledger and history to be empty, mirroring history's
// own Load precondition.
func (e *Engine) Restore(data []byte) error {
	var snap snapshotV1
	if err := rlp.DecodeBytes(data, &snap); err != nil {
		return err
	}

	e.ledger.mu.Lock()
	if len(e.ledger.balances) != 0 || len(e.ledger.allowances) != 0 {
		e.ledger.mu.Unlock()
		panic("core: restore requires an empty ledger")
	}
	for _, b := range snap.Balances {
		e.ledger.balances[b.Addr] = b.Amt
	}
	for _, a := range snap.Allowances {
		e.ledger.allowances[allowanceKey{a.Owner, a.Spender}] = a.Amt
	}
	e.ledger.mu.Unlock()

	e.history.Load(Archive{HeadOffset: snap.HeadOffset, HeadEvents: snap.HeadEvents, Chain: snap.Chain})
	e.controller = snap.Controller
	e.stats.Restore(snap.Stats)
	e.halted = false // cleared on upgrade restore, per spec §6
	e.pump = ProgressPump{}
	return nil
}

// RestoreV0 restores the legacy format: a flat event list with no
// bucket chain, and a plain balances map with no allowances/stats.
func (e *Engine) RestoreV0(balances map[Address]uint64, events []Transaction) {
	e.ledger.mu.Lock()
	if len(e.ledger.balances) != 0 || len(e.ledger.allowances) != 0 {
		e.ledger.mu.Unlock()
		panic("core: restore_v0 requires an empty ledger")
	}
	for addr, amt := range balances {
		if amt != 0 {
			e.ledger.balances[addr] = amt
		}
	}
	e.ledger.mu.Unlock()

	e.history.LoadV0(events)
	e.halted = false
	e.pump = ProgressPump{}
}
