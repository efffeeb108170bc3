package core

import "context"

// BucketMetadata is written to a freshly provisioned bucket so it knows
// its own starting offset and the older bucket it chains to.
type BucketMetadata struct {
	From TransactionId
	Next *Address
}

// Backend is the abstract collaborator the flusher drives to migrate
// events out of the head bucket into provisioned bucket processes (C4).
// Every operation is asynchronous and may fail; the flusher treats any
// failure as recoverable (spec §4.4). Implementations may batch or
// rate-limit internally; the flusher makes at most one call per tick.
type Backend interface {
	CreateCanister(ctx context.Context) (Address, error)
	InstallCode(ctx context.Context, addr Address) error
	WriteMetadata(ctx context.Context, addr Address, meta BucketMetadata) error
	AppendTransactions(ctx context.Context, addr Address, events []Transaction) error
	LookupTransaction(ctx context.Context, addr Address, id TransactionId) (Transaction, bool, error)
	ID(ctx context.Context) (Address, error)
}
