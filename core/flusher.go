package core

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// FlushState is the flusher's state machine position (spec §4.4).
type FlushState uint8

const (
	StateCreateCanister FlushState = iota
	StateInstallCode
	StateWriteMetadata
	StatePushChunk
	StateDone
)

// ProgressResult is the outcome of one Flusher.Progress tick.
type ProgressResult uint8

const (
	ProgressOk ProgressResult = iota
	ProgressBlocked
	ProgressDone
)

// Flusher sequentially drives a Backend to migrate events out of a
// HistoryData's head bucket into newly provisioned buckets (C5). It is
// single-threaded re-entrant-guarded: while a tick is executing,
// concurrent ticks return Blocked immediately.
type Flusher struct {
	state      FlushState
	pendingID  Address // valid once state has passed CreateCanister
	chunkSize  int
	inProgress bool
	backend    Backend
}

// NewFlusher returns a Flusher. bucketExists selects the initial state
// per spec §3: PushChunk if a bucket chain link already exists for the
// current head, else CreateCanister.
func NewFlusher(backend Backend, chunkSize int, bucketExists bool, existingBucket Address) *Flusher {
	f := &Flusher{backend: backend, chunkSize: chunkSize}
	if bucketExists {
		f.state = StatePushChunk
		f.pendingID = existingBucket
	} else {
		f.state = StateCreateCanister
	}
	return f
}

// State returns the current state, for tests and diagnostics.
func (f *Flusher) State() FlushState { return f.state }

// Progress performs at most one backend call and advances the state
// machine by at most one step; a PushChunk tick that finds fewer than
// chunkSize events in the head moves to Done without calling the
// backend. Failures are never surfaced to the
// foreground caller: they are logged and retried on the next tick,
// except PushChunk, which on failure restarts at CreateCanister under
// the assumption that the active bucket is full.
func (f *Flusher) Progress(ctx context.Context, history *HistoryData) ProgressResult {
	if f.state == StateDone {
		return ProgressDone
	}
	if f.inProgress {
		return ProgressBlocked
	}
	f.inProgress = true
	defer func() { f.inProgress = false }()

	switch f.state {
	case StateCreateCanister:
		addr, err := f.backend.CreateCanister(ctx)
		if err != nil {
			log.WithError(err).Warn("flusher: create_canister failed, retrying")
			return ProgressOk
		}
		f.pendingID = addr
		f.state = StateInstallCode

	case StateInstallCode:
		if err := f.backend.InstallCode(ctx, f.pendingID); err != nil {
			log.WithError(err).Warn("flusher: install_code failed, retrying")
			return ProgressOk
		}
		f.state = StateWriteMetadata

	case StateWriteMetadata:
		meta := BucketMetadata{From: history.Head().Offset(), Next: history.Head().Next()}
		if err := f.backend.WriteMetadata(ctx, f.pendingID, meta); err != nil {
			log.WithError(err).Warn("flusher: write_metadata failed, retrying")
			return ProgressOk
		}
		history.InsertBucket(f.pendingID)
		f.state = StatePushChunk

	case StatePushChunk:
		head := history.Head()
		if head.Len() < f.chunkSize {
			f.state = StateDone
			log.Info("flusher: done")
			return ProgressOk
		}
		chunk := make([]Transaction, f.chunkSize)
		copy(chunk, head.events[:f.chunkSize])
		if err := f.backend.AppendTransactions(ctx, f.pendingID, chunk); err != nil {
			log.WithError(err).Warn("flusher: append_transactions failed, restarting at create_canister")
			f.state = StateCreateCanister
			return ProgressOk
		}
		history.RemoveFirst(f.chunkSize)
		if history.Head().Len() < f.chunkSize {
			f.state = StateDone
			log.Info("flusher: done")
		}

	case StateDone:
		// unreachable: guarded above
	}
	return ProgressOk
}
