package core

import "context"

// ProgressPump owns the optional active Flusher and gives it one
// cooperative slot per foreground update call (C9).
type ProgressPump struct {
	flusher *Flusher
}

// Arm installs f as the active flusher. Called when a push crosses the
// flush threshold with no flusher currently armed.
func (p *ProgressPump) Arm(f *Flusher) { p.flusher = f }

// Armed reports whether a flusher is currently active.
func (p *ProgressPump) Armed() bool { return p.flusher != nil }

// Progress advances the active flusher by one tick if armed. It
// returns true if a tick made progress (ProgressOk), and clears the
// flusher once it reports Done.
func (p *ProgressPump) Progress(ctx context.Context, history *HistoryData) bool {
	if p.flusher == nil {
		return false
	}
	switch p.flusher.Progress(ctx, history) {
	case ProgressOk:
		return true
	case ProgressDone:
		p.flusher = nil
		return false
	default: // ProgressBlocked
		return false
	}
}
