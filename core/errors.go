package core

import "errors"

// Sentinel errors returned by the operation surface (spec §7). Callers
// compare against these directly, the same pattern the teacher uses for
// its token-layer errors.
var (
	ErrInsufficientBalance   = errors.New("core: insufficient balance")
	ErrInsufficientAllowance = errors.New("core: insufficient allowance")
	ErrAmountTooSmall        = errors.New("core: amount does not cover fee")
	ErrCallFailed            = errors.New("core: outbound call failed")
	ErrInvalidTokenContract  = errors.New("core: target does not implement the expected token interface")
	ErrNotController         = errors.New("core: caller is not the controller")
	ErrHalted                = errors.New("core: engine is halted")
)
