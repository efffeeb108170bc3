package core

import "context"

// Platform is the abstract collaborator standing in for the hosting
// platform's outbound-call machinery: inter-canister calls, canister
// creation, and cycle transfers, each of which is a suspension point at
// which other handlers may run. spec.md explicitly keeps this machinery
// out of scope beyond this minimal contract.
type Platform interface {
	// Call forwards a method invocation to canister with cycles
	// attached, returning the opaque result bytes and however many
	// cycles the callee refunded.
	Call(ctx context.Context, canister Address, method string, args []byte, cycles uint64) (result []byte, refunded uint64, err error)
	// CreateCanister asks the management surface to provision a new
	// canister funded with cycles, optionally under controller.
	CreateCanister(ctx context.Context, cycles uint64, controller *Address) (canister Address, refunded uint64, err error)
	// Send transfers amount cycles to canister with no call payload
	// (the wallet_send / burn primitive).
	Send(ctx context.Context, canister Address, amount uint64) (refunded uint64, err error)
}

// SimPlatform is an in-memory Platform used by the engine's default
// wiring and by tests. Every call succeeds with zero refund unless a
// failure or refund has been scripted for it.
type SimPlatform struct {
	CallFn           func(ctx context.Context, canister Address, method string, args []byte, cycles uint64) ([]byte, uint64, error)
	CreateCanisterFn func(ctx context.Context, cycles uint64, controller *Address) (Address, uint64, error)
	SendFn           func(ctx context.Context, canister Address, amount uint64) (uint64, error)
}

// NewSimPlatform returns a SimPlatform whose calls all succeed with a
// full zero-refund payment, suitable as a default before tests override
// individual hooks.
func NewSimPlatform() *SimPlatform {
	return &SimPlatform{}
}

func (p *SimPlatform) Call(ctx context.Context, canister Address, method string, args []byte, cycles uint64) ([]byte, uint64, error) {
	if p.CallFn != nil {
		return p.CallFn(ctx, canister, method, args, cycles)
	}
	return []byte{}, 0, nil
}

func (p *SimPlatform) CreateCanister(ctx context.Context, cycles uint64, controller *Address) (Address, uint64, error) {
	if p.CreateCanisterFn != nil {
		return p.CreateCanisterFn(ctx, cycles, controller)
	}
	return Address{}, 0, nil
}

func (p *SimPlatform) Send(ctx context.Context, canister Address, amount uint64) (uint64, error) {
	if p.SendFn != nil {
		return p.SendFn(ctx, canister, amount)
	}
	return 0, nil
}
