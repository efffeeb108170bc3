package core

// FeePolicy computes the cycle fee charged for moving amount cycles. A
// conforming implementation must be monotone: for all A >= B,
// Compute(A) >= Compute(B). Production uses a floor-plus-rate
// computation; tests may substitute a stepped function (C7).
type FeePolicy interface {
	Compute(amount uint64) uint64
}

// FlatRateFee is the production fee policy: a fixed floor plus a small
// rate proportional to the amount moved, shaped after the original
// sdr/src/fee.rs floor/rate formula.
type FlatRateFee struct {
	Floor   uint64
	Divisor uint64 // amount/Divisor is added on top of Floor; 0 disables the rate term
}

// NewFlatRateFee returns the engine's default production fee policy.
func NewFlatRateFee() FlatRateFee {
	return FlatRateFee{Floor: 1_000_000, Divisor: 10_000}
}

// Compute implements FeePolicy.
func (f FlatRateFee) Compute(amount uint64) uint64 {
	fee := f.Floor
	if f.Divisor != 0 {
		fee += amount / f.Divisor
	}
	return fee
}

// SteppedFee is a test-only FeePolicy that charges a constant fee below
// a threshold and a higher constant fee at or above it, while remaining
// monotone.
type SteppedFee struct {
	Threshold uint64
	Low       uint64
	High      uint64
}

// Compute implements FeePolicy.
func (s SteppedFee) Compute(amount uint64) uint64 {
	if amount >= s.Threshold {
		return s.High
	}
	return s.Low
}
