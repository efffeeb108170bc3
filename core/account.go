package core

import (
	"bytes"
	"encoding/hex"
)

// Address is an opaque account identifier, sized for an IC principal
// (up to 29 bytes, right-padded with zeros). It has value equality, so
// it can key a map, mirroring the original ledger's use of Principal as
// a HashMap key, and a total ordering via Compare.
type Address [29]byte

// Compare returns -1, 0 or 1, ordering a before/equal/after b.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// String renders the address as a 0x-prefixed hex string.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}
