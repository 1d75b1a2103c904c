// Package reserves decodes a UniswapV2-style packed reserves storage
// slot into its component fields.
package reserves

import (
	"errors"
	"math/big"
)

// ErrBadReservesLength is returned when the raw slot is not exactly 32 bytes.
var ErrBadReservesLength = errors.New("reserves: slot must be 32 bytes")

// State is the decoded contents of a packed reserves slot.
type State struct {
	BlockTimestampLast *big.Int
	Reserve1           *big.Int
	Reserve0           *big.Int
}

// Decode splits a 32-byte packed reserves slot into its three fields.
// The layout is [timestamp 0:4][gap 4][reserve1 5:18][gap 18][reserve0 19:32];
// bytes 4 and 18 are not part of any field.
func Decode(slot [32]byte) State {
	return State{
		BlockTimestampLast: new(big.Int).SetBytes(slot[0:4]),
		Reserve1:           new(big.Int).SetBytes(slot[5:18]),
		Reserve0:           new(big.Int).SetBytes(slot[19:32]),
	}
}

// DecodeSlice validates the slot length before decoding.
func DecodeSlice(raw []byte) (State, error) {
	if len(raw) != 32 {
		return State{}, ErrBadReservesLength
	}
	var slot [32]byte
	copy(slot[:], raw)
	return Decode(slot), nil
}
