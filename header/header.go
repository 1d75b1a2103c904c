// Package header serialises a consensus block header with optional
// post-fork fields into canonical RLP and computes its Keccak-256
// hash. It does not validate that a header belongs to any canonical
// chain — it only computes the hash of the header handed to it.
package header

import (
	"errors"
	"math/big"

	gethrlp "github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/sha3"
)

// ErrGappedOptionalFields is returned when a later optional field is
// present while an earlier one in the fixed order is absent.
// Serialisation must be a strict prefix of the full optional schema.
var ErrGappedOptionalFields = errors.New("header: optional fields have a gap")

// Header is the fixed prefix schema plus the six fork-gated trailing
// fields, in their declared order. A present optional field implies
// every earlier optional field is present too.
type Header struct {
	ParentHash       [32]byte
	OmmersHash       [32]byte
	Beneficiary      [20]byte
	StateRoot        [32]byte
	TransactionsRoot [32]byte
	ReceiptsRoot     [32]byte
	LogsBloom        [256]byte
	Difficulty       *big.Int
	Number           uint64
	GasLimit         uint64
	GasUsed          uint64
	Timestamp        uint64
	ExtraData        []byte
	MixHash          [32]byte
	Nonce            [8]byte

	// Optional, fork-gated, in strict declaration order.
	BaseFee               *big.Int
	WithdrawalsRoot       *[32]byte
	BlobGasUsed           *uint64
	ExcessBlobGas         *uint64
	ParentBeaconBlockRoot *[32]byte
	RequestsHash          *[32]byte
}

// Validate checks the prefix-closure invariant over the optional fields.
func (h *Header) Validate() error {
	present := []bool{
		h.BaseFee != nil,
		h.WithdrawalsRoot != nil,
		h.BlobGasUsed != nil,
		h.ExcessBlobGas != nil,
		h.ParentBeaconBlockRoot != nil,
		h.RequestsHash != nil,
	}
	seenAbsent := false
	for _, p := range present {
		if !p {
			seenAbsent = true
			continue
		}
		if seenAbsent {
			return ErrGappedOptionalFields
		}
	}
	return nil
}

// fields builds the ordered RLP field list for encoding.
func (h *Header) fields() []interface{} {
	fields := make([]interface{}, 0, 21)

	fields = append(fields,
		h.ParentHash[:],
		h.OmmersHash[:],
		h.Beneficiary[:],
		h.StateRoot[:],
		h.TransactionsRoot[:],
		h.ReceiptsRoot[:],
		h.LogsBloom[:],
		h.Difficulty,
		h.Number,
		h.GasLimit,
		h.GasUsed,
		h.Timestamp,
		h.ExtraData,
		h.MixHash[:],
		h.Nonce[:],
	)

	if h.BaseFee != nil {
		fields = append(fields, h.BaseFee)
	}
	if h.WithdrawalsRoot != nil {
		fields = append(fields, (*h.WithdrawalsRoot)[:])
	}
	if h.BlobGasUsed != nil {
		fields = append(fields, *h.BlobGasUsed)
	}
	if h.ExcessBlobGas != nil {
		fields = append(fields, *h.ExcessBlobGas)
	}
	if h.ParentBeaconBlockRoot != nil {
		fields = append(fields, (*h.ParentBeaconBlockRoot)[:])
	}
	if h.RequestsHash != nil {
		fields = append(fields, (*h.RequestsHash)[:])
	}

	return fields
}

// Encode serialises the header as a canonical RLP list. It fails if
// the optional fields are not a strict prefix of the declared schema.
func (h *Header) Encode() ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return gethrlp.EncodeToBytes(h.fields())
}

// Hash returns the Keccak-256 hash of the header's canonical RLP encoding.
func (h *Header) Hash() ([32]byte, error) {
	encoded, err := h.Encode()
	if err != nil {
		return [32]byte{}, err
	}

	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(encoded)
	var out [32]byte
	hasher.Sum(out[:0])
	return out, nil
}
