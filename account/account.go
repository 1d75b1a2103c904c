// Package account decodes the terminal RLP payloads produced by an MPT
// proof walk: an account record (nonce, balance, storage root, code
// hash) and a raw storage slot value.
package account

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/raul0ligma/obsidian/mpt"
	obrlp "github.com/raul0ligma/obsidian/rlp"
	"golang.org/x/crypto/sha3"
)

var (
	// ErrInconsistentAccountState is returned when the decoded account RLP has fewer than 4 fields.
	ErrInconsistentAccountState = errors.New("account: inconsistent account state")
	// ErrEmptyStorageValue is returned when the decoded storage RLP has no items.
	ErrEmptyStorageValue = errors.New("account: no storage value found")
)

// State is the decoded form of an MPT account record.
type State struct {
	Nonce       *big.Int
	Balance     *big.Int
	StorageRoot []byte
	CodeHash    []byte
}

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// VerifyState verifies address against stateRoot through proof and
// decodes the resulting RLP payload into an account State.
func VerifyState(stateRoot []byte, address [20]byte, proof []*mpt.Node) (*State, error) {
	key := keccak256(address[:])
	raw, err := mpt.VerifyAndGet(stateRoot, key, proof)
	if err != nil {
		return nil, fmt.Errorf("account: verify proof: %w", err)
	}

	fields, err := obrlp.DecodeList(raw)
	if err != nil {
		return nil, fmt.Errorf("account: decode account rlp: %w", err)
	}
	if len(fields) < 4 {
		return nil, fmt.Errorf("%w: got %d fields", ErrInconsistentAccountState, len(fields))
	}

	return &State{
		Nonce:       new(big.Int).SetBytes(fields[0]),
		Balance:     new(big.Int).SetBytes(fields[1]),
		StorageRoot: fields[2],
		CodeHash:    fields[3],
	}, nil
}

// VerifySlot verifies slotKey against storageRoot through proof and
// returns the stored word, stripped of leading zeros by RLP.
func VerifySlot(storageRoot []byte, slotKey [32]byte, proof []*mpt.Node) ([]byte, error) {
	key := keccak256(slotKey[:])
	raw, err := mpt.VerifyAndGet(storageRoot, key, proof)
	if err != nil {
		return nil, fmt.Errorf("account: verify proof: %w", err)
	}

	fields, err := obrlp.DecodeList(raw)
	if err != nil {
		return nil, fmt.Errorf("account: decode storage rlp: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrEmptyStorageValue
	}

	return fields[0], nil
}
