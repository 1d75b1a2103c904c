package mpt

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Fatal verification failures. Every deviation from the expected shape
// invalidates the cryptographic claim being checked, so none of these
// are locally recoverable — callers propagate them as-is.
var (
	ErrHashMismatch    = errors.New("mpt: node hash does not match expected reference")
	ErrPathDivergence  = errors.New("mpt: key nibble does not match node path")
	ErrIncompleteLeaf  = errors.New("mpt: leaf reached before key nibbles were exhausted")
	ErrEmptyBranchSlot = errors.New("mpt: branch child required by key is empty")
	ErrCorruptedPath   = errors.New("mpt: expected reference has an invalid length")
)

const keyNibbleLength = 64 // 2 * 32-byte keccak key length

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// keyToNibbles expands a 32-byte keccak key into 64 nibbles, upper
// nibble first. Pre-sized to avoid growth since the key length is fixed.
func keyToNibbles(key []byte) []byte {
	nibbles := make([]byte, 0, len(key)*2)
	for _, b := range key {
		nibbles = append(nibbles, b>>4, b&0x0f)
	}
	return nibbles
}

// VerifyAndGet walks proof from rootHash to the value stored at key,
// verifying every node's hash (or embedded-bytes equality) against the
// reference held by its predecessor. It returns (nil, nil) if the
// proof runs out before a terminal decision is reached — an absence
// proof, which callers treat as "value not present at this key".
func VerifyAndGet(rootHash []byte, key []byte, proof []*Node) ([]byte, error) {
	nibbles := keyToNibbles(key)
	cursor := 0
	expected := rootHash

	for i, node := range proof {
		if err := checkPreimage(expected, node); err != nil {
			return nil, fmt.Errorf("proof node %d: %w", i, err)
		}

		switch node.Kind {
		case BranchKind:
			if cursor == keyNibbleLength {
				return node.Children[16], nil
			}
			nibble := nibbles[cursor]
			child := node.Children[nibble]
			cursor++
			if len(child) == 0 {
				return nil, fmt.Errorf("proof node %d: %w", i, ErrEmptyBranchSlot)
			}
			expected = child

		case ExtensionKind:
			remaining := pathNibbles(node.Path, node.Odd)
			for _, n := range remaining {
				if cursor >= len(nibbles) || nibbles[cursor] != n {
					return nil, fmt.Errorf("proof node %d: %w", i, ErrPathDivergence)
				}
				cursor++
			}
			expected = node.Next

		case LeafKind:
			remaining := pathNibbles(node.Path, node.Odd)
			for _, n := range remaining {
				if cursor >= len(nibbles) || nibbles[cursor] != n {
					return nil, fmt.Errorf("proof node %d: %w", i, ErrPathDivergence)
				}
				cursor++
			}
			if cursor != keyNibbleLength {
				return nil, fmt.Errorf("proof node %d: %w", i, ErrIncompleteLeaf)
			}
			return node.Value, nil
		}
	}

	return nil, nil
}

// checkPreimage verifies that node.Original is the exact preimage the
// predecessor reference demands: a keccak256 match for a 32-byte
// reference, or direct byte equality for an embedded (<32-byte) node.
func checkPreimage(expected []byte, node *Node) error {
	switch {
	case len(expected) == 32:
		if !bytes.Equal(keccak256(node.Original), expected) {
			return ErrHashMismatch
		}
	case len(expected) < 32:
		if !bytes.Equal(expected, node.Original) {
			return ErrHashMismatch
		}
	default:
		return ErrCorruptedPath
	}
	return nil
}
