// Package mpt implements inclusion verification against a standard
// Ethereum hexary Merkle-Patricia Trie: parsing RLP-decoded proof nodes
// into Branch/Extension/Leaf variants and walking a proof path from a
// claimed root hash to a terminal value.
package mpt

import (
	"errors"

	obrlp "github.com/raul0ligma/obsidian/rlp"
)

// Kind tags the variant a Node carries.
type Kind uint8

const (
	// BranchKind nodes have 16 nibble-indexed children plus an optional value.
	BranchKind Kind = iota
	// ExtensionKind nodes carry a shared nibble path to a single child.
	ExtensionKind
	// LeafKind nodes terminate a path and carry the stored value.
	LeafKind
)

// ErrUnsupportedNodeShape is returned when a decoded RLP list has neither
// 17 items (branch) nor 2 items (extension/leaf).
var ErrUnsupportedNodeShape = errors.New("mpt: unsupported node shape")

// Node is a parsed MPT trie node. Original retains the exact encoded
// bytes the node was parsed from, because the verifier must re-hash
// this exact preimage when checking it against a parent reference.
type Node struct {
	Original []byte
	Kind     Kind

	// Branch
	Children [17][]byte

	// Extension / Leaf
	Odd   bool
	Path  []byte
	Next  []byte // Extension only
	Value []byte // Leaf only
}

// ParseNode interprets the raw RLP encoding of a single trie node.
func ParseNode(encoded []byte) (*Node, error) {
	items, err := obrlp.DecodeList(encoded)
	if err != nil {
		return nil, err
	}

	switch len(items) {
	case 17:
		n := &Node{Original: encoded, Kind: BranchKind}
		copy(n.Children[:], items)
		return n, nil

	case 2:
		if len(items[0]) == 0 {
			return nil, ErrUnsupportedNodeShape
		}
		prefix := items[0][0] >> 4
		n := &Node{
			Original: encoded,
			Odd:      prefix&0x1 != 0,
			Path:     items[0],
		}
		if prefix&0x2 != 0 {
			n.Kind = LeafKind
			n.Value = items[1]
		} else {
			n.Kind = ExtensionKind
			n.Next = items[1]
		}
		return n, nil

	default:
		return nil, ErrUnsupportedNodeShape
	}
}

// ParseNodes parses a proof list of raw RLP node encodings, in order.
func ParseNodes(encodedNodes [][]byte) ([]*Node, error) {
	nodes := make([]*Node, len(encodedNodes))
	for i, encoded := range encodedNodes {
		n, err := ParseNode(encoded)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return nodes, nil
}

// pathNibbles extracts the remaining key nibbles carried by an
// extension/leaf's compact hex-prefix encoded path: drop the flag
// nibble, and if the remainder is even-length also drop the padding
// nibble that follows it.
func pathNibbles(path []byte, odd bool) []byte {
	nibbles := keyToNibbles(path)
	if odd {
		return nibbles[1:]
	}
	return nibbles[2:]
}
