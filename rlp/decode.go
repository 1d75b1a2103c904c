// Package rlp implements the narrow slice of recursive-length-prefix
// decoding the MPT verifier needs: single items and one level of list
// flattening. It intentionally does not recurse into nested lists and
// does not implement an encoder — trie nodes are shallow by
// construction, and the only RLP the rest of this module ever emits
// goes through github.com/ethereum/go-ethereum/rlp in the header
// package.
package rlp

import "errors"

var (
	// ErrTruncatedInput is returned when a length prefix or body runs past the buffer.
	ErrTruncatedInput = errors.New("rlp: truncated input")
	// ErrTrailingBytes is returned when a single-item decode does not consume the whole buffer.
	ErrTrailingBytes = errors.New("rlp: trailing bytes after item")
	// ErrUnsupportedEncoding is returned for list markers handed to the item decoder,
	// or for long-list markers this decoder does not support.
	ErrUnsupportedEncoding = errors.New("rlp: unsupported encoding")
	// ErrEmptyInput is returned when decoding is attempted on a zero-length buffer.
	ErrEmptyInput = errors.New("rlp: empty input")
)

// DecodeItem decodes exactly one RLP string item starting at offset.
// The lead byte is assumed to be a string marker (< 0xc0); callers that
// need list handling go through DecodeList instead.
func DecodeItem(buf []byte, offset int) ([]byte, int, error) {
	if offset >= len(buf) {
		return nil, 0, ErrTruncatedInput
	}

	lead := buf[offset]

	switch {
	case lead < 0x80:
		return []byte{lead}, offset + 1, nil

	case lead <= 0xb7:
		length := int(lead - 0x80)
		start := offset + 1
		end := start + length
		if end > len(buf) {
			return nil, 0, ErrTruncatedInput
		}
		out := make([]byte, length)
		copy(out, buf[start:end])
		return out, end, nil

	case lead <= 0xbf:
		lengthBytes := int(lead - 0xb7)
		start := offset + 1
		if start+lengthBytes > len(buf) {
			return nil, 0, ErrTruncatedInput
		}
		length := 0
		for i := 0; i < lengthBytes; i++ {
			length = (length << 8) | int(buf[start+i])
		}
		bodyStart := start + lengthBytes
		bodyEnd := bodyStart + length
		if bodyEnd > len(buf) {
			return nil, 0, ErrTruncatedInput
		}
		out := make([]byte, length)
		copy(out, buf[bodyStart:bodyEnd])
		return out, bodyEnd, nil

	default:
		// 0xc0..0xf7 are short lists: the caller's job, not ours.
		// > 0xf7 is a long list or encoding this decoder does not support.
		return nil, 0, ErrUnsupportedEncoding
	}
}

// DecodeList decodes a single RLP list into its flattened string items.
// Every item is assumed to be a string, matching the source's
// single-level flattening (MPT nodes are shallow lists of strings); an
// item that is itself a list fails with ErrUnsupportedEncoding rather
// than being traversed.
func DecodeList(buf []byte) ([][]byte, error) {
	if len(buf) == 0 {
		return nil, ErrEmptyInput
	}

	lead := buf[0]
	if lead < 0xc0 {
		item, offset, err := DecodeItem(buf, 0)
		if err != nil {
			return nil, err
		}
		if offset != len(buf) {
			return nil, ErrTrailingBytes
		}
		return [][]byte{item}, nil
	}

	var offset int
	if lead <= 0xf7 {
		// Short list: the payload length is encoded directly in the lead
		// byte, and the payload starts right after it.
		offset = 1
	} else {
		// Long list marker. The payload length header itself is not
		// range-checked against len(buf) here — the source doesn't either,
		// and the walk below simply stops when the cursor reaches len(buf).
		// See SPEC_FULL.md / DESIGN.md for why this is left as-is.
		offset = 1 + int(lead-0xf7)
		if offset > len(buf) {
			return nil, ErrTruncatedInput
		}
	}

	var items [][]byte
	for offset < len(buf) {
		item, newOffset, err := DecodeItem(buf, offset)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		offset = newOffset
	}
	return items, nil
}
