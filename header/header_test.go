package header

import (
	"math/big"
	"testing"

	obrlp "github.com/raul0ligma/obsidian/rlp"
)

func baseHeader() Header {
	h := Header{Difficulty: big.NewInt(17)}
	h.ParentHash[0] = 0x11
	h.OmmersHash[0] = 0x22
	h.Beneficiary[0] = 0x33
	h.StateRoot[0] = 0x44
	h.TransactionsRoot[0] = 0x55
	h.ReceiptsRoot[0] = 0x66
	h.Number = 100
	h.GasLimit = 30_000_000
	h.GasUsed = 21_000
	h.Timestamp = 1_700_000_000
	h.ExtraData = []byte("obsidian")
	h.MixHash[0] = 0x77
	h.Nonce = [8]byte{1, 2, 3, 4, 5, 6, 7, 8}
	return h
}

func TestValidateAcceptsNoOptionalFields(t *testing.T) {
	h := baseHeader()
	if err := h.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateAcceptsFullOptionalFields(t *testing.T) {
	h := baseHeader()
	h.BaseFee = big.NewInt(7)
	var root, beacon, requests [32]byte
	h.WithdrawalsRoot = &root
	blobUsed := uint64(1)
	excess := uint64(2)
	h.BlobGasUsed = &blobUsed
	h.ExcessBlobGas = &excess
	h.ParentBeaconBlockRoot = &beacon
	h.RequestsHash = &requests

	if err := h.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsGap(t *testing.T) {
	h := baseHeader()
	var root [32]byte
	h.WithdrawalsRoot = &root // present without BaseFee

	if err := h.Validate(); err != ErrGappedOptionalFields {
		t.Fatalf("expected ErrGappedOptionalFields, got %v", err)
	}
}

func TestValidateRejectsTrailingGap(t *testing.T) {
	h := baseHeader()
	h.BaseFee = big.NewInt(1)
	var root [32]byte
	h.WithdrawalsRoot = &root
	excess := uint64(5) // ExcessBlobGas present without BlobGasUsed
	h.ExcessBlobGas = &excess

	if err := h.Validate(); err != ErrGappedOptionalFields {
		t.Fatalf("expected ErrGappedOptionalFields, got %v", err)
	}
}

func TestEncodeFieldCountMatchesPresence(t *testing.T) {
	h := baseHeader()
	encoded, err := h.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	items, err := obrlp.DecodeList(encoded)
	if err != nil {
		t.Fatalf("DecodeList: %v", err)
	}
	if len(items) != 15 {
		t.Fatalf("expected 15 fields, got %d", len(items))
	}

	h.BaseFee = big.NewInt(9)
	encoded, err = h.Encode()
	if err != nil {
		t.Fatalf("Encode with base fee: %v", err)
	}
	items, err = obrlp.DecodeList(encoded)
	if err != nil {
		t.Fatalf("DecodeList: %v", err)
	}
	if len(items) != 16 {
		t.Fatalf("expected 16 fields, got %d", len(items))
	}
}

func TestEncodeRejectsGappedHeader(t *testing.T) {
	h := baseHeader()
	var root [32]byte
	h.WithdrawalsRoot = &root

	if _, err := h.Encode(); err != ErrGappedOptionalFields {
		t.Fatalf("expected ErrGappedOptionalFields, got %v", err)
	}
}

func TestHashIsDeterministic(t *testing.T) {
	h := baseHeader()
	h1, err := h.Hash()
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, err := h.Hash()
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("hash is not deterministic: %x vs %x", h1, h2)
	}
}

func TestHashChangesWithField(t *testing.T) {
	h1 := baseHeader()
	h2 := baseHeader()
	h2.Number = h1.Number + 1

	a, err := h1.Hash()
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := h2.Hash()
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Fatalf("expected different hashes for different headers")
	}
}

func TestEncodePresentZeroBaseFeeIsEmptyString(t *testing.T) {
	h := baseHeader()
	h.BaseFee = big.NewInt(0)

	encoded, err := h.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	items, err := obrlp.DecodeList(encoded)
	if err != nil {
		t.Fatalf("DecodeList: %v", err)
	}
	baseFeeItem := items[15] // first optional field, right after the 15 fixed fields
	if len(baseFeeItem) != 0 {
		t.Fatalf("expected zero base fee to encode as empty string, got %x", baseFeeItem)
	}
}

func TestHashPropagatesValidationError(t *testing.T) {
	h := baseHeader()
	var root [32]byte
	h.WithdrawalsRoot = &root

	if _, err := h.Hash(); err != ErrGappedOptionalFields {
		t.Fatalf("expected ErrGappedOptionalFields, got %v", err)
	}
}
