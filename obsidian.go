// Package obsidian verifies that an AMM pool held certain reserves at
// a historical block and that a swap against those reserves yields a
// deterministic output, composing the rlp, mpt, account, header,
// reserves, swap, and commitment packages into one pipeline.
package obsidian

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/raul0ligma/obsidian/account"
	"github.com/raul0ligma/obsidian/commitment"
	"github.com/raul0ligma/obsidian/header"
	"github.com/raul0ligma/obsidian/mpt"
	"github.com/raul0ligma/obsidian/reserves"
	"github.com/raul0ligma/obsidian/swap"
)

// VerifierInputs is everything needed to verify a single storage slot
// against a consensus header.
type VerifierInputs struct {
	Header       header.Header
	Address      [20]byte
	StorageSlot  [32]byte
	AccountProof [][]byte
	StorageProof [][]byte
}

// VerifierOutput is the result of a successful slot verification.
type VerifierOutput struct {
	BlockHash [32]byte
	SlotData  []byte
}

// ObsidianInput is the wire envelope combining a slot-verification
// request with the swap to execute against the recovered reserves.
type ObsidianInput struct {
	VerifierInputs VerifierInputs
	SwapInput      swap.Input
}

// VerifySlot hashes the header, verifies the account at Address against
// the header's state root, then verifies StorageSlot against the
// recovered account's storage root.
func VerifySlot(input VerifierInputs) (VerifierOutput, error) {
	blockHash, err := input.Header.Hash()
	if err != nil {
		return VerifierOutput{}, fmt.Errorf("obsidian: hash header: %w", err)
	}

	accountProof, err := mpt.ParseNodes(input.AccountProof)
	if err != nil {
		return VerifierOutput{}, fmt.Errorf("obsidian: parse account proof: %w", err)
	}
	state, err := account.VerifyState(input.Header.StateRoot[:], input.Address, accountProof)
	if err != nil {
		return VerifierOutput{}, fmt.Errorf("obsidian: verify account: %w", err)
	}

	storageProof, err := mpt.ParseNodes(input.StorageProof)
	if err != nil {
		return VerifierOutput{}, fmt.Errorf("obsidian: parse storage proof: %w", err)
	}
	slotData, err := account.VerifySlot(state.StorageRoot, input.StorageSlot, storageProof)
	if err != nil {
		return VerifierOutput{}, fmt.Errorf("obsidian: verify slot: %w", err)
	}

	return VerifierOutput{BlockHash: blockHash, SlotData: slotData}, nil
}

// Run executes the full pipeline: verify the slot, decode it as
// reserves, swap against them, and pack the resulting commitment.
func Run(input ObsidianInput) ([]byte, error) {
	out, err := VerifySlot(input.VerifierInputs)
	if err != nil {
		return nil, err
	}

	state, err := reserves.DecodeSlice(out.SlotData)
	if err != nil {
		return nil, fmt.Errorf("obsidian: decode reserves: %w", err)
	}

	swapped, err := swap.Swap(state, input.SwapInput)
	if err != nil {
		return nil, fmt.Errorf("obsidian: swap: %w", err)
	}

	packed, err := commitment.Pack(commitment.Order{
		Seller:       common.Address(swapped.Seller),
		BlockHash:    common.Hash(out.BlockHash),
		BlockNumber:  input.VerifierInputs.Header.Number,
		BoughtAmount: swapped.BoughtAmount,
		SoldAmount:   swapped.SoldAmount,
		BuyToken:     common.Address(swapped.BuyToken),
		SellToken:    common.Address(swapped.SellToken),
	})
	if err != nil {
		return nil, fmt.Errorf("obsidian: pack commitment: %w", err)
	}

	return packed, nil
}
