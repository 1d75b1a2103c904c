// Package commitment ABI-encodes the final swap commitment tuple, the
// public statement a downstream contract checks against a submitted proof.
package commitment

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Order is the commitment tuple: who sold, against which block, how
// much was bought and sold, and the two token legs of the swap.
type Order struct {
	Seller       common.Address
	BlockHash    common.Hash
	BlockNumber  uint64
	BoughtAmount []byte
	SoldAmount   []byte
	BuyToken     common.Address
	SellToken    common.Address
}

var orderArguments abi.Arguments

func init() {
	addressTy, err := abi.NewType("address", "", nil)
	if err != nil {
		panic(err)
	}
	bytes32Ty, err := abi.NewType("bytes32", "", nil)
	if err != nil {
		panic(err)
	}
	uint256Ty, err := abi.NewType("uint256", "", nil)
	if err != nil {
		panic(err)
	}

	orderArguments = abi.Arguments{
		{Name: "seller", Type: addressTy},
		{Name: "blockHash", Type: bytes32Ty},
		{Name: "blockNumber", Type: uint256Ty},
		{Name: "boughtAmount", Type: uint256Ty},
		{Name: "soldAmount", Type: uint256Ty},
		{Name: "buyToken", Type: addressTy},
		{Name: "sellToken", Type: addressTy},
	}
}

// Pack ABI-encodes order as the fixed 224-byte tuple
// (address, bytes32, uint256, uint256, uint256, address, address).
func Pack(order Order) ([]byte, error) {
	return orderArguments.Pack(
		order.Seller,
		order.BlockHash,
		new(big.Int).SetUint64(order.BlockNumber),
		new(big.Int).SetBytes(order.BoughtAmount),
		new(big.Int).SetBytes(order.SoldAmount),
		order.BuyToken,
		order.SellToken,
	)
}
