// Package swap implements the constant-product (xy=k) swap formula
// against a decoded reserves state, with no protocol fee.
package swap

import (
	"errors"
	"math/big"

	"github.com/raul0ligma/obsidian/reserves"
)

var (
	// ErrInsufficientLiquidity is returned when either reserve is zero.
	ErrInsufficientLiquidity = errors.New("swap: insufficient liquidity")
	// ErrZeroSellAmount is returned when the sell amount is zero.
	ErrZeroSellAmount = errors.New("swap: must sell a non-zero amount")
	// ErrInsufficientOutputAmount is returned when the computed output rounds to zero.
	ErrInsufficientOutputAmount = errors.New("swap: insufficient output amount")
	// ErrOutputExceedsReserves is returned when the computed output is not strictly less than the out-side reserve.
	ErrOutputExceedsReserves = errors.New("swap: output amount exceeds reserves")
)

// Input is a single swap request against a pool.
type Input struct {
	SellToken0 bool
	SellToken  [20]byte
	Seller     [20]byte
	BuyToken   [20]byte
	SellAmount []byte
}

// Output is the result of executing a swap, carrying forward the
// routing fields needed to build a commitment.
type Output struct {
	BoughtAmount []byte
	SoldAmount   []byte
	Seller       [20]byte
	BuyToken     [20]byte
	SellToken    [20]byte
}

// Swap executes the constant-product formula: amountOut = (reserveOut *
// amountIn) / (reserveIn + amountIn). There is no fee deduction.
func Swap(state reserves.State, input Input) (Output, error) {
	sellAmount := new(big.Int).SetBytes(input.SellAmount)

	reserveIn, reserveOut := state.Reserve1, state.Reserve0
	if input.SellToken0 {
		reserveIn, reserveOut = state.Reserve0, state.Reserve1
	}

	if reserveIn.Sign() <= 0 {
		return Output{}, ErrInsufficientLiquidity
	}
	if reserveOut.Sign() <= 0 {
		return Output{}, ErrInsufficientLiquidity
	}
	if sellAmount.Sign() <= 0 {
		return Output{}, ErrZeroSellAmount
	}

	numerator := new(big.Int).Mul(reserveOut, sellAmount)
	denominator := new(big.Int).Add(reserveIn, sellAmount)
	amountOut := new(big.Int).Div(numerator, denominator)

	if amountOut.Sign() <= 0 {
		return Output{}, ErrInsufficientOutputAmount
	}
	if amountOut.Cmp(reserveOut) >= 0 {
		return Output{}, ErrOutputExceedsReserves
	}

	return Output{
		BoughtAmount: amountOut.Bytes(),
		SoldAmount:   input.SellAmount,
		Seller:       input.Seller,
		BuyToken:     input.BuyToken,
		SellToken:    input.SellToken,
	}, nil
}
