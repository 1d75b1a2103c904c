// Package chainproof fetches the inputs obsidian.VerifySlot needs — a
// block header and an eth_getProof response — over JSON-RPC and
// assembles them into obsidian.VerifierInputs. It performs the only
// network I/O in this module; the core it feeds stays pure.
package chainproof

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/raul0ligma/obsidian"
	"github.com/raul0ligma/obsidian/header"
)

// Client wraps a JSON-RPC connection to an Ethereum-compatible node.
type Client struct {
	rpc *rpc.Client
}

// Dial connects to an RPC endpoint.
func Dial(rawurl string) (*Client, error) {
	return DialContext(context.Background(), rawurl)
}

// DialContext connects to an RPC endpoint with a context.
func DialContext(ctx context.Context, rawurl string) (*Client, error) {
	c, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, fmt.Errorf("chainproof: dial: %w", err)
	}
	return &Client{rpc: c}, nil
}

// Close closes the underlying RPC connection.
func (c *Client) Close() {
	c.rpc.Close()
}

// rpcHeader mirrors the subset of eth_getBlockByNumber's response this
// client needs to build a header.Header. Optional post-fork fields are
// pointers so their absence can be told apart from a zero value.
type rpcHeader struct {
	ParentHash       common.Hash     `json:"parentHash"`
	Sha3Uncles       common.Hash     `json:"sha3Uncles"`
	Miner            common.Address  `json:"miner"`
	StateRoot        common.Hash     `json:"stateRoot"`
	TransactionsRoot common.Hash     `json:"transactionsRoot"`
	ReceiptsRoot     common.Hash     `json:"receiptsRoot"`
	LogsBloom        hexutil.Bytes   `json:"logsBloom"`
	Difficulty       *hexutil.Big    `json:"difficulty"`
	Number           hexutil.Uint64  `json:"number"`
	GasLimit         hexutil.Uint64  `json:"gasLimit"`
	GasUsed          hexutil.Uint64  `json:"gasUsed"`
	Timestamp        hexutil.Uint64  `json:"timestamp"`
	ExtraData        hexutil.Bytes   `json:"extraData"`
	MixHash          common.Hash     `json:"mixHash"`
	Nonce            hexutil.Bytes   `json:"nonce"`

	BaseFeePerGas         *hexutil.Big    `json:"baseFeePerGas"`
	WithdrawalsRoot       *common.Hash    `json:"withdrawalsRoot"`
	BlobGasUsed           *hexutil.Uint64 `json:"blobGasUsed"`
	ExcessBlobGas         *hexutil.Uint64 `json:"excessBlobGas"`
	ParentBeaconBlockRoot *common.Hash    `json:"parentBeaconBlockRoot"`
	RequestsHash          *common.Hash    `json:"requestsHash"`
}

func (r *rpcHeader) toHeader() header.Header {
	h := header.Header{
		ParentHash:       [32]byte(r.ParentHash),
		OmmersHash:       [32]byte(r.Sha3Uncles),
		Beneficiary:      [20]byte(r.Miner),
		StateRoot:        [32]byte(r.StateRoot),
		TransactionsRoot: [32]byte(r.TransactionsRoot),
		ReceiptsRoot:     [32]byte(r.ReceiptsRoot),
		Difficulty:       (*big.Int)(r.Difficulty),
		Number:           uint64(r.Number),
		GasLimit:         uint64(r.GasLimit),
		GasUsed:          uint64(r.GasUsed),
		Timestamp:        uint64(r.Timestamp),
		ExtraData:        r.ExtraData,
		MixHash:          [32]byte(r.MixHash),
	}
	copy(h.LogsBloom[:], r.LogsBloom)
	copy(h.Nonce[:], r.Nonce)

	if r.BaseFeePerGas != nil {
		h.BaseFee = (*big.Int)(r.BaseFeePerGas)
	}
	if r.WithdrawalsRoot != nil {
		h.WithdrawalsRoot = (*[32]byte)(r.WithdrawalsRoot)
	}
	if r.BlobGasUsed != nil {
		v := uint64(*r.BlobGasUsed)
		h.BlobGasUsed = &v
	}
	if r.ExcessBlobGas != nil {
		v := uint64(*r.ExcessBlobGas)
		h.ExcessBlobGas = &v
	}
	if r.ParentBeaconBlockRoot != nil {
		h.ParentBeaconBlockRoot = (*[32]byte)(r.ParentBeaconBlockRoot)
	}
	if r.RequestsHash != nil {
		h.RequestsHash = (*[32]byte)(r.RequestsHash)
	}
	return h
}

// proofResponse mirrors the eth_getProof RPC response.
type proofResponse struct {
	AccountProof []string       `json:"accountProof"`
	StorageProof []storageProof `json:"storageProof"`
}

type storageProof struct {
	Key   string   `json:"key"`
	Proof []string `json:"proof"`
}

// FetchVerifierInputs retrieves the header at blockRef and an
// eth_getProof response for address/storageSlot, assembling an
// obsidian.VerifierInputs ready to hand to obsidian.VerifySlot.
func (c *Client) FetchVerifierInputs(
	ctx context.Context,
	address common.Address,
	storageSlot common.Hash,
	blockRef string,
) (obsidian.VerifierInputs, error) {
	var raw rpcHeader
	if err := c.rpc.CallContext(ctx, &raw, "eth_getBlockByNumber", blockRef, false); err != nil {
		return obsidian.VerifierInputs{}, fmt.Errorf("chainproof: eth_getBlockByNumber: %w", err)
	}

	var proof proofResponse
	if err := c.rpc.CallContext(ctx, &proof, "eth_getProof", address, []common.Hash{storageSlot}, blockRef); err != nil {
		return obsidian.VerifierInputs{}, fmt.Errorf("chainproof: eth_getProof: %w", err)
	}

	accountProof, err := decodeHexNodes(proof.AccountProof)
	if err != nil {
		return obsidian.VerifierInputs{}, fmt.Errorf("chainproof: decode account proof: %w", err)
	}

	var storageNodes [][]byte
	for _, sp := range proof.StorageProof {
		if common.HexToHash(sp.Key) != storageSlot {
			continue
		}
		storageNodes, err = decodeHexNodes(sp.Proof)
		if err != nil {
			return obsidian.VerifierInputs{}, fmt.Errorf("chainproof: decode storage proof: %w", err)
		}
		break
	}
	if storageNodes == nil {
		return obsidian.VerifierInputs{}, fmt.Errorf("chainproof: storage slot %s not present in proof response", storageSlot)
	}

	return obsidian.VerifierInputs{
		Header:       raw.toHeader(),
		Address:      address,
		StorageSlot:  storageSlot,
		AccountProof: accountProof,
		StorageProof: storageNodes,
	}, nil
}

func decodeHexNodes(hexNodes []string) ([][]byte, error) {
	nodes := make([][]byte, len(hexNodes))
	for i, n := range hexNodes {
		decoded, err := hexutil.Decode(n)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		nodes[i] = decoded
	}
	return nodes, nil
}
