package chainproof

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRPCServer creates a test HTTP server that responds to JSON-RPC requests.
func mockRPCServer(t *testing.T, handler func(method string, params []json.RawMessage) (interface{}, error)) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID      json.RawMessage   `json:"id"`
			Method  string            `json:"method"`
			Params  []json.RawMessage `json:"params"`
			JSONRPC string            `json:"jsonrpc"`
		}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}

		result, err := handler(req.Method, req.Params)

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
		}
		if err != nil {
			resp["error"] = map[string]interface{}{
				"code":    -32000,
				"message": err.Error(),
			}
		} else {
			resp["result"] = result
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestFetchVerifierInputsAssemblesHeaderAndProof(t *testing.T) {
	address := common.HexToAddress("0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc")
	slot := common.HexToHash("0x0000000000000000000000000000000000000000000000000000000000000008")

	server := mockRPCServer(t, func(method string, params []json.RawMessage) (interface{}, error) {
		switch method {
		case "eth_getBlockByNumber":
			return map[string]interface{}{
				"parentHash":       "0x1111111111111111111111111111111111111111111111111111111111111111",
				"sha3Uncles":       "0x2222222222222222222222222222222222222222222222222222222222222222",
				"miner":            "0x3333333333333333333333333333333333333333",
				"stateRoot":        "0x4444444444444444444444444444444444444444444444444444444444444444",
				"transactionsRoot": "0x5555555555555555555555555555555555555555555555555555555555555555",
				"receiptsRoot":     "0x6666666666666666666666666666666666666666666666666666666666666666",
				"logsBloom":        "0x00",
				"difficulty":       "0x11",
				"number":           "0x64",
				"gasLimit":         "0x1c9c380",
				"gasUsed":          "0x5208",
				"timestamp":        "0x6553f100",
				"extraData":        "0x6f6273696469616e",
				"mixHash":          "0x7777777777777777777777777777777777777777777777777777777777777777",
				"nonce":            "0x0102030405060708",
			}, nil
		case "eth_getProof":
			return map[string]interface{}{
				"accountProof": []string{"0xc0"},
				"storageProof": []map[string]interface{}{
					{
						"key":   slot.Hex(),
						"proof": []string{"0xc0"},
					},
				},
			}, nil
		default:
			t.Fatalf("unexpected method %q", method)
			return nil, nil
		}
	})
	defer server.Close()

	client, err := Dial(server.URL)
	require.NoError(t, err)
	defer client.Close()

	inputs, err := client.FetchVerifierInputs(context.Background(), address, slot, "latest")
	require.NoError(t, err)

	assert.Equal(t, address, inputs.Address)
	assert.Equal(t, slot, inputs.StorageSlot)
	assert.Equal(t, uint64(100), inputs.Header.Number)
	assert.Equal(t, uint64(30_000_000), inputs.Header.GasLimit)
	assert.Len(t, inputs.AccountProof, 1)
	assert.Len(t, inputs.StorageProof, 1)
}

func TestFetchVerifierInputsMissingStorageKeyFails(t *testing.T) {
	address := common.HexToAddress("0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc")
	slot := common.HexToHash("0x0000000000000000000000000000000000000000000000000000000000000008")

	server := mockRPCServer(t, func(method string, params []json.RawMessage) (interface{}, error) {
		switch method {
		case "eth_getBlockByNumber":
			return map[string]interface{}{
				"parentHash":       "0x1111111111111111111111111111111111111111111111111111111111111111",
				"sha3Uncles":       "0x2222222222222222222222222222222222222222222222222222222222222222",
				"miner":            "0x3333333333333333333333333333333333333333",
				"stateRoot":        "0x4444444444444444444444444444444444444444444444444444444444444444",
				"transactionsRoot": "0x5555555555555555555555555555555555555555555555555555555555555555",
				"receiptsRoot":     "0x6666666666666666666666666666666666666666666666666666666666666666",
				"logsBloom":        "0x00",
				"difficulty":       "0x1",
				"number":           "0x1",
				"gasLimit":         "0x1",
				"gasUsed":          "0x0",
				"timestamp":        "0x1",
				"extraData":        "0x",
				"mixHash":          "0x7777777777777777777777777777777777777777777777777777777777777777",
				"nonce":            "0x0000000000000000",
			}, nil
		case "eth_getProof":
			return map[string]interface{}{
				"accountProof": []string{"0xc0"},
				"storageProof": []map[string]interface{}{},
			}, nil
		default:
			t.Fatalf("unexpected method %q", method)
			return nil, nil
		}
	})
	defer server.Close()

	client, err := Dial(server.URL)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.FetchVerifierInputs(context.Background(), address, slot, "latest")
	assert.Error(t, err)
}
