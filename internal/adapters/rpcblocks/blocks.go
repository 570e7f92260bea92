package rpcblocks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/solana-mev/sandwich-detect/internal/ixmodel"
)

// BlockStore fetches blocks from a Solana RPC endpoint using jsonParsed
// encoding, restoring original_source/utils.py's get_block. The typed
// solana-go RPC client decodes instructions into binary account/data
// pairs, not the jsonParsed shape this detector's classifier needs, so
// this issues the raw JSON-RPC POST directly (see DESIGN.md).
type BlockStore struct {
	RPCURL     string
	HTTPClient *http.Client
}

// NewBlockStore builds a BlockStore with a bounded-timeout HTTP client,
// mirroring the teacher's 600s rpcTimeout constant.
func NewBlockStore(rpcURL string) *BlockStore {
	return &BlockStore{
		RPCURL:     rpcURL,
		HTTPClient: &http.Client{Timeout: 600 * time.Second},
	}
}

// FetchBlock implements pipeline.BlockSource.
func (s *BlockStore) FetchBlock(ctx context.Context, slot uint64) (*ixmodel.Block, error) {
	payload := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "getBlock",
		Params: []any{
			slot,
			map[string]any{
				"encoding":                       "jsonParsed",
				"maxSupportedTransactionVersion": 0,
				"transactionDetails":             "full",
				"rewards":                        false,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("rpcblocks: marshal getBlock request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.RPCURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("rpcblocks: build getBlock request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rpcblocks: getBlock request for slot %d: %w", slot, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rpcblocks: getBlock slot %d returned status %d", slot, resp.StatusCode)
	}

	var decoded getBlockResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("rpcblocks: decode getBlock response for slot %d: %w", slot, err)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("rpcblocks: rpc error for slot %d: %s", slot, decoded.Error.Message)
	}
	if decoded.Result == nil {
		return nil, fmt.Errorf("rpcblocks: empty result for slot %d", slot)
	}

	return decodeBlock(slot, decoded.Result)
}
