// Package rpcblocks fetches Solana blocks in jsonParsed encoding over raw
// JSON-RPC and discovers the Jito tip-recipient account set, implementing
// the pipeline's BlockSource and TipAccountStore contracts.
package rpcblocks

import "encoding/json"

// wireBlock is the getBlock RPC result shape with jsonParsed encoding,
// mirroring original_source/tx_types.py's TransactionResponse TypedDicts.
// solana-go's typed RPC client doesn't expose the jsonParsed-decoded
// instruction shape the detector needs, so the block fetch is a raw POST
// decoded directly into these structs (see DESIGN.md).
type wireBlock struct {
	BlockTime    *int64                `json:"blockTime"`
	Transactions []wireTransactionEnvelope `json:"transactions"`
}

type wireTransactionEnvelope struct {
	Meta        wireMeta        `json:"meta"`
	Transaction wireTransaction `json:"transaction"`
}

type wireMeta struct {
	Err              json.RawMessage        `json:"err"`
	InnerInstructions []wireInnerInstruction `json:"innerInstructions"`
}

type wireInnerInstruction struct {
	Index        int               `json:"index"`
	Instructions []wireInstruction `json:"instructions"`
}

type wireTransaction struct {
	Signatures []string          `json:"signatures"`
	Message    wireMessage       `json:"message"`
}

type wireMessage struct {
	AccountKeys  []wireAccountKey  `json:"accountKeys"`
	Instructions []wireInstruction `json:"instructions"`
}

type wireAccountKey struct {
	Pubkey   string `json:"pubkey"`
	Signer   bool   `json:"signer"`
	Writable bool   `json:"writable"`
}

// wireInstruction covers both the Regular and Parsed shapes; exactly one of
// (Accounts, Data) or (Program, Parsed) is populated, distinguished by the
// presence of "parsed".
type wireInstruction struct {
	ProgramID   string          `json:"programId"`
	Accounts    []string        `json:"accounts"`
	Data        string          `json:"data"`
	Program     string          `json:"program"`
	Parsed      json.RawMessage `json:"parsed"`
	StackHeight *int            `json:"stackHeight"`
}

type wireParsed struct {
	Type string         `json:"type"`
	Info map[string]any `json:"info"`
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type getBlockResponse struct {
	Result *wireBlock `json:"result"`
	Error  *rpcError  `json:"error"`
}
