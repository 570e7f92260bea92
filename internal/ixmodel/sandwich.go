package ixmodel

import "github.com/gagliardetto/solana-go"

// PoolInfo is a liquidity pool's two-sided vault registration, held in a
// pool registry keyed by PoolID. Read-only at block-scan time.
type PoolInfo struct {
	PoolID      solana.PublicKey
	TokenA      solana.PublicKey
	TokenB      solana.PublicKey
	TokenAVault solana.PublicKey
	TokenBVault solana.PublicKey
}

// ExchangeInfo is one exchange registry entry: where in a DEX instruction's
// account list the pool address sits, and a predicate over instruction data
// that lets new DEXes with identifier-prefixed data be added without a type
// change. The predicate is currently "always true" for every entry.
type ExchangeInfo struct {
	PoolAccountIndex int
	IsValidSwapData  func(data []byte) bool
}

// AttackerTx is the entry or exit leg of a confirmed sandwich.
type AttackerTx struct {
	Signature           solana.Signature
	ProfitTokenAmount    uint64
	TargetedTokenAmount  uint64
	JitoTip              uint64
	PriorityFee          uint64
}

// TargetTx is one victim leg of a confirmed sandwich.
type TargetTx struct {
	Signature           solana.Signature
	Signer               solana.PublicKey
	ProfitTokenAmount    uint64
	TargetedTokenAmount  uint64
}

// Sandwich is the canonical, detached record emitted for storage once a
// PotentialSandwich has been resolved to a pool, direction and set of
// per-transaction amounts. ID is the entry transaction's signature and is
// the record's uniqueness key.
type Sandwich struct {
	ID            solana.Signature
	Block         uint64
	BlockTime     int64
	Dex           solana.PublicKey
	Pool          solana.PublicKey
	Bot           solana.PublicKey
	Attacker      solana.PublicKey
	ProfitToken   solana.PublicKey
	TargetedToken solana.PublicKey
	EntryTx       AttackerTx
	ExitTx        AttackerTx
	TargetTxs     []TargetTx
}
