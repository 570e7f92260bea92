package ixmodel

import "github.com/gagliardetto/solana-go"

// NativeSOLMint is the synthetic mint address assigned to a system-program
// lamport transfer, matching the address Solana tooling uses for wrapped
// SOL.
var NativeSOLMint = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")

// Transfer is the normalized shape every recognized parsed transfer
// instruction is classified into: {mint?, amount, source, destination}.
// Mint is the zero PublicKey when the parsed shape didn't carry one (a bare
// spl-token "transfer").
type Transfer struct {
	Mint        solana.PublicKey
	HasMint     bool
	Amount      uint64
	Source      solana.PublicKey
	Destination solana.PublicKey
}
