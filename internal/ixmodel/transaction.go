package ixmodel

import "github.com/gagliardetto/solana-go"

// AccountKey is one entry of a transaction's account list.
type AccountKey struct {
	Pubkey   solana.PublicKey
	Signer   bool
	Writable bool
}

// InnerInstructionGroup is the set of instructions the VM invoked underneath
// one top-level instruction, keyed by that instruction's index.
type InnerInstructionGroup struct {
	Index        int
	Instructions []Instruction
}

// Transaction is the typed view of one entry in a block's transaction list.
type Transaction struct {
	Signatures             []solana.Signature
	AccountKeys             []AccountKey
	TopLevelInstructions    []Instruction
	InnerInstructionGroups  []InnerInstructionGroup
	Err                     bool // meta.err present
}

// Signature returns the transaction's primary signature, used as its
// identity throughout the pipeline.
func (tx *Transaction) Signature() solana.Signature {
	if len(tx.Signatures) == 0 {
		return solana.Signature{}
	}
	return tx.Signatures[0]
}

// Successful reports whether the transaction executed without error.
func (tx *Transaction) Successful() bool { return !tx.Err }

// Signer returns the first account key marked as a signer.
func (tx *Transaction) Signer() (solana.PublicKey, bool) {
	for _, ak := range tx.AccountKeys {
		if ak.Signer {
			return ak.Pubkey, true
		}
	}
	return solana.PublicKey{}, false
}

// Block is the minimal view of a fetched Solana-style block the pipeline
// needs: its timestamp and the ordered list of transactions it contains.
type Block struct {
	Slot         uint64
	BlockTime    int64 // unix seconds
	Transactions []*Transaction
}
