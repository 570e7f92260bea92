// Package feeattr extracts an attacker transaction's tip and priority fee.
package feeattr

import (
	"github.com/gagliardetto/solana-go"

	"github.com/solana-mev/sandwich-detect/internal/classify"
	"github.com/solana-mev/sandwich-detect/internal/ixmodel"
)

// JitoTip scans tx's top-level instructions, then all inner instructions,
// in order, and returns the lamport amount of the first parsed "transfer"
// whose destination is in tipRecipients. Returns 0 if none match.
func JitoTip(tx *ixmodel.Transaction, tipRecipients map[solana.PublicKey]struct{}) uint64 {
	for _, ix := range tx.TopLevelInstructions {
		if tip, ok := tipTransfer(ix, tipRecipients); ok {
			return tip
		}
	}
	for _, group := range tx.InnerInstructionGroups {
		for _, ix := range group.Instructions {
			if tip, ok := tipTransfer(ix, tipRecipients); ok {
				return tip
			}
		}
	}
	return 0
}

func tipTransfer(ix ixmodel.Instruction, tipRecipients map[solana.PublicKey]struct{}) (uint64, bool) {
	if !ix.IsParsed() || ix.ParsedKind != "transfer" {
		return 0, false
	}
	t, err := classify.Classify(ix)
	if err != nil {
		return 0, false
	}
	if _, ok := tipRecipients[t.Destination]; !ok {
		return 0, false
	}
	return t.Amount, true
}

// PriorityFee is reserved for schema stability. It is always reported as 0
// in this revision of the core; it is not derived from the transaction
// payload here.
func PriorityFee(_ *ixmodel.Transaction) uint64 {
	return 0
}
