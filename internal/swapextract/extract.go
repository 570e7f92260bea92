// Package swapextract walks a transaction's instruction tree and groups
// inner instructions into (exchange-instruction, token-transfer-list)
// bundles using call-stack depth.
package swapextract

import (
	"fmt"

	"github.com/solana-mev/sandwich-detect/internal/classify"
	"github.com/solana-mev/sandwich-detect/internal/ixmodel"
)

const (
	minTransfersPerSwap = 2
	maxTransfersPerSwap = 4
)

// Extract returns the ordered list of PotentialSwaps found in tx. A
// classification failure on any candidate transfer aborts extraction for
// the whole transaction: the caller should treat the returned error as "no
// swaps" and continue scanning the rest of the block.
func Extract(tx *ixmodel.Transaction) ([]ixmodel.PotentialSwap, error) {
	var swaps []ixmodel.PotentialSwap
	for _, group := range tx.InnerInstructionGroups {
		groupSwaps, err := extractGroup(tx, group)
		if err != nil {
			return nil, err
		}
		swaps = append(swaps, groupSwaps...)
	}
	return swaps, nil
}

// extractGroup runs the stack-aware walk over one inner-instruction group's
// instruction list L = [TOP_LEVEL[idx] with stack_height := 0, INNER[0],
// INNER[1], ...].
func extractGroup(tx *ixmodel.Transaction, group ixmodel.InnerInstructionGroup) ([]ixmodel.PotentialSwap, error) {
	if group.Index < 0 || group.Index >= len(tx.TopLevelInstructions) {
		return nil, fmt.Errorf("swapextract: inner instruction group index %d out of range", group.Index)
	}
	topLevelIx := tx.TopLevelInstructions[group.Index].AtHeight(0)

	L := make([]ixmodel.Instruction, 0, len(group.Instructions)+1)
	L = append(L, topLevelIx)
	L = append(L, group.Instructions...)

	var swaps []ixmodel.PotentialSwap
	left := 0
	for left < len(L) {
		// Step 1: advance left past leading transfers.
		for left < len(L) && classify.IsTransfer(L[left]) {
			left++
		}
		if left >= len(L) {
			break
		}

		// Step 2: push the exchange candidate onto the non-transfer stack.
		right := left + 1
		stack := []ixmodel.Instruction{L[left]}

		// Step 3.
		for right < len(L) {
			popToCaller(&stack, L[right])
			nonTransfer := stack[len(stack)-1]

			var transfers []ixmodel.Instruction
			for right < len(L) && classify.IsTransfer(L[right]) {
				transfers = append(transfers, L[right])
				right++
			}

			if len(transfers) >= minTransfersPerSwap && len(transfers) <= maxTransfersPerSwap {
				for _, t := range transfers {
					if _, err := classify.Classify(t); err != nil {
						return nil, fmt.Errorf("swapextract: %w", err)
					}
				}
				swaps = append(swaps, ixmodel.PotentialSwap{
					ExchangeInstruction:  nonTransfer,
					TransferInstructions: transfers,
					TopLevelIx:           topLevelIx,
				})
			}

			for right < len(L) && !classify.IsTransfer(L[right]) {
				popToCaller(&stack, L[right])
				stack = append(stack, L[right])
				right++
			}
		}

		// Step 4.
		left = right
	}
	return swaps, nil
}

// popToCaller pops the non-transfer stack until its top is the dynamic
// parent of ix: "if a later instruction is shallower than the current top,
// we have returned from that call."
func popToCaller(stack *[]ixmodel.Instruction, ix ixmodel.Instruction) {
	s := *stack
	for len(s) > 1 && !(ix.StackHeight() > s[len(s)-1].StackHeight()) {
		s = s[:len(s)-1]
	}
	*stack = s
}
