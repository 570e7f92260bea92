package feeattr

import (
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/solana-mev/sandwich-detect/internal/ixmodel"
)

func transferIx(dest solana.PublicKey, amount uint64) ixmodel.Instruction {
	return ixmodel.Instruction{
		Kind:       ixmodel.KindParsed,
		Program:    "system",
		ParsedKind: "transfer",
		ParsedInfo: map[string]any{
			"source":      solana.NewWallet().PublicKey().String(),
			"destination": dest.String(),
			"lamports":    amount,
		},
	}
}

func TestJitoTipFoundAtTopLevel(t *testing.T) {
	tip := solana.NewWallet().PublicKey()
	recipients := map[solana.PublicKey]struct{}{tip: {}}

	tx := &ixmodel.Transaction{
		TopLevelInstructions: []ixmodel.Instruction{transferIx(tip, 12000)},
	}

	if got := JitoTip(tx, recipients); got != 12000 {
		t.Errorf("JitoTip() = %d, want 12000", got)
	}
}

func TestJitoTipFoundInInnerInstructions(t *testing.T) {
	tip := solana.NewWallet().PublicKey()
	recipients := map[solana.PublicKey]struct{}{tip: {}}

	tx := &ixmodel.Transaction{
		TopLevelInstructions: []ixmodel.Instruction{{Kind: ixmodel.KindRegular}},
		InnerInstructionGroups: []ixmodel.InnerInstructionGroup{
			{Index: 0, Instructions: []ixmodel.Instruction{transferIx(tip, 500)}},
		},
	}

	if got := JitoTip(tx, recipients); got != 500 {
		t.Errorf("JitoTip() = %d, want 500", got)
	}
}

func TestJitoTipNoMatch(t *testing.T) {
	recipients := map[solana.PublicKey]struct{}{solana.NewWallet().PublicKey(): {}}
	tx := &ixmodel.Transaction{
		TopLevelInstructions: []ixmodel.Instruction{transferIx(solana.NewWallet().PublicKey(), 999)},
	}

	if got := JitoTip(tx, recipients); got != 0 {
		t.Errorf("JitoTip() = %d, want 0", got)
	}
}

func TestPriorityFeeAlwaysZero(t *testing.T) {
	if got := PriorityFee(&ixmodel.Transaction{}); got != 0 {
		t.Errorf("PriorityFee() = %d, want 0", got)
	}
}
