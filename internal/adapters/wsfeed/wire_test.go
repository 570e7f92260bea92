package wsfeed

import (
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/solana-mev/sandwich-detect/internal/ixmodel"
)

func TestToWireSummarizesSandwich(t *testing.T) {
	id := solana.SignatureFromBytes(make([]byte, 64))
	sw := ixmodel.Sandwich{
		ID:            id,
		Block:         7,
		Dex:           solana.NewWallet().PublicKey(),
		Pool:          solana.NewWallet().PublicKey(),
		Attacker:      solana.NewWallet().PublicKey(),
		ProfitToken:   solana.NewWallet().PublicKey(),
		TargetedToken: solana.NewWallet().PublicKey(),
		EntryTx:       ixmodel.AttackerTx{ProfitTokenAmount: 10},
		ExitTx:        ixmodel.AttackerTx{ProfitTokenAmount: 25},
		TargetTxs: []ixmodel.TargetTx{
			{Signature: id, Signer: solana.NewWallet().PublicKey()},
			{Signature: id, Signer: solana.NewWallet().PublicKey()},
		},
	}

	wire := toWire(sw)

	if wire.ID != id.String() || wire.Block != 7 {
		t.Errorf("toWire() top level mismatch: %+v", wire)
	}
	if wire.EntryProfit != 10 || wire.ExitProfit != 25 {
		t.Errorf("toWire() profit mismatch: entry=%d exit=%d", wire.EntryProfit, wire.ExitProfit)
	}
	if wire.VictimCount != 2 {
		t.Errorf("toWire() VictimCount = %d, want 2", wire.VictimCount)
	}
}
