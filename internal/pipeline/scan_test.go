package pipeline

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"github.com/solana-mev/sandwich-detect/internal/ixmodel"
	"github.com/solana-mev/sandwich-detect/internal/registry"
)

type fakeExchanges map[solana.PublicKey]registry.PoolIndexInfo

func (f fakeExchanges) Lookup(programID solana.PublicKey) (registry.PoolIndexInfo, bool) {
	info, ok := f[programID]
	return info, ok
}

func transferIx(source, dest solana.PublicKey, amount uint64) ixmodel.Instruction {
	return ixmodel.Instruction{
		Kind:       ixmodel.KindParsed,
		Height:     1,
		Program:    "spl-token",
		ParsedKind: "transfer",
		ParsedInfo: map[string]any{
			"source":      source.String(),
			"destination": dest.String(),
			"amount":      amount,
		},
	}
}

func swapTx(signer, dex solana.PublicKey, vaultA, vaultB, userATAA, userATAB solana.PublicKey, buyA bool, amountIn, amountOut uint64) *ixmodel.Transaction {
	var t1, t2 ixmodel.Instruction
	if buyA {
		t1 = transferIx(userATAB, vaultB, amountIn)
		t2 = transferIx(vaultA, userATAA, amountOut)
	} else {
		t1 = transferIx(userATAA, vaultA, amountIn)
		t2 = transferIx(vaultB, userATAB, amountOut)
	}
	return &ixmodel.Transaction{
		Signatures:  []solana.Signature{randSig()},
		AccountKeys: []ixmodel.AccountKey{{Pubkey: signer, Signer: true}},
		TopLevelInstructions: []ixmodel.Instruction{
			{Kind: ixmodel.KindRegular, ProgramID: dex, Height: 0, Accounts: nil},
		},
		InnerInstructionGroups: []ixmodel.InnerInstructionGroup{
			{Index: 0, Instructions: []ixmodel.Instruction{t1, t2}},
		},
	}
}

func randSig() solana.Signature {
	var sig solana.Signature
	copy(sig[:], solana.NewWallet().PublicKey().Bytes())
	return sig
}

func TestScanBlockEndToEnd(t *testing.T) {
	dex := solana.NewWallet().PublicKey()
	poolID := solana.NewWallet().PublicKey()
	tokenA := solana.NewWallet().PublicKey()
	tokenB := solana.NewWallet().PublicKey()
	vaultA := solana.NewWallet().PublicKey()
	vaultB := solana.NewWallet().PublicKey()
	attacker := solana.NewWallet().PublicKey()
	victim := solana.NewWallet().PublicKey()

	exchanges := fakeExchanges{dex: {PoolAccountIndex: 0}}
	pools := registry.StaticPoolRegistry{
		poolID: {PoolID: poolID, TokenA: tokenA, TokenB: tokenB, TokenAVault: vaultA, TokenBVault: vaultB},
	}

	entry := swapTx(attacker, dex, vaultA, vaultB, solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), true, 10, 100)
	entry.TopLevelInstructions[0].Accounts = []solana.PublicKey{poolID}

	mid := swapTx(victim, dex, vaultA, vaultB, solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), true, 5, 50)
	mid.TopLevelInstructions[0].Accounts = []solana.PublicKey{poolID}

	exit := swapTx(attacker, dex, vaultA, vaultB, solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), false, 200, 20)
	exit.TopLevelInstructions[0].Accounts = []solana.PublicKey{poolID}

	block := &ixmodel.Block{
		Slot:         42,
		Transactions: []*ixmodel.Transaction{entry, mid, exit},
	}

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	sandwiches := ScanBlock(block, exchanges, pools, nil, log, nil)
	if len(sandwiches) != 1 {
		t.Fatalf("len(sandwiches) = %d, want 1", len(sandwiches))
	}
	sw := sandwiches[0]
	if !sw.Attacker.Equals(attacker) {
		t.Errorf("Attacker = %v, want %v", sw.Attacker, attacker)
	}
	if len(sw.TargetTxs) != 1 {
		t.Fatalf("len(TargetTxs) = %d, want 1", len(sw.TargetTxs))
	}
	if !sw.TargetTxs[0].Signer.Equals(victim) {
		t.Errorf("victim signer = %v, want %v", sw.TargetTxs[0].Signer, victim)
	}
	if sw.ExitTx.ProfitTokenAmount <= sw.EntryTx.ProfitTokenAmount {
		t.Errorf("exit profit %d should exceed entry profit %d", sw.ExitTx.ProfitTokenAmount, sw.EntryTx.ProfitTokenAmount)
	}
}

func TestScanBlockSkipsFailedTransactions(t *testing.T) {
	block := &ixmodel.Block{
		Transactions: []*ixmodel.Transaction{
			{Err: true, Signatures: []solana.Signature{randSig()}},
		},
	}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	sandwiches := ScanBlock(block, fakeExchanges{}, registry.StaticPoolRegistry{}, nil, log, nil)
	if len(sandwiches) != 0 {
		t.Fatalf("len(sandwiches) = %d, want 0 for a block with only a failed transaction", len(sandwiches))
	}
}
