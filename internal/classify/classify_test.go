package classify

import (
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/solana-mev/sandwich-detect/internal/ixmodel"
)

func parsedIx(program, kind string, info map[string]any) ixmodel.Instruction {
	return ixmodel.Instruction{
		Kind:       ixmodel.KindParsed,
		Program:    program,
		ParsedKind: kind,
		ParsedInfo: info,
	}
}

func TestClassifyTransferChecked(t *testing.T) {
	source := solana.NewWallet().PublicKey()
	dest := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	ix := parsedIx(programSPLToken, kindTransferChecked, map[string]any{
		"source":      source.String(),
		"destination": dest.String(),
		"mint":        mint.String(),
		"tokenAmount": map[string]any{"amount": "12345"},
	})

	tr, err := Classify(ix)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if tr.Amount != 12345 {
		t.Errorf("Amount = %d, want 12345", tr.Amount)
	}
	if !tr.HasMint || !tr.Mint.Equals(mint) {
		t.Errorf("Mint = %v (has=%v), want %v", tr.Mint, tr.HasMint, mint)
	}
	if !tr.Source.Equals(source) || !tr.Destination.Equals(dest) {
		t.Errorf("Source/Destination mismatch")
	}
}

func TestClassifySPLTransferHasNoMint(t *testing.T) {
	source := solana.NewWallet().PublicKey()
	dest := solana.NewWallet().PublicKey()

	ix := parsedIx(programSPLToken, kindTransfer, map[string]any{
		"source":      source.String(),
		"destination": dest.String(),
		"amount":      "999",
	})

	tr, err := Classify(ix)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if tr.HasMint {
		t.Errorf("HasMint = true, want false for bare spl-token transfer")
	}
	if tr.Amount != 999 {
		t.Errorf("Amount = %d, want 999", tr.Amount)
	}
}

func TestClassifySystemTransferUsesNativeMint(t *testing.T) {
	source := solana.NewWallet().PublicKey()
	dest := solana.NewWallet().PublicKey()

	ix := parsedIx(programSystem, kindTransfer, map[string]any{
		"source":      source.String(),
		"destination": dest.String(),
		"lamports":    float64(555),
	})

	tr, err := Classify(ix)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if !tr.HasMint || !tr.Mint.Equals(ixmodel.NativeSOLMint) {
		t.Errorf("Mint = %v, want native SOL mint", tr.Mint)
	}
	if tr.Amount != 555 {
		t.Errorf("Amount = %d, want 555", tr.Amount)
	}
}

func TestClassifyRejectsRegularInstruction(t *testing.T) {
	ix := ixmodel.Instruction{Kind: ixmodel.KindRegular}
	if _, err := Classify(ix); err == nil {
		t.Fatal("Classify() on a regular instruction should fail")
	}
}

func TestClassifyRejectsUnknownParsedKind(t *testing.T) {
	ix := parsedIx(programSystem, "createAccount", map[string]any{})
	if _, err := Classify(ix); err == nil {
		t.Fatal("Classify() on createAccount should fail")
	}
}

func TestClassifyRejectsMissingAmount(t *testing.T) {
	source := solana.NewWallet().PublicKey()
	dest := solana.NewWallet().PublicKey()
	ix := parsedIx(programSPLToken, kindTransfer, map[string]any{
		"source":      source.String(),
		"destination": dest.String(),
	})
	if _, err := Classify(ix); err == nil {
		t.Fatal("Classify() with missing amount should fail")
	}
}
