package rpcblocks

import (
	"encoding/json"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"github.com/solana-mev/sandwich-detect/internal/ixmodel"
)

func TestDecodeInstructionRegularDecodesBase58Data(t *testing.T) {
	raw := []byte{1, 2, 3, 4}
	wix := wireInstruction{
		ProgramID: solana.SystemProgramID.String(),
		Accounts:  []string{solana.SystemProgramID.String()},
		Data:      base58.Encode(raw),
	}

	ix, err := decodeInstruction(wix)
	if err != nil {
		t.Fatalf("decodeInstruction() error = %v", err)
	}
	if ix.Kind != ixmodel.KindRegular {
		t.Fatalf("Kind = %v, want KindRegular", ix.Kind)
	}
	if string(ix.Data) != string(raw) {
		t.Errorf("Data = %v, want %v", ix.Data, raw)
	}
	if !ix.ProgramID.Equals(solana.SystemProgramID) {
		t.Errorf("ProgramID = %s, want %s", ix.ProgramID, solana.SystemProgramID)
	}
}

func TestDecodeInstructionRegularRejectsInvalidData(t *testing.T) {
	wix := wireInstruction{
		ProgramID: solana.SystemProgramID.String(),
		Data:      "not-valid-base58!!!",
	}
	if _, err := decodeInstruction(wix); err == nil {
		t.Fatal("decodeInstruction() should fail on invalid base58 data")
	}
}

func TestDecodeInstructionParsedTransfer(t *testing.T) {
	info, _ := json.Marshal(map[string]any{"amount": "100"})
	parsed, _ := json.Marshal(wireParsed{Type: "transfer", Info: map[string]any{"amount": "100"}})
	_ = info

	height := 2
	wix := wireInstruction{
		ProgramID:   solana.TokenProgramID.String(),
		Program:     "spl-token",
		Parsed:      parsed,
		StackHeight: &height,
	}

	ix, err := decodeInstruction(wix)
	if err != nil {
		t.Fatalf("decodeInstruction() error = %v", err)
	}
	if ix.Kind != ixmodel.KindParsed {
		t.Fatalf("Kind = %v, want KindParsed", ix.Kind)
	}
	if ix.ParsedKind != "transfer" {
		t.Errorf("ParsedKind = %q, want transfer", ix.ParsedKind)
	}
	if ix.Height != 2 {
		t.Errorf("Height = %d, want 2", ix.Height)
	}
	if !ix.ProgramID.Equals(solana.TokenProgramID) {
		t.Errorf("ProgramID = %s, want %s", ix.ProgramID, solana.TokenProgramID)
	}
	if !ix.IsTransfer() {
		t.Error("expected decoded transfer instruction to report IsTransfer() = true")
	}
}

func TestDecodeInstructionParsedRejectsInvalidProgramID(t *testing.T) {
	parsed, _ := json.Marshal(wireParsed{Type: "transfer"})
	wix := wireInstruction{ProgramID: "not-base58!", Parsed: parsed}
	if _, err := decodeInstruction(wix); err == nil {
		t.Fatal("decodeInstruction() should fail on an invalid parsed program id")
	}
}

func TestDecodeTransactionBuildsSignaturesAndAccountKeys(t *testing.T) {
	sig := solana.SignatureFromBytes(make([]byte, 64)).String()
	acct := solana.NewWallet().PublicKey().String()

	envelope := wireTransactionEnvelope{
		Transaction: wireTransaction{
			Signatures: []string{sig},
			Message: wireMessage{
				AccountKeys: []wireAccountKey{{Pubkey: acct, Signer: true, Writable: true}},
			},
		},
	}

	tx, err := decodeTransaction(envelope)
	if err != nil {
		t.Fatalf("decodeTransaction() error = %v", err)
	}
	if len(tx.Signatures) != 1 || tx.Signatures[0].String() != sig {
		t.Errorf("Signatures = %v, want [%s]", tx.Signatures, sig)
	}
	if len(tx.AccountKeys) != 1 || !tx.AccountKeys[0].Signer {
		t.Errorf("AccountKeys = %+v, want one signer account", tx.AccountKeys)
	}
	if tx.Err {
		t.Error("Err should be false when meta.err is absent")
	}
}

func TestDecodeTransactionMarksMetaErr(t *testing.T) {
	envelope := wireTransactionEnvelope{
		Meta: wireMeta{Err: json.RawMessage(`{"InstructionError":[0,"Custom"]}`)},
	}
	tx, err := decodeTransaction(envelope)
	if err != nil {
		t.Fatalf("decodeTransaction() error = %v", err)
	}
	if !tx.Err {
		t.Error("Err should be true when meta.err is present")
	}
}

func TestDecodeTransactionMetaErrNullIsNotAnError(t *testing.T) {
	envelope := wireTransactionEnvelope{
		Meta: wireMeta{Err: json.RawMessage(`null`)},
	}
	tx, err := decodeTransaction(envelope)
	if err != nil {
		t.Fatalf("decodeTransaction() error = %v", err)
	}
	if tx.Err {
		t.Error("Err should be false when meta.err is the JSON null literal")
	}
}

func TestDecodeBlockPropagatesSlotAndBlockTime(t *testing.T) {
	blockTime := int64(1700000000)
	wb := &wireBlock{BlockTime: &blockTime}

	block, err := decodeBlock(42, wb)
	if err != nil {
		t.Fatalf("decodeBlock() error = %v", err)
	}
	if block.Slot != 42 {
		t.Errorf("Slot = %d, want 42", block.Slot)
	}
	if block.BlockTime != blockTime {
		t.Errorf("BlockTime = %d, want %d", block.BlockTime, blockTime)
	}
}

func TestDecodeBlockPropagatesTransactionDecodeError(t *testing.T) {
	wb := &wireBlock{
		Transactions: []wireTransactionEnvelope{
			{Transaction: wireTransaction{Signatures: []string{"not-base58!"}}},
		},
	}
	if _, err := decodeBlock(1, wb); err == nil {
		t.Fatal("decodeBlock() should propagate a transaction decode error")
	}
}
