package rpcblocks

import (
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"github.com/solana-mev/sandwich-detect/internal/ixmodel"
)

func decodeBlock(slot uint64, wb *wireBlock) (*ixmodel.Block, error) {
	block := &ixmodel.Block{Slot: slot}
	if wb.BlockTime != nil {
		block.BlockTime = *wb.BlockTime
	}

	for _, envelope := range wb.Transactions {
		tx, err := decodeTransaction(envelope)
		if err != nil {
			return nil, fmt.Errorf("rpcblocks: slot %d: %w", slot, err)
		}
		block.Transactions = append(block.Transactions, tx)
	}
	return block, nil
}

func decodeTransaction(envelope wireTransactionEnvelope) (*ixmodel.Transaction, error) {
	tx := &ixmodel.Transaction{Err: len(envelope.Meta.Err) > 0 && string(envelope.Meta.Err) != "null"}

	for _, sig := range envelope.Transaction.Signatures {
		s, err := solana.SignatureFromBase58(sig)
		if err != nil {
			return nil, fmt.Errorf("decode signature %q: %w", sig, err)
		}
		tx.Signatures = append(tx.Signatures, s)
	}

	for _, ak := range envelope.Transaction.Message.AccountKeys {
		pk, err := solana.PublicKeyFromBase58(ak.Pubkey)
		if err != nil {
			return nil, fmt.Errorf("decode account key %q: %w", ak.Pubkey, err)
		}
		tx.AccountKeys = append(tx.AccountKeys, ixmodel.AccountKey{Pubkey: pk, Signer: ak.Signer, Writable: ak.Writable})
	}

	for _, wix := range envelope.Transaction.Message.Instructions {
		ix, err := decodeInstruction(wix)
		if err != nil {
			return nil, err
		}
		tx.TopLevelInstructions = append(tx.TopLevelInstructions, ix)
	}

	for _, group := range envelope.Meta.InnerInstructions {
		g := ixmodel.InnerInstructionGroup{Index: group.Index}
		for _, wix := range group.Instructions {
			ix, err := decodeInstruction(wix)
			if err != nil {
				return nil, err
			}
			g.Instructions = append(g.Instructions, ix)
		}
		tx.InnerInstructionGroups = append(tx.InnerInstructionGroups, g)
	}

	return tx, nil
}

func decodeInstruction(wix wireInstruction) (ixmodel.Instruction, error) {
	height := 0
	if wix.StackHeight != nil {
		height = *wix.StackHeight
	}

	if len(wix.Parsed) == 0 {
		programID, err := solana.PublicKeyFromBase58(wix.ProgramID)
		if err != nil {
			return ixmodel.Instruction{}, fmt.Errorf("decode program id %q: %w", wix.ProgramID, err)
		}
		accounts := make([]solana.PublicKey, 0, len(wix.Accounts))
		for _, a := range wix.Accounts {
			pk, err := solana.PublicKeyFromBase58(a)
			if err != nil {
				return ixmodel.Instruction{}, fmt.Errorf("decode account %q: %w", a, err)
			}
			accounts = append(accounts, pk)
		}
		data, err := base58.Decode(wix.Data)
		if err != nil {
			return ixmodel.Instruction{}, fmt.Errorf("decode instruction data %q: %w", wix.Data, err)
		}
		return ixmodel.Instruction{
			Kind:      ixmodel.KindRegular,
			ProgramID: programID,
			Height:    height,
			Accounts:  accounts,
			Data:      data,
		}, nil
	}

	var parsed wireParsed
	if err := json.Unmarshal(wix.Parsed, &parsed); err != nil {
		return ixmodel.Instruction{}, fmt.Errorf("decode parsed instruction: %w", err)
	}
	programID, err := solana.PublicKeyFromBase58(wix.ProgramID)
	if err != nil {
		return ixmodel.Instruction{}, fmt.Errorf("decode program id %q: %w", wix.ProgramID, err)
	}
	return ixmodel.Instruction{
		Kind:       ixmodel.KindParsed,
		ProgramID:  programID,
		Height:     height,
		Program:    wix.Program,
		ParsedKind: parsed.Type,
		ParsedInfo: parsed.Info,
	}, nil
}
