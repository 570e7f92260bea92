// Package classify recognizes the three token-transfer instruction shapes a
// Solana jsonParsed block response can contain and normalizes each into an
// ixmodel.Transfer. All string-tag branching lives here, at the boundary;
// everything downstream operates on the normalized Transfer.
package classify

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/solana-mev/sandwich-detect/internal/ixmodel"
)

// ErrUnknownTransfer is returned when a Parsed instruction's shape isn't one
// of the three kinds this detector recognizes, or when a non-Parsed
// instruction is classified.
var ErrUnknownTransfer = errors.New("classify: unknown transfer instruction")

const (
	kindTransfer        = "transfer"
	kindTransferChecked = "transferChecked"

	programSPLToken = "spl-token"
	programSystem   = "system"
)

// Classify normalizes a Parsed transfer instruction into a Transfer. It
// fails with ErrUnknownTransfer on a Regular instruction or on any parsed
// shape that isn't "transfer" or "transferChecked".
func Classify(ix ixmodel.Instruction) (ixmodel.Transfer, error) {
	if !ix.IsParsed() {
		return ixmodel.Transfer{}, ErrUnknownTransfer
	}

	switch ix.ParsedKind {
	case kindTransferChecked:
		return classifyTransferChecked(ix)
	case kindTransfer:
		switch ix.Program {
		case programSPLToken, "spl-token-2022":
			return classifySPLTransfer(ix)
		case programSystem:
			return classifySystemTransfer(ix)
		default:
			return ixmodel.Transfer{}, fmt.Errorf("%w: unrecognized program %q for transfer", ErrUnknownTransfer, ix.Program)
		}
	default:
		return ixmodel.Transfer{}, fmt.Errorf("%w: parsed kind %q", ErrUnknownTransfer, ix.ParsedKind)
	}
}

// IsTransfer reports whether ix has one of the two transfer parsed kinds,
// without allocating a Transfer. It does not check the instruction's
// fields, so an instruction it accepts can still fail Classify. Used by the
// swap extractor to walk the call-stack tree without needing amounts yet.
func IsTransfer(ix ixmodel.Instruction) bool {
	return ix.IsTransfer()
}

func classifyTransferChecked(ix ixmodel.Instruction) (ixmodel.Transfer, error) {
	info := ix.ParsedInfo
	mint, ok := pubkeyField(info, "mint")
	if !ok {
		return ixmodel.Transfer{}, fmt.Errorf("%w: transferChecked missing mint", ErrUnknownTransfer)
	}
	source, ok := pubkeyField(info, "source")
	if !ok {
		return ixmodel.Transfer{}, fmt.Errorf("%w: transferChecked missing source", ErrUnknownTransfer)
	}
	dest, ok := pubkeyField(info, "destination")
	if !ok {
		return ixmodel.Transfer{}, fmt.Errorf("%w: transferChecked missing destination", ErrUnknownTransfer)
	}
	tokenAmount, ok := info["tokenAmount"].(map[string]any)
	if !ok {
		return ixmodel.Transfer{}, fmt.Errorf("%w: transferChecked missing tokenAmount", ErrUnknownTransfer)
	}
	amount, ok := uint64Field(tokenAmount, "amount")
	if !ok {
		return ixmodel.Transfer{}, fmt.Errorf("%w: transferChecked unparseable amount", ErrUnknownTransfer)
	}
	return ixmodel.Transfer{Mint: mint, HasMint: true, Amount: amount, Source: source, Destination: dest}, nil
}

func classifySPLTransfer(ix ixmodel.Instruction) (ixmodel.Transfer, error) {
	info := ix.ParsedInfo
	source, ok := pubkeyField(info, "source")
	if !ok {
		return ixmodel.Transfer{}, fmt.Errorf("%w: spl-token transfer missing source", ErrUnknownTransfer)
	}
	dest, ok := pubkeyField(info, "destination")
	if !ok {
		return ixmodel.Transfer{}, fmt.Errorf("%w: spl-token transfer missing destination", ErrUnknownTransfer)
	}
	amount, ok := uint64Field(info, "amount")
	if !ok {
		return ixmodel.Transfer{}, fmt.Errorf("%w: spl-token transfer unparseable amount", ErrUnknownTransfer)
	}
	// Mint is unknown: the bare Transfer instruction doesn't carry it.
	return ixmodel.Transfer{HasMint: false, Amount: amount, Source: source, Destination: dest}, nil
}

func classifySystemTransfer(ix ixmodel.Instruction) (ixmodel.Transfer, error) {
	info := ix.ParsedInfo
	source, ok := pubkeyField(info, "source")
	if !ok {
		return ixmodel.Transfer{}, fmt.Errorf("%w: system transfer missing source", ErrUnknownTransfer)
	}
	dest, ok := pubkeyField(info, "destination")
	if !ok {
		return ixmodel.Transfer{}, fmt.Errorf("%w: system transfer missing destination", ErrUnknownTransfer)
	}
	amount, ok := uint64Field(info, "lamports")
	if !ok {
		return ixmodel.Transfer{}, fmt.Errorf("%w: system transfer unparseable lamports", ErrUnknownTransfer)
	}
	return ixmodel.Transfer{Mint: ixmodel.NativeSOLMint, HasMint: true, Amount: amount, Source: source, Destination: dest}, nil
}

func pubkeyField(info map[string]any, key string) (solana.PublicKey, bool) {
	s, ok := info[key].(string)
	if !ok || s == "" {
		return solana.PublicKey{}, false
	}
	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, false
	}
	return pk, true
}

// uint64Field reads a u64 out of a parsed-info value that may have arrived
// as a JSON string (the common case for token amounts), a json.Number, or a
// plain float64 (the common case for lamports).
func uint64Field(info map[string]any, key string) (uint64, bool) {
	switch v := info[key].(type) {
	case string:
		var n uint64
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
			return 0, false
		}
		return n, true
	case json.Number:
		n, err := v.Int64()
		if err != nil || n < 0 {
			return 0, false
		}
		return uint64(n), true
	case float64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case uint64:
		return v, true
	default:
		return 0, false
	}
}
