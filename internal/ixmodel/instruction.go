// Package ixmodel holds the typed view of transactions, instructions,
// transfers and swaps that the rest of the detector operates on. Everything
// here is produced once, at the RPC boundary, so that the pipeline packages
// never branch on string tags.
package ixmodel

import "github.com/gagliardetto/solana-go"

// InstructionKind tags the two shapes an Instruction can take, mirroring the
// Regular/Parsed variants a Solana jsonParsed block response returns.
type InstructionKind int

const (
	// KindRegular is an instruction the RPC could not decode: raw program
	// id, account list and opaque data.
	KindRegular InstructionKind = iota
	// KindParsed is an instruction the RPC decoded into a named shape,
	// e.g. a token "transfer" or "transferChecked".
	KindParsed
)

// Instruction is a tagged variant: Regular {program_id, accounts[], data,
// stack_height} or Parsed {program, program_id, parsed_kind, parsed_info,
// stack_height}. StackHeight is the call-stack depth at which the VM invoked
// the instruction; the synthetic top-level instruction is assigned depth 0.
type Instruction struct {
	Kind      InstructionKind
	ProgramID solana.PublicKey
	Height    int

	// Regular fields.
	Accounts []solana.PublicKey
	Data     []byte

	// Parsed fields.
	Program    string
	ParsedKind string
	ParsedInfo map[string]any
}

// StackHeight returns the call-stack depth the instruction was invoked at.
func (ix Instruction) StackHeight() int { return ix.Height }

// IsParsed reports whether the RPC decoded this instruction into a named
// shape.
func (ix Instruction) IsParsed() bool { return ix.Kind == KindParsed }

// AtHeight returns a copy of ix with its stack height replaced. Used to
// synthesize the top-level instruction at depth 0 when building the walk
// list for the swap extractor.
func (ix Instruction) AtHeight(h int) Instruction {
	ix.Height = h
	return ix
}

// transferParsedKinds is exactly the set the spec recognizes as a transfer
// shape. Anything else parsed, or any Regular instruction, is not a
// transfer.
var transferParsedKinds = map[string]bool{
	"transfer":        true,
	"transferChecked": true,
}

// IsTransfer reports whether ix is one of the two recognized transfer
// shapes. A Regular instruction is never a transfer.
func (ix Instruction) IsTransfer() bool {
	return ix.Kind == KindParsed && transferParsedKinds[ix.ParsedKind]
}
