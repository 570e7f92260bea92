package ixmodel

// PotentialSwap is one (exchange-instruction, token-transfer-list) bundle
// the swap extractor found under a single call-stack branch.
//
// Invariants: 2 <= len(TransferInstructions) <= 4; every transfer has
// StackHeight() > ExchangeInstruction.StackHeight(); TopLevelIx.StackHeight()
// == 0.
type PotentialSwap struct {
	ExchangeInstruction  Instruction
	TransferInstructions []Instruction
	TopLevelIx           Instruction
}

// IsTopLevel reports whether the exchange instruction itself is the
// transaction's top-level instruction (as opposed to a nested CPI).
func (s PotentialSwap) IsTopLevel() bool {
	return s.ExchangeInstruction.ProgramID.Equals(s.TopLevelIx.ProgramID) &&
		s.ExchangeInstruction.StackHeight() == 0
}

// SwapInTx pairs one extracted swap with the transaction it came from and
// the total number of swaps extracted from that same transaction.
type SwapInTx struct {
	Tx            *Transaction
	Swap          PotentialSwap
	SwapCountInTx int
}

// PotentialSandwich is an entry/victims/exit triple the matcher found,
// before the direction resolver has consulted the pool registry.
type PotentialSandwich struct {
	Entry   SwapInTx
	Targets []SwapInTx
	Exit    SwapInTx
}
