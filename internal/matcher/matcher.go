// Package matcher scans a block's ordered sequence of (tx, swap) pairs and
// locates entry/victim(s)/exit sandwich triples under same-signer,
// same-pool and opposite-direction rules.
package matcher

import (
	"github.com/gagliardetto/solana-go"

	"github.com/solana-mev/sandwich-detect/internal/classify"
	"github.com/solana-mev/sandwich-detect/internal/ixmodel"
)

// Match finds every sandwich triple in X, the ordered list of SwapInTx
// across all successful transactions in a block. Each transaction signature
// is committed to at most one PotentialSandwich.
func Match(X []ixmodel.SwapInTx) []ixmodel.PotentialSandwich {
	used := make(map[solana.Signature]bool)
	var sandwiches []ixmodel.PotentialSandwich

	for i := range X {
		entry := X[i]
		entrySig := entry.Tx.Signature()
		if used[entrySig] || entry.SwapCountInTx != 1 {
			continue
		}
		entrySigner, ok := entry.Tx.Signer()
		if !ok {
			continue
		}
		entryDex := entry.Swap.ExchangeInstruction.ProgramID
		entrySrc, entryDst, ok := candidateVaults(entry.Swap)
		if !ok {
			continue
		}

		for j := i + 2; j < len(X); j++ {
			exit := X[j]
			exitSig := exit.Tx.Signature()
			if used[exitSig] {
				continue
			}
			exitSigner, ok := exit.Tx.Signer()
			if !ok || !exitSigner.Equals(entrySigner) {
				continue
			}
			if !exit.Swap.ExchangeInstruction.ProgramID.Equals(entryDex) {
				continue
			}
			exitSrc, exitDst, ok := candidateVaults(exit.Swap)
			if !ok {
				continue
			}
			if !(entrySrc.intersects(exitDst) && entryDst.intersects(exitSrc)) {
				continue
			}

			targets, valid := gatherTargets(X, i, j, entrySigner, entryDex, entrySrc, entryDst)
			if !valid || len(targets) == 0 {
				continue
			}

			used[entrySig] = true
			used[exitSig] = true
			sandwiches = append(sandwiches, ixmodel.PotentialSandwich{
				Entry:   entry,
				Targets: targets,
				Exit:    exit,
			})
			break
		}
	}

	return sandwiches
}

// gatherTargets walks the open interval (i, j) collecting victims of
// entry's direction and DEX, aborting the whole interval if any
// intervening transaction shares entry's signer.
func gatherTargets(X []ixmodel.SwapInTx, i, j int, entrySigner solana.PublicKey, entryDex solana.PublicKey, entrySrc, entryDst vaultSet) ([]ixmodel.SwapInTx, bool) {
	var targets []ixmodel.SwapInTx
	for k := i + 1; k < j; k++ {
		candidate := X[k]
		signer, ok := candidate.Tx.Signer()
		if ok && signer.Equals(entrySigner) {
			return nil, false
		}
		if !candidate.Swap.ExchangeInstruction.ProgramID.Equals(entryDex) {
			continue
		}
		src, dst, ok := candidateVaults(candidate.Swap)
		if !ok {
			continue
		}
		if entrySrc.intersects(src) && entryDst.intersects(dst) {
			targets = append(targets, candidate)
		}
	}
	return targets, true
}

// candidateVaults computes the candidate source and destination vault sets
// from the first two transfers of swap: using the first two, not all,
// excludes fee-side transfers observed in some DEXes.
func candidateVaults(swap ixmodel.PotentialSwap) (src, dst vaultSet, ok bool) {
	if len(swap.TransferInstructions) < 2 {
		return vaultSet{}, vaultSet{}, false
	}
	for _, ix := range swap.TransferInstructions[:2] {
		t, err := classify.Classify(ix)
		if err != nil {
			return vaultSet{}, vaultSet{}, false
		}
		src.add(t.Source)
		dst.add(t.Destination)
	}
	return src, dst, true
}
