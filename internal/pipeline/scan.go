package pipeline

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"github.com/solana-mev/sandwich-detect/internal/direction"
	"github.com/solana-mev/sandwich-detect/internal/feeattr"
	"github.com/solana-mev/sandwich-detect/internal/ixmodel"
	"github.com/solana-mev/sandwich-detect/internal/matcher"
	"github.com/solana-mev/sandwich-detect/internal/registry"
	"github.com/solana-mev/sandwich-detect/internal/swapextract"
)

// ScanBlock runs the full pipeline over one block: extraction, matching,
// direction resolution and fee attribution. It is purely computational and
// performs no I/O; per-sandwich errors are recovered locally (logged and
// skipped) exactly as spec §7 prescribes, and only reach the caller as a
// shorter result slice.
func ScanBlock(block *ixmodel.Block, exchanges registry.ExchangeRegistry, pools registry.PoolRegistry, tipAccounts map[solana.PublicKey]struct{}, log *logrus.Logger, obs Observer) []ixmodel.Sandwich {
	if log == nil {
		log = logrus.StandardLogger()
	}

	var swapRows []ixmodel.SwapInTx
	for _, tx := range block.Transactions {
		if !tx.Successful() {
			continue
		}
		swaps, err := swapextract.Extract(tx)
		if err != nil {
			log.WithError(err).WithField("signature", tx.Signature()).
				Warn("swap extraction aborted for transaction")
			if obs != nil {
				obs.ExtractionError()
			}
			continue
		}
		for _, swap := range swaps {
			swapRows = append(swapRows, ixmodel.SwapInTx{Tx: tx, Swap: swap, SwapCountInTx: len(swaps)})
		}
	}

	candidates := matcher.Match(swapRows)

	sandwiches := make([]ixmodel.Sandwich, 0, len(candidates))
	for _, ps := range candidates {
		sw, err := resolveSandwich(ps, block, exchanges, pools, tipAccounts)
		if err != nil {
			logSkippedSandwich(log, ps, err)
			continue
		}
		sandwiches = append(sandwiches, *sw)
	}
	return sandwiches
}

func logSkippedSandwich(log *logrus.Logger, ps ixmodel.PotentialSandwich, err error) {
	entry := log.WithField("entry_signature", ps.Entry.Tx.Signature())
	switch {
	case errors.Is(err, ErrNegativeProfit):
		entry.WithError(err).Info("skipping sandwich with negative profit")
	case errors.Is(err, direction.ErrUnknownDex):
		entry.WithError(err).Warn("unknown dex")
	case errors.Is(err, direction.ErrInvalidPoolIndex):
		entry.WithError(err).Warn("invalid pool index")
	case errors.Is(err, direction.ErrUnknownPool):
		entry.WithError(err).Warn("unknown pool")
	case errors.Is(err, direction.ErrUnmatchableDirection):
		entry.WithError(err).Warn("unmatchable trade direction")
	default:
		entry.WithError(err).Warn("sandwich skipped")
	}
}

func resolveSandwich(ps ixmodel.PotentialSandwich, block *ixmodel.Block, exchanges registry.ExchangeRegistry, pools registry.PoolRegistry, tipAccounts map[solana.PublicKey]struct{}) (*ixmodel.Sandwich, error) {
	res, err := direction.Resolve(ps, exchanges, pools)
	if err != nil {
		return nil, err
	}

	entrySigner, _ := ps.Entry.Tx.Signer()

	entryAttacker, err := buildAttackerTx(ps.Entry, res, tipAccounts)
	if err != nil {
		return nil, err
	}
	exitAttacker, err := buildAttackerTx(ps.Exit, res, tipAccounts)
	if err != nil {
		return nil, err
	}
	if exitAttacker.ProfitTokenAmount <= entryAttacker.ProfitTokenAmount {
		return nil, fmt.Errorf("%w: entry=%d exit=%d", ErrNegativeProfit, entryAttacker.ProfitTokenAmount, exitAttacker.ProfitTokenAmount)
	}

	targets := make([]ixmodel.TargetTx, 0, len(ps.Targets))
	for _, t := range ps.Targets {
		tt, err := buildTargetTx(t, res)
		if err != nil {
			return nil, err
		}
		targets = append(targets, tt)
	}

	return &ixmodel.Sandwich{
		ID:            ps.Entry.Tx.Signature(),
		Block:         block.Slot,
		BlockTime:     block.BlockTime,
		Dex:           res.Dex,
		Pool:          res.Pool.PoolID,
		Bot:           ps.Entry.Swap.TopLevelIx.ProgramID,
		Attacker:      entrySigner,
		ProfitToken:   res.ProfitToken,
		TargetedToken: res.TargetedToken,
		EntryTx:       entryAttacker,
		ExitTx:        exitAttacker,
		TargetTxs:     targets,
	}, nil
}

func buildAttackerTx(s ixmodel.SwapInTx, res direction.Resolution, tipAccounts map[solana.PublicKey]struct{}) (ixmodel.AttackerTx, error) {
	profit, targeted, err := direction.Amounts(s.Swap, res)
	if err != nil {
		return ixmodel.AttackerTx{}, err
	}
	return ixmodel.AttackerTx{
		Signature:           s.Tx.Signature(),
		ProfitTokenAmount:   profit,
		TargetedTokenAmount: targeted,
		JitoTip:             feeattr.JitoTip(s.Tx, tipAccounts),
		PriorityFee:         feeattr.PriorityFee(s.Tx),
	}, nil
}

func buildTargetTx(s ixmodel.SwapInTx, res direction.Resolution) (ixmodel.TargetTx, error) {
	profit, targeted, err := direction.Amounts(s.Swap, res)
	if err != nil {
		return ixmodel.TargetTx{}, err
	}
	signer, _ := s.Tx.Signer()
	return ixmodel.TargetTx{
		Signature:           s.Tx.Signature(),
		Signer:              signer,
		ProfitTokenAmount:   profit,
		TargetedTokenAmount: targeted,
	}, nil
}
