// Package direction resolves a confirmed sandwich triple to a concrete pool
// and assigns profit_token vs targeted_token, consulting the exchange and
// pool registries.
package direction

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/solana-mev/sandwich-detect/internal/classify"
	"github.com/solana-mev/sandwich-detect/internal/ixmodel"
	"github.com/solana-mev/sandwich-detect/internal/registry"
)

// Errors returned by Resolve, matching the policy table in spec §7: each is
// recovered locally by the driver, which skips the sandwich and continues
// the block.
var (
	ErrUnknownDex           = errors.New("direction: unknown dex")
	ErrInvalidPoolIndex     = errors.New("direction: invalid pool index")
	ErrUnknownPool          = errors.New("direction: unknown pool")
	ErrUnmatchableDirection = errors.New("direction: unmatchable trade direction")
)

// Resolution is the outcome of resolving one PotentialSandwich: the pool and
// the vaults assigned to the profit and targeted sides.
type Resolution struct {
	Dex           solana.PublicKey
	Pool          registry.PoolInfo
	ProfitToken   solana.PublicKey
	TargetedToken solana.PublicKey
	ProfitVault   solana.PublicKey
	TargetedVault solana.PublicKey
}

// Resolve locates the sandwich's pool via the exchange registry, then
// assigns profit/targeted tokens by scanning the entry's transfers in order
// for the first one that touches a pool vault.
func Resolve(ps ixmodel.PotentialSandwich, exchanges registry.ExchangeRegistry, pools registry.PoolRegistry) (Resolution, error) {
	dex := ps.Entry.Swap.ExchangeInstruction.ProgramID

	exchangeInfo, ok := exchanges.Lookup(dex)
	if !ok {
		return Resolution{}, fmt.Errorf("%w: %s", ErrUnknownDex, dex)
	}

	accounts := ps.Entry.Swap.ExchangeInstruction.Accounts
	if exchangeInfo.PoolAccountIndex < 0 || exchangeInfo.PoolAccountIndex >= len(accounts) {
		return Resolution{}, fmt.Errorf("%w: dex %s wants index %d, instruction has %d accounts",
			ErrInvalidPoolIndex, dex, exchangeInfo.PoolAccountIndex, len(accounts))
	}
	poolAddress := accounts[exchangeInfo.PoolAccountIndex]

	pool, ok := pools.Lookup(poolAddress)
	if !ok {
		return Resolution{}, fmt.Errorf("%w: %s", ErrUnknownPool, poolAddress)
	}

	for _, ix := range ps.Entry.Swap.TransferInstructions {
		t, err := classify.Classify(ix)
		if err != nil {
			continue
		}
		switch {
		case t.Destination.Equals(pool.TokenAVault) || t.Source.Equals(pool.TokenBVault):
			return Resolution{
				Dex: dex, Pool: pool,
				ProfitToken: pool.TokenA, TargetedToken: pool.TokenB,
				ProfitVault: pool.TokenAVault, TargetedVault: pool.TokenBVault,
			}, nil
		case t.Destination.Equals(pool.TokenBVault) || t.Source.Equals(pool.TokenAVault):
			return Resolution{
				Dex: dex, Pool: pool,
				ProfitToken: pool.TokenB, TargetedToken: pool.TokenA,
				ProfitVault: pool.TokenBVault, TargetedVault: pool.TokenAVault,
			}, nil
		}
	}

	return Resolution{}, fmt.Errorf("%w: pool %s", ErrUnmatchableDirection, poolAddress)
}

// Amounts classifies the two in-range transfers of swap using the resolved
// profit/targeted vaults, returning the profit-token amount and the
// targeted-token amount.
func Amounts(swap ixmodel.PotentialSwap, res Resolution) (profitAmount, targetedAmount uint64, err error) {
	if len(swap.TransferInstructions) < 2 {
		return 0, 0, fmt.Errorf("direction: swap has fewer than 2 transfers")
	}
	first, err := classify.Classify(swap.TransferInstructions[0])
	if err != nil {
		return 0, 0, err
	}
	second, err := classify.Classify(swap.TransferInstructions[1])
	if err != nil {
		return 0, 0, err
	}

	switch {
	case touchesVault(first, res.ProfitVault):
		return first.Amount, second.Amount, nil
	case touchesVault(second, res.ProfitVault):
		return second.Amount, first.Amount, nil
	case touchesVault(first, res.TargetedVault):
		return second.Amount, first.Amount, nil
	case touchesVault(second, res.TargetedVault):
		return first.Amount, second.Amount, nil
	default:
		return 0, 0, fmt.Errorf("%w: neither transfer touches a resolved vault", ErrUnmatchableDirection)
	}
}

func touchesVault(t ixmodel.Transfer, vault solana.PublicKey) bool {
	return t.Source.Equals(vault) || t.Destination.Equals(vault)
}
