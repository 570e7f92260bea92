package pgstore

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/solana-mev/sandwich-detect/internal/registry"
)

func parsePoolInfo(id, tokenA, tokenB, vaultA, vaultB string) (registry.PoolInfo, error) {
	poolID, err := solana.PublicKeyFromBase58(id)
	if err != nil {
		return registry.PoolInfo{}, fmt.Errorf("pgstore: pool id %q: %w", id, err)
	}
	a, err := solana.PublicKeyFromBase58(tokenA)
	if err != nil {
		return registry.PoolInfo{}, fmt.Errorf("pgstore: token_a %q: %w", tokenA, err)
	}
	b, err := solana.PublicKeyFromBase58(tokenB)
	if err != nil {
		return registry.PoolInfo{}, fmt.Errorf("pgstore: token_b %q: %w", tokenB, err)
	}
	va, err := solana.PublicKeyFromBase58(vaultA)
	if err != nil {
		return registry.PoolInfo{}, fmt.Errorf("pgstore: token_a_vault %q: %w", vaultA, err)
	}
	vb, err := solana.PublicKeyFromBase58(vaultB)
	if err != nil {
		return registry.PoolInfo{}, fmt.Errorf("pgstore: token_b_vault %q: %w", vaultB, err)
	}
	return registry.PoolInfo{PoolID: poolID, TokenA: a, TokenB: b, TokenAVault: va, TokenBVault: vb}, nil
}
