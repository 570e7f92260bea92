// Package rediscache decorates the pool registry and tip-account loaders
// with a Redis-backed TTL cache, so a restart doesn't have to re-run a full
// getProgramAccounts scan or a pools_map table read on every process start.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/solana-mev/sandwich-detect/internal/pipeline"
	"github.com/solana-mev/sandwich-detect/internal/registry"
)

// PoolStoreCache wraps a pipeline.PoolStore, caching the loaded registry as
// a single JSON blob under Key for TTL.
type PoolStoreCache struct {
	Next   pipeline.PoolStore
	Client *redis.Client
	Key    string
	TTL    time.Duration
	Log    *logrus.Logger
}

type cachedPool struct {
	PoolID      string `json:"pool_id"`
	TokenA      string `json:"token_a"`
	TokenB      string `json:"token_b"`
	TokenAVault string `json:"token_a_vault"`
	TokenBVault string `json:"token_b_vault"`
}

// LoadPools implements pipeline.PoolStore, consulting Redis before falling
// back to Next.
func (c *PoolStoreCache) LoadPools(ctx context.Context) (registry.PoolRegistry, error) {
	log := c.logOrDefault()

	if raw, err := c.Client.Get(ctx, c.Key).Bytes(); err == nil {
		reg, decodeErr := decodePoolRegistry(raw)
		if decodeErr == nil {
			log.WithField("pools", len(reg)).Debug("pool registry cache hit")
			return reg, nil
		}
		log.WithError(decodeErr).Warn("discarding corrupt pool registry cache entry")
	} else if err != redis.Nil {
		log.WithError(err).Warn("pool registry cache read failed, falling back to source")
	}

	reg, err := c.Next.LoadPools(ctx)
	if err != nil {
		return nil, err
	}
	static, ok := reg.(registry.StaticPoolRegistry)
	if !ok {
		return reg, nil
	}

	raw, err := encodePoolRegistry(static)
	if err == nil {
		if err := c.Client.Set(ctx, c.Key, raw, c.TTL).Err(); err != nil {
			log.WithError(err).Warn("failed to populate pool registry cache")
		}
	}
	return static, nil
}

func (c *PoolStoreCache) logOrDefault() *logrus.Logger {
	if c.Log != nil {
		return c.Log
	}
	return logrus.StandardLogger()
}

func encodePoolRegistry(reg registry.StaticPoolRegistry) ([]byte, error) {
	out := make([]cachedPool, 0, len(reg))
	for _, p := range reg {
		out = append(out, cachedPool{
			PoolID:      p.PoolID.String(),
			TokenA:      p.TokenA.String(),
			TokenB:      p.TokenB.String(),
			TokenAVault: p.TokenAVault.String(),
			TokenBVault: p.TokenBVault.String(),
		})
	}
	return json.Marshal(out)
}

func decodePoolRegistry(raw []byte) (registry.StaticPoolRegistry, error) {
	var cached []cachedPool
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, fmt.Errorf("rediscache: decode pool registry: %w", err)
	}
	out := registry.StaticPoolRegistry{}
	for _, c := range cached {
		poolID, err := solana.PublicKeyFromBase58(c.PoolID)
		if err != nil {
			return nil, fmt.Errorf("rediscache: pool id %q: %w", c.PoolID, err)
		}
		a, err := solana.PublicKeyFromBase58(c.TokenA)
		if err != nil {
			return nil, fmt.Errorf("rediscache: token_a %q: %w", c.TokenA, err)
		}
		b, err := solana.PublicKeyFromBase58(c.TokenB)
		if err != nil {
			return nil, fmt.Errorf("rediscache: token_b %q: %w", c.TokenB, err)
		}
		va, err := solana.PublicKeyFromBase58(c.TokenAVault)
		if err != nil {
			return nil, fmt.Errorf("rediscache: token_a_vault %q: %w", c.TokenAVault, err)
		}
		vb, err := solana.PublicKeyFromBase58(c.TokenBVault)
		if err != nil {
			return nil, fmt.Errorf("rediscache: token_b_vault %q: %w", c.TokenBVault, err)
		}
		out[poolID] = registry.PoolInfo{PoolID: poolID, TokenA: a, TokenB: b, TokenAVault: va, TokenBVault: vb}
	}
	return out, nil
}

// TipAccountStoreCache wraps a pipeline.TipAccountStore the same way.
type TipAccountStoreCache struct {
	Next   pipeline.TipAccountStore
	Client *redis.Client
	Key    string
	TTL    time.Duration
	Log    *logrus.Logger
}

// LoadTipAccounts implements pipeline.TipAccountStore.
func (c *TipAccountStoreCache) LoadTipAccounts(ctx context.Context) (map[solana.PublicKey]struct{}, error) {
	log := c.logOrDefault()

	if raw, err := c.Client.Get(ctx, c.Key).Bytes(); err == nil {
		accounts, decodeErr := decodeTipAccounts(raw)
		if decodeErr == nil {
			log.WithField("tip_accounts", len(accounts)).Debug("tip account cache hit")
			return accounts, nil
		}
		log.WithError(decodeErr).Warn("discarding corrupt tip account cache entry")
	} else if err != redis.Nil {
		log.WithError(err).Warn("tip account cache read failed, falling back to source")
	}

	accounts, err := c.Next.LoadTipAccounts(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := encodeTipAccounts(accounts)
	if err == nil {
		if err := c.Client.Set(ctx, c.Key, raw, c.TTL).Err(); err != nil {
			log.WithError(err).Warn("failed to populate tip account cache")
		}
	}
	return accounts, nil
}

func (c *TipAccountStoreCache) logOrDefault() *logrus.Logger {
	if c.Log != nil {
		return c.Log
	}
	return logrus.StandardLogger()
}

func encodeTipAccounts(accounts map[solana.PublicKey]struct{}) ([]byte, error) {
	out := make([]string, 0, len(accounts))
	for pk := range accounts {
		out = append(out, pk.String())
	}
	return json.Marshal(out)
}

func decodeTipAccounts(raw []byte) (map[solana.PublicKey]struct{}, error) {
	var addresses []string
	if err := json.Unmarshal(raw, &addresses); err != nil {
		return nil, fmt.Errorf("rediscache: decode tip accounts: %w", err)
	}
	out := make(map[solana.PublicKey]struct{}, len(addresses))
	for _, addr := range addresses {
		pk, err := solana.PublicKeyFromBase58(addr)
		if err != nil {
			return nil, fmt.Errorf("rediscache: tip account %q: %w", addr, err)
		}
		out[pk] = struct{}{}
	}
	return out, nil
}
