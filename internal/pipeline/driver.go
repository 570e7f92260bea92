package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/solana-mev/sandwich-detect/internal/registry"
)

// RunConfig tunes the block-level driver loop. Defaults restore the
// original detector's behavior (original_source/processor.py's main()):
// fetch 100 blocks at a time and sleep 250ms between them to stay under
// RPC rate limits.
type RunConfig struct {
	BatchSize     int
	PerBlockDelay time.Duration
	// InitialBlock stands in for the latest stored block when the
	// checkpoint store reports no prior progress, so scanning then starts
	// at InitialBlock+1. The original detector hardcoded
	// 336_902_528, a Solana mainnet slot meaningful only to its own
	// deployment history; a fresh deployment of this detector has no
	// such history; see DESIGN.md's Open Question decision.
	InitialBlock uint64
}

// DefaultRunConfig returns the restored original defaults.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		BatchSize:     100,
		PerBlockDelay: 250 * time.Millisecond,
		InitialBlock:  0,
	}
}

// Driver wires the pipeline's external contracts together and runs the
// block-level scan loop.
type Driver struct {
	Blocks      BlockSource
	Pools       PoolStore
	TipAccounts TipAccountStore
	Exchanges   registry.ExchangeRegistry
	Sink        Sink
	Checkpoint  Checkpoint
	Log         *logrus.Logger
	Metrics     Observer
	Config      RunConfig
}

// Run loads the two static registries once, then scans blocks starting
// from the checkpoint's latest+1 until ctx is canceled. A block fetch or
// store failure propagates to the caller for retry (spec §7:
// BlockFetchError / StoreError "Fail block; upper layer retries"); a
// canceled context makes Run return ctx.Err() with no partial sandwich ever
// written, since writes only happen after a sandwich's full resolution
// succeeds.
func (d *Driver) Run(ctx context.Context) error {
	if d.Log == nil {
		d.Log = logrus.New()
	}
	runID := uuid.New()
	log := d.Log.WithField("run_id", runID)

	pools, err := d.Pools.LoadPools(ctx)
	if err != nil {
		return fmt.Errorf("pipeline: load pools: %w", err)
	}
	tipAccounts, err := d.TipAccounts.LoadTipAccounts(ctx)
	if err != nil {
		return fmt.Errorf("pipeline: load tip accounts: %w", err)
	}

	// TODO: Block 336454917: embedded sandwiches?
	latest, err := d.Checkpoint.LatestStoredBlock(ctx)
	if err != nil {
		return fmt.Errorf("pipeline: checkpoint: %w", err)
	}
	if latest == 0 {
		latest = d.Config.InitialBlock
	}
	next := latest + 1

	batchSize := d.Config.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultRunConfig().BatchSize
	}

	log.WithFields(logrus.Fields{"tip_accounts": len(tipAccounts), "start_block": next}).
		Info("sandwich scan starting")

	for {
		end := next + uint64(batchSize) - 1
		for slot := next; slot <= end; slot++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if err := d.scanAndStore(ctx, slot, pools, tipAccounts, log); err != nil {
				return err
			}

			if d.Config.PerBlockDelay > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(d.Config.PerBlockDelay):
				}
			}
		}
		next = end + 1
	}
}

func (d *Driver) scanAndStore(ctx context.Context, slot uint64, pools registry.PoolRegistry, tipAccounts map[solana.PublicKey]struct{}, log *logrus.Entry) error {
	started := time.Now()
	block, err := d.Blocks.FetchBlock(ctx, slot)
	if err != nil {
		return fmt.Errorf("pipeline: fetch block %d: %w", slot, err)
	}

	sandwiches := ScanBlock(block, d.Exchanges, pools, tipAccounts, d.Log, d.Metrics)
	for _, s := range sandwiches {
		if err := d.Sink.StoreSandwich(ctx, s); err != nil {
			if errors.Is(err, ErrDuplicateSandwich) {
				log.WithField("sandwich_id", s.ID).Info("duplicate sandwich id, skipping")
				continue
			}
			return fmt.Errorf("pipeline: store sandwich %s: %w", s.ID, err)
		}
		if d.Metrics != nil {
			d.Metrics.SandwichDetected()
		}
		log.WithFields(logrus.Fields{"block": slot, "pool": s.Pool, "dex": s.Dex, "attacker": s.Attacker}).
			Info("sandwich stored")
	}

	if d.Metrics != nil {
		d.Metrics.BlockScanned()
		d.Metrics.ScanDuration(time.Since(started))
	}
	log.WithField("block", slot).Debug("block scanned")
	return nil
}
