// Package pipeline is the block-level driver: it runs the Swap Extractor,
// Sandwich Matcher, Direction Resolver and Fee Attribution over one block,
// and loops over blocks fetched from an external source, handing confirmed
// sandwiches to an external sink. The contracts below are the only things
// the core needs from its surrounding system (spec §6); every concrete
// implementation lives outside this package, under internal/adapters
// (Observer's, under internal/metrics).
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/solana-mev/sandwich-detect/internal/ixmodel"
	"github.com/solana-mev/sandwich-detect/internal/registry"
)

// ErrDuplicateSandwich is returned by a Sink when a sandwich with the same
// ID has already been stored. The driver treats this as non-fatal.
var ErrDuplicateSandwich = errors.New("pipeline: duplicate sandwich id")

// ErrNegativeProfit marks a resolved sandwich whose exit leg didn't net
// more profit-token than the entry leg. Zero-or-negative profit is not
// evidence of a sandwich in this detector; the driver skips storage and
// continues the block.
var ErrNegativeProfit = errors.New("pipeline: exit profit does not exceed entry profit")

// BlockSource fetches one block by slot number.
type BlockSource interface {
	FetchBlock(ctx context.Context, slot uint64) (*ixmodel.Block, error)
}

// PoolStore loads the static pool registry for a scan.
type PoolStore interface {
	LoadPools(ctx context.Context) (registry.PoolRegistry, error)
}

// TipAccountStore loads the set of known tip-recipient accounts.
type TipAccountStore interface {
	LoadTipAccounts(ctx context.Context) (map[solana.PublicKey]struct{}, error)
}

// Sink persists a confirmed Sandwich. Implementations reject duplicates by
// primary key (Sandwich.ID) with ErrDuplicateSandwich.
type Sink interface {
	StoreSandwich(ctx context.Context, s ixmodel.Sandwich) error
}

// Checkpoint reports the highest block number already stored, so a driver
// can resume scanning from latest+1. Returns 0 if nothing has been stored.
type Checkpoint interface {
	LatestStoredBlock(ctx context.Context) (uint64, error)
}

// Observer receives scan telemetry. Satisfied by internal/metrics.Collector;
// kept as a narrow interface here so the driver doesn't depend on any
// particular metrics backend.
type Observer interface {
	BlockScanned()
	SandwichDetected()
	ExtractionError()
	ScanDuration(d time.Duration)
}
