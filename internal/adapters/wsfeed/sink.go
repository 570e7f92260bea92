package wsfeed

import (
	"context"

	"github.com/solana-mev/sandwich-detect/internal/ixmodel"
	"github.com/solana-mev/sandwich-detect/internal/pipeline"
)

// wireSandwich is a compact summary of a sandwich, smaller than kafkafeed's
// wire shape (profit amounts and a victim count instead of full legs). Like
// kafkafeed, it uses plain strings for every public key and signature so
// browser clients never need base58 decoding beyond what they already do
// for any other Solana address.
type wireSandwich struct {
	ID            string  `json:"id"`
	Block         uint64  `json:"block"`
	BlockTime     int64   `json:"block_time"`
	Dex           string  `json:"dex"`
	Pool          string  `json:"pool"`
	Bot           string  `json:"bot"`
	Attacker      string  `json:"attacker"`
	ProfitToken   string  `json:"profit_token"`
	TargetedToken string  `json:"targeted_token"`
	EntryProfit   uint64  `json:"entry_profit_amount"`
	ExitProfit    uint64  `json:"exit_profit_amount"`
	VictimCount   int     `json:"victim_count"`
}

func toWire(s ixmodel.Sandwich) wireSandwich {
	return wireSandwich{
		ID:            s.ID.String(),
		Block:         s.Block,
		BlockTime:     s.BlockTime,
		Dex:           s.Dex.String(),
		Pool:          s.Pool.String(),
		Bot:           s.Bot.String(),
		Attacker:      s.Attacker.String(),
		ProfitToken:   s.ProfitToken.String(),
		TargetedToken: s.TargetedToken.String(),
		EntryProfit:   s.EntryTx.ProfitTokenAmount,
		ExitProfit:    s.ExitTx.ProfitTokenAmount,
		VictimCount:   len(s.TargetTxs),
	}
}

// Sink wraps a pipeline.Sink, broadcasting a compact summary of every
// confirmed sandwich to the hub once it has been durably stored.
type Sink struct {
	Next pipeline.Sink
	Hub  *Hub
}

// StoreSandwich implements pipeline.Sink.
func (s *Sink) StoreSandwich(ctx context.Context, sw ixmodel.Sandwich) error {
	if err := s.Next.StoreSandwich(ctx, sw); err != nil {
		return err
	}
	if data := marshalOrNil(toWire(sw)); data != nil {
		s.Hub.Broadcast(data)
	}
	return nil
}
