// Package kafkafeed decorates a pipeline.Sink, publishing every confirmed
// sandwich onto a Kafka topic after it has been durably stored, so
// downstream consumers (alerting, analytics) can subscribe without
// polling PostgreSQL.
package kafkafeed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/solana-mev/sandwich-detect/internal/ixmodel"
	"github.com/solana-mev/sandwich-detect/internal/pipeline"
)

// wireTargetTx is the JSON shape of one victim leg on the wire.
type wireTargetTx struct {
	Signature           string `json:"signature"`
	Signer               string `json:"signer"`
	ProfitTokenAmount    uint64 `json:"profit_token_amount"`
	TargetedTokenAmount  uint64 `json:"targeted_token_amount"`
}

type wireAttackerTx struct {
	Signature          string `json:"signature"`
	ProfitTokenAmount   uint64 `json:"profit_token_amount"`
	TargetedTokenAmount uint64 `json:"targeted_token_amount"`
	JitoTip             uint64 `json:"jito_tip"`
	PriorityFee         uint64 `json:"priority_fee"`
}

// wireSandwich is the JSON shape published to Kafka: plain strings for every
// public key and signature, so consumers outside Go don't need base58 or
// solana-go to read the feed.
type wireSandwich struct {
	ID            string          `json:"id"`
	Block         uint64          `json:"block"`
	BlockTime     int64           `json:"block_time"`
	Dex           string          `json:"dex"`
	Pool          string          `json:"pool"`
	Bot           string          `json:"bot"`
	Attacker      string          `json:"attacker"`
	ProfitToken   string          `json:"profit_token"`
	TargetedToken string          `json:"targeted_token"`
	EntryTx       wireAttackerTx  `json:"entry_tx"`
	ExitTx        wireAttackerTx  `json:"exit_tx"`
	TargetTxs     []wireTargetTx  `json:"target_txs"`
}

func toWire(s ixmodel.Sandwich) wireSandwich {
	targets := make([]wireTargetTx, 0, len(s.TargetTxs))
	for _, t := range s.TargetTxs {
		targets = append(targets, wireTargetTx{
			Signature:           t.Signature.String(),
			Signer:              t.Signer.String(),
			ProfitTokenAmount:   t.ProfitTokenAmount,
			TargetedTokenAmount: t.TargetedTokenAmount,
		})
	}
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
		EntryTx: wireAttackerTx{
			Signature:           s.EntryTx.Signature.String(),
			ProfitTokenAmount:   s.EntryTx.ProfitTokenAmount,
			TargetedTokenAmount: s.EntryTx.TargetedTokenAmount,
			JitoTip:             s.EntryTx.JitoTip,
			PriorityFee:         s.EntryTx.PriorityFee,
		},
		ExitTx: wireAttackerTx{
			Signature:           s.ExitTx.Signature.String(),
			ProfitTokenAmount:   s.ExitTx.ProfitTokenAmount,
			TargetedTokenAmount: s.ExitTx.TargetedTokenAmount,
			JitoTip:             s.ExitTx.JitoTip,
			PriorityFee:         s.ExitTx.PriorityFee,
		},
		TargetTxs: targets,
	}
}

// Sink wraps a pipeline.Sink, publishing to Topic once Next has accepted the
// sandwich. A publish failure is logged but never undoes the store or turns
// into an error the driver retries on — Kafka is a notification fan-out,
// not the system of record.
type Sink struct {
	Next   pipeline.Sink
	Writer *kafka.Writer
	Log    *logrus.Logger
}

// NewWriter builds a kafka.Writer addressed at brokers, publishing to topic.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 100 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
	}
}

// StoreSandwich implements pipeline.Sink.
func (s *Sink) StoreSandwich(ctx context.Context, sw ixmodel.Sandwich) error {
	if err := s.Next.StoreSandwich(ctx, sw); err != nil {
		return err
	}

	log := s.logOrDefault()
	payload, err := json.Marshal(toWire(sw))
	if err != nil {
		log.WithError(err).Error("failed to marshal sandwich for kafka publish")
		return nil
	}

	msg := kafka.Message{Key: []byte(sw.ID.String()), Value: payload, Time: time.Now()}
	if err := s.Writer.WriteMessages(ctx, msg); err != nil {
		log.WithError(err).WithField("sandwich_id", sw.ID.String()).
			Error("failed to publish sandwich to kafka")
	}
	return nil
}

func (s *Sink) logOrDefault() *logrus.Logger {
	if s.Log != nil {
		return s.Log
	}
	return logrus.StandardLogger()
}

// Close releases the underlying writer.
func (s *Sink) Close() error {
	if s.Writer == nil {
		return nil
	}
	if err := s.Writer.Close(); err != nil {
		return fmt.Errorf("kafkafeed: close: %w", err)
	}
	return nil
}
