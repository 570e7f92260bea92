package rpcblocks

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// jitoTipPaymentProgram is the Jito tip-payment program whose accounts hold
// the known tip-recipient set, restored from original_source/processor.py's
// main().
var jitoTipPaymentProgram = solana.MustPublicKeyFromBase58("T1pyyaTNZsKv2WcRAB8oVnk93mLJw2XzjtVYqCsaHqt")

func zeroUint64() *uint64 {
	var z uint64
	return &z
}

// TipAccountStore discovers the Jito tip-recipient account set via a
// getProgramAccounts call filtered on the tip-payment program's account
// discriminator, mirroring the original detector's MemcmpOpts(0,
// "aeEqPScSxUP") filter.
type TipAccountStore struct {
	Client *rpc.Client
}

// NewTipAccountStore builds a TipAccountStore over an existing RPC client.
func NewTipAccountStore(client *rpc.Client) *TipAccountStore {
	return &TipAccountStore{Client: client}
}

// LoadTipAccounts implements pipeline.TipAccountStore.
func (s *TipAccountStore) LoadTipAccounts(ctx context.Context) (map[solana.PublicKey]struct{}, error) {
	out, err := s.Client.GetProgramAccountsWithOpts(ctx, jitoTipPaymentProgram, &rpc.GetProgramAccountsOpts{
		DataSlice: &rpc.DataSlice{
			Offset: zeroUint64(),
			Length: zeroUint64(),
		},
		Filters: []rpc.RPCFilter{
			{
				Memcmp: &rpc.RPCFilterMemcmp{
					Offset: 0,
					Bytes:  solana.Base58("aeEqPScSxUP"),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("rpcblocks: load tip accounts: %w", err)
	}

	accounts := make(map[solana.PublicKey]struct{}, len(out))
	for _, acc := range out {
		accounts[acc.Pubkey] = struct{}{}
	}
	return accounts, nil
}
