// Package registry holds the two read-only, process-wide registries the
// direction resolver consults: the compiled-in exchange registry and the
// pool registry loaded once per scan.
package registry

import "github.com/gagliardetto/solana-go"

// ExchangeRegistry maps a DEX program id to where its pool account sits in
// a swap instruction's account list. Static for the lifetime of the
// process.
type ExchangeRegistry interface {
	Lookup(programID solana.PublicKey) (PoolIndexInfo, bool)
}

// PoolIndexInfo is one exchange registry entry.
type PoolIndexInfo struct {
	PoolAccountIndex int
	IsValidSwapData  func(data []byte) bool
}

// PoolRegistry maps a pool address to its registration. Static for the
// duration of a scan; loaded once via an external PoolStore (see
// internal/pipeline).
type PoolRegistry interface {
	Lookup(poolID solana.PublicKey) (PoolInfo, bool)
}

// PoolInfo mirrors ixmodel.PoolInfo; kept as a distinct type so registry has
// no dependency on ixmodel, avoiding an import cycle with packages that
// build registries from fetched data.
type PoolInfo struct {
	PoolID      solana.PublicKey
	TokenA      solana.PublicKey
	TokenB      solana.PublicKey
	TokenAVault solana.PublicKey
	TokenBVault solana.PublicKey
}

// StaticPoolRegistry is a read-only, in-memory PoolRegistry snapshot, the
// shape load_pools() (spec §6) returns.
type StaticPoolRegistry map[solana.PublicKey]PoolInfo

func (r StaticPoolRegistry) Lookup(poolID solana.PublicKey) (PoolInfo, bool) {
	info, ok := r[poolID]
	return info, ok
}

// staticExchangeRegistry is a read-only, in-memory ExchangeRegistry.
type staticExchangeRegistry map[solana.PublicKey]PoolIndexInfo

func (r staticExchangeRegistry) Lookup(programID solana.PublicKey) (PoolIndexInfo, bool) {
	info, ok := r[programID]
	return info, ok
}

func alwaysValid(_ []byte) bool { return true }

// Known DEX program addresses, restored from the original detector's
// Exchanges table (original_source/tx_types.py). The validator is "always
// true" for every entry, per spec §3: it exists so new DEXes with
// identifier-prefixed data can be added without a type change.
var (
	OrcaWhirlpool  = solana.MustPublicKeyFromBase58("whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc")
	RaydiumCLMM    = solana.MustPublicKeyFromBase58("CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK")
	RaydiumLPv4    = solana.MustPublicKeyFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")
	MeteoraPools   = solana.MustPublicKeyFromBase58("Eo7WjKq67rjJQSZxS6z3YkapzY3eMj6Xy8X5EQVn5UaB")
	MeteoraDLMM    = solana.MustPublicKeyFromBase58("LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo")
	LifinityV2     = solana.MustPublicKeyFromBase58("2wT8Yq49kHgDzXuPxZSaeLaH1qbmGXtEyPy64bL7aD3c")
	RaydiumCPMM    = solana.MustPublicKeyFromBase58("CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C")
	SolFi          = solana.MustPublicKeyFromBase58("SoLFiHG9TfgtdUXUjWAxi3LtvYuFyDLVhBWxdMZxyCe")
	Cropper        = solana.MustPublicKeyFromBase58("H8W3ctz92svYg6mkn1UtGfu2aQr2fnUFHM1RhScEtQDt")
	Obric          = solana.MustPublicKeyFromBase58("obriQD1zbpyLz95G5n7nJe6a4DPjpFwa5XYPoNm113y")
	Stabble        = solana.MustPublicKeyFromBase58("swapNyd8XiQwJ6ianp9snpu4brUqFxadzvHebnAXjJZ")
	ZeroFi         = solana.MustPublicKeyFromBase58("ZERor4xhbUycZ6gb9ntrhqscUcZmAbQDjEAtCf4hbZY")
	OpenBookV2     = solana.MustPublicKeyFromBase58("opnb2LAfJYbRMAHHvqjCwQxanZn7ReEHp1k81EohpZb")
	PumpSwap       = solana.MustPublicKeyFromBase58("pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA")
)

// ExchangeNames maps a known DEX program address to its human-readable
// name. Stabble has no entry. The pipeline does not read this map:
// Sandwich.Dex and the log lines carry the program address itself.
var ExchangeNames = map[solana.PublicKey]string{
	OrcaWhirlpool: "orca_whirlpool",
	RaydiumCLMM:   "raydium_clmm",
	RaydiumLPv4:   "raydium_lpv4",
	RaydiumCPMM:   "raydium_cpmm",
	SolFi:         "solfi",
	Cropper:       "cropper",
	Obric:         "obric",
	ZeroFi:        "zerofi",
	OpenBookV2:    "openbook_v2",
	MeteoraDLMM:   "meteora_dlmm",
	MeteoraPools:  "meteora_pp",
	LifinityV2:    "lifinity_v2",
	PumpSwap:      "pump_swap",
}

// NewStaticExchangeRegistry builds the default, compiled-in ExchangeRegistry.
func NewStaticExchangeRegistry() ExchangeRegistry {
	return staticExchangeRegistry{
		OrcaWhirlpool: {PoolAccountIndex: 2, IsValidSwapData: alwaysValid},
		RaydiumCLMM:   {PoolAccountIndex: 2, IsValidSwapData: alwaysValid},
		RaydiumLPv4:   {PoolAccountIndex: 1, IsValidSwapData: alwaysValid},
		MeteoraPools:  {PoolAccountIndex: 0, IsValidSwapData: alwaysValid},
		MeteoraDLMM:   {PoolAccountIndex: 0, IsValidSwapData: alwaysValid},
		LifinityV2:    {PoolAccountIndex: 1, IsValidSwapData: alwaysValid},
		SolFi:         {PoolAccountIndex: 1, IsValidSwapData: alwaysValid},
		Cropper:       {PoolAccountIndex: 2, IsValidSwapData: alwaysValid},
		Obric:         {PoolAccountIndex: 0, IsValidSwapData: alwaysValid},
		OpenBookV2:    {PoolAccountIndex: 2, IsValidSwapData: alwaysValid},
		ZeroFi:        {PoolAccountIndex: 0, IsValidSwapData: alwaysValid},
		PumpSwap:      {PoolAccountIndex: 0, IsValidSwapData: alwaysValid},
	}
}
