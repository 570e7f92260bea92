// Package config loads sandwichscan's runtime configuration from a YAML
// file and environment variables, via viper, the way the teacher's own
// services (cfg file + SANDWICHSCAN_* env overrides) are configured. The
// file's path can be given with cmd/sandwichscan's --config flag.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is sandwichscan's complete runtime configuration.
type Config struct {
	RPC      RPCConfig      `mapstructure:"rpc"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	WS       WSConfig       `mapstructure:"ws"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Server   ServerConfig   `mapstructure:"server"`
}

// RPCConfig configures the Solana JSON-RPC endpoint used to fetch blocks
// and discover Jito tip accounts.
type RPCConfig struct {
	URL string `mapstructure:"url"`
}

// PostgresConfig configures the pools/sandwiches/target_txs store.
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig configures the optional pool/tip-account cache. Addr empty
// disables the cache layer.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// KafkaConfig configures the optional sandwich-feed publisher. Brokers
// empty disables the Kafka sink.
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// WSConfig configures the optional websocket broadcast hub.
type WSConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ScanConfig tunes the block-level driver loop.
type ScanConfig struct {
	BatchSize     int           `mapstructure:"batch_size"`
	PerBlockDelay time.Duration `mapstructure:"per_block_delay"`
	InitialBlock  uint64        `mapstructure:"initial_block"`
}

// ServerConfig configures the process's own HTTP surface (healthz, metrics,
// websocket upgrade). Not the excluded statistics front-end.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads configuration from cfgFile if it is non-empty, otherwise from
// sandwichscan.yaml found in ".", $HOME/.sandwichscan or /etc/sandwichscan.
// Environment variables prefixed SANDWICHSCAN_ override the file, and
// setDefaults supplies every value neither of them sets.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("sandwichscan")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("sandwichscan")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.sandwichscan")
		v.AddConfigPath("/etc/sandwichscan")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("rpc.url", "https://api.mainnet-beta.solana.com")
	v.SetDefault("postgres.dsn", "postgres://localhost:5432/sandwich_detect?sslmode=disable")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "sandwiches")
	v.SetDefault("ws.enabled", false)
	v.SetDefault("scan.batch_size", 100)
	v.SetDefault("scan.per_block_delay", 250*time.Millisecond)
	v.SetDefault("scan.initial_block", 0)
	v.SetDefault("server.addr", ":8080")
}
