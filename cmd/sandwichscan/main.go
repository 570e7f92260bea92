// Command sandwichscan runs the block-level sandwich-attack scanner against
// a Solana RPC endpoint, storing confirmed sandwiches in PostgreSQL and
// optionally fanning them out over Kafka and a websocket broadcast hub.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	goredis "github.com/redis/go-redis/v9"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/solana-mev/sandwich-detect/internal/adapters/kafkafeed"
	"github.com/solana-mev/sandwich-detect/internal/adapters/pgstore"
	"github.com/solana-mev/sandwich-detect/internal/adapters/rediscache"
	"github.com/solana-mev/sandwich-detect/internal/adapters/rpcblocks"
	"github.com/solana-mev/sandwich-detect/internal/adapters/wsfeed"
	"github.com/solana-mev/sandwich-detect/internal/config"
	"github.com/solana-mev/sandwich-detect/internal/metrics"
	"github.com/solana-mev/sandwich-detect/internal/pipeline"
	"github.com/solana-mev/sandwich-detect/internal/registry"
)

var cfgFile string

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	root := &cobra.Command{
		Use:   "sandwichscan",
		Short: "Detect Solana sandwich attacks block by block",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), log)
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a sandwichscan.yaml config file")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the PostgreSQL schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), log)
		},
	}
	root.AddCommand(migrateCmd)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := root.ExecuteContext(ctx); err != nil {
		log.WithError(err).Fatal("sandwichscan exited with error")
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

func runMigrate(ctx context.Context, log *logrus.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := pgstore.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	log.Info("schema migrated")
	return nil
}

func run(ctx context.Context, log *logrus.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := pgstore.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	rpcClient := rpc.New(cfg.RPC.URL)
	blocks := rpcblocks.NewBlockStore(cfg.RPC.URL)
	tipAccounts := pipeline.TipAccountStore(rpcblocks.NewTipAccountStore(rpcClient))
	pools := pipeline.PoolStore(store)

	if cfg.Redis.Addr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		pools = &rediscache.PoolStoreCache{Next: pools, Client: rdb, Key: "sandwichscan:pools", TTL: cfg.Redis.TTL, Log: log}
		tipAccounts = &rediscache.TipAccountStoreCache{Next: tipAccounts, Client: rdb, Key: "sandwichscan:tip_accounts", TTL: cfg.Redis.TTL, Log: log}
	}

	var sink pipeline.Sink = store
	if len(cfg.Kafka.Brokers) > 0 {
		writer := kafkafeed.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer writer.Close()
		sink = &kafkafeed.Sink{Next: sink, Writer: writer, Log: log}
	}

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	var hubCancel context.CancelFunc
	if cfg.WS.Enabled {
		hub := wsfeed.NewHub(log)
		hubCtx, cancel := context.WithCancel(ctx)
		hubCancel = cancel
		go hub.Run(hubCtx)
		mux.Handle("/ws", hub)
		sink = &wsfeed.Sink{Next: sink, Hub: hub}
	}

	server := &http.Server{Addr: cfg.Server.Addr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("http server stopped")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
		if hubCancel != nil {
			hubCancel()
		}
	}()

	driver := &pipeline.Driver{
		Blocks:      blocks,
		Pools:       pools,
		TipAccounts: tipAccounts,
		Exchanges:   registry.NewStaticExchangeRegistry(),
		Sink:        sink,
		Checkpoint:  store,
		Log:         log,
		Metrics:     collector,
		Config: pipeline.RunConfig{
			BatchSize:     cfg.Scan.BatchSize,
			PerBlockDelay: cfg.Scan.PerBlockDelay,
			InitialBlock:  cfg.Scan.InitialBlock,
		},
	}

	return driver.Run(ctx)
}
