package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/metrics"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/bitcoin"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/pools"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/repository/clickhouse"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/service/ingester"
	"github.com/goodnatureofminers/blockstats7000-backend/pkg/heightclaim"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type config struct {
	ClickhouseDSN        string        `long:"clickhouse-dsn" env:"STATS_INGESTER_CLICKHOUSE_DSN" description:"ClickHouse DSN"`
	Network              model.Network `long:"network" env:"STATS_INGESTER_NETWORK" description:"network name" required:"true"`
	RPCURL               string        `long:"rpc-url" env:"STATS_INGESTER_RPC_URL" description:"Bitcoin RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser              string        `long:"rpc-user" env:"STATS_INGESTER_RPC_USER" description:"Bitcoin RPC username"`
	RPCPassword          string        `long:"rpc-password" env:"STATS_INGESTER_RPC_PASSWORD" description:"Bitcoin RPC password"`
	RPCRateLimit         int           `long:"rpc-rate-limit" env:"STATS_INGESTER_RPC_RATE_LIMIT" description:"max node RPC requests per second" default:"32"`
	ZMQAddr              string        `long:"zmq-addr" env:"STATS_INGESTER_ZMQ_ADDR" description:"node zmq hashblock endpoint"`
	PoolsPath            string        `long:"pools-path" env:"STATS_INGESTER_POOLS_PATH" description:"pool dictionary JSON file" default:"configs/pools.json"`
	PoolsRefreshSchedule string        `long:"pools-refresh-schedule" env:"STATS_INGESTER_POOLS_REFRESH_SCHEDULE" description:"cron schedule for dictionary reloads" default:"0 0 * * * *"`
	ReorgMaxDepth        uint64        `long:"reorg-max-depth" env:"STATS_INGESTER_REORG_MAX_DEPTH" description:"deepest rollback before refusing to run, 0 for default"`
	ResyncWorkers        int           `long:"resync-workers" env:"STATS_INGESTER_RESYNC_WORKERS" description:"resync recompute workers, 0 for default"`
	MetricsAddr          string        `long:"metrics-addr" env:"STATS_INGESTER_METRICS_ADDR" description:"address for metrics server" default:":2112"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if cfg.ClickhouseDSN == "" {
		logger.Fatal("ClickHouse DSN is required")
	}
	if cfg.RPCRateLimit <= 0 {
		logger.Fatal("RPC rate limit must be positive")
	}

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("stats ingester failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, cfg.Network, logger, metrics.NewClickhouseRepository())
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	rpcClient, err := newRPCClient(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
	if err != nil {
		return fmt.Errorf("init rpc client: %w", err)
	}
	defer func() {
		rpcClient.Shutdown()
		rpcClient.WaitForShutdown()
	}()
	chain := bitcoin.NewChainSource(bitcoin.NewRPCClient(rpcClient, metrics.NewRPCClient(cfg.Network), cfg.RPCRateLimit))

	dict, err := pools.NewDictionary(metrics.NewPoolDictionary(cfg.Network), cfg.Network, cfg.PoolsPath)
	if err != nil {
		return fmt.Errorf("init pool dictionary: %w", err)
	}
	refresher, err := pools.NewRefresher(logger, dict, cfg.PoolsRefreshSchedule)
	if err != nil {
		return fmt.Errorf("init pool refresher: %w", err)
	}
	refresher.Start()
	defer refresher.Stop()

	blockSignal, err := startBlockSignal(ctx, cfg.ZMQAddr, logger)
	if err != nil {
		return fmt.Errorf("init block signal: %w", err)
	}

	claims := heightclaim.NewRegistry()
	follower, err := ingester.NewFollowerService(
		repo,
		chain,
		dict,
		claims,
		metrics.NewFollower(cfg.Network),
		cfg.Network,
		logger,
		blockSignal,
		cfg.ReorgMaxDepth,
	)
	if err != nil {
		return err
	}
	resync, err := ingester.NewResyncService(
		repo,
		chain,
		dict,
		claims,
		follower,
		metrics.NewResync(cfg.Network),
		cfg.Network,
		logger,
		cfg.ResyncWorkers,
	)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return follower.Run(gctx)
	})
	g.Go(func() error {
		return resync.Run(gctx)
	})
	return g.Wait()
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}

func newRPCClient(rawURL, user, password string) (*rpcclient.Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	cfg := &rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}

	return rpcclient.New(cfg, nil)
}
