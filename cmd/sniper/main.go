package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"solanaSniper/internal/chain"
	"solanaSniper/internal/config"
	"solanaSniper/internal/decoder"
	"solanaSniper/internal/dispatch"
	"solanaSniper/internal/ingest"
	"solanaSniper/internal/metrics"
	"solanaSniper/internal/model"
	"solanaSniper/internal/pipeline"
	"solanaSniper/internal/storage"
	"solanaSniper/internal/storage/postgres"
	"solanaSniper/internal/tracker"
)

func main() {
	root := &cobra.Command{
		Use:          "sniper",
		Short:        "Solana PubSub listener with transaction enrichment",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			// .env is optional
			_ = godotenv.Load()
		},
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Subscribe, decode and enrich live notifications",
		RunE:  runPipeline,
	}

	runCmd.Flags().String("ws-url", "", "Solana PubSub websocket URL")
	runCmd.Flags().String("rpc-url", "", "Solana JSON-RPC HTTP URL")
	runCmd.Flags().Int("queue-capacity", 5000, "event queue capacity")
	runCmd.Flags().StringSlice("program", nil, "program addresses to subscribe to (comma-separated)")
	runCmd.Flags().StringSlice("account", nil, "account addresses to subscribe to (comma-separated)")
	runCmd.Flags().StringSlice("logs-mention", nil, "addresses for the logs mentions filter (comma-separated)")
	runCmd.Flags().String("commitment", "finalized", "subscription commitment")
	runCmd.Flags().Duration("handshake-timeout", 10*time.Second, "websocket handshake timeout")
	runCmd.Flags().Duration("rpc-timeout", 30*time.Second, "getTransaction timeout")
	runCmd.Flags().String("out", "./data/transactions.jsonl", "transactions JSONL path")
	runCmd.Flags().String("accounts-out", "./data/accounts.jsonl", "account updates JSONL path, empty to disable")
	runCmd.Flags().String("pg-dsn", "", "Postgres DSN, empty to disable")
	runCmd.Flags().String("redis-addr", "", "Redis address for pub/sub, empty to disable")
	runCmd.Flags().String("redis-channel-prefix", "sniper", "Redis channel prefix")
	runCmd.Flags().Int("max-retries", 3, "maximum storage retry attempts")
	runCmd.Flags().Duration("retry-backoff", 200*time.Millisecond, "initial storage retry backoff")
	runCmd.Flags().String("metrics-addr", "", "metrics listen address, empty to disable")
	runCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(runCmd)

	decodeCmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode raw notification frames into typed events",
		RunE:  runDecode,
	}

	decodeCmd.Flags().String("in", "", "input raw frames, one per line")
	decodeCmd.Flags().String("out", "./data/events.jsonl", "output typed events JSONL")
	decodeCmd.Flags().String("errors", "./data/decode_errors.jsonl", "decode errors JSONL")
	decodeCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(decodeCmd)

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch transactions by signature",
		RunE:  runFetch,
	}

	fetchCmd.Flags().String("rpc-url", "", "Solana JSON-RPC HTTP URL")
	fetchCmd.Flags().StringSlice("signature", nil, "transaction signatures (comma-separated)")
	fetchCmd.Flags().Duration("rpc-timeout", 30*time.Second, "getTransaction timeout")
	fetchCmd.Flags().String("out", "", "output JSONL path, stdout when empty")
	fetchCmd.Flags().String("pg-dsn", "", "Postgres DSN, empty to disable")
	fetchCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(fetchCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.WSURL == "" {
		return fmt.Errorf("ws url is required")
	}
	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}

	targets, err := resolveTargets(cfg)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("at least one subscription target is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(cfg.RPCURL, cfg.RPCTimeout)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	sinks := storage.Multi{
		storage.WithRetry(storage.NewJsonlStorage(cfg.Out, cfg.AccountsOut), "jsonl", cfg.MaxRetries, cfg.RetryBackoff, logger),
	}

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		sinks = append(sinks, storage.WithRetry(store, "postgres", cfg.MaxRetries, cfg.RetryBackoff, logger))
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		publisher := storage.NewRedisPublisher(client, cfg.RedisChannelPrefix)
		sinks = append(sinks, storage.WithRetry(publisher, "redis", cfg.MaxRetries, cfg.RetryBackoff, logger))
	}

	tr := tracker.New(sinks, 0, logger)
	dispatcher := dispatch.New(chainClient, tr, logger)
	subscriber := ingest.NewSubscriber(ingest.SubscriberConfig{
		Endpoint:         cfg.WSURL,
		Targets:          targets,
		Commitment:       cfg.Commitment,
		HandshakeTimeout: cfg.HandshakeTimeout,
	}, logger)
	consumer := ingest.NewConsumer(decoder.New(), logger)

	if cfg.MetricsAddr != "" {
		server := metrics.NewServer(cfg.MetricsAddr, func(ctx context.Context) (interface{}, error) {
			return tr.Stats(ctx)
		}, logger)
		go func() {
			if err := server.Start(); err != nil {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Stop(shutdownCtx)
		}()
	}

	runner := pipeline.NewRunner(pipeline.RunConfig{
		QueueCapacity: cfg.QueueCapacity,
	}, subscriber, consumer, dispatcher, tr, logger)

	logger.Info("sniper start",
		zap.String("ws", ingest.RedactEndpoint(cfg.WSURL)),
		zap.String("rpc", ingest.RedactEndpoint(cfg.RPCURL)),
		zap.Int("targets", len(targets)),
		zap.String("commitment", cfg.Commitment),
		zap.Int("queue_capacity", cfg.QueueCapacity),
		zap.String("out", cfg.Out),
		zap.String("accounts_out", cfg.AccountsOut),
		zap.String("pg", redactDSN(cfg.PGDSN)),
		zap.String("redis", cfg.RedisAddr),
	)

	err = runner.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("sniper stopped")
		return nil
	}
	return err
}

func resolveTargets(cfg config.Config) ([]model.Target, error) {
	if len(cfg.Subscriptions) > 0 {
		return ingest.ValidateTargets(cfg.Subscriptions)
	}
	return ingest.BuildTargets(cfg.Programs, cfg.Accounts, cfg.LogsMentions)
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	parsed, err := url.Parse(dsn)
	if err != nil || parsed.User == nil {
		return dsn
	}
	if _, ok := parsed.User.Password(); ok {
		parsed.User = url.UserPassword(parsed.User.Username(), "xxxxx")
	}
	return parsed.String()
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
