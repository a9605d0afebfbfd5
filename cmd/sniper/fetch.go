package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"solanaSniper/internal/chain"
	"solanaSniper/internal/config"
	"solanaSniper/internal/dispatch"
	"solanaSniper/internal/ingest"
	"solanaSniper/internal/model"
	"solanaSniper/internal/storage/postgres"
)

func runFetch(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFetch(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}

	signatures, err := parseSignatures(cfg.Signatures)
	if err != nil {
		return err
	}
	if len(signatures) == 0 {
		return fmt.Errorf("at least one signature is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(cfg.RPCURL, cfg.RPCTimeout)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	var writer *jsonlWriter
	if cfg.Out != "" {
		writer, err = newJSONLWriter(cfg.Out, false)
		if err != nil {
			return err
		}
	} else {
		writer = newStreamWriter(os.Stdout)
	}
	defer writer.Close()

	logger.Info("fetch start",
		zap.String("rpc", ingest.RedactEndpoint(cfg.RPCURL)),
		zap.Int("signatures", len(signatures)),
		zap.String("out", cfg.Out),
	)

	records, failed := fetchAll(ctx, chainClient, signatures, logger)
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	if cfg.PGDSN != "" && len(records) > 0 {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := store.UpsertTransactions(ctx, records); err != nil {
			return err
		}
	}

	logger.Info("fetch complete",
		zap.Int("fetched", len(records)),
		zap.Int("failed", failed),
	)

	if failed > 0 {
		return fmt.Errorf("%d of %d fetches failed", failed, len(signatures))
	}
	return nil
}

// fetchAll fetches signatures in order. Failures are logged with their
// error kind and counted.
func fetchAll(ctx context.Context, enricher dispatch.Enricher, signatures []string, logger *zap.Logger) ([]model.TransactionRecord, int) {
	records := make([]model.TransactionRecord, 0, len(signatures))
	failed := 0
	for _, signature := range signatures {
		record, err := enricher.FetchTransaction(ctx, signature)
		if err != nil {
			failed++
			logger.Warn("fetch failed",
				zap.String("signature", signature),
				zap.String("kind", string(chain.KindOf(err))),
				zap.Error(err),
			)
			continue
		}
		records = append(records, record)
	}
	return records, failed
}

func parseSignatures(inputs []string) ([]string, error) {
	out := make([]string, 0, len(inputs))
	for _, input := range inputs {
		sig, err := solana.SignatureFromBase58(input)
		if err != nil {
			return nil, fmt.Errorf("invalid signature %s: %w", input, err)
		}
		out = append(out, sig.String())
	}
	return out, nil
}
