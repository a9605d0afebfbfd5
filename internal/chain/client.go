package chain

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/rpc"

	"solanaSniper/internal/metrics"
	"solanaSniper/internal/model"
)

const defaultTimeout = 30 * time.Second

// Client issues Solana JSON-RPC calls over HTTP through the go-ethereum
// rpc client.
type Client struct {
	rpcClient *rpc.Client
	timeout   time.Duration
	now       func() time.Time
}

// NewClient creates a client for the RPC URL. timeout bounds each call;
// zero selects the default.
func NewClient(rpcURL string, timeout time.Duration) (*Client, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rpcClient, err := rpc.DialHTTPWithClient(rpcURL, &http.Client{})
	if err != nil {
		return nil, err
	}

	return &Client{
		rpcClient: rpcClient,
		timeout:   timeout,
		now:       time.Now,
	}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// FetchTransaction calls getTransaction once for signature. It never
// retries; failures are returned as *EnrichmentError.
func (c *Client) FetchTransaction(ctx context.Context, signature string) (model.TransactionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts := transactionOptions{Encoding: "jsonParsed", MaxSupportedTransactionVersion: 0}

	start := time.Now()
	var result *transactionResult
	err := c.rpcClient.CallContext(ctx, &result, "getTransaction", signature, opts)
	metrics.EnrichmentLatency.Observe(time.Since(start).Seconds())

	if err == nil {
		err = checkResult(result)
	}
	if err != nil {
		enrichErr := newEnrichmentError(signature, err)
		metrics.Enrichments.WithLabelValues(string(enrichErr.Kind)).Inc()
		return model.TransactionRecord{}, enrichErr
	}

	metrics.Enrichments.WithLabelValues("ok").Inc()
	return buildTransactionRecord(signature, result, c.now()), nil
}

func checkResult(res *transactionResult) error {
	switch {
	case res == nil:
		return errNotFound
	case res.Slot == nil:
		return fmt.Errorf("%w: missing slot", errIncompleteBody)
	case res.Transaction == nil:
		return fmt.Errorf("%w: missing transaction", errIncompleteBody)
	case len(res.Transaction.Signatures) == 0:
		return fmt.Errorf("%w: no signatures", errIncompleteBody)
	}
	return nil
}
