package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"

	"github.com/ethereum/go-ethereum/rpc"
)

// ErrorKind classifies a failed enrichment.
type ErrorKind string

const (
	// KindTransport means the endpoint could not be reached.
	KindTransport ErrorKind = "transport"
	// KindRejected means the endpoint answered with a non-success HTTP
	// status or a JSON-RPC error object.
	KindRejected ErrorKind = "rejected"
	// KindBodyDecode means the call succeeded but the body did not match
	// the getTransaction result schema.
	KindBodyDecode ErrorKind = "body_decode"
)

var (
	errNotFound       = errors.New("transaction not found")
	errIncompleteBody = errors.New("transaction result incomplete")
)

// EnrichmentError is returned by FetchTransaction.
type EnrichmentError struct {
	Kind       ErrorKind
	Signature  string
	StatusCode int
	Err        error
}

func (e *EnrichmentError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("get transaction %s: %s (status %d): %v", e.Signature, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("get transaction %s: %s: %v", e.Signature, e.Kind, e.Err)
}

func (e *EnrichmentError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of an enrichment error, or "" for other errors.
func KindOf(err error) ErrorKind {
	var enrichErr *EnrichmentError
	if errors.As(err, &enrichErr) {
		return enrichErr.Kind
	}
	return ""
}

func newEnrichmentError(signature string, err error) *EnrichmentError {
	out := &EnrichmentError{Signature: signature, Err: err}

	var httpErr rpc.HTTPError
	var rpcErr rpc.Error
	var urlErr *url.Error
	var netErr net.Error
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &httpErr):
		out.Kind = KindRejected
		out.StatusCode = httpErr.StatusCode
	case errors.As(err, &rpcErr):
		out.Kind = KindRejected
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		out.Kind = KindTransport
	case errors.As(err, &urlErr), errors.As(err, &netErr):
		out.Kind = KindTransport
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr),
		errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, rpc.ErrNoResult), errors.Is(err, errNotFound),
		errors.Is(err, errIncompleteBody):
		out.Kind = KindBodyDecode
	default:
		out.Kind = KindTransport
	}
	return out
}
