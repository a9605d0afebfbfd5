package ingest

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"solanaSniper/internal/model"
)

const (
	defaultCommitment       = "finalized"
	defaultHandshakeTimeout = 10 * time.Second
)

// SubscriberConfig holds the upstream endpoint and what to subscribe to.
type SubscriberConfig struct {
	Endpoint         string
	Targets          []model.Target
	Commitment       string
	HandshakeTimeout time.Duration
}

// Subscriber opens the PubSub connection and sends one subscribe request
// per target. Acknowledgements are not awaited.
type Subscriber struct {
	cfg    SubscriberConfig
	dialer *websocket.Dialer
	logger *zap.Logger
}

func NewSubscriber(cfg SubscriberConfig, logger *zap.Logger) *Subscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Commitment == "" {
		cfg.Commitment = defaultCommitment
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = defaultHandshakeTimeout
	}

	return &Subscriber{
		cfg: cfg,
		dialer: &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
		logger: logger,
	}
}

// Open dials the endpoint and writes the subscribe frames in target order.
// Any failure closes the connection and returns *ConnectionError.
func (s *Subscriber) Open(ctx context.Context) (*websocket.Conn, error) {
	endpoint := RedactEndpoint(s.cfg.Endpoint)
	if s.cfg.Endpoint == "" {
		return nil, &ConnectionError{Op: "dial", Endpoint: endpoint, Err: fmt.Errorf("endpoint is required")}
	}

	conn, resp, err := s.dialer.DialContext(ctx, s.cfg.Endpoint, nil)
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("%w (status %d)", err, resp.StatusCode)
		}
		return nil, &ConnectionError{Op: "dial", Endpoint: endpoint, Err: err}
	}
	s.logger.Info("websocket connected", zap.String("endpoint", endpoint))

	for i, target := range s.cfg.Targets {
		req, err := BuildRequest(uint64(i+1), target, s.cfg.Commitment)
		if err != nil {
			conn.Close()
			return nil, &ConnectionError{Op: "subscribe", Endpoint: endpoint, Err: err}
		}
		if err := conn.WriteJSON(req); err != nil {
			conn.Close()
			return nil, &ConnectionError{Op: "subscribe", Endpoint: endpoint, Err: fmt.Errorf("send %s %d: %w", req.Method, req.ID, err)}
		}
		s.logger.Info("subscribe sent",
			zap.Uint64("id", req.ID),
			zap.String("method", req.Method),
			zap.Strings("addresses", target.Addresses),
		)
	}

	return conn, nil
}

// BuildRequest constructs the subscribe frame for a target.
func BuildRequest(id uint64, target model.Target, commitment string) (model.SubscriptionRequest, error) {
	method := target.Kind.Method()
	if method == "" {
		return model.SubscriptionRequest{}, fmt.Errorf("unknown target kind %q", target.Kind)
	}
	if len(target.Addresses) == 0 {
		return model.SubscriptionRequest{}, fmt.Errorf("%s target has no address", target.Kind)
	}

	opts := model.SubscribeOptions{Encoding: "jsonParsed", Commitment: commitment}

	var first interface{}
	if target.Kind == model.TargetLogs {
		first = model.LogsFilter{Mentions: target.Addresses}
	} else {
		first = target.Addresses[0]
	}

	return model.SubscriptionRequest{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  []interface{}{first, opts},
	}, nil
}

// RedactEndpoint keeps scheme and host of a URL. Providers put API keys in
// the path or query.
func RedactEndpoint(raw string) string {
	if raw == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	if u.Path == "" && u.RawQuery == "" {
		return u.Scheme + "://" + u.Host
	}
	return u.Scheme + "://" + u.Host + "/***"
}
