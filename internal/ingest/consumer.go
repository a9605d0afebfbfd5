package ingest

import (
	"context"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"solanaSniper/internal/metrics"
	"solanaSniper/internal/model"
	"solanaSniper/internal/queue"
)

// Conn is the read side of the upstream connection.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// FrameDecoder turns a raw frame into an Event.
type FrameDecoder interface {
	Decode(data []byte) (model.Event, error)
}

// Consumer reads frames, decodes them and hands events to the queue.
type Consumer struct {
	decoder FrameDecoder
	logger  *zap.Logger
}

func NewConsumer(decoder FrameDecoder, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{decoder: decoder, logger: logger}
}

// Run owns conn until it returns. A clean close from the peer returns nil,
// any other read failure returns *StreamError and cancellation returns
// ctx.Err(). Frames that fail to decode are logged and skipped.
func (c *Consumer) Run(ctx context.Context, conn Conn, out *queue.Queue) error {
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()
	defer conn.Close()

	var frames, failed uint64
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if isCleanClose(err) {
				c.logger.Info("stream closed by peer",
					zap.Uint64("frames", frames),
					zap.Uint64("decode_failures", failed),
				)
				return nil
			}
			return &StreamError{Frames: frames, Err: err}
		}
		frames++
		metrics.FramesReceived.Inc()

		ev, err := c.decoder.Decode(data)
		if err != nil {
			failed++
			metrics.DecodeFailures.Inc()
			c.logger.Warn("decode frame failed", zap.Error(err), zap.Int("bytes", len(data)))
			continue
		}

		if err := out.Put(ctx, ev); err != nil {
			return err
		}
		metrics.QueueDepth.Set(float64(out.Len()))
	}
}

func isCleanClose(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	)
}
