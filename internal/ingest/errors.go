package ingest

import "fmt"

// ConnectionError reports a failure to open or subscribe on the upstream
// connection. It is fatal to a pipeline run.
type ConnectionError struct {
	Op       string
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// StreamError reports a read failure that ended the consumer loop.
type StreamError struct {
	Frames uint64
	Err    error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("read stream after %d frames: %v", e.Frames, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}
