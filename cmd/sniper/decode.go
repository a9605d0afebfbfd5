package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"solanaSniper/internal/config"
	"solanaSniper/internal/decoder"
	"solanaSniper/internal/model"
)

func runDecode(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadDecode(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}
	if cfg.Out == "" {
		return fmt.Errorf("output path is required")
	}
	if cfg.Errors == "" {
		return fmt.Errorf("errors path is required")
	}

	inputFile, err := os.Open(cfg.In)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer inputFile.Close()

	outWriter, err := newJSONLWriter(cfg.Out, false)
	if err != nil {
		return err
	}
	defer outWriter.Close()

	errWriter, err := newJSONLWriter(cfg.Errors, false)
	if err != nil {
		return err
	}
	defer errWriter.Close()

	logger.Info("decode start",
		zap.String("in", cfg.In),
		zap.String("out", cfg.Out),
		zap.String("errors", cfg.Errors),
	)

	counts, err := decodeFrames(inputFile, decoder.New(), outWriter, errWriter)
	if err != nil {
		return err
	}

	logger.Info("decode complete",
		zap.Int("total", counts.total),
		zap.Int("decoded", counts.decoded),
		zap.Int("unrecognized", counts.unrecognized),
		zap.Int("failed", counts.failed),
	)

	return nil
}

type decodeCounts struct {
	total        int
	decoded      int
	unrecognized int
	failed       int
}

// decodeFrames reads one raw frame per line. Blank lines are skipped but
// still advance the line number.
func decodeFrames(in io.Reader, dec *decoder.Decoder, out, errs *jsonlWriter) (decodeCounts, error) {
	var counts decodeCounts

	scanner := bufio.NewScanner(in)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		counts.total++

		event, err := dec.Decode(line)
		if err != nil {
			counts.failed++
			writeDecodeError(errs, decodeErrorFromLine(lineNo, err))
			continue
		}

		if event.Kind() == model.KindUnrecognized {
			counts.unrecognized++
		} else {
			counts.decoded++
		}

		if err := out.Write(model.TypedEvent{Line: lineNo, Kind: event.Kind(), Event: event}); err != nil {
			return counts, err
		}
	}

	if err := scanner.Err(); err != nil {
		return counts, fmt.Errorf("scan input: %w", err)
	}
	return counts, nil
}

type jsonlWriter struct {
	closer io.Closer
	writer *bufio.Writer
}

func newJSONLWriter(path string, appendMode bool) (*jsonlWriter, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir: %w", err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	return &jsonlWriter{
		closer: file,
		writer: bufio.NewWriter(file),
	}, nil
}

// newStreamWriter writes JSONL to w without taking ownership of it.
func newStreamWriter(w io.Writer) *jsonlWriter {
	return &jsonlWriter{writer: bufio.NewWriter(w)}
}

func (w *jsonlWriter) Write(value interface{}) error {
	line, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if _, err := w.writer.Write(line); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	return nil
}

func (w *jsonlWriter) Close() error {
	if w == nil {
		return nil
	}
	if err := w.writer.Flush(); err != nil {
		if w.closer != nil {
			w.closer.Close()
		}
		return err
	}
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

func decodeErrorFromLine(lineNo int, err error) model.DecodeError {
	record := model.DecodeError{Line: lineNo, Error: err.Error()}

	var decodeErr *decoder.Error
	if errors.As(err, &decodeErr) {
		record.Method = decodeErr.Method
	}
	return record
}

func writeDecodeError(writer *jsonlWriter, errRecord model.DecodeError) {
	if writer == nil {
		return
	}
	_ = writer.Write(errRecord)
}
