package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"solanaSniper/internal/model"
)

// JsonlStorage appends transactions and account updates to two JSONL files.
type JsonlStorage struct {
	txPath      string
	accountPath string
	mu          sync.Mutex
}

func NewJsonlStorage(txPath, accountPath string) *JsonlStorage {
	return &JsonlStorage{txPath: txPath, accountPath: accountPath}
}

// PutTransaction appends one transaction record as a JSON line.
func (s *JsonlStorage) PutTransaction(_ context.Context, tx model.TransactionRecord) error {
	return s.appendLine(s.txPath, tx)
}

// PutAccountUpdate appends one account update as a JSON line. An empty
// account path disables account output.
func (s *JsonlStorage) PutAccountUpdate(_ context.Context, update model.AccountUpdate) error {
	if s.accountPath == "" {
		return nil
	}
	return s.appendLine(s.accountPath, update)
}

func (s *JsonlStorage) appendLine(path string, value interface{}) error {
	if path == "" {
		return fmt.Errorf("output path is required")
	}

	line, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.Write(line); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if err := writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}
