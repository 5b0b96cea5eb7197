// Package jsonl implements the JSON Lines storage engine for the hbnb object
// store. One record is stored per line; the file is rewritten atomically on
// every Persist.
package jsonl

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// FileName is the name of the data file inside the data directory.
const FileName = "objects.jsonl"

// maxLineCapacity bounds the size of one record line.
const maxLineCapacity = 4 * 1024 * 1024

// Engine reads and writes records to a JSONL file. Every Persist rewrites the
// whole file through replaceFile, so a crash mid-write never leaves a
// truncated data file behind.
type Engine struct {
	path   string
	logger *slog.Logger
}

// Open returns an Engine storing records in dataDir. The directory is created
// if it does not exist; the file itself is created on the first Persist.
func Open(dataDir string, logger *slog.Logger) (*Engine, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		path:   filepath.Join(dataDir, FileName),
		logger: logger,
	}, nil
}

// Path returns the location of the data file.
func (e *Engine) Path() string {
	return e.path
}

// Load reads every decodable record in file order. A missing file yields no
// records. Lines that do not decode to a record are skipped and logged.
func (e *Engine) Load() ([]*types.Record, error) {
	var records []*types.Record
	err := eachLine(e.path, func(n int, line []byte) {
		r, err := types.UnmarshalRecord(line)
		if err != nil {
			e.logger.Warn("skipping record", "file", e.path, "line", n, "error", err)
			return
		}
		records = append(records, r)
	})
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Persist replaces the file content with records, one per line. Readers see
// either the previous file or the new one: a record that fails to encode
// leaves the previous content in place.
func (e *Engine) Persist(records []*types.Record) error {
	return replaceFile(e.path, func(w *bufio.Writer) error {
		for _, r := range records {
			line, err := types.MarshalRecord(r)
			if err != nil {
				return err
			}
			if _, err := w.Write(line); err != nil {
				return fmt.Errorf("writing %s: %w", r.Key(), err)
			}
			if err := w.WriteByte('\n'); err != nil {
				return fmt.Errorf("writing newline: %w", err)
			}
		}
		return nil
	})
}

// Close is a no-op; the file is not held open between calls.
func (e *Engine) Close() error {
	return nil
}

// eachLine calls fn with the 1-based number and content of every non-empty
// line of path. The slice passed to fn is only valid during the call.
func eachLine(path string, fn func(n int, line []byte)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineCapacity)
	for n := 1; scanner.Scan(); n++ {
		if line := scanner.Bytes(); len(line) > 0 {
			fn(n, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanning %s: %w", path, err)
	}
	return nil
}

// replaceFile writes a sibling temp file through write, syncs it and renames
// it over path. On any failure the temp file is removed and path is untouched.
func replaceFile(path string, write func(w *bufio.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if err := write(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
