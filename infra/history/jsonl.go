package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	corehistory "github.com/kilianp07/footprint/core/history"
)

// tailBlock is how much of the file LoadLast reads at a time, from the end.
const tailBlock = 64 * 1024

// JSONLStore appends one snapshot per line to a rotating file. The latest
// valid line of the active file is the last snapshot; it is kept in memory
// once saved or read.
type JSONLStore struct {
	mu     sync.Mutex
	path   string
	writer *lumberjack.Logger
	last   *corehistory.Snapshot
}

// NewJSONLStore creates the parent directory if needed. Sizes are in
// megabytes and ages in days.
func NewJSONLStore(path string, maxSizeMB, maxBackups, maxAgeDays int) (*JSONLStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &JSONLStore{
		path: path,
		writer: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		},
	}, nil
}

func (s *JSONLStore) Save(_ context.Context, snap corehistory.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.writer.Write(append(b, '\n')); err != nil {
		return err
	}
	s.last = &snap
	return nil
}

func (s *JSONLStore) LoadLast(_ context.Context) (corehistory.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last != nil {
		return *s.last, true, nil
	}
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return corehistory.Snapshot{}, false, nil
	}
	if err != nil {
		return corehistory.Snapshot{}, false, err
	}
	defer func() { _ = f.Close() }()

	snap, found, err := readLast(f)
	if err != nil || !found {
		return corehistory.Snapshot{}, false, err
	}
	s.last = &snap
	return snap, true, nil
}

// readLast scans f backwards block by block and decodes the last line that
// holds a snapshot. Corrupt lines are skipped.
func readLast(f *os.File) (corehistory.Snapshot, bool, error) {
	st, err := f.Stat()
	if err != nil {
		return corehistory.Snapshot{}, false, err
	}
	off := st.Size()
	var tail []byte
	for off > 0 {
		n := int64(tailBlock)
		if n > off {
			n = off
		}
		off -= n
		buf := make([]byte, n, n+int64(len(tail)))
		if _, err := f.ReadAt(buf, off); err != nil && !errors.Is(err, io.EOF) {
			return corehistory.Snapshot{}, false, err
		}
		tail = append(buf, tail...)

		lines := bytes.Split(tail, []byte{'\n'})
		// The first line may continue in the previous block.
		first := 0
		if off > 0 {
			first = 1
		}
		for i := len(lines) - 1; i >= first; i-- {
			line := bytes.TrimSpace(lines[i])
			if len(line) == 0 {
				continue
			}
			var snap corehistory.Snapshot
			if err := json.Unmarshal(line, &snap); err == nil {
				return snap, true, nil
			}
		}
		tail = lines[0]
	}
	return corehistory.Snapshot{}, false, nil
}

func (s *JSONLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writer.Close()
}
