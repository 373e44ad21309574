package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/wellsgz/vigil/internal/probe"
)

// FileStore persists one JSON measurement log per target under a data
// directory. Every write goes to a temporary file in the same directory
// followed by an atomic rename, so a reader never observes a truncated log.
//
// FileStore assumes a single writer; it serializes its own callers but does
// not coordinate across processes.
type FileStore struct {
	dataDir string

	mu    sync.Mutex
	cache map[string][]probe.Measurement
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// NewFileStore creates a file store rooted at dataDir, creating the
// directory if needed.
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", dataDir, err)
	}
	return &FileStore{
		dataDir: dataDir,
		cache:   make(map[string][]probe.Measurement),
	}, nil
}

// DataDir returns the directory holding the logs and summary document.
func (s *FileStore) DataDir() string {
	return s.dataDir
}

// LogPath returns the on-disk path of a target's measurement log.
func (s *FileStore) LogPath(targetName string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(targetName), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "target"
	}
	return filepath.Join(s.dataDir, slug+".json")
}

// Append adds one measurement to the named target's log and flushes it to
// disk before returning. A corrupt existing log fails the append without
// touching the file.
func (s *FileStore) Append(targetName string, m probe.Measurement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := s.load(targetName)
	if err != nil {
		return err
	}

	updated := append(log, m)
	data, err := json.MarshalIndent(updated, "", "  ")
	if err != nil {
		return fmt.Errorf("encode log for %q: %w", targetName, err)
	}

	if err := writeFileAtomic(s.LogPath(targetName), data); err != nil {
		return fmt.Errorf("write log for %q: %w", targetName, err)
	}

	s.cache[targetName] = updated
	return nil
}

// ReadAll returns the complete history for a target in chronological order.
func (s *FileStore) ReadAll(targetName string) ([]probe.Measurement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := s.load(targetName)
	if err != nil {
		return nil, err
	}

	out := make([]probe.Measurement, len(log))
	copy(out, log)
	return out, nil
}

// ReadTail returns the last n measurements for a target.
func (s *FileStore) ReadTail(targetName string, n int) ([]probe.Measurement, error) {
	all, err := s.ReadAll(targetName)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		n = 0
	}
	if n >= len(all) {
		return all, nil
	}
	return all[len(all)-n:], nil
}

// WriteDocument atomically writes a JSON document into the data directory.
func (s *FileStore) WriteDocument(filename string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filename, err)
	}
	if err := writeFileAtomic(filepath.Join(s.dataDir, filename), data); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

// load returns the log for a target, reading it from disk on first access.
// Must be called with s.mu held.
func (s *FileStore) load(targetName string) ([]probe.Measurement, error) {
	if log, ok := s.cache[targetName]; ok {
		return log, nil
	}

	path := s.LogPath(targetName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.cache[targetName] = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read log %s: %w", path, err)
	}

	var log []probe.Measurement
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, &CorruptError{Path: path, Err: err}
	}

	s.cache[targetName] = log
	return log, nil
}

// writeFileAtomic writes data to a temporary file in the target's directory,
// fsyncs it, then renames it over the destination.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
