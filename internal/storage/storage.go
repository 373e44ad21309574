package storage

import (
	"fmt"

	"github.com/wellsgz/vigil/internal/probe"
)

// Store defines the interface for the durable, ordered measurement log.
// One log per target, append-only: records are never mutated or deleted.
type Store interface {
	// Append adds one measurement to the named target's log. The write is
	// durable before Append returns.
	Append(targetName string, m probe.Measurement) error

	// ReadAll returns the complete history for a target in chronological
	// order, or an empty slice when the target has no history yet.
	ReadAll(targetName string) ([]probe.Measurement, error)

	// ReadTail returns the last n measurements (or fewer when the history
	// is shorter), in chronological order.
	ReadTail(targetName string, n int) ([]probe.Measurement, error)

	// WriteDocument atomically writes an arbitrary JSON document (for
	// example the per-cycle summary) into the data directory.
	WriteDocument(filename string, v any) error
}

// CorruptError reports that a persisted log could not be parsed. The file is
// left untouched on disk for inspection; the store never overwrites a log it
// cannot read.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("result log %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}
