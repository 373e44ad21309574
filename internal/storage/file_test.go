package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/wellsgz/vigil/internal/probe"
)

func testMeasurement(i int, success bool) probe.Measurement {
	m := probe.Measurement{
		Timestamp:      time.Date(2025, 1, 1, 0, 0, i, 0, time.UTC),
		Name:           "VIES API",
		URL:            "https://example.org/api",
		ResponseTimeMs: float64(100 + i),
		Success:        success,
	}
	if success {
		code := 200
		m.StatusCode = &code
	} else {
		reason := "timeout"
		m.Error = &reason
	}
	return m
}

func TestFileStore_AppendReadRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	// First run: no history.
	all, err := s.ReadAll("VIES API")
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("fresh store should be empty, got %d records", len(all))
	}

	m := testMeasurement(1, true)
	if err := s.Append("VIES API", m); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	all, err = s.ReadAll("VIES API")
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("len = %d, want 1", len(all))
	}
	if !all[0].Timestamp.Equal(m.Timestamp) || all[0].ResponseTimeMs != m.ResponseTimeMs {
		t.Fatalf("read back %+v, want %+v", all[0], m)
	}

	// Appending grows the log by exactly one, last element equals the append.
	m2 := testMeasurement(2, false)
	if err := s.Append("VIES API", m2); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	all, err = s.ReadAll("VIES API")
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
	last := all[len(all)-1]
	if last.Success || last.ErrorString() != "timeout" {
		t.Fatalf("last record = %+v, want the appended failure", last)
	}
}

func TestFileStore_IdempotentRead(t *testing.T) {
	s, _ := NewFileStore(t.TempDir())
	for i := 0; i < 3; i++ {
		if err := s.Append("t", testMeasurement(i, true)); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	a, err := s.ReadAll("t")
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	b, err := s.ReadAll("t")
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two reads with no intervening append should be identical")
	}
}

func TestFileStore_ReadTail(t *testing.T) {
	s, _ := NewFileStore(t.TempDir())
	for i := 0; i < 25; i++ {
		if err := s.Append("t", testMeasurement(i, true)); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	tail, err := s.ReadTail("t", 10)
	if err != nil {
		t.Fatalf("ReadTail() error = %v", err)
	}
	if len(tail) != 10 {
		t.Fatalf("len = %d, want 10", len(tail))
	}
	// Chronological order preserved: the last 10 of 25 are seconds 15..24.
	for i, m := range tail {
		if want := float64(100 + 15 + i); m.ResponseTimeMs != want {
			t.Fatalf("tail[%d].ResponseTimeMs = %v, want %v", i, m.ResponseTimeMs, want)
		}
	}

	short, err := s.ReadTail("t", 100)
	if err != nil {
		t.Fatalf("ReadTail() error = %v", err)
	}
	if len(short) != 25 {
		t.Fatalf("tail longer than history should return everything, got %d", len(short))
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileStore(dir)
	for i := 0; i < 5; i++ {
		if err := s.Append("t", testMeasurement(i, true)); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	// A fresh store over the same directory sees the same history.
	s2, _ := NewFileStore(dir)
	all, err := s2.ReadAll("t")
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("reopened store sees %d records, want 5", len(all))
	}
}

func TestFileStore_CorruptLog(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileStore(dir)

	// Simulate a log truncated mid-write by an external actor.
	path := s.LogPath("t")
	truncated := `[{"timestamp": "2025-01-01T00:00:00Z", "name": "t", "resp`
	if err := os.WriteFile(path, []byte(truncated), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := s.ReadAll("t")
	var corrupt *CorruptError
	if !errors.As(err, &corrupt) {
		t.Fatalf("ReadAll() error = %v, want *CorruptError", err)
	}
	if corrupt.Path != path {
		t.Errorf("CorruptError.Path = %q, want %q", corrupt.Path, path)
	}

	// Append must refuse to touch the corrupt file.
	if err := s.Append("t", testMeasurement(0, true)); !errors.As(err, &corrupt) {
		t.Fatalf("Append() error = %v, want *CorruptError", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != truncated {
		t.Fatal("corrupt log was modified; it must be preserved for inspection")
	}
}

func TestFileStore_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileStore(dir)
	for i := 0; i < 3; i++ {
		if err := s.Append("t", testMeasurement(i, true)); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temporary file left behind: %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly the log file, got %d entries", len(entries))
	}
}

func TestFileStore_WriteDocument(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileStore(dir)

	doc := map[string]any{"version": "1.0", "total_checks": 3}
	if err := s.WriteDocument("results.json", doc); err != nil {
		t.Fatalf("WriteDocument() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "results.json"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"version": "1.0"`, `"total_checks": 3`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("results.json missing %s:\n%s", want, data)
		}
	}
}

func TestFileStore_LogPathSlug(t *testing.T) {
	s, _ := NewFileStore(t.TempDir())
	tests := []struct {
		name string
		want string
	}{
		{"VIES API", "vies-api.json"},
		{"plain", "plain.json"},
		{"Weird  //  Name!", "weird-name.json"},
	}
	for _, tt := range tests {
		if got := filepath.Base(s.LogPath(tt.name)); got != tt.want {
			t.Errorf("LogPath(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFileStore_SeparateLogsPerTarget(t *testing.T) {
	s, _ := NewFileStore(t.TempDir())
	if err := s.Append("a", testMeasurement(0, true)); err != nil {
		t.Fatal(err)
	}
	if err := s.Append("b", testMeasurement(1, false)); err != nil {
		t.Fatal(err)
	}

	a, err := s.ReadAll("a")
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.ReadAll("b")
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("len(a)=%d len(b)=%d, want 1 and 1", len(a), len(b))
	}
	if a[0].Success == b[0].Success {
		t.Fatal("logs bled into each other")
	}
}
