package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/wellsgz/vigil/internal/config"
	"github.com/wellsgz/vigil/internal/logging"
	"github.com/wellsgz/vigil/internal/probe"
	"github.com/wellsgz/vigil/internal/stats"
	"github.com/wellsgz/vigil/internal/storage"
)

func testServer(t *testing.T) (*Server, *storage.FileStore) {
	t.Helper()
	cfg := &config.Config{
		Global: config.GlobalConfig{
			Interval: time.Minute,
			Timeout:  5 * time.Second,
			Window:   3,
		},
		Targets: []config.Target{
			{Name: "VIES API", URL: "https://example.org/api"},
		},
	}
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := NewServer(cfg, logging.Nop())
	srv.Handler().SetStore(store)
	return srv, store
}

func seed(t *testing.T, store *storage.FileStore, name string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		code := 200
		m := probe.Measurement{
			Timestamp:      time.Date(2025, 1, 1, 0, 0, i, 0, time.UTC),
			Name:           name,
			URL:            "https://example.org/api",
			StatusCode:     &code,
			ResponseTimeMs: float64(100 + i),
			Success:        true,
		}
		if err := store.Append(name, m); err != nil {
			t.Fatal(err)
		}
	}
}

func doGet(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestGetStatus(t *testing.T) {
	srv, _ := testServer(t)
	w := doGet(t, srv, "/api/v1/status")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" || resp.TargetCount != 1 {
		t.Errorf("response = %+v", resp)
	}
}

func TestGetTargets(t *testing.T) {
	srv, store := testServer(t)
	seed(t, store, "VIES API", 5)

	w := doGet(t, srv, "/api/v1/targets")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var targets []TargetResponse
	if err := json.Unmarshal(w.Body.Bytes(), &targets); err != nil {
		t.Fatal(err)
	}
	if len(targets) != 1 {
		t.Fatalf("targets len = %d, want 1", len(targets))
	}
	if targets[0].Lifetime == nil || targets[0].Lifetime.Total != 5 {
		t.Errorf("Lifetime = %+v, want 5 checks", targets[0].Lifetime)
	}
}

func TestGetTarget_NotFound(t *testing.T) {
	srv, _ := testServer(t)
	w := doGet(t, srv, "/api/v1/targets/unknown")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGetTargetStats_Windows(t *testing.T) {
	srv, store := testServer(t)
	seed(t, store, "VIES API", 5)

	tests := []struct {
		query     string
		wantCode  int
		wantTotal int
	}{
		{"", http.StatusOK, 5},
		{"?window=lifetime", http.StatusOK, 5},
		{"?window=recent", http.StatusOK, 3},
		{"?window=bogus", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		w := doGet(t, srv, "/api/v1/targets/VIES%20API/stats"+tt.query)
		if w.Code != tt.wantCode {
			t.Errorf("%q: status = %d, want %d", tt.query, w.Code, tt.wantCode)
			continue
		}
		if tt.wantCode != http.StatusOK {
			continue
		}
		var snap stats.Snapshot
		if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
			t.Fatal(err)
		}
		if snap.Total != tt.wantTotal {
			t.Errorf("%q: Total = %d, want %d", tt.query, snap.Total, tt.wantTotal)
		}
	}
}

func TestGetTargetHistory(t *testing.T) {
	srv, store := testServer(t)
	seed(t, store, "VIES API", 5)

	w := doGet(t, srv, "/api/v1/targets/VIES%20API/history?limit=2")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var history []probe.Measurement
	if err := json.Unmarshal(w.Body.Bytes(), &history); err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("history len = %d, want 2", len(history))
	}
	if history[1].ResponseTimeMs != 104 {
		t.Errorf("last record latency = %v, want 104", history[1].ResponseTimeMs)
	}

	if w := doGet(t, srv, "/api/v1/targets/VIES%20API/history?limit=-1"); w.Code != http.StatusBadRequest {
		t.Errorf("negative limit: status = %d, want 400", w.Code)
	}
}

func TestCorruptLogSurfaces(t *testing.T) {
	srv, store := testServer(t)
	if err := os.WriteFile(store.LogPath("VIES API"), []byte("[{"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := doGet(t, srv, "/api/v1/targets/VIES%20API/history")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["error"] != "Corrupt Result Log" {
		t.Errorf("error = %q, want corruption surfaced", resp["error"])
	}
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)
	w := doGet(t, srv, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
