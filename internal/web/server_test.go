package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JonMunkholm/hygload/internal/core"
	"github.com/JonMunkholm/hygload/internal/metrics"
)

func newTestServer() (*Server, *core.Tracker, *metrics.Ingest) {
	tracker := core.NewTracker()
	m := metrics.NewIngest()
	return NewServer(tracker, m), tracker, m
}

func serve(s *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer()

	rec := serve(s, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestProgress(t *testing.T) {
	s, tracker, _ := newTestServer()

	tracker.Update(core.Progress{
		RunID:       "run-1",
		Phase:       core.PhaseStreaming,
		CurrentLine: 25,
		TotalLines:  100,
		Persisted:   24,
	})

	rec := serve(s, "/progress")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body progressResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.RunID != "run-1" {
		t.Errorf("RunID = %q, want run-1", body.RunID)
	}
	if body.Persisted != 24 {
		t.Errorf("Persisted = %d, want 24", body.Persisted)
	}
	if body.Percent != 25 {
		t.Errorf("Percent = %v, want 25", body.Percent)
	}
}

func TestProgressStreamFinishedRun(t *testing.T) {
	s, tracker, _ := newTestServer()

	tracker.Update(core.Progress{Phase: core.PhaseComplete, CurrentLine: 3, TotalLines: 3, Persisted: 2})

	rec := serve(s, "/progress/stream")
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "event: progress\n") {
		t.Errorf("stream missing progress event:\n%s", body)
	}
	if !strings.Contains(body, `"phase":"complete"`) {
		t.Errorf("stream missing final snapshot:\n%s", body)
	}
	if !strings.HasSuffix(body, "event: complete\ndata: {}\n\n") {
		t.Errorf("stream should end with complete event:\n%s", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _, m := newTestServer()

	m.ObserveProgress(core.Progress{Phase: core.PhaseStreaming, CurrentLine: 7, TotalLines: 10})
	m.ObserveReject(core.FailedRow{Code: "REC002"})

	rec := serve(s, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"hygload_lines_processed 7",
		"hygload_lines_total 10",
		`hygload_records_rejected_total{code="REC002"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	s, _, _ := newTestServer()

	if rec := serve(s, "/upload"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
