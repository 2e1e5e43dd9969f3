package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcefield/pkg/analyze"
	"github.com/matzehuels/forcefield/pkg/cache"
	"github.com/matzehuels/forcefield/pkg/catalog"
	"github.com/matzehuels/forcefield/pkg/jobs"
	"github.com/matzehuels/forcefield/pkg/layout"
	"github.com/matzehuels/forcefield/pkg/pipeline"

	_ "github.com/matzehuels/forcefield/pkg/layout/force"
	_ "github.com/matzehuels/forcefield/pkg/layout/forceatlas"
	_ "github.com/matzehuels/forcefield/pkg/layout/grid"
	_ "github.com/matzehuels/forcefield/pkg/layout/hierarchical"
	_ "github.com/matzehuels/forcefield/pkg/layout/radial"
)

const sampleDoc = `{
  "nodes": [
    {"id": "app"},
    {"id": "auth"},
    {"id": "db"},
    {"id": "cache"}
  ],
  "edges": [
    {"source": "app", "target": "auth"},
    {"source": "app", "target": "cache"},
    {"source": "auth", "target": "db"}
  ]
}`

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Runner == nil {
		c, err := cache.NewFileCache(t.TempDir())
		if err != nil {
			t.Fatalf("NewFileCache() error = %v", err)
		}
		cfg.Runner = pipeline.NewRunner(c, nil, cfg.Logger)
	}
	s := New(cfg)
	t.Cleanup(func() { _ = s.Shutdown() })
	return s
}

func doRequest(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	case []byte:
		rd = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			panic(err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body, err)
	}
	return body.Error
}

// waitForTerminal polls the status endpoint until the job reaches a
// terminal state, returning the final job and every percent observed on
// the way.
func waitForTerminal(t *testing.T, s *Server, id string) (jobs.Job, []float64) {
	t.Helper()
	deadline := time.Now().Add(15 * time.Second)
	var percents []float64
	for time.Now().Before(deadline) {
		rec := doRequest(s, http.MethodGet, "/api/v1/jobs/"+id, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status code = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body)
		}
		var job jobs.Job
		if err := json.Unmarshal(rec.Body.Bytes(), &job); err != nil {
			t.Fatalf("decode job: %v", err)
		}
		percents = append(percents, job.Percent)
		if job.State.Terminal() {
			return job, percents
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not reach a terminal state", id)
	return jobs.Job{}, nil
}

// ringDoc builds a cycle of n nodes, big enough that a high-iteration
// run stays cancelable.
func ringDoc(n int) string {
	var b strings.Builder
	b.WriteString(`{"nodes":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"id":"n%d"}`, i)
	}
	b.WriteString(`],"edges":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"source":"n%d","target":"n%d"}`, i, (i+1)%n)
	}
	b.WriteString(`]}`)
	return b.String()
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, Config{})

	rec := doRequest(s, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want %d", rec.Code, http.StatusOK)
	}

	var health struct {
		Status     string   `json:"status"`
		Algorithms []string `json:"algorithms"`
		Catalog    bool     `json:"catalog"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("status = %q, want %q", health.Status, "ok")
	}
	found := false
	for _, name := range health.Algorithms {
		if name == "grid" {
			found = true
		}
	}
	if !found {
		t.Errorf("algorithms = %v, want to include grid", health.Algorithms)
	}
	if health.Catalog {
		t.Error("catalog = true, want false without a configured catalog")
	}
}

func TestJobLifecycle(t *testing.T) {
	s := newTestServer(t, Config{})

	body := map[string]any{
		"graph":   json.RawMessage(sampleDoc),
		"layout":  map[string]any{"algorithm": "force", "iterations": 30, "batch_iterations": 10},
		"metrics": true,
	}
	rec := doRequest(s, http.MethodPost, "/api/v1/jobs", body)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("submit code = %d, want %d (%s)", rec.Code, http.StatusAccepted, rec.Body)
	}

	var accepted jobs.Job
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode accepted job: %v", err)
	}
	if len(accepted.ID) != 36 {
		t.Errorf("job ID = %q, want a UUID", accepted.ID)
	}
	if accepted.State != jobs.StateQueued {
		t.Errorf("state = %q, want %q", accepted.State, jobs.StateQueued)
	}

	job, percents := waitForTerminal(t, s, accepted.ID)
	if job.State != jobs.StateDone {
		t.Fatalf("state = %q (error %q), want %q", job.State, job.Error, jobs.StateDone)
	}
	if job.Percent != 100 {
		t.Errorf("final percent = %v, want 100", job.Percent)
	}
	for i := 1; i < len(percents); i++ {
		if percents[i] < percents[i-1] {
			t.Fatalf("percent went backwards: %v", percents)
		}
	}
	if job.Result != nil {
		t.Error("status response carries a result, want it stripped")
	}

	rec = doRequest(s, http.MethodGet, "/api/v1/jobs/"+accepted.ID+"/result", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("result code = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body)
	}

	var result struct {
		Algorithm string `json:"algorithm"`
		Graph     struct {
			Nodes []struct {
				ID string  `json:"id"`
				X  float64 `json:"x"`
				Y  float64 `json:"y"`
			} `json:"nodes"`
		} `json:"graph"`
		Metrics  *layout.Metrics `json:"metrics"`
		Analysis *analyze.Result `json:"analysis"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Algorithm != "force" {
		t.Errorf("algorithm = %q, want %q", result.Algorithm, "force")
	}
	if got := len(result.Graph.Nodes); got != 4 {
		t.Fatalf("positioned nodes = %d, want 4", got)
	}
	moved := false
	for _, n := range result.Graph.Nodes {
		if n.X != 0 || n.Y != 0 {
			moved = true
		}
	}
	if !moved {
		t.Error("all nodes at the origin, want layout to move them")
	}
	if result.Metrics == nil {
		t.Error("metrics = nil, want quality metrics")
	}
	if result.Analysis == nil {
		t.Fatal("analysis = nil, want structural analysis")
	}
	want := []string{"app", "auth", "db"}
	if got := result.Analysis.CriticalPath; !equalStrings(got, want) {
		t.Errorf("critical path = %v, want %v", got, want)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestJobCancel(t *testing.T) {
	s := newTestServer(t, Config{})

	body := map[string]any{
		"graph":  json.RawMessage(ringDoc(400)),
		"layout": map[string]any{"algorithm": "forceatlas2", "iterations": 100000},
	}
	rec := doRequest(s, http.MethodPost, "/api/v1/jobs", body)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("submit code = %d, want %d (%s)", rec.Code, http.StatusAccepted, rec.Body)
	}
	var accepted jobs.Job
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode accepted job: %v", err)
	}

	// The run has barely started, so the result is not ready yet.
	rec = doRequest(s, http.MethodGet, "/api/v1/jobs/"+accepted.ID+"/result", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("early result code = %d, want %d (%s)", rec.Code, http.StatusConflict, rec.Body)
	}

	rec = doRequest(s, http.MethodDelete, "/api/v1/jobs/"+accepted.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel code = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body)
	}
	var canceled jobs.Job
	if err := json.Unmarshal(rec.Body.Bytes(), &canceled); err != nil {
		t.Fatalf("decode canceled job: %v", err)
	}
	if canceled.State != jobs.StateCanceled {
		t.Errorf("state after cancel = %q, want %q", canceled.State, jobs.StateCanceled)
	}

	job, _ := waitForTerminal(t, s, accepted.ID)
	if job.State != jobs.StateCanceled {
		t.Fatalf("terminal state = %q, want %q", job.State, jobs.StateCanceled)
	}

	rec = doRequest(s, http.MethodGet, "/api/v1/jobs/"+accepted.ID+"/result", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("result code = %d, want %d", rec.Code, http.StatusConflict)
	}
	if detail := decodeError(t, rec); detail.Code != "CANCELED" {
		t.Errorf("error code = %q, want %q", detail.Code, "CANCELED")
	}
}

func TestSubmitInvalidGraph(t *testing.T) {
	s := newTestServer(t, Config{})

	body := map[string]any{
		"graph": json.RawMessage(`{"nodes":[{"id":"a"},{"id":"a"}]}`),
	}
	rec := doRequest(s, http.MethodPost, "/api/v1/jobs", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want %d (%s)", rec.Code, http.StatusBadRequest, rec.Body)
	}
	if detail := decodeError(t, rec); detail.Code != "INVALID_GRAPH" {
		t.Errorf("error code = %q, want %q", detail.Code, "INVALID_GRAPH")
	}
}

func TestSubmitValidation(t *testing.T) {
	s := newTestServer(t, Config{})

	tests := []struct {
		name     string
		body     any
		wantCode string
	}{
		{
			name:     "malformed body",
			body:     `{"graph":`,
			wantCode: "INVALID_INPUT",
		},
		{
			name:     "missing graph",
			body:     map[string]any{"layout": map[string]any{}},
			wantCode: "INVALID_INPUT",
		},
		{
			name: "negative iterations",
			body: map[string]any{
				"graph":  json.RawMessage(sampleDoc),
				"layout": map[string]any{"iterations": -5},
			},
			wantCode: "INVALID_CONFIG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(s, http.MethodPost, "/api/v1/jobs", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("code = %d, want %d (%s)", rec.Code, http.StatusBadRequest, rec.Body)
			}
			if detail := decodeError(t, rec); string(detail.Code) != tt.wantCode {
				t.Errorf("error code = %q, want %q", detail.Code, tt.wantCode)
			}
		})
	}
}

func TestUnknownJob(t *testing.T) {
	s := newTestServer(t, Config{})

	paths := []string{
		"/api/v1/jobs/no-such-job",
		"/api/v1/jobs/no-such-job/result",
	}
	for _, path := range paths {
		rec := doRequest(s, http.MethodGet, path, nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("GET %s code = %d, want %d", path, rec.Code, http.StatusNotFound)
		}
		if detail := decodeError(t, rec); detail.Code != "JOB_NOT_FOUND" {
			t.Errorf("error code = %q, want %q", detail.Code, "JOB_NOT_FOUND")
		}
	}

	rec := doRequest(s, http.MethodDelete, "/api/v1/jobs/no-such-job", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("DELETE code = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})

	body := map[string]any{"graph": json.RawMessage(sampleDoc)}

	rec := doRequest(s, http.MethodPost, "/api/v1/analyze", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body)
	}

	var first analyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &first); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if first.Cached {
		t.Error("first call cached = true, want false")
	}
	if len(first.GraphHash) != 64 {
		t.Errorf("graph hash = %q, want a sha256 hex digest", first.GraphHash)
	}
	want := []string{"app", "auth", "db"}
	if got := first.Analysis.CriticalPath; !equalStrings(got, want) {
		t.Errorf("critical path = %v, want %v", got, want)
	}

	rec = doRequest(s, http.MethodPost, "/api/v1/analyze", body)
	var second analyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &second); err != nil {
		t.Fatalf("decode second response: %v", err)
	}
	if !second.Cached {
		t.Error("second call cached = false, want true")
	}
}

func TestGraphCatalog(t *testing.T) {
	s := newTestServer(t, Config{Catalog: catalog.NewMemoryCatalog()})

	rec := doRequest(s, http.MethodPut, "/api/v1/graphs/orders", sampleDoc)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("save code = %d, want %d (%s)", rec.Code, http.StatusNoContent, rec.Body)
	}

	rec = doRequest(s, http.MethodGet, "/api/v1/graphs/orders", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get code = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body)
	}
	var entry struct {
		Name  string `json:"name"`
		Graph struct {
			Nodes []json.RawMessage `json:"nodes"`
		} `json:"graph"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry.Name != "orders" {
		t.Errorf("name = %q, want %q", entry.Name, "orders")
	}
	if got := len(entry.Graph.Nodes); got != 4 {
		t.Errorf("nodes = %d, want 4", got)
	}

	rec = doRequest(s, http.MethodGet, "/api/v1/graphs", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list code = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body)
	}
	var summaries []catalog.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &summaries); err != nil {
		t.Fatalf("decode summaries: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Name != "orders" || summaries[0].NodeCount != 4 {
		t.Errorf("summaries = %+v, want one entry for orders with 4 nodes", summaries)
	}

	rec = doRequest(s, http.MethodDelete, "/api/v1/graphs/orders", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete code = %d, want %d", rec.Code, http.StatusNoContent)
	}

	rec = doRequest(s, http.MethodGet, "/api/v1/graphs/orders", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete code = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if detail := decodeError(t, rec); detail.Code != "GRAPH_NOT_FOUND" {
		t.Errorf("error code = %q, want %q", detail.Code, "GRAPH_NOT_FOUND")
	}
}

func TestGraphCatalogRejectsBadName(t *testing.T) {
	s := newTestServer(t, Config{Catalog: catalog.NewMemoryCatalog()})

	long := strings.Repeat("x", 200)
	rec := doRequest(s, http.MethodPut, "/api/v1/graphs/"+long, sampleDoc)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want %d (%s)", rec.Code, http.StatusBadRequest, rec.Body)
	}
}

func TestCatalogDisabled(t *testing.T) {
	s := newTestServer(t, Config{})

	rec := doRequest(s, http.MethodGet, "/api/v1/graphs", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("code = %d, want %d (%s)", rec.Code, http.StatusServiceUnavailable, rec.Body)
	}
	if detail := decodeError(t, rec); detail.Code != "UNAVAILABLE" {
		t.Errorf("error code = %q, want %q", detail.Code, "UNAVAILABLE")
	}
}

func TestRequestIDEcho(t *testing.T) {
	s := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "trace-42")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "trace-42" {
		t.Errorf("echoed request ID = %q, want %q", got, "trace-42")
	}

	rec = doRequest(s, http.MethodGet, "/healthz", nil)
	if got := rec.Header().Get(RequestIDHeader); got == "" {
		t.Error("generated request ID is empty")
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc!@#$")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc" {
		t.Errorf("sanitized request ID = %q, want %q", got, "abc")
	}
}
