package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/engine"
	"github.com/leapstack-labs/leaplint/internal/testutil"
	"github.com/leapstack-labs/leaplint/pkg/core"
	_ "github.com/leapstack-labs/leaplint/pkg/lint/rules" // register built-in rules
)

func newTestServer(t *testing.T, history bool) (*Server, *engine.Engine) {
	t.Helper()
	root := t.TempDir()
	cfg := engine.Config{Root: root, Logger: testutil.NewTestLogger(t)}
	if history {
		cfg.HistoryPath = filepath.Join(root, "history.db")
	}
	eng, err := engine.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return New(Config{Engine: eng, Logger: testutil.NewTestLogger(t)}), eng
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestServer_Health(t *testing.T) {
	s, _ := newTestServer(t, false)
	rec := do(t, s.Handler(), http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, map[string]string{"status": "ok", "dialect": "ansi"}, decode[map[string]string](t, rec))
}

func TestServer_Lint(t *testing.T) {
	s, _ := newTestServer(t, false)
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/lint", SourceRequest{SQL: "SELECT a   \nFROM t\n", Path: "q.sql"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[LintResponse](t, rec)
	assert.Equal(t, "q.sql", resp.Path)
	assert.NotEmpty(t, testutil.ByCode(resp.Violations, "LT01"))
	assert.Nil(t, resp.Fixed)

	rec = do(t, h, http.MethodPost, "/lint", SourceRequest{SQL: "SELECT a, b FROM t\n"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"violations":[]`)
}

func TestServer_Fix(t *testing.T) {
	s, _ := newTestServer(t, false)
	rec := do(t, s.Handler(), http.MethodPost, "/fix", SourceRequest{SQL: "SELECT a   \nFROM t\n"})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[LintResponse](t, rec)
	require.NotNil(t, resp.Fixed)
	assert.Equal(t, "SELECT a\nFROM t\n", *resp.Fixed)
	assert.True(t, resp.Changed)
	assert.Empty(t, resp.Violations)
}

func TestServer_ParseAndLex(t *testing.T) {
	s, _ := newTestServer(t, false)
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/parse", SourceRequest{SQL: "SELECT 1\n", CodeOnly: true})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.NotNil(t, body["tree"])
	assert.Equal(t, []any{}, body["violations"])

	rec = do(t, h, http.MethodPost, "/lex", SourceRequest{SQL: "SELECT 1"})
	require.Equal(t, http.StatusOK, rec.Code)
	lexed := decode[LexResponse](t, rec)
	require.NotEmpty(t, lexed.Tokens)
	assert.Equal(t, 1, lexed.Tokens[0].Line)
	assert.Equal(t, 1, lexed.Tokens[0].Column)
	assert.Equal(t, "SELECT", lexed.Tokens[0].Raw)
}

func TestServer_BadRequests(t *testing.T) {
	s, _ := newTestServer(t, false)
	h := s.Handler()

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"invalid json", http.MethodPost, "/lint", "{", http.StatusBadRequest},
		{"unknown dialect", http.MethodPost, "/parse", `{"sql":"SELECT 1","dialect":"oracle"}`, http.StatusBadRequest},
		{"unknown rule", http.MethodGet, "/rules/ZZ99", "", http.StatusNotFound},
		{"history disabled", http.MethodGet, "/runs", "", http.StatusNotFound},
		{"wrong method", http.MethodGet, "/lint", "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestServer_RulesAndDialects(t *testing.T) {
	s, _ := newTestServer(t, false)
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/rules?group=layout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rules := decode[[]core.RuleInfo](t, rec)
	require.NotEmpty(t, rules)
	for _, r := range rules {
		assert.Equal(t, "layout", r.Group)
	}

	rec = do(t, h, http.MethodGet, "/rules/lt01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "LT01", decode[core.RuleInfo](t, rec).ID)

	rec = do(t, h, http.MethodGet, "/dialects", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	byName := make(map[string]DialectInfo)
	for _, d := range decode[[]DialectInfo](t, rec) {
		byName[d.Name] = d
	}
	require.Contains(t, byName, "ansi")
	require.Contains(t, byName, "mysql")
	assert.Equal(t, "ansi", byName["mysql"].Parent)
}

func TestServer_Runs(t *testing.T) {
	s, eng := newTestServer(t, true)
	h := s.Handler()

	file := testutil.WriteFile(t, t.TempDir(), "q.sql", "SELECT a   \nFROM t\n")
	res, err := eng.LintFiles(context.Background(), []string{file}, engine.RunOptions{})
	require.NoError(t, err)

	rec := do(t, h, http.MethodGet, "/runs?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	runs := decode[[]core.Run](t, rec)
	require.Len(t, runs, 1)
	assert.Equal(t, res.RunID, runs[0].ID)

	rec = do(t, h, http.MethodGet, "/runs/"+res.RunID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	run := decode[map[string]any](t, rec)
	assert.Equal(t, res.RunID, run["id"])
	assert.NotEmpty(t, run["violations"])
	assert.NotEmpty(t, run["counts"])

	rec = do(t, h, http.MethodGet, "/runs/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/runs?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Events(t *testing.T) {
	s, _ := newTestServer(t, false)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/events") //nolint:noctx // test request
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream"))

	lintResp, err := http.Post(ts.URL+"/lint", "application/json", //nolint:noctx // test request
		strings.NewReader(`{"sql":"SELECT a   \nFROM t\n","path":"q.sql"}`))
	require.NoError(t, err)
	_ = lintResp.Body.Close()

	lines := make(chan string, 8)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	var eventLine, dataLine string
	timeout := time.After(5 * time.Second)
	for dataLine == "" {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream ended early")
			switch {
			case strings.HasPrefix(line, "event: "):
				eventLine = line
			case strings.HasPrefix(line, "data: signals "):
				dataLine = strings.TrimPrefix(line, "data: signals ")
			}
		case <-timeout:
			t.Fatal("no event received")
		}
	}
	assert.Equal(t, "event: datastar-patch-signals", eventLine)

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(dataLine), &ev))
	assert.Equal(t, EventLint, ev.Kind)
	assert.Equal(t, "q.sql", ev.Path)
	assert.Positive(t, ev.Violations)

	_ = resp.Body.Close()
}

func TestServer_ServeShutsDownOnCancel(t *testing.T) {
	s, _ := newTestServer(t, false)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeListener(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz") //nolint:noctx // test request
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}
