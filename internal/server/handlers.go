package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/leaplint/internal/engine"
	"github.com/leapstack-labs/leaplint/internal/state"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/starfederation/datastar-go/datastar"
)

// MaxBodyBytes bounds the size of a request body.
const MaxBodyBytes = 4 << 20

// DefaultRunsLimit is the number of runs /runs returns without ?limit.
const DefaultRunsLimit = 20

// SourceRequest is the body of /parse, /lex, /lint and /fix.
type SourceRequest struct {
	SQL      string `json:"sql"`
	Dialect  string `json:"dialect,omitempty"`
	Path     string `json:"path,omitempty"`
	CodeOnly bool   `json:"code_only,omitempty"`
}

// ParseViolation is a template, lex or parse error.
type ParseViolation struct {
	Code    string `json:"code"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	EndLine int    `json:"end_line,omitempty"`
	EndCol  int    `json:"end_column,omitempty"`
	Message string `json:"message"`
}

// ParseResponse is the result of /parse.
type ParseResponse struct {
	Tree       *segment.Record  `json:"tree,omitempty"`
	Violations []ParseViolation `json:"violations"`
}

// Token is one lexed token.
type Token struct {
	Type   string `json:"type"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Raw    string `json:"raw"`
}

// LexResponse is the result of /lex.
type LexResponse struct {
	Tokens     []Token          `json:"tokens"`
	Violations []ParseViolation `json:"violations"`
}

// LintResponse is the result of /lint and /fix. For /fix, Violations are
// those left after fixing and Fixed is the fixed SQL.
type LintResponse struct {
	Path       string           `json:"path,omitempty"`
	Violations []lint.Violation `json:"violations"`
	Fixed      *string          `json:"fixed,omitempty"`
	Changed    bool             `json:"changed"`
}

// DialectInfo describes a registered dialect.
type DialectInfo struct {
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
	Rules  int    `json:"rules"`
}

// RunResponse is a run with its violations.
type RunResponse struct {
	*core.Run
	Counts     map[string]int      `json:"counts"`
	Violations []core.RunViolation `json:"violations"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	engine   *engine.Engine
	logger   *slog.Logger
	notifier *Notifier
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "dialect": h.engine.Dialect()})
}

func (h *handlers) parse(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSource(w, r)
	if !ok {
		return
	}
	parsed, err := h.engine.Parse(r.Context(), req.Dialect, req.SQL, req.Path)
	if err != nil {
		h.writeError(w, err)
		return
	}
	resp := ParseResponse{Violations: parseViolations(parsed.Violations)}
	if parsed.Tree != nil {
		rec := segment.AsRecord(parsed.Tree, segment.TupleOptions{CodeOnly: req.CodeOnly})
		resp.Tree = &rec
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) lex(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSource(w, r)
	if !ok {
		return
	}
	lexed, err := h.engine.Lex(r.Context(), req.Dialect, req.SQL, req.Path)
	if err != nil {
		h.writeError(w, err)
		return
	}
	resp := LexResponse{
		Tokens:     make([]Token, 0, len(lexed.Tokens)),
		Violations: parseViolations(lexed.Violations),
	}
	for _, tok := range lexed.Tokens {
		pos := tok.Pos()
		resp.Tokens = append(resp.Tokens, Token{Type: tok.Type(), Line: pos.Line, Column: pos.Column, Raw: tok.Raw()})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) lint(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSource(w, r)
	if !ok {
		return
	}
	res, err := h.engine.Lint(r.Context(), req.Dialect, req.SQL, req.Path)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.notifier.Broadcast(Event{Kind: EventLint, Path: req.Path, Violations: len(res.Violations)})
	writeJSON(w, http.StatusOK, LintResponse{Path: req.Path, Violations: nonNil(res.Violations)})
}

func (h *handlers) fix(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSource(w, r)
	if !ok {
		return
	}
	res, err := h.engine.Fix(r.Context(), req.Dialect, req.SQL, req.Path)
	if err != nil {
		h.writeError(w, err)
		return
	}
	remaining := engine.Remaining(res, true)
	fixed := res.Source
	if res.Fixed != "" {
		fixed = res.Fixed
	}
	h.notifier.Broadcast(Event{Kind: EventFix, Path: req.Path, Violations: len(remaining)})
	writeJSON(w, http.StatusOK, LintResponse{
		Path:       req.Path,
		Violations: nonNil(remaining),
		Fixed:      &fixed,
		Changed:    res.Changed(),
	})
}

func (h *handlers) listRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.engine.Rules()
	if err != nil {
		h.writeError(w, err)
		return
	}
	group := r.URL.Query().Get("group")
	infos := make([]core.RuleInfo, 0, len(rules))
	for _, rule := range rules {
		if group != "" && !strings.EqualFold(rule.Group, group) {
			continue
		}
		infos = append(infos, rule.Info())
	}
	writeJSON(w, http.StatusOK, infos)
}

func (h *handlers) getRule(w http.ResponseWriter, r *http.Request) {
	id := strings.ToUpper(chi.URLParam(r, "id"))
	for _, rule := range h.engine.ExtraRules() {
		if rule.ID == id {
			writeJSON(w, http.StatusOK, rule.Info())
			return
		}
	}
	rule, ok := lint.GetByID(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("rule %q not found", id)})
		return
	}
	writeJSON(w, http.StatusOK, rule.Info())
}

func (h *handlers) listDialects(w http.ResponseWriter, _ *http.Request) {
	names := dialect.List()
	out := make([]DialectInfo, 0, len(names))
	for _, name := range names {
		d, ok := dialect.Get(name)
		if !ok {
			continue
		}
		info := DialectInfo{Name: d.Name(), Rules: len(lint.GetByDialect(d.Name()))}
		if p := d.Parent(); p != nil {
			info.Parent = p.Name()
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) listRuns(w http.ResponseWriter, r *http.Request) {
	store := h.engine.Store()
	if store == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "run history is disabled"})
		return
	}
	limit := DefaultRunsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid limit %q", v)})
			return
		}
		limit = n
	}
	runs, err := store.ListRuns(limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if runs == nil {
		runs = []*core.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (h *handlers) getRun(w http.ResponseWriter, r *http.Request) {
	store := h.engine.Store()
	if store == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "run history is disabled"})
		return
	}
	id := chi.URLParam(r, "id")
	run, err := store.GetRun(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	counts, err := store.ViolationCounts(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	violations, err := store.ListViolations(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if violations == nil {
		violations = []core.RunViolation{}
	}
	writeJSON(w, http.StatusOK, RunResponse{Run: run, Counts: counts, Violations: violations})
}

// events streams lint events to the client as datastar signal patches
// until the client goes away or the server shuts down.
func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	// Subscribe before the headers go out so no event after them is missed
	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	sse := datastar.NewSSE(w, r)
	for {
		select {
		case <-sse.Context().Done():
			return
		case ev := <-updates:
			if err := sse.MarshalAndPatchSignals(ev); err != nil {
				h.logger.Debug("event stream closed", slog.String("error", err.Error()))
				return
			}
		}
	}
}

// decodeSource reads a SourceRequest body, answering 400 on bad input.
func decodeSource(w http.ResponseWriter, r *http.Request) (*SourceRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	var req SourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return nil, false
	}
	if req.Path == "" {
		req.Path = "request.sql"
	}
	return &req, true
}

// writeError maps engine and store errors to status codes.
func (h *handlers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrUnknownDialect):
		status = http.StatusBadRequest
	case errors.Is(err, state.ErrRunNotFound):
		status = http.StatusNotFound
	default:
		h.logger.Error("request failed", slog.String("error", err.Error()))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseViolations(errs []*parser.ParseError) []ParseViolation {
	out := make([]ParseViolation, 0, len(errs))
	for _, e := range errs {
		v := ParseViolation{Code: e.Code, Line: e.Pos.Line, Column: e.Pos.Column, Message: e.Message}
		if e.Span.IsValid() {
			v.EndLine, v.EndCol = e.Span.End.Line, e.Span.End.Column
		}
		out = append(out, v)
	}
	return out
}

func nonNil(vs []lint.Violation) []lint.Violation {
	if vs == nil {
		return []lint.Violation{}
	}
	return vs
}
