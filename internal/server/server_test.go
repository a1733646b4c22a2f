package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jobdeck/jobdeck-assistant/internal/dialog"
	"github.com/jobdeck/jobdeck-assistant/internal/knowledge"
	"github.com/jobdeck/jobdeck-assistant/internal/nlu"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	kb, err := knowledge.Load()
	if err != nil {
		t.Fatalf("load knowledge base: %v", err)
	}

	// No resolver configured: every assistant turn uses the rule-based path.
	engine := dialog.NewEngine(nil, kb, nil)
	return New(Config{Port: 0}, engine, kb, nil)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestAssistantRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	for _, body := range []string{"{}", `{"input":"   "}`, "not json"} {
		rec := do(t, s, http.MethodPost, "/ai/assistant", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestAssistantRunsTurn(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/ai/assistant", `{"input":"clear all filters","currentFilters":{"role":"react developer"}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result dialog.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result.Fallback {
		t.Fatal("no-resolver server must flag fallback")
	}
	if result.Action.Type != nlu.IntentResetFilters {
		t.Fatalf("action = %q", result.Action.Type)
	}
	if !strings.Contains(result.Message, nlu.ResetConfirmation) {
		t.Fatalf("message = %q", result.Message)
	}
	if result.Filters == nil || !result.Filters.IsZero() {
		t.Fatalf("filters not reset: %+v", result.Filters)
	}
}

func TestSearchEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/ai/search", `{"query":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty query: status = %d", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/ai/search", `{"query":"What is REST API?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var payload struct {
		Results []knowledge.Result `json:"results"`
		Total   int                `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Total == 0 || len(payload.Results) != payload.Total {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.Results[0].Question != "What is REST API?" {
		t.Fatalf("top result = %+v", payload.Results[0])
	}

	rec = do(t, s, http.MethodPost, "/ai/search", `{"query":"zzzz no such thing"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"results":[]`) {
		t.Fatalf("no-match search must return an empty list, got %s", rec.Body.String())
	}
}

func TestQuestionsPreview(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/ai/questions", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var payload struct {
		Total     int               `json:"total"`
		Questions []knowledge.Entry `json:"questions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Total != s.kb.Len() {
		t.Fatalf("total = %d, want %d", payload.Total, s.kb.Len())
	}
	want := payload.Total
	if want > questionPreviewLimit {
		want = questionPreviewLimit
	}
	if len(payload.Questions) != want {
		t.Fatalf("preview length = %d, want %d", len(payload.Questions), want)
	}
}

func TestRandomQuestion(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/ai/random-question", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var entry knowledge.Entry
	if err := json.Unmarshal(rec.Body.Bytes(), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry.Question == "" || entry.Answer == "" {
		t.Fatalf("incomplete entry: %+v", entry)
	}
}
