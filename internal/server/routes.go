package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jobdeck/jobdeck-assistant/internal/dialog"
	"github.com/jobdeck/jobdeck-assistant/internal/filters"
	"github.com/jobdeck/jobdeck-assistant/internal/knowledge"
)

// questionPreviewLimit caps the /ai/questions listing.
const questionPreviewLimit = 50

type assistantRequest struct {
	Input          string         `json:"input"`
	CurrentFilters *filters.State `json:"currentFilters"`
}

type searchRequest struct {
	Query string `json:"query"`
}

func registerRoutes(r chi.Router, engine *dialog.Engine, kb *knowledge.Base, log *zap.Logger) {
	r.Post("/ai/assistant", assistantHandler(engine, log))
	r.Post("/ai/search", searchHandler(kb))
	r.Get("/ai/questions", questionsHandler(kb))
	r.Get("/ai/random-question", randomQuestionHandler(kb))
}

func assistantHandler(engine *dialog.Engine, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req assistantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body: " + err.Error()})
			return
		}
		if strings.TrimSpace(req.Input) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Input is required"})
			return
		}

		result := engine.Run(r.Context(), req.Input, req.CurrentFilters)
		log.Debug("assistant turn served",
			zap.String("action", string(result.Action.Type)),
			zap.Bool("fallback", result.Fallback),
		)
		writeJSON(w, http.StatusOK, result)
	}
}

func searchHandler(kb *knowledge.Base) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body: " + err.Error()})
			return
		}
		if strings.TrimSpace(req.Query) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Query is required"})
			return
		}

		results := kb.Search(req.Query)
		if results == nil {
			results = []knowledge.Result{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"results": results,
			"total":   len(results),
		})
	}
}

func questionsHandler(kb *knowledge.Base) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		all := kb.All()
		preview := all
		if len(preview) > questionPreviewLimit {
			preview = preview[:questionPreviewLimit]
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"total":     len(all),
			"questions": preview,
		})
	}
}

func randomQuestionHandler(kb *knowledge.Base) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, kb.Random())
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
