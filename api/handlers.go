package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"digestly/history"
	"digestly/llm"
	"digestly/model"
	"digestly/source"
	"digestly/summary"
)

// SummarizeRequest is the body of POST /api/summarize. All settings fields
// are optional; absent ones fall back to the server's configuration.
type SummarizeRequest struct {
	Input    string `json:"input"`
	Filename string `json:"filename,omitempty"`
	URI      string `json:"uri,omitempty"`

	Provider            string `json:"provider,omitempty"`
	Model               string `json:"model,omitempty"`
	Length              string `json:"length,omitempty"`
	Language            string `json:"language,omitempty"`
	UseOriginalLanguage *bool  `json:"useOriginalLanguage,omitempty"`
}

// SummarizeHandler handles summarization requests
func (s *Server) SummarizeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	settings := s.defaults
	if req.Provider != "" {
		provider, err := llm.ParseProvider(req.Provider)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		settings.Provider = provider
	}
	if req.Model != "" {
		settings.Model = req.Model
	}
	if req.Length != "" {
		length, err := llm.ParseLength(req.Length)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		settings.Length = length
	}
	if req.Language != "" {
		settings.DisplayLanguage = req.Language
	}
	if req.UseOriginalLanguage != nil {
		settings.UseOriginalLanguage = *req.UseOriginalLanguage
	}

	var hint *source.DocumentHint
	if req.Filename != "" || req.URI != "" {
		hint = &source.DocumentHint{Filename: req.Filename, URI: req.URI}
	}

	ctx, done := s.inflight.Begin(r.Context())
	defer done()

	result, err := s.orchestrator.Run(ctx, summary.Request{Input: req.Input, Document: hint}, settings)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if model.IsUnknown(err) {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, result)
		return
	}

	if s.history != nil {
		if id, err := s.history.Add(result); err != nil {
			s.logger.Error("failed to store summary", zap.Error(err))
		} else if id != "" {
			result.ID = id
		}
	}
	writeJSON(w, http.StatusOK, result)
}

// HistoryHandler handles listing, fetching and deleting stored summaries
func (s *Server) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/history")
	id = strings.Trim(id, "/")

	switch {
	case r.Method == http.MethodGet && id == "":
		records, err := s.history.List()
		if err != nil {
			http.Error(w, "Failed to list history", http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []model.SummaryResult{}
		}
		writeJSON(w, http.StatusOK, records)

	case r.Method == http.MethodGet:
		record, err := s.history.Get(id)
		if err != nil {
			if errors.Is(err, history.ErrNotFound) {
				http.Error(w, "Not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to load summary", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, record)

	case r.Method == http.MethodDelete && id != "":
		if err := s.history.Delete(id); err != nil {
			http.Error(w, "Failed to delete summary", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// SearchHandler handles history search requests
func (s *Server) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records, err := s.history.Search(r.URL.Query().Get("q"))
	if err != nil {
		http.Error(w, "Failed to search history", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []model.SummaryResult{}
	}
	writeJSON(w, http.StatusOK, records)
}

// ProvidersHandler lists the known LLM providers and their models
func (s *Server) ProvidersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, llm.Catalogue())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}
