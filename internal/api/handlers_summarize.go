package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dgallion1/docsum/internal/summarize"
)

// maxSentences caps the sentences a caller may ask for.
const maxSentences = 100

type summarizeRequest struct {
	Text      string `json:"text"`
	Sentences int    `json:"sentences"`
}

type summarizeResponse struct {
	Sentences []string         `json:"sentences"`
	Report    summarize.Report `json:"report"`
	Warning   string           `json:"warning,omitempty"`
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	// The pipeline runs inside the request, so its input stays small.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxTextBytes)

	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("request body exceeds %d bytes; upload larger input to /api/summarize/file", s.cfg.MaxTextBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}
	n, err := s.sentenceCount(req.Sentences)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rep := s.pipeline.Run(r.Context(), req.Text, n)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summarizeResponse{
		Sentences: rep.Sentences,
		Report:    rep,
		Warning:   summarize.ShortInputWarning(rep.OriginalWords, s.cfg.MinInputWords),
	})
}

// sentenceCount applies the configured default to 0 and rejects out-of-range values.
func (s *Server) sentenceCount(n int) (int, error) {
	switch {
	case n == 0:
		return s.cfg.SentenceCount, nil
	case n < 0 || n > maxSentences:
		return 0, errors.New("sentences must be between 1 and 100")
	}
	return n, nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
