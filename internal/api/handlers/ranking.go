package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Harshitk-cp/veritas/internal/domain"
	"github.com/Harshitk-cp/veritas/internal/service"
)

type RankingHandler struct {
	svc *service.RankingService
}

func NewRankingHandler(svc *service.RankingService) *RankingHandler {
	return &RankingHandler{svc: svc}
}

type rankingsResponse struct {
	Rankings []domain.AIRanking `json:"rankings"`
}

func (h *RankingHandler) List(w http.ResponseWriter, r *http.Request) {
	rankings, err := h.svc.List(r.Context())
	if err != nil {
		writeDomainError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rankingsResponse{Rankings: rankings})
}

// Record accepts {aiSource, verified?, false?, unconfirmed?, opinions?}.
// Fields are decoded one by one so a non-string aiSource is rejected rather
// than coerced.
func (h *RankingHandler) Record(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := decodeBody(w, r, &body); err != nil {
		writeDomainError(w, err, http.StatusInternalServerError)
		return
	}

	var aiSource string
	raw, ok := body["aiSource"]
	if !ok || json.Unmarshal(raw, &aiSource) != nil {
		writeDomainError(w, domain.ErrAISourceRequired, http.StatusInternalServerError)
		return
	}

	var t domain.Tallies
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"verified", &t.Verified},
		{"false", &t.False},
		{"unconfirmed", &t.Unconfirmed},
		{"opinions", &t.Opinions},
	} {
		raw, ok := body[f.name]
		if !ok || string(raw) == "null" {
			continue
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			writeDomainError(w, domain.NewValidationError(fmt.Sprintf("%s must be a non-negative integer", f.name)), http.StatusInternalServerError)
			return
		}
	}

	if err := h.svc.Record(r.Context(), aiSource, t); err != nil {
		writeDomainError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
