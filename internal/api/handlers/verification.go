package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/veritas/internal/service"
)

type VerificationHandler struct {
	svc      *service.VerificationService
	rephrase *service.RephraseService
}

func NewVerificationHandler(svc *service.VerificationService, rephrase *service.RephraseService) *VerificationHandler {
	return &VerificationHandler{svc: svc, rephrase: rephrase}
}

func (h *VerificationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req service.VerifyRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeDomainError(w, err, http.StatusBadGateway)
		return
	}

	resp, err := h.svc.Verify(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *VerificationHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req service.SearchRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeDomainError(w, err, http.StatusBadGateway)
		return
	}

	resp, err := h.svc.Search(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type rephraseRequest struct {
	Text string `json:"text"`
}

type rephraseResponse struct {
	Rephrased string `json:"rephrased"`
}

// Rephrase reports collaborator failures as 500.
func (h *VerificationHandler) Rephrase(w http.ResponseWriter, r *http.Request) {
	var req rephraseRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeDomainError(w, err, http.StatusInternalServerError)
		return
	}

	out, err := h.rephrase.Rephrase(r.Context(), req.Text)
	if err != nil {
		writeDomainError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rephraseResponse{Rephrased: out})
}
