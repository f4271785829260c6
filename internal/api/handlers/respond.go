package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Harshitk-cp/veritas/internal/domain"
)

const (
	maxBodyBytes = 1 << 20

	// StatusClientClosedRequest is written when the caller went away first.
	StatusClientClosedRequest = 499
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code domain.ErrorCode, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: string(code)})
}

// statusFor maps an error code to its HTTP status. upstream is the status
// used for UPSTREAM_ERROR, which differs per route.
func statusFor(code domain.ErrorCode, upstream int) int {
	switch code {
	case domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeTimeout:
		return http.StatusGatewayTimeout
	case domain.CodeConfig:
		return http.StatusInternalServerError
	case domain.CodeDecode:
		return http.StatusBadGateway
	case domain.CodeCancelled:
		return StatusClientClosedRequest
	default:
		return upstream
	}
}

// writeDomainError writes err as {"error","code"}. Only the classified
// message is sent; wrapped causes stay in the logs.
func writeDomainError(w http.ResponseWriter, err error, upstream int) {
	var de *domain.Error
	if !errors.As(err, &de) {
		de = domain.NewUpstreamError("the verification service is unavailable, please try again", err)
	}

	status := statusFor(de.Code, upstream)
	if de.Code == domain.CodeCancelled {
		w.WriteHeader(status)
		return
	}
	writeError(w, status, de.Code, de.Message)
}

// decodeBody reads a JSON request body into v. The body is read to EOF so the
// server notices when the client goes away and cancels the request context.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _, _ = io.Copy(io.Discard, body) }()

	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return domain.NewValidationError("request body is too large")
		case errors.Is(err, io.EOF):
			return domain.NewValidationError("request body is required")
		default:
			return domain.NewValidationError("invalid request body")
		}
	}
	return nil
}

// MethodNotAllowed and NotFound keep error responses JSON for every path.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, domain.CodeValidation, "method not allowed")
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, domain.CodeValidation, "not found")
}
