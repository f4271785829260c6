package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Harshitk-cp/veritas/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code     domain.ErrorCode
		upstream int
		want     int
	}{
		{domain.CodeValidation, http.StatusBadGateway, http.StatusBadRequest},
		{domain.CodeUpstream, http.StatusBadGateway, http.StatusBadGateway},
		{domain.CodeUpstream, http.StatusInternalServerError, http.StatusInternalServerError},
		{domain.CodeTimeout, http.StatusBadGateway, http.StatusGatewayTimeout},
		{domain.CodeConfig, http.StatusBadGateway, http.StatusInternalServerError},
		{domain.CodeDecode, http.StatusBadGateway, http.StatusBadGateway},
		{domain.CodeCancelled, http.StatusBadGateway, StatusClientClosedRequest},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.code, tt.upstream))
		})
	}
}

func TestWriteDomainError_HidesUnclassifiedCauses(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, errors.New("pq: password authentication failed"), http.StatusBadGateway)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.Contains(t, rec.Body.String(), `"code":"UPSTREAM_ERROR"`)
}

func TestDecodeBody_ReadsToEOF(t *testing.T) {
	body := strings.NewReader(`{"text":"x"}` + strings.Repeat(" ", 4096) + "\n")
	r := httptest.NewRequest(http.MethodPost, "/verify", body)
	w := httptest.NewRecorder()

	var req struct {
		Text string `json:"text"`
	}
	require.NoError(t, decodeBody(w, r, &req))
	assert.Equal(t, "x", req.Text)
	assert.Zero(t, body.Len())
}
