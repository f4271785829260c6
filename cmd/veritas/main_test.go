package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Harshitk-cp/veritas/internal/api"
	"github.com/Harshitk-cp/veritas/internal/apiclient"
	"github.com/Harshitk-cp/veritas/internal/domain"
	"github.com/Harshitk-cp/veritas/internal/llm"
	"github.com/Harshitk-cp/veritas/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	url      string
	llm      *llm.MockClient
	rankings *store.MemoryRankingStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		llm:      llm.NewMockClient(),
		rankings: store.NewMemoryRankingStore(),
	}
	app := api.NewApp(api.Options{
		LLMClient: env.llm,
		Rankings:  env.rankings,
	}, zap.NewNop())
	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)
	env.url = srv.URL
	return env
}

func runCLI(t *testing.T, sig chan os.Signal, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr, sig)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no command", nil, exitUsage},
		{"unknown command", []string{"frobnicate"}, exitUsage},
		{"search without question", []string{"search"}, exitUsage},
		{"bad flag", []string{"-attempts", "many", "rankings"}, exitUsage},
		{"help", []string{"-h"}, exitOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI(t, nil, "", tt.args...)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestRun_VerifyRecordsRanking(t *testing.T) {
	env := newTestEnv(t)

	code, out, errOut := runCLI(t, nil, "", "-addr", env.url, "-source", "chatgpt",
		"verify", "The Eiffel Tower is in Paris. It opened in 1889.")
	require.Equal(t, exitOK, code, errOut)
	assert.Contains(t, out, "1. [UNCONFIRMED 0%] The Eiffel Tower is in Paris.")
	assert.Contains(t, out, "Confidence: "+domain.BandReason(0))
	assert.Contains(t, out, "2 claims: 0 verified, 0 false, 2 unconfirmed, 0 opinions")

	tallies, err := env.rankings.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tallies, 1)
	assert.Equal(t, "chatgpt", tallies[0].AISource)
	assert.Equal(t, 2, tallies[0].Unconfirmed)

	code, out, _ = runCLI(t, nil, "", "-addr", env.url, "rankings")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "chatgpt")
}

func TestRun_VerifyWithoutSourceDoesNotRecord(t *testing.T) {
	env := newTestEnv(t)

	code, _, _ := runCLI(t, nil, "Water is wet.", "-addr", env.url, "verify")
	require.Equal(t, exitOK, code)
	assert.Equal(t, []string{"Water is wet."}, env.llm.ExtractClaimsCalls)

	tallies, err := env.rankings.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tallies)
}

func TestRun_InterruptCancelsWithoutRecording(t *testing.T) {
	env := newTestEnv(t)
	env.llm.Block = true

	sig := make(chan os.Signal, 1)
	sig <- os.Interrupt

	done := make(chan int, 1)
	go func() {
		code, _, _ := runCLI(t, sig, "", "-addr", env.url, "-source", "chatgpt", "verify", "Something happened.")
		done <- code
	}()

	select {
	case code := <-done:
		assert.Equal(t, exitInterrupted, code)
	case <-time.After(5 * time.Second):
		t.Fatal("verify did not stop after interrupt")
	}

	tallies, err := env.rankings.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tallies, "cancellation never triggers the ranking record")
}

func TestRun_FailedRequest(t *testing.T) {
	env := newTestEnv(t)

	code, _, errOut := runCLI(t, nil, "", "-addr", env.url, "-attempts", "1", "verify", "   ")
	assert.Equal(t, exitFailed, code)
	assert.Contains(t, errOut, string(domain.CodeValidation))
}

func TestRun_SearchAndRephrase(t *testing.T) {
	env := newTestEnv(t)
	env.llm.RephraseResponse = "A calmer version."

	code, out, _ := runCLI(t, nil, "", "-addr", env.url, "search", "is", "the", "sky", "blue?")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Mock answer")
	assert.Contains(t, out, "Trust score:")
	assert.Equal(t, []string{"is the sky blue?"}, env.llm.SearchCalls)

	code, out, _ = runCLI(t, nil, "THIS IS OUTRAGEOUS", "-addr", env.url, "rephrase", "-")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "A calmer version.\n", out)
}

func TestRenderRankings_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderRankings(&buf, nil)
	assert.Equal(t, "No rankings yet.\n", buf.String())
}

func TestSourceLine(t *testing.T) {
	s := domain.Source{
		Title: "", URL: "https://shop.example.com/p", Domain: "example.com",
		Trust: domain.TrustLow, Stance: domain.StanceContradicts, Commercial: true,
	}
	assert.Equal(t, "example.com <https://shop.example.com/p> (low trust, contradicts, commercial)", sourceLine(s))
}

func TestRenderVerification_ExplainsConfidence(t *testing.T) {
	var buf bytes.Buffer
	renderVerification(&buf, apiclient.VerifyResponse{
		Claims: []domain.Claim{
			{Text: "Water boils at 100C.", Status: domain.ClaimVerified, Confidence: 95},
			{Text: "Jazz is best.", Status: domain.ClaimOpinion},
		},
		Summary: &domain.VerificationSummary{Verified: 1, Opinions: 1, Total: 2},
	}, 0)

	out := buf.String()
	assert.Contains(t, out, "Confidence: two or more independent high-trust sources agree")
	assert.Equal(t, 1, strings.Count(out, "Confidence:"), "opinions carry no confidence reason")
}
