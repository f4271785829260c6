package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Harshitk-cp/veritas/internal/apiclient"
	"github.com/Harshitk-cp/veritas/internal/domain"
	"github.com/Harshitk-cp/veritas/internal/lifecycle"
	"github.com/Harshitk-cp/veritas/internal/result"
	"go.uber.org/zap"
)

// Exit codes
const (
	exitOK          = 0
	exitFailed      = 1
	exitUsage       = 2
	exitInterrupted = 130
)

// Advisory messages rotate every messageEvery progress ticks.
const messageEvery = 4

type cli struct {
	client *apiclient.Client
	out    io.Writer
	errOut io.Writer
	sig    <-chan os.Signal
	tick   time.Duration
	logger *zap.Logger
}

// await submits fn on h and prints progress to errOut until it settles. An
// interrupt tears the hook down.
func await[T any](ctx context.Context, c *cli, h *lifecycle.Hook[T], fn func(context.Context) result.Result[T]) lifecycle.Snapshot[T] {
	defer h.Teardown()

	h.Submit(ctx, fn)

	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	printed := false
	ticks := 0
	for {
		select {
		case <-h.Done():
			if printed {
				fmt.Fprintf(c.errOut, "\r%-72s\r", "")
			}
			return h.Snapshot()
		case <-c.sig:
			c.logger.Debug("interrupted")
			h.Teardown()
		case <-ticker.C:
			ticks++
			s := h.Snapshot()
			if s.State != lifecycle.StateLoading {
				continue
			}
			msg := s.Message
			if ticks%messageEvery == 0 {
				msg = h.Tick()
			}
			fmt.Fprintf(c.errOut, "\r%-72s", fmt.Sprintf("%s (%ds)", msg, int(s.Elapsed.Seconds())))
			printed = true
		}
	}
}

// finish reports a non-successful outcome and returns its exit code.
func (c *cli) finish(state lifecycle.State, err *domain.Error, elapsed time.Duration) int {
	switch state {
	case lifecycle.StateSuccess:
		c.logger.Debug("request finished", zap.Duration("elapsed", elapsed))
		return exitOK
	case lifecycle.StateCancelled:
		fmt.Fprintln(c.errOut, "cancelled")
		return exitInterrupted
	default:
		if err == nil {
			err = domain.NewUpstreamError("request failed", nil)
		}
		c.logger.Debug("request failed", zap.String("code", string(err.Code)), zap.Error(err))
		fmt.Fprintf(c.errOut, "error: %s (%s)\n", err.Message, err.Code)
		return exitFailed
	}
}

func (c *cli) verify(ctx context.Context, text, source string) int {
	h := lifecycle.New[apiclient.VerifyResponse]()

	// Only a completed check counts towards the rankings. The hook never
	// calls OnSuccess for a cancelled request.
	if source = strings.TrimSpace(source); source != "" {
		h.OnSuccess(func(v apiclient.VerifyResponse) {
			if v.Summary == nil || v.Summary.Total == 0 {
				return
			}
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()
			if r := c.client.RecordRanking(rctx, source, v.Summary.Tallies()); !r.IsOk() {
				c.logger.Warn("failed to record ranking", zap.String("ai_source", source), zap.Error(r.Err()))
				fmt.Fprintf(c.errOut, "warning: ranking not recorded: %s\n", r.Err().Message)
			}
		})
	}

	s := await(ctx, c, h, func(ctx context.Context) result.Result[apiclient.VerifyResponse] {
		return c.client.Verify(ctx, text, source)
	})
	if code := c.finish(s.State, s.Err, s.Elapsed); code != exitOK {
		return code
	}
	renderVerification(c.out, s.Value, s.Elapsed)
	return exitOK
}

func (c *cli) search(ctx context.Context, query string) int {
	h := lifecycle.New[domain.SearchResult](
		"Searching for an answer...",
		"Checking the sources...",
		"Almost there...",
	)
	s := await(ctx, c, h, func(ctx context.Context) result.Result[domain.SearchResult] {
		return c.client.Search(ctx, query)
	})
	if code := c.finish(s.State, s.Err, s.Elapsed); code != exitOK {
		return code
	}
	renderSearch(c.out, s.Value)
	return exitOK
}

func (c *cli) rephrase(ctx context.Context, text string) int {
	h := lifecycle.New[string]("Rephrasing...")
	s := await(ctx, c, h, func(ctx context.Context) result.Result[string] {
		return c.client.Rephrase(ctx, text)
	})
	if code := c.finish(s.State, s.Err, s.Elapsed); code != exitOK {
		return code
	}
	fmt.Fprintln(c.out, s.Value)
	return exitOK
}

func (c *cli) rankings(ctx context.Context) int {
	h := lifecycle.New[[]domain.AIRanking]("Loading rankings...")
	s := await(ctx, c, h, c.client.Rankings)
	if code := c.finish(s.State, s.Err, s.Elapsed); code != exitOK {
		return code
	}
	renderRankings(c.out, s.Value)
	return exitOK
}
