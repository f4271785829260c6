package api

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/Harshitk-cp/veritas/internal/api/handlers"
	mw "github.com/Harshitk-cp/veritas/internal/api/middleware"
	"github.com/Harshitk-cp/veritas/internal/buildconfig"
	"github.com/Harshitk-cp/veritas/internal/domain"
	"github.com/Harshitk-cp/veritas/internal/llm"
	"github.com/Harshitk-cp/veritas/internal/service"
	"github.com/Harshitk-cp/veritas/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Options configures NewApp. A nil LLMClient is allowed; collaborator routes
// then answer 500 CONFIG_ERROR.
type Options struct {
	LLMClient           domain.LLMClient
	Rankings            domain.RankingStore
	MaxTextLength       int
	CollaboratorTimeout time.Duration
	RateLimitRPS        float64
	RateLimitBurst      int
	AllowedOrigins      []string
}

// App holds the router and the services the health and metrics endpoints report on.
type App struct {
	Router       *chi.Mux
	Verification *service.VerificationService
	Rankings     *service.RankingService
	store        domain.RankingStore
	metrics      *mw.MetricsCollector
	startTime    time.Time
}

func NewApp(opts Options, logger *zap.Logger) *App {
	if opts.Rankings == nil {
		opts.Rankings = store.NewMemoryRankingStore()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	// Services
	verificationSvc := service.NewVerificationService(opts.LLMClient, opts.MaxTextLength, opts.CollaboratorTimeout, logger)
	rephraseSvc := service.NewRephraseService(opts.LLMClient, opts.CollaboratorTimeout, logger)
	rankingSvc := service.NewRankingService(opts.Rankings, logger)

	// Handlers
	verificationHandler := handlers.NewVerificationHandler(verificationSvc, rephraseSvc)
	rankingHandler := handlers.NewRankingHandler(rankingSvc)

	r := chi.NewRouter()
	app := &App{
		Router:       r,
		Verification: verificationSvc,
		Rankings:     rankingSvc,
		store:        opts.Rankings,
		metrics:      mw.NewMetricsCollector(),
		startTime:    time.Now(),
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.metrics.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", mw.RequestIDHeader},
		ExposedHeaders: []string{mw.RequestIDHeader},
		MaxAge:         300,
	}))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/health", app.healthHandler())
	r.Get("/metrics", app.metricsHandler())

	r.Group(func(r chi.Router) {
		if opts.RateLimitRPS > 0 {
			r.Use(mw.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst))
		}

		r.Post("/verify", verificationHandler.Verify)
		r.Post("/search", verificationHandler.Search)
		r.Post("/rephrase", verificationHandler.Rephrase)

		r.Get("/rankings", rankingHandler.List)
		r.Post("/rankings", rankingHandler.Record)
	})

	return app
}

func (app *App) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := app.store.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "error": err.Error()})
			return
		}

		resp := map[string]string{"status": "ok"}
		for k, v := range buildconfig.VersionInfo() {
			resp[k] = v
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)
		requests := app.metrics.Snapshot()

		response := map[string]any{
			"uptime_seconds":     uptime.Seconds(),
			"uptime_human":       uptime.Round(time.Second).String(),
			"request_count":      requests.Requests,
			"error_count":        requests.Errors,
			"client_error_count": requests.ClientErrors,
			"server_error_count": requests.ServerErrors,
			"in_flight":          requests.InFlight,
			"verification":       app.Verification.Stats(),
			"goroutines":         runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		writeJSON(w, http.StatusOK, response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.RankingStore = (*store.MemoryRankingStore)(nil)
	_ domain.RankingStore = (*store.PostgresRankingStore)(nil)
	_ domain.RankingStore = (*store.RedisRankingStore)(nil)
	_ domain.LLMClient    = (*llm.OpenAIClient)(nil)
	_ domain.LLMClient    = (*llm.AnthropicClient)(nil)
	_ domain.LLMClient    = (*llm.GeminiClient)(nil)
	_ domain.LLMClient    = (*llm.CerebrasClient)(nil)
	_ domain.LLMClient    = (*llm.MockClient)(nil)
)
