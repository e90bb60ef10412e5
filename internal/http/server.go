package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"smartfinance/internal/advisor"
	"smartfinance/internal/log"
	"smartfinance/internal/middleware/ratelimit"
	"smartfinance/internal/middleware/security"
	"smartfinance/internal/middleware/trace"
	"smartfinance/internal/services"
)

// ReadinessCheck reports whether a dependency can serve requests.
type ReadinessCheck func(ctx context.Context) error

// Deps are the services behind the API.
type Deps struct {
	Imports  *services.ImportService
	Budgets  *services.BudgetService
	Receipts *services.ReceiptService
	Advisor  *advisor.Service
	Logger   *log.Logger

	// VisionProvider names the recognition backend in receipt logs.
	VisionProvider string

	// Checks run on /readyz, keyed by dependency name.
	Checks map[string]ReadinessCheck
}

// Options tune request limits.
type Options struct {
	MaxUploadBytes     int64
	RateLimitPerMinute int
}

func DefaultOptions() Options {
	return Options{
		MaxUploadBytes:     10 << 20,
		RateLimitPerMinute: 60,
	}
}

type Server struct {
	http.Server
	deps    Deps
	opts    Options
	logger  *log.Logger
	events  *log.StructuredLogger
	started time.Time

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps, opts Options) *Server {
	def := DefaultOptions()
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = def.MaxUploadBytes
	}
	if opts.RateLimitPerMinute <= 0 {
		opts.RateLimitPerMinute = def.RateLimitPerMinute
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	limiterCfg := ratelimit.DefaultConfig()
	limiterCfg.RequestsPerMinute = opts.RateLimitPerMinute

	s := &Server{
		deps:             deps,
		opts:             opts,
		logger:           logger,
		events:           log.NewStructuredLogger(logger),
		started:          time.Now(),
		rateLimiter:      ratelimit.NewLimiter(limiterCfg),
		securityDetector: security.NewDetector(),
	}
	s.traceMiddleware = trace.NewMiddleware(s.securityDetector.ExtractClientIP, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/budget", s.handleGetBudget)
	mux.HandleFunc("PUT /api/budget", s.handlePutBudget)
	mux.HandleFunc("GET /api/budget/recommendation", s.handleRecommendation)
	mux.HandleFunc("GET /api/budget/plan", s.handlePlan)

	mux.HandleFunc("POST /api/imports", s.handleImport)
	mux.HandleFunc("GET /api/imports/sheet", s.handleImportSheet)

	mux.HandleFunc("POST /api/receipts", s.handleScanReceipt)
	mux.HandleFunc("GET /api/receipts", s.handleListReceipts)
	mux.HandleFunc("GET /api/receipts/categories", s.handleReceiptCategories)

	mux.HandleFunc("POST /api/advisor/chat", s.handleAdvisorChat)

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded, try again later").Write(w)
	})(handler)
	handler = s.securityDetector.Middleware(func(w http.ResponseWriter, r *http.Request) {
		BadRequestError(CodeSuspicious, "request rejected").Write(w)
	})(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown stops background routines and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
