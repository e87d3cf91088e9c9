package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"budgetapp/internal/auth"
	"budgetapp/internal/core"
	applog "budgetapp/internal/log"
	"budgetapp/internal/middleware/ratelimit"
	"budgetapp/internal/middleware/security"
	"budgetapp/internal/middleware/trace"
	"budgetapp/internal/services"
)

const (
	defaultSummaryTimeout = 7 * time.Second
	userIDKey             = "user_id"
)

// Summaries computes the monthly summary and alert report for a user.
type Summaries interface {
	MonthlySummary(ctx context.Context, userID int64, month string) (core.MonthlySummary, error)
	Alerts(ctx context.Context, userID int64, month string) (core.AlertReport, error)
}

// Pinger reports whether the ledger is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options wires a Server.
type Options struct {
	Addr               string
	Ledger             *services.LedgerService
	Summaries          Summaries
	Verifier           *auth.Verifier
	Ready              Pinger
	Logger             *applog.Logger
	RateLimitPerMinute int
	SummaryTimeout     time.Duration
}

// Server is the budget JSON API.
type Server struct {
	http.Server
	router         *gin.Engine
	ledger         *services.LedgerService
	summaries      Summaries
	verifier       *auth.Verifier
	ready          Pinger
	logger         *applog.Logger
	limiter        *ratelimit.Limiter
	detector       *security.Detector
	summaryTimeout time.Duration
	shutdownOnce   sync.Once
}

// NewServer builds the router and its middleware chain.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	timeout := opts.SummaryTimeout
	if timeout <= 0 {
		timeout = defaultSummaryTimeout
	}

	s := &Server{
		router:         gin.New(),
		ledger:         opts.Ledger,
		summaries:      opts.Summaries,
		verifier:       opts.Verifier,
		ready:          opts.Ready,
		logger:         logger,
		limiter:        ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector:       security.NewDetector(logger),
		summaryTimeout: timeout,
	}
	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	clientIP := func(c *gin.Context) string { return s.detector.ExtractClientIP(c.Request) }

	r := s.router
	r.Use(
		gin.CustomRecovery(s.handlePanic),
		trace.NewMiddleware(s.logger, clientIP).Handler(),
		applog.Middleware(s.logger, applog.ComponentHTTP, trace.GetRequestID),
		s.detector.Handler(),
		security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Handler(),
		s.limiter.Middleware(clientIP, nil),
	)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})

	r.GET("/", handleRoot)
	r.GET("/healthz", handleHealth)
	r.GET("/readyz", s.handleReady)

	api := r.Group("/", s.requireUser())

	api.POST("/categories", s.handleCreateCategory)
	api.GET("/categories", s.handleListCategories)
	api.GET("/categories/:id", s.handleGetCategory)
	api.PUT("/categories/:id", s.handleUpdateCategory)
	api.DELETE("/categories/:id", s.handleDeleteCategory)

	api.POST("/transactions", s.handleCreateTransaction)
	api.GET("/transactions", s.handleListTransactions)
	api.GET("/transactions/:id", s.handleGetTransaction)
	api.PUT("/transactions/:id", s.handleUpdateTransaction)
	api.DELETE("/transactions/:id", s.handleDeleteTransaction)

	api.POST("/budgets", s.handleCreateBudget)
	api.GET("/budgets", s.handleListBudgets)
	api.GET("/budgets/:id", s.handleGetBudget)
	api.PUT("/budgets/:id", s.handleUpdateBudget)
	api.DELETE("/budgets/:id", s.handleDeleteBudget)

	api.GET("/summary/monthly/:month", s.handleMonthlySummary)
	api.GET("/summary/alerts/:month", s.handleAlerts)
	api.GET("/summary/export/:month", s.handleExportSummary)
}

// Shutdown stops the limiter cleanup and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handlePanic(c *gin.Context, recovered any) {
	s.logger.ErrorContext(c.Request.Context(), "Panic recovered",
		"panic", recovered,
		applog.FieldPath, c.Request.URL.Path,
		applog.FieldRequestID, trace.GetRequestID(c.Request.Context()))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": detailInternal})
}

// requireUser resolves the bearer token into the caller's user ID.
func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.BearerToken(c.GetHeader("Authorization"))
		if !ok || s.verifier == nil {
			unauthorized(c)
			return
		}
		id, err := s.verifier.UserID(token)
		if err != nil {
			applog.FromContext(c.Request.Context()).DebugContext(c.Request.Context(), "Rejected bearer token", applog.FieldError, err.Error())
			unauthorized(c)
			return
		}

		c.Set(userIDKey, id)
		ctx := c.Request.Context()
		c.Request = c.Request.WithContext(applog.NewContext(ctx, applog.FromContext(ctx).With(applog.FieldUserID, id)))
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detailUnauthorized})
}

// currentUser returns the authenticated user set by requireUser.
func currentUser(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}

func handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Budget App API is running"})
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleReady(c *gin.Context) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready.Ping(ctx); err != nil {
			s.logger.WarnContext(ctx, "Readiness check failed", applog.FieldError, err.Error())
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
