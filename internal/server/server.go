package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/feedback-survey/internal/config"
	"github.com/jonathan/feedback-survey/internal/db"
	"github.com/jonathan/feedback-survey/internal/metrics"
	"github.com/jonathan/feedback-survey/internal/notify"
	"github.com/jonathan/feedback-survey/internal/schemas"
	"github.com/jonathan/feedback-survey/internal/server/ratelimit"
	"github.com/jonathan/feedback-survey/internal/sessions"
	"github.com/jonathan/feedback-survey/internal/survey"
	"golang.org/x/sync/errgroup"
)

// ResponseStore persists and reads submitted survey responses. *db.DB implements it.
type ResponseStore interface {
	InsertSurveyResponse(ctx context.Context, rec survey.Record) (uuid.UUID, error)
	GetSurveyResponse(ctx context.Context, id uuid.UUID) (*db.StoredResponse, error)
	ListSurveyResponses(ctx context.Context, limit int) ([]db.StoredResponse, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer    *http.Server
	db            *db.DB
	store         ResponseStore
	sessions      *sessions.Manager
	hub           *notify.Hub
	metrics       *metrics.Collector
	rateLimiter   *ratelimit.Limiter
	corsOrigin    string
	submitTimeout time.Duration
}

// New creates a server from resolved configuration. Without a database URL the
// server still starts; submissions then fail with ErrStoreNotConfigured.
func New(cfg config.Config) (*Server, error) {
	var database *db.DB
	if cfg.DatabaseURL != "" {
		var err error
		database, err = db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
	}

	var store ResponseStore
	if database != nil {
		store = database
	}

	s := newServer(cfg, store, ratelimit.LoadConfig())
	s.db = database
	return s, nil
}

// newServer wires the server around store, which may be nil.
func newServer(cfg config.Config, store ResponseStore, rl *ratelimit.Config) *Server {
	s := &Server{
		store:         store,
		hub:           notify.NewHub(),
		rateLimiter:   ratelimit.NewLimiter(rl),
		corsOrigin:    cfg.CORSOrigin,
		submitTimeout: cfg.SubmitTimeout.Std(),
	}
	if s.corsOrigin == "" {
		s.corsOrigin = "*"
	}
	if !cfg.DisableMetrics {
		s.metrics = metrics.NewCollector("survey")
	}

	s.sessions = sessions.NewManager(
		sessions.Config{TTL: cfg.SessionTTL.Std(), CleanupInterval: cfg.CleanupInterval.Std()},
		s.newSession,
		sessions.WithCountHook(s.metrics.SetActiveSessions),
		sessions.WithExpireHook(func(id uuid.UUID) { s.hub.CloseKey(id.String()) }),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /survey", s.handleSurvey)

	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("PUT /sessions/{id}/fields/{field_id}", s.handleSetField)
	mux.HandleFunc("POST /sessions/{id}/advance", s.handleAdvance)
	mux.HandleFunc("POST /sessions/{id}/retreat", s.handleRetreat)
	mux.HandleFunc("POST /sessions/{id}/submit", s.handleSubmit)
	mux.HandleFunc("GET /sessions/{id}/events", s.handleEvents)

	mux.HandleFunc("GET /responses", s.handleListResponses)
	mux.HandleFunc("GET /responses/{id}", s.handleGetResponse)

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // event streams stay open
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// newSession builds the survey session for id with its notifiers attached.
func (s *Server) newSession(id uuid.UUID) *survey.Session {
	key := id.String()
	return survey.NewSession(
		survey.SubmitFunc(s.submitRecord),
		survey.WithNotifier(notify.Multi{notify.LogNotifier{Prefix: key}, s.hub.For(key)}),
	)
}

// submitRecord is the Submitter shared by every session.
func (s *Server) submitRecord(ctx context.Context, rec survey.Record) error {
	start := time.Now()
	err := s.persist(ctx, rec)

	status := metrics.StatusSucceeded
	if err != nil {
		status = metrics.StatusFailed
	}
	s.metrics.RecordSubmission(status, time.Since(start))
	return err
}

func (s *Server) persist(ctx context.Context, rec survey.Record) error {
	if s.store == nil {
		return ErrStoreNotConfigured
	}
	if err := schemas.ValidateRecord(rec); err != nil {
		return fmt.Errorf("record rejected by response schema: %w", err)
	}

	if s.submitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.submitTimeout)
		defer cancel()
	}

	id, err := s.store.InsertSurveyResponse(ctx, rec)
	if err != nil {
		return err
	}
	log.Printf("[survey] Stored response %s submitted at %s", id, rec.Timestamp())
	return nil
}

// Start begins listening for requests and blocks until ctx is cancelled, an
// interrupt arrives, or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")

		// Event streams only end when their channel closes.
		s.hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	s.Close()
	log.Println("Server stopped")
	return err
}

// Close releases background workers and the database pool.
func (s *Server) Close() {
	s.rateLimiter.Stop()
	s.sessions.Stop()
	s.hub.Close()
	if s.db != nil {
		s.db.Close()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush lets event streams pass through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withLogging adds request logging and HTTP metrics
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		log.Printf("[%s] %s completed %d in %v", r.Method, r.URL.Path, rec.status, elapsed)
		s.metrics.RecordHTTPRequest(r.Method, routeLabel(r), rec.status, elapsed)
	})
}

// routeLabel returns the matched route pattern without its method, so metric
// labels do not grow with session ids.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}
	if _, path, ok := strings.Cut(r.Pattern, " "); ok {
		return path
	}
	return r.Pattern
}

// extractClientID extracts the client identifier from the request.
// It uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
