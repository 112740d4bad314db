package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/req-consultant/internal/config"
	"github.com/jonathan/req-consultant/internal/db"
	"github.com/jonathan/req-consultant/internal/llm"
	"github.com/jonathan/req-consultant/internal/orchestrator"
	"github.com/jonathan/req-consultant/internal/server/middleware"
	"github.com/jonathan/req-consultant/internal/server/ratelimit"
)

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string

	// Model settings used for every analysis run
	Provider string
	Model    string
	APIKey   string

	// Loop settings passed through to the orchestrator
	MaxIterations int
	FitThreshold  float64

	// RequireAuth protects submission and analysis endpoints with JWT
	RequireAuth bool
}

// Server represents the HTTP server
type Server struct {
	httpServer    *http.Server
	db            *db.DB
	cfg           Config
	validator     *validator.Validate
	rateLimiter   *ratelimit.Limiter
	jwtService    *JWTService
	clientService *ClientService
	authHandler   *AuthHandler
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Server{
		db:        database,
		cfg:       cfg,
		validator: validator.New(),
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.clientService = NewClientService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(s.clientService, s.jwtService)

	mux := http.NewServeMux()

	// Auth endpoints
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)

	// Requisition endpoints
	mux.Handle("POST /requisitions", s.maybeAuth(http.HandlerFunc(s.handleCreateRequisition)))
	mux.HandleFunc("GET /requisitions", s.handleListRequisitions)
	mux.HandleFunc("GET /requisitions/{id}", s.handleGetRequisition)

	// Analysis endpoints
	mux.Handle("POST /requisitions/{id}/analyze", s.maybeAuth(http.HandlerFunc(s.handleAnalyze)))
	mux.Handle("POST /requisitions/{id}/analyze/stream", s.maybeAuth(http.HandlerFunc(s.handleAnalyzeStream)))
	mux.HandleFunc("GET /requisitions/{id}/analysis", s.handleGetLatestAnalysis)
	mux.HandleFunc("GET /analyses", s.handleListAnalyses)
	mux.HandleFunc("GET /analyses/{id}", s.handleGetAnalysis)

	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 600 * time.Second, // streaming analyses hold the response open
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests and blocks until shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// newOrchestrator builds a fresh model client and orchestrator for one
// analysis run. Runs never share orchestrator state.
func (s *Server) newOrchestrator(ctx context.Context, sink orchestrator.Sink) (*orchestrator.Orchestrator, llm.Client, error) {
	llmConfig := llm.DefaultConfig(s.cfg.APIKey)
	if s.cfg.Provider != "" {
		llmConfig.Provider = llm.Provider(s.cfg.Provider)
	}
	if s.cfg.Model != "" {
		llmConfig.Model = s.cfg.Model
	}

	client, err := llm.NewClient(ctx, llmConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create model client: %w", err)
	}

	o := orchestrator.New(client, orchestrator.Config{
		MaxIterations: s.cfg.MaxIterations,
		FitThreshold:  s.cfg.FitThreshold,
	}, sink)
	return o, client, nil
}

// maybeAuth wraps a handler with JWT validation when RequireAuth is set
func (s *Server) maybeAuth(next http.Handler) http.Handler {
	if !s.cfg.RequireAuth {
		return next
	}
	return middleware.Auth(s.jwtService.AsTokenValidator())(next)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// extractClientID extracts the client identifier from the request.
// Uses the IP address from RemoteAddr; X-Forwarded-For is deliberately
// ignored since it is client-controlled.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
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

	writeJSON(w, http.StatusTooManyRequests, response)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// writeError writes an error JSON response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
