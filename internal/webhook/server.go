package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mattjoyce/chirpgw/internal/config"
	"github.com/mattjoyce/chirpgw/internal/relay"
)

const livenessBody = "chirpgw is alive and happy!"

// Server represents the webhook HTTP server.
type Server struct {
	config Config
	queue  DeliveryQueuer
	logger *slog.Logger
	server *http.Server
}

// New creates a new webhook server instance.
func New(cfg Config, queue DeliveryQueuer, logger *slog.Logger) *Server {
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = config.DefaultMaxBodySize
	}
	return &Server{
		config: cfg,
		queue:  queue,
		logger: logger,
	}
}

// FromGlobalConfig converts the loaded config to webhook.Config.
func FromGlobalConfig(cfg *config.Config) (Config, error) {
	if cfg.Webhook.Secret == "" {
		return Config{}, fmt.Errorf("webhook secret is not configured")
	}

	maxBodySize, err := config.ParseMaxBodySize(cfg.Webhook.MaxBodySize)
	if err != nil {
		return Config{}, fmt.Errorf("invalid max_body_size %q: %w", cfg.Webhook.MaxBodySize, err)
	}

	return Config{
		Listen:      cfg.Webhook.Listen,
		Secret:      cfg.Webhook.Secret,
		Keyword:     cfg.Relay.Keyword,
		MaxBodySize: maxBodySize,
	}, nil
}

// Start starts the webhook HTTP server (blocking).
func (s *Server) Start(ctx context.Context) error {
	router := s.setupRoutes()

	s.server = &http.Server{
		Addr:         s.config.Listen,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("webhook server starting", "listen", s.config.Listen, "keyword", s.config.Keyword)

	// Run server in goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("webhook server error: %w", err)
	}
}

// setupRoutes configures the HTTP router.
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Post("/webhook", s.handleWebhook)

	return r
}

// loggingMiddleware logs HTTP requests (excludes sensitive payloads).
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("webhook request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// handleRoot handles GET / with a static liveness string.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, livenessBody)
}

// handleWebhook classifies the inbound event and responds exactly once.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	// Enforce body size limit
	limitedReader := io.LimitReader(r.Body, s.config.MaxBodySize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to read request body")
		return
	}
	if int64(len(body)) > s.config.MaxBodySize {
		s.respondError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	var event InboundEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	switch ParseEventType(event.Type) {
	case EventVerification:
		s.handleVerification(w, event)
	case EventMessageCreated:
		s.handleMessageCreated(w, r, event)
	default:
		// Unrecognized event type: ack and drop.
		w.WriteHeader(http.StatusOK)
	}
}

// handleVerification answers the platform's endpoint-ownership challenge.
func (s *Server) handleVerification(w http.ResponseWriter, event InboundEvent) {
	if event.Challenge == "" {
		s.logger.Warn("verification event without challenge")
		s.respondError(w, http.StatusBadRequest, "missing challenge")
		return
	}

	signature, body, err := signChallenge(s.config.Secret, event.Challenge)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to sign challenge")
		return
	}

	s.logger.Info("verifying challenge")
	w.Header().Set(SignatureHeader, signature)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// handleMessageCreated runs trigger detection and, on a match, acks before
// enqueueing the downstream work.
func (s *Server) handleMessageCreated(w http.ResponseWriter, r *http.Request, event InboundEvent) {
	if !strings.HasPrefix(event.Content, s.config.Keyword) {
		w.WriteHeader(http.StatusOK)
		return
	}

	// Ack first: the platform's timeout must not wait on downstream calls.
	w.WriteHeader(http.StatusOK)

	query := extractQuery(event.Content)
	deliveryID, err := s.queue.Enqueue(r.Context(), relay.EnqueueRequest{
		SpaceID: event.SpaceID,
		Query:   query,
	})
	if err != nil {
		// The ack is already on the wire; the delivery is simply dropped.
		s.logger.Warn("failed to enqueue delivery",
			"space_id", event.SpaceID,
			"error", err,
		)
		return
	}

	s.logger.Info("delivery enqueued",
		"delivery_id", deliveryID,
		"space_id", event.SpaceID,
		"query", query,
	)
}

// extractQuery takes the token after the trigger keyword.
// Expected format: <keyword> <query>. No second token means an empty query,
// which is passed through to the provider as-is.
func extractQuery(content string) string {
	parts := strings.Split(content, " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// respondError sends a JSON error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
