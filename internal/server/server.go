package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Kavirubc/skinchat/internal/chat"
	"github.com/Kavirubc/skinchat/internal/config"
	"github.com/Kavirubc/skinchat/internal/logging"
	"github.com/Kavirubc/skinchat/internal/metrics"
	"github.com/Kavirubc/skinchat/pkg/models"
	"github.com/google/uuid"
)

const component = "api"

// Responder produces a reply for a message and its prior turns
type Responder interface {
	Respond(ctx context.Context, message string, history models.History) (string, error)
}

// Server exposes a Responder over HTTP
type Server struct {
	cfg       config.ServerConfig
	responder Responder
	metrics   metrics.GatewayMetrics
	timeout   time.Duration
}

// New creates a server. A zero timeout leaves deadlines to the request context.
func New(cfg config.ServerConfig, responder Responder, m metrics.GatewayMetrics, timeout time.Duration) *Server {
	if m == nil {
		m = metrics.Noop{}
	}
	return &Server{
		cfg:       cfg,
		responder: responder,
		metrics:   m,
		timeout:   timeout,
	}
}

type chatRequest struct {
	Message string         `json:"message"`
	History models.History `json:"history"`
	UserID  string         `json:"user_id,omitempty"`
}

type chatResponse struct {
	Response  string `json:"response"`
	RequestID string `json:"request_id"`
}

// Handler returns the API routes wrapped in CORS handling
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /api/v1/chat", s.instrumented("/api/v1/chat", s.handleChat))

	return corsMiddleware(s.cfg.AllowedOrigins, mux)
}

// Run serves the API (and /metrics when metricsHandler is set) until ctx is cancelled
func (s *Server) Run(ctx context.Context, metricsHandler http.Handler) error {
	if s.cfg.MetricsAddr != "" && metricsHandler != nil {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", metricsHandler)
		metricsSrv := &http.Server{
			Addr:         s.cfg.MetricsAddr,
			Handler:      metricsMux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			logging.Info(component, "metrics listening", "addr", s.cfg.MetricsAddr+"/metrics")
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logging.Error(component, "metrics server error", "error", err)
			}
		}()
		defer metricsSrv.Close()
	}

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.writeTimeout(),
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info(component, "http listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logging.Error(component, "http server error", "error", err)
		return err
	case <-ctx.Done():
		logging.Info(component, "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// writeTimeout leaves room for a full provider call
func (s *Server) writeTimeout() time.Duration {
	if s.timeout > 0 {
		return s.timeout + 5*time.Second
	}
	return 120 * time.Second
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.cfg.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}

	req, err := decodeChatRequest(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			http.Error(w, "request too large", http.StatusRequestEntityTooLarge)
		case errors.Is(err, models.ErrInvalidRole):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "invalid json", http.StatusBadRequest)
		}
		return
	}

	requestID := uuid.NewString()
	ctx := chat.WithRequestID(r.Context(), requestID)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	reply, err := s.responder.Respond(ctx, req.Message, req.History)
	if err != nil {
		var provErr *chat.ProviderError
		if errors.As(err, &provErr) {
			logging.Error(component, "chat request failed", "request_id", requestID, "user_id", req.UserID, "error", err)
			http.Error(w, "generation failed", http.StatusBadGateway)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Response: reply, RequestID: requestID})
}

var errTrailingData = errors.New("unexpected data after JSON body")

// decodeChatRequest reads exactly one JSON object; anything after it is rejected
func decodeChatRequest(body io.Reader) (chatRequest, error) {
	var req chatRequest
	dec := json.NewDecoder(body)
	if err := dec.Decode(&req); err != nil {
		return chatRequest{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return chatRequest{}, err
		}
		return chatRequest{}, errTrailingData
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error(component, "failed to encode response", "error", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrumented(route string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		fn(rec, r)
		s.metrics.ObserveRequest(r.Method, route, fmt.Sprintf("%d", rec.status), time.Since(start).Seconds())
	}
}

func corsMiddleware(allowed []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin != "" && isAllowedOrigin(allowed, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isAllowedOrigin(allowed []string, origin string) bool {
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}
