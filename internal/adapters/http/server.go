// Package http exposes the engine to USSD gateways. Gateways speak one of
// two dialects at the same endpoint: a JSON document or a classic form
// POST; both carry the same fields.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rejoice-framework/menuflow/internal/logging"
	"github.com/rejoice-framework/menuflow/pkg/domain"
)

// Engine is the request-handling core the server fronts.
type Engine interface {
	Handle(ctx context.Context, req *domain.Request) *domain.Response
}

// Server handles gateway traffic for one engine.
type Server struct {
	engine Engine
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewHandler builds the gateway-facing HTTP handler: POST / for requests,
// GET /health for probes and GET /metrics for Prometheus scrapes.
func NewHandler(engine Engine, gatherer prometheus.Gatherer, opts ...Option) http.Handler {
	s := &Server{engine: engine, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/", s.handleRequest)
	r.Get("/health", s.handleHealth)
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := s.engine.Handle(r.Context(), req)

	// A relayed remote body goes out exactly as received.
	if len(resp.Raw) > 0 {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(resp.Raw); err != nil {
			s.logger.Warn("writing relayed response", "err", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("encoding response", "err", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func decodeRequest(r *http.Request) (*domain.Request, error) {
	var req domain.Request
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		req = domain.Request{
			Msisdn:    r.PostFormValue("msisdn"),
			Network:   r.PostFormValue("network"),
			SessionID: r.PostFormValue("sessionID"),
			Response:  r.PostFormValue("ussdString"),
			Type:      domain.RequestType(r.PostFormValue("ussdServiceOp")),
			Channel:   domain.Channel(r.PostFormValue("channel")),
		}
	}
	return &req, nil
}
