// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/clientscore/internal/app"
)

// Dependencies is the handler-facing surface of the scoring service.
// *service.Service satisfies it; tests substitute a fake.
type Dependencies interface {
	Handle(ctx context.Context, body map[string]any, reqCtx *service.RequestContext) (any, int)
}

// Server wires HTTP routes for the scoring API.
type Server struct {
	methodHandler *MethodHandler
	healthHandler *HealthHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		methodHandler: NewMethodHandler(deps),
		healthHandler: NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/method", MetricsMiddleware(s.methodHandler.HandleMethod, "method"))
	mux.HandleFunc("/method/", MetricsMiddleware(s.methodHandler.HandleMethod, "method"))
	mux.HandleFunc("/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("/healthz", s.healthHandler.HandleMetrics)
}

// successResponse is the envelope for a handled request.
type successResponse struct {
	Response any `json:"response"`
	Code     int `json:"code"`
}

// failureResponse is the envelope for a rejected request. Error is a
// plain message for most rejections and the ordered message list for
// validation failures.
type failureResponse struct {
	Error any `json:"error"`
	Code  int `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, payload any) {
	writeJSON(w, status, successResponse{Response: payload, Code: status})
}

// writeFailure renders the error envelope. A validation error list is
// passed through unjoined; anything else falls back to the standard
// status text.
func writeFailure(w http.ResponseWriter, status int, payload any) {
	var errVal any = http.StatusText(status)
	if msgs, ok := payload.([]string); ok && len(msgs) > 0 {
		errVal = msgs
	}
	writeJSON(w, status, failureResponse{Error: errVal, Code: status})
}
