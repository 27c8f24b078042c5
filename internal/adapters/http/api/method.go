// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	service "github.com/okian/clientscore/internal/app"
	"github.com/okian/clientscore/pkg/logger"
)

// requestIDHeader carries the caller-assigned request identifier. When
// absent a fresh one is generated.
const requestIDHeader = "X-Request-ID"

// MethodHandler handles method dispatch requests.
type MethodHandler struct {
	deps Dependencies
}

// NewMethodHandler creates a new method handler.
func NewMethodHandler(deps Dependencies) *MethodHandler {
	return &MethodHandler{deps: deps}
}

// HandleMethod handles POST /method requests. The body is decoded as a
// free-form JSON object; all further validation happens in the service.
func (h *MethodHandler) HandleMethod(w http.ResponseWriter, r *http.Request) {
	const op = "api.method"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	reqCtx := &service.RequestContext{RequestID: r.Header.Get(requestIDHeader)}
	if reqCtx.RequestID == "" {
		reqCtx.RequestID = uuid.NewString()
	}

	ctx := r.Context()
	log := logger.Get()

	defer func() {
		if rec := recover(); rec != nil {
			log.Error(ctx, "method handler panicked",
				logger.String("requestID", reqCtx.RequestID),
				logger.Any("panic", rec),
			)
			writeFailure(w, http.StatusInternalServerError, nil)
		}
	}()

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Info(ctx, "undecodable request body",
			logger.String("requestID", reqCtx.RequestID),
			logger.Error(WrapKind(op, ErrBadRequest, err)),
		)
		writeFailure(w, http.StatusBadRequest, nil)
		return
	}

	payload, code := h.deps.Handle(ctx, body, reqCtx)

	log.Info(ctx, "method handled",
		logger.String("requestID", reqCtx.RequestID),
		logger.Int("code", code),
		logger.Any("has", reqCtx.Has),
		logger.Int("nclients", reqCtx.NClients),
	)

	if code != http.StatusOK {
		writeFailure(w, code, payload)
		return
	}
	writeSuccess(w, code, payload)
}
