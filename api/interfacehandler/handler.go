package interfacehandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/ruteri/interface-registry/api"
	"github.com/ruteri/interface-registry/interfaces"
	"github.com/ruteri/interface-registry/metrics"
)

// defaultMaxBodyBytes caps signature request bodies when no limit is configured.
const defaultMaxBodyBytes = 1024 * 1024

// Recorder receives per-request outcomes. *metrics.MetricsServer implements it.
type Recorder interface {
	ObserveRegistration(result string)
	ObserveQuery(result string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRegistration(string) {}
func (nopRecorder) ObserveQuery(string)        {}

// Handler serves the interface registry over HTTP.
// Calls into the registry are serialized, so a single registry instance
// may back any number of concurrent requests.
type Handler struct {
	mu       sync.Mutex
	registry interfaces.InterfaceRegistry

	recorder     Recorder
	maxBodyBytes int64
	log          *slog.Logger
}

// NewHandler creates a handler for registry. A nil recorder disables metrics.
func NewHandler(registry interfaces.InterfaceRegistry, recorder Recorder, log *slog.Logger) *Handler {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Handler{
		registry:     registry,
		recorder:     recorder,
		maxBodyBytes: defaultMaxBodyBytes,
		log:          log,
	}
}

// WithMaxBodyBytes overrides the request body limit. Non-positive values are ignored.
func (h *Handler) WithMaxBodyBytes(limit int64) *Handler {
	if limit > 0 {
		h.maxBodyBytes = limit
	}
	return h
}

// RegisterRoutes configures the HTTP router with registry endpoints:
//   - GET  /api/public/interfaces/{interface_id} - query support
//   - POST /api/public/derive - derive an ID from a signature
//   - POST /api/interfaces/signatures - derive and register
//   - POST /api/interfaces/{interface_id} - register
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/public/interfaces/{interface_id}", h.HandleSupportsInterface)
	r.Post("/api/public/derive", h.HandleDerive)
	r.Post("/api/interfaces/signatures", h.HandleRegisterSignature)
	r.Post("/api/interfaces/{interface_id}", h.HandleRegister)
}

// HandleSupportsInterface reports whether an interface ID is registered.
//
// URL format: GET /api/public/interfaces/{interface_id}
//
// Status codes:
//   - 200 OK: api.SupportsInterfaceResponse
//   - 400 Bad Request: malformed interface ID
//   - 503 Service Unavailable: the store could not be read
func (h *Handler) HandleSupportsInterface(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseInterfaceID(w, r)
	if !ok {
		return
	}

	supported, err := h.supportsInterface(r.Context(), id)
	if err != nil {
		h.recorder.ObserveQuery(metrics.ResultError)
		h.log.Error("Failed to query interface", "err", err, "interface_id", id.String())
		h.writeError(w, statusFor(err), err, id.String())
		return
	}

	if supported {
		h.recorder.ObserveQuery(metrics.ResultSupported)
	} else {
		h.recorder.ObserveQuery(metrics.ResultUnsupported)
	}

	h.writeJSON(w, http.StatusOK, api.SupportsInterfaceResponse{
		InterfaceID: id,
		Supported:   supported,
	})
}

// HandleRegister registers an interface ID.
//
// URL format: POST /api/interfaces/{interface_id}
//
// Status codes:
//   - 201 Created: api.InterfaceResponse
//   - 400 Bad Request: malformed interface ID
//   - 409 Conflict: the ID is already registered
//   - 503 Service Unavailable: the store could not be written
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseInterfaceID(w, r)
	if !ok {
		return
	}

	if err := h.register(r.Context(), id); err != nil {
		h.failRegistration(w, id, err)
		return
	}

	h.recorder.ObserveRegistration(metrics.ResultRegistered)
	h.writeJSON(w, http.StatusCreated, api.InterfaceResponse{InterfaceID: id})
}

// HandleRegisterSignature derives the ID of a signature and registers it.
//
// URL format: POST /api/interfaces/signatures
//
// Request body: JSON-encoded api.SignatureRequest
//
// Status codes match HandleRegister. The response always carries the derived ID.
func (h *Handler) HandleRegisterSignature(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseSignatureRequest(w, r)
	if !ok {
		return
	}

	id := interfaces.ComputeInterfaceIDString(req.Signature)
	if err := h.register(r.Context(), id); err != nil {
		h.failRegistration(w, id, err)
		return
	}

	h.recorder.ObserveRegistration(metrics.ResultRegistered)
	h.writeJSON(w, http.StatusCreated, api.InterfaceResponse{
		InterfaceID: id,
		Signature:   &req.Signature,
	})
}

// HandleDerive computes the ID of a signature without touching the registry.
//
// URL format: POST /api/public/derive
//
// Request body: JSON-encoded api.SignatureRequest
func (h *Handler) HandleDerive(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseSignatureRequest(w, r)
	if !ok {
		return
	}

	h.writeJSON(w, http.StatusOK, api.InterfaceResponse{
		InterfaceID: interfaces.ComputeInterfaceIDString(req.Signature),
		Signature:   &req.Signature,
	})
}

func (h *Handler) supportsInterface(ctx context.Context, id interfaces.InterfaceID) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.registry.SupportsInterface(ctx, id)
}

func (h *Handler) register(ctx context.Context, id interfaces.InterfaceID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.registry.Register(ctx, id)
}

func (h *Handler) failRegistration(w http.ResponseWriter, id interfaces.InterfaceID, err error) {
	if errors.Is(err, interfaces.ErrAlreadyRegistered) {
		h.recorder.ObserveRegistration(metrics.ResultAlreadyRegistered)
		h.log.Debug("Interface already registered", "interface_id", id.String())
	} else {
		h.recorder.ObserveRegistration(metrics.ResultError)
		h.log.Error("Registration failed", "err", err, "interface_id", id.String())
	}
	h.writeError(w, statusFor(err), err, id.String())
}

func (h *Handler) parseInterfaceID(w http.ResponseWriter, r *http.Request) (interfaces.InterfaceID, bool) {
	raw := chi.URLParam(r, "interface_id")
	id, err := interfaces.NewInterfaceIDFromHex(raw)
	if err != nil {
		h.log.Debug("Invalid interface ID", "err", err, "interface_id", raw)
		h.writeError(w, http.StatusBadRequest, err, "")
		return interfaces.InterfaceID{}, false
	}
	return id, true
}

func (h *Handler) parseSignatureRequest(w http.ResponseWriter, r *http.Request) (*api.SignatureRequest, bool) {
	var req api.SignatureRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes)).Decode(&req); err != nil {
		h.log.Debug("Invalid signature request", "err", err)
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", api.ErrInvalidRequest, err), "")
		return nil, false
	}
	return &req, true
}

// statusFor maps registry errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, interfaces.ErrAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, interfaces.ErrInvalidInterfaceID), errors.Is(err, api.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, interfaces.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func codeFor(err error) string {
	switch {
	case errors.Is(err, interfaces.ErrAlreadyRegistered):
		return api.ErrorCodeAlreadyRegistered
	case errors.Is(err, interfaces.ErrInvalidInterfaceID):
		return api.ErrorCodeInvalidInterfaceID
	case errors.Is(err, api.ErrInvalidRequest):
		return api.ErrorCodeInvalidRequest
	case errors.Is(err, interfaces.ErrBackendUnavailable):
		return api.ErrorCodeBackendUnavailable
	default:
		return api.ErrorCodeInternal
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error, interfaceID string) {
	h.writeJSON(w, status, api.ErrorResponse{
		Error:       err.Error(),
		Code:        codeFor(err),
		InterfaceID: interfaceID,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("Failed to encode response", "err", err)
	}
}
