// Package handler is the HTTP layer: it parses requests, invokes the
// lookup service and writes the response envelopes. No resolution logic
// lives here.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nkka404/tginfo/internal/model"
)

// Lookuper is the slice of the service layer the handler needs.
type Lookuper interface {
	Lookup(ctx context.Context, raw string) (*model.Resolution, error)
}

// HealthChecker reports whether the Telegram session can be established.
type HealthChecker interface {
	Healthy(ctx context.Context) error
}

// LookupHandler serves the public lookup API.
type LookupHandler struct {
	service  Lookuper
	health   HealthChecker
	assemble Assembler
	version  string
	logger   *slog.Logger
}

// NewLookupHandler wires the handler.
func NewLookupHandler(service Lookuper, health HealthChecker, assemble Assembler, version string, logger *slog.Logger) *LookupHandler {
	return &LookupHandler{
		service:  service,
		health:   health,
		assemble: assemble,
		version:  version,
		logger:   logger,
	}
}

// HandleQuery serves GET /api?username=<input>&size=<int>.
func (h *LookupHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	input := r.URL.Query().Get("username")
	if input == "" {
		writeJSON(w, http.StatusBadRequest, h.assemble.Failure("Missing 'username' parameter"))
		return
	}
	h.lookup(w, r, input)
}

// HandleByPath serves GET /api/user/{input}?size=<int> — identical
// semantics to HandleQuery, path-parameter form.
func (h *LookupHandler) HandleByPath(w http.ResponseWriter, r *http.Request) {
	input := chi.URLParam(r, "input")
	if input == "" {
		writeJSON(w, http.StatusBadRequest, h.assemble.Failure("Missing 'username' parameter"))
		return
	}
	h.lookup(w, r, input)
}

func (h *LookupHandler) lookup(w http.ResponseWriter, r *http.Request, input string) {
	size, ok := h.photoSize(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, h.assemble.Failure("Invalid 'size' parameter"))
		return
	}

	res, err := h.service.Lookup(r.Context(), input)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("lookup failed", slog.String("error", err.Error()))
		}
		writeJSON(w, status, h.assemble.Failure(clientMessage(err)))
		return
	}

	writeJSON(w, http.StatusOK, h.assemble.Success(res, size))
}

// photoSize parses the size query parameter, defaulting when absent.
func (h *LookupHandler) photoSize(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("size")
	if raw == "" {
		return h.assemble.DefaultSize, true
	}
	size, err := strconv.Atoi(raw)
	if err != nil || size <= 0 {
		return 0, false
	}
	return size, true
}

// healthStatus is the body of GET /health.
type healthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Error     string `json:"error,omitempty"`
}

// HandleHealth serves GET /health. It answers 200 either way; the body
// says whether a Telegram session could be established.
func (h *LookupHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := healthStatus{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if err := h.health.Healthy(ctx); err != nil {
		status.Status = "unhealthy"
		status.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, status)
}

// HandleRoot serves GET / — a static service description.
func (h *LookupHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Telegram Info API by " + h.assemble.Owner,
		"status":  "active",
		"version": h.version,
		"owner":   h.assemble.Owner,
		"updates": h.assemble.Updates,
		"endpoints": map[string]string{
			"/api?username=...":  "Get user/chat info",
			"/api/user/{input}":  "Get user/chat info (path form)",
			"/health":            "Check API health",
			"/metrics":           "Prometheus metrics",
		},
	})
}
