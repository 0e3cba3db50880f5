package directory

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"bizdir/directory-gateway/internal/search"
)

// Version is reported by the health endpoints.
const Version = "1.0.0"

// healthTimeout bounds the store probe behind GET /health.
const healthTimeout = 5 * time.Second

// Handler exposes the Service over HTTP.
//
// Routes:
//
//	GET /health                 → store connectivity probe (no auth)
//	GET /api/categories         → id → name map
//	GET /api/locations          → id → name map
//	GET /api/search             → ranked company search
//	GET /api/user/status        → subscription status by phone number
//	GET /api/stats              → table row counts
type Handler struct {
	svc   *Service
	token string
	log   *slog.Logger
}

// NewHandler returns a Handler that accepts bearer token apiToken.
func NewHandler(svc *Service, apiToken string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, token: apiToken, log: logger}
}

// RegisterRoutes mounts all gateway routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.health)
	mux.Handle("GET /api/categories", h.RequireToken(http.HandlerFunc(h.categories)))
	mux.Handle("GET /api/locations", h.RequireToken(http.HandlerFunc(h.locations)))
	mux.Handle("GET /api/search", h.RequireToken(http.HandlerFunc(h.search)))
	mux.Handle("GET /api/user/status", h.RequireToken(http.HandlerFunc(h.userStatus)))
	mux.Handle("GET /api/stats", h.RequireToken(http.HandlerFunc(h.stats)))
	mux.HandleFunc("/", h.notFound)
}

// Routes returns the full middleware-wrapped HTTP handler.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return Recover(h.log, CORS(RequestLog(h.log, mux)))
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.svc.Health(ctx); err != nil {
		h.log.Warn("health check failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Version:  Version,
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "healthy",
		Version:  Version,
		Database: "connected",
	})
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Categories(r.Context())
	if err != nil {
		h.fail(w, err, "Failed to fetch categories")
		return
	}
	jsonOK(w, m)
}

func (h *Handler) locations(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Locations(r.Context())
	if err != nil {
		h.fail(w, err, "Failed to fetch locations")
		return
	}
	jsonOK(w, m)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q, err := search.ParseQuery(params.Get("category_id"), params.Get("location_id"), params.Get("search_term"))
	if err != nil {
		h.fail(w, err, "Search failed")
		return
	}

	results, err := h.svc.Search(r.Context(), q)
	if err != nil {
		h.fail(w, err, "Search failed")
		return
	}
	jsonOK(w, results)
}

func (h *Handler) userStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.UserStatus(r.Context(), r.URL.Query().Get("phone_number"))
	if err != nil {
		h.fail(w, err, "Failed to fetch user status")
		return
	}
	jsonOK(w, st)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		h.fail(w, err, "Failed to fetch stats")
		return
	}
	jsonOK(w, st)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	jsonError(w, "Endpoint not found", http.StatusNotFound)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// fail maps err to a response: validation errors carry their own message as
// a 400, anything else is logged and reported as an opaque 500.
func (h *Handler) fail(w http.ResponseWriter, err error, msg string) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		jsonError(w, ve.Msg, http.StatusBadRequest)
		return
	}
	h.log.Error(msg, "err", err)
	jsonError(w, msg, http.StatusInternalServerError)
}

func jsonOK(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode JSON response", "err", err)
	}
}
