package rest

import (
	"encoding/json"
	"net/http"

	"github.com/fortuna/pivotboard/internal/service"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	serviceName    = "pivotboard"
	serviceVersion = "1.0.0"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	dashboard *service.Dashboard
	source    HealthChecker
	logger    *zap.Logger
}

// NewHandler creates a new handler
func NewHandler(dashboard *service.Dashboard, source HealthChecker, logger *zap.Logger) *Handler {
	return &Handler{
		dashboard: dashboard,
		source:    source,
		logger:    logger,
	}
}

// selection reads the sidebar state from the query string. A missing league
// means the first sidebar option.
func selection(r *http.Request) (league, matchup string) {
	q := r.URL.Query()
	league = q.Get("league")
	if !q.Has("league") {
		league = service.CategoryNFL
	}
	matchup = q.Get("matchup")
	if matchup == "" {
		matchup = service.AllMatchups
	}
	return league, matchup
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]interface{}{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	}

	if h.source != nil {
		if err := h.source.HealthCheck(r.Context()); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["source"] = err.Error()
		} else {
			body["source"] = "ok"
		}
	}

	respondJSON(w, status, body)
}

// GetCategories returns the sidebar categories in display order
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": service.Categories(),
		"default":    service.CategoryNFL,
	})
}

// GetDashboard returns the page model for a league and matchup
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	league, matchup := selection(r)
	respondJSON(w, http.StatusOK, h.dashboard.Build(r.Context(), league, matchup))
}

// GetTable returns the cached contents of one of the known tables
func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	table := mux.Vars(r)["table"]
	fetcher := h.dashboard.Fetcher()

	switch {
	case service.IsHeaderTable(table):
		respondJSON(w, http.StatusOK, fetcher.FetchHeader(r.Context(), table))
	case service.IsDetailTable(table):
		respondJSON(w, http.StatusOK, fetcher.FetchDetail(r.Context(), table))
	default:
		respondError(w, http.StatusNotFound, "Unknown table", nil)
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	respondJSON(w, status, response)
}
