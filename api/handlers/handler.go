package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/jusunglee/station-hours/internal/models"
	"github.com/jusunglee/station-hours/pkg/station"
)

// Metrics receives per-query observations
type Metrics interface {
	QueryObserve(query, outcome string, d time.Duration)
}

// Handler handles HTTP requests
type Handler struct {
	client  station.Client
	metrics Metrics
	logger  *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(client station.Client, metrics Metrics, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{client: client, metrics: metrics, logger: logger}
}

// RegisterRoutes registers all routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.handleIndex).Methods("GET")
	r.HandleFunc("/health", h.handleHealth).Methods("GET")
	r.HandleFunc("/stations", h.handleStations).Methods("GET")
	for _, suffix := range []string{"", "/"} {
		r.HandleFunc("/stations/{id}/isopen"+suffix, h.handleIsOpen).Methods("GET")
		r.HandleFunc("/stations/{id}/next"+suffix, h.handleNext).Methods("GET")
		r.HandleFunc("/stations/{id}/schedule"+suffix, h.handleSchedule).Methods("GET")
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// StationsResponse lists the known station ids
type StationsResponse struct {
	Data    []int  `json:"data"`
	Updated string `json:"updated,omitempty"`
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"title":  "station-hours",
		"readme": "GET /stations/{id}/isopen/ or /stations/{id}/next/",
	}
	h.writeJSON(w, response)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]string{"status": "ok"})
}

func (h *Handler) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.client.Stations()
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := StationsResponse{Data: stations}
	if updated := h.client.GetLastUpdate(); !updated.IsZero() {
		response.Updated = updated.Format(time.RFC3339)
	}
	h.writeJSON(w, response)
}

func (h *Handler) handleIsOpen(w http.ResponseWriter, r *http.Request) {
	id, ok := h.stationID(w, r)
	if !ok {
		return
	}
	at, explicit, ok := h.referenceTime(w, r)
	if !ok {
		return
	}

	start := time.Now()
	var open bool
	var err error
	if explicit {
		open, err = h.client.IsOpenAt(id, at)
	} else {
		open, err = h.client.IsOpen(id)
	}
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	outcome := "closed"
	if open {
		outcome = "open"
	}
	h.observe("isopen", outcome, start)
	h.writeJSON(w, models.IsOpenResponse{IsOpen: open})
}

func (h *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	id, ok := h.stationID(w, r)
	if !ok {
		return
	}
	at, explicit, ok := h.referenceTime(w, r)
	if !ok {
		return
	}

	start := time.Now()
	var action models.NextAction
	var err error
	if explicit {
		action, err = h.client.NextActionAt(id, at)
	} else {
		action, err = h.client.NextAction(id)
	}
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.observe("next", nextOutcome(action), start)
	h.writeJSON(w, models.NextActionResponse{Msg: action.Message()})
}

func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := h.stationID(w, r)
	if !ok {
		return
	}

	view, err := h.client.Schedule(id)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusNotFound)
		return
	}
	h.writeJSON(w, view)
}

// stationID parses the {id} path variable, rejecting anything but an integer
func (h *Handler) stationID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.Atoi(raw)
	if err != nil {
		h.writeError(w, "station id must be an integer", http.StatusUnprocessableEntity)
		return 0, false
	}
	return id, true
}

// referenceTime reads the optional ?at= instant
func (h *Handler) referenceTime(w http.ResponseWriter, r *http.Request) (time.Time, bool, bool) {
	raw := r.URL.Query().Get("at")
	if raw == "" {
		return time.Time{}, false, true
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		h.writeError(w, "at must be an RFC3339 timestamp", http.StatusUnprocessableEntity)
		return time.Time{}, false, false
	}
	return at, true, true
}

func (h *Handler) observe(query, outcome string, start time.Time) {
	d := time.Since(start)
	if h.metrics != nil {
		h.metrics.QueryObserve(query, outcome, d)
	}
	h.logger.Debug("query answered", "query", query, "outcome", outcome, "duration", d)
}

func nextOutcome(action models.NextAction) string {
	switch action.Kind {
	case models.Upcoming:
		return string(action.Status)
	case models.Overridden:
		return "exception"
	default:
		return "no_data"
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.writeError(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
