// Package handler exposes the scene session over a JSON HTTP API.
// The handler is presentation glue: it forwards pointer events,
// filter toggles and reload triggers into the session and reports
// scene state back out.
package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"topovista/internal/history"
	"topovista/internal/service"
)

// DiscoveryRunner triggers a live-network discovery pass.
type DiscoveryRunner interface {
	RunDiscovery(ctx context.Context) (int, error)
}

// DocumentReloader reloads the topology document into the session.
type DocumentReloader interface {
	Reload(ctx context.Context) (service.LoadSummary, error)
}

// SceneHandler handles scene API requests.
type SceneHandler struct {
	session   *service.SceneSession
	store     *history.Store
	discovery DiscoveryRunner
	reloader  DocumentReloader
}

// NewSceneHandler creates a scene handler.
func NewSceneHandler(session *service.SceneSession) *SceneHandler {
	return &SceneHandler{session: session}
}

// SetHistoryStore wires the metrics history store.
func (h *SceneHandler) SetHistoryStore(store *history.Store) {
	h.store = store
}

// SetDiscoveryRunner wires the discovery trigger.
func (h *SceneHandler) SetDiscoveryRunner(d DiscoveryRunner) {
	h.discovery = d
}

// SetDocumentReloader wires the reload trigger.
func (h *SceneHandler) SetDocumentReloader(r DocumentReloader) {
	h.reloader = r
}

// Routes registers all scene endpoints on mux.
func (h *SceneHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/scene", h.GetScene)
	mux.HandleFunc("GET /api/metrics", h.GetMetrics)
	mux.HandleFunc("POST /api/filter", h.ApplyFilter)
	mux.HandleFunc("POST /api/labels", h.ToggleLabels)
	mux.HandleFunc("POST /api/links", h.ToggleLinks)
	mux.HandleFunc("POST /api/devices/{name}/hover", h.Hover)
	mux.HandleFunc("POST /api/devices/{name}/click", h.Click)
	mux.HandleFunc("GET /api/historical", h.GetHistorical)
	mux.HandleFunc("POST /api/discover", h.TriggerDiscovery)
	mux.HandleFunc("POST /api/reload", h.ReloadDocument)
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// GetScene returns the full scene snapshot.
func (h *SceneHandler) GetScene(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.session.Snapshot(), http.StatusOK)
}

// GetMetrics returns the on-demand scene tally.
func (h *SceneHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.session.Metrics(), http.StatusOK)
}

// ApplyFilter applies a category selection.
func (h *SceneHandler) ApplyFilter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Categories []string `json:"categories"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	h.session.FilterByCategories(req.Categories)
	h.writeJSON(w, h.session.Metrics(), http.StatusOK)
}

// ToggleLabels sets label visibility for every device.
func (h *SceneHandler) ToggleLabels(w http.ResponseWriter, r *http.Request) {
	show, ok := h.decodeVisible(w, r)
	if !ok {
		return
	}
	h.session.SetLabelsVisible(show)
	h.writeJSON(w, map[string]bool{"visible": show}, http.StatusOK)
}

// ToggleLinks sets link visibility uniformly.
func (h *SceneHandler) ToggleLinks(w http.ResponseWriter, r *http.Request) {
	show, ok := h.decodeVisible(w, r)
	if !ok {
		return
	}
	h.session.SetLinksVisible(show)
	h.writeJSON(w, map[string]bool{"visible": show}, http.StatusOK)
}

// Hover forwards a pointer enter/leave event for a device.
func (h *SceneHandler) Hover(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	var req struct {
		Event string `json:"event"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	var changed bool
	switch req.Event {
	case "enter":
		changed = h.session.PointerEnter(name)
	case "leave":
		changed = h.session.PointerLeave(name)
	default:
		h.writeError(w, "unknown pointer event", req.Event, http.StatusBadRequest)
		return
	}
	h.writeJSON(w, map[string]bool{"changed": changed}, http.StatusOK)
}

// Click forwards a click event and returns the detail payload for the
// detail panel.
func (h *SceneHandler) Click(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	detail, ok := h.session.Click(name)
	if !ok {
		h.writeError(w, "device not found", name, http.StatusNotFound)
		return
	}
	h.writeJSON(w, detail, http.StatusOK)
}

// GetHistorical returns recent metrics snapshots, newest first.
func (h *SceneHandler) GetHistorical(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.writeJSON(w, []history.Snapshot{}, http.StatusOK)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	snaps, err := h.store.List(r.Context(), limit)
	if err != nil {
		h.writeError(w, "failed to load history", err.Error(), http.StatusInternalServerError)
		return
	}
	if snaps == nil {
		snaps = []history.Snapshot{}
	}
	h.writeJSON(w, snaps, http.StatusOK)
}

// TriggerDiscovery runs the discovery adapter and merges the results.
func (h *SceneHandler) TriggerDiscovery(w http.ResponseWriter, r *http.Request) {
	if h.discovery == nil {
		h.writeError(w, "discovery not configured", "", http.StatusServiceUnavailable)
		return
	}

	found, err := h.discovery.RunDiscovery(r.Context())
	if err != nil {
		h.writeError(w, "discovery failed", err.Error(), http.StatusBadGateway)
		return
	}
	h.writeJSON(w, map[string]int{"devices": found}, http.StatusOK)
}

// ReloadDocument re-reads the topology document into the session.
func (h *SceneHandler) ReloadDocument(w http.ResponseWriter, r *http.Request) {
	if h.reloader == nil {
		h.writeError(w, "reload not configured", "", http.StatusServiceUnavailable)
		return
	}

	summary, err := h.reloader.Reload(r.Context())
	if err != nil {
		h.writeError(w, "reload failed", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, summary, http.StatusOK)
}

func (h *SceneHandler) decodeVisible(w http.ResponseWriter, r *http.Request) (bool, bool) {
	var req struct {
		Visible bool `json:"visible"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "invalid request body", err.Error(), http.StatusBadRequest)
		return false, false
	}
	return req.Visible, true
}

func (h *SceneHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *SceneHandler) writeError(w http.ResponseWriter, msg, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg, Details: details}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
