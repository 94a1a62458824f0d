// Package api provides HTTP handlers for the study-buddy API.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/edukit/study-buddy/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxCommandBytes bounds inbound command payloads. Notes are the largest
// legitimate field and are capped well below this.
const maxCommandBytes = 1 << 20

// Handler serves the session request surface.
type Handler struct {
	hub *session.Hub
	ws  *session.WebSocketHandler
}

// NewHandler creates a new Handler.
func NewHandler(hub *session.Hub, ws *session.WebSocketHandler) *Handler {
	return &Handler{hub: hub, ws: ws}
}

// RegisterRoutes attaches the session routes to the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/session/new", h.NewSession)
	r.Post("/session/new", h.NewSession)
	r.Route("/session/{sessionID}", func(r chi.Router) {
		r.Get("/state", h.State)
		r.Post("/command", h.Command)
		r.Get("/ws", h.ws.ServeHTTP)
	})
}

// NewSession mints a fresh session id and tells the client where to connect.
func (h *Handler) NewSession(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	JSON(w, http.StatusOK, map[string]string{
		"sessionId": id,
		"url":       fmt.Sprintf("/session/%s/ws", id),
	})
}

// State returns the current stored snapshot for a session.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	state, err := h.hub.Actor(sessionID).Snapshot(r.Context())
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to read session state")
		return
	}
	JSON(w, http.StatusOK, state)
}

// Command applies one command to a session and returns the resulting event
// synchronously. Broadcast side effects happen inside the actor.
func (h *Handler) Command(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCommandBytes))
	if err != nil {
		Error(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	cmd, err := session.ParseCommand(body)
	if err != nil {
		JSON(w, http.StatusOK, session.ErrorEvent("Invalid message format."))
		return
	}

	ev := h.hub.Actor(sessionID).HandleCommand(r.Context(), cmd)
	JSON(w, http.StatusOK, ev)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
