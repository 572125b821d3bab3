// Package api exposes 2048 sessions over a small JSON REST API and mounts the
// websocket hub at /ws.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/t2048"
	"github.com/vovakirdan/tui-2048/internal/transport/websocket"
)

// Server represents the REST API server.
type Server struct {
	manager *session.Manager
	hub     *websocket.Hub
	router  *mux.Router
	logger  *log.Logger
}

// SessionInfo describes a session in API responses.
type SessionInfo struct {
	ID             string          `json:"id"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
	State          *t2048.Snapshot `json:"state,omitempty"`
}

// NewServer creates a new API server. hub may be nil to disable /ws.
func NewServer(manager *session.Manager, hub *websocket.Hub, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default().WithPrefix("api")
	}
	s := &Server{
		manager: manager,
		hub:     hub,
		router:  mux.NewRouter(),
		logger:  logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/sessions", s.handleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions", s.handleListSessions).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods(http.MethodDelete)

	api.HandleFunc("/sessions/{id}/state", s.handleCommand(session.ActionState)).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/move", s.handleCommand(session.ActionMove)).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/restart", s.handleCommand(session.ActionRestart)).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/save", s.handleCommand(session.ActionSave)).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/load", s.handleCommand(session.ActionLoad)).Methods(http.MethodPost)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	if s.hub != nil {
		s.router.HandleFunc("/ws", s.handleWebSocket)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func info(sess *session.Session, withState bool) SessionInfo {
	out := SessionInfo{
		ID:             sess.ID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt(),
	}
	if withState {
		snap := sess.Snapshot()
		out.State = &snap
	}
	return out
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, t2048.ErrNoSavedGame):
		return http.StatusNotFound
	case errors.Is(err, session.ErrSessionAlreadyExists), errors.Is(err, t2048.ErrGameFinished):
		return http.StatusConflict
	case errors.Is(err, session.ErrInvalidSessionID),
		errors.Is(err, session.ErrInvalidDirection),
		errors.Is(err, session.ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNoStore):
		return http.StatusNotImplemented
	case errors.Is(err, t2048.ErrMalformedRecord):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id,omitempty"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	sess, err := s.manager.Create(req.ID)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	s.logger.Info("session created", "session", sess.ID)
	respondJSON(w, http.StatusCreated, info(sess, true))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.manager.List()
	out := make([]SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, info(sess, false))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"count":    len(out),
		"sessions": out,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Get(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, info(sess, true))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.manager.Delete(id); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	s.logger.Info("session deleted", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

// handleCommand runs one session command. Only move reads a body.
func (s *Server) handleCommand(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.manager.Get(mux.Vars(r)["id"])
		if err != nil {
			respondError(w, statusFor(err), err.Error())
			return
		}

		cmd := session.Command{Action: action}
		if action == session.ActionMove {
			var req struct {
				Direction string `json:"direction"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			cmd.Direction = req.Direction
		}

		res, err := sess.Apply(r.Context(), cmd)
		if err != nil {
			s.logger.Debug("command failed", "session", sess.ID, "action", action, "error", err)
			respondError(w, statusFor(err), err.Error())
			return
		}

		if s.hub != nil && cmd.Mutates() {
			s.hub.BroadcastToSession(sess.ID, res.Snapshot)
		}
		respondJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	if id == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}
	s.hub.ServeWS(w, r, id)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "healthy",
		"sessions": s.manager.Len(),
	})
}
