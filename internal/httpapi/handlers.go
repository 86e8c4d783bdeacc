// Package httpapi exposes the REST surface for creating, joining, starting,
// and inspecting games.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vaamonde-rodri/uno-game/internal/engine"
	"github.com/vaamonde-rodri/uno-game/internal/game"
)

type Server struct {
	store *game.Store
	log   logrus.FieldLogger
}

func NewServer(store *game.Store, log logrus.FieldLogger) *Server {
	return &Server{store: store, log: log}
}

// Router builds the full route tree. ws, when non-nil, serves the game
// socket endpoint.
func (s *Server) Router(ws http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/games", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Post("/join", s.handleJoin)
		r.Route("/{code}", func(r chi.Router) {
			r.Get("/", s.handleState)
			r.Post("/start", s.handleStart)
			if ws != nil {
				r.Get("/ws", ws.ServeHTTP)
			}
		})
	})
	return r
}

type createGameRequest struct {
	PlayerName string `json:"playerName"`
}

type joinGameRequest struct {
	GameCode   string `json:"gameCode"`
	PlayerName string `json:"playerName"`
}

type startGameRequest struct {
	PlayerID uuid.UUID `json:"playerId"`
}

type playerResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type gameResponse struct {
	GameCode string          `json:"gameCode"`
	Player   *playerResponse `json:"player,omitempty"`
	State    engine.Snapshot `json:"state"`
}

type errorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	sess, creator, err := s.store.Create(req.PlayerName)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, gameResponse{
		GameCode: sess.Code,
		Player:   &playerResponse{ID: creator.ID, Name: creator.Name},
		State:    sess.Snapshot(),
	})
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	sess, err := s.store.Get(req.GameCode)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	p, err := sess.Join(req.PlayerName)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, gameResponse{
		GameCode: sess.Code,
		Player:   &playerResponse{ID: p.ID, Name: p.Name},
		State:    sess.Snapshot(),
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	sess, err := s.store.Get(chi.URLParam(r, "code"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	if err := sess.Start(req.PlayerID); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, gameResponse{
		GameCode: sess.Code,
		State:    sess.Snapshot(),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(chi.URLParam(r, "code"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, gameResponse{
		GameCode: sess.Code,
		State:    sess.Snapshot(),
	})
}

// statusFor maps engine failure kinds onto HTTP status codes.
func statusFor(err error) int {
	switch engine.KindOf(err) {
	case engine.KindNotFound:
		return http.StatusNotFound
	case engine.KindInvalidState, engine.KindExhausted:
		return http.StatusConflict
	case engine.KindOutOfTurn:
		return http.StatusForbidden
	case engine.KindIllegalMove:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	s.writeError(w, statusFor(err), engine.KindOf(err).String(), err.Error())
}

func (s *Server) writeError(w http.ResponseWriter, status int, kind, msg string) {
	s.writeJSON(w, status, errorResponse{Kind: kind, Message: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Error("failed to write response")
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}
