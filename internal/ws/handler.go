// Package ws upgrades game connections and relays player actions to their
// session.
package ws

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vaamonde-rodri/uno-game/internal/engine"
	"github.com/vaamonde-rodri/uno-game/internal/game"
)

// ActionMessage is one client action received over the socket.
type ActionMessage struct {
	Action       string `json:"action"`
	CardID       string `json:"cardId,omitempty"`
	ChosenColor  string `json:"chosenColor,omitempty"`
	ChallengedID string `json:"challengedId,omitempty"`
}

// playerConn adapts a websocket connection to the session's event sink.
type playerConn struct {
	c *websocket.Conn
}

func (p *playerConn) Send(ctx context.Context, ev game.Event) error {
	return wsjson.Write(ctx, p.c, ev)
}

// Handler upgrades HTTP requests on a game's socket endpoint.
type Handler struct {
	store *game.Store
	log   logrus.FieldLogger
}

func NewHandler(store *game.Store, log logrus.FieldLogger) *Handler {
	return &Handler{store: store, log: log}
}

// ServeHTTP handles GET /games/{code}/ws?playerId={uuid}.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	playerID, err := uuid.Parse(r.URL.Query().Get("playerId"))
	if err != nil {
		http.Error(w, "invalid playerId", http.StatusBadRequest)
		return
	}
	sess, err := h.store.Get(code)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer c.Close(websocket.StatusInternalError, "connection closed")

	conn := &playerConn{c: c}
	if err := sess.Attach(playerID, conn); err != nil {
		c.Close(websocket.StatusPolicyViolation, "unknown player")
		return
	}
	defer sess.Detach(playerID, conn)

	log := h.log.WithFields(logrus.Fields{
		"game_code": sess.Code,
		"player_id": playerID,
	})
	log.Info("player connected")

	h.readLoop(r.Context(), sess, playerID, c)
	log.Info("player disconnected")
	c.Close(websocket.StatusNormalClosure, "")
}

func (h *Handler) readLoop(ctx context.Context, sess *game.Session, playerID uuid.UUID, c *websocket.Conn) {
	for {
		var msg ActionMessage
		if err := wsjson.Read(ctx, c, &msg); err != nil {
			return
		}
		if err := dispatch(sess, playerID, msg); err != nil {
			sess.SendError(playerID, err)
		}
	}
}

// dispatch routes one action to the session. Failures are reported privately
// to the sender; they never close the connection.
func dispatch(sess *game.Session, playerID uuid.UUID, msg ActionMessage) error {
	switch msg.Action {
	case "play_card":
		cardID, err := uuid.Parse(msg.CardID)
		if err != nil {
			return engine.NewError(engine.KindIllegalMove, "invalid cardId %q", msg.CardID)
		}
		return sess.PlayCard(playerID, cardID, engine.Color(msg.ChosenColor))
	case "draw_card":
		_, err := sess.DrawCard(playerID)
		return err
	case "pass_turn":
		return sess.PassTurn(playerID)
	case "declare_last_card":
		return sess.DeclareLastCard(playerID)
	case "challenge_last_card":
		challengedID, err := uuid.Parse(msg.ChallengedID)
		if err != nil {
			return engine.NewError(engine.KindIllegalMove, "invalid challengedId %q", msg.ChallengedID)
		}
		_, err = sess.ChallengeLastCard(playerID, challengedID)
		return err
	default:
		return engine.NewError(engine.KindIllegalMove, "unknown action %q", msg.Action)
	}
}
