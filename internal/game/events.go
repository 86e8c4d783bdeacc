package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/vaamonde-rodri/uno-game/internal/engine"
)

// EventType identifies a game event delivered over the websocket.
type EventType string

const (
	// EventGameState carries the public snapshot. Broadcast after every
	// state-mutating success other players must observe.
	EventGameState EventType = "game_state"
	// EventDrawnCard is sent privately to the drawing player only.
	EventDrawnCard EventType = "drawn_card"
	// EventHand is a private sync of the receiving player's full hand.
	EventHand EventType = "hand"
	// EventChallengeResult announces the outcome of a last-card challenge.
	EventChallengeResult EventType = "challenge_result"
	// EventError is a private failure report for a rejected action.
	EventError EventType = "error"
)

// ErrorInfo describes a rejected action to the player who attempted it.
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Event is the envelope for everything pushed to clients.
type Event struct {
	Type      EventType               `json:"type"`
	State     *engine.Snapshot        `json:"state,omitempty"`
	Drawn     *engine.DrawnCard       `json:"drawn,omitempty"`
	Hand      []engine.Card           `json:"hand,omitempty"`
	Challenge *engine.ChallengeResult `json:"challenge,omitempty"`
	Error     *ErrorInfo              `json:"error,omitempty"`
}

// ActionRecord is one entry of a game's action history, published to the
// history queue when one is configured.
type ActionRecord struct {
	GameID    uuid.UUID              `json:"gameId"`
	GameCode  string                 `json:"gameCode"`
	Seq       int                    `json:"seq"`
	ActorID   uuid.UUID              `json:"actorId"`
	Action    string                 `json:"action"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// PlayerResult is one player's final standing.
type PlayerResult struct {
	PlayerID  uuid.UUID `json:"playerId"`
	Name      string    `json:"name"`
	CardsLeft int       `json:"cardsLeft"`
}

// Result is the persisted outcome of a finished game.
type Result struct {
	GameID     uuid.UUID      `json:"gameId"`
	GameCode   string         `json:"gameCode"`
	WinnerID   uuid.UUID      `json:"winnerId"`
	WinnerName string         `json:"winnerName"`
	Players    []PlayerResult `json:"players"`
	FinishedAt time.Time      `json:"finishedAt"`
}
