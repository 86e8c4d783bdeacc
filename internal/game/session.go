// Package game hosts live game sessions: it serializes access to the rule
// engine, tracks connected players, and fans out events, action history, and
// final results.
package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vaamonde-rodri/uno-game/internal/engine"
)

// Conn delivers events to a single connected player.
type Conn interface {
	Send(ctx context.Context, ev Event) error
}

// ActionLogger records the per-game action history. Implementations must be
// safe for concurrent use.
type ActionLogger interface {
	LogAction(ctx context.Context, rec ActionRecord) error
}

// ResultSaver persists the outcome of a finished game.
type ResultSaver interface {
	SaveResult(ctx context.Context, res Result) error
}

const sendTimeout = 5 * time.Second

// Session is one live game. All access to the embedded engine goes through
// the session mutex; the engine itself is single-threaded.
type Session struct {
	Code      string
	CreatorID uuid.UUID

	mu    sync.Mutex
	eng   *engine.Game
	conns map[uuid.UUID]Conn
	seq   int

	log     logrus.FieldLogger
	history ActionLogger
	results ResultSaver
}

func newSession(code string, eng *engine.Game, log logrus.FieldLogger, history ActionLogger, results ResultSaver) *Session {
	return &Session{
		Code:    code,
		eng:     eng,
		conns:   make(map[uuid.UUID]Conn),
		log:     log.WithField("game_code", code),
		history: history,
		results: results,
	}
}

// ID returns the game's stable identifier.
func (s *Session) ID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.ID
}

// Snapshot returns the current public view of the game.
func (s *Session) Snapshot() engine.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Snapshot()
}

// HandOf returns a copy of a player's hand.
func (s *Session) HandOf(playerID uuid.UUID) ([]engine.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.HandOf(playerID)
}

// Join seats a new player and announces the updated lobby to everyone
// already connected.
func (s *Session) Join(name string) (*engine.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.eng.Join(name)
	if err != nil {
		return nil, err
	}
	s.logAction(p.ID, "join", map[string]interface{}{"name": p.Name})
	s.broadcastState()
	return p, nil
}

// Start begins the game. Only the player who created the session may start
// it.
func (s *Session) Start(actorID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if actorID != s.CreatorID {
		return engine.NewError(engine.KindInvalidState, "only the game creator can start the game")
	}
	if err := s.eng.Start(); err != nil {
		return err
	}
	s.logAction(actorID, "start", nil)
	s.broadcastState()
	s.syncHands()
	return nil
}

// PlayCard plays a card for the given player and broadcasts the result. When
// the play ends the game the final result is persisted.
func (s *Session) PlayCard(playerID, cardID uuid.UUID, chosenColor engine.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.eng.PlayCard(playerID, cardID, chosenColor); err != nil {
		return err
	}
	s.logAction(playerID, "play_card", map[string]interface{}{
		"cardId":      cardID.String(),
		"chosenColor": string(chosenColor),
	})
	s.broadcastState()
	if s.eng.Status == engine.StatusFinished {
		s.finish()
	}
	return nil
}

// DrawCard draws one card for the given player. The drawn card is delivered
// privately; other players are not notified.
func (s *Session) DrawCard(playerID uuid.UUID) (engine.DrawnCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drawn, err := s.eng.DrawCard(playerID)
	if err != nil {
		return engine.DrawnCard{}, err
	}
	s.logAction(playerID, "draw_card", nil)
	d := drawn
	s.sendTo(playerID, Event{Type: EventDrawnCard, Drawn: &d})
	return drawn, nil
}

// PassTurn passes the turn for the given player.
func (s *Session) PassTurn(playerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.eng.PassTurn(playerID); err != nil {
		return err
	}
	s.logAction(playerID, "pass_turn", nil)
	s.broadcastState()
	return nil
}

// DeclareLastCard flags the player as having announced their last card. The
// declaration itself is not broadcast.
func (s *Session) DeclareLastCard(playerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.eng.DeclareLastCard(playerID); err != nil {
		return err
	}
	s.logAction(playerID, "declare_last_card", nil)
	return nil
}

// ChallengeLastCard resolves a last-card challenge and announces the outcome
// to the table.
func (s *Session) ChallengeLastCard(challengerID, challengedID uuid.UUID) (engine.ChallengeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.eng.ChallengeLastCard(challengerID, challengedID)
	if err != nil {
		return engine.ChallengeResult{}, err
	}
	s.logAction(challengerID, "challenge_last_card", map[string]interface{}{
		"challengedId": challengedID.String(),
		"success":      res.Success,
	})
	r := res
	s.broadcast(Event{Type: EventChallengeResult, Challenge: &r})
	s.broadcastState()
	return res, nil
}

// Attach registers a player's connection and syncs it with the current state.
// The player must already be seated.
func (s *Session) Attach(playerID uuid.UUID, conn Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.eng.PlayerByID(playerID); err != nil {
		return err
	}
	s.conns[playerID] = conn

	snap := s.eng.Snapshot()
	s.sendTo(playerID, Event{Type: EventGameState, State: &snap})
	if hand, err := s.eng.HandOf(playerID); err == nil && s.eng.Status != engine.StatusWaiting {
		s.sendTo(playerID, Event{Type: EventHand, Hand: hand})
	}
	return nil
}

// Detach removes a player's connection if it is still the registered one.
func (s *Session) Detach(playerID uuid.UUID, conn Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns[playerID] == conn {
		delete(s.conns, playerID)
	}
}

// SendError reports a rejected action privately to the player who sent it.
func (s *Session) SendError(playerID uuid.UUID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendTo(playerID, Event{Type: EventError, Error: &ErrorInfo{
		Kind:    engine.KindOf(err).String(),
		Message: err.Error(),
	}})
}

// broadcastState pushes the public snapshot to every connected player.
// Callers must hold the session mutex.
func (s *Session) broadcastState() {
	snap := s.eng.Snapshot()
	s.broadcast(Event{Type: EventGameState, State: &snap})
}

func (s *Session) broadcast(ev Event) {
	for playerID := range s.conns {
		s.sendTo(playerID, ev)
	}
}

func (s *Session) sendTo(playerID uuid.UUID, ev Event) {
	conn, ok := s.conns[playerID]
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := conn.Send(ctx, ev); err != nil {
		s.log.WithError(err).WithField("player_id", playerID).Warn("dropping unreachable connection")
		delete(s.conns, playerID)
	}
}

// syncHands privately refreshes every connected player's hand. Used after the
// deal, when hand contents change without each owner acting.
func (s *Session) syncHands() {
	for playerID := range s.conns {
		if hand, err := s.eng.HandOf(playerID); err == nil {
			s.sendTo(playerID, Event{Type: EventHand, Hand: hand})
		}
	}
}

// logAction publishes one history record. Publishing is asynchronous and
// best-effort so a slow or absent history backend never stalls gameplay.
// Callers must hold the session mutex.
func (s *Session) logAction(actorID uuid.UUID, action string, payload map[string]interface{}) {
	if s.history == nil {
		return
	}
	s.seq++
	rec := ActionRecord{
		GameID:    s.eng.ID,
		GameCode:  s.Code,
		Seq:       s.seq,
		ActorID:   actorID,
		Action:    action,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.history.LogAction(ctx, rec); err != nil {
			s.log.WithError(err).WithField("action", action).Warn("failed to record action")
		}
	}()
}

// finish persists the final standings. Callers must hold the session mutex
// and the game must be finished.
func (s *Session) finish() {
	winner, err := s.eng.PlayerByID(s.eng.WinnerID)
	if err != nil {
		s.log.WithError(err).Error("finished game has no winner on record")
		return
	}
	res := Result{
		GameID:     s.eng.ID,
		GameCode:   s.Code,
		WinnerID:   winner.ID,
		WinnerName: winner.Name,
		FinishedAt: time.Now(),
	}
	for _, p := range s.eng.Players {
		res.Players = append(res.Players, PlayerResult{
			PlayerID:  p.ID,
			Name:      p.Name,
			CardsLeft: p.HandSize(),
		})
	}
	s.logAction(winner.ID, "game_finished", map[string]interface{}{"winner": winner.Name})
	if s.results == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.results.SaveResult(ctx, res); err != nil {
			s.log.WithError(err).Error("failed to persist game result")
		}
	}()
}
