package engine

import (
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is a game lifecycle phase.
type Status string

const (
	StatusWaiting    Status = "WAITING_FOR_PLAYERS"
	StatusInProgress Status = "IN_PROGRESS"
	StatusFinished   Status = "FINISHED"
)

const (
	// MinPlayers is the minimum number of players required to start.
	MinPlayers = 2
	// MaxPlayers caps the table so the opening deal can never exhaust the
	// deck (10 players * 7 cards + the first discard < 108).
	MaxPlayers = 10
	// InitialHandSize is the number of cards dealt to each player at start.
	InitialHandSize = 7
)

// Player is a seated participant. Hand order carries no meaning; cards are
// located by identity.
type Player struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Hand []Card    `json:"-"`

	// DeclaredLastCard is only meaningful while the hand holds exactly one
	// card; any hand-size change away from one clears it.
	DeclaredLastCard bool `json:"-"`
}

// HandSize returns the number of cards the player holds.
func (p *Player) HandSize() int { return len(p.Hand) }

// cardIndex locates a card in the hand by identity, or -1.
func (p *Player) cardIndex(cardID uuid.UUID) int {
	for i, c := range p.Hand {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

// Game is the mutable state of one UNO session. It is not safe for
// concurrent use; the caller must serialize actions per game (the session
// layer holds one mutex per game).
//
// While the game is in progress the full 108-card multiset is partitioned
// across DrawPile, DiscardPile and the players' hands; cards are never
// created or destroyed after start.
type Game struct {
	ID          uuid.UUID
	Players     []*Player
	DrawPile    []Card // pop from end
	DiscardPile []Card // last element is the face-up top card
	Current     int    // index into Players, -1 when no current player
	Reversed    bool
	ActiveColor Color // always one of the four standard colors while in progress
	Status      Status
	WinnerID    uuid.UUID

	rng *rand.Rand
}

// New creates a game in the waiting state with an empty seat list and a
// freshly shuffled draw pile. The random source drives this shuffle and all
// later reclamation shuffles; pass a seeded source for deterministic tests.
// A nil rng gets a time-seeded one.
func New(rng *rand.Rand) *Game {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g := &Game{
		ID:      uuid.New(),
		Current: -1,
		Status:  StatusWaiting,
		rng:     rng,
	}
	g.DrawPile = NewDeck()
	shuffle(g.rng, g.DrawPile)
	return g
}

// Join seats a new player. Names must be non-empty and unique within the
// game, compared case-insensitively. Joining is only possible before start.
func (g *Game) Join(name string) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newError(KindIllegalMove, "player name must not be empty")
	}
	if g.Status != StatusWaiting {
		return nil, newError(KindInvalidState, "cannot join a game that is already in progress or finished")
	}
	if len(g.Players) >= MaxPlayers {
		return nil, newError(KindInvalidState, "game already has the maximum of %d players", MaxPlayers)
	}
	for _, p := range g.Players {
		if strings.EqualFold(p.Name, name) {
			return nil, newError(KindInvalidState, "a player named %q is already in this game", p.Name)
		}
	}
	p := &Player{ID: uuid.New(), Name: name}
	g.Players = append(g.Players, p)
	return p, nil
}

// Start deals seven cards to every seated player, flips the first discard
// and hands the turn to the first player who joined.
//
// If the flipped card is a WILD_DRAW_FOUR it is shuffled back into the draw
// pile and another card is flipped. A plain WILD may start the pile; since
// it carries no color, the engine picks the opening active color at random.
func (g *Game) Start() error {
	if g.Status != StatusWaiting {
		return newError(KindInvalidState, "game has already started or is finished")
	}
	if len(g.Players) < MinPlayers {
		return newError(KindInvalidState, "cannot start with fewer than %d players", MinPlayers)
	}

	g.Status = StatusInProgress

	for _, p := range g.Players {
		for i := 0; i < InitialHandSize; i++ {
			p.Hand = append(p.Hand, g.popDraw())
		}
	}

	first := g.popDraw()
	for first.Value == ValueWildDrawFour {
		g.DrawPile = append(g.DrawPile, first)
		shuffle(g.rng, g.DrawPile)
		first = g.popDraw()
	}
	g.DiscardPile = append(g.DiscardPile, first)

	if first.Color.Wild() {
		g.ActiveColor = StandardColors[g.rng.Intn(len(StandardColors))]
	} else {
		g.ActiveColor = first.Color
	}

	g.Current = 0
	g.Reversed = false
	return nil
}

// CurrentPlayer returns the player whose turn it is, or nil when the game
// is not in progress.
func (g *Game) CurrentPlayer() *Player {
	if g.Status != StatusInProgress || g.Current < 0 || g.Current >= len(g.Players) {
		return nil
	}
	return g.Players[g.Current]
}

// TopDiscard returns the face-up top of the discard pile. The pile is never
// empty once the game has started.
func (g *Game) TopDiscard() Card {
	return g.DiscardPile[len(g.DiscardPile)-1]
}

// PlayerByID locates a seated player by identity.
func (g *Game) PlayerByID(playerID uuid.UUID) (*Player, error) {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p, nil
		}
	}
	return nil, newError(KindNotFound, "player %s is not in this game", playerID)
}

// popDraw removes and returns the top card of the draw pile. Callers must
// ensure the pile is non-empty.
func (g *Game) popDraw() Card {
	c := g.DrawPile[len(g.DrawPile)-1]
	g.DrawPile = g.DrawPile[:len(g.DrawPile)-1]
	return c
}

// nextIndex advances steps seats from the current player in the active
// direction, wrapping around the table.
func (g *Game) nextIndex(steps int) int {
	n := len(g.Players)
	dir := 1
	if g.Reversed {
		dir = -1
	}
	idx := (g.Current + dir*steps) % n
	if idx < 0 {
		idx += n
	}
	return idx
}
