package engine

import "github.com/google/uuid"

// PlayerInfo is the public view of a seated player: identity, name and hand
// size, never hand contents.
type PlayerInfo struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	HandSize        int       `json:"handSize"`
	IsCurrentPlayer bool      `json:"isCurrentPlayer"`
}

// Snapshot is the broadcastable public view of a game. It exposes hand
// sizes and the face-up discard but no hidden cards.
type Snapshot struct {
	GameID          uuid.UUID    `json:"gameId"`
	Status          Status       `json:"status"`
	Players         []PlayerInfo `json:"players"`
	CurrentPlayerID *uuid.UUID   `json:"currentPlayerId"`
	TopDiscardCard  *Card        `json:"topDiscardCard"`
	ActiveColor     Color        `json:"activeColor,omitempty"`
	DrawPileSize    int          `json:"drawPileSize"`
	WinnerID        *uuid.UUID   `json:"winnerId,omitempty"`
}

// Snapshot produces the public view of the current state.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		GameID:       g.ID,
		Status:       g.Status,
		Players:      make([]PlayerInfo, len(g.Players)),
		ActiveColor:  g.ActiveColor,
		DrawPileSize: len(g.DrawPile),
	}
	for i, p := range g.Players {
		snap.Players[i] = PlayerInfo{
			ID:              p.ID,
			Name:            p.Name,
			HandSize:        len(p.Hand),
			IsCurrentPlayer: g.Status == StatusInProgress && i == g.Current,
		}
	}
	if cp := g.CurrentPlayer(); cp != nil {
		id := cp.ID
		snap.CurrentPlayerID = &id
	}
	if len(g.DiscardPile) > 0 {
		top := g.TopDiscard()
		snap.TopDiscardCard = &top
	}
	if g.WinnerID != uuid.Nil {
		id := g.WinnerID
		snap.WinnerID = &id
	}
	return snap
}

// HandOf returns a copy of the named player's hand, for private delivery to
// that player only.
func (g *Game) HandOf(playerID uuid.UUID) ([]Card, error) {
	p, err := g.PlayerByID(playerID)
	if err != nil {
		return nil, err
	}
	hand := make([]Card, len(p.Hand))
	copy(hand, p.Hand)
	return hand, nil
}
