package engine

import "github.com/google/uuid"

// DrawnCard is the private result of a voluntary draw: the card itself and
// whether it may be played immediately.
type DrawnCard struct {
	Card     Card `json:"card"`
	Playable bool `json:"canPlay"`
}

// ChallengeResult reports the outcome of a last-card challenge.
type ChallengeResult struct {
	Success      bool      `json:"success"`
	PenalizedID  uuid.UUID `json:"penalizedId"`
	CardsDrawn   int       `json:"cardsDrawn"`
	ChallengerID uuid.UUID `json:"challengerId"`
	ChallengedID uuid.UUID `json:"challengedId"`
}

// challengePenalty is the number of cards drawn by whichever side loses a
// last-card challenge.
const challengePenalty = 2

// PlayCard plays the named card from the player's hand onto the discard
// pile. chosenColor is required (and must be one of the four standard
// colors) exactly when the card is black; it is ignored otherwise.
//
// All validation happens before any mutation: a failed play leaves the game
// untouched. If the play empties the player's hand the game finishes
// immediately and no card effect is evaluated.
func (g *Game) PlayCard(playerID, cardID uuid.UUID, chosenColor Color) error {
	if g.Status != StatusInProgress {
		return newError(KindInvalidState, "game is not in progress")
	}
	p, err := g.PlayerByID(playerID)
	if err != nil {
		return err
	}
	idx := p.cardIndex(cardID)
	if idx < 0 {
		return newError(KindNotFound, "card %s is not in your hand", cardID)
	}
	if g.Players[g.Current].ID != playerID {
		return newError(KindOutOfTurn, "it's not your turn")
	}
	card := p.Hand[idx]
	if !Playable(card, g.TopDiscard(), g.ActiveColor) {
		return newError(KindIllegalMove, "%v cannot be played on %v with active color %s",
			card, g.TopDiscard(), g.ActiveColor)
	}
	if card.Color.Wild() && !chosenColor.Standard() {
		return newError(KindIllegalMove, "a standard color must be chosen when playing a wild card")
	}

	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	g.DiscardPile = append(g.DiscardPile, card)

	if len(p.Hand) != 1 {
		p.DeclaredLastCard = false
	}

	// Win check runs before any card effect: a winning DRAW_TWO never makes
	// the opponent draw.
	if len(p.Hand) == 0 {
		g.Status = StatusFinished
		g.Current = -1
		g.WinnerID = p.ID
		return nil
	}

	g.resolveTurn(card, chosenColor)
	return nil
}

// resolveTurn applies the played card's color update and effect, then
// commits the next current player. Ordered pipeline: color, penalty draw,
// position.
func (g *Game) resolveTurn(card Card, chosenColor Color) {
	if card.Color.Wild() {
		g.ActiveColor = chosenColor
	} else {
		g.ActiveColor = card.Color
	}

	switch card.Value {
	case ValueSkip:
		g.Current = g.nextIndex(2)
	case ValueReverse:
		g.Reversed = !g.Reversed
		if len(g.Players) == 2 {
			// Two-handed reverse acts as a skip.
			g.Current = g.nextIndex(2)
		} else {
			g.Current = g.nextIndex(1)
		}
	case ValueDrawTwo:
		g.drawMany(g.Players[g.nextIndex(1)], 2)
		g.Current = g.nextIndex(2)
	case ValueWildDrawFour:
		g.drawMany(g.Players[g.nextIndex(1)], 4)
		g.Current = g.nextIndex(2)
	default:
		g.Current = g.nextIndex(1)
	}
}

// DrawCard draws one card for the current player. It is only legal when the
// player holds no playable card, and it does not advance the turn: the
// player may then play the drawn card or pass.
func (g *Game) DrawCard(playerID uuid.UUID) (DrawnCard, error) {
	if g.Status != StatusInProgress {
		return DrawnCard{}, newError(KindInvalidState, "game is not in progress")
	}
	p, err := g.PlayerByID(playerID)
	if err != nil {
		return DrawnCard{}, err
	}
	if g.Players[g.Current].ID != playerID {
		return DrawnCard{}, newError(KindOutOfTurn, "it's not your turn")
	}
	if g.hasPlayable(p) {
		return DrawnCard{}, newError(KindIllegalMove, "you hold a playable card and must play it instead of drawing")
	}

	drawn := g.drawMany(p, 1)
	if len(drawn) == 0 {
		return DrawnCard{}, newError(KindExhausted, "no cards left to draw")
	}
	card := drawn[0]
	return DrawnCard{
		Card:     card,
		Playable: Playable(card, g.TopDiscard(), g.ActiveColor),
	}, nil
}

// PassTurn advances the turn one seat. Passing is only legal when the
// player holds no playable card.
func (g *Game) PassTurn(playerID uuid.UUID) error {
	if g.Status != StatusInProgress {
		return newError(KindInvalidState, "game is not in progress")
	}
	p, err := g.PlayerByID(playerID)
	if err != nil {
		return err
	}
	if g.Players[g.Current].ID != playerID {
		return newError(KindOutOfTurn, "it's not your turn")
	}
	if g.hasPlayable(p) {
		return newError(KindIllegalMove, "you hold a playable card and must play it instead of passing")
	}
	g.Current = g.nextIndex(1)
	return nil
}

// DeclareLastCard sets the player's last-card flag. Only legal while the
// hand holds exactly one card. Does not require the player's turn.
func (g *Game) DeclareLastCard(playerID uuid.UUID) error {
	if g.Status != StatusInProgress {
		return newError(KindInvalidState, "game is not in progress")
	}
	p, err := g.PlayerByID(playerID)
	if err != nil {
		return err
	}
	if len(p.Hand) != 1 {
		return newError(KindIllegalMove, "last card can only be declared with exactly one card in hand")
	}
	p.DeclaredLastCard = true
	return nil
}

// ChallengeLastCard resolves a challenge against a player suspected of not
// declaring their last card. If the challenged player holds exactly one card
// and has not declared, they draw two penalty cards; otherwise the
// challenger draws two instead. The turn never moves, and no turn is
// required to challenge.
func (g *Game) ChallengeLastCard(challengerID, challengedID uuid.UUID) (ChallengeResult, error) {
	if g.Status != StatusInProgress {
		return ChallengeResult{}, newError(KindInvalidState, "game is not in progress")
	}
	challenger, err := g.PlayerByID(challengerID)
	if err != nil {
		return ChallengeResult{}, err
	}
	challenged, err := g.PlayerByID(challengedID)
	if err != nil {
		return ChallengeResult{}, err
	}

	res := ChallengeResult{
		ChallengerID: challengerID,
		ChallengedID: challengedID,
		Success:      len(challenged.Hand) == 1 && !challenged.DeclaredLastCard,
	}
	penalized := challenger
	if res.Success {
		penalized = challenged
	}
	res.PenalizedID = penalized.ID
	res.CardsDrawn = len(g.drawMany(penalized, challengePenalty))
	return res, nil
}

// hasPlayable reports whether the player holds any card legal on the
// current discard.
func (g *Game) hasPlayable(p *Player) bool {
	top := g.TopDiscard()
	for _, c := range p.Hand {
		if Playable(c, top, g.ActiveColor) {
			return true
		}
	}
	return false
}

// drawMany moves up to n cards from the draw pile into the player's hand,
// reclaiming the discard pile whenever the draw pile empties. It returns
// the cards actually drawn, which may be fewer than n (or none) when every
// card outside the hands is the lone top discard.
func (g *Game) drawMany(p *Player, n int) []Card {
	drawn := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		if len(g.DrawPile) == 0 {
			g.reclaimDiscard()
			if len(g.DrawPile) == 0 {
				break
			}
		}
		c := g.popDraw()
		p.Hand = append(p.Hand, c)
		drawn = append(drawn, c)
	}
	// Growing the hand past one card invalidates any earlier declaration.
	if len(drawn) > 0 && len(p.Hand) != 1 {
		p.DeclaredLastCard = false
	}
	return drawn
}

// reclaimDiscard rebuilds the draw pile from every discard except the
// face-up top card, which stays as the sole discard.
func (g *Game) reclaimDiscard() {
	if len(g.DiscardPile) < 2 {
		return
	}
	top := g.DiscardPile[len(g.DiscardPile)-1]
	reclaimed := make([]Card, len(g.DiscardPile)-1)
	copy(reclaimed, g.DiscardPile[:len(g.DiscardPile)-1])
	shuffle(g.rng, reclaimed)
	g.DrawPile = reclaimed
	g.DiscardPile = []Card{top}
}
