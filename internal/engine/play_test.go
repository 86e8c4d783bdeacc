package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setTop pushes a known card onto the discard pile and aligns the active
// color with it.
func setTop(g *Game, color Color, value Value) Card {
	c := Card{ID: uuid.New(), Color: color, Value: value}
	g.DiscardPile = append(g.DiscardPile, c)
	if !color.Wild() {
		g.ActiveColor = color
	}
	return c
}

// giveCard puts a known card into the player's hand.
func giveCard(p *Player, color Color, value Value) Card {
	c := Card{ID: uuid.New(), Color: color, Value: value}
	p.Hand = append(p.Hand, c)
	return c
}

func TestPlayNumberCardAdvancesOneSeat(t *testing.T) {
	g, players := newTestGame(t, 1, "Alice", "Bob", "Carol")
	setTop(g, ColorRed, ValueFive)
	c := giveCard(players[0], ColorRed, ValueNine)

	require.NoError(t, g.PlayCard(players[0].ID, c.ID, ""))

	assert.Equal(t, c.ID, g.TopDiscard().ID)
	assert.Equal(t, ColorRed, g.ActiveColor)
	assert.Equal(t, players[1].ID, g.CurrentPlayer().ID)
	assert.Len(t, players[0].Hand, InitialHandSize)
}

func TestSkipThreePlayers(t *testing.T) {
	g, players := newTestGame(t, 1, "Alice", "Bob", "Carol")
	setTop(g, ColorRed, ValueFive)
	c := giveCard(players[0], ColorRed, ValueSkip)

	require.NoError(t, g.PlayCard(players[0].ID, c.ID, ""))

	assert.Equal(t, players[2].ID, g.CurrentPlayer().ID, "Bob is skipped")
	assert.Len(t, players[1].Hand, InitialHandSize, "skip draws nothing")
}

func TestReverseThreePlayers(t *testing.T) {
	g, players := newTestGame(t, 1, "Alice", "Bob", "Carol")
	setTop(g, ColorRed, ValueFive)
	c := giveCard(players[0], ColorRed, ValueReverse)

	require.NoError(t, g.PlayCard(players[0].ID, c.ID, ""))

	assert.True(t, g.Reversed)
	assert.Equal(t, players[2].ID, g.CurrentPlayer().ID, "one step backward from Alice")
}

func TestTwoPlayerReverseActsAsSkip(t *testing.T) {
	// With two players both REVERSE and SKIP land the turn back on the
	// player who played: two steps around a two-seat table.
	for _, value := range []Value{ValueReverse, ValueSkip} {
		g, players := newTestGame(t, 1, "Alice", "Bob")
		setTop(g, ColorRed, ValueFive)
		c := giveCard(players[0], ColorRed, value)

		require.NoError(t, g.PlayCard(players[0].ID, c.ID, ""))
		assert.Equal(t, players[0].ID, g.CurrentPlayer().ID, "%s returns the turn to Alice", value)
	}
}

func TestDrawTwoPenalizesAndSkips(t *testing.T) {
	g, players := newTestGame(t, 1, "Alice", "Bob", "Carol")
	setTop(g, ColorRed, ValueFive)
	c := giveCard(players[0], ColorRed, ValueDrawTwo)

	require.NoError(t, g.PlayCard(players[0].ID, c.ID, ""))

	assert.Len(t, players[1].Hand, InitialHandSize+2, "Bob draws the penalty")
	assert.Equal(t, players[2].ID, g.CurrentPlayer().ID, "Bob also loses the turn")
}

func TestWildChangesActiveColor(t *testing.T) {
	g, players := newTestGame(t, 1, "Alice", "Bob", "Carol")
	setTop(g, ColorRed, ValueFive)
	c := giveCard(players[0], ColorBlack, ValueWild)

	require.NoError(t, g.PlayCard(players[0].ID, c.ID, ColorBlue))

	assert.Equal(t, ColorBlue, g.ActiveColor)
	assert.Equal(t, c.ID, g.TopDiscard().ID, "physical top card stays black")
	assert.Equal(t, players[1].ID, g.CurrentPlayer().ID, "wild has no positional effect")
}

func TestWildRequiresStandardChosenColor(t *testing.T) {
	g, players := newTestGame(t, 1, "Alice", "Bob")
	top := setTop(g, ColorRed, ValueFive)
	c := giveCard(players[0], ColorBlack, ValueWild)
	handBefore := len(players[0].Hand)

	for _, chosen := range []Color{"", ColorBlack} {
		err := g.PlayCard(players[0].ID, c.ID, chosen)
		assert.Equal(t, KindIllegalMove, KindOf(err))
		assert.Len(t, players[0].Hand, handBefore, "failed play must not mutate the hand")
		assert.Equal(t, top.ID, g.TopDiscard().ID, "failed play must not mutate the discard")
		assert.Equal(t, players[0].ID, g.CurrentPlayer().ID)
	}
}

func TestWildDrawFour(t *testing.T) {
	g, players := newTestGame(t, 1, "Alice", "Bob", "Carol")
	setTop(g, ColorRed, ValueFive)
	c := giveCard(players[0], ColorBlack, ValueWildDrawFour)

	require.NoError(t, g.PlayCard(players[0].ID, c.ID, ColorYellow))

	assert.Equal(t, ColorYellow, g.ActiveColor)
	assert.Len(t, players[1].Hand, InitialHandSize+4)
	assert.Equal(t, players[2].ID, g.CurrentPlayer().ID)
}

func TestWinShortCircuitsCardEffects(t *testing.T) {
	g, players := newTestGame(t, 1, "Alice", "Bob", "Carol")
	setTop(g, ColorRed, ValueFive)

	last := Card{ID: uuid.New(), Color: ColorRed, Value: ValueDrawTwo}
	players[0].Hand = []Card{last}

	require.NoError(t, g.PlayCard(players[0].ID, last.ID, ""))

	assert.Equal(t, StatusFinished, g.Status)
	assert.Equal(t, players[0].ID, g.WinnerID)
	assert.Nil(t, g.CurrentPlayer(), "no current player once finished")
	assert.Len(t, players[1].Hand, InitialHandSize, "winning DRAW_TWO never forces a draw")

	snap := g.Snapshot()
	require.NotNil(t, snap.WinnerID)
	assert.Equal(t, players[0].ID, *snap.WinnerID)
	assert.Nil(t, snap.CurrentPlayerID)
}

func TestPlayCardValidation(t *testing.T) {
	g, players := newTestGame(t, 1, "Alice", "Bob")
	setTop(g, ColorRed, ValueFive)

	// Not this player's turn.
	c := giveCard(players[1], ColorRed, ValueNine)
	assert.Equal(t, KindOutOfTurn, KindOf(g.PlayCard(players[1].ID, c.ID, "")))

	// Unknown player, unknown card.
	assert.Equal(t, KindNotFound, KindOf(g.PlayCard(uuid.New(), c.ID, "")))
	assert.Equal(t, KindNotFound, KindOf(g.PlayCard(players[0].ID, uuid.New(), "")))

	// Unplayable card.
	bad := giveCard(players[0], ColorBlue, ValueNine)
	g.ActiveColor = ColorRed
	assert.Equal(t, KindIllegalMove, KindOf(g.PlayCard(players[0].ID, bad.ID, "")))

	// Finished game rejects everything.
	g.Status = StatusFinished
	g.Current = -1
	assert.Equal(t, KindInvalidState, KindOf(g.PlayCard(players[0].ID, bad.ID, "")))
}

func TestDrawCardRejectedWhileHoldingPlayable(t *testing.T) {
	g, players := newTestGame(t, 1, "Alice", "Bob")
	setTop(g, ColorRed, ValueFive)
	giveCard(players[0], ColorRed, ValueNine)
	handBefore := len(players[0].Hand)
	pileBefore := len(g.DrawPile)

	_, err := g.DrawCard(players[0].ID)
	assert.Equal(t, KindIllegalMove, KindOf(err))
	assert.Len(t, players[0].Hand, handBefore)
	assert.Len(t, g.DrawPile, pileBefore)
	assert.Equal(t, players[0].ID, g.CurrentPlayer().ID)
}

func TestDrawCardReturnsPrivatePlayability(t *testing.T) {
	g, players := newTestGame(t, 1, "Alice", "Bob")
	setTop(g, ColorRed, ValueFive)
	players[0].Hand = []Card{{ID: uuid.New(), Color: ColorBlue, Value: ValueNine}}

	drawn, err := g.DrawCard(players[0].ID)
	require.NoError(t, err)

	assert.Equal(t, Playable(drawn.Card, g.TopDiscard(), g.ActiveColor), drawn.Playable)
	assert.Len(t, players[0].Hand, 2)
	assert.Equal(t, players[0].ID, g.CurrentPlayer().ID, "drawing does not advance the turn")
}

func TestDrawReclaimsDiscardPile(t *testing.T) {
	g, players := newTestGame(t, 1, "Alice", "Bob")

	// Empty draw pile, five-card discard pile, unplayable hand.
	g.DrawPile = nil
	g.DiscardPile = nil
	for _, v := range []Value{ValueOne, ValueTwo, ValueThree, ValueFour} {
		setTop(g, ColorGreen, v)
	}
	top := setTop(g, ColorRed, ValueFive)
	players[0].Hand = []Card{{ID: uuid.New(), Color: ColorBlue, Value: ValueNine}}

	_, err := g.DrawCard(players[0].ID)
	require.NoError(t, err)

	assert.Len(t, g.DiscardPile, 1, "only the top card stays discarded")
	assert.Equal(t, top.ID, g.TopDiscard().ID)
	assert.Len(t, g.DrawPile, 3, "n-1 reclaimed minus the card just drawn")
}

func TestDrawExhausted(t *testing.T) {
	g, players := newTestGame(t, 1, "Alice", "Bob")
	g.DrawPile = nil
	g.DiscardPile = nil
	setTop(g, ColorRed, ValueFive)
	players[0].Hand = []Card{{ID: uuid.New(), Color: ColorBlue, Value: ValueNine}}

	_, err := g.DrawCard(players[0].ID)
	assert.Equal(t, KindExhausted, KindOf(err))
	assert.Len(t, players[0].Hand, 1, "nothing fabricated")
}

func TestPassTurn(t *testing.T) {
	g, players := newTestGame(t, 1, "Alice", "Bob", "Carol")
	setTop(g, ColorRed, ValueFive)

	// Holding a playable card forbids passing.
	giveCard(players[0], ColorRed, ValueNine)
	assert.Equal(t, KindIllegalMove, KindOf(g.PassTurn(players[0].ID)))

	// Without playable cards the pass advances exactly one seat.
	players[0].Hand = []Card{{ID: uuid.New(), Color: ColorBlue, Value: ValueNine}}
	assert.Equal(t, KindOutOfTurn, KindOf(g.PassTurn(players[1].ID)))
	require.NoError(t, g.PassTurn(players[0].ID))
	assert.Equal(t, players[1].ID, g.CurrentPlayer().ID)
}

func TestDeclareLastCard(t *testing.T) {
	g, players := newTestGame(t, 1, "Alice", "Bob")

	err := g.DeclareLastCard(players[1].ID)
	assert.Equal(t, KindIllegalMove, KindOf(err), "seven cards in hand")

	players[1].Hand = players[1].Hand[:1]
	require.NoError(t, g.DeclareLastCard(players[1].ID), "declaring is allowed off-turn")
	assert.True(t, players[1].DeclaredLastCard)
}

func TestChallengeSucceedsAgainstUndeclared(t *testing.T) {
	g, players := newTestGame(t, 1, "Alice", "Bob", "Carol")
	players[1].Hand = players[1].Hand[:1]
	challengerHand := len(players[2].Hand)
	current := g.CurrentPlayer().ID

	res, err := g.ChallengeLastCard(players[2].ID, players[1].ID)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, players[1].ID, res.PenalizedID)
	assert.Equal(t, 2, res.CardsDrawn)
	assert.Len(t, players[1].Hand, 3)
	assert.Len(t, players[2].Hand, challengerHand, "challenger unchanged")
	assert.Equal(t, current, g.CurrentPlayer().ID, "challenge never moves the turn")
}

func TestChallengeFailsAgainstDeclared(t *testing.T) {
	g, players := newTestGame(t, 1, "Alice", "Bob")
	players[1].Hand = players[1].Hand[:1]
	require.NoError(t, g.DeclareLastCard(players[1].ID))

	res, err := g.ChallengeLastCard(players[0].ID, players[1].ID)
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, players[0].ID, res.PenalizedID)
	assert.Len(t, players[0].Hand, InitialHandSize+2)
	assert.Len(t, players[1].Hand, 1)
}

func TestChallengeFailsAgainstFullHand(t *testing.T) {
	g, players := newTestGame(t, 1, "Alice", "Bob")

	res, err := g.ChallengeLastCard(players[0].ID, players[1].ID)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Len(t, players[0].Hand, InitialHandSize+2)
}

func TestChallengeUnknownPlayer(t *testing.T) {
	g, players := newTestGame(t, 1, "Alice", "Bob")
	_, err := g.ChallengeLastCard(uuid.New(), players[1].ID)
	assert.Equal(t, KindNotFound, KindOf(err))
	_, err = g.ChallengeLastCard(players[0].ID, uuid.New())
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestPenaltyDrawClearsDeclaration(t *testing.T) {
	g, players := newTestGame(t, 1, "Alice", "Bob", "Carol")
	setTop(g, ColorRed, ValueFive)

	players[1].Hand = players[1].Hand[:1]
	require.NoError(t, g.DeclareLastCard(players[1].ID))

	c := giveCard(players[0], ColorRed, ValueDrawTwo)
	require.NoError(t, g.PlayCard(players[0].ID, c.ID, ""))

	assert.Len(t, players[1].Hand, 3)
	assert.False(t, players[1].DeclaredLastCard, "hand grew past one card")
}

func TestChallengePenaltyStopsWhenExhausted(t *testing.T) {
	g, players := newTestGame(t, 1, "Alice", "Bob")
	players[1].Hand = players[1].Hand[:1]
	g.DrawPile = g.DrawPile[:1]
	g.DiscardPile = g.DiscardPile[:1]

	res, err := g.ChallengeLastCard(players[0].ID, players[1].ID)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.CardsDrawn, "only one card existed outside hands")
	assert.Len(t, players[1].Hand, 2)
}

// TestDeckConservation plays a full seeded game through the public API and
// checks the 108-card multiset is preserved after every action.
func TestDeckConservation(t *testing.T) {
	g, _ := newTestGame(t, 99, "Alice", "Bob", "Carol")
	require.Equal(t, DeckSize, totalCards(g))

	for turns := 0; turns < 2000 && g.Status == StatusInProgress; turns++ {
		p := g.CurrentPlayer()
		require.NotNil(t, p)

		played := false
		for _, c := range p.Hand {
			if Playable(c, g.TopDiscard(), g.ActiveColor) {
				require.NoError(t, g.PlayCard(p.ID, c.ID, ColorRed))
				played = true
				break
			}
		}
		if !played {
			drawn, err := g.DrawCard(p.ID)
			if IsKind(err, KindExhausted) {
				require.NoError(t, g.PassTurn(p.ID))
			} else {
				require.NoError(t, err)
				if drawn.Playable {
					require.NoError(t, g.PlayCard(p.ID, drawn.Card.ID, ColorRed))
				} else {
					require.NoError(t, g.PassTurn(p.ID))
				}
			}
		}
		require.Equal(t, DeckSize, totalCards(g), "after turn %d", turns)
	}

	assert.Equal(t, StatusFinished, g.Status, "seeded game should finish")
	assert.NotEqual(t, uuid.Nil, g.WinnerID)
}
