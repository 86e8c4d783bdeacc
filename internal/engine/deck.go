package engine

import (
	"math/rand"

	"github.com/google/uuid"
)

// DeckSize is the fixed number of cards in a full UNO deck.
const DeckSize = 108

// NewDeck builds the canonical 108-card deck: per color one ZERO, two each
// of 1..9, two each of SKIP/REVERSE/DRAW_TWO, plus four WILD and four
// WILD_DRAW_FOUR. Each card gets a fresh identity. The deck is returned
// unshuffled.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)

	for _, color := range StandardColors {
		deck = append(deck, Card{ID: uuid.New(), Color: color, Value: ValueZero})
		for _, v := range numberValues {
			deck = append(deck,
				Card{ID: uuid.New(), Color: color, Value: v},
				Card{ID: uuid.New(), Color: color, Value: v},
			)
		}
		for _, v := range actionValues {
			deck = append(deck,
				Card{ID: uuid.New(), Color: color, Value: v},
				Card{ID: uuid.New(), Color: color, Value: v},
			)
		}
	}

	for i := 0; i < 4; i++ {
		deck = append(deck,
			Card{ID: uuid.New(), Color: ColorBlack, Value: ValueWild},
			Card{ID: uuid.New(), Color: ColorBlack, Value: ValueWildDrawFour},
		)
	}

	return deck
}

// shuffle permutes cards in place with the game's random source.
func shuffle(rng *rand.Rand, cards []Card) {
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}
