// Package engine implements the UNO rule state machine.
//
// The engine is the authoritative in-memory model of a single game: deck
// composition, turn order, card legality, special-card effects, the
// declare/challenge last-card subgame, and draw-pile reclamation. It performs
// no I/O and never logs; callers own serialization of actions per game and
// delivery of snapshots to players.
package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// Color is a card color. Black is reserved for wild cards and is never a
// valid active color.
type Color string

const (
	ColorRed    Color = "RED"
	ColorGreen  Color = "GREEN"
	ColorBlue   Color = "BLUE"
	ColorYellow Color = "YELLOW"
	ColorBlack  Color = "BLACK"
)

// StandardColors are the four colors a wild card may select.
var StandardColors = [4]Color{ColorRed, ColorGreen, ColorBlue, ColorYellow}

// Wild reports whether the color marks a wild (black) card.
func (c Color) Wild() bool { return c == ColorBlack }

// Standard reports whether the color is one of the four non-black colors.
func (c Color) Standard() bool {
	for _, sc := range StandardColors {
		if c == sc {
			return true
		}
	}
	return false
}

// Value is a card face value.
type Value string

const (
	ValueZero         Value = "ZERO"
	ValueOne          Value = "ONE"
	ValueTwo          Value = "TWO"
	ValueThree        Value = "THREE"
	ValueFour         Value = "FOUR"
	ValueFive         Value = "FIVE"
	ValueSix          Value = "SIX"
	ValueSeven        Value = "SEVEN"
	ValueEight        Value = "EIGHT"
	ValueNine         Value = "NINE"
	ValueSkip         Value = "SKIP"
	ValueReverse      Value = "REVERSE"
	ValueDrawTwo      Value = "DRAW_TWO"
	ValueWild         Value = "WILD"
	ValueWildDrawFour Value = "WILD_DRAW_FOUR"
)

// numberValues are the values 1..9, present twice per color.
var numberValues = [9]Value{
	ValueOne, ValueTwo, ValueThree, ValueFour, ValueFive,
	ValueSix, ValueSeven, ValueEight, ValueNine,
}

// actionValues are the colored action cards, present twice per color.
var actionValues = [3]Value{ValueSkip, ValueReverse, ValueDrawTwo}

// Card is an immutable (color, value) pair with a stable identity. The ID
// lets a client name "this card in my hand"; rule evaluation only ever looks
// at Color and Value.
type Card struct {
	ID    uuid.UUID `json:"id"`
	Color Color     `json:"color"`
	Value Value     `json:"value"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s %s", c.Color, c.Value)
}
