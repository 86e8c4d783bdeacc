package engine

// Playable reports whether candidate may be played on top of the current
// discard given the active color. Pure predicate, no side effects.
//
// Color matching uses the game's tracked active color rather than the top
// card's own color: after a wild the physical top card stays black while the
// active color is whatever the wild's player chose.
func Playable(candidate, topDiscard Card, activeColor Color) bool {
	if candidate.Color.Wild() {
		return true
	}
	return candidate.Color == activeColor || candidate.Value == topDiscard.Value
}
