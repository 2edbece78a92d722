package game

// Symbol is the identity printed on a card face. Each symbol appears exactly
// twice on a standard board.
type Symbol string

// CardState represents the current state of a card.
type CardState int

const (
	Hidden CardState = iota
	Revealed
	Matched
)

// String returns the string representation of a CardState.
func (cs CardState) String() string {
	switch cs {
	case Hidden:
		return "hidden"
	case Revealed:
		return "revealed"
	case Matched:
		return "matched"
	default:
		return "unknown"
	}
}

// Card represents a single cell of the board. It holds no drawing or audio
// handles; the presentation layer reads State and Symbol each frame.
type Card struct {
	Index  int
	Symbol Symbol
	State  CardState
}

// Reveal turns a hidden card face up. It reports whether the state changed.
func (c *Card) Reveal() bool {
	if c.State != Hidden {
		return false
	}
	c.State = Revealed
	return true
}

// Conceal turns a revealed card face down again. Matched cards stay matched.
func (c *Card) Conceal() bool {
	if c.State != Revealed {
		return false
	}
	c.State = Hidden
	return true
}

// MarkMatched moves the card to its terminal state. Calling it twice is a no-op;
// the return value is true only on the first call.
func (c *Card) MarkMatched() bool {
	if c.State == Matched {
		return false
	}
	c.State = Matched
	return true
}

// IsSelectable reports whether the card may be picked by the player.
func (c *Card) IsSelectable() bool {
	return c.State == Hidden
}
