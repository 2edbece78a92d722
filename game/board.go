package game

import (
	"fmt"
	"math/rand"

	"fruit-memory/matcherrors"
)

// DefaultPairMultiplier is how many copies of each symbol a standard board holds.
const DefaultPairMultiplier = 2

// DefaultCardsPerRow is the grid width used when none is configured.
const DefaultCardsPerRow = 4

// Shuffler permutes n elements through swap. rand.Shuffle satisfies it.
type Shuffler func(n int, swap func(i, j int))

// Position is a card's place in the grid, row-major from the top-left corner.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Board owns the cards of one game and their grid arrangement.
type Board struct {
	Cards       []Card
	CardsPerRow int
	totalPairs  int
}

// NewBoard builds a board holding pairMultiplier copies of every symbol and
// shuffles it. A nil shuffle uses math/rand.
func NewBoard(symbols []Symbol, pairMultiplier, cardsPerRow int, shuffle Shuffler) (*Board, error) {
	if err := validateSymbols(symbols); err != nil {
		return nil, err
	}
	if pairMultiplier < 2 || pairMultiplier%2 != 0 {
		return nil, fmt.Errorf("%w: pair multiplier must be a positive even number, got %d", matcherrors.ErrInvalidConfiguration, pairMultiplier)
	}
	if cardsPerRow < 1 {
		return nil, fmt.Errorf("%w: cards per row must be positive, got %d", matcherrors.ErrInvalidConfiguration, cardsPerRow)
	}
	if shuffle == nil {
		shuffle = rand.Shuffle
	}

	// The whole set is repeated, so {A,B} starts as [A,B,A,B] before shuffling.
	totalCards := len(symbols) * pairMultiplier
	cards := make([]Card, 0, totalCards)
	for copyIdx := 0; copyIdx < pairMultiplier; copyIdx++ {
		for _, s := range symbols {
			cards = append(cards, Card{Symbol: s, State: Hidden})
		}
	}

	shuffle(totalCards, func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	// Assign indices after shuffle
	for i := range cards {
		cards[i].Index = i
	}

	return &Board{
		Cards:       cards,
		CardsPerRow: cardsPerRow,
		totalPairs:  totalCards / 2,
	}, nil
}

func validateSymbols(symbols []Symbol) error {
	if len(symbols) == 0 {
		return fmt.Errorf("%w: symbol set is empty", matcherrors.ErrInvalidConfiguration)
	}
	seen := make(map[Symbol]struct{}, len(symbols))
	for _, s := range symbols {
		if s == "" {
			return fmt.Errorf("%w: blank symbol", matcherrors.ErrInvalidConfiguration)
		}
		if _, dup := seen[s]; dup {
			return fmt.Errorf("%w: duplicate symbol %q", matcherrors.ErrInvalidConfiguration, s)
		}
		seen[s] = struct{}{}
	}
	return nil
}

// CardAt returns the card at index, or ErrIndexOutOfRange.
func (b *Board) CardAt(index int) (*Card, error) {
	if index < 0 || index >= len(b.Cards) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", matcherrors.ErrIndexOutOfRange, index, len(b.Cards))
	}
	return &b.Cards[index], nil
}

// Len returns the number of cards on the board.
func (b *Board) Len() int {
	return len(b.Cards)
}

// TotalPairs returns how many pairs must be matched to finish the board.
func (b *Board) TotalPairs() int {
	return b.totalPairs
}

// Position returns the grid cell for a card index. It does not bounds-check.
func (b *Board) Position(index int) Position {
	return Position{Row: index / b.CardsPerRow, Col: index % b.CardsPerRow}
}

// Rows returns the number of grid rows, counting a partial last row.
func (b *Board) Rows() int {
	return (len(b.Cards) + b.CardsPerRow - 1) / b.CardsPerRow
}

// AllMatched returns true if every card on the board is in the Matched state.
func (b *Board) AllMatched() bool {
	for _, card := range b.Cards {
		if card.State != Matched {
			return false
		}
	}
	return true
}
