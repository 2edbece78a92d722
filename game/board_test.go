package game

import (
	"errors"
	"math/rand"
	"testing"

	"fruit-memory/matcherrors"
)

var fruits = []Symbol{"Apple", "Banana", "Orange", "Mango", "Grape", "Pear", "Lemon", "Peach"}

// noShuffle keeps the dealt order, so {A,B} stays [A,B,A,B].
func noShuffle(int, func(i, j int)) {}

func TestNewBoard(t *testing.T) {
	board, err := NewBoard(fruits, DefaultPairMultiplier, 4, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	totalCards := len(fruits) * 2
	if board.Len() != totalCards {
		t.Fatalf("expected %d cards, got %d", totalCards, board.Len())
	}
	if board.TotalPairs() != len(fruits) {
		t.Errorf("expected TotalPairs=%d, got %d", len(fruits), board.TotalPairs())
	}

	// Check that indices are 0..totalCards-1
	for i, card := range board.Cards {
		if card.Index != i {
			t.Errorf("expected card[%d].Index=%d, got %d", i, i, card.Index)
		}
		if card.State != Hidden {
			t.Errorf("expected card[%d].State=Hidden, got %v", i, card.State)
		}
	}

	// Check that there are exactly 2 cards per symbol
	symbolCount := make(map[Symbol]int)
	for _, card := range board.Cards {
		symbolCount[card.Symbol]++
	}
	if len(symbolCount) != len(fruits) {
		t.Errorf("expected %d distinct symbols, got %d", len(fruits), len(symbolCount))
	}
	for sym, count := range symbolCount {
		if count != 2 {
			t.Errorf("symbol %s has %d cards, expected 2", sym, count)
		}
	}
}

func TestNewBoardEverySymbolTwiceForManySeeds(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		n := 1 + rng.Intn(len(fruits))
		board, err := NewBoard(fruits[:n], 2, 3, rng.Shuffle)
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}
		counts := make(map[Symbol]int)
		for _, c := range board.Cards {
			counts[c.Symbol]++
		}
		for _, s := range fruits[:n] {
			if counts[s] != 2 {
				t.Errorf("seed %d: symbol %s appears %d times", seed, s, counts[s])
			}
		}
		if board.TotalPairs() != n {
			t.Errorf("seed %d: expected TotalPairs=%d, got %d", seed, n, board.TotalPairs())
		}
	}
}

func TestNewBoardDealOrder(t *testing.T) {
	board, err := NewBoard([]Symbol{"A", "B"}, 2, 4, noShuffle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Symbol{"A", "B", "A", "B"}
	for i, sym := range want {
		if board.Cards[i].Symbol != sym {
			t.Errorf("expected card[%d]=%s, got %s", i, sym, board.Cards[i].Symbol)
		}
	}
}

func TestNewBoardPairMultiplier(t *testing.T) {
	board, err := NewBoard([]Symbol{"A", "B"}, 4, 4, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if board.Len() != 8 {
		t.Errorf("expected 8 cards, got %d", board.Len())
	}
	if board.TotalPairs() != 4 {
		t.Errorf("expected 4 pairs, got %d", board.TotalPairs())
	}
}

func TestNewBoardInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name        string
		symbols     []Symbol
		multiplier  int
		cardsPerRow int
	}{
		{"empty symbol set", nil, 2, 4},
		{"blank symbol", []Symbol{"A", ""}, 2, 4},
		{"duplicate symbol", []Symbol{"A", "A"}, 2, 4},
		{"odd multiplier", []Symbol{"A"}, 3, 4},
		{"zero multiplier", []Symbol{"A"}, 0, 4},
		{"zero columns", []Symbol{"A"}, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBoard(tt.symbols, tt.multiplier, tt.cardsPerRow, nil)
			if !errors.Is(err, matcherrors.ErrInvalidConfiguration) {
				t.Errorf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestCardAt(t *testing.T) {
	board, _ := NewBoard([]Symbol{"A", "B"}, 2, 4, noShuffle)

	card, err := board.CardAt(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Index != 3 || card.Symbol != "B" {
		t.Errorf("expected card 3 with symbol B, got %+v", *card)
	}

	// The accessor returns the board's own card, not a copy.
	card.State = Revealed
	if board.Cards[3].State != Revealed {
		t.Error("CardAt should return a pointer into the board")
	}

	for _, idx := range []int{-1, 4, 100} {
		if _, err := board.CardAt(idx); !errors.Is(err, matcherrors.ErrIndexOutOfRange) {
			t.Errorf("CardAt(%d): expected ErrIndexOutOfRange, got %v", idx, err)
		}
	}
}

func TestLayout(t *testing.T) {
	board, _ := NewBoard(fruits[:5], 2, 4, nil)

	if board.Rows() != 3 {
		t.Errorf("expected 3 rows for 10 cards at 4 per row, got %d", board.Rows())
	}
	tests := []struct {
		index int
		want  Position
	}{
		{0, Position{0, 0}},
		{3, Position{0, 3}},
		{4, Position{1, 0}},
		{9, Position{2, 1}},
	}
	for _, tt := range tests {
		if got := board.Position(tt.index); got != tt.want {
			t.Errorf("Position(%d) = %+v, want %+v", tt.index, got, tt.want)
		}
	}
}

func TestAllMatched(t *testing.T) {
	board, _ := NewBoard([]Symbol{"A", "B"}, 2, 2, nil)

	if board.AllMatched() {
		t.Error("newly created board should not be all matched")
	}

	for i := range board.Cards {
		board.Cards[i].State = Matched
	}

	if !board.AllMatched() {
		t.Error("all cards are matched but AllMatched returned false")
	}
}
