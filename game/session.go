package game

import (
	"log/slog"
	"strings"
	"time"

	"fruit-memory/clock"
)

// AssetProvider resolves a symbolic key to a drawable or playable asset URL.
// A missing asset is reported with ok=false and never affects play.
type AssetProvider interface {
	Lookup(key string) (url string, ok bool)
}

// SessionOptions configures a Session. Zero values fall back to defaults.
type SessionOptions struct {
	Symbols         []Symbol
	PairMultiplier  int
	CardsPerRow     int
	ResolutionDelay time.Duration
	Clock           clock.Clock
	Shuffle         Shuffler
	Notifier        Notifier
	Assets          AssetProvider
}

// Session is one play-through: it owns the Board and MatchEngine exclusively
// and is driven from a single goroutine by the host loop.
type Session struct {
	opts   SessionOptions
	board  *Board
	engine *MatchEngine
}

// NewSession builds the first board. It fails with ErrInvalidConfiguration if
// the options cannot produce a board.
func NewSession(opts SessionOptions) (*Session, error) {
	if opts.PairMultiplier == 0 {
		opts.PairMultiplier = DefaultPairMultiplier
	}
	if opts.CardsPerRow == 0 {
		opts.CardsPerRow = DefaultCardsPerRow
	}
	if opts.ResolutionDelay <= 0 {
		opts.ResolutionDelay = DefaultResolutionDelay
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewReal()
	}
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}
	s := &Session{opts: opts}
	if err := s.rebuild(opts.Symbols, opts.CardsPerRow); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) rebuild(symbols []Symbol, cardsPerRow int) error {
	board, err := NewBoard(symbols, s.opts.PairMultiplier, cardsPerRow, s.opts.Shuffle)
	if err != nil {
		return err
	}
	s.opts.Symbols = append([]Symbol(nil), symbols...)
	s.opts.CardsPerRow = cardsPerRow
	s.board = board
	s.engine = NewMatchEngine(board, s.opts.ResolutionDelay, s.opts.Notifier)
	slog.Debug("board built", "tag", "game", "cards", board.Len(), "pairs", board.TotalPairs(), "cardsPerRow", cardsPerRow)
	return nil
}

// NewGame discards the current board, including any pair awaiting
// resolution, and deals a fresh shuffled board. A nil symbols slice reuses
// the current symbol set; on error the current game is kept.
func (s *Session) NewGame(symbols []Symbol) error {
	if symbols == nil {
		symbols = s.opts.Symbols
	}
	return s.rebuild(symbols, s.opts.CardsPerRow)
}

// Relayout changes the grid width. Like a window resize in the desktop game,
// it starts a new game rather than reflowing the current one.
func (s *Session) Relayout(cardsPerRow int) error {
	return s.rebuild(s.opts.Symbols, cardsPerRow)
}

// SelectCard forwards an input event to the engine, stamped with the session clock.
func (s *Session) SelectCard(index int) (MoveResult, error) {
	return s.engine.SelectCard(index, s.opts.Clock.Now())
}

// Tick must be called once per frame before drawing.
func (s *Session) Tick(now time.Duration) bool {
	return s.engine.Tick(now)
}

// Board returns the current board for read-only use.
func (s *Session) Board() *Board { return s.board }

func (s *Session) Phase() Phase { return s.engine.Phase() }
func (s *Session) Moves() int { return s.engine.Moves() }
func (s *Session) Matches() int { return s.engine.MatchedPairs() }
func (s *Session) TotalPairs() int { return s.board.TotalPairs() }
func (s *Session) IsComplete() bool { return s.engine.IsComplete() }
func (s *Session) Selection() []int { return s.engine.Selection() }
func (s *Session) Clock() clock.Clock { return s.opts.Clock }

// Symbols returns the symbol set of the current board.
func (s *Session) Symbols() []Symbol {
	return append([]Symbol(nil), s.opts.Symbols...)
}

// Snapshot returns the presentation view of the session.
func (s *Session) Snapshot() SessionView {
	return SessionView{
		Cards:      BuildCardViews(s.board, s.opts.Assets),
		Selection:  s.engine.Selection(),
		Phase:      s.engine.Phase().String(),
		Moves:      s.engine.Moves(),
		Matches:    s.engine.MatchedPairs(),
		TotalPairs: s.board.TotalPairs(),
		Complete:   s.engine.IsComplete(),
		Rows:       s.board.Rows(),
		Cols:       s.board.CardsPerRow,
	}
}

// ImageKey returns the asset key of a symbol's face image.
func ImageKey(sym Symbol) string {
	return strings.ToLower(string(sym))
}
