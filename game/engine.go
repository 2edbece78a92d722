package game

import (
	"fmt"
	"log/slog"
	"time"

	"fruit-memory/matcherrors"
)

// DefaultResolutionDelay is how long a pair stays face up before it is judged.
const DefaultResolutionDelay = 1000 * time.Millisecond

// Phase is the state of the turn-resolution machine.
type Phase int

const (
	Idle Phase = iota
	OneSelected
	Resolving
	Complete
)

// String returns the protocol string for a Phase.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case OneSelected:
		return "one_selected"
	case Resolving:
		return "resolving"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// RejectReason explains why SelectCard refused a card.
type RejectReason int

const (
	NotRejected RejectReason = iota
	RejectResolving
	RejectComplete
	RejectMatched
	RejectRevealed
	RejectAlreadySelected
)

// String returns a player-facing message for the reason.
func (r RejectReason) String() string {
	switch r {
	case NotRejected:
		return "accepted"
	case RejectResolving:
		return "Please wait for the current pair to resolve."
	case RejectComplete:
		return "The game is already complete."
	case RejectMatched:
		return "That card is already matched."
	case RejectRevealed:
		return "That card is already revealed."
	case RejectAlreadySelected:
		return "You already selected that card."
	default:
		return "unknown"
	}
}

// MoveResult is the outcome of a SelectCard call under normal play.
type MoveResult struct {
	Accepted bool
	Reason   RejectReason
	// Paired is true when this selection was the second of a move.
	Paired bool
}

// Err wraps ErrInvalidMove with the reject reason, or returns nil if accepted.
func (m MoveResult) Err() error {
	if m.Accepted {
		return nil
	}
	return fmt.Errorf("%w: %s", matcherrors.ErrInvalidMove, m.Reason)
}

// MatchEngine resolves selections against a Board. It keeps only card indices;
// the Board's cards are the single source of truth for visibility.
type MatchEngine struct {
	board    *Board
	notifier Notifier
	delay    time.Duration

	phase            Phase
	selection        []int
	deadline         time.Duration
	matchedPairCount int
	moveCount        int
	winNotified      bool
}

// NewMatchEngine creates an engine in the Idle phase. A nil notifier discards
// events; a non-positive delay means DefaultResolutionDelay.
func NewMatchEngine(board *Board, delay time.Duration, notifier Notifier) *MatchEngine {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if delay <= 0 {
		delay = DefaultResolutionDelay
	}
	return &MatchEngine{
		board:     board,
		notifier:  notifier,
		delay:     delay,
		phase:     Idle,
		selection: make([]int, 0, 2),
	}
}

// SelectCard flips the card at index at time now. Rejections are reported in
// the MoveResult; the error is only set for an out-of-range index.
func (e *MatchEngine) SelectCard(index int, now time.Duration) (MoveResult, error) {
	card, err := e.board.CardAt(index)
	if err != nil {
		return MoveResult{}, err
	}

	switch e.phase {
	case Resolving:
		return MoveResult{Reason: RejectResolving}, nil
	case Complete:
		return MoveResult{Reason: RejectComplete}, nil
	}
	for _, sel := range e.selection {
		if sel == index {
			return MoveResult{Reason: RejectAlreadySelected}, nil
		}
	}
	switch card.State {
	case Matched:
		return MoveResult{Reason: RejectMatched}, nil
	case Revealed:
		return MoveResult{Reason: RejectRevealed}, nil
	}

	card.Reveal()
	e.selection = append(e.selection, index)
	e.notifier.Notify(Event{Kind: EventFlip, Index: index, Symbol: card.Symbol})

	if len(e.selection) == 1 {
		e.phase = OneSelected
		return MoveResult{Accepted: true}, nil
	}

	// A move is counted when the second card is picked, not when it is judged.
	e.moveCount++
	e.deadline = now + e.delay
	e.phase = Resolving
	return MoveResult{Accepted: true, Paired: true}, nil
}

// Tick advances a pending resolution once now reaches the deadline. It reports
// whether a pair was judged on this call.
func (e *MatchEngine) Tick(now time.Duration) bool {
	if e.phase != Resolving || now < e.deadline {
		return false
	}

	first := &e.board.Cards[e.selection[0]]
	second := &e.board.Cards[e.selection[1]]

	if first.Symbol == second.Symbol {
		first.MarkMatched()
		second.MarkMatched()
		e.matchedPairCount++
		e.notifier.Notify(Event{Kind: EventMatch, Index: first.Index, Symbol: first.Symbol})
		e.notifier.Notify(Event{Kind: EventMatch, Index: second.Index, Symbol: second.Symbol})
	} else {
		for _, c := range []*Card{first, second} {
			if c.Conceal() {
				e.notifier.Notify(Event{Kind: EventConceal, Index: c.Index, Symbol: c.Symbol})
			}
		}
	}

	e.selection = e.selection[:0]
	e.deadline = 0
	e.phase = Idle

	if e.matchedPairCount == e.board.TotalPairs() {
		e.phase = Complete
		if !e.winNotified {
			e.winNotified = true
			slog.Debug("board complete", "tag", "game", "moves", e.moveCount, "pairs", e.matchedPairCount)
			e.notifier.Notify(Event{Kind: EventWin, Index: -1})
		}
	}
	return true
}

// Phase returns the current phase.
func (e *MatchEngine) Phase() Phase { return e.phase }

// Selection returns a copy of the selected indices in selection order.
func (e *MatchEngine) Selection() []int {
	out := make([]int, len(e.selection))
	copy(out, e.selection)
	return out
}

// Deadline returns the pending resolution time, if a pair is waiting.
func (e *MatchEngine) Deadline() (time.Duration, bool) {
	if e.phase != Resolving {
		return 0, false
	}
	return e.deadline, true
}

// MatchedPairs returns the number of pairs found so far.
func (e *MatchEngine) MatchedPairs() int { return e.matchedPairCount }

// Moves returns the number of completed two-card selections.
func (e *MatchEngine) Moves() int { return e.moveCount }

// IsComplete reports whether every pair has been matched.
func (e *MatchEngine) IsComplete() bool { return e.phase == Complete }

// Delay returns the configured resolution delay.
func (e *MatchEngine) Delay() time.Duration { return e.delay }
