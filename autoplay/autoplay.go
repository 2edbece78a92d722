// Package autoplay contains a bot that plays a session through the same
// calls the host loop makes. It remembers what it has seen, forgets some of
// it, and is used for demos and for simulating many games.
package autoplay

import (
	"errors"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"fruit-memory/clock"
	"fruit-memory/config"
	"fruit-memory/game"
)

// ErrGaveUp is returned by Play when the frame budget runs out.
var ErrGaveUp = errors.New("autoplay: frame budget exhausted before the board was cleared")

// Player chooses cards using a memory of symbols seen at each index.
type Player struct {
	params config.AutoplayParams
	rng    *rand.Rand
	memory map[int]game.Symbol // index -> symbol seen there
	// useKnown is rolled once per move so both picks follow the same intent.
	useKnown bool
}

// NewPlayer creates a player. A nil rng uses a time-seeded source.
func NewPlayer(params config.AutoplayParams, rng *rand.Rand) *Player {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Player{
		params: params,
		rng:    rng,
		memory: make(map[int]game.Symbol),
	}
}

// Observe records every face-up card in the view and drops matched ones,
// which can never be picked again.
func (p *Player) Observe(view game.SessionView) {
	for _, c := range view.Cards {
		switch c.State {
		case "revealed":
			p.memory[c.Index] = game.Symbol(c.Symbol)
		case "matched":
			delete(p.memory, c.Index)
		}
	}
}

// Forget removes each remembered card with ForgetChance percent probability.
func (p *Player) Forget() {
	chance := clampPercent(p.params.ForgetChance)
	if chance == 0 {
		return
	}
	// Sorted so a seeded rng forgets the same cards every run.
	indices := make([]int, 0, len(p.memory))
	for idx := range p.memory {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	for _, idx := range indices {
		if p.rng.Intn(100) < chance {
			delete(p.memory, idx)
		}
	}
}

// Known reports how many card positions the player currently remembers.
func (p *Player) Known() int {
	return len(p.memory)
}

// Next returns the index to select for the given view, or false when no
// selection makes sense (pair resolving, game complete, nothing hidden).
func (p *Player) Next(view game.SessionView) (int, bool) {
	if view.Complete || len(view.Selection) >= 2 {
		return 0, false
	}
	hidden := hiddenIndices(view.Cards)
	if len(hidden) == 0 {
		return 0, false
	}

	if len(view.Selection) == 0 {
		p.useKnown = p.rng.Intn(100) < clampPercent(p.params.UseKnownPairChance)
		if p.useKnown {
			if first, _, ok := p.knownPair(hidden); ok {
				return first, true
			}
		}
		return p.pickUnknown(hidden, -1), true
	}

	firstIdx := view.Selection[0]
	firstSym := game.Symbol(view.Cards[firstIdx].Symbol)
	if p.useKnown {
		for _, idx := range hidden {
			if idx != firstIdx && p.memory[idx] == firstSym {
				return idx, true
			}
		}
	}
	return p.pickUnknown(hidden, firstIdx), true
}

// knownPair returns two hidden indices remembered with the same symbol.
func (p *Player) knownPair(hidden []int) (int, int, bool) {
	seen := make(map[game.Symbol]int)
	for _, idx := range hidden {
		sym, ok := p.memory[idx]
		if !ok {
			continue
		}
		if other, dup := seen[sym]; dup {
			return other, idx, true
		}
		seen[sym] = idx
	}
	return 0, 0, false
}

// pickUnknown prefers a hidden card the player has not seen; exclude is skipped.
func (p *Player) pickUnknown(hidden []int, exclude int) int {
	var unknown, rest []int
	for _, idx := range hidden {
		if idx == exclude {
			continue
		}
		if _, ok := p.memory[idx]; ok {
			rest = append(rest, idx)
		} else {
			unknown = append(unknown, idx)
		}
	}
	if len(unknown) > 0 {
		return unknown[p.rng.Intn(len(unknown))]
	}
	if len(rest) > 0 {
		return rest[p.rng.Intn(len(rest))]
	}
	return exclude
}

func hiddenIndices(cards []game.CardView) []int {
	var out []int
	for _, c := range cards {
		if c.State == "hidden" {
			out = append(out, c.Index)
		}
	}
	return out
}

func clampPercent(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// Play drives s frame by frame until the board is cleared. clk must be the
// session's clock; it is advanced by frame each iteration. The player acts
// every ThinkFrames frames.
func Play(s *game.Session, clk *clock.Fake, p *Player, frame time.Duration, maxFrames int) (game.SessionView, error) {
	think := thinkFrames(p.params)
	view := s.Snapshot()
	p.Observe(view)
	for f := 1; f <= maxFrames; f++ {
		clk.Advance(frame)
		if f%think == 0 {
			if idx, ok := p.Next(view); ok {
				if _, err := s.SelectCard(idx); err != nil {
					return view, err
				}
			}
		}
		if s.Tick(clk.Now()) {
			// Forget after the engine has judged a pair, once per move.
			p.Observe(s.Snapshot())
			p.Forget()
		}
		view = s.Snapshot()
		p.Observe(view)
		if view.Complete {
			return view, nil
		}
	}
	return view, ErrGaveUp
}

// Result summarises one simulated game.
type Result struct {
	Moves  int
	Frames int
	Pairs  int
}

// Simulate plays n games with the given profile and returns their results.
// The seed makes both the shuffles and the player's choices repeatable.
func Simulate(cfg *config.Config, params config.AutoplayParams, n int, seed int64) ([]Result, error) {
	rng := rand.New(rand.NewSource(seed))
	frame := cfg.FramePeriod()
	results := make([]Result, 0, n)
	for i := 0; i < n; i++ {
		clk := clock.NewFake(0)
		symbols := make([]game.Symbol, len(cfg.Symbols))
		for j, name := range cfg.Symbols {
			symbols[j] = game.Symbol(name)
		}
		s, err := game.NewSession(game.SessionOptions{
			Symbols:         symbols,
			PairMultiplier:  cfg.PairMultiplier,
			CardsPerRow:     cfg.CardsPerRow,
			ResolutionDelay: cfg.ResolutionDelay(),
			Clock:           clk,
			Shuffle:         rng.Shuffle,
		})
		if err != nil {
			return results, err
		}
		// Enough frames for every card to be flipped many times over.
		budget := (s.Board().Len()*s.Board().Len() + 10) * (thinkFrames(params) + framesPerDelay(cfg))
		view, err := Play(s, clk, NewPlayer(params, rng), frame, budget)
		if err != nil {
			return results, err
		}
		res := Result{Moves: view.Moves, Frames: int(clk.Now() / frame), Pairs: view.TotalPairs}
		slog.Debug("simulated game", "tag", "autoplay", "game", i, "player", params.Name, "moves", res.Moves, "pairs", res.Pairs)
		results = append(results, res)
	}
	return results, nil
}

func thinkFrames(params config.AutoplayParams) int {
	if params.ThinkFrames < 1 {
		return 1
	}
	return params.ThinkFrames
}

func framesPerDelay(cfg *config.Config) int {
	return int(cfg.ResolutionDelay()/cfg.FramePeriod()) + 1
}
