package ai

import (
	"context"
	"sort"
	"time"

	"github.com/JFrunk/bridge-bidding-app-sub011/internal/engine"
)

// DefaultSearchDepth is the search horizon in tricks. Follow-suit keeps
// branching low enough that four tricks stay within the latency budget.
const DefaultSearchDepth = 4

// AdvancedStrategy picks cards by depth-bounded alpha-beta minimax over
// the full deal. The search is a pure function of a state snapshot, so
// identical positions always yield the same card.
type AdvancedStrategy struct {
	Depth  int
	Budget time.Duration
}

func NewAdvanced(budget time.Duration) *AdvancedStrategy {
	return &AdvancedStrategy{Depth: DefaultSearchDepth, Budget: budget}
}

func (a *AdvancedStrategy) ChooseCard(ctx context.Context, state *engine.PlayState, pos engine.Position) engine.Card {
	legal := sortedLegal(state, pos)
	if len(legal) == 1 {
		return legal[0]
	}
	if a.Budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Budget)
		defer cancel()
	}
	card, _ := Search(ctx, state, pos, a.Depth)
	return card
}

const (
	scoreInf = 1 << 20
)

type searcher struct {
	side     engine.Position // searching seat; its partnership maximizes
	horizon  int             // tricks resolved at root + depth
	deadline time.Time
	hasLimit bool
	nodes    int
	aborted  bool
}

// Search runs alpha-beta to the given depth (in tricks) and returns the
// best card with its value: net tricks for the searcher's side at the
// horizon. Ties go to the lowest equal-value card in suit-then-rank
// order, keeping play reproducible.
func Search(ctx context.Context, state *engine.PlayState, pos engine.Position, depth int) (engine.Card, int) {
	legal := sortedLegal(state, pos)
	s := &searcher{
		side:    pos,
		horizon: len(state.History) + depth,
	}
	if dl, ok := ctx.Deadline(); ok {
		s.deadline = dl
		s.hasLimit = true
	}

	best := legal[0]
	bestVal := -scoreInf
	for _, c := range orderMoves(state, pos, legal) {
		child := state.Clone()
		if _, err := child.PlayCard(pos, c); err != nil {
			continue
		}
		// Full window per root move keeps values exact, which the
		// lowest-card tie-break relies on.
		v := s.alphabeta(child, -scoreInf, scoreInf)
		if v > bestVal || (v == bestVal && lowerCard(c, best)) {
			bestVal = v
			best = c
		}
		if s.aborted {
			break
		}
	}
	return best, bestVal
}

func (s *searcher) alphabeta(state *engine.PlayState, alpha, beta int) int {
	if state.HandComplete() || len(state.History) >= s.horizon {
		return s.evaluate(state)
	}
	s.nodes++
	if s.hasLimit && s.nodes%256 == 0 && time.Now().After(s.deadline) {
		s.aborted = true
	}
	if s.aborted {
		return s.evaluate(state)
	}

	pos := state.NextToPlay
	legal := sortedLegal(state, pos)
	maximizing := pos.SameSide(s.side)
	if maximizing {
		best := -scoreInf
		for _, c := range orderMoves(state, pos, legal) {
			child := state.Clone()
			if _, err := child.PlayCard(pos, c); err != nil {
				continue
			}
			v := s.alphabeta(child, alpha, beta)
			if v > best {
				best = v
			}
			if best > alpha {
				alpha = best
			}
			if alpha >= beta {
				break
			}
		}
		return best
	}
	best := scoreInf
	for _, c := range orderMoves(state, pos, legal) {
		child := state.Clone()
		if _, err := child.PlayCard(pos, c); err != nil {
			continue
		}
		v := s.alphabeta(child, alpha, beta)
		if v < best {
			best = v
		}
		if best < beta {
			beta = best
		}
		if alpha >= beta {
			break
		}
	}
	return best
}

// evaluate is net tricks for the searching side.
func (s *searcher) evaluate(state *engine.PlayState) int {
	own := state.TricksWon[s.side] + state.TricksWon[s.side.Partner()]
	opp := state.TricksWon[s.side.Next()] + state.TricksWon[s.side.Next().Partner()]
	return own - opp
}

// orderMoves tries the shortest suit's highest cards first, which
// prunes best when a side suit is about to run out.
func orderMoves(state *engine.PlayState, pos engine.Position, legal []engine.Card) []engine.Card {
	counts := suitCounts(state.Hands[pos])
	ordered := append([]engine.Card(nil), legal...)
	sort.SliceStable(ordered, func(i, j int) bool {
		ci, cj := ordered[i], ordered[j]
		if counts[ci.Suit] != counts[cj.Suit] {
			return counts[ci.Suit] < counts[cj.Suit]
		}
		if ci.Suit != cj.Suit {
			return ci.Suit < cj.Suit
		}
		return ci.Rank > cj.Rank
	})
	return ordered
}

func lowerCard(a, b engine.Card) bool {
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	return a.Suit < b.Suit
}
