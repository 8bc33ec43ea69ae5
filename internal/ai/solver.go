package ai

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/JFrunk/bridge-bidding-app-sub011/internal/engine"
)

// Solver failures are absorbed by the fallback chain and never reach
// the user.
var (
	ErrSolverUnavailable = errors.New("double-dummy solver unavailable")
	ErrSolverTimeout     = errors.New("double-dummy solver timed out")
)

// SolverMaxTricks caps the endgame size the exact solver will attempt.
// Earlier positions branch too widely for the latency budget and go to
// the bounded search instead.
const SolverMaxTricks = 8

// ExpertStrategy attempts an exact double-dummy solve of the remaining
// deal and falls back to the advanced search when the solve is
// unavailable or over budget.
type ExpertStrategy struct {
	Fallback  *AdvancedStrategy
	Budget    time.Duration
	MaxTricks int
	Log       *zap.Logger
}

func NewExpert(budget time.Duration, fallback *AdvancedStrategy, log *zap.Logger) *ExpertStrategy {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExpertStrategy{
		Fallback:  fallback,
		Budget:    budget,
		MaxTricks: SolverMaxTricks,
		Log:       log,
	}
}

func (e *ExpertStrategy) ChooseCard(ctx context.Context, state *engine.PlayState, pos engine.Position) engine.Card {
	legal := sortedLegal(state, pos)
	if len(legal) == 1 {
		return legal[0]
	}
	card, err := e.solve(ctx, state, pos)
	if err != nil {
		e.Log.Debug("double-dummy solve fell back",
			zap.String("pos", pos.String()),
			zap.Error(err))
		return e.Fallback.ChooseCard(ctx, state, pos)
	}
	return card
}

// solve runs the alpha-beta searcher with the horizon pushed to the end
// of the deal, which is an exact double-dummy result when it finishes
// inside the budget.
func (e *ExpertStrategy) solve(ctx context.Context, state *engine.PlayState, pos engine.Position) (engine.Card, error) {
	remaining := 13 - len(state.History)
	if remaining > e.MaxTricks {
		return engine.Card{}, ErrSolverUnavailable
	}
	solveCtx, cancel := context.WithTimeout(ctx, e.Budget)
	defer cancel()

	legal := sortedLegal(state, pos)
	s := &searcher{side: pos, horizon: 13}
	if dl, ok := solveCtx.Deadline(); ok {
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
		v := s.alphabeta(child, -scoreInf, scoreInf)
		if s.aborted {
			// A truncated solve is no longer exact.
			return engine.Card{}, ErrSolverTimeout
		}
		if v > bestVal || (v == bestVal && lowerCard(c, best)) {
			bestVal = v
			best = c
		}
	}
	return best, nil
}
