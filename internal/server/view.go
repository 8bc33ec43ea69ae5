package server

import (
	"sort"

	"github.com/JFrunk/bridge-bidding-app-sub011/internal/engine"
)

type SeatView struct {
	Position  string   `json:"position"`
	Hand      []string `json:"hand,omitempty"`
	HandCount int      `json:"handCount"`
	Tricks    int      `json:"tricks"`
}

type TrickPlayView struct {
	Position string `json:"position"`
	Card     string `json:"card"`
}

type PlayView struct {
	Contract      string          `json:"contract"`
	Declarer      string          `json:"declarer"`
	Dummy         string          `json:"dummy"`
	DummyRevealed bool            `json:"dummyRevealed"`
	Seats         []SeatView      `json:"seats"`
	CurrentTrick  []TrickPlayView `json:"currentTrick"`
	TricksNS      int             `json:"tricksNS"`
	TricksEW      int             `json:"tricksEW"`
	TricksPlayed  int             `json:"tricksPlayed"`
	NextToPlay    string          `json:"nextToPlay"`
	HandComplete  bool            `json:"handComplete"`
	LegalMoves    []string        `json:"legalMoves,omitempty"`
}

// BuildPlayView snapshots the state for one viewer. Hidden hands carry
// only a count; visibility follows the engine's single rule. humanTurn
// is true when the human directs the seat about to play, which attaches
// that seat's legal moves.
func BuildPlayView(state *engine.PlayState, human engine.Position, humanTurn bool) *PlayView {
	dummy := state.Dummy()
	declarer := state.Contract.Declarer

	seats := make([]SeatView, 0, 4)
	for p := engine.North; p <= engine.West; p++ {
		view := SeatView{
			Position:  p.String(),
			HandCount: len(state.Hands[p]),
			Tricks:    state.TricksWon[p],
		}
		if engine.HandVisible(p, human, dummy, declarer, state.DummyRevealed) {
			view.Hand = cardStrings(sortedHand(state.Hands[p]))
		}
		seats = append(seats, view)
	}

	trick := make([]TrickPlayView, 0, len(state.CurrentTrick))
	for _, play := range state.CurrentTrick {
		trick = append(trick, TrickPlayView{Position: play.Pos.String(), Card: play.Card.String()})
	}

	v := &PlayView{
		Contract:      state.Contract.String(),
		Declarer:      declarer.String(),
		Dummy:         dummy.String(),
		DummyRevealed: state.DummyRevealed,
		Seats:         seats,
		CurrentTrick:  trick,
		TricksNS:      state.TricksWon[engine.North] + state.TricksWon[engine.South],
		TricksEW:      state.TricksWon[engine.East] + state.TricksWon[engine.West],
		TricksPlayed:  len(state.History),
		NextToPlay:    state.NextToPlay.String(),
		HandComplete:  state.HandComplete(),
	}
	if !state.HandComplete() && humanTurn {
		v.LegalMoves = cardStrings(engine.LegalMoves(state.Hands[state.NextToPlay], state.CurrentTrick))
	}
	return v
}

func sortedHand(hand []engine.Card) []engine.Card {
	out := append([]engine.Card(nil), hand...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Suit != out[j].Suit {
			return out[i].Suit > out[j].Suit
		}
		return out[i].Rank > out[j].Rank
	})
	return out
}
