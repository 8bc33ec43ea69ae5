package engine

import "fmt"

// PlayState is one hand's card-play state machine. It is owned by a
// single session and mutated only through PlayCard and ClearTrick.
type PlayState struct {
	Contract      Contract
	Hands         [4][]Card
	CurrentTrick  []Play
	TricksWon     [4]int
	History       [][]Play
	NextToPlay    Position
	DummyRevealed bool
}

// PlayResult reports the effect of one card play.
type PlayResult struct {
	TrickComplete bool
	TrickWinner   Position
}

// NewPlayState starts the play phase for a contract over dealt hands.
// The opening lead belongs to the seat left of declarer.
func NewPlayState(contract Contract, hands [4][]Card) *PlayState {
	s := &PlayState{
		Contract:   contract,
		NextToPlay: contract.Declarer.Next(),
	}
	for p := 0; p < 4; p++ {
		s.Hands[p] = append([]Card(nil), hands[p]...)
	}
	return s
}

// Dummy is declarer's partner.
func (s *PlayState) Dummy() Position {
	return s.Contract.Declarer.Partner()
}

// HandComplete reports whether all 13 tricks have been resolved.
func (s *PlayState) HandComplete() bool {
	return len(s.History) == 13
}

// DeclarerTricks is the declaring side's trick total so far.
func (s *PlayState) DeclarerTricks() int {
	d := s.Contract.Declarer
	return s.TricksWon[d] + s.TricksWon[d.Partner()]
}

// PlayCard validates and applies one card play. The opening lead
// reveals dummy; the fourth card resolves the trick, credits the
// winner and hands them the lead. A resolved trick still on display is
// cleared implicitly, so callers need not interleave ClearTrick.
func (s *PlayState) PlayCard(pos Position, card Card) (PlayResult, error) {
	if s.HandComplete() {
		return PlayResult{}, ErrHandComplete
	}
	s.clearResolved()
	if pos != s.NextToPlay {
		return PlayResult{}, fmt.Errorf("%w: %s to play", ErrOutOfTurn, s.NextToPlay)
	}
	if !containsCard(LegalMoves(s.Hands[pos], s.CurrentTrick), card) {
		return PlayResult{}, fmt.Errorf("%w: %s", ErrIllegalMove, card)
	}
	removeCard(&s.Hands[pos], card)
	s.CurrentTrick = append(s.CurrentTrick, Play{Pos: pos, Card: card})
	if !s.DummyRevealed {
		// Opening lead: dummy goes face up for the rest of the deal.
		s.DummyRevealed = true
	}

	if len(s.CurrentTrick) == 4 {
		winner := TrickWinner(s.CurrentTrick, s.Contract.Strain)
		s.TricksWon[winner]++
		s.History = append(s.History, append([]Play(nil), s.CurrentTrick...))
		s.NextToPlay = winner
		return PlayResult{TrickComplete: true, TrickWinner: winner}, nil
	}
	s.NextToPlay = pos.Next()
	return PlayResult{}, nil
}

// ClearTrick empties a resolved trick's display state. Calling it early
// or repeatedly is a no-op, so clients may invoke it defensively.
func (s *PlayState) ClearTrick() {
	s.clearResolved()
}

func (s *PlayState) clearResolved() {
	if len(s.CurrentTrick) == 4 {
		s.CurrentTrick = nil
	}
}

// Clone deep-copies the state for search. The copy shares nothing with
// the original.
func (s *PlayState) Clone() *PlayState {
	c := &PlayState{
		Contract:      s.Contract,
		CurrentTrick:  append([]Play(nil), s.CurrentTrick...),
		TricksWon:     s.TricksWon,
		NextToPlay:    s.NextToPlay,
		DummyRevealed: s.DummyRevealed,
	}
	for p := 0; p < 4; p++ {
		c.Hands[p] = append([]Card(nil), s.Hands[p]...)
	}
	c.History = make([][]Play, len(s.History))
	for i, t := range s.History {
		c.History[i] = append([]Play(nil), t...)
	}
	return c
}
