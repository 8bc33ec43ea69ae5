package engine

import (
	"errors"
	"testing"
)

func testContract() Contract {
	return Contract{Level: 4, Strain: StrainSpades, Declarer: South}
}

func freshState(t *testing.T, c Contract, seed int64) *PlayState {
	t.Helper()
	return NewPlayState(c, DealHands(seed))
}

func TestOpeningLeaderLeftOfDeclarer(t *testing.T) {
	s := freshState(t, testContract(), 1)
	if s.NextToPlay != West {
		t.Fatalf("expected W on lead against a South contract, got %s", s.NextToPlay)
	}
	if s.DummyRevealed {
		t.Fatalf("dummy must stay hidden before the opening lead")
	}
}

func TestPlayCardOutOfTurn(t *testing.T) {
	s := freshState(t, testContract(), 1)
	_, err := s.PlayCard(North, s.Hands[North][0])
	if !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("expected ErrOutOfTurn, got %v", err)
	}
	if len(s.CurrentTrick) != 0 {
		t.Fatalf("rejected play must not mutate state")
	}
}

func TestPlayCardNotHeld(t *testing.T) {
	s := freshState(t, testContract(), 1)
	lead := s.Hands[West][0]
	if _, err := s.PlayCard(West, lead); err != nil {
		t.Fatalf("lead failed: %v", err)
	}
	// North must follow the led suit when holding it.
	led := lead.Suit
	var offSuit *Card
	holdsLed := false
	for _, c := range s.Hands[North] {
		if c.Suit == led {
			holdsLed = true
		} else {
			card := c
			offSuit = &card
		}
	}
	if !holdsLed || offSuit == nil {
		t.Skip("deal has no revoke opportunity for this seed")
	}
	if _, err := s.PlayCard(North, *offSuit); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove for revoke, got %v", err)
	}
}

func TestOpeningLeadRevealsDummy(t *testing.T) {
	s := freshState(t, testContract(), 1)
	if _, err := s.PlayCard(West, s.Hands[West][0]); err != nil {
		t.Fatalf("lead failed: %v", err)
	}
	if !s.DummyRevealed {
		t.Fatalf("opening lead must reveal dummy")
	}
}

func TestTrickCompletionCreditsWinner(t *testing.T) {
	s := freshState(t, testContract(), 1)
	var last PlayResult
	for i := 0; i < 4; i++ {
		pos := s.NextToPlay
		legal := LegalMoves(s.Hands[pos], s.CurrentTrick)
		res, err := s.PlayCard(pos, legal[0])
		if err != nil {
			t.Fatalf("play %d failed: %v", i, err)
		}
		last = res
	}
	if !last.TrickComplete {
		t.Fatalf("fourth card must complete the trick")
	}
	if s.TricksWon[last.TrickWinner] != 1 {
		t.Fatalf("winner not credited")
	}
	if s.NextToPlay != last.TrickWinner {
		t.Fatalf("winner must lead the next trick")
	}
	if len(s.History) != 1 {
		t.Fatalf("completed trick not archived")
	}
}

func TestClearTrickIdempotent(t *testing.T) {
	s := freshState(t, testContract(), 1)
	// Early call: nothing to clear.
	s.ClearTrick()
	if len(s.CurrentTrick) != 0 {
		t.Fatalf("early clear changed state")
	}
	if _, err := s.PlayCard(West, s.Hands[West][0]); err != nil {
		t.Fatalf("lead failed: %v", err)
	}
	s.ClearTrick()
	if len(s.CurrentTrick) != 1 {
		t.Fatalf("clear of an incomplete trick must be a no-op")
	}
	for len(s.CurrentTrick) < 4 {
		pos := s.NextToPlay
		legal := LegalMoves(s.Hands[pos], s.CurrentTrick)
		if _, err := s.PlayCard(pos, legal[0]); err != nil {
			t.Fatalf("play failed: %v", err)
		}
	}
	s.ClearTrick()
	if len(s.CurrentTrick) != 0 {
		t.Fatalf("completed trick not cleared")
	}
	before := s.Clone()
	s.ClearTrick()
	if len(s.CurrentTrick) != len(before.CurrentTrick) || len(s.History) != len(before.History) {
		t.Fatalf("second clear changed state")
	}
}

func playOut(t *testing.T, s *PlayState) {
	t.Helper()
	for !s.HandComplete() {
		pos := s.NextToPlay
		legal := LegalMoves(s.Hands[pos], s.CurrentTrick)
		if len(legal) == 0 {
			t.Fatalf("no legal moves with hand incomplete")
		}
		if _, err := s.PlayCard(pos, legal[0]); err != nil {
			t.Fatalf("play failed: %v", err)
		}
	}
}

func TestHandCompleteAfterThirteenTricks(t *testing.T) {
	s := freshState(t, testContract(), 7)
	playOut(t, s)
	if len(s.History) != 13 {
		t.Fatalf("expected 13 tricks, got %d", len(s.History))
	}
	total := 0
	for p := 0; p < 4; p++ {
		total += s.TricksWon[p]
		if len(s.Hands[p]) != 0 {
			t.Fatalf("seat %d still holds cards", p)
		}
	}
	if total != 13 {
		t.Fatalf("trick credits sum to %d", total)
	}
	if _, err := s.PlayCard(s.NextToPlay, Card{Suit: SuitClubs, Rank: Rank2}); !errors.Is(err, ErrHandComplete) {
		t.Fatalf("expected ErrHandComplete, got %v", err)
	}
}

func TestCardConservation(t *testing.T) {
	s := freshState(t, testContract(), 11)
	for step := 0; !s.HandComplete(); step++ {
		inHands := 0
		for p := 0; p < 4; p++ {
			inHands += len(s.Hands[p])
		}
		played := len(s.CurrentTrick)
		if played == 4 {
			// A resolved trick is archived but still on display.
			played = 0
		}
		for _, trick := range s.History {
			played += len(trick)
		}
		if inHands+played != 52 {
			t.Fatalf("step %d: %d in hands + %d played != 52", step, inHands, played)
		}
		pos := s.NextToPlay
		legal := LegalMoves(s.Hands[pos], s.CurrentTrick)
		if _, err := s.PlayCard(pos, legal[len(legal)-1]); err != nil {
			t.Fatalf("play failed: %v", err)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := freshState(t, testContract(), 3)
	c := s.Clone()
	if _, err := s.PlayCard(West, s.Hands[West][0]); err != nil {
		t.Fatalf("lead failed: %v", err)
	}
	if len(c.CurrentTrick) != 0 || len(c.Hands[West]) != 13 {
		t.Fatalf("clone shares state with original")
	}
}
