package engine

import "testing"

func TestDealDeterministic(t *testing.T) {
	h1 := DealHands(42)
	h2 := DealHands(42)
	for p := 0; p < 4; p++ {
		if len(h1[p]) != 13 {
			t.Fatalf("hand size: got %d", len(h1[p]))
		}
		for i := range h1[p] {
			if h1[p][i] != h2[p][i] {
				t.Fatalf("determinism mismatch at seat %d card %d", p, i)
			}
		}
	}
}

func TestDealPartitionsDeck(t *testing.T) {
	hands := DealHands(1)
	seen := map[Card]bool{}
	for p := 0; p < 4; p++ {
		for _, c := range hands[p] {
			if seen[c] {
				t.Fatalf("duplicate card: %v", c)
			}
			seen[c] = true
		}
	}
	if len(seen) != 52 {
		t.Fatalf("deck not exhausted: got %d", len(seen))
	}
}

func TestBuildDeckHas52UniqueCards(t *testing.T) {
	deck := BuildDeck()
	if len(deck) != 52 {
		t.Fatalf("expected 52 cards, got %d", len(deck))
	}
	seen := map[Card]bool{}
	for _, c := range deck {
		if seen[c] {
			t.Fatalf("duplicate card in deck: %v", c)
		}
		seen[c] = true
	}
}
