package ai

import (
	"context"
	"math/rand"
	"sort"

	"github.com/JFrunk/bridge-bidding-app-sub011/internal/engine"
)

// Strategy selects a card for a computer-controlled seat. The returned
// card is always one of the seat's legal moves.
type Strategy interface {
	ChooseCard(ctx context.Context, state *engine.PlayState, pos engine.Position) engine.Card
}

// BeginnerStrategy plays by rule of thumb: win a trick as cheaply as
// possible, otherwise throw the lowest card.
type BeginnerStrategy struct {
	RNG *rand.Rand
}

func NewBeginner(seed int64) *BeginnerStrategy {
	return &BeginnerStrategy{RNG: rand.New(rand.NewSource(seed))}
}

func (b *BeginnerStrategy) ChooseCard(_ context.Context, state *engine.PlayState, pos engine.Position) engine.Card {
	legal := sortedLegal(state, pos)
	if len(legal) == 1 {
		return legal[0]
	}
	if len(state.CurrentTrick) == 0 || len(state.CurrentTrick) >= 4 {
		// Beginners lead on a hunch.
		if b.RNG.Intn(2) == 0 {
			return legal[b.RNG.Intn(len(legal))]
		}
		return topOfLongestSuit(state.Hands[pos], legal)
	}
	if c, ok := cheapestWinner(state, pos, legal); ok {
		return c
	}
	return lowestCard(legal)
}

// IntermediateStrategy layers partnership awareness on the beginner
// rules: never overtake a trick partner already owns, play high in
// third seat, and discard low from the shortest suit as a no-interest
// signal.
type IntermediateStrategy struct{}

func NewIntermediate() *IntermediateStrategy {
	return &IntermediateStrategy{}
}

func (s *IntermediateStrategy) ChooseCard(_ context.Context, state *engine.PlayState, pos engine.Position) engine.Card {
	legal := sortedLegal(state, pos)
	if len(legal) == 1 {
		return legal[0]
	}
	trick := state.CurrentTrick
	if len(trick) == 0 || len(trick) >= 4 {
		return leadFromLongestSuit(state.Hands[pos], legal)
	}
	if partnerWinning(state, pos) {
		return lowestCard(legal)
	}
	if legal[0].Suit != trick[0].Card.Suit {
		// Void in the led suit: a low discard signals no interest.
		return discardLow(state.Hands[pos], legal)
	}
	if len(trick) == 2 {
		// Third hand high.
		if c, ok := highestWinner(state, pos, legal); ok {
			return c
		}
		return lowestCard(legal)
	}
	if c, ok := cheapestWinner(state, pos, legal); ok {
		return c
	}
	return lowestCard(legal)
}

// sortedLegal returns the legal moves in canonical suit-then-rank order
// so every strategy breaks ties the same way.
func sortedLegal(state *engine.PlayState, pos engine.Position) []engine.Card {
	legal := engine.LegalMoves(state.Hands[pos], state.CurrentTrick)
	sort.Slice(legal, func(i, j int) bool {
		if legal[i].Suit != legal[j].Suit {
			return legal[i].Suit < legal[j].Suit
		}
		return legal[i].Rank < legal[j].Rank
	})
	return legal
}

func lowestCard(legal []engine.Card) engine.Card {
	best := legal[0]
	for _, c := range legal[1:] {
		if c.Rank < best.Rank || (c.Rank == best.Rank && c.Suit < best.Suit) {
			best = c
		}
	}
	return best
}

// winsIfPlayed tries the card on a copy of the current trick.
func winsIfPlayed(state *engine.PlayState, pos engine.Position, card engine.Card) bool {
	trick := append([]engine.Play(nil), state.CurrentTrick...)
	trick = append(trick, engine.Play{Pos: pos, Card: card})
	return engine.TrickWinner(trick, state.Contract.Strain) == pos
}

func cheapestWinner(state *engine.PlayState, pos engine.Position, legal []engine.Card) (engine.Card, bool) {
	var best engine.Card
	found := false
	for _, c := range legal {
		if !winsIfPlayed(state, pos, c) {
			continue
		}
		if !found || c.Rank < best.Rank || (c.Rank == best.Rank && c.Suit < best.Suit) {
			best = c
			found = true
		}
	}
	return best, found
}

func highestWinner(state *engine.PlayState, pos engine.Position, legal []engine.Card) (engine.Card, bool) {
	var best engine.Card
	found := false
	for _, c := range legal {
		if !winsIfPlayed(state, pos, c) {
			continue
		}
		if !found || c.Rank > best.Rank || (c.Rank == best.Rank && c.Suit < best.Suit) {
			best = c
			found = true
		}
	}
	return best, found
}

func partnerWinning(state *engine.PlayState, pos engine.Position) bool {
	trick := state.CurrentTrick
	if len(trick) == 0 {
		return false
	}
	return engine.TrickWinner(trick, state.Contract.Strain) == pos.Partner()
}

func suitCounts(hand []engine.Card) map[engine.Suit]int {
	counts := map[engine.Suit]int{}
	for _, c := range hand {
		counts[c.Suit]++
	}
	return counts
}

func topOfLongestSuit(hand []engine.Card, legal []engine.Card) engine.Card {
	counts := suitCounts(hand)
	best := legal[0]
	for _, c := range legal[1:] {
		if counts[c.Suit] > counts[best.Suit] {
			best = c
			continue
		}
		if counts[c.Suit] == counts[best.Suit] && c.Suit == best.Suit && c.Rank > best.Rank {
			best = c
		}
	}
	return best
}

// leadFromLongestSuit leads low from length, keeping honors back.
func leadFromLongestSuit(hand []engine.Card, legal []engine.Card) engine.Card {
	counts := suitCounts(hand)
	longest := legal[0].Suit
	for _, c := range legal {
		if counts[c.Suit] > counts[longest] {
			longest = c.Suit
		}
	}
	var low engine.Card
	found := false
	for _, c := range legal {
		if c.Suit != longest {
			continue
		}
		if !found || c.Rank < low.Rank {
			low = c
			found = true
		}
	}
	if found {
		return low
	}
	return lowestCard(legal)
}

// discardLow sheds the lowest card of the shortest remaining suit.
func discardLow(hand []engine.Card, legal []engine.Card) engine.Card {
	counts := suitCounts(hand)
	best := legal[0]
	for _, c := range legal[1:] {
		if counts[c.Suit] < counts[best.Suit] {
			best = c
			continue
		}
		if counts[c.Suit] == counts[best.Suit] && c.Rank < best.Rank {
			best = c
		}
	}
	return best
}
