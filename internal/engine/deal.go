package engine

import "math/rand"

func BuildDeck() []Card {
	deck := make([]Card, 0, 52)
	suits := []Suit{SuitClubs, SuitDiamonds, SuitHearts, SuitSpades}
	for _, s := range suits {
		for r := Rank2; r <= RankA; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

func Shuffle(deck []Card, seed int64) []Card {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// DealHands deals 13 cards to each seat, deterministically for a seed.
// The four hands partition the full deck.
func DealHands(seed int64) [4][]Card {
	deck := Shuffle(BuildDeck(), seed)
	if len(deck) != 52 {
		panic("invalid deal configuration: does not exhaust deck")
	}
	var hands [4][]Card
	for p := 0; p < 4; p++ {
		hands[p] = append([]Card(nil), deck[p*13:(p+1)*13]...)
	}
	return hands
}
