package engine

// LegalMoves returns the cards the holder of hand may play on the given
// trick. An empty (or already resolved) trick allows the whole hand;
// otherwise the led suit must be followed when held.
func LegalMoves(hand []Card, trick []Play) []Card {
	if len(trick) == 0 || len(trick) >= 4 {
		return append([]Card(nil), hand...)
	}
	led := trick[0].Card.Suit
	if hasSuit(hand, led) {
		return filterBySuit(hand, led)
	}
	return append([]Card(nil), hand...)
}

// TrickWinner resolves a complete trick under the contract's strain.
// The highest trump wins if any trump was played; otherwise the highest
// card of the led suit. Cards of other side suits never win.
func TrickWinner(trick []Play, strain Strain) Position {
	if len(trick) == 0 {
		return -1
	}
	trump, hasTrump := strain.TrumpSuit()
	leadSuit := trick[0].Card.Suit
	bestIdx := 0
	for i := 1; i < len(trick); i++ {
		c := trick[i].Card
		best := trick[bestIdx].Card

		if hasTrump {
			if c.Suit == trump && best.Suit != trump {
				bestIdx = i
				continue
			}
			if c.Suit != trump && best.Suit == trump {
				continue
			}
		}

		if c.Suit == best.Suit {
			if c.Rank > best.Rank {
				bestIdx = i
			}
			continue
		}

		if best.Suit != leadSuit && c.Suit == leadSuit {
			bestIdx = i
		}
	}
	return trick[bestIdx].Pos
}

// HandVisible is the single visibility rule for a seat's cards. The
// human always sees their own hand; everyone sees dummy once the
// opening lead has been made; a human seated at dummy sees declarer's
// hand, since they direct declarer's plays.
func HandVisible(pos, human, dummy, declarer Position, dummyRevealed bool) bool {
	if pos == human {
		return true
	}
	if pos == dummy && dummyRevealed {
		return true
	}
	if pos == declarer && human == dummy {
		return true
	}
	return false
}

func hasSuit(cards []Card, suit Suit) bool {
	for _, c := range cards {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

func filterBySuit(cards []Card, suit Suit) []Card {
	out := []Card{}
	for _, c := range cards {
		if c.Suit == suit {
			out = append(out, c)
		}
	}
	return out
}

func removeCard(hand *[]Card, card Card) bool {
	for i, c := range *hand {
		if c == card {
			*hand = append((*hand)[:i], (*hand)[i+1:]...)
			return true
		}
	}
	return false
}

func containsCard(cards []Card, card Card) bool {
	for _, c := range cards {
		if c == card {
			return true
		}
	}
	return false
}
