package sim

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/JFrunk/bridge-bidding-app-sub011/internal/ai"
	"github.com/JFrunk/bridge-bidding-app-sub011/internal/engine"
)

type playRecord struct {
	Trick int
	Pos   engine.Position
	Card  engine.Card
}

// RunSelfPlayHands plays complete random deals with a mixed strategy
// table and checks engine invariants after every card. It returns a
// reproducible failure report on the first violation.
func RunSelfPlayHands(seed int64, hands int) error {
	rng := rand.New(rand.NewSource(seed))
	strategies := map[engine.Position]ai.Strategy{
		engine.North: ai.NewBeginner(seed + 10),
		engine.East:  ai.NewIntermediate(),
		engine.South: ai.NewIntermediate(),
		engine.West:  ai.NewBeginner(seed + 40),
	}

	for h := 0; h < hands; h++ {
		contract := engine.Contract{
			Level:    1 + rng.Intn(7),
			Strain:   engine.Strain(rng.Intn(5)),
			Declarer: engine.Position(rng.Intn(4)),
			Doubled:  rng.Intn(3),
		}
		state := engine.NewPlayState(contract, engine.DealHands(seed+int64(h)))

		records := []playRecord{}
		for !state.HandComplete() {
			pos := state.NextToPlay
			legal := engine.LegalMoves(state.Hands[pos], state.CurrentTrick)
			if len(legal) == 0 {
				return failure(seed, h, state, records, "no legal moves")
			}
			card := strategies[pos].ChooseCard(context.Background(), state, pos)
			led := ledSuit(state.CurrentTrick)
			mustFollow := led != nil && hadLedSuit(state.Hands[pos], *led)
			res, err := state.PlayCard(pos, card)
			if err != nil {
				return failure(seed, h, state, records, fmt.Sprintf("play error: %v", err))
			}
			records = append(records, playRecord{Trick: len(state.History), Pos: pos, Card: card})
			if mustFollow && card.Suit != *led {
				return failure(seed, h, state, records, "follow-suit violated")
			}
			if res.TrickComplete {
				state.ClearTrick()
			}
			if err := checkInvariants(state); err != nil {
				return failure(seed, h, state, records, err.Error())
			}
		}
		score := engine.ComputeScore(contract, state.DeclarerTricks(), engine.VulnNone)
		again := engine.ComputeScore(contract, state.DeclarerTricks(), engine.VulnNone)
		if score != again {
			return failure(seed, h, state, records, "score not reproducible")
		}
	}
	return nil
}

func ledSuit(trick []engine.Play) *engine.Suit {
	if len(trick) == 0 || len(trick) >= 4 {
		return nil
	}
	s := trick[0].Card.Suit
	return &s
}

func hadLedSuit(legal []engine.Card, led engine.Suit) bool {
	for _, c := range legal {
		if c.Suit == led {
			return true
		}
	}
	return false
}

func checkInvariants(state *engine.PlayState) error {
	total, dup := countCards(state)
	if total != 52 {
		return fmt.Errorf("card count mismatch: %d", total)
	}
	if dup {
		return fmt.Errorf("duplicate card detected")
	}
	if len(state.CurrentTrick) > 4 {
		return fmt.Errorf("invalid trick size: %d", len(state.CurrentTrick))
	}
	tricks := 0
	for p := 0; p < 4; p++ {
		tricks += state.TricksWon[p]
	}
	if tricks != len(state.History) {
		return fmt.Errorf("trick credit mismatch: %d credited, %d archived", tricks, len(state.History))
	}
	if len(state.History) > 0 && !state.DummyRevealed {
		return fmt.Errorf("dummy not revealed after opening lead")
	}
	for p := 0; p < 4; p++ {
		if len(state.Hands[p]) > 13 {
			return fmt.Errorf("hand size too large: %d", len(state.Hands[p]))
		}
	}
	return nil
}

func countCards(state *engine.PlayState) (int, bool) {
	seen := map[engine.Card]bool{}
	total := 0
	dup := false
	add := func(c engine.Card) {
		total++
		if seen[c] {
			dup = true
		}
		seen[c] = true
	}
	for p := 0; p < 4; p++ {
		for _, c := range state.Hands[p] {
			add(c)
		}
	}
	for _, p := range state.CurrentTrick {
		add(p.Card)
	}
	for _, trick := range state.History {
		for _, p := range trick {
			add(p.Card)
		}
	}
	return total, dup
}

func failure(seed int64, hand int, state *engine.PlayState, records []playRecord, reason string) error {
	start := 0
	if len(records) > 20 {
		start = len(records) - 20
	}
	log := ""
	for _, r := range records[start:] {
		log += fmt.Sprintf("[h%d t%d %s] %s\n", hand, r.Trick, r.Pos, r.Card)
	}
	return fmt.Errorf("seed=%d hand=%d contract=%s next=%s reason=%s\nlast plays:\n%s",
		seed, hand, state.Contract, state.NextToPlay, reason, log)
}
