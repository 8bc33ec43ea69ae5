package server

import "github.com/JFrunk/bridge-bidding-app-sub011/internal/engine"

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type EventPayload struct {
	Position string `json:"position,omitempty"`
	Card     string `json:"card,omitempty"`
	Winner   string `json:"winner,omitempty"`
	Trick    int    `json:"trick,omitempty"`
	TricksNS int    `json:"tricksNS,omitempty"`
	TricksEW int    `json:"tricksEW,omitempty"`
}

// buildEvents diffs the state around one play into client events.
func buildEvents(prev, next *engine.PlayState, pos engine.Position, card engine.Card) []Event {
	events := []Event{
		{Type: "card_played", Data: EventPayload{Position: pos.String(), Card: card.String()}},
	}
	if !prev.DummyRevealed && next.DummyRevealed {
		events = append(events, Event{Type: "dummy_revealed", Data: EventPayload{
			Position: next.Dummy().String(),
		}})
	}
	if len(next.History) > len(prev.History) {
		winner := engine.TrickWinner(next.History[len(next.History)-1], next.Contract.Strain)
		events = append(events, Event{Type: "trick_won", Data: EventPayload{
			Winner:   winner.String(),
			Trick:    len(next.History),
			TricksNS: next.TricksWon[engine.North] + next.TricksWon[engine.South],
			TricksEW: next.TricksWon[engine.East] + next.TricksWon[engine.West],
		}})
	}
	if next.HandComplete() {
		events = append(events, Event{Type: "hand_complete"})
	}
	return events
}
