package server

import (
	"errors"
	"strings"

	"github.com/JFrunk/bridge-bidding-app-sub011/internal/engine"
)

// Cards cross the wire as rank+suit strings ("AS", "10H"), calls as
// "1NT", "X", "XX", "PASS", seats as compass letters.

func parseCard(s string) (engine.Card, error) {
	if len(s) < 2 {
		return engine.Card{}, errors.New("invalid card")
	}
	suit, err := parseSuit(s[len(s)-1:])
	if err != nil {
		return engine.Card{}, err
	}
	rank, err := parseRank(s[:len(s)-1])
	if err != nil {
		return engine.Card{}, err
	}
	return engine.Card{Suit: suit, Rank: rank}, nil
}

func parseSuit(s string) (engine.Suit, error) {
	switch strings.ToUpper(s) {
	case "C":
		return engine.SuitClubs, nil
	case "D":
		return engine.SuitDiamonds, nil
	case "H":
		return engine.SuitHearts, nil
	case "S":
		return engine.SuitSpades, nil
	default:
		return engine.SuitClubs, errors.New("invalid suit")
	}
}

func parseRank(r string) (engine.Rank, error) {
	switch strings.ToUpper(r) {
	case "2":
		return engine.Rank2, nil
	case "3":
		return engine.Rank3, nil
	case "4":
		return engine.Rank4, nil
	case "5":
		return engine.Rank5, nil
	case "6":
		return engine.Rank6, nil
	case "7":
		return engine.Rank7, nil
	case "8":
		return engine.Rank8, nil
	case "9":
		return engine.Rank9, nil
	case "10", "T":
		return engine.Rank10, nil
	case "J":
		return engine.RankJ, nil
	case "Q":
		return engine.RankQ, nil
	case "K":
		return engine.RankK, nil
	case "A":
		return engine.RankA, nil
	default:
		return engine.Rank2, errors.New("invalid rank")
	}
}

func parsePosition(s string) (engine.Position, error) {
	switch strings.ToUpper(s) {
	case "N":
		return engine.North, nil
	case "E":
		return engine.East, nil
	case "S":
		return engine.South, nil
	case "W":
		return engine.West, nil
	default:
		return engine.North, errors.New("invalid position")
	}
}

func parseStrain(s string) (engine.Strain, error) {
	switch strings.ToUpper(s) {
	case "NT":
		return engine.StrainNoTrump, nil
	default:
		suit, err := parseSuit(s)
		if err != nil {
			return engine.StrainNoTrump, errors.New("invalid strain")
		}
		return engine.Strain(suit), nil
	}
}

func parseCall(s string) (engine.Call, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PASS", "P":
		return engine.Call{Type: engine.CallPass}, nil
	case "X", "DBL":
		return engine.Call{Type: engine.CallDouble}, nil
	case "XX", "RDBL":
		return engine.Call{Type: engine.CallRedouble}, nil
	}
	if len(s) < 2 {
		return engine.Call{}, errors.New("invalid call")
	}
	level := int(s[0] - '0')
	if level < 1 || level > 7 {
		return engine.Call{}, errors.New("invalid bid level")
	}
	strain, err := parseStrain(s[1:])
	if err != nil {
		return engine.Call{}, err
	}
	return engine.Call{Type: engine.CallBid, Level: level, Strain: strain}, nil
}

func parseVulnerability(s string) (engine.Vulnerability, error) {
	switch strings.ToUpper(s) {
	case "", "NONE":
		return engine.VulnNone, nil
	case "NS":
		return engine.VulnNS, nil
	case "EW":
		return engine.VulnEW, nil
	case "BOTH", "ALL":
		return engine.VulnBoth, nil
	default:
		return engine.VulnNone, errors.New("invalid vulnerability")
	}
}

func parseAuction(dealer string, calls []string) (engine.Auction, error) {
	d, err := parsePosition(dealer)
	if err != nil {
		return engine.Auction{}, err
	}
	a := engine.Auction{Dealer: d}
	for _, s := range calls {
		call, err := parseCall(s)
		if err != nil {
			return engine.Auction{}, err
		}
		a.Calls = append(a.Calls, call)
	}
	return a, nil
}

func cardStrings(cards []engine.Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.String())
	}
	return out
}
