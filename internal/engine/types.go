package engine

import "fmt"

type Suit int

type Rank int

const (
	SuitClubs Suit = iota
	SuitDiamonds
	SuitHearts
	SuitSpades
)

const (
	Rank2  Rank = 2
	Rank3  Rank = 3
	Rank4  Rank = 4
	Rank5  Rank = 5
	Rank6  Rank = 6
	Rank7  Rank = 7
	Rank8  Rank = 8
	Rank9  Rank = 9
	Rank10 Rank = 10
	RankJ  Rank = 11
	RankQ  Rank = 12
	RankK  Rank = 13
	RankA  Rank = 14
)

func (s Suit) String() string {
	switch s {
	case SuitClubs:
		return "C"
	case SuitDiamonds:
		return "D"
	case SuitHearts:
		return "H"
	case SuitSpades:
		return "S"
	default:
		return "?"
	}
}

func (r Rank) String() string {
	switch {
	case r >= Rank2 && r <= Rank10:
		return fmt.Sprintf("%d", int(r))
	case r == RankJ:
		return "J"
	case r == RankQ:
		return "Q"
	case r == RankK:
		return "K"
	case r == RankA:
		return "A"
	default:
		return "?"
	}
}

type Card struct {
	Suit Suit
	Rank Rank
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank.String(), c.Suit.String())
}

// Position is a compass seat. Play proceeds clockwise N, E, S, W.
type Position int

const (
	North Position = iota
	East
	South
	West
)

func (p Position) String() string {
	switch p {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	default:
		return "?"
	}
}

func (p Position) Next() Position {
	return (p + 1) % 4
}

func (p Position) Partner() Position {
	return (p + 2) % 4
}

// SameSide reports whether two seats belong to the same partnership
// (N-S or E-W).
func (p Position) SameSide(o Position) bool {
	return p%2 == o%2
}

// Strain is the denomination of a contract. The suit strains share the
// Suit ordering so a suited strain converts directly to its trump suit.
type Strain int

const (
	StrainClubs Strain = iota
	StrainDiamonds
	StrainHearts
	StrainSpades
	StrainNoTrump
)

func (s Strain) String() string {
	if s == StrainNoTrump {
		return "NT"
	}
	return Suit(s).String()
}

// TrumpSuit returns the trump suit of a suited strain. ok is false for
// no-trump.
func (s Strain) TrumpSuit() (Suit, bool) {
	if s == StrainNoTrump {
		return 0, false
	}
	return Suit(s), true
}

type Contract struct {
	Level    int
	Strain   Strain
	Declarer Position
	Doubled  int // 0 undoubled, 1 doubled, 2 redoubled
}

func (c Contract) String() string {
	out := fmt.Sprintf("%d%s", c.Level, c.Strain)
	switch c.Doubled {
	case 1:
		out += "X"
	case 2:
		out += "XX"
	}
	return out
}

// Target is the number of tricks the declaring side must take.
func (c Contract) Target() int {
	return 6 + c.Level
}

type Vulnerability int

const (
	VulnNone Vulnerability = iota
	VulnNS
	VulnEW
	VulnBoth
)

func (v Vulnerability) String() string {
	switch v {
	case VulnNone:
		return "None"
	case VulnNS:
		return "NS"
	case VulnEW:
		return "EW"
	case VulnBoth:
		return "Both"
	default:
		return "?"
	}
}

// Applies reports whether the partnership holding the given seat is
// vulnerable.
func (v Vulnerability) Applies(p Position) bool {
	switch v {
	case VulnBoth:
		return true
	case VulnNS:
		return p == North || p == South
	case VulnEW:
		return p == East || p == West
	default:
		return false
	}
}

// Play is one card placed on the current trick by a seat.
type Play struct {
	Pos  Position
	Card Card
}
