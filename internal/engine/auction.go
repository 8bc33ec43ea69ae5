package engine

import "fmt"

type CallType int

const (
	CallPass CallType = iota
	CallBid
	CallDouble
	CallRedouble
)

// Call is one entry in an auction. Level and Strain are meaningful only
// for CallBid.
type Call struct {
	Type   CallType
	Level  int
	Strain Strain
}

func (c Call) String() string {
	switch c.Type {
	case CallPass:
		return "PASS"
	case CallBid:
		return fmt.Sprintf("%d%s", c.Level, c.Strain)
	case CallDouble:
		return "X"
	case CallRedouble:
		return "XX"
	default:
		return "?"
	}
}

// Auction is the finished call sequence handed over by the bidding
// collaborator. Dealer made the first call; seats rotate clockwise.
type Auction struct {
	Dealer Position
	Calls  []Call
}

func (a Auction) caller(i int) Position {
	return Position((int(a.Dealer) + i) % 4)
}

// higher reports whether bid b outranks bid prev in the C<D<H<S<NT,
// then level, order.
func higher(b, prev Call) bool {
	if b.Level != prev.Level {
		return b.Level > prev.Level
	}
	return b.Strain > prev.Strain
}

// DetermineContract derives the final contract from a finished auction.
// The contract is the last bid; declarer is the first member of the
// winning partnership to have named the final strain; doubled status
// comes from an undisputed double or redouble after the last bid.
// An all-pass auction, or a structurally invalid call sequence, yields
// ErrMalformedAuction.
func DetermineContract(a Auction) (Contract, error) {
	lastBid := -1
	doubled := 0
	var final Call
	for i, call := range a.Calls {
		switch call.Type {
		case CallPass:
		case CallBid:
			if call.Level < 1 || call.Level > 7 {
				return Contract{}, fmt.Errorf("%w: bid level %d", ErrMalformedAuction, call.Level)
			}
			if lastBid >= 0 && !higher(call, final) {
				return Contract{}, fmt.Errorf("%w: insufficient bid %s", ErrMalformedAuction, call)
			}
			lastBid = i
			final = call
			doubled = 0
		case CallDouble:
			if lastBid < 0 || doubled != 0 || a.caller(i).SameSide(a.caller(lastBid)) {
				return Contract{}, fmt.Errorf("%w: stray double", ErrMalformedAuction)
			}
			doubled = 1
		case CallRedouble:
			if doubled != 1 || !a.caller(i).SameSide(a.caller(lastBid)) {
				return Contract{}, fmt.Errorf("%w: stray redouble", ErrMalformedAuction)
			}
			doubled = 2
		default:
			return Contract{}, fmt.Errorf("%w: unknown call", ErrMalformedAuction)
		}
	}
	if lastBid < 0 {
		return Contract{}, fmt.Errorf("%w: all pass", ErrMalformedAuction)
	}

	winner := a.caller(lastBid)
	declarer := winner
	for i, call := range a.Calls {
		if call.Type == CallBid && call.Strain == final.Strain && a.caller(i).SameSide(winner) {
			declarer = a.caller(i)
			break
		}
	}
	return Contract{
		Level:    final.Level,
		Strain:   final.Strain,
		Declarer: declarer,
		Doubled:  doubled,
	}, nil
}
