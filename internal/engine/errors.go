package engine

import "errors"

// Validation failures leave state untouched; callers map each sentinel
// to its own transport error code.
var (
	ErrMalformedAuction = errors.New("no contract derivable from auction")
	ErrOutOfTurn        = errors.New("not this seat's turn")
	ErrIllegalMove      = errors.New("card is not a legal play")
	ErrHandComplete     = errors.New("hand is complete")
	ErrHandNotComplete  = errors.New("hand is not complete")
)
