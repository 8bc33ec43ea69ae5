package ai

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
	Expert       Difficulty = "expert"
)

// ForDifficulty builds the strategy for a session. Selection happens
// once here; the play path only ever sees the Strategy interface.
func ForDifficulty(d Difficulty, seed int64, searchBudget, solverBudget time.Duration, log *zap.Logger) (Strategy, error) {
	switch d {
	case Beginner:
		return NewBeginner(seed), nil
	case Intermediate:
		return NewIntermediate(), nil
	case Advanced:
		return NewAdvanced(searchBudget), nil
	case Expert:
		return NewExpert(solverBudget, NewAdvanced(searchBudget), log), nil
	default:
		return nil, fmt.Errorf("unknown difficulty %q", d)
	}
}
