package engine

import "fmt"

// Score is the duplicate result of a completed hand. Points are from
// the declaring side's viewpoint: negative when the contract goes down.
type Score struct {
	TricksTaken int
	Made        bool
	Result      string
	Points      int
}

// ComputeScore applies the standard duplicate-bridge scoring table.
// Pure and total: any (contract, tricksTaken, vulnerability) input maps
// to exactly one Score.
func ComputeScore(c Contract, tricksTaken int, vuln Vulnerability) Score {
	vulnerable := vuln.Applies(c.Declarer)
	target := c.Target()

	if tricksTaken < target {
		down := target - tricksTaken
		return Score{
			TricksTaken: tricksTaken,
			Result:      fmt.Sprintf("%s-%d", c, down),
			Points:      -undertrickPenalty(down, c.Doubled, vulnerable),
		}
	}

	mult := 1 << c.Doubled // 1, 2, 4
	contractPoints := trickScore(c.Level, c.Strain) * mult

	points := contractPoints
	if contractPoints >= 100 {
		if vulnerable {
			points += 500
		} else {
			points += 300
		}
	} else {
		points += 50
	}
	switch c.Level {
	case 6:
		if vulnerable {
			points += 750
		} else {
			points += 500
		}
	case 7:
		if vulnerable {
			points += 1500
		} else {
			points += 1000
		}
	}
	points += 50 * c.Doubled // the insult bonus for making a doubled contract

	over := tricksTaken - target
	switch c.Doubled {
	case 0:
		points += over * overtrickValue(c.Strain)
	case 1:
		if vulnerable {
			points += over * 200
		} else {
			points += over * 100
		}
	case 2:
		if vulnerable {
			points += over * 400
		} else {
			points += over * 200
		}
	}

	result := fmt.Sprintf("%s=", c)
	if over > 0 {
		result = fmt.Sprintf("%s+%d", c, over)
	}
	return Score{
		TricksTaken: tricksTaken,
		Made:        true,
		Result:      result,
		Points:      points,
	}
}

// trickScore is the raw value of the contracted tricks: minors 20 each,
// majors 30 each, no-trump 40 for the first and 30 thereafter.
func trickScore(level int, strain Strain) int {
	switch strain {
	case StrainClubs, StrainDiamonds:
		return level * 20
	case StrainHearts, StrainSpades:
		return level * 30
	default:
		return 40 + (level-1)*30
	}
}

func overtrickValue(strain Strain) int {
	if strain == StrainClubs || strain == StrainDiamonds {
		return 20
	}
	return 30
}

// undertrickPenalty follows the graduated doubled scale: doubled
// non-vulnerable 100/200/200/300..., doubled vulnerable 200/300...,
// redoubled twice that.
func undertrickPenalty(down, doubled int, vulnerable bool) int {
	if doubled == 0 {
		if vulnerable {
			return down * 100
		}
		return down * 50
	}
	total := 0
	for i := 1; i <= down; i++ {
		switch {
		case i == 1:
			if vulnerable {
				total += 200
			} else {
				total += 100
			}
		case i <= 3 && !vulnerable:
			total += 200
		default:
			total += 300
		}
	}
	if doubled == 2 {
		total *= 2
	}
	return total
}
