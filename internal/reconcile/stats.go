package reconcile

import (
	"math"

	"sena-tracker/internal/sheet"
)

type ApprovalStats struct {
	Approved   int
	Total      int // never below 1
	Percentage int
}

func statsFromTallies(tallies []resultTally) ApprovalStats {
	approved := 0
	for _, t := range tallies {
		if t.Approved {
			approved++
		}
	}

	total := len(tallies)
	if total == 0 {
		return ApprovalStats{Approved: 0, Total: 1, Percentage: 0}
	}
	return ApprovalStats{
		Approved:   approved,
		Total:      total,
		Percentage: int(math.Round(float64(approved) / float64(total) * 100)),
	}
}

// ComputeStats summarizes the evaluation rows of a single apprentice.
func ComputeStats(rows []sheet.EvaluationRow) ApprovalStats {
	return statsFromTallies(tally(rows))
}
