package reconcile

import (
	"strings"

	"sena-tracker/internal/models"
	"sena-tracker/internal/sheet"
)

// resultTally is one unique (competency, result) pair of an apprentice.
// Approved is sticky: a single APROBADO row is enough.
type resultTally struct {
	Competency string
	Result     string
	Approved   bool
}

func isApproved(judgment string) bool {
	return strings.ToUpper(strings.TrimSpace(judgment)) == string(models.ResultApproved)
}

// tally groups rows by (competency, result) in order of first appearance.
// Both the statistics and the competency tree are built from its output.
func tally(rows []sheet.EvaluationRow) []resultTally {
	index := make(map[string]int, len(rows))
	var out []resultTally

	for _, row := range rows {
		comp := strings.TrimSpace(row.Competency)
		result := strings.TrimSpace(row.Result)
		key := comp + "|" + result
		approved := isApproved(row.Judgment)

		if i, ok := index[key]; ok {
			if approved {
				out[i].Approved = true
			}
			continue
		}
		index[key] = len(out)
		out = append(out, resultTally{Competency: comp, Result: result, Approved: approved})
	}
	return out
}

// RowsFor returns the evaluation rows of one apprentice.
func RowsFor(rows []sheet.EvaluationRow, documentNumber string) []sheet.EvaluationRow {
	var out []sheet.EvaluationRow
	for _, r := range rows {
		if r.DocumentNumber == documentNumber {
			out = append(out, r)
		}
	}
	return out
}

func indexByApprentice(rows []sheet.EvaluationRow) map[string][]sheet.EvaluationRow {
	idx := make(map[string][]sheet.EvaluationRow)
	for _, r := range rows {
		idx[r.DocumentNumber] = append(idx[r.DocumentNumber], r)
	}
	return idx
}
