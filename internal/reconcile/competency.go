package reconcile

import (
	"regexp"
	"strings"

	"sena-tracker/internal/models"
	"sena-tracker/internal/sheet"
)

const (
	defaultCompetencyNumber = "GEN"
	defaultResultCode       = "RAP"
)

var (
	leadingDigits = regexp.MustCompile(`^\d+`)
	resultCode    = regexp.MustCompile(`(?i)RAP\s*\d+`)
)

// CompetencyNumber returns the first two digits of the leading numeric
// prefix of a competency name, or "GEN".
func CompetencyNumber(name string) string {
	digits := leadingDigits.FindString(name)
	if digits == "" {
		return defaultCompetencyNumber
	}
	if len(digits) > 2 {
		digits = digits[:2]
	}
	return digits
}

// ResultCode extracts "RAP <n>" from a result description.
func ResultCode(description string) string {
	code := resultCode.FindString(description)
	if code == "" {
		return defaultResultCode
	}
	return strings.ToUpper(code)
}

// BuildCompetencies builds the competency tree of one apprentice from the
// full evaluation row-set. An apprentice without rows gets an empty list.
func BuildCompetencies(rows []sheet.EvaluationRow, documentNumber string) []models.Competency {
	return competenciesFromTallies(tally(RowsFor(rows, documentNumber)))
}

func competenciesFromTallies(tallies []resultTally) []models.Competency {
	index := make(map[string]int)
	comps := []models.Competency{}

	for _, t := range tallies {
		i, ok := index[t.Competency]
		if !ok {
			i = len(comps)
			index[t.Competency] = i
			comps = append(comps, models.Competency{
				ID:      t.Competency,
				Number:  CompetencyNumber(t.Competency),
				Title:   t.Competency,
				Results: []models.CompetencyResult{},
			})
		}

		status := models.ResultPending
		if t.Approved {
			status = models.ResultApproved
		}
		comps[i].Results = append(comps[i].Results, models.CompetencyResult{
			ID:          t.Competency + "-" + t.Result,
			Code:        ResultCode(t.Result),
			Description: t.Result,
			Status:      status,
		})
		comps[i].ResultsCount++
	}
	return comps
}
