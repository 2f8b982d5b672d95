package reconcile

import (
	"sena-tracker/internal/models"
	"sena-tracker/internal/sheet"
)

// buildFichas creates one empty ficha per distinct number. The first row
// of a repeated number wins; the rest are returned as duplicates.
func buildFichas(rows []sheet.FichaRow) (fichas []models.Ficha, duplicates []string) {
	seen := make(map[string]bool, len(rows))
	fichas = make([]models.Ficha, 0, len(rows))

	for _, r := range rows {
		if seen[r.Number] {
			duplicates = append(duplicates, r.Number)
			continue
		}
		seen[r.Number] = true

		f := models.NewFicha(r.Number, r.Program)
		f.StartDate = r.StartDate
		f.EndDate = r.EndDate
		fichas = append(fichas, f)
	}
	return fichas, duplicates
}

// NewApprentice maps one apprentice row, with statistics computed from
// that apprentice's evaluation rows.
func NewApprentice(row sheet.ApprenticeRow, evaluations []sheet.EvaluationRow) models.Apprentice {
	stats := ComputeStats(evaluations)
	return models.Apprentice{
		ID:                   row.DocumentNumber,
		DocumentType:         row.DocumentType,
		DocumentNumber:       row.DocumentNumber,
		FullName:             row.FullName,
		Initials:             models.Initials(row.FullName),
		Status:               models.ParseApprenticeStatus(row.Status),
		ApprovedCompetencies: stats.Approved,
		TotalCompetencies:    stats.Total,
		ProgressPercentage:   stats.Percentage,
	}
}

// assignApprentices appends every apprentice to its ficha. Apprentices
// pointing at an unknown ficha are dropped; their document numbers are
// returned.
func assignApprentices(fichas []models.Ficha, rows []sheet.ApprenticeRow, evaluations []sheet.EvaluationRow) (dropped []string) {
	byID := make(map[string]int, len(fichas))
	for i, f := range fichas {
		byID[f.ID] = i
	}
	byApprentice := indexByApprentice(evaluations)

	for _, r := range rows {
		i, ok := byID[r.FichaNumber]
		if !ok {
			dropped = append(dropped, r.DocumentNumber)
			continue
		}
		fichas[i].Apprentices = append(fichas[i].Apprentices, NewApprentice(r, byApprentice[r.DocumentNumber]))
	}
	return dropped
}
