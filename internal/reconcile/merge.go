package reconcile

import "sena-tracker/internal/models"

// MergeWithFallback attaches attendance history to the fresh fichas and
// fills documents and missing dates from the fixture ficha with the same
// number. With no fresh fichas the fixture is returned as-is.
func MergeWithFallback(fresh []models.Ficha, history map[string][]models.AttendanceRecord, fixture []models.Ficha) []models.Ficha {
	if len(fresh) == 0 {
		return fixture
	}

	byNumber := make(map[string]models.Ficha, len(fixture))
	for _, f := range fixture {
		if _, ok := byNumber[f.Number]; !ok {
			byNumber[f.Number] = f
		}
	}

	merged := make([]models.Ficha, 0, len(fresh))
	for _, nf := range fresh {
		out := nf
		out.AttendanceHistory = history[nf.ID]
		if out.AttendanceHistory == nil {
			out.AttendanceHistory = []models.AttendanceRecord{}
		}

		if mock, ok := byNumber[nf.Number]; ok {
			out.Documents = append([]models.FichaDocument{}, mock.Documents...)
			if out.StartDate == "" {
				out.StartDate = mock.StartDate
			}
			if out.EndDate == "" {
				out.EndDate = mock.EndDate
			}
		}
		merged = append(merged, out)
	}
	return merged
}
