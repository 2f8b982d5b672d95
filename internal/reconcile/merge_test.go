package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sena-tracker/internal/models"
)

func freshFicha(number, start, end string) models.Ficha {
	f := models.NewFicha(number, "Programa "+number)
	f.StartDate = start
	f.EndDate = end
	return f
}

func TestMergeWithEmptyFixtureOnlyAttachesHistory(t *testing.T) {
	fresh := []models.Ficha{freshFicha("1", "2024-01-01", ""), freshFicha("2", "", "")}
	history := map[string][]models.AttendanceRecord{
		"1": {{Date: "2024-05-20", Records: map[string]models.AttendanceStatus{"a": models.AttendancePresent}}},
	}

	merged := MergeWithFallback(fresh, history, nil)

	require.Len(t, merged, 2)
	want := fresh[0]
	want.AttendanceHistory = history["1"]
	assert.Equal(t, want, merged[0])
	assert.Equal(t, fresh[1], merged[1])
}

func TestMergeCopiesDocumentsAndFillsMissingDates(t *testing.T) {
	mock := freshFicha("1", "2024-01-20", "2025-06-20")
	mock.Documents = []models.FichaDocument{{ID: "d1", Title: "Guía 1", Type: models.DocumentGuide}}
	other := freshFicha("9", "2020-01-01", "2020-12-31")

	fresh := []models.Ficha{freshFicha("1", "2024-02-01", ""), freshFicha("3", "", "")}

	merged := MergeWithFallback(fresh, nil, []models.Ficha{other, mock})

	require.Len(t, merged, 2)
	assert.Equal(t, "2024-02-01", merged[0].StartDate)
	assert.Equal(t, "2025-06-20", merged[0].EndDate)
	assert.Equal(t, mock.Documents, merged[0].Documents)
	assert.Empty(t, merged[1].Documents)
	assert.Empty(t, merged[1].StartDate)
	assert.NotNil(t, merged[1].AttendanceHistory)

	merged[0].Documents[0].Title = "changed"
	assert.Equal(t, "Guía 1", mock.Documents[0].Title)
}

func TestMergeWithoutFreshFichasKeepsFixture(t *testing.T) {
	fixture := []models.Ficha{freshFicha("1", "2024-01-20", "2025-06-20")}
	assert.Equal(t, fixture, MergeWithFallback(nil, map[string][]models.AttendanceRecord{"1": {{Date: "x"}}}, fixture))
}
