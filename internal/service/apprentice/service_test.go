package apprentice_service

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sena-tracker/internal/fixture"
	"sena-tracker/internal/models"
	"sena-tracker/internal/service"
	"sena-tracker/internal/sheet"
	"sena-tracker/internal/state"
)

func newStore() *state.Store {
	f := models.NewFicha("2503412", "ADSO")
	f.Apprentices = []models.Apprentice{
		{ID: "1", DocumentNumber: "1", FullName: "Ana"},
		{ID: "2", DocumentNumber: "2", FullName: "Luis"},
	}
	return state.NewStore(state.Snapshot{
		Fichas: []models.Ficha{f},
		Evaluations: []sheet.EvaluationRow{
			{FichaNumber: "2503412", DocumentNumber: "1", Competency: "220501096 Software", Result: "RAP 1", Judgment: "APROBADO"},
		},
	})
}

func newService(t *testing.T, template bool) (service.ApprenticeService, *state.Store) {
	ds, err := fixture.Default()
	require.NoError(t, err)
	store := newStore()
	return NewApprenticeService(store, ds, template, zap.NewNop()), store
}

func TestInspect(t *testing.T) {
	svc, _ := newService(t, false)

	d, err := svc.Inspect("1")
	require.NoError(t, err)
	assert.Equal(t, "2503412", d.FichaID)
	assert.Equal(t, "ADSO", d.Program)
	require.Len(t, d.Competencies, 1)
	assert.Equal(t, "22", d.Competencies[0].Number)

	_, err = svc.Inspect("404")
	assert.True(t, errors.Is(err, state.ErrApprenticeNotFound))
}

func TestCompetenciesTemplateFallback(t *testing.T) {
	off, _ := newService(t, false)
	comps, err := off.Competencies("2")
	require.NoError(t, err)
	assert.Empty(t, comps)

	on, _ := newService(t, true)
	comps, err = on.Competencies("2")
	require.NoError(t, err)
	assert.Len(t, comps, 4)

	comps, err = on.Competencies("1")
	require.NoError(t, err)
	assert.Len(t, comps, 1)
}

func TestSaveSubmission(t *testing.T) {
	svc, store := newService(t, false)

	sub, err := svc.SaveSubmission("1", models.GuideSubmission{GuideID: "g1"})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionDraft, sub.Status)

	_, err = svc.SaveSubmission("1", models.GuideSubmission{GuideID: "g1", Status: models.SubmissionSubmitted})
	require.NoError(t, err)

	a, _, _ := store.Snapshot().FindApprentice("1")
	require.Len(t, a.Submissions, 1)
	assert.Equal(t, models.SubmissionSubmitted, a.Submissions[0].Status)

	_, err = svc.SaveSubmission("1", models.GuideSubmission{})
	assert.True(t, errors.Is(err, service.ErrInvalidInput))
}

func TestGuideStructure(t *testing.T) {
	svc, _ := newService(t, false)
	sections := svc.GuideStructure()
	require.Len(t, sections, 4)
	assert.Equal(t, "3.1", sections[0].ID)
}
