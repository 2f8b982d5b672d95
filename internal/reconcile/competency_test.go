package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sena-tracker/internal/models"
	"sena-tracker/internal/sheet"
)

func TestCompetencyNumber(t *testing.T) {
	assert.Equal(t, "22", CompetencyNumber("220501096 Desarrollar la solución"))
	assert.Equal(t, "7", CompetencyNumber("7 Inglés"))
	assert.Equal(t, "GEN", CompetencyNumber("Competencia sin código"))
	assert.Equal(t, "GEN", CompetencyNumber(""))
}

func TestResultCode(t *testing.T) {
	assert.Equal(t, "RAP 1", ResultCode("RAP 1 Analizar requisitos"))
	assert.Equal(t, "RAP3", ResultCode("Resultado rap3 del módulo"))
	assert.Equal(t, "RAP", ResultCode("Resultado sin código"))
}

func TestBuildCompetencies(t *testing.T) {
	rows := []sheet.EvaluationRow{
		{DocumentNumber: "1", Competency: "220501096 Software", Result: "RAP 1 Analizar", Judgment: "APROBADO"},
		{DocumentNumber: "2", Competency: "220501096 Software", Result: "RAP 1 Analizar", Judgment: "APROBADO"},
		{DocumentNumber: "1", Competency: "220501096 Software", Result: "RAP 2 Diseñar", Judgment: "POR EVALUAR"},
		{DocumentNumber: "1", Competency: "Inglés", Result: "Comprender textos", Judgment: ""},
		{DocumentNumber: "1", Competency: "220501096 Software", Result: "RAP 2 Diseñar", Judgment: "POR EVALUAR"},
	}

	comps := BuildCompetencies(rows, "1")

	require.Len(t, comps, 2)
	sw := comps[0]
	assert.Equal(t, "220501096 Software", sw.ID)
	assert.Equal(t, "22", sw.Number)
	assert.Equal(t, 2, sw.ResultsCount)
	require.Len(t, sw.Results, 2)
	assert.Equal(t, "220501096 Software-RAP 1 Analizar", sw.Results[0].ID)
	assert.Equal(t, "RAP 1", sw.Results[0].Code)
	assert.Equal(t, models.ResultApproved, sw.Results[0].Status)
	assert.Equal(t, models.ResultPending, sw.Results[1].Status)
	assert.Equal(t, 1, sw.Approved())

	en := comps[1]
	assert.Equal(t, "GEN", en.Number)
	assert.Equal(t, "RAP", en.Results[0].Code)

	// the tree and the statistics agree on the same rows
	stats := ComputeStats(RowsFor(rows, "1"))
	assert.Equal(t, sw.ResultsCount+en.ResultsCount, stats.Total)
	assert.Equal(t, sw.Approved()+en.Approved(), stats.Approved)
}

func TestBuildCompetenciesWithoutRows(t *testing.T) {
	comps := BuildCompetencies(nil, "1")
	assert.NotNil(t, comps)
	assert.Empty(t, comps)

	template := []models.Competency{{ID: "EN", Number: "EN", Title: "Inglés", IsLocked: true}}
	assert.Equal(t, template, WithTemplate(comps, template))
	assert.Empty(t, WithTemplate(comps, nil))
}

func TestWithTemplateCopiesResults(t *testing.T) {
	template := []models.Competency{{
		ID:      "EN",
		Number:  "EN",
		Results: []models.CompetencyResult{{Code: "RAP1", Status: models.ResultPending}},
	}}

	got := WithTemplate(nil, template)
	require.Len(t, got, 1)
	got[0].Results[0].Status = models.ResultApproved

	assert.Equal(t, models.ResultPending, template[0].Results[0].Status)
}
