package reconcile

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"sena-tracker/internal/models"
	"sena-tracker/internal/sheet"
)

func newObservedPipeline(mode sheet.Mode) (*Pipeline, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New(zap.New(core), mode), logs
}

func sampleRows() sheet.RowSets {
	return sheet.RowSets{
		Fichas: [][]string{
			{"2503412", "Análisis y Desarrollo de Software", "Instructor", "2024-01-01", "", "2024-01-20", "2025-06-20"},
			{"2891234", "Gestión Contable"},
		},
		Apprentices: [][]string{
			{"CC", "1020304050", "Ana María", "Restrepo", "Ana María Restrepo", "", "2503412"},
			{"TI", "99887766", "Juan", "Pérez", "Juan Pérez", "Retirado", "2503412"},
			{"CC", "5555", "Sin", "Ficha", "Sin Ficha", "", "999"},
		},
		Evaluations: [][]string{
			{"2503412", "1020304050", "220501096 Desarrollar software", "RAP 1 Analizar requisitos", "APROBADO"},
			{"2503412", "1020304050", "220501096 Desarrollar software", "RAP 2 Diseñar", "POR EVALUAR"},
		},
		Attendance: [][]string{
			{"'2024-05-20", "2503412", "2024-05-20T10:00:00Z", "https://drive.example.com/a.pdf", `{"1020304050":"PRESENT","99887766":"ABSENT"}`},
		},
	}
}

func TestRunBuildsFichaGraph(t *testing.T) {
	p, _ := newObservedPipeline(sheet.Lenient)

	res := p.Run(sampleRows(), nil)

	require.Len(t, res.Fichas, 2)
	f := res.Fichas[0]
	assert.Equal(t, "2503412", f.ID)
	assert.Equal(t, "2024-01-20", f.StartDate)
	assert.True(t, f.Visible)
	require.Len(t, f.Apprentices, 2)

	ana := f.Apprentices[0]
	assert.Equal(t, "1020304050", ana.ID)
	assert.Equal(t, "AM", ana.Initials)
	assert.Equal(t, models.StatusInTraining, ana.Status)
	assert.Equal(t, 1, ana.ApprovedCompetencies)
	assert.Equal(t, 2, ana.TotalCompetencies)
	assert.Equal(t, 50, ana.ProgressPercentage)

	juan := f.Apprentices[1]
	assert.Equal(t, models.StatusWithdrawn, juan.Status)
	assert.Equal(t, 1, juan.TotalCompetencies)
	assert.Equal(t, 0, juan.ProgressPercentage)

	require.Len(t, f.AttendanceHistory, 1)
	assert.Equal(t, "2024-05-20", f.AttendanceHistory[0].Date)
	assert.Equal(t, models.AttendancePresent, f.AttendanceHistory[0].Records["1020304050"])

	assert.Empty(t, res.Fichas[1].Apprentices)
	assert.Empty(t, res.Fichas[1].AttendanceHistory)
	assert.Len(t, res.Evaluations, 2)
	assert.False(t, res.Report.UsedFallback)
}

func TestRunDropsApprenticeWithUnknownFicha(t *testing.T) {
	p, _ := newObservedPipeline(sheet.Lenient)

	res := p.Run(sampleRows(), nil)

	for _, f := range res.Fichas {
		_, found := f.FindApprentice("5555")
		assert.False(t, found, "ficha %s", f.ID)
	}
	assert.Equal(t, []string{"5555"}, res.Report.DroppedApprentices)
	assert.Equal(t, 2, res.Report.Apprentices)
}

func TestRunFallsBackToFixtureWithoutFichas(t *testing.T) {
	p, _ := newObservedPipeline(sheet.Lenient)
	fixture := []models.Ficha{models.NewFicha("2503412", "Fixture")}

	res := p.Run(sheet.RowSets{}, fixture)

	assert.Equal(t, fixture, res.Fichas)
	assert.True(t, res.Report.UsedFallback)
}

func TestRunSkipsUnreadableAttendanceRow(t *testing.T) {
	p, logs := newObservedPipeline(sheet.Lenient)
	rows := sampleRows()
	rows.Attendance = append(rows.Attendance,
		[]string{"2024-05-21", "2503412", "", "", "{not json"},
		[]string{"2024-05-22", "2503412", "", "", `{"1020304050":"LATE"}`},
	)

	res := p.Run(rows, nil)

	assert.Len(t, res.Fichas[0].AttendanceHistory, 1)
	assert.Equal(t, 2, res.Report.Skipped[sheet.SheetAttendance])
	assert.Equal(t, 2, logs.FilterMessage("⚠️ строка пропущена").Len())
	require.Error(t, res.Report.Errors)
}

func TestRunStrictModeSkipsShortRows(t *testing.T) {
	p, logs := newObservedPipeline(sheet.Strict)
	rows := sampleRows()
	rows.Apprentices = append(rows.Apprentices, []string{"CC", "123"})

	res := p.Run(rows, nil)

	assert.Equal(t, 1, res.Report.Skipped[sheet.SheetApprentices])
	assert.Equal(t, 2, res.Report.Apprentices)
	assert.Equal(t, 1, logs.FilterField(zap.String("sheet", sheet.SheetApprentices)).Len())
}

func TestRunCountsBlankRowsApart(t *testing.T) {
	p, logs := newObservedPipeline(sheet.Lenient)
	rows := sampleRows()
	rows.Fichas = [][]string{rows.Fichas[0], {}, rows.Fichas[1]}

	res := p.Run(rows, nil)

	require.Len(t, res.Fichas, 2)
	for _, f := range res.Fichas {
		assert.NotEmpty(t, f.ID)
		assert.NotEmpty(t, f.Number)
	}
	assert.Equal(t, 1, res.Report.BlankRows[sheet.SheetFichas])
	assert.Zero(t, res.Report.SkippedTotal())
	assert.NoError(t, res.Report.Errors)
	assert.Zero(t, logs.FilterMessage("⚠️ строка пропущена").Len())
}

func TestRunIgnoresDuplicateFichaRows(t *testing.T) {
	p, _ := newObservedPipeline(sheet.Lenient)
	rows := sampleRows()
	rows.Fichas = append(rows.Fichas, []string{"2503412", "Otro programa"})

	res := p.Run(rows, nil)

	require.Len(t, res.Fichas, 2)
	assert.Equal(t, "Análisis y Desarrollo de Software", res.Fichas[0].Program)
	assert.Len(t, res.Fichas[0].Apprentices, 2)
	assert.Equal(t, []string{"2503412"}, res.Report.DuplicateFichas)
}

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Ana María Restrepo", "AM"},
		{"  juan   pérez ", "JP"},
		{"Óscar", "Ó"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewApprentice(sheet.ApprenticeRow{DocumentNumber: "1", FullName: tt.name}, nil)
			assert.Equal(t, tt.want, a.Initials)
		})
	}
}

func TestComputeStatsApprovalIsSticky(t *testing.T) {
	rows := []sheet.EvaluationRow{
		{DocumentNumber: "1", Competency: "C1", Result: "R1", Judgment: "POR EVALUAR"},
		{DocumentNumber: "1", Competency: "C1", Result: "R1", Judgment: "aprobado"},
		{DocumentNumber: "1", Competency: "C1", Result: "R1", Judgment: "POR EVALUAR"},
	}

	stats := ComputeStats(rows)

	assert.Equal(t, ApprovalStats{Approved: 1, Total: 1, Percentage: 100}, stats)
	comps := BuildCompetencies(rows, "1")
	require.Len(t, comps, 1)
	assert.Equal(t, models.ResultApproved, comps[0].Results[0].Status)
}

func TestComputeStatsFloorsDenominator(t *testing.T) {
	assert.Equal(t, ApprovalStats{Approved: 0, Total: 1, Percentage: 0}, ComputeStats(nil))
}

func TestComputeStatsRounding(t *testing.T) {
	var rows []sheet.EvaluationRow
	for i := 0; i < 15; i++ {
		judgment := "POR EVALUAR"
		if i < 5 {
			judgment = "APROBADO"
		}
		rows = append(rows, sheet.EvaluationRow{
			DocumentNumber: "1",
			Competency:     "C1",
			Result:         fmt.Sprintf("RAP %d", i),
			Judgment:       judgment,
		})
	}

	stats := ComputeStats(rows)

	assert.Equal(t, 5, stats.Approved)
	assert.Equal(t, 15, stats.Total)
	assert.Equal(t, 33, stats.Percentage)

	twoOfThree := []sheet.EvaluationRow{
		{Competency: "C1", Result: "R1", Judgment: "APROBADO"},
		{Competency: "C1", Result: "R2", Judgment: "APROBADO"},
		{Competency: "C1", Result: "R3"},
	}
	assert.Equal(t, 67, ComputeStats(twoOfThree).Percentage)
}
