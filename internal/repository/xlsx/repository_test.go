package xlsx

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"sena-tracker/internal/models"
	"sena-tracker/internal/repository"
	"sena-tracker/internal/sheet"
)

func newTestRepo(t *testing.T) (*workbookRepository, Options) {
	t.Helper()
	dir := t.TempDir()
	opts := Options{
		Path:            filepath.Join(dir, "sena.xlsx"),
		EvidenceDir:     filepath.Join(dir, "evidencias"),
		EvidenceBaseURL: "http://localhost:8080/evidencias/",
	}
	repo := NewWorkbookRepository(opts, zap.NewNop()).(*workbookRepository)
	repo.now = func() time.Time { return time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC) }
	return repo, opts
}

func TestLoadMissingWorkbook(t *testing.T) {
	repo, _ := newTestRepo(t)

	rows, err := repo.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, rows.Fichas)
	assert.Empty(t, rows.Attendance)
}

func TestCreateFichaAppendsRow(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateFicha(ctx, repository.NewFicha{Number: "2503412", Program: "ADSO", Instructor: "Instr"}))
	require.NoError(t, repo.CreateFicha(ctx, repository.NewFicha{Number: "2891234", Program: "Contable"}))

	rows, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, rows.Fichas, 2)
	assert.Equal(t, "2503412", rows.Fichas[0][0])
	assert.Equal(t, "Instr", rows.Fichas[0][2])
	assert.Equal(t, "2024-05-20T10:00:00Z", rows.Fichas[0][3])
	assert.Equal(t, "Contable", rows.Fichas[1][1])

	err = repo.CreateFicha(ctx, repository.NewFicha{Number: "2503412", Program: "Otra"})
	var remote *repository.RemoteError
	assert.True(t, errors.As(err, &remote))
}

func TestSaveAttendanceUpsertsByDate(t *testing.T) {
	repo, opts := newTestRepo(t)
	ctx := context.Background()
	pdf := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 test"))

	res, err := repo.SaveAttendance(ctx, repository.AttendanceSave{
		Date:      "2024-05-20",
		FichaID:   "2503412",
		Records:   map[string]models.AttendanceStatus{"1": models.AttendanceAbsent},
		PDFBase64: "data:application/pdf;base64," + pdf,
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(res.EvidenceURL, "http://localhost:8080/evidencias/asistencia_2503412_2024-05-20_"))

	name := strings.TrimPrefix(res.EvidenceURL, "http://localhost:8080/evidencias/")
	data, err := os.ReadFile(filepath.Join(opts.EvidenceDir, name))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(data))

	again, err := repo.SaveAttendance(ctx, repository.AttendanceSave{
		Date:    "2024-05-20",
		FichaID: "2503412",
		Records: map[string]models.AttendanceStatus{"1": models.AttendancePresent},
	})
	require.NoError(t, err)
	assert.Equal(t, res.EvidenceURL, again.EvidenceURL)

	rows, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, rows.Attendance, 1)
	assert.Equal(t, `{"1":"PRESENT"}`, rows.Attendance[0][4])
	assert.Equal(t, res.EvidenceURL, rows.Attendance[0][3])
}

func TestSaveAttendanceRejectsBadPDF(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.SaveAttendance(context.Background(), repository.AttendanceSave{
		Date: "2024-05-20", FichaID: "1", Records: map[string]models.AttendanceStatus{}, PDFBase64: "***",
	})
	assert.Error(t, err)
}

func TestLoadSkipsHeaderAndUnknownSheets(t *testing.T) {
	repo, opts := newTestRepo(t)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Notas"))
	_, err := f.NewSheet(sheet.SheetApprentices)
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(sheet.SheetApprentices, "A1", &[]interface{}{"Tipo Doc", "Documento"}))
	require.NoError(t, f.SetSheetRow(sheet.SheetApprentices, "A2", &[]interface{}{"CC", "1020304050", "Ana", "R", "Ana R", "", "2503412"}))
	require.NoError(t, f.SaveAs(opts.Path))
	require.NoError(t, f.Close())

	rows, err := repo.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, rows.Apprentices, 1)
	assert.Equal(t, "1020304050", rows.Apprentices[0][1])
	assert.Empty(t, rows.Fichas)
}

func TestLoadPadsTrailingEmptyCells(t *testing.T) {
	repo, opts := newTestRepo(t)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", sheet.SheetEvaluations))
	require.NoError(t, f.SetSheetRow(sheet.SheetEvaluations, "A1", &[]interface{}{"Ficha", "Documento", "Competencia", "Resultado", "Juicio"}))
	require.NoError(t, f.SetSheetRow(sheet.SheetEvaluations, "A2", &[]interface{}{"2503412", "1020304050", "220501096 Desarrollar software", "RAP 1 Analizar"}))
	require.NoError(t, f.SaveAs(opts.Path))
	require.NoError(t, f.Close())

	rows, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows.Evaluations, 1)
	assert.Len(t, rows.Evaluations[0], 5)

	evals, err := sheet.NewDecoder(sheet.Strict).Evaluations(rows.Evaluations)
	require.NoError(t, err)
	require.Len(t, evals, 1)
	assert.Empty(t, evals[0].Judgment)
}

func TestLegacyWorkbookIsReadOnly(t *testing.T) {
	repo := NewWorkbookRepository(Options{Path: filepath.Join(t.TempDir(), "viejo.xls")}, zap.NewNop())

	err := repo.CreateFicha(context.Background(), repository.NewFicha{Number: "1"})
	assert.ErrorIs(t, err, ErrReadOnly)
}
