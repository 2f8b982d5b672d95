package ficha_service

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sena-tracker/internal/models"
	"sena-tracker/internal/repository/memory"
	"sena-tracker/internal/service"
	"sena-tracker/internal/sheet"
	"sena-tracker/internal/state"
)

func setup() (*memory.Repository, *state.Store, service.FichaService) {
	f := models.NewFicha("2503412", "ADSO")
	hidden := models.NewFicha("2891234", "Contable")
	hidden.Visible = false

	store := state.NewStore(state.Snapshot{Fichas: []models.Ficha{f, hidden}})
	repo := memory.New(sheet.RowSets{})
	return repo, store, NewFichaService(repo, store, nil, zap.NewNop())
}

func TestListByRole(t *testing.T) {
	_, _, svc := setup()

	assert.Len(t, svc.List(models.RoleInstructor), 2)
	assert.Len(t, svc.List(models.RoleCoordinator), 1)
}

func TestCreate(t *testing.T) {
	repo, store, svc := setup()
	ctx := context.Background()

	f, err := svc.Create(ctx, " 3000001 ", "Cocina", "Chef")
	require.NoError(t, err)
	assert.Equal(t, "3000001", f.ID)
	assert.True(t, f.Visible)
	assert.Len(t, store.Snapshot().Fichas, 3)

	rows, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, rows.Fichas, 1)
	assert.Equal(t, "Chef", rows.Fichas[0][2])
}

func TestCreateDuplicateDoesNotTouchStore(t *testing.T) {
	repo, store, svc := setup()
	ctx := context.Background()

	_, err := svc.Create(ctx, "2503412", "Otra", "")

	assert.True(t, pkgerrors.Is(err, state.ErrFichaExists))
	assert.Len(t, store.Snapshot().Fichas, 2)
	rows, _ := repo.Load(ctx)
	assert.Empty(t, rows.Fichas)
}

func TestCreateKeepsLocalFichaOnStoreFailure(t *testing.T) {
	repo, store, svc := setup()
	repo.FailSaves(errors.New("quota exceeded"))

	f, err := svc.Create(context.Background(), "3000001", "Cocina", "")

	require.Error(t, err)
	assert.Equal(t, "3000001", f.ID)
	_, ok := store.Snapshot().Ficha("3000001")
	assert.True(t, ok)
}

func TestCreateRequiresNumberAndProgram(t *testing.T) {
	_, _, svc := setup()

	_, err := svc.Create(context.Background(), "", "Cocina", "")
	assert.True(t, pkgerrors.Is(err, service.ErrInvalidInput))
}

func TestToggleVisibility(t *testing.T) {
	_, _, svc := setup()

	f, err := svc.ToggleVisibility("2891234")
	require.NoError(t, err)
	assert.True(t, f.Visible)

	_, err = svc.ToggleVisibility("nope")
	assert.True(t, pkgerrors.Is(err, state.ErrFichaNotFound))
}

func TestReplaceApprenticesFillsDerivedFields(t *testing.T) {
	_, _, svc := setup()

	f, err := svc.ReplaceApprentices("2503412", []models.Apprentice{{DocumentNumber: "1", FullName: "ana lucía"}})
	require.NoError(t, err)

	require.Len(t, f.Apprentices, 1)
	a := f.Apprentices[0]
	assert.Equal(t, "1", a.ID)
	assert.Equal(t, "AL", a.Initials)
	assert.Equal(t, models.StatusInTraining, a.Status)
	assert.Equal(t, 1, a.TotalCompetencies)

	_, err = svc.ReplaceApprentices("2503412", []models.Apprentice{{FullName: "sin documento"}})
	assert.True(t, pkgerrors.Is(err, service.ErrInvalidInput))
}

func TestAddDocument(t *testing.T) {
	_, store, svc := setup()

	doc, err := svc.AddDocument("2503412", models.FichaDocument{
		Title:   "Plan",
		Type:    models.DocumentPlan,
		Content: models.PTCContent{Phase: "Análisis"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.NotEmpty(t, doc.UploadDate)

	f, _ := store.Snapshot().Ficha("2503412")
	assert.Equal(t, doc.ID, f.Documents[0].ID)

	_, err = svc.AddDocument("2503412", models.FichaDocument{Type: models.DocumentGuide, Content: models.PTCContent{}})
	assert.True(t, pkgerrors.Is(err, service.ErrInvalidInput))
}
