package ficha_service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sena-tracker/internal/metrics"
	"sena-tracker/internal/models"
	"sena-tracker/internal/repository"
	"sena-tracker/internal/service"
	"sena-tracker/internal/state"
)

type fichaService struct {
	repo    repository.SheetRepository
	store   *state.Store
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewFichaService(repo repository.SheetRepository, store *state.Store, m *metrics.Metrics, log *zap.Logger) service.FichaService {
	return &fichaService{
		repo:    repo,
		store:   store,
		metrics: m,
		log:     log.With(zap.String("component", "fichas")),
	}
}

func (s *fichaService) List(role models.Role) []models.Ficha {
	snap := s.store.Snapshot()
	if role == models.RoleInstructor {
		return snap.Fichas
	}
	return snap.VisibleFichas()
}

func (s *fichaService) Get(id string) (models.Ficha, error) {
	f, ok := s.store.Snapshot().Ficha(id)
	if !ok {
		return models.Ficha{}, errors.Wrapf(state.ErrFichaNotFound, "ficha %s", id)
	}
	return f, nil
}

func (s *fichaService) Create(ctx context.Context, number, program, instructor string) (models.Ficha, error) {
	number = strings.TrimSpace(number)
	program = strings.TrimSpace(program)
	if number == "" || program == "" {
		return models.Ficha{}, errors.Wrap(service.ErrInvalidInput, "number and program are required")
	}

	f := models.NewFicha(number, program)
	if _, err := s.store.Update(state.AddFicha(f)); err != nil {
		return models.Ficha{}, err
	}

	err := s.repo.CreateFicha(ctx, repository.NewFicha{
		Number:     number,
		Program:    program,
		Instructor: strings.TrimSpace(instructor),
	})
	s.metrics.ObserveSave(repository.ActionCreateFicha, err)
	if err != nil {
		s.log.Error("❌ группа не сохранена в хранилище", zap.String("ficha", number), zap.Error(err))
		return f, errors.Wrap(err, "create ficha in store")
	}

	s.log.Info("✅ группа создана", zap.String("ficha", number))
	return f, nil
}

func (s *fichaService) ToggleVisibility(id string) (models.Ficha, error) {
	snap, err := s.store.Update(state.ToggleVisibility(id))
	if err != nil {
		return models.Ficha{}, err
	}
	f, _ := snap.Ficha(id)
	return f, nil
}

func (s *fichaService) ReplaceApprentices(id string, apprentices []models.Apprentice) (models.Ficha, error) {
	apprentices = append([]models.Apprentice{}, apprentices...)
	for i := range apprentices {
		a := &apprentices[i]
		if a.DocumentNumber == "" {
			return models.Ficha{}, errors.Wrapf(service.ErrInvalidInput, "apprentice %d has no document number", i)
		}
		if a.ID == "" {
			a.ID = a.DocumentNumber
		}
		if a.Initials == "" {
			a.Initials = models.Initials(a.FullName)
		}
		if a.Status == "" {
			a.Status = models.StatusInTraining
		}
		if a.TotalCompetencies < 1 {
			a.TotalCompetencies = 1
		}
	}

	snap, err := s.store.Update(state.ReplaceApprentices(id, apprentices))
	if err != nil {
		return models.Ficha{}, err
	}
	f, _ := snap.Ficha(id)
	return f, nil
}

func (s *fichaService) AddDocument(id string, doc models.FichaDocument) (models.FichaDocument, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.UploadDate == "" {
		doc.UploadDate = time.Now().Format("2006-01-02")
	}
	if err := doc.Validate(); err != nil {
		return models.FichaDocument{}, errors.Wrap(service.ErrInvalidInput, err.Error())
	}

	if _, err := s.store.Update(state.AddDocument(id, doc)); err != nil {
		return models.FichaDocument{}, err
	}
	s.log.Info("📎 документ добавлен", zap.String("ficha", id), zap.String("type", string(doc.Type)), zap.String("content", models.DescribeContent(doc.Content)))
	return doc, nil
}
