package apprentice_service

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sena-tracker/internal/fixture"
	"sena-tracker/internal/models"
	"sena-tracker/internal/reconcile"
	"sena-tracker/internal/service"
	"sena-tracker/internal/state"
)

type apprenticeService struct {
	store           *state.Store
	fixture         *fixture.Dataset
	templateEnabled bool
	log             *zap.Logger
}

// NewApprenticeService. With templateFallback an apprentice without
// evaluation rows is shown the fixture's competency template.
func NewApprenticeService(store *state.Store, ds *fixture.Dataset, templateFallback bool, log *zap.Logger) service.ApprenticeService {
	return &apprenticeService{
		store:           store,
		fixture:         ds,
		templateEnabled: templateFallback,
		log:             log.With(zap.String("component", "apprentices")),
	}
}

func (s *apprenticeService) competencies(snap state.Snapshot, documentNumber string) []models.Competency {
	comps := reconcile.BuildCompetencies(snap.Evaluations, documentNumber)
	if s.templateEnabled {
		comps = reconcile.WithTemplate(comps, s.fixture.CompetencyTemplate)
	}
	return comps
}

func (s *apprenticeService) Inspect(documentNumber string) (service.ApprenticeDetail, error) {
	snap := s.store.Snapshot()
	a, f, ok := snap.FindApprentice(documentNumber)
	if !ok {
		return service.ApprenticeDetail{}, errors.Wrapf(state.ErrApprenticeNotFound, "apprentice %s", documentNumber)
	}
	return service.ApprenticeDetail{
		Apprentice:   a,
		FichaID:      f.ID,
		FichaNumber:  f.Number,
		Program:      f.Program,
		Competencies: s.competencies(snap, documentNumber),
	}, nil
}

func (s *apprenticeService) Competencies(documentNumber string) ([]models.Competency, error) {
	snap := s.store.Snapshot()
	if _, _, ok := snap.FindApprentice(documentNumber); !ok {
		return nil, errors.Wrapf(state.ErrApprenticeNotFound, "apprentice %s", documentNumber)
	}
	return s.competencies(snap, documentNumber), nil
}

func (s *apprenticeService) SaveSubmission(documentNumber string, sub models.GuideSubmission) (models.GuideSubmission, error) {
	if sub.GuideID == "" {
		return models.GuideSubmission{}, errors.Wrap(service.ErrInvalidInput, "guide id is required")
	}
	if sub.Status == "" {
		sub.Status = models.SubmissionDraft
	}
	if _, err := s.store.Update(state.SaveSubmission(documentNumber, sub)); err != nil {
		return models.GuideSubmission{}, err
	}
	s.log.Info("📝 работа сохранена",
		zap.String("apprentice", documentNumber),
		zap.String("guide", sub.GuideID),
		zap.String("status", string(sub.Status)),
	)
	return sub, nil
}

func (s *apprenticeService) GuideStructure() []models.GuideSection {
	return s.fixture.GuideStructure
}
