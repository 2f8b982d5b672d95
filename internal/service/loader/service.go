package loader_service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sena-tracker/internal/fixture"
	"sena-tracker/internal/metrics"
	"sena-tracker/internal/models"
	"sena-tracker/internal/reconcile"
	"sena-tracker/internal/repository"
	"sena-tracker/internal/service"
	"sena-tracker/internal/state"
)

// InitialSnapshot is what the app serves until the first load finishes.
func InitialSnapshot(ds *fixture.Dataset) state.Snapshot {
	return state.Snapshot{
		Fichas:        ds.CloneFichas(),
		Announcements: append([]models.Announcement{}, ds.Announcements...),
		Source:        state.SourceFixture,
	}
}

type loaderService struct {
	repo     repository.SheetRepository
	pipeline *reconcile.Pipeline
	fixture  *fixture.Dataset
	store    *state.Store
	metrics  *metrics.Metrics
	log      *zap.Logger
}

func NewLoaderService(
	repo repository.SheetRepository,
	pipeline *reconcile.Pipeline,
	ds *fixture.Dataset,
	store *state.Store,
	m *metrics.Metrics,
	log *zap.Logger,
) service.LoaderService {
	return &loaderService{
		repo:     repo,
		pipeline: pipeline,
		fixture:  ds,
		store:    store,
		metrics:  m,
		log:      log.With(zap.String("component", "loader")),
	}
}

func (s *loaderService) Snapshot() state.Snapshot {
	return s.store.Snapshot()
}

func (s *loaderService) Load(ctx context.Context) (reconcile.Report, error) {
	started := time.Now()

	rows, err := s.repo.Load(ctx)
	if err != nil {
		s.metrics.ObserveLoad(metrics.ResultFailure, time.Since(started))
		s.log.Warn("⚠️ не удалось загрузить таблицу, остаются текущие данные",
			zap.String("source", string(s.store.Snapshot().Source)),
			zap.Error(err),
		)
		return reconcile.Report{}, errors.Wrap(err, "load spreadsheet")
	}

	res := s.pipeline.Run(rows, s.fixture.CloneFichas())

	source := state.SourceStore
	result := metrics.ResultSuccess
	if res.Report.UsedFallback {
		source = state.SourceFixture
		result = metrics.ResultFallback
	}
	s.store.Replace(res.Fichas, res.Evaluations, source)

	s.metrics.ObserveLoad(result, time.Since(started))
	s.metrics.ObserveSkipped(res.Report.Skipped, len(res.Report.DroppedApprentices))

	s.log.Info("✅ таблица загружена",
		zap.Int("fichas", res.Report.Fichas),
		zap.Int("apprentices", res.Report.Apprentices),
		zap.Int("skipped", res.Report.SkippedTotal()),
		zap.Int("dropped", len(res.Report.DroppedApprentices)),
		zap.String("source", string(source)),
		zap.Duration("took", time.Since(started)),
	)
	return res.Report, nil
}
