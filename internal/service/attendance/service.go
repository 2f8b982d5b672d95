package attendance_service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sena-tracker/internal/metrics"
	"sena-tracker/internal/models"
	"sena-tracker/internal/reconcile"
	"sena-tracker/internal/repository"
	"sena-tracker/internal/service"
	"sena-tracker/internal/state"
)

type attendanceService struct {
	repo    repository.SheetRepository
	store   *state.Store
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewAttendanceService(repo repository.SheetRepository, store *state.Store, m *metrics.Metrics, log *zap.Logger) service.AttendanceService {
	return &attendanceService{
		repo:    repo,
		store:   store,
		metrics: m,
		log:     log.With(zap.String("component", "attendance")),
	}
}

// Save записывает посещаемость за день
func (s *attendanceService) Save(ctx context.Context, fichaID, date string, records map[string]models.AttendanceStatus, pdfBase64 string) (models.AttendanceRecord, error) {
	date = reconcile.NormalizeDate(date)
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return models.AttendanceRecord{}, errors.Wrapf(service.ErrInvalidInput, "date %q", date)
	}
	for id, status := range records {
		if !status.Valid() {
			return models.AttendanceRecord{}, errors.Wrapf(service.ErrInvalidInput, "apprentice %s: status %q", id, status)
		}
	}

	// Сначала локально: интерфейс не ждёт таблицу
	snap, err := s.store.Update(state.UpsertAttendance(fichaID, date, records))
	if err != nil {
		return models.AttendanceRecord{}, err
	}
	f, _ := snap.Ficha(fichaID)
	rec, _ := f.AttendanceFor(date)

	res, err := s.repo.SaveAttendance(ctx, repository.AttendanceSave{
		Date:      date,
		FichaID:   fichaID,
		Records:   records,
		PDFBase64: pdfBase64,
	})
	s.metrics.ObserveSave(repository.ActionSaveAttendance, err)
	if err != nil {
		s.log.Error("❌ посещаемость не сохранена в хранилище",
			zap.String("ficha", fichaID),
			zap.String("date", date),
			zap.Error(err),
		)
		return rec, errors.Wrap(err, "save attendance in store")
	}

	if res.EvidenceURL != "" && reconcile.NormalizeEvidenceURL(res.EvidenceURL) == "" {
		s.log.Warn("⚠️ хранилище вернуло неверную ссылку на доказательство",
			zap.String("ficha", fichaID),
			zap.String("url", res.EvidenceURL),
		)
	}
	if res.EvidenceURL != "" {
		snap, err = s.store.Update(state.ConfirmEvidence(fichaID, date, res.EvidenceURL))
		if err != nil {
			return rec, err
		}
		f, _ = snap.Ficha(fichaID)
		rec, _ = f.AttendanceFor(date)
	}

	present, absent, excused := rec.Stats()
	s.log.Info("✅ посещаемость сохранена",
		zap.String("ficha", fichaID),
		zap.String("date", date),
		zap.Int("present", present),
		zap.Int("absent", absent),
		zap.Int("excused", excused),
	)
	return rec, nil
}
