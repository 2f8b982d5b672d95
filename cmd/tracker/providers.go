package main

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sena-tracker/internal/fixture"
	"sena-tracker/internal/logger"
	"sena-tracker/internal/models/config"
	"sena-tracker/internal/reconcile"
	"sena-tracker/internal/repository"
	"sena-tracker/internal/repository/appscript"
	"sena-tracker/internal/repository/evidence"
	"sena-tracker/internal/repository/memory"
	"sena-tracker/internal/repository/postgres"
	"sena-tracker/internal/repository/xlsx"
	loader_service "sena-tracker/internal/service/loader"
	"sena-tracker/internal/sheet"
	"sena-tracker/internal/state"
	database "sena-tracker/pkg"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(cfg.Environment)
}

func newFixture(cfg *config.Config) (*fixture.Dataset, error) {
	ds, err := fixture.Load(cfg.Sync.FixturePath)
	if err != nil {
		return nil, errors.Wrap(err, "load fixture")
	}
	return ds, nil
}

func newStateStore(ds *fixture.Dataset) *state.Store {
	return state.NewStore(loader_service.InitialSnapshot(ds))
}

func newPipeline(cfg *config.Config, log *zap.Logger) *reconcile.Pipeline {
	return reconcile.New(log, cfg.Sync.RowMode)
}

func evidenceStore(cfg *config.Config) evidence.Store {
	return evidence.Store{Dir: cfg.Store.EvidenceDir, BaseURL: cfg.Store.EvidenceBaseURL}
}

// openRepository выбирает хранилище по STORE. closeFn is never nil.
func openRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (repo repository.SheetRepository, closeFn func() error, err error) {
	noop := func() error { return nil }

	switch cfg.Store.Kind {
	case config.StoreAppScript:
		return appscript.NewAppScriptRepository(cfg.Store.AppScriptURL, cfg.Store.AppScriptTimeout, log), noop, nil

	case config.StoreXLSX:
		return xlsx.NewWorkbookRepository(xlsx.Options{
			Path:            cfg.Store.XLSXPath,
			EvidenceDir:     cfg.Store.EvidenceDir,
			EvidenceBaseURL: cfg.Store.EvidenceBaseURL,
		}, log), noop, nil

	case config.StorePostgres:
		db, err := database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return postgres.NewSheetRepository(db, evidenceStore(cfg), log), db.Close, nil

	case config.StoreMemory:
		log.Warn("⚠️ STORE=memory: данные не сохраняются между запусками")
		return memory.New(sheet.RowSets{}), noop, nil
	}
	return nil, nil, errors.Errorf("unknown store %q", cfg.Store.Kind)
}

// servesEvidence reports whether PDFs are written to the local evidence dir.
func servesEvidence(cfg *config.Config) bool {
	return cfg.Store.Kind == config.StoreXLSX || cfg.Store.Kind == config.StorePostgres
}
