// Package postgres mirrors the four sheets in PostgreSQL tables that keep
// the spreadsheet's column order.
package postgres

import (
	"context"
	_ "embed"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sena-tracker/internal/repository"
	"sena-tracker/internal/repository/evidence"
	"sena-tracker/internal/sheet"
)

//go:embed schema.sql
var schema string

// EnsureSchema создаёт схему sena, если её ещё нет
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "apply schema")
	}
	return nil
}

type fichaRow struct {
	Number     string    `db:"number"`
	Program    string    `db:"program"`
	Instructor string    `db:"instructor"`
	CreatedAt  time.Time `db:"created_at"`
	Reserved   string    `db:"reserved"`
	StartDate  string    `db:"start_date"`
	EndDate    string    `db:"end_date"`
}

type apprenticeRow struct {
	DocumentType   string `db:"document_type"`
	DocumentNumber string `db:"document_number"`
	FirstNames     string `db:"first_names"`
	LastNames      string `db:"last_names"`
	FullName       string `db:"full_name"`
	Status         string `db:"status"`
	FichaNumber    string `db:"ficha_number"`
}

type evaluationRow struct {
	FichaNumber    string `db:"ficha_number"`
	DocumentNumber string `db:"document_number"`
	Competency     string `db:"competency"`
	Result         string `db:"result"`
	Judgment       string `db:"judgment"`
}

type attendanceRow struct {
	Date        string    `db:"date"`
	FichaNumber string    `db:"ficha_number"`
	RecordedAt  time.Time `db:"recorded_at"`
	EvidenceURL string    `db:"evidence_url"`
	Records     string    `db:"records"`
}

type sheetRepository struct {
	db       *sqlx.DB
	evidence evidence.Store
	log      *zap.Logger
}

func NewSheetRepository(db *sqlx.DB, ev evidence.Store, log *zap.Logger) repository.SheetRepository {
	return &sheetRepository{db: db, evidence: ev, log: log.With(zap.String("component", "postgres"))}
}

func (r *sheetRepository) Load(ctx context.Context) (sheet.RowSets, error) {
	var (
		fichas      []fichaRow
		apprentices []apprenticeRow
		evaluations []evaluationRow
		attendance  []attendanceRow
		rows        sheet.RowSets
	)

	query := `
		SELECT number, program, instructor, created_at, reserved, start_date, end_date
		FROM sena.fichas
		ORDER BY id
	`
	if err := r.db.SelectContext(ctx, &fichas, query); err != nil {
		return rows, errors.Wrap(err, "select fichas")
	}

	query = `
		SELECT document_type, document_number, first_names, last_names, full_name, status, ficha_number
		FROM sena.aprendices
		ORDER BY id
	`
	if err := r.db.SelectContext(ctx, &apprentices, query); err != nil {
		return rows, errors.Wrap(err, "select aprendices")
	}

	query = `
		SELECT ficha_number, document_number, competency, result, judgment
		FROM sena.evaluaciones
		ORDER BY id
	`
	if err := r.db.SelectContext(ctx, &evaluations, query); err != nil {
		return rows, errors.Wrap(err, "select evaluaciones")
	}

	query = `
		SELECT date, ficha_number, recorded_at, evidence_url, records::text AS records
		FROM sena.asistencia
		ORDER BY id
	`
	if err := r.db.SelectContext(ctx, &attendance, query); err != nil {
		return rows, errors.Wrap(err, "select asistencia")
	}

	for _, f := range fichas {
		rows.Fichas = append(rows.Fichas, []string{
			f.Number, f.Program, f.Instructor, f.CreatedAt.Format(time.RFC3339), f.Reserved, f.StartDate, f.EndDate,
		})
	}
	for _, a := range apprentices {
		rows.Apprentices = append(rows.Apprentices, []string{
			a.DocumentType, a.DocumentNumber, a.FirstNames, a.LastNames, a.FullName, a.Status, a.FichaNumber,
		})
	}
	for _, e := range evaluations {
		rows.Evaluations = append(rows.Evaluations, []string{
			e.FichaNumber, e.DocumentNumber, e.Competency, e.Result, e.Judgment,
		})
	}
	for _, a := range attendance {
		rows.Attendance = append(rows.Attendance, []string{
			a.Date, a.FichaNumber, a.RecordedAt.Format(time.RFC3339), a.EvidenceURL, a.Records,
		})
	}
	return rows, nil
}

func (r *sheetRepository) CreateFicha(ctx context.Context, ficha repository.NewFicha) error {
	query := `
		INSERT INTO sena.fichas (number, program, instructor)
		VALUES ($1, $2, $3)
		ON CONFLICT (number) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, ficha.Number, ficha.Program, ficha.Instructor)
	if err != nil {
		return errors.Wrap(err, "insert ficha")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &repository.RemoteError{Action: repository.ActionCreateFicha, Status: "error", Message: "La ficha ya existe"}
	}
	return nil
}

func (r *sheetRepository) SaveAttendance(ctx context.Context, save repository.AttendanceSave) (repository.SaveResult, error) {
	records, err := json.Marshal(save.Records)
	if err != nil {
		return repository.SaveResult{}, errors.Wrap(err, "marshal records")
	}

	evidenceURL := ""
	if save.PDFBase64 != "" {
		if evidenceURL, err = r.evidence.Write(save.FichaID, save.Date, save.PDFBase64); err != nil {
			return repository.SaveResult{}, err
		}
	}

	// Пустая ссылка не затирает уже сохранённую
	query := `
		INSERT INTO sena.asistencia (date, ficha_number, evidence_url, records)
		VALUES ($1, $2, $3, $4::jsonb)
		ON CONFLICT (ficha_number, date)
		DO UPDATE SET
			records = EXCLUDED.records,
			recorded_at = CURRENT_TIMESTAMP,
			evidence_url = CASE WHEN EXCLUDED.evidence_url = '' THEN sena.asistencia.evidence_url ELSE EXCLUDED.evidence_url END
		RETURNING evidence_url
	`
	var stored string
	if err := r.db.QueryRowContext(ctx, query, save.Date, save.FichaID, evidenceURL, string(records)).Scan(&stored); err != nil {
		return repository.SaveResult{}, errors.Wrap(err, "upsert asistencia")
	}

	r.log.Info("💾 посещаемость сохранена в БД", zap.String("ficha", save.FichaID), zap.String("date", save.Date))
	return repository.SaveResult{EvidenceURL: stored}, nil
}
