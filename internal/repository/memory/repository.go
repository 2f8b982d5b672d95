// Package memory is an in-process sheet store for demos and tests.
package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"sena-tracker/internal/repository"
	"sena-tracker/internal/sheet"
)

var _ repository.SheetRepository = (*Repository)(nil)

type Repository struct {
	mu   sync.Mutex
	rows sheet.RowSets

	loadErr     error
	saveErr     error
	evidenceURL string
	saves       []repository.AttendanceSave
}

func New(rows sheet.RowSets) *Repository {
	return &Repository{rows: rows}
}

// FailLoad makes every Load return err; nil clears it.
func (r *Repository) FailLoad(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadErr = err
}

// FailSaves makes CreateFicha and SaveAttendance return err; nil clears it.
func (r *Repository) FailSaves(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveErr = err
}

// AnswerEvidence sets the URL returned for saves that carry a PDF.
func (r *Repository) AnswerEvidence(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evidenceURL = url
}

// Saves returns the attendance saves received so far.
func (r *Repository) Saves() []repository.AttendanceSave {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]repository.AttendanceSave{}, r.saves...)
}

func (r *Repository) Load(ctx context.Context) (sheet.RowSets, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return sheet.RowSets{}, r.loadErr
	}
	return sheet.RowSets{
		Fichas:      copyRows(r.rows.Fichas),
		Apprentices: copyRows(r.rows.Apprentices),
		Evaluations: copyRows(r.rows.Evaluations),
		Attendance:  copyRows(r.rows.Attendance),
	}, nil
}

func (r *Repository) CreateFicha(ctx context.Context, ficha repository.NewFicha) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	row := sheet.FichaRow{Number: ficha.Number, Program: ficha.Program, Instructor: ficha.Instructor}
	r.rows.Fichas = append(r.rows.Fichas, row.Cells(time.Now().Format(time.RFC3339)))
	return nil
}

func (r *Repository) SaveAttendance(ctx context.Context, save repository.AttendanceSave) (repository.SaveResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return repository.SaveResult{}, r.saveErr
	}
	r.saves = append(r.saves, save)

	records, err := json.Marshal(save.Records)
	if err != nil {
		return repository.SaveResult{}, err
	}
	url := ""
	if save.PDFBase64 != "" {
		url = r.evidenceURL
	}

	row := sheet.AttendanceRow{
		Date:        save.Date,
		FichaNumber: save.FichaID,
		RecordedAt:  time.Now().Format(time.RFC3339),
		EvidenceURL: url,
		RecordsJSON: string(records),
	}
	for i, existing := range r.rows.Attendance {
		if len(existing) > 1 && existing[0] == save.Date && existing[1] == save.FichaID {
			if url == "" && len(existing) > 3 {
				row.EvidenceURL = existing[3]
			}
			r.rows.Attendance[i] = row.Cells()
			return repository.SaveResult{EvidenceURL: row.EvidenceURL}, nil
		}
	}
	r.rows.Attendance = append(r.rows.Attendance, row.Cells())
	return repository.SaveResult{EvidenceURL: url}, nil
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string{}, r...)
	}
	return out
}
