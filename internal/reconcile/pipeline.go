// Package reconcile turns the four flat row-sets of the spreadsheet store
// into the nested ficha graph and merges it against the fallback dataset.
package reconcile

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sena-tracker/internal/models"
	"sena-tracker/internal/sheet"
)

// Report describes what happened to the rows of one run.
type Report struct {
	Fichas             int            `json:"fichas" yaml:"fichas"`
	Apprentices        int            `json:"apprentices" yaml:"apprentices"`
	Evaluations        int            `json:"evaluations" yaml:"evaluations"`
	AttendanceRecords  int            `json:"attendance_records" yaml:"attendance_records"`
	DroppedApprentices []string       `json:"dropped_apprentices,omitempty" yaml:"dropped_apprentices,omitempty"`
	DuplicateFichas    []string       `json:"duplicate_fichas,omitempty" yaml:"duplicate_fichas,omitempty"`
	Skipped            map[string]int `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	BlankRows          map[string]int `json:"blank_rows,omitempty" yaml:"blank_rows,omitempty"`
	UsedFallback       bool           `json:"used_fallback" yaml:"used_fallback"`
	Errors             error          `json:"-" yaml:"-"`
}

// SkippedTotal is the number of rows skipped across all sheets.
func (r Report) SkippedTotal() int {
	n := 0
	for _, c := range r.Skipped {
		n += c
	}
	return n
}

type Result struct {
	Fichas      []models.Ficha
	Evaluations []sheet.EvaluationRow
	Report      Report
}

type Pipeline struct {
	log     *zap.Logger
	decoder *sheet.Decoder
}

func New(log *zap.Logger, mode sheet.Mode) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		log:     log.With(zap.String("component", "reconcile")),
		decoder: sheet.NewDecoder(mode),
	}
}

// Run reconciles one load. It never fails: bad rows are skipped, logged
// and listed in the report.
func (p *Pipeline) Run(rows sheet.RowSets, fallback []models.Ficha) Result {
	report := Report{Skipped: map[string]int{}, BlankRows: map[string]int{}}

	fichaRows, err := p.decoder.Fichas(rows.Fichas)
	p.skip(&report, sheet.SheetFichas, err)
	apprenticeRows, err := p.decoder.Apprentices(rows.Apprentices)
	p.skip(&report, sheet.SheetApprentices, err)
	evaluationRows, err := p.decoder.Evaluations(rows.Evaluations)
	p.skip(&report, sheet.SheetEvaluations, err)
	attendanceRows, err := p.decoder.Attendance(rows.Attendance)
	p.skip(&report, sheet.SheetAttendance, err)

	fichas, duplicates := buildFichas(fichaRows)
	for _, number := range duplicates {
		p.log.Warn("⚠️ повторная строка группы пропущена", zap.String("ficha", number))
	}
	report.DuplicateFichas = duplicates

	dropped := assignApprentices(fichas, apprenticeRows, evaluationRows)
	if len(dropped) > 0 {
		p.log.Info("ученики без известной группы отброшены", zap.Strings("documents", dropped))
	}
	report.DroppedApprentices = dropped

	history, err := ParseAttendance(attendanceRows)
	p.skip(&report, sheet.SheetAttendance, err)

	merged := MergeWithFallback(fichas, history, fallback)
	report.UsedFallback = len(fichas) == 0

	for _, f := range merged {
		report.Fichas++
		report.Apprentices += len(f.Apprentices)
		report.AttendanceRecords += len(f.AttendanceHistory)
	}
	report.Evaluations = len(evaluationRows)

	p.log.Debug("сверка завершена",
		zap.Int("fichas", report.Fichas),
		zap.Int("apprentices", report.Apprentices),
		zap.Int("skipped", report.SkippedTotal()),
		zap.Bool("fallback", report.UsedFallback),
	)

	return Result{Fichas: merged, Evaluations: evaluationRows, Report: report}
}

func (p *Pipeline) skip(report *Report, sheetName string, err error) {
	for _, e := range multierr.Errors(err) {
		if _, ok := e.(*sheet.BlankRowError); ok {
			report.BlankRows[sheetName]++
			continue
		}
		p.log.Warn("⚠️ строка пропущена", zap.String("sheet", sheetName), zap.Error(e))
		report.Skipped[sheetName]++
		report.Errors = multierr.Append(report.Errors, e)
	}
}

// WithTemplate returns a copy of the template when an apprentice has no
// evaluation rows and the template fallback is on.
func WithTemplate(comps []models.Competency, template []models.Competency) []models.Competency {
	if len(comps) > 0 || len(template) == 0 {
		return comps
	}
	out := make([]models.Competency, len(template))
	for i, c := range template {
		if c.Results != nil {
			c.Results = append([]models.CompetencyResult{}, c.Results...)
		}
		out[i] = c
	}
	return out
}
