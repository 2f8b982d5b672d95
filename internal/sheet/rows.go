// Package sheet decodes the positional spreadsheet rows into typed rows.
// Nothing past this package sees untyped cell arrays.
package sheet

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Sheet names used by every store.
const (
	SheetFichas      = "Fichas"
	SheetApprentices = "Aprendices"
	SheetEvaluations = "Evaluaciones"
	SheetAttendance  = "Asistencia"
)

// Column layout. Offsets are fixed by the spreadsheet convention.
const (
	// Fichas
	colFichaNumber     = 0
	colFichaProgram    = 1
	colFichaInstructor = 2
	colFichaStartDate  = 5
	colFichaEndDate    = 6
	FichaWidth         = 7
	fichaMinWidth      = 2

	// Aprendices
	colApprenticeDocType   = 0
	colApprenticeDocNumber = 1
	colApprenticeFullName  = 4
	colApprenticeStatus    = 5
	colApprenticeFicha     = 6
	ApprenticeWidth        = 7

	// Evaluaciones
	colEvalFicha      = 0
	colEvalDocNumber  = 1
	colEvalCompetency = 2
	colEvalResult     = 3
	colEvalJudgment   = 4
	EvaluationWidth   = 5

	// Asistencia
	colAttDate       = 0
	colAttFicha      = 1
	colAttRecordedAt = 2
	colAttEvidence   = 3
	colAttRecords    = 4
	AttendanceWidth  = 5
)

// Mode decides what happens to rows that do not fit the layout.
type Mode string

const (
	// Lenient pads short rows with empty cells and never rejects a row.
	Lenient Mode = "lenient"
	// Strict rejects short rows and rows missing an identity cell.
	Strict Mode = "strict"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Lenient:
		return Lenient, nil
	case Strict:
		return Strict, nil
	default:
		return "", fmt.Errorf("unknown row mode %q", s)
	}
}

// RowSets - четыре листа в том виде, в каком их вернуло хранилище
type RowSets struct {
	Fichas      [][]string `json:"fichas" yaml:"fichas"`
	Apprentices [][]string `json:"aprendices" yaml:"aprendices"`
	Evaluations [][]string `json:"evaluaciones" yaml:"evaluaciones"`
	Attendance  [][]string `json:"asistencia" yaml:"asistencia"`
}

type FichaRow struct {
	Number     string
	Program    string
	Instructor string
	StartDate  string
	EndDate    string
}

type ApprenticeRow struct {
	DocumentType   string
	DocumentNumber string
	FullName       string
	Status         string
	FichaNumber    string
}

type EvaluationRow struct {
	FichaNumber    string `json:"ficha_number" yaml:"ficha_number"`
	DocumentNumber string `json:"document_number" yaml:"document_number"`
	Competency     string `json:"competency" yaml:"competency"`
	Result         string `json:"result" yaml:"result"`
	Judgment       string `json:"judgment" yaml:"judgment"`
}

// AttendanceRow keeps the embedded records field raw; decoding it is
// the attendance parser's job.
type AttendanceRow struct {
	Date        string
	FichaNumber string
	RecordedAt  string
	EvidenceURL string
	RecordsJSON string
}

// Decoder converts raw rows of one RowSets into typed rows.
type Decoder struct {
	Mode Mode
}

func NewDecoder(mode Mode) *Decoder {
	if mode == "" {
		mode = Lenient
	}
	return &Decoder{Mode: mode}
}

// fit pads or rejects a row. Cells are trimmed.
func (d *Decoder) fit(sheet string, index int, row []string, minWidth, width int, identity ...int) ([]string, error) {
	if blank(row) {
		return nil, &BlankRowError{Sheet: sheet, Index: index}
	}
	if d.Mode == Strict && len(row) < minWidth {
		return nil, &MalformedRowError{Sheet: sheet, Index: index, Want: minWidth, Got: len(row), Reason: "row too short"}
	}

	out := make([]string, width)
	for i := 0; i < width && i < len(row); i++ {
		out[i] = strings.TrimSpace(row[i])
	}

	if d.Mode == Strict {
		for _, col := range identity {
			if out[col] == "" {
				return nil, &MalformedRowError{Sheet: sheet, Index: index, Want: minWidth, Got: len(row), Reason: fmt.Sprintf("empty identity cell %d", col)}
			}
		}
	}
	return out, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Fichas decodes ficha rows. Errors for rejected rows are combined with
// multierr; decoded rows are always returned.
func (d *Decoder) Fichas(raw [][]string) ([]FichaRow, error) {
	var (
		rows []FichaRow
		errs error
	)
	for i, r := range raw {
		cells, err := d.fit(SheetFichas, i, r, fichaMinWidth, FichaWidth, colFichaNumber)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		rows = append(rows, FichaRow{
			Number:     cells[colFichaNumber],
			Program:    cells[colFichaProgram],
			Instructor: cells[colFichaInstructor],
			StartDate:  cells[colFichaStartDate],
			EndDate:    cells[colFichaEndDate],
		})
	}
	return rows, errs
}

func (d *Decoder) Apprentices(raw [][]string) ([]ApprenticeRow, error) {
	var (
		rows []ApprenticeRow
		errs error
	)
	for i, r := range raw {
		cells, err := d.fit(SheetApprentices, i, r, ApprenticeWidth, ApprenticeWidth, colApprenticeDocNumber, colApprenticeFicha)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		rows = append(rows, ApprenticeRow{
			DocumentType:   cells[colApprenticeDocType],
			DocumentNumber: cells[colApprenticeDocNumber],
			FullName:       cells[colApprenticeFullName],
			Status:         cells[colApprenticeStatus],
			FichaNumber:    cells[colApprenticeFicha],
		})
	}
	return rows, errs
}

func (d *Decoder) Evaluations(raw [][]string) ([]EvaluationRow, error) {
	var (
		rows []EvaluationRow
		errs error
	)
	for i, r := range raw {
		cells, err := d.fit(SheetEvaluations, i, r, EvaluationWidth, EvaluationWidth, colEvalDocNumber, colEvalCompetency)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		rows = append(rows, EvaluationRow{
			FichaNumber:    cells[colEvalFicha],
			DocumentNumber: cells[colEvalDocNumber],
			Competency:     cells[colEvalCompetency],
			Result:         cells[colEvalResult],
			Judgment:       cells[colEvalJudgment],
		})
	}
	return rows, errs
}

func (d *Decoder) Attendance(raw [][]string) ([]AttendanceRow, error) {
	var (
		rows []AttendanceRow
		errs error
	)
	for i, r := range raw {
		cells, err := d.fit(SheetAttendance, i, r, AttendanceWidth, AttendanceWidth, colAttDate, colAttFicha)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		rows = append(rows, AttendanceRow{
			Date:        cells[colAttDate],
			FichaNumber: cells[colAttFicha],
			RecordedAt:  cells[colAttRecordedAt],
			EvidenceURL: cells[colAttEvidence],
			RecordsJSON: cells[colAttRecords],
		})
	}
	return rows, errs
}

// Encoders used by the stores when appending rows.

func (r FichaRow) Cells(createdAt string) []string {
	cells := make([]string, FichaWidth)
	cells[colFichaNumber] = r.Number
	cells[colFichaProgram] = r.Program
	cells[colFichaInstructor] = r.Instructor
	cells[3] = createdAt
	cells[colFichaStartDate] = r.StartDate
	cells[colFichaEndDate] = r.EndDate
	return cells
}

func (r AttendanceRow) Cells() []string {
	cells := make([]string, AttendanceWidth)
	cells[colAttDate] = r.Date
	cells[colAttFicha] = r.FichaNumber
	cells[colAttRecordedAt] = r.RecordedAt
	cells[colAttEvidence] = r.EvidenceURL
	cells[colAttRecords] = r.RecordsJSON
	return cells
}
