// Package xlsx keeps the four sheets in a local workbook. Legacy .xls
// workbooks can be loaded but not written.
package xlsx

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/extrame/xls"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"sena-tracker/internal/repository"
	"sena-tracker/internal/repository/evidence"
	"sena-tracker/internal/sheet"
)

var ErrReadOnly = errors.New("legacy .xls workbooks are read-only")

// Заголовки листов; первая строка каждого листа пропускается при чтении
var headers = map[string][]string{
	sheet.SheetFichas:      {"Número", "Programa", "Instructor", "Creada", "", "Inicio", "Fin"},
	sheet.SheetApprentices: {"Tipo Doc", "Documento", "Nombres", "Apellidos", "Nombre completo", "Estado", "Ficha"},
	sheet.SheetEvaluations: {"Ficha", "Documento", "Competencia", "Resultado", "Juicio"},
	sheet.SheetAttendance:  {"Fecha", "Ficha", "Registrado", "Evidencia", "Registros"},
}

var sheetOrder = []string{sheet.SheetFichas, sheet.SheetApprentices, sheet.SheetEvaluations, sheet.SheetAttendance}

type Options struct {
	Path            string
	EvidenceDir     string
	EvidenceBaseURL string
}

type workbookRepository struct {
	opts     Options
	evidence evidence.Store
	log      *zap.Logger
	now      func() time.Time

	mu sync.Mutex
}

func NewWorkbookRepository(opts Options, log *zap.Logger) repository.SheetRepository {
	return &workbookRepository{
		opts:     opts,
		evidence: evidence.Store{Dir: opts.EvidenceDir, BaseURL: opts.EvidenceBaseURL},
		log:      log.With(zap.String("component", "xlsx"), zap.String("path", opts.Path)),
		now:      time.Now,
	}
}

func (r *workbookRepository) legacy() bool {
	return strings.EqualFold(filepath.Ext(r.opts.Path), ".xls")
}

func (r *workbookRepository) Load(ctx context.Context) (sheet.RowSets, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		bySheet map[string][][]string
		err     error
	)
	if r.legacy() {
		bySheet, err = readLegacy(r.opts.Path)
	} else {
		bySheet, err = readWorkbook(r.opts.Path)
	}
	if err != nil {
		return sheet.RowSets{}, err
	}

	return sheet.RowSets{
		Fichas:      readRows(bySheet, sheet.SheetFichas),
		Apprentices: readRows(bySheet, sheet.SheetApprentices),
		Evaluations: readRows(bySheet, sheet.SheetEvaluations),
		Attendance:  readRows(bySheet, sheet.SheetAttendance),
	}, nil
}

// readRows drops the header and pads every row to the header width:
// both readers cut trailing empty cells.
func readRows(bySheet map[string][][]string, name string) [][]string {
	rows := dropHeader(bySheet[name])
	width := len(headers[name])
	for i, r := range rows {
		if len(r) < width {
			padded := make([]string, width)
			copy(padded, r)
			rows[i] = padded
		}
	}
	return rows
}

func dropHeader(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return [][]string{}
	}
	return rows[1:]
}

func readWorkbook(path string) (map[string][][]string, error) {
	f, err := excelize.OpenFile(path)
	if os.IsNotExist(errors.Cause(err)) {
		return map[string][][]string{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	out := make(map[string][][]string, len(sheetOrder))
	for _, name := range f.GetSheetList() {
		if _, known := headers[name]; !known {
			continue
		}
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, errors.Wrapf(err, "read sheet %s", name)
		}
		out[name] = rows
	}
	return out, nil
}

func readLegacy(path string) (map[string][][]string, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	out := make(map[string][][]string, len(sheetOrder))
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		if _, known := headers[ws.Name]; !known {
			continue
		}
		var rows [][]string
		for n := 0; n <= int(ws.MaxRow); n++ {
			row := ws.Row(n)
			if row == nil {
				rows = append(rows, []string{})
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}
		out[ws.Name] = rows
	}
	return out, nil
}

// openForWrite opens the workbook, creating it and any missing sheet.
func (r *workbookRepository) openForWrite() (*excelize.File, error) {
	if r.legacy() {
		return nil, ErrReadOnly
	}

	var f *excelize.File
	if _, err := os.Stat(r.opts.Path); err == nil {
		f, err = excelize.OpenFile(r.opts.Path)
		if err != nil {
			return nil, errors.Wrapf(err, "open %s", r.opts.Path)
		}
	} else {
		f = excelize.NewFile()
		if err := f.SetSheetName(f.GetSheetName(0), sheet.SheetFichas); err != nil {
			_ = f.Close()
			return nil, errors.Wrap(err, "rename default sheet")
		}
	}

	for _, name := range sheetOrder {
		idx, err := f.GetSheetIndex(name)
		if err != nil {
			_ = f.Close()
			return nil, errors.Wrapf(err, "sheet %s", name)
		}
		if idx == -1 {
			if _, err := f.NewSheet(name); err != nil {
				_ = f.Close()
				return nil, errors.Wrapf(err, "create sheet %s", name)
			}
		}
		rows, err := f.GetRows(name)
		if err != nil {
			_ = f.Close()
			return nil, errors.Wrapf(err, "read sheet %s", name)
		}
		if len(rows) == 0 {
			if err := setRow(f, name, 1, headers[name]); err != nil {
				_ = f.Close()
				return nil, err
			}
		}
	}
	return f, nil
}

func setRow(f *excelize.File, sheetName string, rowNumber int, cells []string) error {
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return errors.Wrap(err, "cell name")
	}
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return errors.Wrapf(err, "write %s row %d", sheetName, rowNumber)
	}
	return nil
}

func (r *workbookRepository) save(f *excelize.File) error {
	if dir := filepath.Dir(r.opts.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}
	if err := f.SaveAs(r.opts.Path); err != nil {
		return errors.Wrapf(err, "save %s", r.opts.Path)
	}
	return nil
}

func (r *workbookRepository) CreateFicha(ctx context.Context, ficha repository.NewFicha) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := r.openForWrite()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheet.SheetFichas)
	if err != nil {
		return errors.Wrap(err, "read fichas")
	}
	for i := 1; i < len(rows); i++ {
		if row := rows[i]; len(row) > 0 && strings.TrimSpace(row[0]) == ficha.Number {
			return &repository.RemoteError{Action: repository.ActionCreateFicha, Status: "error", Message: "La ficha ya existe"}
		}
	}

	cells := sheet.FichaRow{
		Number:     ficha.Number,
		Program:    ficha.Program,
		Instructor: ficha.Instructor,
	}.Cells(r.now().Format(time.RFC3339))
	if err := setRow(f, sheet.SheetFichas, len(rows)+1, cells); err != nil {
		return err
	}
	if err := r.save(f); err != nil {
		return err
	}

	r.log.Info("📗 группа записана в книгу", zap.String("ficha", ficha.Number))
	return nil
}

func (r *workbookRepository) SaveAttendance(ctx context.Context, save repository.AttendanceSave) (repository.SaveResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := r.openForWrite()
	if err != nil {
		return repository.SaveResult{}, err
	}
	defer func() { _ = f.Close() }()

	records, err := json.Marshal(save.Records)
	if err != nil {
		return repository.SaveResult{}, errors.Wrap(err, "marshal records")
	}

	evidenceURL := ""
	if save.PDFBase64 != "" {
		evidenceURL, err = r.evidence.Write(save.FichaID, save.Date, save.PDFBase64)
		if err != nil {
			return repository.SaveResult{}, err
		}
	}

	rows, err := f.GetRows(sheet.SheetAttendance)
	if err != nil {
		return repository.SaveResult{}, errors.Wrap(err, "read asistencia")
	}

	rowNumber := len(rows) + 1
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 2 {
			continue
		}
		if sameDate(row[0], save.Date) && strings.TrimSpace(row[1]) == save.FichaID {
			rowNumber = i + 1
			if evidenceURL == "" && len(row) > 3 {
				evidenceURL = row[3]
			}
			break
		}
	}

	cells := sheet.AttendanceRow{
		Date:        save.Date,
		FichaNumber: save.FichaID,
		RecordedAt:  r.now().Format(time.RFC3339),
		EvidenceURL: evidenceURL,
		RecordsJSON: string(records),
	}.Cells()
	if err := setRow(f, sheet.SheetAttendance, rowNumber, cells); err != nil {
		return repository.SaveResult{}, err
	}
	if err := r.save(f); err != nil {
		return repository.SaveResult{}, err
	}

	r.log.Info("📗 посещаемость записана в книгу",
		zap.String("ficha", save.FichaID),
		zap.String("date", save.Date),
		zap.Bool("evidence", evidenceURL != ""),
	)
	return repository.SaveResult{EvidenceURL: evidenceURL}, nil
}

func sameDate(cell, date string) bool {
	cell = strings.TrimPrefix(strings.TrimSpace(cell), "'")
	return strings.HasPrefix(cell, date) && len(date) > 0
}
