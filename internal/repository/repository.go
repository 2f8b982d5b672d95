package repository

import (
	"context"
	"fmt"

	"sena-tracker/internal/models"
	"sena-tracker/internal/sheet"
)

// Действия, которые понимает хранилище таблицы
const (
	ActionGetData        = "getData"
	ActionCreateFicha    = "createFicha"
	ActionSaveAttendance = "saveAttendance"
)

// SheetRepository - внешнее хранилище четырёх листов.
// Реализации: appscript (удалённый скрипт), xlsx (локальная книга),
// postgres (зеркало в БД), memory (тесты и демо).
type SheetRepository interface {
	// Load возвращает все строки четырёх листов
	Load(ctx context.Context) (sheet.RowSets, error)
	CreateFicha(ctx context.Context, ficha NewFicha) error
	SaveAttendance(ctx context.Context, save AttendanceSave) (SaveResult, error)
}

type NewFicha struct {
	Number     string `json:"number"`
	Program    string `json:"program"`
	Instructor string `json:"instructor"`
}

type AttendanceSave struct {
	Date      string                             `json:"date"`
	FichaID   string                             `json:"fichaId"`
	Records   map[string]models.AttendanceStatus `json:"records"`
	PDFBase64 string                             `json:"pdfBase64,omitempty"`
}

type SaveResult struct {
	EvidenceURL string
}

// RemoteError - хранилище ответило, но статус не success
type RemoteError struct {
	Action  string
	Status  string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: store answered %q", e.Action, e.Status)
	}
	return fmt.Sprintf("%s: store answered %q: %s", e.Action, e.Status, e.Message)
}
