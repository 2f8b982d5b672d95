package service

import (
	"context"

	"github.com/pkg/errors"

	"sena-tracker/internal/models"
	"sena-tracker/internal/reconcile"
	"sena-tracker/internal/state"
)

var (
	ErrInvalidCredentials = errors.New("Credenciales inválidas. Verifique su usuario y contraseña.")
	ErrInvalidInput       = errors.New("invalid input")
)

// LoaderService загружает таблицу и публикует новый снимок
type LoaderService interface {
	// Load keeps the current snapshot when the store fails.
	Load(ctx context.Context) (reconcile.Report, error)
	Snapshot() state.Snapshot
}

type FichaService interface {
	// List returns every ficha for instructors, visible ones otherwise.
	List(role models.Role) []models.Ficha
	Get(id string) (models.Ficha, error)
	// Create adds the ficha locally first; a store failure is returned
	// but the local ficha stays.
	Create(ctx context.Context, number, program, instructor string) (models.Ficha, error)
	ToggleVisibility(id string) (models.Ficha, error)
	ReplaceApprentices(id string, apprentices []models.Apprentice) (models.Ficha, error)
	AddDocument(id string, doc models.FichaDocument) (models.FichaDocument, error)
}

type AttendanceService interface {
	// Save upserts the day locally, then mirrors it to the store.
	Save(ctx context.Context, fichaID, date string, records map[string]models.AttendanceStatus, pdfBase64 string) (models.AttendanceRecord, error)
}

type AuthService interface {
	Login(username, password string) (models.Session, error)
}

// ApprenticeDetail - ученик вместе с группой и деревом компетенций
type ApprenticeDetail struct {
	Apprentice   models.Apprentice   `json:"apprentice"`
	FichaID      string              `json:"ficha_id"`
	FichaNumber  string              `json:"ficha_number"`
	Program      string              `json:"program"`
	Competencies []models.Competency `json:"competencies"`
}

type ApprenticeService interface {
	Inspect(documentNumber string) (ApprenticeDetail, error)
	Competencies(documentNumber string) ([]models.Competency, error)
	SaveSubmission(documentNumber string, sub models.GuideSubmission) (models.GuideSubmission, error)
	GuideStructure() []models.GuideSection
}

type AnnouncementService interface {
	List() []models.Announcement
	Add(title, description string, kind models.AnnouncementType) (models.Announcement, error)
	Delete(id string)
}
