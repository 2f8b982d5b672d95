// Package state holds the in-memory ficha graph. A Snapshot is never
// modified after it is published; every change builds a new one.
package state

import (
	"time"

	"github.com/pkg/errors"

	"sena-tracker/internal/models"
	"sena-tracker/internal/sheet"
)

var (
	ErrFichaNotFound      = errors.New("ficha not found")
	ErrFichaExists        = errors.New("ficha already exists")
	ErrApprenticeNotFound = errors.New("apprentice not found")
)

// Source tells where the fichas of a snapshot came from.
type Source string

const (
	SourceFixture Source = "fixture"
	SourceStore   Source = "store"
)

type Snapshot struct {
	Fichas        []models.Ficha        `json:"fichas" yaml:"fichas"`
	Evaluations   []sheet.EvaluationRow `json:"evaluations" yaml:"evaluations"`
	Announcements []models.Announcement `json:"announcements" yaml:"announcements"`
	Source        Source                `json:"source" yaml:"source"`
	LoadedAt      time.Time             `json:"loaded_at" yaml:"loaded_at"`
}

func (s Snapshot) fichaIndex(id string) int {
	for i, f := range s.Fichas {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// Ficha returns the ficha with the given id.
func (s Snapshot) Ficha(id string) (models.Ficha, bool) {
	if i := s.fichaIndex(id); i >= 0 {
		return s.Fichas[i], true
	}
	return models.Ficha{}, false
}

// VisibleFichas is the coordinator view.
func (s Snapshot) VisibleFichas() []models.Ficha {
	out := make([]models.Ficha, 0, len(s.Fichas))
	for _, f := range s.Fichas {
		if f.Visible {
			out = append(out, f)
		}
	}
	return out
}

// FindApprentice searches every ficha in order; the first match wins.
func (s Snapshot) FindApprentice(documentNumber string) (models.Apprentice, models.Ficha, bool) {
	for _, f := range s.Fichas {
		if a, ok := f.FindApprentice(documentNumber); ok {
			return a, f, true
		}
	}
	return models.Apprentice{}, models.Ficha{}, false
}

// withFicha returns a copy of s where the ficha at index i is replaced
// by a modified clone.
func (s Snapshot) withFicha(i int, modify func(f *models.Ficha)) Snapshot {
	fichas := append([]models.Ficha{}, s.Fichas...)
	f := fichas[i].Clone()
	modify(&f)
	fichas[i] = f
	s.Fichas = fichas
	return s
}
