package state

import (
	"github.com/pkg/errors"

	"sena-tracker/internal/models"
	"sena-tracker/internal/reconcile"
)

// Transform builds the next snapshot from the current one. It must not
// modify its argument.
type Transform func(Snapshot) (Snapshot, error)

// AddFicha appends a new ficha. A ficha with the same number is rejected
// and the snapshot is left as it was.
func AddFicha(f models.Ficha) Transform {
	return func(s Snapshot) (Snapshot, error) {
		for _, existing := range s.Fichas {
			if existing.Number == f.Number {
				return s, errors.Wrapf(ErrFichaExists, "ficha %s", f.Number)
			}
		}
		s.Fichas = append(append([]models.Ficha{}, s.Fichas...), f.Clone())
		return s, nil
	}
}

// ToggleVisibility hides a visible ficha and shows a hidden one.
func ToggleVisibility(fichaID string) Transform {
	return func(s Snapshot) (Snapshot, error) {
		i := s.fichaIndex(fichaID)
		if i < 0 {
			return s, errors.Wrapf(ErrFichaNotFound, "ficha %s", fichaID)
		}
		return s.withFicha(i, func(f *models.Ficha) { f.Visible = !f.Visible }), nil
	}
}

func ReplaceApprentices(fichaID string, apprentices []models.Apprentice) Transform {
	return func(s Snapshot) (Snapshot, error) {
		i := s.fichaIndex(fichaID)
		if i < 0 {
			return s, errors.Wrapf(ErrFichaNotFound, "ficha %s", fichaID)
		}
		return s.withFicha(i, func(f *models.Ficha) {
			f.Apprentices = make([]models.Apprentice, len(apprentices))
			for j, a := range apprentices {
				f.Apprentices[j] = a.Clone()
			}
		}), nil
	}
}

// AddDocument puts the document first in the ficha's list.
func AddDocument(fichaID string, doc models.FichaDocument) Transform {
	return func(s Snapshot) (Snapshot, error) {
		i := s.fichaIndex(fichaID)
		if i < 0 {
			return s, errors.Wrapf(ErrFichaNotFound, "ficha %s", fichaID)
		}
		return s.withFicha(i, func(f *models.Ficha) {
			f.Documents = append([]models.FichaDocument{doc}, f.Documents...)
		}), nil
	}
}

// UpsertAttendance replaces the records of an existing date, keeping its
// evidence, or appends a new record without evidence.
func UpsertAttendance(fichaID, date string, records map[string]models.AttendanceStatus) Transform {
	return func(s Snapshot) (Snapshot, error) {
		i := s.fichaIndex(fichaID)
		if i < 0 {
			return s, errors.Wrapf(ErrFichaNotFound, "ficha %s", fichaID)
		}
		copied := make(map[string]models.AttendanceStatus, len(records))
		for k, v := range records {
			copied[k] = v
		}
		return s.withFicha(i, func(f *models.Ficha) {
			for j := range f.AttendanceHistory {
				if f.AttendanceHistory[j].Date == date {
					f.AttendanceHistory[j].Records = copied
					return
				}
			}
			f.AttendanceHistory = append(f.AttendanceHistory, models.AttendanceRecord{Date: date, Records: copied})
		}), nil
	}
}

// ConfirmEvidence sets the evidence URL returned by the store. A missing
// record is not an error: it may have been replaced by a reload.
func ConfirmEvidence(fichaID, date, evidenceURL string) Transform {
	evidenceURL = reconcile.NormalizeEvidenceURL(evidenceURL)
	return func(s Snapshot) (Snapshot, error) {
		i := s.fichaIndex(fichaID)
		if i < 0 || evidenceURL == "" {
			return s, nil
		}
		if _, ok := s.Fichas[i].AttendanceFor(date); !ok {
			return s, nil
		}
		return s.withFicha(i, func(f *models.Ficha) {
			for j := range f.AttendanceHistory {
				if f.AttendanceHistory[j].Date == date {
					f.AttendanceHistory[j].EvidenceURL = evidenceURL
				}
			}
		}), nil
	}
}

// SaveSubmission replaces the apprentice's submission for the same guide
// or appends a new one.
func SaveSubmission(documentNumber string, sub models.GuideSubmission) Transform {
	return func(s Snapshot) (Snapshot, error) {
		for i, f := range s.Fichas {
			for j, a := range f.Apprentices {
				if a.DocumentNumber != documentNumber {
					continue
				}
				return s.withFicha(i, func(f *models.Ficha) {
					app := &f.Apprentices[j]
					for k := range app.Submissions {
						if app.Submissions[k].GuideID == sub.GuideID {
							app.Submissions[k] = sub
							return
						}
					}
					app.Submissions = append(app.Submissions, sub)
				}), nil
			}
		}
		return s, errors.Wrapf(ErrApprenticeNotFound, "apprentice %s", documentNumber)
	}
}

// AddAnnouncement puts the announcement first.
func AddAnnouncement(a models.Announcement) Transform {
	return func(s Snapshot) (Snapshot, error) {
		s.Announcements = append([]models.Announcement{a}, s.Announcements...)
		return s, nil
	}
}

func DeleteAnnouncement(id string) Transform {
	return func(s Snapshot) (Snapshot, error) {
		out := make([]models.Announcement, 0, len(s.Announcements))
		for _, a := range s.Announcements {
			if a.ID != id {
				out = append(out, a)
			}
		}
		s.Announcements = out
		return s, nil
	}
}
