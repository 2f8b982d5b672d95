package announcement_service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"sena-tracker/internal/models"
	"sena-tracker/internal/service"
	"sena-tracker/internal/state"
)

type announcementService struct {
	store *state.Store
	now   func() time.Time
}

func NewAnnouncementService(store *state.Store) service.AnnouncementService {
	return &announcementService{store: store, now: time.Now}
}

func (s *announcementService) List() []models.Announcement {
	return s.store.Snapshot().Announcements
}

func (s *announcementService) Add(title, description string, kind models.AnnouncementType) (models.Announcement, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Announcement{}, errors.Wrap(service.ErrInvalidInput, "title is required")
	}
	if kind == "" {
		kind = models.AnnouncementInfo
	}
	if kind != models.AnnouncementInfo && kind != models.AnnouncementAlert {
		return models.Announcement{}, errors.Wrapf(service.ErrInvalidInput, "announcement type %q", kind)
	}

	a := models.Announcement{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(description),
		Type:        kind,
		Date:        s.now().Format("2006-01-02"),
	}
	if _, err := s.store.Update(state.AddAnnouncement(a)); err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

func (s *announcementService) Delete(id string) {
	_, _ = s.store.Update(state.DeleteAnnouncement(id))
}
