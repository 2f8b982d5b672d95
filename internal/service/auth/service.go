package auth_service

import (
	"go.uber.org/zap"

	"sena-tracker/internal/models"
	"sena-tracker/internal/models/config"
	"sena-tracker/internal/service"
	"sena-tracker/internal/state"
)

type authService struct {
	creds config.AuthConfig
	store *state.Store
	log   *zap.Logger
}

func NewAuthService(creds config.AuthConfig, store *state.Store, log *zap.Logger) service.AuthService {
	return &authService{creds: creds, store: store, log: log.With(zap.String("component", "auth"))}
}

// Login: сначала статические роли, затем поиск ученика по номеру документа.
// Пароль ученика совпадает с номером документа.
func (s *authService) Login(username, password string) (models.Session, error) {
	switch {
	case username == s.creds.InstructorUser && password == s.creds.InstructorPassword:
		return models.Session{Role: models.RoleInstructor, Username: username}, nil
	case username == s.creds.CoordinatorUser && password == s.creds.CoordinatorPassword:
		return models.Session{Role: models.RoleCoordinator, Username: username}, nil
	}

	a, f, ok := s.store.Snapshot().FindApprentice(username)
	if ok && password == a.DocumentNumber {
		return models.Session{
			Role:       models.RoleApprentice,
			Username:   username,
			FichaID:    f.ID,
			Apprentice: &a,
		}, nil
	}

	s.log.Info("🚫 вход отклонён", zap.String("username", username))
	return models.Session{}, service.ErrInvalidCredentials
}
