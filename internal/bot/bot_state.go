package bot

import (
	"sync"

	"sena-tracker/internal/models"
)

type BotState int

const (
	StateDefault BotState = iota

	// Вход: сначала пользователь, затем пароль
	StateAwaitingUsername
	StateAwaitingPassword

	StateSelectingFicha
	StateSelectingApprentice
)

type UserSession struct {
	// mu держится на всё время обработки сообщения чата
	mu sync.Mutex

	State BotState
	// PendingUsername is kept between the two login steps.
	PendingUsername string
	Session         *models.Session

	SelectedFichaID string
	// Подпись кнопки -> id группы или номер документа
	FichaOptions      map[string]string
	ApprenticeOptions map[string]string
}

func (s *UserSession) loggedIn() bool {
	return s.Session != nil
}

func (s *UserSession) role() models.Role {
	if s.Session == nil {
		return ""
	}
	return s.Session.Role
}

// resetNavigation returns to the main menu and keeps the login.
func (s *UserSession) resetNavigation() {
	s.State = StateDefault
	s.SelectedFichaID = ""
	s.FichaOptions = nil
	s.ApprenticeOptions = nil
}

func (b *Bot) getOrCreateSession(chatID int64) *UserSession {
	b.mu.Lock()
	defer b.mu.Unlock()

	session, ok := b.userSessions[chatID]
	if !ok {
		session = &UserSession{State: StateDefault}
		b.userSessions[chatID] = session
	}
	return session
}

func (b *Bot) clearSession(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.userSessions, chatID)
}
