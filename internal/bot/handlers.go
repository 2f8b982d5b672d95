package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"go.uber.org/zap"

	"sena-tracker/internal/models"
	"sena-tracker/internal/service"
)

const syncTimeout = 2 * time.Minute

// Обработка сообщения здесь
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	// Проверяем состояние пользователя ПРЕЖДЕ обработки команд
	session := b.getOrCreateSession(chatID)
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.State != StateAwaitingPassword {
		b.log.Debug("сообщение", zap.Int64("chat", chatID), zap.String("text", text))
	}

	switch session.State {
	case StateAwaitingUsername:
		b.handleUsername(chatID, session, text)
		return
	case StateAwaitingPassword:
		b.handlePassword(chatID, session, text)
		return
	}

	if !session.loggedIn() || text == "/start" {
		b.askUsername(chatID, session)
		return
	}

	if text == btnLogout || text == "/logout" {
		b.clearSession(chatID)
		msg := tgbotapi.NewMessage(chatID, "👋 Sesión cerrada. Escriba /start para ingresar de nuevo.")
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		b.send(msg)
		return
	}

	switch session.State {
	case StateSelectingFicha:
		b.handleFichaSelection(chatID, session, text)
		return
	case StateSelectingApprentice:
		b.handleApprenticeSelection(chatID, session, text)
		return
	}

	switch text {
	case btnFichas:
		b.showFichas(chatID, session)
	case btnSync:
		b.handleSync(chatID, session)
	case btnMyProgress:
		b.showMyProgress(chatID, session)
	case btnMyCompetencies:
		b.showMyCompetencies(chatID, session)
	case btnMyAttendance:
		b.showMyAttendance(chatID, session)
	default:
		b.sendWelcomeMessage(chatID, session)
	}
}

func (b *Bot) askUsername(chatID int64, session *UserSession) {
	session.Session = nil
	session.resetNavigation()
	session.State = StateAwaitingUsername

	msg := tgbotapi.NewMessage(chatID, "🎓 Seguimiento SENA\n\nIngrese su usuario o número de documento:")
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	b.send(msg)
}

func (b *Bot) handleUsername(chatID int64, session *UserSession, text string) {
	if text == "" || strings.HasPrefix(text, "/") {
		b.sendMessage(chatID, "Ingrese su usuario o número de documento:")
		return
	}
	session.PendingUsername = text
	session.State = StateAwaitingPassword
	b.sendMessage(chatID, "🔑 Ingrese su contraseña:")
}

func (b *Bot) handlePassword(chatID int64, session *UserSession, text string) {
	username := session.PendingUsername
	session.PendingUsername = ""

	s, err := b.AuthService.Login(username, text)
	if err != nil {
		session.State = StateAwaitingUsername
		b.sendError(chatID, "❌ "+err.Error()+"\n\nIngrese su usuario:")
		return
	}

	session.Session = &s
	session.resetNavigation()
	b.log.Info("вход выполнен", zap.Int64("chat", chatID), zap.String("role", string(s.Role)))
	b.sendWelcomeMessage(chatID, session)
}

func (b *Bot) sendWelcomeMessage(chatID int64, session *UserSession) {
	var text string
	switch session.role() {
	case models.RoleInstructor:
		text = "👩‍🏫 Bienvenido, instructor.\n\nSeleccione una opción:"
	case models.RoleCoordinator:
		text = "🗂 Bienvenido, coordinación.\n\nSeleccione una opción:"
	default:
		name := ""
		if session.Session.Apprentice != nil {
			name = session.Session.Apprentice.FullName
		}
		text = fmt.Sprintf("🎓 Hola, %s.\n\nSeleccione una opción:", name)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createMainKeyboard(session.role())
	b.send(msg)
}

func (b *Bot) showFichas(chatID int64, session *UserSession) {
	if !session.Session.CanManage() {
		b.sendError(chatID, "❌ Esta opción es solo para instructores y coordinación")
		return
	}

	fichas := b.FichaService.List(session.role())
	if len(fichas) == 0 {
		b.sendMessage(chatID, "📝 No hay fichas registradas")
		return
	}

	keyboard, options := createFichasKeyboard(fichas)
	session.FichaOptions = options
	session.State = StateSelectingFicha

	msg := tgbotapi.NewMessage(chatID, "📋 Seleccione una ficha:")
	msg.ReplyMarkup = keyboard
	b.send(msg)
}

func (b *Bot) handleFichaSelection(chatID int64, session *UserSession, text string) {
	if text == btnCancel || text == btnBack {
		session.resetNavigation()
		b.sendWelcomeMessage(chatID, session)
		return
	}

	id, ok := session.FichaOptions[text]
	if !ok {
		b.sendMessage(chatID, "Seleccione una ficha del teclado.")
		return
	}
	b.openFicha(chatID, session, id)
}

func (b *Bot) openFicha(chatID int64, session *UserSession, id string) {
	f, err := b.FichaService.Get(id)
	if err != nil {
		session.resetNavigation()
		b.sendError(chatID, "❌ La ficha ya no existe")
		return
	}

	keyboard, options := createApprenticesKeyboard(f.Apprentices, session.role())
	session.SelectedFichaID = f.ID
	session.ApprenticeOptions = options
	session.State = StateSelectingApprentice

	msg := tgbotapi.NewMessage(chatID, formatFichaSummary(f)+"\nSeleccione un aprendiz:")
	msg.ReplyMarkup = keyboard
	b.send(msg)
}

func (b *Bot) handleApprenticeSelection(chatID int64, session *UserSession, text string) {
	switch text {
	case btnBack, btnCancel:
		session.resetNavigation()
		b.sendWelcomeMessage(chatID, session)
		return
	case btnToggle:
		if session.role() != models.RoleInstructor {
			b.sendError(chatID, "❌ Solo el instructor puede cambiar la visibilidad")
			return
		}
		f, err := b.FichaService.ToggleVisibility(session.SelectedFichaID)
		if err != nil {
			b.sendError(chatID, "❌ "+err.Error())
			return
		}
		state := "visible"
		if !f.Visible {
			state = "oculta"
		}
		b.sendMessage(chatID, fmt.Sprintf("👁 La ficha %s ahora está %s para coordinación.", f.Number, state))
		return
	}

	doc, ok := session.ApprenticeOptions[text]
	if !ok {
		b.sendMessage(chatID, "Seleccione un aprendiz del teclado.")
		return
	}

	detail, err := b.ApprenticeService.Inspect(doc)
	if err != nil {
		b.sendError(chatID, "❌ Aprendiz no encontrado")
		return
	}
	b.sendMessage(chatID, formatDetail(detail))
}

func (b *Bot) handleSync(chatID int64, session *UserSession) {
	if session.role() != models.RoleInstructor {
		b.sendError(chatID, "❌ Solo el instructor puede sincronizar")
		return
	}

	b.sendMessage(chatID, "🔄 Sincronizando con la hoja de cálculo...")

	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	report, err := b.LoaderService.Load(ctx)
	if err != nil {
		b.sendError(chatID, "⚠️ No se pudo sincronizar. Se conservan los datos actuales.")
		return
	}

	text := fmt.Sprintf("✅ Sincronizado\n\n📋 Fichas: %d\n👥 Aprendices: %d\n📝 Evaluaciones: %d\n🗓 Días de asistencia: %d",
		report.Fichas, report.Apprentices, report.Evaluations, report.AttendanceRecords)
	if n := report.SkippedTotal(); n > 0 {
		text += fmt.Sprintf("\n⚠️ Filas omitidas: %d", n)
	}
	if len(report.DroppedApprentices) > 0 {
		text += fmt.Sprintf("\n⚠️ Aprendices sin ficha: %d", len(report.DroppedApprentices))
	}
	if report.UsedFallback {
		text += "\nℹ️ La hoja no tiene fichas; se muestran los datos de ejemplo."
	}
	b.sendMessage(chatID, text)
}

// myDetail возвращает актуальные данные ученика текущей сессии
func (b *Bot) myDetail(chatID int64, session *UserSession) (service.ApprenticeDetail, bool) {
	if session.role() != models.RoleApprentice || session.Session.Apprentice == nil {
		b.sendError(chatID, "❌ Esta opción es solo para aprendices")
		return service.ApprenticeDetail{}, false
	}

	detail, err := b.ApprenticeService.Inspect(session.Session.Apprentice.DocumentNumber)
	if err != nil {
		b.sendError(chatID, "❌ No encontramos su registro. Consulte con su instructor.")
		return service.ApprenticeDetail{}, false
	}
	return detail, true
}

func (b *Bot) showMyProgress(chatID int64, session *UserSession) {
	if d, ok := b.myDetail(chatID, session); ok {
		b.sendMessage(chatID, formatProgress(d.Apprentice))
	}
}

func (b *Bot) showMyCompetencies(chatID int64, session *UserSession) {
	if d, ok := b.myDetail(chatID, session); ok {
		b.sendMessage(chatID, formatCompetencies(d.Competencies))
	}
}

func (b *Bot) showMyAttendance(chatID int64, session *UserSession) {
	d, ok := b.myDetail(chatID, session)
	if !ok {
		return
	}
	f, err := b.FichaService.Get(d.FichaID)
	if err != nil {
		b.sendError(chatID, "❌ La ficha ya no existe")
		return
	}
	b.sendMessage(chatID, formatAttendance(f, d.Apprentice.ID))
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.out.Send(msg); err != nil {
		b.log.Warn("не удалось отправить сообщение", zap.Error(err))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendError(chatID int64, text string) {
	b.sendMessage(chatID, text)
}
