package bot

import (
	"fmt"
	"sort"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"sena-tracker/internal/models"
)

const (
	btnFichas         = "📋 Fichas"
	btnSync           = "🔄 Sincronizar"
	btnLogout         = "🚪 Cerrar sesión"
	btnMyProgress     = "📊 Mi progreso"
	btnMyCompetencies = "🎓 Mis competencias"
	btnMyAttendance   = "🗓 Mi asistencia"
	btnToggle         = "👁 Cambiar visibilidad"
	btnBack           = "◀️ Volver"
	btnCancel         = "❌ Cancelar"
)

func createMainKeyboard(role models.Role) tgbotapi.ReplyKeyboardMarkup {
	switch role {
	case models.RoleInstructor:
		return tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(btnFichas),
				tgbotapi.NewKeyboardButton(btnSync),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(btnLogout),
			),
		)
	case models.RoleCoordinator:
		return tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(btnFichas),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(btnLogout),
			),
		)
	}
	return createApprenticeKeyboard()
}

func createApprenticeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnMyProgress),
			tgbotapi.NewKeyboardButton(btnMyCompetencies),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnMyAttendance),
			tgbotapi.NewKeyboardButton(btnLogout),
		),
	)
}

func fichaLabel(f models.Ficha) string {
	label := fmt.Sprintf("%s · %s", f.Number, f.Program)
	if !f.Visible {
		label += " (oculta)"
	}
	return label
}

// createFichasKeyboard returns the keyboard and the label -> ficha id map.
func createFichasKeyboard(fichas []models.Ficha) (tgbotapi.ReplyKeyboardMarkup, map[string]string) {
	options := make(map[string]string, len(fichas))
	var rows [][]tgbotapi.KeyboardButton

	for _, f := range fichas {
		label := fichaLabel(f)
		options[label] = f.ID
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(label)))
	}

	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)))
	return tgbotapi.NewReplyKeyboard(rows...), options
}

// createApprenticesKeyboard - ученики по алфавиту; instructors also get the visibility toggle.
func createApprenticesKeyboard(apprentices []models.Apprentice, role models.Role) (tgbotapi.ReplyKeyboardMarkup, map[string]string) {
	sorted := append([]models.Apprentice{}, apprentices...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].FullName < sorted[j].FullName })

	options := make(map[string]string, len(sorted))
	var rows [][]tgbotapi.KeyboardButton
	for _, a := range sorted {
		label := fmt.Sprintf("👤 %s (%s)", a.FullName, a.DocumentNumber)
		options[label] = a.DocumentNumber
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(label)))
	}

	if role == models.RoleInstructor {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnToggle)))
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBack)))
	return tgbotapi.NewReplyKeyboard(rows...), options
}
