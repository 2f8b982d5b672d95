package bot

import (
	"fmt"
	"sort"
	"strings"

	"sena-tracker/internal/models"
	"sena-tracker/internal/service"
)

var attendanceIcons = map[models.AttendanceStatus]string{
	models.AttendancePresent: "✅",
	models.AttendanceAbsent:  "❌",
	models.AttendanceExcused: "📝",
}

func formatFichaSummary(f models.Ficha) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Ficha %s\n%s\n\n", f.Number, f.Program)
	if f.StartDate != "" || f.EndDate != "" {
		fmt.Fprintf(&sb, "🗓 %s → %s\n", f.StartDate, f.EndDate)
	}
	fmt.Fprintf(&sb, "👥 Aprendices: %d\n", len(f.Apprentices))
	fmt.Fprintf(&sb, "📎 Documentos: %d\n", len(f.Documents))
	fmt.Fprintf(&sb, "🗒 Días de asistencia: %d\n", len(f.AttendanceHistory))
	if !f.Visible {
		sb.WriteString("👁 Oculta para coordinación\n")
	}
	return sb.String()
}

func formatProgress(a models.Apprentice) string {
	return fmt.Sprintf("👤 %s\n🪪 %s %s\n📌 %s\n\n📊 Progreso: %d%% (%d de %d resultados aprobados)",
		a.FullName, a.DocumentType, a.DocumentNumber, a.Status,
		a.ProgressPercentage, a.ApprovedCompetencies, a.TotalCompetencies)
}

func formatCompetencies(comps []models.Competency) string {
	if len(comps) == 0 {
		return "🎓 Aún no hay juicios evaluativos registrados."
	}
	var sb strings.Builder
	sb.WriteString("🎓 Competencias\n")
	for _, c := range comps {
		fmt.Fprintf(&sb, "\n%s %s (%d/%d)\n", c.Number, c.Title, c.Approved(), len(c.Results))
		for _, r := range c.Results {
			icon := "⏳"
			if r.Status == models.ResultApproved {
				icon = "✅"
			}
			fmt.Fprintf(&sb, "  %s %s\n", icon, r.Code)
		}
	}
	return sb.String()
}

func formatDetail(d service.ApprenticeDetail) string {
	return fmt.Sprintf("📋 Ficha %s · %s\n\n%s\n\n%s",
		d.FichaNumber, d.Program, formatProgress(d.Apprentice), formatCompetencies(d.Competencies))
}

// formatAttendance - история посещений одного ученика, от новых к старым
func formatAttendance(f models.Ficha, apprenticeID string) string {
	history := append([]models.AttendanceRecord{}, f.AttendanceHistory...)
	sort.SliceStable(history, func(i, j int) bool { return history[i].Date > history[j].Date })

	var sb strings.Builder
	sb.WriteString("🗓 Mi asistencia\n\n")
	marked := 0
	for _, rec := range history {
		status, ok := rec.Records[apprenticeID]
		if !ok {
			continue
		}
		marked++
		fmt.Fprintf(&sb, "%s %s\n", attendanceIcons[status], rec.Date)
	}
	if marked == 0 {
		return "🗓 No hay asistencia registrada."
	}
	return sb.String()
}
