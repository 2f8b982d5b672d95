package models

import "strings"

type ApprenticeStatus string

const (
	StatusInTraining ApprenticeStatus = "En formación"
	StatusWithdrawn  ApprenticeStatus = "Retirado"
	StatusCertified  ApprenticeStatus = "Certificado"
)

// ParseApprenticeStatus maps a sheet cell onto a known status.
// Empty cells mean the apprentice is still in training; unknown
// values are kept as-is.
func ParseApprenticeStatus(raw string) ApprenticeStatus {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StatusInTraining
	}
	for _, s := range []ApprenticeStatus{StatusInTraining, StatusWithdrawn, StatusCertified} {
		if strings.EqualFold(raw, string(s)) {
			return s
		}
	}
	return ApprenticeStatus(raw)
}

func (s ApprenticeStatus) Valid() bool {
	switch s {
	case StatusInTraining, StatusWithdrawn, StatusCertified:
		return true
	default:
		return false
	}
}

type Apprentice struct {
	ID                   string            `json:"id" yaml:"id"`
	DocumentType         string            `json:"document_type" yaml:"document_type"`
	DocumentNumber       string            `json:"document_number" yaml:"document_number"`
	ExpeditionCity       string            `json:"expedition_city" yaml:"expedition_city"`
	FullName             string            `json:"full_name" yaml:"full_name"`
	Initials             string            `json:"initials" yaml:"initials"`
	Status               ApprenticeStatus  `json:"status" yaml:"status"`
	ApprovedCompetencies int               `json:"approved_competencies" yaml:"approved_competencies"`
	TotalCompetencies    int               `json:"total_competencies" yaml:"total_competencies"`
	ProgressPercentage   int               `json:"progress_percentage" yaml:"progress_percentage"`
	PhotoURL             string            `json:"photo_url,omitempty" yaml:"photo_url,omitempty"`
	Submissions          []GuideSubmission `json:"submissions,omitempty" yaml:"submissions,omitempty"`
}

func (a Apprentice) Clone() Apprentice {
	out := a
	if a.Submissions != nil {
		out.Submissions = append([]GuideSubmission{}, a.Submissions...)
	}
	return out
}

// Initials takes the first letter of the first two non-empty name tokens.
func Initials(fullName string) string {
	var b strings.Builder
	n := 0
	for _, token := range strings.Split(fullName, " ") {
		if token == "" {
			continue
		}
		r := []rune(token)
		b.WriteString(strings.ToUpper(string(r[0])))
		n++
		if n == 2 {
			break
		}
	}
	return b.String()
}
