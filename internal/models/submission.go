package models

type SubmissionStatus string

const (
	SubmissionDraft     SubmissionStatus = "DRAFT"
	SubmissionSubmitted SubmissionStatus = "SUBMITTED"
	SubmissionApproved  SubmissionStatus = "APPROVED"
)

type ChecklistGrade string

const (
	GradeMeets       ChecklistGrade = "CUMPLE"
	GradeDoesNotMeet ChecklistGrade = "NO_CUMPLE"
)

type GuideResponse struct {
	SectionID    string   `json:"section_id" yaml:"section_id" validate:"required"`
	TextResponse string   `json:"text_response" yaml:"text_response"`
	ImageURLs    []string `json:"image_urls" yaml:"image_urls"`
}

// GuideSubmission - работа ученика по одному документу (guide id)
type GuideSubmission struct {
	GuideID               string                    `json:"guide_id" yaml:"guide_id" validate:"required"`
	Responses             []GuideResponse           `json:"responses" yaml:"responses" validate:"dive"`
	Signature             string                    `json:"signature,omitempty" yaml:"signature,omitempty"`
	SignedAt              string                    `json:"signed_at,omitempty" yaml:"signed_at,omitempty"`
	Status                SubmissionStatus          `json:"status" yaml:"status" validate:"omitempty,oneof=DRAFT SUBMITTED APPROVED"`
	InstructorSignature   string                    `json:"instructor_signature,omitempty" yaml:"instructor_signature,omitempty"`
	InstructorSignedAt    string                    `json:"instructor_signed_at,omitempty" yaml:"instructor_signed_at,omitempty"`
	ChecklistGrades       map[string]ChecklistGrade `json:"checklist_grades,omitempty" yaml:"checklist_grades,omitempty" validate:"omitempty,dive,oneof=CUMPLE NO_CUMPLE"`
	ChecklistObservations map[string]string         `json:"checklist_observations,omitempty" yaml:"checklist_observations,omitempty"`
	ChecklistResult       ChecklistGrade            `json:"checklist_result,omitempty" yaml:"checklist_result,omitempty" validate:"omitempty,oneof=CUMPLE NO_CUMPLE"`
}
