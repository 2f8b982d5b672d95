package models

type AnnouncementType string

const (
	AnnouncementInfo  AnnouncementType = "INFO"
	AnnouncementAlert AnnouncementType = "ALERT"
)

type Announcement struct {
	ID          string           `json:"id" yaml:"id"`
	Title       string           `json:"title" yaml:"title"`
	Description string           `json:"description" yaml:"description"`
	Type        AnnouncementType `json:"type" yaml:"type"`
	Date        string           `json:"date" yaml:"date"`
}

// GuideSection - раздел стандартного листа ответов SENA
type GuideSection struct {
	ID             string           `json:"id" yaml:"id"`
	Title          string           `json:"title" yaml:"title"`
	Content        string           `json:"content" yaml:"content"`
	ImageURL       string           `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	IsActivity     bool             `json:"is_activity" yaml:"is_activity"`
	EvaluationGrid []EvaluationItem `json:"evaluation_grid,omitempty" yaml:"evaluation_grid,omitempty"`
}
