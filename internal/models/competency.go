package models

type ResultStatus string

const (
	ResultApproved ResultStatus = "APROBADO"
	ResultPending  ResultStatus = "POR EVALUAR"
)

type CompetencyResult struct {
	ID          string       `json:"id" yaml:"id"`
	Code        string       `json:"code" yaml:"code"`
	Description string       `json:"description" yaml:"description"`
	Status      ResultStatus `json:"status" yaml:"status"`
}

type Competency struct {
	ID           string             `json:"id" yaml:"id"`
	Number       string             `json:"number" yaml:"number"`
	Title        string             `json:"title" yaml:"title"`
	ResultsCount int                `json:"results_count" yaml:"results_count"`
	Results      []CompetencyResult `json:"results" yaml:"results"`
	IsLocked     bool               `json:"is_locked,omitempty" yaml:"is_locked,omitempty"`
}

// Approved возвращает количество утвержденных RAP
func (c Competency) Approved() int {
	n := 0
	for _, r := range c.Results {
		if r.Status == ResultApproved {
			n++
		}
	}
	return n
}
