package models

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

type DocumentType string

const (
	DocumentGuide     DocumentType = "GUIA"
	DocumentPlan      DocumentType = "PTC"
	DocumentChecklist DocumentType = "LDC"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentGuide, DocumentPlan, DocumentChecklist:
		return true
	default:
		return false
	}
}

// DocumentContent is the structured payload of a document. Exactly one
// implementation exists per DocumentType.
type DocumentContent interface {
	DocumentType() DocumentType
}

// Guide (GUIA)

type EvaluationItem struct {
	ID         string `json:"id" yaml:"id"`
	Evidence   string `json:"evidence" yaml:"evidence"`
	Criteria   string `json:"criteria" yaml:"criteria"`
	Technique  string `json:"technique" yaml:"technique"`
	Instrument string `json:"instrument" yaml:"instrument"`
}

type GuideContent struct {
	Reflection        string           `json:"reflection" yaml:"reflection"`
	ReflectionImage   string           `json:"reflection_image,omitempty" yaml:"reflection_image,omitempty"`
	Contextualization string           `json:"contextualization" yaml:"contextualization"`
	Appropriation     string           `json:"appropriation" yaml:"appropriation"`
	Transfer          string           `json:"transfer" yaml:"transfer"`
	Evaluations       []EvaluationItem `json:"evaluations" yaml:"evaluations"`
}

func (GuideContent) DocumentType() DocumentType { return DocumentGuide }

// Checklist (LDC)

type ChecklistItem struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

type ChecklistContent struct {
	Program             string          `json:"program" yaml:"program"`
	Competency          string          `json:"competency" yaml:"competency"`
	Rap                 string          `json:"rap" yaml:"rap"`
	Criteria            string          `json:"criteria" yaml:"criteria"`
	InstructorName      string          `json:"instructor_name" yaml:"instructor_name"`
	EvidenceType        string          `json:"evidence_type" yaml:"evidence_type"` // DESEMPENO | PRODUCTO
	ActivityDescription string          `json:"activity_description" yaml:"activity_description"`
	Items               []ChecklistItem `json:"items" yaml:"items"`
}

func (ChecklistContent) DocumentType() DocumentType { return DocumentChecklist }

// Plan de trabajo concertado (PTC)

type PTCRow struct {
	ID           string `json:"id" yaml:"id"`
	Rap          string `json:"rap" yaml:"rap"`
	Activity     string `json:"activity" yaml:"activity"`
	DeliveryType string `json:"delivery_type,omitempty" yaml:"delivery_type,omitempty"` // FISICA | DIGITAL | AMBOS
	DeliveryDate string `json:"delivery_date" yaml:"delivery_date"`
	Delivered    string `json:"delivered,omitempty" yaml:"delivered,omitempty"` // SI | NO
}

type PTCContent struct {
	Date                string   `json:"date" yaml:"date"`
	ProjectCode         string   `json:"project_code" yaml:"project_code"`
	Phase               string   `json:"phase" yaml:"phase"`
	InstructorName      string   `json:"instructor_name" yaml:"instructor_name"`
	Rows                []PTCRow `json:"rows" yaml:"rows"`
	InstructorSignature string   `json:"instructor_signature,omitempty" yaml:"instructor_signature,omitempty"`
}

func (PTCContent) DocumentType() DocumentType { return DocumentPlan }

type FichaDocument struct {
	ID          string          `json:"id" yaml:"id"`
	Title       string          `json:"title" yaml:"title"`
	Type        DocumentType    `json:"type" yaml:"type"`
	UploadDate  string          `json:"upload_date" yaml:"upload_date"`
	FileName    string          `json:"file_name" yaml:"file_name"`
	FileURL     string          `json:"file_url,omitempty" yaml:"file_url,omitempty"`
	GuideNumber string          `json:"guide_number,omitempty" yaml:"guide_number,omitempty"`
	Content     DocumentContent `json:"-" yaml:"-"`
}

// Validate checks that the content variant matches the document type.
func (d FichaDocument) Validate() error {
	if !d.Type.Valid() {
		return fmt.Errorf("unknown document type %q", d.Type)
	}
	if d.Content != nil && d.Content.DocumentType() != d.Type {
		return fmt.Errorf("document %s: %s content on a %s document", d.ID, d.Content.DocumentType(), d.Type)
	}
	return nil
}

// DescribeContent возвращает короткое описание содержимого документа
func DescribeContent(c DocumentContent) string {
	switch v := c.(type) {
	case nil:
		return "sin contenido estructurado"
	case GuideContent:
		return fmt.Sprintf("guía con %d criterios de evaluación", len(v.Evaluations))
	case ChecklistContent:
		return fmt.Sprintf("lista de chequeo (%s) con %d ítems", v.EvidenceType, len(v.Items))
	case PTCContent:
		return fmt.Sprintf("plan concertado fase %s con %d actividades", v.Phase, len(v.Rows))
	default:
		panic(fmt.Sprintf("unhandled document content %T", c))
	}
}

// wire shape shared by JSON and YAML: one optional key per variant
type documentWire struct {
	ID               string            `json:"id" yaml:"id"`
	Title            string            `json:"title" yaml:"title"`
	Type             DocumentType      `json:"type" yaml:"type"`
	UploadDate       string            `json:"upload_date" yaml:"upload_date"`
	FileName         string            `json:"file_name" yaml:"file_name"`
	FileURL          string            `json:"file_url,omitempty" yaml:"file_url,omitempty"`
	GuideNumber      string            `json:"guide_number,omitempty" yaml:"guide_number,omitempty"`
	GuideContent     *GuideContent     `json:"guide_content,omitempty" yaml:"guide_content,omitempty"`
	ChecklistContent *ChecklistContent `json:"checklist_content,omitempty" yaml:"checklist_content,omitempty"`
	PTCContent       *PTCContent       `json:"ptc_content,omitempty" yaml:"ptc_content,omitempty"`
}

func (d FichaDocument) toWire() documentWire {
	w := documentWire{
		ID:          d.ID,
		Title:       d.Title,
		Type:        d.Type,
		UploadDate:  d.UploadDate,
		FileName:    d.FileName,
		FileURL:     d.FileURL,
		GuideNumber: d.GuideNumber,
	}
	switch v := d.Content.(type) {
	case GuideContent:
		w.GuideContent = &v
	case ChecklistContent:
		w.ChecklistContent = &v
	case PTCContent:
		w.PTCContent = &v
	}
	return w
}

func (d *FichaDocument) fromWire(w documentWire) error {
	*d = FichaDocument{
		ID:          w.ID,
		Title:       w.Title,
		Type:        w.Type,
		UploadDate:  w.UploadDate,
		FileName:    w.FileName,
		FileURL:     w.FileURL,
		GuideNumber: w.GuideNumber,
	}

	var variants int
	if w.GuideContent != nil {
		d.Content = *w.GuideContent
		variants++
	}
	if w.ChecklistContent != nil {
		d.Content = *w.ChecklistContent
		variants++
	}
	if w.PTCContent != nil {
		d.Content = *w.PTCContent
		variants++
	}
	if variants > 1 {
		return fmt.Errorf("document %s: more than one content payload", w.ID)
	}
	return d.Validate()
}

func (d FichaDocument) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.toWire())
}

func (d *FichaDocument) UnmarshalJSON(data []byte) error {
	var w documentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	return d.fromWire(w)
}

func (d FichaDocument) MarshalYAML() (interface{}, error) {
	return d.toWire(), nil
}

func (d *FichaDocument) UnmarshalYAML(value *yaml.Node) error {
	var w documentWire
	if err := value.Decode(&w); err != nil {
		return err
	}
	return d.fromWire(w)
}
