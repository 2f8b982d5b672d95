package sheet

import (
	"bytes"
	"encoding/json"
	"strings"
)

const StatusSuccess = "success"

// LoadEnvelope is the remote answer to a data load.
type LoadEnvelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    *RawRowSets `json:"data,omitempty"`
}

// SaveEnvelope is the remote answer to a save call. EvidenceURL is only
// filled by attendance saves.
type SaveEnvelope struct {
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	EvidenceURL string `json:"evidenceUrl,omitempty"`
}

func (e SaveEnvelope) OK() bool { return e.Status == StatusSuccess }

// RawRowSets holds rows as JSON cells before string coercion.
type RawRowSets struct {
	Fichas      []Row `json:"fichas"`
	Apprentices []Row `json:"aprendices"`
	Evaluations []Row `json:"evaluaciones"`
	Attendance  []Row `json:"asistencia"`
}

func (r RawRowSets) RowSets() RowSets {
	return RowSets{
		Fichas:      toStrings(r.Fichas),
		Apprentices: toStrings(r.Apprentices),
		Evaluations: toStrings(r.Evaluations),
		Attendance:  toStrings(r.Attendance),
	}
}

func toStrings(rows []Row) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string(r))
	}
	return out
}

// Row is one positional row. Any JSON cell is coerced to its string form:
// strings as-is, numbers in their literal form, null as empty, objects
// and arrays as compact JSON.
type Row []string

func (r *Row) UnmarshalJSON(data []byte) error {
	var cells []json.RawMessage
	if err := json.Unmarshal(data, &cells); err != nil {
		return err
	}
	out := make(Row, len(cells))
	for i, c := range cells {
		out[i] = coerceCell(c)
	}
	*r = out
	return nil
}

func coerceCell(c json.RawMessage) string {
	trimmed := bytes.TrimSpace(c)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err == nil {
			return buf.String()
		}
	}
	return strings.TrimSpace(string(trimmed))
}
