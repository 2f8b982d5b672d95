package models

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceExcused AttendanceStatus = "EXCUSED"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceExcused:
		return true
	default:
		return false
	}
}

// AttendanceRecord - посещаемость группы за один день.
// Records: apprentice id -> status.
type AttendanceRecord struct {
	Date        string                      `json:"date" yaml:"date"`
	EvidenceURL string                      `json:"evidence_url,omitempty" yaml:"evidence_url,omitempty"`
	Records     map[string]AttendanceStatus `json:"records" yaml:"records"`
}

func (r AttendanceRecord) Clone() AttendanceRecord {
	out := r
	out.Records = make(map[string]AttendanceStatus, len(r.Records))
	for k, v := range r.Records {
		out.Records[k] = v
	}
	return out
}

// Stats считает отметки по каждому статусу
func (r AttendanceRecord) Stats() (present, absent, excused int) {
	for _, s := range r.Records {
		switch s {
		case AttendancePresent:
			present++
		case AttendanceAbsent:
			absent++
		case AttendanceExcused:
			excused++
		}
	}
	return present, absent, excused
}
