package models

// Ficha - учебная группа (когорта) программы SENA
type Ficha struct {
	ID                string             `json:"id" yaml:"id"`
	Number            string             `json:"number" yaml:"number"`
	Program           string             `json:"program" yaml:"program"`
	StartDate         string             `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate           string             `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	Apprentices       []Apprentice       `json:"apprentices" yaml:"apprentices"`
	Documents         []FichaDocument    `json:"documents" yaml:"documents"`
	AttendanceHistory []AttendanceRecord `json:"attendance_history" yaml:"attendance_history"`
	Visible           bool               `json:"visible" yaml:"visible"`
}

// NewFicha returns an empty, visible ficha identified by its external number.
func NewFicha(number, program string) Ficha {
	return Ficha{
		ID:                number,
		Number:            number,
		Program:           program,
		Apprentices:       []Apprentice{},
		Documents:         []FichaDocument{},
		AttendanceHistory: []AttendanceRecord{},
		Visible:           true,
	}
}

// FindApprentice ищет ученика по номеру документа
func (f *Ficha) FindApprentice(documentNumber string) (Apprentice, bool) {
	for _, a := range f.Apprentices {
		if a.DocumentNumber == documentNumber {
			return a, true
		}
	}
	return Apprentice{}, false
}

// AttendanceFor returns the record for the given date, if any.
func (f *Ficha) AttendanceFor(date string) (AttendanceRecord, bool) {
	for _, r := range f.AttendanceHistory {
		if r.Date == date {
			return r, true
		}
	}
	return AttendanceRecord{}, false
}

// Clone copies the nested slices so the result can be modified freely.
func (f Ficha) Clone() Ficha {
	out := f
	out.Apprentices = make([]Apprentice, len(f.Apprentices))
	for i, a := range f.Apprentices {
		out.Apprentices[i] = a.Clone()
	}
	out.Documents = append([]FichaDocument{}, f.Documents...)
	out.AttendanceHistory = make([]AttendanceRecord, len(f.AttendanceHistory))
	for i, r := range f.AttendanceHistory {
		out.AttendanceHistory[i] = r.Clone()
	}
	return out
}
