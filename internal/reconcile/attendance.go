package reconcile

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/multierr"

	"sena-tracker/internal/models"
	"sena-tracker/internal/sheet"
)

// NormalizeDate strips the quote some spreadsheet cells carry and cuts
// timestamps down to YYYY-MM-DD.
func NormalizeDate(cell string) string {
	date := strings.TrimPrefix(strings.TrimSpace(cell), "'")
	if len(date) > 10 && strings.Contains(date, "-") {
		date = date[:10]
	}
	return date
}

// NormalizeEvidenceURL keeps only absolute http(s) URLs.
func NormalizeEvidenceURL(cell string) string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return ""
	}
	u, err := url.Parse(cell)
	if err != nil || u.Host == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return cell
	default:
		return ""
	}
}

func decodeRecords(payload string) (map[string]models.AttendanceStatus, error) {
	var records map[string]models.AttendanceStatus
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, err
	}
	if records == nil {
		return nil, fmt.Errorf("records payload is not an object")
	}
	for id, status := range records {
		if !status.Valid() {
			return nil, fmt.Errorf("apprentice %s: unknown attendance status %q", id, status)
		}
	}
	return records, nil
}

// ParseAttendance groups attendance rows by ficha id in insertion order.
// Rows whose records cannot be decoded are skipped and reported as
// RowParseError. A repeated (ficha, date) replaces the earlier record.
func ParseAttendance(rows []sheet.AttendanceRow) (map[string][]models.AttendanceRecord, error) {
	history := make(map[string][]models.AttendanceRecord)
	var errs error

	for i, row := range rows {
		records, err := decodeRecords(row.RecordsJSON)
		if err != nil {
			errs = multierr.Append(errs, &sheet.RowParseError{Sheet: sheet.SheetAttendance, Index: i, Err: err})
			continue
		}

		rec := models.AttendanceRecord{
			Date:        NormalizeDate(row.Date),
			EvidenceURL: NormalizeEvidenceURL(row.EvidenceURL),
			Records:     records,
		}

		list := history[row.FichaNumber]
		replaced := false
		for j := range list {
			if list[j].Date == rec.Date {
				list[j] = rec
				replaced = true
				break
			}
		}
		if !replaced {
			list = append(list, rec)
		}
		history[row.FichaNumber] = list
	}
	return history, errs
}
