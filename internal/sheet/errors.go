package sheet

import "fmt"

// MalformedRowError is returned in strict mode for rows that do not fit
// the column layout of their sheet.
type MalformedRowError struct {
	Sheet  string
	Index  int
	Want   int
	Got    int
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("%s row %d: %s (want >= %d cells, got %d)", e.Sheet, e.Index, e.Reason, e.Want, e.Got)
}

// BlankRowError marks a row whose cells are all empty. Such rows are
// skipped in every mode.
type BlankRowError struct {
	Sheet string
	Index int
}

func (e *BlankRowError) Error() string {
	return fmt.Sprintf("%s row %d: blank row", e.Sheet, e.Index)
}

// RowParseError - строка прочитана, но её содержимое не разобрать
// (например, битый JSON в колонке посещаемости).
type RowParseError struct {
	Sheet string
	Index int
	Err   error
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.Sheet, e.Index, e.Err)
}

func (e *RowParseError) Unwrap() error { return e.Err }
