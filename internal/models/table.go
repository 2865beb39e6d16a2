package models

// TableRow is one rendered row: one string per logical column.
type TableRow []string

// TableData is the rectangular string matrix produced by a conversion.
// When HasHeader is true, Rows[0] holds the column labels.
type TableData struct {
	Rows      []TableRow
	HasHeader bool
}

// EmptyTable returns a table with no rows and no header.
func EmptyTable() TableData {
	return TableData{Rows: []TableRow{}}
}

// Len returns the total number of rows, header included.
func (t TableData) Len() int {
	return len(t.Rows)
}

// IsEmpty reports whether the table has no rows at all.
func (t TableData) IsEmpty() bool {
	return len(t.Rows) == 0
}

// Width returns the number of columns. Every row has the same width.
func (t TableData) Width() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// Header returns the header row and true when one is present.
func (t TableData) Header() (TableRow, bool) {
	if !t.HasHeader || len(t.Rows) == 0 {
		return nil, false
	}
	return t.Rows[0], true
}

// Body returns the data rows, excluding the header.
func (t TableData) Body() []TableRow {
	if t.HasHeader && len(t.Rows) > 0 {
		return t.Rows[1:]
	}
	return t.Rows
}

// DataRows returns the number of data rows, excluding the header.
func (t TableData) DataRows() int {
	return len(t.Body())
}
