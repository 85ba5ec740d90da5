// Package core provides the CSV domain-suffix filter engine.
// This package has no HTTP or CLI dependencies and can be driven by any frontend.
package core

// NameColumn is the header name of the column the keep predicate reads.
const NameColumn = "name"

// Dataset is an in-memory CSV table: one header row plus the data records.
// Every record has exactly as many cells as the header has columns; the
// CSV reader enforces this while loading.
type Dataset struct {
	Header  []string
	Records [][]string
}

// ColumnIndex returns the position of the column with the given header
// name, or -1 if the header does not contain it. Matching is exact.
func (d *Dataset) ColumnIndex(name string) int {
	for i, h := range d.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the value of column col in the given record and whether a
// value is present. CSV has no null marker, so an empty cell is the
// missing-value encoding; callers check presence structurally instead of
// inspecting the raw string.
func (d *Dataset) Cell(record []string, col int) (string, bool) {
	if col < 0 || col >= len(record) {
		return "", false
	}
	if record[col] == "" {
		return "", false
	}
	return record[col], true
}

// Result holds the outcome and statistics of one filter invocation.
// It is created once per invocation and never mutated afterwards; the
// JSON field names form the service's response payload.
type Result struct {
	Success              bool     `json:"success"`
	OriginalSize         int64    `json:"original_size"`
	FilteredSize         int64    `json:"filtered_size"`
	SizeReductionBytes   int64    `json:"size_reduction_bytes"`
	SizeReductionPercent float64  `json:"size_reduction_percent"`
	TotalRows            int      `json:"total_rows"`
	FilteredRows         int      `json:"filtered_rows"`
	RowsRemoved          int      `json:"rows_removed"`
	ExtensionsIncluded   []string `json:"extensions_included"`
}
