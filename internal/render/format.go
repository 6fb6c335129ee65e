// Package render turns a report into tables for people to read.
package render

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/vertextoedge/cache-size-report/internal/domain"
)

const (
	// MessageEmpty is shown when no bin resolved to an existing table
	MessageEmpty = "No cache data found."
	// MessageError is shown instead of a partial table when the query failed
	MessageError = "Error loading cache data."
)

// Headers returns the column headers of the report table
func Headers() []string {
	return []string{"Cache Bin", "Size (MB)", "Row Count"}
}

// FormatSize formats a size with thousands separators and two decimals, e.g. "1,024.50"
func FormatSize(m domain.Megabytes) string {
	return fmt.Sprintf("%s.%02d", humanize.Comma(m.Whole()), m.Fraction())
}

// FormatCount formats a row count with thousands separators
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

// Rows returns the formatted table rows in report order
func Rows(r *domain.Report) [][]string {
	if r.IsEmpty() {
		return [][]string{}
	}
	rows := make([][]string, 0, len(r.Records))
	for _, rec := range r.Records {
		rows = append(rows, []string{rec.Bin.String(), FormatSize(rec.SizeMB), FormatCount(rec.RowCount)})
	}
	return rows
}

// Summary holds the formatted totals line
type Summary struct {
	TotalSize string
	TotalRows string
}

// Summarize formats the report totals
func Summarize(r *domain.Report) Summary {
	if r == nil {
		return Summary{TotalSize: FormatSize(0), TotalRows: FormatCount(0)}
	}
	return Summary{
		TotalSize: FormatSize(r.TotalSizeMB),
		TotalRows: FormatCount(r.TotalRowCount),
	}
}

// String returns the summary as a single line
func (s Summary) String() string {
	return fmt.Sprintf("Total Cache Size: %s MB, Total Rows: %s", s.TotalSize, s.TotalRows)
}
