package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/vertextoedge/cache-size-report/internal/domain"
)

// WriteText writes the summary line followed by the bin table.
// An empty report writes MessageEmpty only.
func WriteText(w io.Writer, r *domain.Report) error {
	if r.IsEmpty() {
		_, err := fmt.Fprintln(w, MessageEmpty)
		return err
	}

	if _, err := fmt.Fprintln(w, Summarize(r).String()); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(Headers())

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	table.AppendBulk(Rows(r))
	table.Render()
	return nil
}

// JSONReport is the wire shape of a report
type JSONReport struct {
	*domain.Report
	Empty   bool   `json:"empty"`
	Message string `json:"message,omitempty"`
}

// NewJSONReport wraps r for encoding, marking the empty outcome
func NewJSONReport(r *domain.Report) JSONReport {
	if r == nil {
		r = domain.EmptyReport()
	}
	out := JSONReport{Report: r, Empty: r.IsEmpty()}
	if out.Empty {
		out.Message = MessageEmpty
	}
	return out
}

// WriteJSON writes the report as indented JSON
func WriteJSON(w io.Writer, r *domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewJSONReport(r))
}
