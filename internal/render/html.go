package render

import (
	"html/template"
	"io"

	"github.com/vertextoedge/cache-size-report/internal/domain"
)

// Page is the render context for the admin page
type Page struct {
	Title   string
	Headers []string
	Rows    [][]string
	Summary Summary
	Message string
	Error   bool
}

// NewPage builds the page for a report, or for a failed build when err is non-nil
func NewPage(title string, r *domain.Report, err error) Page {
	p := Page{Title: title, Headers: Headers()}
	switch {
	case err != nil:
		p.Message = MessageError
		p.Error = true
	case r.IsEmpty():
		p.Message = MessageEmpty
	default:
		p.Rows = Rows(r)
		p.Summary = Summarize(r)
	}
	return p
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body { font-family: sans-serif; margin: 20px; }
        h1 { color: #333; }
        table { border-collapse: collapse; min-width: 480px; }
        th, td { text-align: left; padding: 8px 12px; border-bottom: 1px solid #ddd; }
        th { background-color: #f5f5f5; }
        td.num { text-align: right; font-family: monospace; }
        .error { color: #b00020; }
        .note { color: #666; font-size: 0.9em; margin-top: 20px; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
{{- if .Message}}
    <p{{if .Error}} class="error"{{end}}>{{.Message}}</p>
{{- else}}
    <p><strong>Total Cache Size: </strong>{{.Summary.TotalSize}} MB<br>
    <strong>Total Rows: </strong>{{.Summary.TotalRows}}</p>
    <table>
        <thead>
            <tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
        </thead>
        <tbody>
{{- range .Rows}}
            <tr><td>{{index . 0}}</td><td class="num">{{index . 1}}</td><td class="num">{{index . 2}}</td></tr>
{{- end}}
        </tbody>
    </table>
{{- end}}
    <p class="note">Covers a fixed list of cache bins; bins added by extensions are not shown. Row counts may be estimates.</p>
</body>
</html>
`))

// WriteHTML renders the page
func WriteHTML(w io.Writer, p Page) error {
	return pageTemplate.Execute(w, p)
}
