package export

import (
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/stratlab-io/stratlab/pkg/errors"
)

// Report is a self-contained HTML summary of one backtest run.
type Report struct {
	Title       string
	GeneratedAt time.Time
	Sections    []Section
}

// Section is one titled table within a report.
type Section struct {
	Title   string
	Headers []string
	Rows    [][]string
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; margin: 2rem; color: #1c1c1c; }
h1 { font-size: 1.5rem; }
h2 { font-size: 1.1rem; margin-top: 2rem; }
table { border-collapse: collapse; margin-top: 0.5rem; }
th, td { border: 1px solid #d0d0d0; padding: 0.35rem 0.75rem; text-align: right; }
th { background: #f2f2f2; }
td:first-child, th:first-child { text-align: left; }
.meta { color: #707070; font-size: 0.85rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Generated {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}</p>
{{range .Sections}}
<h2>{{.Title}}</h2>
<table>
<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
{{end}}
</body>
</html>
`))

// WriteHTML renders the report into the writer's run directory under the
// given filename.
func (w *CSVWriter) WriteHTML(filename string, report Report) error {
	if report.GeneratedAt.IsZero() {
		report.GeneratedAt = time.Now()
	}

	file, err := os.Create(filepath.Join(w.runDir, filename))
	if err != nil {
		return errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to create %s", filename)
	}
	defer file.Close()

	if err := reportTemplate.Execute(file, report); err != nil {
		return errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to render %s", filename)
	}

	return nil
}
