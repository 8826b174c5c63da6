package server

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/muurk/arxinspect/internal/logging"
	"github.com/muurk/arxinspect/internal/packet"
)

// placeholder is shown in the empty packet input
const placeholder = "Raw packet (0x...)"

// pageRow is one table row with its styling flags
type pageRow struct {
	packet.FieldResult
	Emphasized bool
	ErrorFlag  bool
}

type pageData struct {
	Placeholder string
	Layout      string
	Layouts     []packet.Layout
	Rows        []pageRow
	Model       string
	Mask        string
	Error       string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>ARX.AT Packet Inspector</title>
<style>
  body { font-family: sans-serif; margin: 3rem 2rem 1rem; }
  h3 { margin: 0 0 0.5rem; }
  form { display: flex; gap: 0.5rem; margin-bottom: 1rem; }
  input[type=text] { flex: 1; padding: 4px 8px; font-family: monospace; }
  table { table-layout: fixed; width: 100%; border-collapse: collapse; }
  th, td { width: 33.33%; word-break: break-all; border: 0.5px solid #666666; padding: 4px 8px; }
  th { background-color: black; color: white; font-weight: bold; text-align: center; font-size: 11px; }
  td { font-size: 12px; }
  tr.emphasized td { font-weight: 900; background-color: #f9f9f9; }
  td.error-flag { color: red; font-weight: 900; }
  .error { color: #b00020; border: 1px solid #b00020; padding: 0.5rem 1rem; }
  .summary { color: #666666; margin-bottom: 0.5rem; }
</style>
</head>
<body>
<h3>ARX.AT Advertising Packet Inspector</h3>
<form method="get" action="/">
  <input type="text" name="packet" placeholder="{{.Placeholder}}" autofocus autocomplete="off">
  <select name="layout">
  {{- range .Layouts}}
    <option value="{{.Name}}"{{if eq .Name $.Layout}} selected{{end}}>{{.Name}}</option>
  {{- end}}
  </select>
</form>
{{- if .Error}}
<div class="error">Decode failed: {{.Error}}</div>
{{- end}}
{{- if .Rows}}
<div class="summary">{{if .Model}}{{.Model}} · {{end}}mask {{.Mask}}</div>
<table>
  <thead><tr><th>Field</th><th>Raw</th><th>Value</th></tr></thead>
  <tbody>
  {{- range .Rows}}
    <tr{{if .Emphasized}} class="emphasized"{{end}}><td>{{.Name}}</td><td>{{.RawHex}}</td><td{{if .ErrorFlag}} class="error-flag"{{end}}>{{.Value}}</td></tr>
  {{- end}}
  </tbody>
</table>
{{- end}}
</body>
</html>
`))

// pageHandler handles GET / and renders the form plus the decoded table
// for ?packet=.
func (s *Server) pageHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data := pageData{
		Placeholder: placeholder,
		Layout:      s.layoutName(),
		Layouts:     packet.Layouts(),
	}
	status := http.StatusOK

	query := r.URL.Query()
	opts, err := s.options(query.Get("layout"))
	if err != nil {
		data.Error = err.Error()
		status = http.StatusBadRequest
	} else if raw := query.Get("packet"); raw != "" {
		data.Layout = opts.Layout.Name
		if data.Layout == "" {
			data.Layout = packet.LayoutCanonical.Name
		}
		resp, err := s.decodeText(sourcePage, r.RemoteAddr, raw, opts)
		if err != nil {
			data.Error = err.Error()
			status = http.StatusBadRequest
		} else {
			data.Rows = pageRows(resp.Fields)
			data.Model = resp.Model
			data.Mask = resp.Mask
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		logging.Error("Failed to render page", zap.Error(err))
	}
}

func pageRows(fields []packet.FieldResult) []pageRow {
	t := packet.Table(fields)
	rows := make([]pageRow, len(t))
	for i, f := range t {
		rows[i] = pageRow{
			FieldResult: f,
			Emphasized:  t.Emphasized(i),
			ErrorFlag:   t.ErrorFlagged(i),
		}
	}
	return rows
}
