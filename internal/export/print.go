package export

import (
	"html/template"
	"io"

	"wagesheet/internal/domain/wages"
)

const ContentTypeHTML = "text/html; charset=utf-8"

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Print Wage Sheet</title>
  <style>
    table {
      width: 100%;
      border-collapse: collapse;
    }
    th, td {
      border: 1px solid black;
      padding: 8px;
      text-align: left;
    }
    th {
      background-color: #f2f2f2;
    }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <table id="wage-table">
    <thead>
      <tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
    </thead>
    <tbody>
    {{- range .Rows}}
      <tr>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
    {{- else}}
      <tr><td colspan="{{len .Columns}}" style="text-align: center">No records available</td></tr>
    {{- end}}
    </tbody>
  </table>
  <script>
    window.print();
  </script>
</body>
</html>
`))

type printView struct {
	Title   string
	Columns []string
	Rows    []wages.Row
}

// RenderPrint writes a standalone HTML view of the records that opens the print dialog on load.
func RenderPrint(w io.Writer, records []wages.Record) error {
	rows := make([]wages.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.Display)
	}
	return printTemplate.Execute(w, printView{Title: wages.SheetName, Columns: wages.Columns, Rows: rows})
}
