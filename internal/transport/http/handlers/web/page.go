package webhandler

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Wage Sheet</title>
  <style>
    body { font-family: sans-serif; margin: 2rem; position: relative; }
    .background-text { position: fixed; top: 40%; left: 20%; font-size: 6rem; color: rgba(0,0,0,0.05); transform: rotate(-30deg); pointer-events: none; }
    label { display: block; margin: 0.5rem 0; }
    .error { color: #b00020; font-size: 0.9rem; }
    .notice { color: #1b5e20; }
    table { width: 100%; border-collapse: collapse; margin-top: 1rem; }
    th, td { border: 1px solid #999; padding: 6px; text-align: left; }
    th { background-color: #f2f2f2; }
    tr.negative td { color: #b00020; }
    .actions { margin-top: 20px; }
    .actions form, .actions a { display: inline-block; margin-right: 10px; }
  </style>
</head>
<body>
  <h1>Wage Sheet</h1>
  <div class="background-text">CONFIDENTIAL</div>
  {{with .Notice}}<p class="notice">{{.}}</p>{{end}}

  <form method="post" action="/">
    <label>Employee Name:
      <input type="text" name="name" value="{{.Form.Name}}" required>
      {{with index .Errors "name"}}<span class="error">{{.}}</span>{{end}}
    </label>
    <label>Gross Pay ({{.Currency}}):
      <input type="number" step="any" min="0" name="grossPay" value="{{.Form.GrossPay}}" required>
      {{with index .Errors "grossPay"}}<span class="error">{{.}}</span>{{end}}
    </label>
    <label>Number of Days:
      <input type="number" step="any" min="0" max="31" name="daysWorked" value="{{.Form.DaysWorked}}" required>
      {{with index .Errors "daysWorked"}}<span class="error">{{.}}</span>{{end}}
    </label>
    <label>Advance ({{.Currency}}):
      <input type="number" step="any" min="0" name="advance" value="{{.Form.Advance}}">
      {{with index .Errors "advance"}}<span class="error">{{.}}</span>{{end}}
    </label>
    <button type="submit">Calculate Wages</button>
  </form>

  <h2>Wage Sheet</h2>
  <table id="wage-table">
    <thead>
      <tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
    </thead>
    <tbody>
    {{- range .Records}}
      <tr{{if .HasWarning "negative_net"}} class="negative"{{end}}>{{range .Display.Cells}}<td>{{.}}</td>{{end}}</tr>
    {{- else}}
      <tr><td colspan="{{len .Columns}}" style="text-align: center">No records available</td></tr>
    {{- end}}
    </tbody>
  </table>

  <div class="actions">
    <form method="post" action="/clear"><button type="submit">Clear Records</button></form>
    <a href="/api/v1/wages/export/xlsx">Export to Excel</a>
    <a href="/api/v1/wages/export/pdf">Export to PDF</a>
    <a href="/api/v1/wages/print" target="_blank" rel="noopener">Print Table</a>
  </div>

  <h2>Import</h2>
  <form method="post" action="/import" enctype="multipart/form-data">
    <input type="file" name="file" accept=".csv,text/csv" required>
    <button type="submit">Import CSV</button>
  </form>
  {{with .Rejected}}
  <ul class="error">
    {{range .}}<li>line {{.Line}}:{{range .Issues}} {{.Field}} {{.Reason}};{{end}}</li>{{end}}
  </ul>
  {{end}}
</body>
</html>
`))
