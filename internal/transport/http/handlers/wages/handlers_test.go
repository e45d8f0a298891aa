package wageshandler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"wagesheet/internal/domain/session"
	"wagesheet/internal/domain/wages"
	"wagesheet/internal/platform/metrics"
	"wagesheet/internal/transport/http/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type testEnv struct {
	client   *http.Client
	base     string
	sessions *session.Store
	metrics  *metrics.Collector
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	return newTestEnvWithLimit(t, 1<<20)
}

func newTestEnvWithLimit(t *testing.T, maxUpload int64) testEnv {
	t.Helper()
	calc, err := wages.NewCalculator(wages.DefaultPolicy())
	if err != nil {
		t.Fatalf("calculator: %v", err)
	}
	sessions := session.NewStore(time.Hour)
	collector := metrics.New()
	handler := NewHandler(calc, sessions, collector, maxUpload)
	handler.Now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Session("handler-test-secret", time.Hour, false))
	router.Route("/api/v1", handler.RegisterRoutes)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return testEnv{client: &http.Client{Jar: jar}, base: srv.URL + "/api/v1/wages", sessions: sessions, metrics: collector}
}

func (e testEnv) do(t *testing.T, method, path, contentType string, body []byte) (*http.Response, envelope) {
	t.Helper()
	req, err := http.NewRequest(method, e.base+path, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp, env
}

func (e testEnv) postJSON(t *testing.T, path, body string) (*http.Response, envelope) {
	return e.do(t, http.MethodPost, path, "application/json", []byte(body))
}

func TestComputeDoesNotAppend(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.postJSON(t, "/compute", `{"name":"HARKANWAL","grossPay":"40000","daysWorked":"30","advance":"0"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var record struct {
		EPF     string `json:"epf"`
		ESI     string `json:"esi"`
		NetPay  string `json:"netPay"`
		Display struct {
			NetPay string `json:"netPay"`
		} `json:"display"`
	}
	if err := json.Unmarshal(body.Data, &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record.EPF != "4800" || record.ESI != "0" || record.NetPay != "35195" {
		t.Fatalf("unexpected record %+v", record)
	}
	if record.Display.NetPay != "₹35195.00" {
		t.Fatalf("unexpected display %q", record.Display.NetPay)
	}

	_, list := env.do(t, http.MethodGet, "/records", "", nil)
	var records struct {
		Records []json.RawMessage `json:"records"`
	}
	if err := json.Unmarshal(list.Data, &records); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(records.Records) != 0 {
		t.Fatalf("compute must not append, got %d records", len(records.Records))
	}
}

func TestAppendListAndClear(t *testing.T) {
	env := newTestEnv(t)

	for _, name := range []string{"First", "Second"} {
		resp, _ := env.postJSON(t, "/records", `{"name":"`+name+`","grossPay":"30000","daysWorked":"15"}`)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}
	}

	_, list := env.do(t, http.MethodGet, "/records", "", nil)
	var data struct {
		Records []struct {
			Name string `json:"name"`
		} `json:"records"`
		Totals struct {
			Count   int    `json:"count"`
			Payable string `json:"payable"`
		} `json:"totals"`
	}
	if err := json.Unmarshal(list.Data, &data); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(data.Records) != 2 || data.Records[0].Name != "First" || data.Records[1].Name != "Second" {
		t.Fatalf("unexpected order %+v", data.Records)
	}
	if data.Totals.Count != 2 || data.Totals.Payable != "30000" {
		t.Fatalf("unexpected totals %+v", data.Totals)
	}

	resp, cleared := env.do(t, http.MethodDelete, "/records", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var removed map[string]int
	if err := json.Unmarshal(cleared.Data, &removed); err != nil {
		t.Fatalf("decode clear: %v", err)
	}
	if removed["removed"] != 2 {
		t.Fatalf("expected 2 removed, got %v", removed)
	}
	if got := env.metrics.Snapshot()["recordsComputedTotal"]; got != uint64(2) {
		t.Fatalf("expected 2 records computed, got %v", got)
	}
}

func TestAppendRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.postJSON(t, "/records", `{"name":"","grossPay":"abc","daysWorked":"40"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != "validation_error" {
		t.Fatalf("expected validation_error, got %+v", body.Error)
	}
	issues, ok := body.Error.Details["fields"].([]any)
	if !ok {
		t.Fatalf("expected field details, got %v", body.Error.Details)
	}
	seen := map[string]bool{}
	for _, issue := range issues {
		if m, ok := issue.(map[string]any); ok {
			seen[m["field"].(string)] = true
		}
	}
	for _, field := range []string{"name", "grossPay", "daysWorked"} {
		if !seen[field] {
			t.Fatalf("expected issue for %s, got %v", field, issues)
		}
	}
}

func TestAppendRejectsUnknownFields(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.postJSON(t, "/records", `{"name":"A","grossPay":"1","daysWorked":"1","bonus":"9"}`)
	if resp.StatusCode != http.StatusBadRequest || body.Error == nil || body.Error.Code != "invalid_payload" {
		t.Fatalf("expected invalid_payload, got %d %+v", resp.StatusCode, body.Error)
	}
}

func TestImportCSVReportsRejectedLines(t *testing.T) {
	env := newTestEnv(t)

	csv := "name,gross_pay,days_worked,advance\nAsha,30000,30,0\nBad,x,30,0\nRavi,20000,10,500\n"
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "wages.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write([]byte(csv))
	_ = mw.Close()

	resp, body := env.do(t, http.MethodPost, "/records/import", mw.FormDataContentType(), buf.Bytes())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result struct {
		Imported int `json:"imported"`
		Total    int `json:"total"`
		Rejected []struct {
			Line int `json:"line"`
		} `json:"rejected"`
	}
	if err := json.Unmarshal(body.Data, &result); err != nil {
		t.Fatalf("decode import: %v", err)
	}
	if result.Imported != 2 || result.Total != 2 {
		t.Fatalf("unexpected import result %+v", result)
	}
	if len(result.Rejected) != 1 || result.Rejected[0].Line != 3 {
		t.Fatalf("expected line 3 rejected, got %+v", result.Rejected)
	}
}

func TestImportRawCSVBody(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodPost, "/records/import", "text/csv", []byte("name,gross_pay,days_worked\nAsha,30000,30\n"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (%+v)", resp.StatusCode, body.Error)
	}
}

func TestExportXLSX(t *testing.T) {
	env := newTestEnv(t)
	env.postJSON(t, "/records", `{"name":"Asha","grossPay":"30000","daysWorked":"30"}`)

	resp, err := env.client.Get(env.base + "/export/xlsx")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Content-Disposition"), "wage_sheet.xlsx") {
		t.Fatalf("unexpected disposition %q", resp.Header.Get("Content-Disposition"))
	}

	book, err := excelize.OpenReader(resp.Body)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer book.Close()
	rows, err := book.GetRows(wages.SheetName)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "Asha" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestExportPDFAndPrint(t *testing.T) {
	env := newTestEnv(t)
	env.postJSON(t, "/records", `{"name":"<b>Asha</b>","grossPay":"30000","daysWorked":"30"}`)

	resp, err := env.client.Get(env.base + "/export/pdf")
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	pdfHead := make([]byte, 5)
	_, _ = io.ReadFull(resp.Body, pdfHead)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(pdfHead) != "%PDF-" {
		t.Fatalf("expected pdf, got %d %q", resp.StatusCode, pdfHead)
	}

	resp, err = env.client.Get(env.base + "/print")
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	defer resp.Body.Close()
	var page bytes.Buffer
	_, _ = page.ReadFrom(resp.Body)
	html := page.String()
	if !strings.Contains(html, "window.print()") || !strings.Contains(html, "&lt;b&gt;Asha&lt;/b&gt;") {
		t.Fatalf("unexpected print view: %s", html)
	}
	if got := env.metrics.Snapshot()["exportsTotal"]; got == nil {
		t.Fatal("expected export counters")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t)
	env.postJSON(t, "/records", `{"name":"Asha","grossPay":"30000","daysWorked":"30"}`)

	other := env
	jar, _ := cookiejar.New(nil)
	other.client = &http.Client{Jar: jar}

	_, list := other.do(t, http.MethodGet, "/records", "", nil)
	var data struct {
		Records []json.RawMessage `json:"records"`
	}
	if err := json.Unmarshal(list.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(data.Records) != 0 {
		t.Fatalf("expected empty sheet for new session, got %d", len(data.Records))
	}
	if env.sessions.Len() != 1 {
		t.Fatalf("reads must not create sessions, got %d", env.sessions.Len())
	}
}

func TestPolicyEndpoint(t *testing.T) {
	env := newTestEnv(t)
	_, body := env.do(t, http.MethodGet, "/policy", "", nil)
	var policy struct {
		WageCeiling string   `json:"wageCeiling"`
		EPFExempt   []string `json:"epfExempt"`
	}
	if err := json.Unmarshal(body.Data, &policy); err != nil {
		t.Fatalf("decode policy: %v", err)
	}
	if policy.WageCeiling != "35000" || len(policy.EPFExempt) != 1 {
		t.Fatalf("unexpected policy %+v", policy)
	}
}

func TestImportRejectsOversizedBody(t *testing.T) {
	env := newTestEnvWithLimit(t, 64)

	csv := "name,gross_pay,days_worked\n" + strings.Repeat("Asha,30000,30\n", 10)
	resp, body := env.do(t, http.MethodPost, "/records/import", "text/csv", []byte(csv))
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != "payload_too_large" {
		t.Fatalf("expected payload_too_large, got %+v", body.Error)
	}
	if env.sessions.Len() != 0 {
		t.Fatalf("rejected upload must not create a sheet, got %d sessions", env.sessions.Len())
	}
}

func TestImportHonoursConfiguredLimit(t *testing.T) {
	env := newTestEnvWithLimit(t, 16<<20)

	name := strings.Repeat("A", 200)
	var csv strings.Builder
	csv.WriteString("name,gross_pay,days_worked\n")
	rows := 0
	for csv.Len() < 4<<20+1024 {
		csv.WriteString(name + ",30000,30\n")
		rows++
	}

	resp, body := env.do(t, http.MethodPost, "/records/import", "text/csv", []byte(csv.String()))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (%+v)", resp.StatusCode, body.Error)
	}
	var result struct {
		Imported int `json:"imported"`
	}
	if err := json.Unmarshal(body.Data, &result); err != nil {
		t.Fatalf("decode import: %v", err)
	}
	if result.Imported != rows {
		t.Fatalf("expected all %d rows imported, got %d", rows, result.Imported)
	}
}

func TestReadsDoNotCreateSheets(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/records", "/export/xlsx", "/print"} {
		resp, _ := env.do(t, http.MethodGet, path, "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, resp.StatusCode)
		}
	}
	resp, _ := env.do(t, http.MethodDelete, "/records", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 clearing an empty sheet, got %d", resp.StatusCode)
	}
	if env.sessions.Len() != 0 {
		t.Fatalf("expected no stored sheets, got %d", env.sessions.Len())
	}
}
