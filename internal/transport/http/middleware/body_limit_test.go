package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func readAllHandler(status *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			*status = http.StatusRequestEntityTooLarge
			w.WriteHeader(*status)
			return
		}
		*status = http.StatusOK
	})
}

func TestBodyLimitRejectsLargeBody(t *testing.T) {
	var status int
	handler := BodyLimit(8, 64, "/import")(readAllHandler(&status))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wages/records", strings.NewReader(strings.Repeat("x", 16)))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if status != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected body to be rejected, got %d", status)
	}
}

func TestBodyLimitAllowsLargerUploads(t *testing.T) {
	var status int
	handler := BodyLimit(8, 64, "/import")(readAllHandler(&status))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wages/records/import", strings.NewReader(strings.Repeat("x", 32)))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if status != http.StatusOK {
		t.Fatalf("expected upload within limit, got %d", status)
	}
}
