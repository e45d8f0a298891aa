package middleware

import (
	"net/http"
	"strings"
)

// BodyLimit caps request bodies at maxBytes. Paths ending in one of uploadSuffixes
// get uploadBytes instead so CSV imports can exceed the JSON limit.
func BodyLimit(maxBytes, uploadBytes int64, uploadSuffixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.Method != http.MethodGet && r.Method != http.MethodHead {
				limit := maxBytes
				for _, suffix := range uploadSuffixes {
					if strings.HasSuffix(r.URL.Path, suffix) {
						limit = uploadBytes
						break
					}
				}
				if limit > 0 {
					r.Body = http.MaxBytesReader(w, r.Body, limit)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
