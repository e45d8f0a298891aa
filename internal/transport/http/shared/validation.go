package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"wagesheet/internal/domain/wages"
	"wagesheet/internal/transport/http/api"
)

// SortedIssues orders issues by field, then reason, so responses are stable.
func SortedIssues(issues []wages.Issue) []wages.Issue {
	out := make([]wages.Issue, len(issues))
	copy(out, issues)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Field == out[j].Field {
			return out[i].Reason < out[j].Reason
		}
		return out[i].Field < out[j].Field
	})
	return out
}

func FailValidation(w http.ResponseWriter, requestID string, issues []wages.Issue) {
	api.FailWithDetails(
		w,
		http.StatusBadRequest,
		"validation_error",
		"payload validation failed",
		map[string]any{"fields": SortedIssues(issues)},
		requestID,
	)
}

// RejectValidation writes a validation failure when err is a *wages.ValidationError.
func RejectValidation(w http.ResponseWriter, requestID string, err error) bool {
	var verr *wages.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	FailValidation(w, requestID, verr.Issues)
	return true
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
