package wages

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

type batchRow struct {
	Name       string `csv:"name"`
	GrossPay   string `csv:"gross_pay"`
	DaysWorked string `csv:"days_worked"`
	Advance    string `csv:"advance"`
}

// RowError reports a rejected batch row. Line is 1-based and counts the header.
type RowError struct {
	Line   int     `json:"line"`
	Issues []Issue `json:"issues"`
}

type BatchResult struct {
	Records  []Record   `json:"records"`
	Rejected []RowError `json:"rejected"`
}

// ReadBatch parses a CSV with the header name,gross_pay,days_worked[,advance].
func ReadBatch(r io.Reader) ([]RawInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyBatch
	}
	var rows []batchRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("parse batch: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyBatch
	}
	out := make([]RawInput, 0, len(rows))
	for _, row := range rows {
		out = append(out, RawInput{
			Name:       row.Name,
			GrossPay:   row.GrossPay,
			DaysWorked: row.DaysWorked,
			Advance:    row.Advance,
		})
	}
	return out, nil
}

// ComputeBatch computes every valid row in order and collects the rejected ones.
// Only rule evaluation failures abort the batch.
func (c *Calculator) ComputeBatch(raws []RawInput) (BatchResult, error) {
	result := BatchResult{Records: make([]Record, 0, len(raws))}
	for i, raw := range raws {
		record, err := c.ComputeRaw(raw)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				result.Rejected = append(result.Rejected, RowError{Line: i + 2, Issues: verr.Issues})
				continue
			}
			return BatchResult{}, fmt.Errorf("batch line %d: %w", i+2, err)
		}
		result.Records = append(result.Records, record)
	}
	return result, nil
}
