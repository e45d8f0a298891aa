package wages

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	maxDays   = decimal.NewFromInt(MaxDaysWorked)
	maxAmount = decimal.New(1, MaxAmountDigits)
)

// ParseInput validates raw text fields and converts them to an Input.
// It never lets a non-numeric value through; every rejected field is reported.
func ParseInput(raw RawInput) (Input, error) {
	verr := &ValidationError{}

	name := strings.TrimSpace(raw.Name)
	if name == "" {
		verr.add(FieldName, "is required")
	}

	gross, ok := parseAmount(verr, FieldGrossPay, raw.GrossPay, true)
	if ok {
		checkAmount(verr, FieldGrossPay, gross)
	}

	days, ok := parseAmount(verr, FieldDaysWorked, raw.DaysWorked, true)
	if ok {
		if days.IsNegative() {
			verr.add(FieldDaysWorked, "must not be negative")
		} else if days.GreaterThan(maxDays) {
			verr.add(FieldDaysWorked, "must be at most 31")
		}
	}

	advance, ok := parseAmount(verr, FieldAdvance, raw.Advance, false)
	if ok {
		checkAmount(verr, FieldAdvance, advance)
	}

	if len(verr.Issues) > 0 {
		return Input{}, verr
	}
	return Input{Name: name, GrossPay: gross, DaysWorked: days, Advance: advance}, nil
}

// parseAmount returns zero for a blank optional field.
func parseAmount(verr *ValidationError, field, raw string, required bool) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			verr.add(field, "is required")
			return decimal.Zero, false
		}
		return decimal.Zero, true
	}
	if len(raw) > maxNumberLength {
		verr.add(field, "is too long")
		return decimal.Zero, false
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		verr.add(field, "must be a number")
		return decimal.Zero, false
	}
	// Checked on the digit count and exponent alone: comparing or rounding a value
	// like 1e2000000 would rescale it into a huge integer first.
	if value.IsZero() {
		return decimal.Zero, true
	}
	if value.NumDigits()+int(value.Exponent()) > MaxAmountDigits+1 {
		verr.add(field, "is too large")
		return decimal.Zero, false
	}
	if value.Exponent() < -MaxDecimalPlaces && (value.Exponent() < -maxNumberLength || !value.Equal(value.Truncate(MaxDecimalPlaces))) {
		verr.add(field, fmt.Sprintf("must have at most %d decimal places", MaxDecimalPlaces))
		return decimal.Zero, false
	}
	return value, true
}

func checkAmount(verr *ValidationError, field string, value decimal.Decimal) {
	switch {
	case value.IsNegative():
		verr.add(field, "must not be negative")
	case value.GreaterThan(maxAmount):
		verr.add(field, fmt.Sprintf("must be at most %s", maxAmount))
	}
}
