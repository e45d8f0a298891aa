package wages

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	DefaultEPFRule = "!over_ceiling || name in exempt"
	DefaultESIRule = "!over_ceiling"
)

// Policy holds every statutory constant and eligibility rule used by Calculator.
type Policy struct {
	DaysInPeriod   decimal.Decimal `json:"daysInPeriod"`
	WageCeiling    decimal.Decimal `json:"wageCeiling"`
	EPFRate        decimal.Decimal `json:"epfRate"`
	EPFMinimum     decimal.Decimal `json:"epfMinimum"`
	ESIRate        decimal.Decimal `json:"esiRate"`
	Welfare        decimal.Decimal `json:"welfare"`
	CurrencySymbol string          `json:"currencySymbol"`
	EPFExempt      []string        `json:"epfExempt"`
	EPFRule        string          `json:"epfRule"`
	ESIRule        string          `json:"esiRule"`
}

func DefaultPolicy() Policy {
	return Policy{
		DaysInPeriod:   decimal.NewFromInt(30),
		WageCeiling:    decimal.NewFromInt(35000),
		EPFRate:        decimal.RequireFromString("0.12"),
		EPFMinimum:     decimal.NewFromInt(1800),
		ESIRate:        decimal.RequireFromString("0.0075"),
		Welfare:        decimal.NewFromInt(5),
		CurrencySymbol: "₹",
		EPFExempt:      []string{"HARKANWAL"},
		EPFRule:        DefaultEPFRule,
		ESIRule:        DefaultESIRule,
	}
}

func (p Policy) Validate() error {
	if !p.DaysInPeriod.IsPositive() {
		return fmt.Errorf("%w: days_in_period must be positive", ErrInvalidPolicy)
	}
	for _, field := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"wage_ceiling", p.WageCeiling},
		{"epf_rate", p.EPFRate},
		{"epf_minimum", p.EPFMinimum},
		{"esi_rate", p.ESIRate},
		{"welfare", p.Welfare},
	} {
		if field.value.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidPolicy, field.name)
		}
	}
	if strings.TrimSpace(p.EPFRule) == "" || strings.TrimSpace(p.ESIRule) == "" {
		return fmt.Errorf("%w: eligibility rules must not be empty", ErrInvalidPolicy)
	}
	return nil
}

type policyFile struct {
	DaysInPeriod   *float64  `yaml:"days_in_period"`
	WageCeiling    *float64  `yaml:"wage_ceiling"`
	EPFRate        *float64  `yaml:"epf_rate"`
	EPFMinimum     *float64  `yaml:"epf_minimum"`
	ESIRate        *float64  `yaml:"esi_rate"`
	Welfare        *float64  `yaml:"welfare"`
	CurrencySymbol *string   `yaml:"currency_symbol"`
	EPFExempt      *[]string `yaml:"epf_exempt"`
	Rules          struct {
		EPF string `yaml:"epf"`
		ESI string `yaml:"esi"`
	} `yaml:"rules"`
}

// LoadPolicy reads a YAML policy file. Fields left out keep their DefaultPolicy value.
// An empty path returns the default policy.
func LoadPolicy(path string) (Policy, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy %s: %w", path, err)
	}
	return ParsePolicy(data)
}

func ParsePolicy(data []byte) (Policy, error) {
	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Policy{}, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}

	policy := DefaultPolicy()
	setDecimal := func(dst *decimal.Decimal, src *float64) {
		if src != nil {
			*dst = decimal.NewFromFloat(*src)
		}
	}
	setDecimal(&policy.DaysInPeriod, file.DaysInPeriod)
	setDecimal(&policy.WageCeiling, file.WageCeiling)
	setDecimal(&policy.EPFRate, file.EPFRate)
	setDecimal(&policy.EPFMinimum, file.EPFMinimum)
	setDecimal(&policy.ESIRate, file.ESIRate)
	setDecimal(&policy.Welfare, file.Welfare)
	if file.CurrencySymbol != nil {
		policy.CurrencySymbol = *file.CurrencySymbol
	}
	if file.EPFExempt != nil {
		policy.EPFExempt = normalizeNames(*file.EPFExempt)
	}
	if rule := strings.TrimSpace(file.Rules.EPF); rule != "" {
		policy.EPFRule = rule
	}
	if rule := strings.TrimSpace(file.Rules.ESI); rule != "" {
		policy.ESIRule = rule
	}

	if err := policy.Validate(); err != nil {
		return Policy{}, err
	}
	if _, err := compileRules(policy); err != nil {
		return Policy{}, err
	}
	return policy, nil
}

func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}
