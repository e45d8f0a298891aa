package wages

import (
	"github.com/shopspring/decimal"
)

var half = decimal.New(5, -1)

type Calculator struct {
	policy Policy
	rules  rules
}

func NewCalculator(policy Policy) (*Calculator, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	compiled, err := compileRules(policy)
	if err != nil {
		return nil, err
	}
	return &Calculator{policy: policy, rules: compiled}, nil
}

func (c *Calculator) Policy() Policy {
	p := c.policy
	p.EPFExempt = append([]string(nil), c.policy.EPFExempt...)
	return p
}

// Compute derives payable, deductions and net pay for one employee.
func (c *Calculator) Compute(in Input) (Record, error) {
	p := c.policy

	payable := roundUnit(in.GrossPay.Mul(in.DaysWorked).Div(p.DaysInPeriod))

	vars := ruleVars{
		name:        in.Name,
		gross:       in.GrossPay.InexactFloat64(),
		days:        in.DaysWorked.InexactFloat64(),
		ceiling:     p.WageCeiling.InexactFloat64(),
		overCeiling: in.GrossPay.GreaterThan(p.WageCeiling),
		exempt:      p.EPFExempt,
	}
	epfEligible, err := evalRule(c.rules.epf, "epf", vars)
	if err != nil {
		return Record{}, err
	}
	esiEligible, err := evalRule(c.rules.esi, "esi", vars)
	if err != nil {
		return Record{}, err
	}

	epf := decimal.Zero
	if epfEligible {
		epf = decimal.Max(roundUnit(payable.Mul(p.EPFRate)), p.EPFMinimum)
	}
	esi := decimal.Zero
	if esiEligible {
		esi = roundUnit(payable.Mul(p.ESIRate))
	}
	welfare := p.Welfare

	// Net pay is not floored; a negative value is flagged instead.
	net := payable.Sub(epf).Sub(esi).Sub(welfare).Sub(in.Advance)

	record := Record{
		Name:       in.Name,
		GrossPay:   in.GrossPay,
		DaysWorked: in.DaysWorked,
		Payable:    payable,
		EPF:        epf,
		ESI:        esi,
		Welfare:    welfare,
		Advance:    in.Advance,
		NetPay:     net,
	}
	if net.IsNegative() {
		record.Warnings = []string{WarningNegativeNet}
	}
	record.Display = c.display(record)
	return record, nil
}

// ComputeRaw validates raw input and computes it.
func (c *Calculator) ComputeRaw(raw RawInput) (Record, error) {
	in, err := ParseInput(raw)
	if err != nil {
		return Record{}, err
	}
	return c.Compute(in)
}

func (c *Calculator) display(r Record) Row {
	return Row{
		Name:       r.Name,
		GrossPay:   c.FormatMoney(r.GrossPay),
		DaysWorked: r.DaysWorked.StringFixed(2),
		Payable:    c.FormatMoney(r.Payable),
		EPF:        c.FormatMoney(r.EPF),
		ESI:        c.FormatMoney(r.ESI),
		Welfare:    c.FormatMoney(r.Welfare),
		Advance:    c.FormatMoney(r.Advance),
		NetPay:     c.FormatMoney(r.NetPay),
	}
}

func (c *Calculator) FormatMoney(amount decimal.Decimal) string {
	return c.policy.CurrencySymbol + amount.StringFixed(2)
}

// roundUnit rounds to the nearest whole unit, halves toward positive infinity.
func roundUnit(d decimal.Decimal) decimal.Decimal {
	return d.Add(half).Floor()
}
