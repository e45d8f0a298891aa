package wages

import "github.com/shopspring/decimal"

// RawInput is the unparsed form or API payload.
type RawInput struct {
	Name       string `json:"name"`
	GrossPay   string `json:"grossPay"`
	DaysWorked string `json:"daysWorked"`
	Advance    string `json:"advance"`
}

type Input struct {
	Name       string
	GrossPay   decimal.Decimal
	DaysWorked decimal.Decimal
	Advance    decimal.Decimal
}

// Record is one computed wage line. Records are never changed after Compute returns them.
type Record struct {
	Name       string          `json:"name"`
	GrossPay   decimal.Decimal `json:"grossPay"`
	DaysWorked decimal.Decimal `json:"daysWorked"`
	Payable    decimal.Decimal `json:"payable"`
	EPF        decimal.Decimal `json:"epf"`
	ESI        decimal.Decimal `json:"esi"`
	Welfare    decimal.Decimal `json:"welfare"`
	Advance    decimal.Decimal `json:"advance"`
	NetPay     decimal.Decimal `json:"netPay"`
	Warnings   []string        `json:"warnings,omitempty"`
	Display    Row             `json:"display"`
}

// Row holds the display strings of a record in column order.
type Row struct {
	Name       string `json:"name"`
	GrossPay   string `json:"grossPay"`
	DaysWorked string `json:"days"`
	Payable    string `json:"payable"`
	EPF        string `json:"epf"`
	ESI        string `json:"esi"`
	Welfare    string `json:"welfare"`
	Advance    string `json:"advance"`
	NetPay     string `json:"netPay"`
}

func (r Row) Cells() []string {
	return []string{r.Name, r.GrossPay, r.DaysWorked, r.Payable, r.EPF, r.ESI, r.Welfare, r.Advance, r.NetPay}
}

func (r Record) HasWarning(code string) bool {
	for _, w := range r.Warnings {
		if w == code {
			return true
		}
	}
	return false
}

type Totals struct {
	Count    int             `json:"count"`
	GrossPay decimal.Decimal `json:"grossPay"`
	Payable  decimal.Decimal `json:"payable"`
	EPF      decimal.Decimal `json:"epf"`
	ESI      decimal.Decimal `json:"esi"`
	Welfare  decimal.Decimal `json:"welfare"`
	Advance  decimal.Decimal `json:"advance"`
	NetPay   decimal.Decimal `json:"netPay"`
}

func (t Totals) add(r Record) Totals {
	t.Count++
	t.GrossPay = t.GrossPay.Add(r.GrossPay)
	t.Payable = t.Payable.Add(r.Payable)
	t.EPF = t.EPF.Add(r.EPF)
	t.ESI = t.ESI.Add(r.ESI)
	t.Welfare = t.Welfare.Add(r.Welfare)
	t.Advance = t.Advance.Add(r.Advance)
	t.NetPay = t.NetPay.Add(r.NetPay)
	return t
}
