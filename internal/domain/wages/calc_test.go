package wages

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	calc, err := NewCalculator(DefaultPolicy())
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	return calc
}

func input(name, gross, days, advance string) Input {
	in := Input{
		Name:       name,
		GrossPay:   decimal.RequireFromString(gross),
		DaysWorked: decimal.RequireFromString(days),
		Advance:    decimal.Zero,
	}
	if advance != "" {
		in.Advance = decimal.RequireFromString(advance)
	}
	return in
}

func expectAmount(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("expected %s %s, got %s", label, want, got)
	}
}

func TestComputeScenarios(t *testing.T) {
	calc := newTestCalculator(t)

	cases := []struct {
		name                               string
		in                                 Input
		payable, epf, esi, welfare, netPay string
		negative                           bool
	}{
		{
			name: "under ceiling", in: input("ALICE", "30000", "30", ""),
			payable: "30000", epf: "3600", esi: "225", welfare: "5", netPay: "26170",
		},
		{
			name: "over ceiling", in: input("BOB", "40000", "30", "1000"),
			payable: "40000", epf: "0", esi: "0", welfare: "5", netPay: "38995",
		},
		{
			name: "exempt name over ceiling", in: input("HARKANWAL", "50000", "30", ""),
			payable: "50000", epf: "6000", esi: "0", welfare: "5", netPay: "43995",
		},
		{
			name: "epf floor drives net negative", in: input("CARL", "5000", "10", ""),
			payable: "1667", epf: "1800", esi: "13", welfare: "5", netPay: "-151", negative: true,
		},
		{
			name: "ceiling is inclusive", in: input("DEV", "35000", "30", ""),
			payable: "35000", epf: "4200", esi: "263", welfare: "5", netPay: "30532",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record, err := calc.Compute(tc.in)
			if err != nil {
				t.Fatalf("compute: %v", err)
			}
			expectAmount(t, "payable", record.Payable, tc.payable)
			expectAmount(t, "epf", record.EPF, tc.epf)
			expectAmount(t, "esi", record.ESI, tc.esi)
			expectAmount(t, "welfare", record.Welfare, tc.welfare)
			expectAmount(t, "net pay", record.NetPay, tc.netPay)
			if record.HasWarning(WarningNegativeNet) != tc.negative {
				t.Fatalf("expected negative warning %v, got %v", tc.negative, record.Warnings)
			}
		})
	}
}

func TestComputeNetPayIdentity(t *testing.T) {
	calc := newTestCalculator(t)
	grosses := []string{"0", "1", "999.99", "12000", "35000", "35000.01", "35000.0000000000001", "90000"}
	days := []string{"0", "0.5", "7", "15", "30", "31"}
	for _, g := range grosses {
		for _, d := range days {
			record, err := calc.Compute(input("EMP", g, d, "250"))
			if err != nil {
				t.Fatalf("compute %s/%s: %v", g, d, err)
			}
			want := record.Payable.Sub(record.EPF).Sub(record.ESI).Sub(record.Welfare).Sub(record.Advance)
			if !record.NetPay.Equal(want) {
				t.Fatalf("gross %s days %s: net %s != %s", g, d, record.NetPay, want)
			}
			if !record.Payable.Equal(record.Payable.Floor()) {
				t.Fatalf("payable %s is not a whole unit", record.Payable)
			}
			gross := decimal.RequireFromString(g)
			if gross.GreaterThan(decimal.NewFromInt(35000)) && (!record.EPF.IsZero() || !record.ESI.IsZero()) {
				t.Fatalf("gross %s: expected no epf/esi, got %s/%s", g, record.EPF, record.ESI)
			}
			if !gross.GreaterThan(decimal.NewFromInt(35000)) && record.EPF.LessThan(decimal.NewFromInt(1800)) {
				t.Fatalf("gross %s: epf %s below floor", g, record.EPF)
			}
		}
	}
}

func TestComputeRoundsHalfUp(t *testing.T) {
	calc := newTestCalculator(t)

	record, err := calc.Compute(input("HALF", "45", "1", ""))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	expectAmount(t, "payable", record.Payable, "2")

	record, err = calc.Compute(input("HALF", "200", "30", ""))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	expectAmount(t, "esi", record.ESI, "2")

	// 1 * 15 / 30 is exactly one half.
	record, err = calc.Compute(input("HALF", "1", "15", ""))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	expectAmount(t, "payable", record.Payable, "1")
}

func TestComputeDisplay(t *testing.T) {
	calc := newTestCalculator(t)
	record, err := calc.Compute(input("CARL", "5000", "10", ""))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	want := []string{"CARL", "₹5000.00", "10.00", "₹1667.00", "₹1800.00", "₹13.00", "₹5.00", "₹0.00", "₹-151.00"}
	got := record.Display.Cells()
	if len(got) != len(Columns) {
		t.Fatalf("expected %d cells, got %d", len(Columns), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cell %d (%s): expected %q, got %q", i, Columns[i], want[i], got[i])
		}
	}
}

func TestComputeRawRejectsInvalidInput(t *testing.T) {
	calc := newTestCalculator(t)
	_, err := calc.ComputeRaw(RawInput{Name: "X", GrossPay: "abc", DaysWorked: "30"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPolicyReturnsCopy(t *testing.T) {
	calc := newTestCalculator(t)
	p := calc.Policy()
	p.EPFExempt[0] = "SOMEONE"
	if calc.Policy().EPFExempt[0] != "HARKANWAL" {
		t.Fatal("expected calculator policy to be unaffected")
	}
}
