package wages

const (
	SheetName      = "Wage Sheet"
	ExportBaseName = "wage_sheet"

	WarningNegativeNet = "negative_net"

	MaxDaysWorked = 31

	// Amounts are capped at 10^MaxAmountDigits with at most MaxDecimalPlaces decimals.
	MaxAmountDigits  = 12
	MaxDecimalPlaces = 2
	maxNumberLength  = 32

	FieldName       = "name"
	FieldGrossPay   = "grossPay"
	FieldDaysWorked = "daysWorked"
	FieldAdvance    = "advance"
)

// Columns is the table, workbook and print header order.
var Columns = []string{
	"Name",
	"Gross Pay",
	"Number of Days",
	"Payable",
	"EPF",
	"ESI",
	"Welfare",
	"Advance",
	"Net Pay",
}
