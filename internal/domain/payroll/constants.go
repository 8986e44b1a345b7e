package payroll

const (
	KeyTotalEarnings   = "totalEarnings"
	KeyTotalDeductions = "totalDeductions"

	WarningNonNumericAmount = "non_numeric_amount"
	WarningNegativePaidDays = "negative_paid_days"
	WarningNegativeNet      = "negative_net"
)

// Display order for the standard pay components; other keys follow
// alphabetically.
var (
	EarningKeys = []string{
		"basicSalary", "houseRentAllowance", "dearnessAllowance", "transportAllowance",
		"medicalAllowance", "specialAllowance", "bonus",
	}
	DeductionKeys = []string{
		"professionalTax", "providentFund", "incomeTax", "loanRecovery", "otherDeductions",
	}
)
