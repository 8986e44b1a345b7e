package payroll

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotals(t *testing.T) {
	totals := ComputeTotals(
		Amounts{"basicSalary": 50000, "bonus": 2000},
		Amounts{"providentFund": 1800},
	)
	if totals.TotalEarnings != 52000 {
		t.Fatalf("expected earnings 52000, got %v", totals.TotalEarnings)
	}
	if totals.TotalDeductions != 1800 {
		t.Fatalf("expected deductions 1800, got %v", totals.TotalDeductions)
	}
	if totals.NetSalary != 50200 {
		t.Fatalf("expected net 50200, got %v", totals.NetSalary)
	}
}

func TestComputeTotalsSkipsEmbeddedTotals(t *testing.T) {
	e := Amounts{"basicSalary": 50000, "bonus": 2000}
	d := Amounts{"providentFund": 1800}
	first := ComputeTotals(e, d)

	again := ComputeTotals(
		withTotal(e, KeyTotalEarnings, first.TotalEarnings),
		withTotal(d, KeyTotalDeductions, first.TotalDeductions),
	)
	assert.Equal(t, first, again)
}

func TestComputeTotalsEmptyAndNegative(t *testing.T) {
	assert.Equal(t, Totals{}, ComputeTotals(nil, nil))

	totals := ComputeTotals(Amounts{"basicSalary": 1000}, Amounts{"loanRecovery": 1500})
	assert.Equal(t, -500.0, totals.NetSalary)
}

func TestComputeTotalsAvoidsFloatDrift(t *testing.T) {
	totals := ComputeTotals(Amounts{"a": 0.1, "b": 0.2}, nil)
	assert.Equal(t, 0.3, totals.TotalEarnings)
}

func TestCoerceAmounts(t *testing.T) {
	raw := map[string]any{
		"basicSalary":   "50000",
		"bonus":         json.Number("2000"),
		"medical":       float64(1250.5),
		"special":       "abc",
		"transport":     nil,
		"blank":         " ",
		"totalEarnings": 999999,
	}
	amounts, warnings := CoerceAmounts("earnings", raw)

	assert.Equal(t, Amounts{
		"basicSalary": 50000,
		"bonus":       2000,
		"medical":     1250.5,
		"special":     0,
		"transport":   0,
		"blank":       0,
	}, amounts)
	require.Len(t, warnings, 2)
	assert.Equal(t, WarningNonNumericAmount, warnings[0].Code)
	assert.Equal(t, "earnings.special", warnings[0].Field)
	assert.Equal(t, "earnings.transport", warnings[1].Field)
}

func TestOrderedKeys(t *testing.T) {
	amounts := Amounts{"zeta": 1, "bonus": 1, "basicSalary": 1, "alpha": 1, KeyTotalEarnings: 3}
	assert.Equal(t, []string{"basicSalary", "bonus", "alpha", "zeta"}, orderedKeys(amounts, EarningKeys, KeyTotalEarnings))
}
