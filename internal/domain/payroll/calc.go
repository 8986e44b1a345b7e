package payroll

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ComputeTotals sums earnings and deductions and returns net pay. Embedded
// totalEarnings/totalDeductions keys are skipped, so totals can be stored in
// the same maps and recomputed any number of times. Net is not clamped.
func ComputeTotals(earnings, deductions Amounts) Totals {
	e := sum(earnings, KeyTotalEarnings)
	d := sum(deductions, KeyTotalDeductions)
	return Totals{
		TotalEarnings:   e.InexactFloat64(),
		TotalDeductions: d.InexactFloat64(),
		NetSalary:       e.Sub(d).InexactFloat64(),
	}
}

func sum(amounts Amounts, skip string) decimal.Decimal {
	total := decimal.Zero
	for key, value := range amounts {
		if key == skip {
			continue
		}
		total = total.Add(decimal.NewFromFloat(value))
	}
	return total
}

// CoerceAmounts converts client amounts to numbers. Numbers and numeric
// strings keep their value, blank strings count as 0, and anything else counts
// as 0 with a non_numeric_amount warning naming the field. Client-sent totals
// are dropped.
func CoerceAmounts(section string, raw map[string]any) (Amounts, []Warning) {
	out := make(Amounts, len(raw))
	var warnings []Warning
	for _, key := range sortedKeys(raw) {
		if key == KeyTotalEarnings || key == KeyTotalDeductions {
			continue
		}
		value, ok := toNumber(raw[key])
		if !ok {
			field := section + "." + key
			warnings = append(warnings, Warning{
				Code:    WarningNonNumericAmount,
				Field:   field,
				Message: fmt.Sprintf("%s is not a number and was counted as 0", field),
			})
		}
		out[key] = value
	}
	return out, warnings
}

func toNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, true
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// withTotal copies amounts and stores total under key.
func withTotal(amounts Amounts, key string, total float64) Amounts {
	out := make(Amounts, len(amounts)+1)
	for k, v := range amounts {
		out[k] = v
	}
	out[key] = total
	return out
}

// applyTotals re-derives the totals of rec from its line items.
func applyTotals(rec *Record) {
	totals := ComputeTotals(rec.Earnings, rec.Deductions)
	rec.Earnings = withTotal(rec.Earnings, KeyTotalEarnings, totals.TotalEarnings)
	rec.Deductions = withTotal(rec.Deductions, KeyTotalDeductions, totals.TotalDeductions)
	rec.NetSalary = totals.NetSalary
}

// orderedKeys lists the line items of amounts for display: known keys in
// their usual order, then the rest alphabetically. skip is left out.
func orderedKeys(amounts Amounts, known []string, skip string) []string {
	seen := map[string]bool{skip: true}
	var keys []string
	for _, key := range known {
		if _, ok := amounts[key]; ok {
			keys = append(keys, key)
			seen[key] = true
		}
	}
	var rest []string
	for key := range amounts {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
