package payroll

import (
	"math"
	"strconv"
	"strings"
)

var (
	ones = []string{
		"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten",
		"Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen",
	}
	tens = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
)

// wordsLimit is the first value no longer spelled out.
const wordsLimit = 100000

// AmountInWords spells the integer part of amount in English. Values of one
// lakh and above are returned as digits.
func AmountInWords(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "Zero"
	}
	whole := math.Trunc(amount)
	if whole == 0 {
		return "Zero"
	}
	sign := ""
	if whole < 0 {
		sign = "Minus "
	}
	magnitude := math.Abs(whole)
	if magnitude >= wordsLimit {
		return sign + strconv.FormatFloat(magnitude, 'f', 0, 64)
	}
	return sign + inWords(int64(magnitude))
}

func inWords(n int64) string {
	switch {
	case n < 20:
		return ones[n]
	case n < 100:
		return strings.TrimSpace(tens[n/10] + " " + ones[n%10])
	case n < 1000:
		return strings.TrimSpace(ones[n/100] + " Hundred " + inWords(n%100))
	default:
		return strings.TrimSpace(inWords(n/1000) + " Thousand " + inWords(n%1000))
	}
}
