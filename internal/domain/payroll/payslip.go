package payroll

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type PayslipOptions struct {
	OrgName        string
	OrgAddress     string
	CurrencyPrefix string
	// EmployeeID picks the employee of a batch record; empty means the first.
	EmployeeID string
}

func (o PayslipOptions) withDefaults() PayslipOptions {
	if o.OrgName == "" {
		o.OrgName = "Company Name"
	}
	if o.CurrencyPrefix == "" {
		o.CurrencyPrefix = "Rs"
	}
	return o
}

var amountPrinter = message.NewPrinter(language.MustParse("en-IN"))

func formatAmount(v float64) string {
	return amountPrinter.Sprintf("%.2f", v)
}

func formatDays(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// humanizeKey turns a component key such as houseRentAllowance into
// "House Rent Allowance".
func humanizeKey(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// payslipSubject returns the snapshot and day counts shown on the payslip.
func payslipSubject(rec Record, employeeID string) (EmployeeSnapshot, float64, float64) {
	var emp EmployeeSnapshot
	for _, candidate := range rec.Employees {
		if employeeID == "" || candidate.EmployeeID == employeeID {
			emp = candidate
			break
		}
	}
	paid, lop := rec.PaidDays, rec.LopDays
	for _, att := range rec.Attendance {
		if emp.EmployeeID != "" && att.EmployeeID == emp.EmployeeID {
			paid, lop = att.PaidDays, att.LopDays
			break
		}
	}
	return emp, paid, lop
}

// RenderPayslip writes an A4 payslip for rec to w. Totals are recomputed from
// the line items; rec is not modified. Long item lists continue on further
// pages.
func RenderPayslip(w io.Writer, rec Record, opts PayslipOptions) error {
	return layoutPayslip(rec, opts.withDefaults()).Output(w)
}

const (
	pageHeight   = 297.0
	bottomMargin = 15.0
)

func layoutPayslip(rec Record, opts PayslipOptions) *gofpdf.Fpdf {
	emp, paidDays, lopDays := payslipSubject(rec, opts.EmployeeID)
	totals := ComputeTotals(rec.Earnings, rec.Deductions)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(false, bottomMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Header band.
	pdf.SetFillColor(30, 64, 175)
	pdf.Rect(0, 0, 210, 30, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(15, 7)
	pdf.CellFormat(180, 8, tr(opts.OrgName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetX(15)
	pdf.CellFormat(180, 6, tr(opts.OrgAddress), "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(230, 230, 230)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(15, 36)
	title := strings.TrimSpace(fmt.Sprintf("Payslip For the Month of %s %d", rec.Month, rec.Year))
	pdf.CellFormat(180, 9, tr(title), "1", 1, "C", true, 0, "")

	// Details box.
	top := 50.0
	pdf.Rect(15, top, 180, 36, "D")
	columns := [][][2]string{
		{
			{"Employee ID:", emp.EmployeeCode},
			{"Name:", emp.Name},
			{"Department:", emp.Department},
			{"Designation:", emp.Role},
			{"Gender:", emp.Gender},
		},
		{
			{"Bank Name:", rec.BankName},
			{"A/C No:", rec.AccountNo},
			{"UAN:", rec.UanNo},
			{"ESI No:", rec.EsiNo},
			{"PAN:", rec.PanNo},
		},
		{
			{"Paid Days:", formatDays(paidDays)},
			{"LOP Days:", formatDays(lopDays)},
			{"Days in Month:", formatDays(rec.TotalDays)},
		},
	}
	for col, rows := range columns {
		x := 18 + float64(col)*60
		for i, row := range rows {
			value := row[1]
			if value == "" {
				value = "-"
			}
			pdf.SetXY(x, top+3+float64(i)*6.4)
			pdf.SetFont("Helvetica", "B", 9)
			pdf.CellFormat(24, 6, row[0], "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 9)
			pdf.CellFormat(33, 6, tr(value), "", 0, "L", false, 0, "")
		}
	}

	// Earnings and deductions.
	tableHeader := func() {
		pdf.SetX(15)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(245, 245, 245)
		pdf.CellFormat(60, 8, "Earnings", "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 8, "Amount", "1", 0, "R", true, 0, "")
		pdf.CellFormat(60, 8, "Deductions", "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 8, "Amount", "1", 1, "R", true, 0, "")
		pdf.SetFont("Helvetica", "", 9)
	}
	// ensure starts a new page when h more millimetres would cross the
	// bottom margin.
	ensure := func(h float64) bool {
		if pdf.GetY()+h <= pageHeight-bottomMargin {
			return false
		}
		pdf.AddPage()
		pdf.SetY(15)
		return true
	}
	pdf.SetY(top + 42)
	tableHeader()

	eKeys := orderedKeys(rec.Earnings, EarningKeys, KeyTotalEarnings)
	dKeys := orderedKeys(rec.Deductions, DeductionKeys, KeyTotalDeductions)
	rows := max(len(eKeys), len(dKeys))
	for i := 0; i < rows; i++ {
		if y := pdf.GetY(); ensure(7) {
			pdf.Line(15, y, 195, y)
			tableHeader()
		}
		var eLabel, eValue, dLabel, dValue string
		if i < len(eKeys) {
			eLabel, eValue = humanizeKey(eKeys[i]), formatAmount(rec.Earnings[eKeys[i]])
		}
		if i < len(dKeys) {
			dLabel, dValue = humanizeKey(dKeys[i]), formatAmount(rec.Deductions[dKeys[i]])
		}
		pdf.SetX(15)
		pdf.CellFormat(60, 7, tr(eLabel), "LR", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, eValue, "LR", 0, "R", false, 0, "")
		pdf.CellFormat(60, 7, tr(dLabel), "LR", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, dValue, "LR", 1, "R", false, 0, "")
	}
	// Totals, net pay, words and footer stay together.
	ensure(8 + 4 + 11 + 8 + 6 + 6)
	pdf.SetX(15)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 8, "Total Earnings", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, formatAmount(totals.TotalEarnings), "1", 0, "R", false, 0, "")
	pdf.CellFormat(60, 8, "Total Deductions", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, formatAmount(totals.TotalDeductions), "1", 1, "R", false, 0, "")

	// Net pay.
	pdf.Ln(4)
	pdf.SetX(15)
	pdf.SetFillColor(232, 245, 233)
	pdf.SetTextColor(27, 94, 32)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(90, 11, "Net Pay", "LTB", 0, "L", true, 0, "")
	pdf.CellFormat(90, 11, opts.CurrencyPrefix+" "+formatAmount(totals.NetSalary), "RTB", 1, "R", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(15)
	pdf.CellFormat(180, 8, "In Words: "+AmountInWords(totals.NetSalary)+" Only", "", 1, "L", false, 0, "")

	pdf.Ln(6)
	pdf.SetX(15)
	pdf.SetTextColor(128, 128, 128)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(180, 6, "This payslip is computer generated and doesn't require any signature", "", 1, "R", false, 0, "")

	return pdf
}

// RenderPayslipFile renders to path, creating parent directories. A failed
// render may leave a partial file behind.
func RenderPayslipFile(path string, rec Record, opts PayslipOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := RenderPayslip(f, rec, opts); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
