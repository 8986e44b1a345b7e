package payroll

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"officehr/internal/domain/employee"
	"officehr/internal/domain/period"
	"officehr/internal/platform/email"
)

type EmployeeDirectory interface {
	Get(ctx context.Context, id string) (employee.Employee, error)
}

type LeaveCalculator interface {
	ComputeLopDays(ctx context.Context, employeeCode, month string, year int) (float64, error)
}

type Service struct {
	store     StoreAPI
	directory EmployeeDirectory
	leaves    LeaveCalculator
	mailer    email.Mailer
	archive   *Archiver
	now       func() time.Time
}

func NewService(store StoreAPI, directory EmployeeDirectory, leaves LeaveCalculator, mailer email.Mailer) *Service {
	return &Service{store: store, directory: directory, leaves: leaves, mailer: mailer, now: time.Now}
}

// WithArchive keeps a copy of each mailed payslip.
func (s *Service) WithArchive(a *Archiver) *Service {
	s.archive = a
	return s
}

// Build creates and persists a payroll record for the given employees. Each
// employee's loss-of-pay days come from the leave register; the record-level
// day counts mirror the first employee.
func (s *Service) Build(ctx context.Context, in BuildInput) (Record, error) {
	ids := uniqueIDs(in.EmployeeIDs)
	if len(ids) == 0 {
		return Record{}, fmt.Errorf("%w: at least one employee is required", ErrInvalidInput)
	}
	month, err := period.ParseMonth(in.Month)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !period.ValidYear(in.Year) {
		return Record{}, fmt.Errorf("%w: year %d out of range", ErrInvalidInput, in.Year)
	}

	totalDays := float64(period.DaysInMonth(month, in.Year))
	rec := Record{
		ID:         uuid.NewString(),
		Month:      month.String(),
		Year:       in.Year,
		TotalDays:  totalDays,
		ArrearDays: in.Input.ArrearDays,
		PanNo:      strings.TrimSpace(in.Input.PanNo),
		UanNo:      strings.TrimSpace(in.Input.UanNo),
		PfNo:       strings.TrimSpace(in.Input.PfNo),
		EsiNo:      strings.TrimSpace(in.Input.EsiNo),
		BankName:   strings.TrimSpace(in.Input.BankName),
		AccountNo:  strings.TrimSpace(in.Input.AccountNo),
		CreatedBy:  in.Input.CreatedBy,
		Version:    1,
	}

	for _, id := range ids {
		emp, err := s.directory.Get(ctx, id)
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return Record{}, fmt.Errorf("%w: %s", ErrEmployeeNotFound, id)
		}
		if err != nil {
			return Record{}, err
		}
		var lop float64
		if emp.EmployeeCode != "" {
			lop, err = s.leaves.ComputeLopDays(ctx, emp.EmployeeCode, rec.Month, rec.Year)
			if err != nil {
				return Record{}, err
			}
		}
		rec.Employees = append(rec.Employees, snapshot(emp))
		rec.Attendance = append(rec.Attendance, Attendance{EmployeeID: emp.ID, LopDays: lop, PaidDays: totalDays - lop})
	}
	rec.LopDays = rec.Attendance[0].LopDays
	rec.PaidDays = rec.Attendance[0].PaidDays

	var warnings []Warning
	earnings, w := CoerceAmounts("earnings", in.Input.Earnings)
	warnings = append(warnings, w...)
	deductions, w := CoerceAmounts("deductions", in.Input.Deductions)
	warnings = append(warnings, w...)
	rec.Earnings, rec.Deductions = earnings, deductions
	applyTotals(&rec)
	rec.Warnings = append(warnings, derivedWarnings(rec)...)

	now := s.now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now
	if err := s.store.Create(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Update applies rev to a stored record. Totals are always recomputed from
// the line items; loss-of-pay days are only changed when rev sets them.
func (s *Service) Update(ctx context.Context, id string, rev Revision) (Record, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	expected := 0
	if rev.ExpectedVersion != nil {
		expected = *rev.ExpectedVersion
		if expected != rec.Version {
			return Record{}, ErrVersionConflict
		}
	}

	if rev.Month != nil {
		month, err := period.ParseMonth(*rev.Month)
		if err != nil {
			return Record{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		rec.Month = month.String()
	}
	if rev.Year != nil {
		if !period.ValidYear(*rev.Year) {
			return Record{}, fmt.Errorf("%w: year %d out of range", ErrInvalidInput, *rev.Year)
		}
		rec.Year = *rev.Year
	}
	if rev.TotalDays != nil {
		rec.TotalDays = *rev.TotalDays
	}
	if rev.PaidDays != nil {
		rec.PaidDays = *rev.PaidDays
	}
	if rev.LopDays != nil {
		rec.LopDays = max(*rev.LopDays, 0)
	}
	if rev.ArrearDays != nil {
		rec.ArrearDays = *rev.ArrearDays
	}
	if len(rec.Attendance) > 0 && (rev.PaidDays != nil || rev.LopDays != nil) {
		attendance := append([]Attendance(nil), rec.Attendance...)
		attendance[0].PaidDays, attendance[0].LopDays = rec.PaidDays, rec.LopDays
		rec.Attendance = attendance
	}
	setString(&rec.PanNo, rev.PanNo)
	setString(&rec.UanNo, rev.UanNo)
	setString(&rec.PfNo, rev.PfNo)
	setString(&rec.EsiNo, rev.EsiNo)
	setString(&rec.BankName, rev.BankName)
	setString(&rec.AccountNo, rev.AccountNo)

	warnings := keptCoercionWarnings(rec.Warnings, rev.Earnings == nil, rev.Deductions == nil)
	if rev.Earnings != nil {
		earnings, w := CoerceAmounts("earnings", rev.Earnings)
		rec.Earnings = earnings
		warnings = append(warnings, w...)
	}
	if rev.Deductions != nil {
		deductions, w := CoerceAmounts("deductions", rev.Deductions)
		rec.Deductions = deductions
		warnings = append(warnings, w...)
	}
	applyTotals(&rec)
	rec.Warnings = append(warnings, derivedWarnings(rec)...)
	rec.UpdatedAt = s.now().UTC()

	version, err := s.store.Update(ctx, rec, expected)
	if err != nil {
		return Record{}, err
	}
	rec.Version = version
	return rec, nil
}

// Get returns a record with totals recomputed from its line items.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	applyTotals(&rec)
	return rec, nil
}

// List returns records newest first, each with recomputed totals.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Record, int, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		applyTotals(&items[i])
	}
	return items, total, nil
}

func (s *Service) Delete(ctx context.Context, id string) (Record, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Payslip renders the stored record as a PDF.
func (s *Service) Payslip(ctx context.Context, id string, opts PayslipOptions) (Record, []byte, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return Record{}, nil, err
	}
	var buf bytes.Buffer
	if err := RenderPayslip(&buf, rec, opts); err != nil {
		return Record{}, nil, err
	}
	return rec, buf.Bytes(), nil
}

// EmailPayslip renders the payslip and mails it to the record's employee.
// It returns the recipient address.
func (s *Service) EmailPayslip(ctx context.Context, id, from string, opts PayslipOptions) (string, error) {
	rec, pdf, err := s.Payslip(ctx, id, opts)
	if err != nil {
		return "", err
	}
	emp, _, _ := payslipSubject(rec, opts.EmployeeID)
	if strings.TrimSpace(emp.Email) == "" {
		return "", ErrNoRecipient
	}
	msg := email.Message{
		From:    from,
		To:      emp.Email,
		Subject: fmt.Sprintf("Payslip for %s %d", rec.Month, rec.Year),
		Body: fmt.Sprintf("Dear %s,\n\nPlease find attached your payslip for %s %d.\n\nRegards,\n%s\n",
			emp.Name, rec.Month, rec.Year, opts.withDefaults().OrgName),
		Attachments: []email.Attachment{{
			Filename:    PayslipFilename(rec, emp),
			ContentType: "application/pdf",
			Data:        pdf,
		}},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		slog.Error("payslip email failed", "payroll_id", rec.ID, "err", err)
		return "", err
	}
	if s.archive != nil {
		if path, err := s.archive.Store(rec, emp, pdf); err != nil {
			slog.Warn("payslip archive failed", "payroll_id", rec.ID, "err", err)
		} else {
			slog.Debug("payslip archived", "payroll_id", rec.ID, "path", path)
		}
	}
	return emp.Email, nil
}

// PayslipFilename is the download and attachment name for a payslip.
func PayslipFilename(rec Record, emp EmployeeSnapshot) string {
	name := emp.EmployeeCode
	if name == "" {
		name = rec.ID
	}
	return fmt.Sprintf("payslip-%s-%s-%d.pdf", name, rec.Month, rec.Year)
}

// PayslipName is PayslipFilename for the employee a payslip of rec would show.
func PayslipName(rec Record, employeeID string) string {
	emp, _, _ := payslipSubject(rec, employeeID)
	return PayslipFilename(rec, emp)
}

// PreviewTotals computes totals for unsaved input.
func PreviewTotals(earnings, deductions map[string]any) (Totals, []Warning) {
	e, w1 := CoerceAmounts("earnings", earnings)
	d, w2 := CoerceAmounts("deductions", deductions)
	totals := ComputeTotals(e, d)
	warnings := append(w1, w2...)
	if totals.NetSalary < 0 {
		warnings = append(warnings, negativeNetWarning(totals.NetSalary))
	}
	return totals, warnings
}

func snapshot(emp employee.Employee) EmployeeSnapshot {
	return EmployeeSnapshot{
		EmployeeID:   emp.ID,
		EmployeeCode: emp.EmployeeCode,
		Name:         emp.FullName(),
		Role:         emp.Role,
		Department:   emp.Department,
		Gender:       emp.Gender,
		JoinDate:     emp.JoinDate,
		Email:        emp.Email,
	}
}

func derivedWarnings(rec Record) []Warning {
	var out []Warning
	for _, att := range rec.Attendance {
		if att.PaidDays < 0 {
			out = append(out, Warning{
				Code:    WarningNegativePaidDays,
				Field:   att.EmployeeID,
				Message: fmt.Sprintf("paid days are negative (%v) for employee %s", att.PaidDays, att.EmployeeID),
			})
		}
	}
	if len(rec.Attendance) == 0 && rec.PaidDays < 0 {
		out = append(out, Warning{Code: WarningNegativePaidDays, Message: fmt.Sprintf("paid days are negative (%v)", rec.PaidDays)})
	}
	if rec.NetSalary < 0 {
		out = append(out, negativeNetWarning(rec.NetSalary))
	}
	return out
}

func negativeNetWarning(net float64) Warning {
	return Warning{Code: WarningNegativeNet, Field: "netSalary", Message: fmt.Sprintf("net salary is negative (%v)", net)}
}

// keptCoercionWarnings keeps the stored non-numeric warnings of sections an
// update leaves untouched.
func keptCoercionWarnings(stored []Warning, keepEarnings, keepDeductions bool) []Warning {
	var out []Warning
	for _, w := range stored {
		if w.Code != WarningNonNumericAmount {
			continue
		}
		if (keepEarnings && strings.HasPrefix(w.Field, "earnings.")) ||
			(keepDeductions && strings.HasPrefix(w.Field, "deductions.")) {
			out = append(out, w)
		}
	}
	return out
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func uniqueIDs(ids []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
