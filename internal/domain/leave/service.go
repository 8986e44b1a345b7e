package leave

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"officehr/internal/domain/employee"
	"officehr/internal/domain/period"
)

// EmployeeFinder resolves the HR employee code carried on leave records.
type EmployeeFinder interface {
	FindByCode(ctx context.Context, code string) (employee.Employee, error)
}

type Service struct {
	store     StoreAPI
	employees EmployeeFinder
	now       func() time.Time
}

func NewService(store StoreAPI, employees EmployeeFinder) *Service {
	return &Service{store: store, employees: employees, now: time.Now}
}

// Create records a leave. Month and year are taken from the start date and the
// status defaults to Approved.
func (s *Service) Create(ctx context.Context, in CreateInput) (Record, error) {
	code := strings.TrimSpace(in.EmployeeCode)
	if code == "" {
		return Record{}, fmt.Errorf("%w: employee id is required", ErrInvalidInput)
	}
	if !validType(in.Type) {
		return Record{}, ErrInvalidLeaveType
	}
	status := in.Status
	if status == "" {
		status = StatusApproved
	}
	if !validStatus(status) {
		return Record{}, ErrInvalidStatus
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return Record{}, fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	}
	start, end := CalendarDate(in.StartDate), CalendarDate(in.EndDate)
	if end.Before(start) {
		return Record{}, ErrInvalidRange
	}
	emp, err := s.employees.FindByCode(ctx, code)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		ID:           uuid.NewString(),
		EmployeeCode: emp.EmployeeCode,
		EmployeeID:   emp.ID,
		Type:         in.Type,
		StartDate:    start,
		EndDate:      end,
		Month:        start.Month().String(),
		Year:         start.Year(),
		Status:       status,
		Reason:       strings.TrimSpace(in.Reason),
		ApprovedBy:   in.ApprovedBy,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) ListByEmployee(ctx context.Context, employeeCode string) ([]Record, error) {
	return s.store.ListByEmployee(ctx, strings.TrimSpace(employeeCode))
}

// Calendar lists an employee's leaves filed under a month.
func (s *Service) Calendar(ctx context.Context, employeeCode, month string, year int) ([]Record, error) {
	label, err := period.Label(month)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !period.ValidYear(year) {
		return nil, fmt.Errorf("%w: year %d out of range", ErrInvalidInput, year)
	}
	return s.store.ListForMonth(ctx, strings.TrimSpace(employeeCode), label, year)
}

// OnDate lists leaves covering day, joined with employee details. Leaves whose
// employee has since been removed keep empty employee fields.
func (s *Service) OnDate(ctx context.Context, day time.Time) ([]OnDateEntry, error) {
	records, err := s.store.ListOnDate(ctx, day)
	if err != nil {
		return nil, err
	}
	cache := map[string]employee.Employee{}
	out := make([]OnDateEntry, 0, len(records))
	for _, rec := range records {
		emp, ok := cache[rec.EmployeeCode]
		if !ok {
			found, err := s.employees.FindByCode(ctx, rec.EmployeeCode)
			if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
				return nil, err
			}
			emp = found
			cache[rec.EmployeeCode] = emp
		}
		out = append(out, OnDateEntry{
			Record:     rec,
			FirstName:  emp.FirstName,
			LastName:   emp.LastName,
			Department: emp.Department,
			Role:       emp.Role,
		})
	}
	return out, nil
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

// ComputeLopDays sums the loss-of-pay days of the employee's leaves filed
// under month and year.
func (s *Service) ComputeLopDays(ctx context.Context, employeeCode, month string, year int) (float64, error) {
	records, err := s.Calendar(ctx, employeeCode, month, year)
	if err != nil {
		return 0, err
	}
	return LopDays(records), nil
}
