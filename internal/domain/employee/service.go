package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Create(ctx context.Context, emp Employee) (Employee, error) {
	emp = normalize(emp)
	if err := validate(emp); err != nil {
		return Employee{}, err
	}
	if err := s.checkManager(ctx, emp.ManagerID); err != nil {
		return Employee{}, err
	}
	now := s.now().UTC()
	emp.ID = uuid.NewString()
	emp.CreatedAt = now
	emp.UpdatedAt = now
	if err := s.store.Create(ctx, emp); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	return s.store.Get(ctx, id)
}

// FindByCode resolves the HR employee code used by leave records.
func (s *Service) FindByCode(ctx context.Context, code string) (Employee, error) {
	return s.store.GetByCode(ctx, strings.TrimSpace(code))
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Employee, int, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update applies patch to the stored employee. An empty manager value clears
// the relation.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (before, after Employee, err error) {
	before, err = s.store.Get(ctx, id)
	if err != nil {
		return Employee{}, Employee{}, err
	}
	after = normalize(patch.Apply(before))
	if err := validate(after); err != nil {
		return Employee{}, Employee{}, err
	}
	if after.ManagerID == after.ID {
		return Employee{}, Employee{}, fmt.Errorf("%w: employee cannot manage themselves", ErrInvalidInput)
	}
	if after.ManagerID != before.ManagerID {
		if err := s.checkManager(ctx, after.ManagerID); err != nil {
			return Employee{}, Employee{}, err
		}
	}
	after.UpdatedAt = s.now().UTC()
	if err := s.store.Update(ctx, after); err != nil {
		return Employee{}, Employee{}, err
	}
	return before, after, nil
}

func (s *Service) Delete(ctx context.Context, id string) (Employee, error) {
	emp, err := s.store.Get(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Service) checkManager(ctx context.Context, managerID string) error {
	if managerID == "" {
		return nil
	}
	_, err := s.store.Get(ctx, managerID)
	if errors.Is(err, ErrEmployeeNotFound) {
		return ErrManagerNotFound
	}
	return err
}

// Apply returns emp with the set fields of p copied over.
func (p Patch) Apply(emp Employee) Employee {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&emp.EmployeeCode, p.EmployeeCode)
	set(&emp.FirstName, p.FirstName)
	set(&emp.LastName, p.LastName)
	set(&emp.Email, p.Email)
	set(&emp.Phone, p.Phone)
	set(&emp.Location, p.Location)
	set(&emp.Department, p.Department)
	set(&emp.Role, p.Role)
	set(&emp.Gender, p.Gender)
	set(&emp.EmployeeType, p.EmployeeType)
	set(&emp.WorkMode, p.WorkMode)
	set(&emp.Status, p.Status)
	set(&emp.ManagerID, p.ManagerID)
	set(&emp.PanNo, p.PanNo)
	set(&emp.UanNo, p.UanNo)
	set(&emp.PfNo, p.PfNo)
	if p.JoinDate != nil {
		emp.JoinDate = *p.JoinDate
	}
	return emp
}

func normalize(emp Employee) Employee {
	emp.EmployeeCode = strings.TrimSpace(emp.EmployeeCode)
	emp.FirstName = strings.TrimSpace(emp.FirstName)
	emp.LastName = strings.TrimSpace(emp.LastName)
	emp.Email = strings.ToLower(strings.TrimSpace(emp.Email))
	emp.Department = strings.TrimSpace(emp.Department)
	emp.Role = strings.TrimSpace(emp.Role)
	emp.ManagerID = strings.TrimSpace(emp.ManagerID)
	if emp.EmployeeType == "" {
		emp.EmployeeType = TypeFullTime
	}
	if emp.WorkMode == "" {
		emp.WorkMode = WorkModeOnsite
	}
	if emp.Status == "" {
		emp.Status = StatusActive
	}
	if !emp.JoinDate.IsZero() {
		y, m, d := emp.JoinDate.Date()
		emp.JoinDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return emp
}

func validate(emp Employee) error {
	var missing []string
	if emp.FirstName == "" {
		missing = append(missing, "firstName")
	}
	if emp.LastName == "" {
		missing = append(missing, "lastName")
	}
	if emp.Email == "" {
		missing = append(missing, "email")
	}
	if emp.Department == "" {
		missing = append(missing, "department")
	}
	if emp.Role == "" {
		missing = append(missing, "role")
	}
	if emp.JoinDate.IsZero() {
		missing = append(missing, "joinDate")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	if !oneOf(emp.EmployeeType, EmployeeTypes) {
		return fmt.Errorf("%w: unknown employeeType %q", ErrInvalidInput, emp.EmployeeType)
	}
	if !oneOf(emp.WorkMode, WorkModes) {
		return fmt.Errorf("%w: unknown workMode %q", ErrInvalidInput, emp.WorkMode)
	}
	if !oneOf(emp.Status, Statuses) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, emp.Status)
	}
	return nil
}

func oneOf(value string, allowed []string) bool {
	for _, candidate := range allowed {
		if value == candidate {
			return true
		}
	}
	return false
}
