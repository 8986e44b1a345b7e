package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"officehr/internal/domain/employee"
)

type memStore struct {
	items   []Record
	listErr error
}

func (m *memStore) Create(ctx context.Context, rec Record) error {
	m.items = append(m.items, rec)
	return nil
}

func (m *memStore) Get(ctx context.Context, id string) (Record, error) {
	for _, rec := range m.items {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, ErrLeaveNotFound
}

func (m *memStore) ListByEmployee(ctx context.Context, code string) ([]Record, error) {
	var out []Record
	for _, rec := range m.items {
		if rec.EmployeeCode == code {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memStore) ListForMonth(ctx context.Context, code, month string, year int) ([]Record, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []Record
	for _, rec := range m.items {
		if rec.EmployeeCode == code && rec.Month == month && rec.Year == year {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memStore) ListOnDate(ctx context.Context, d time.Time) ([]Record, error) {
	d = CalendarDate(d)
	var out []Record
	for _, rec := range m.items {
		if !rec.StartDate.After(d) && !rec.EndDate.Before(d) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	for i, rec := range m.items {
		if rec.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return ErrLeaveNotFound
}

type fakeDirectory map[string]employee.Employee

func (f fakeDirectory) FindByCode(ctx context.Context, code string) (employee.Employee, error) {
	emp, ok := f[code]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func newTestService() (*Service, *memStore) {
	store := &memStore{}
	dir := fakeDirectory{
		"EMP001": {ID: "e1", EmployeeCode: "EMP001", FirstName: "Asha", LastName: "Rao", Department: "Finance", Role: "Accountant"},
	}
	return NewService(store, dir), store
}

func TestCreateDerivesMonthAndDefaults(t *testing.T) {
	svc, _ := newTestService()
	rec, err := svc.Create(context.Background(), CreateInput{
		EmployeeCode: "EMP001",
		Type:         TypeLOP,
		StartDate:    time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, 11, 5, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "November", rec.Month)
	assert.Equal(t, 2025, rec.Year)
	assert.Equal(t, StatusApproved, rec.Status)
	assert.Equal(t, "e1", rec.EmployeeID)
	assert.Equal(t, day(2025, 11, 3), rec.StartDate)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	base := CreateInput{EmployeeCode: "EMP001", Type: TypeLOP, StartDate: day(2025, 11, 3), EndDate: day(2025, 11, 5)}

	in := base
	in.Type = "VACATION"
	_, err := svc.Create(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidLeaveType)

	in = base
	in.EndDate = day(2025, 11, 1)
	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidRange)

	in = base
	in.EmployeeCode = "EMP404"
	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	in = base
	in.Status = "Maybe"
	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestComputeLopDaysForMonth(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	for _, in := range []CreateInput{
		{EmployeeCode: "EMP001", Type: TypeLOP, StartDate: day(2025, 11, 3), EndDate: day(2025, 11, 4)},
		{EmployeeCode: "EMP001", Type: TypeHalfDay, StartDate: day(2025, 11, 10), EndDate: day(2025, 11, 10)},
		{EmployeeCode: "EMP001", Type: TypeSickLeave, StartDate: day(2025, 11, 12), EndDate: day(2025, 11, 13)},
		{EmployeeCode: "EMP001", Type: TypeLOP, StartDate: day(2025, 12, 1), EndDate: day(2025, 12, 5)},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	lop, err := svc.ComputeLopDays(ctx, "EMP001", "Nov", 2025)
	require.NoError(t, err)
	assert.Equal(t, 2.5, lop)

	lop, err = svc.ComputeLopDays(ctx, "EMP002", "November", 2025)
	require.NoError(t, err)
	assert.Equal(t, 0.0, lop)
}

func TestComputeLopDaysPropagatesStoreError(t *testing.T) {
	svc, store := newTestService()
	store.listErr = errors.New("connection reset")
	_, err := svc.ComputeLopDays(context.Background(), "EMP001", "November", 2025)
	assert.EqualError(t, err, "connection reset")
}

func TestComputeLopDaysRejectsBadMonth(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.ComputeLopDays(context.Background(), "EMP001", "Smarch", 2025)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOnDateJoinsEmployee(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	_, err := svc.Create(ctx, CreateInput{EmployeeCode: "EMP001", Type: TypeCasualLeave, StartDate: day(2025, 11, 3), EndDate: day(2025, 11, 5)})
	require.NoError(t, err)
	store.items = append(store.items, Record{ID: "orphan", EmployeeCode: "EMP999", Type: TypeLOP, StartDate: day(2025, 11, 4), EndDate: day(2025, 11, 4)})

	entries, err := svc.OnDate(ctx, day(2025, 11, 4))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Asha", entries[0].FirstName)
	assert.Equal(t, "Finance", entries[0].Department)
	assert.Empty(t, entries[1].FirstName)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	rec, err := svc.Create(ctx, CreateInput{EmployeeCode: "EMP001", Type: TypeLOP, StartDate: day(2025, 11, 3), EndDate: day(2025, 11, 3)})
	require.NoError(t, err)

	_, err = svc.Delete(ctx, rec.ID)
	require.NoError(t, err)
	_, err = svc.Delete(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrLeaveNotFound)
}
