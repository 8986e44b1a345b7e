package employee

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEmployee(email string) Employee {
	return Employee{
		EmployeeCode: "EMP001",
		FirstName:    " Asha ",
		LastName:     "Rao",
		Email:        email,
		Department:   "Finance",
		Role:         "Accountant",
		JoinDate:     time.Date(2024, 4, 1, 15, 30, 0, 0, time.FixedZone("IST", 5*3600+1800)),
	}
}

func TestCreateNormalizesAndDefaults(t *testing.T) {
	svc := NewService(newMemStore())
	emp, err := svc.Create(context.Background(), sampleEmployee("Asha@Example.com"))
	require.NoError(t, err)

	assert.NotEmpty(t, emp.ID)
	assert.Equal(t, "Asha", emp.FirstName)
	assert.Equal(t, "asha@example.com", emp.Email)
	assert.Equal(t, TypeFullTime, emp.EmployeeType)
	assert.Equal(t, WorkModeOnsite, emp.WorkMode)
	assert.Equal(t, StatusActive, emp.Status)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), emp.JoinDate)
	assert.Equal(t, "Asha Rao", emp.FullName())
}

func TestCreateRejectsMissingFields(t *testing.T) {
	svc := NewService(newMemStore())
	_, err := svc.Create(context.Background(), Employee{Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateRejectsUnknownManager(t *testing.T) {
	svc := NewService(newMemStore())
	emp := sampleEmployee("a@example.com")
	emp.ManagerID = "missing"
	_, err := svc.Create(context.Background(), emp)
	assert.ErrorIs(t, err, ErrManagerNotFound)
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc := NewService(newMemStore())
	_, err := svc.Create(context.Background(), sampleEmployee("a@example.com"))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), sampleEmployee("a@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdateAppliesPatch(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()
	manager, err := svc.Create(ctx, sampleEmployee("lead@example.com"))
	require.NoError(t, err)
	emp, err := svc.Create(ctx, sampleEmployee("a@example.com"))
	require.NoError(t, err)

	role := "Senior Accountant"
	before, after, err := svc.Update(ctx, emp.ID, Patch{Role: &role, ManagerID: &manager.ID})
	require.NoError(t, err)
	assert.Equal(t, "Accountant", before.Role)
	assert.Equal(t, role, after.Role)
	assert.Equal(t, manager.ID, after.ManagerID)

	stored, err := svc.Get(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, role, stored.Role)
}

func TestUpdateRejectsSelfManagement(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()
	emp, err := svc.Create(ctx, sampleEmployee("a@example.com"))
	require.NoError(t, err)

	_, _, err = svc.Update(ctx, emp.ID, Patch{ManagerID: &emp.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteMissing(t *testing.T) {
	svc := NewService(newMemStore())
	_, err := svc.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestFindByCode(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()
	created, err := svc.Create(ctx, sampleEmployee("a@example.com"))
	require.NoError(t, err)

	found, err := svc.FindByCode(ctx, " EMP001 ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}
