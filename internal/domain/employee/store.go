package employee

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"officehr/internal/platform/querier"
)

const uniqueViolation = "23505"

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const employeeColumns = `id, employee_code, first_name, last_name, email, phone, location, department, role,
           gender, employee_type, work_mode, status, COALESCE(manager_id, ''), join_date,
           pan_no, uan_no, pf_no, created_at, updated_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Phone, &emp.Location,
		&emp.Department, &emp.Role, &emp.Gender, &emp.EmployeeType, &emp.WorkMode, &emp.Status, &emp.ManagerID,
		&emp.JoinDate, &emp.PanNo, &emp.UanNo, &emp.PfNo, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	return emp, err
}

func (s *Store) Create(ctx context.Context, emp Employee) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO employees (id, employee_code, first_name, last_name, email, phone, location, department, role,
                           gender, employee_type, work_mode, status, manager_id, join_date, pan_no, uan_no, pf_no,
                           created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
  `, emp.ID, emp.EmployeeCode, emp.FirstName, emp.LastName, emp.Email, emp.Phone, emp.Location, emp.Department, emp.Role,
		emp.Gender, emp.EmployeeType, emp.WorkMode, emp.Status, nullIfEmpty(emp.ManagerID), emp.JoinDate,
		emp.PanNo, emp.UanNo, emp.PfNo, emp.CreatedAt, emp.UpdatedAt)
	return translateWriteErr(err)
}

func (s *Store) Get(ctx context.Context, id string) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", id))
}

func (s *Store) GetByCode(ctx context.Context, code string) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE employee_code = $1 ORDER BY created_at LIMIT 1", code))
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees").Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    ORDER BY created_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) Update(ctx context.Context, emp Employee) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET employee_code = $2, first_name = $3, last_name = $4, email = $5, phone = $6, location = $7,
        department = $8, role = $9, gender = $10, employee_type = $11, work_mode = $12, status = $13,
        manager_id = $14, join_date = $15, pan_no = $16, uan_no = $17, pf_no = $18, updated_at = $19
    WHERE id = $1
  `, emp.ID, emp.EmployeeCode, emp.FirstName, emp.LastName, emp.Email, emp.Phone, emp.Location,
		emp.Department, emp.Role, emp.Gender, emp.EmployeeType, emp.WorkMode, emp.Status,
		nullIfEmpty(emp.ManagerID), emp.JoinDate, emp.PanNo, emp.UanNo, emp.PfNo, emp.UpdatedAt)
	if err != nil {
		return translateWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func translateWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrEmailTaken
	}
	return err
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
