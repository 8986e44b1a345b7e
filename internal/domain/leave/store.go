package leave

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"officehr/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const leaveColumns = `id, employee_code, employee_id, leave_type, start_date, end_date, month, year,
           status, reason, approved_by, created_at`

func scanLeave(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.EmployeeCode, &rec.EmployeeID, &rec.Type, &rec.StartDate, &rec.EndDate,
		&rec.Month, &rec.Year, &rec.Status, &rec.Reason, &rec.ApprovedBy, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrLeaveNotFound
	}
	return rec, err
}

func (s *Store) Create(ctx context.Context, rec Record) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO leaves (id, employee_code, employee_id, leave_type, start_date, end_date, month, year,
                        status, reason, approved_by, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
  `, rec.ID, rec.EmployeeCode, rec.EmployeeID, rec.Type, rec.StartDate, rec.EndDate, rec.Month, rec.Year,
		rec.Status, rec.Reason, rec.ApprovedBy, rec.CreatedAt)
	return err
}

func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	return scanLeave(s.DB.QueryRow(ctx, "SELECT "+leaveColumns+" FROM leaves WHERE id = $1", id))
}

func (s *Store) ListByEmployee(ctx context.Context, employeeCode string) ([]Record, error) {
	return s.list(ctx, "SELECT "+leaveColumns+" FROM leaves WHERE employee_code = $1 ORDER BY start_date DESC", employeeCode)
}

func (s *Store) ListForMonth(ctx context.Context, employeeCode, month string, year int) ([]Record, error) {
	return s.list(ctx, `
    SELECT `+leaveColumns+`
    FROM leaves
    WHERE employee_code = $1 AND month = $2 AND year = $3
    ORDER BY start_date
  `, employeeCode, month, year)
}

func (s *Store) ListOnDate(ctx context.Context, day time.Time) ([]Record, error) {
	return s.list(ctx, `
    SELECT `+leaveColumns+`
    FROM leaves
    WHERE start_date <= $1 AND end_date >= $1
    ORDER BY employee_code
  `, CalendarDate(day))
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM leaves WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLeaveNotFound
	}
	return nil
}
