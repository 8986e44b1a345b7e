package payroll

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"officehr/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const recordColumns = `id, month, year, employees, attendance, earnings, deductions, net_salary,
           total_days, paid_days, lop_days, arrear_days, pan_no, uan_no, pf_no, esi_no, bank_name,
           account_no, warnings, created_by, version, created_at, updated_at`

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.Month, &rec.Year, &rec.Employees, &rec.Attendance, &rec.Earnings, &rec.Deductions,
		&rec.NetSalary, &rec.TotalDays, &rec.PaidDays, &rec.LopDays, &rec.ArrearDays, &rec.PanNo, &rec.UanNo,
		&rec.PfNo, &rec.EsiNo, &rec.BankName, &rec.AccountNo, &rec.Warnings, &rec.CreatedBy, &rec.Version,
		&rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	return rec, err
}

func (s *Store) Create(ctx context.Context, rec Record) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO payrolls (id, month, year, employees, attendance, earnings, deductions, net_salary,
                          total_days, paid_days, lop_days, arrear_days, pan_no, uan_no, pf_no, esi_no,
                          bank_name, account_no, warnings, created_by, version, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
  `, rec.ID, rec.Month, rec.Year, rec.Employees, rec.Attendance, rec.Earnings, rec.Deductions, rec.NetSalary,
		rec.TotalDays, rec.PaidDays, rec.LopDays, rec.ArrearDays, rec.PanNo, rec.UanNo, rec.PfNo, rec.EsiNo,
		rec.BankName, rec.AccountNo, warningsOrEmpty(rec.Warnings), rec.CreatedBy, rec.Version, rec.CreatedAt, rec.UpdatedAt)
	return err
}

func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	return scanRecord(s.DB.QueryRow(ctx, "SELECT "+recordColumns+" FROM payrolls WHERE id = $1", id))
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM payrolls").Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+recordColumns+`
    FROM payrolls
    ORDER BY created_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) Update(ctx context.Context, rec Record, expectedVersion int) (int, error) {
	var version int
	err := s.DB.QueryRow(ctx, `
    UPDATE payrolls
    SET month = $2, year = $3, employees = $4, attendance = $5, earnings = $6, deductions = $7,
        net_salary = $8, total_days = $9, paid_days = $10, lop_days = $11, arrear_days = $12,
        pan_no = $13, uan_no = $14, pf_no = $15, esi_no = $16, bank_name = $17, account_no = $18,
        warnings = $19, updated_at = $20, version = version + 1
    WHERE id = $1 AND ($21 = 0 OR version = $21)
    RETURNING version
  `, rec.ID, rec.Month, rec.Year, rec.Employees, rec.Attendance, rec.Earnings, rec.Deductions,
		rec.NetSalary, rec.TotalDays, rec.PaidDays, rec.LopDays, rec.ArrearDays,
		rec.PanNo, rec.UanNo, rec.PfNo, rec.EsiNo, rec.BankName, rec.AccountNo,
		warningsOrEmpty(rec.Warnings), rec.UpdatedAt, expectedVersion).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		if expectedVersion == 0 {
			return 0, ErrRecordNotFound
		}
		if _, getErr := s.Get(ctx, rec.ID); getErr != nil {
			return 0, getErr
		}
		return 0, ErrVersionConflict
	}
	return version, err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM payrolls WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func warningsOrEmpty(w []Warning) []Warning {
	if w == nil {
		return []Warning{}
	}
	return w
}
