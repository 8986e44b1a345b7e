package circular

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

const circularColumns = `id, title, category, content, effective_date, expiry_date, departments, employee_ids,
           status, recipients, published_at, created_by, created_at, updated_at`

func scanCircular(row pgx.Row) (Circular, error) {
	var c Circular
	err := row.Scan(&c.ID, &c.Title, &c.Category, &c.Content, &c.EffectiveDate, &c.ExpiryDate, &c.Departments,
		&c.EmployeeIDs, &c.Status, &c.Recipients, &c.PublishedAt, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Circular{}, ErrCircularNotFound
	}
	return c, err
}

func (s *Store) Create(ctx context.Context, c Circular) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO circulars (id, title, category, content, effective_date, expiry_date, departments, employee_ids,
                           status, recipients, published_at, created_by, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
  `, c.ID, c.Title, c.Category, c.Content, c.EffectiveDate, c.ExpiryDate, nonNil(c.Departments), nonNil(c.EmployeeIDs),
		c.Status, c.Recipients, c.PublishedAt, c.CreatedBy, c.CreatedAt, c.UpdatedAt)
	return err
}

func (s *Store) Get(ctx context.Context, id string) (Circular, error) {
	return scanCircular(s.DB.QueryRow(ctx, "SELECT "+circularColumns+" FROM circulars WHERE id = $1", id))
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM circulars").Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Circular, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+circularColumns+`
    FROM circulars
    ORDER BY created_at DESC, id
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Circular
	for rows.Next() {
		c, err := scanCircular(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Update(ctx context.Context, c Circular) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE circulars
    SET title = $2, category = $3, content = $4, effective_date = $5, expiry_date = $6, departments = $7,
        employee_ids = $8, status = $9, recipients = $10, published_at = $11, updated_at = $12
    WHERE id = $1
  `, c.ID, c.Title, c.Category, c.Content, c.EffectiveDate, c.ExpiryDate, nonNil(c.Departments), nonNil(c.EmployeeIDs),
		c.Status, c.Recipients, c.PublishedAt, c.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCircularNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM circulars WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCircularNotFound
	}
	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
