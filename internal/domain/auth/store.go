package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"officehr/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const userColumns = "id, name, email, password_hash, role, status, last_login, created_at"

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Status, &u.LastLogin, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

func (s *Store) Create(ctx context.Context, user User) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO users (id, name, email, password_hash, role, status, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.Status, user.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailTaken
	}
	return err
}

func (s *Store) Get(ctx context.Context, id string) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

func (s *Store) FindByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email))
}

func (s *Store) List(ctx context.Context, status string) ([]User, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE ($1 = '' OR status = $1)
    ORDER BY created_at
  `, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) SetStatus(ctx context.Context, id, status string) error {
	return s.execOne(ctx, "UPDATE users SET status = $2 WHERE id = $1", id, status)
}

func (s *Store) SetPassword(ctx context.Context, id, hash string) error {
	return s.execOne(ctx, "UPDATE users SET password_hash = $2 WHERE id = $1", id, hash)
}

func (s *Store) TouchLogin(ctx context.Context, id string) error {
	return s.execOne(ctx, "UPDATE users SET last_login = now() WHERE id = $1", id)
}

func (s *Store) execOne(ctx context.Context, sql string, args ...any) error {
	tag, err := s.DB.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
