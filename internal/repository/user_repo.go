package repository

import (
	"context"
	"time"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
)

type UserRepository struct {
	DB DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `userid, email, passwordhash, first_name, last_name, role,
		is_active, is_email_verified, last_login, password_changed_at,
		created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.UserID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Role, &u.IsActive, &u.IsEmailVerified, &u.LastLogin, &u.PasswordChangedAt,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

// Create inserts a new user and returns the created userid.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash, firstName, lastName, role string) (int64, error) {
	var id int64
	query := `INSERT INTO users (email, passwordhash, first_name, last_name, role)
			VALUES ($1, $2, $3, $4, $5) RETURNING userid`
	if err := r.DB.QueryRow(ctx, query, email, passwordHash, firstName, lastName, role).Scan(&id); err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE userid=$1`
	return scanUser(r.DB.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return scanUser(r.DB.QueryRow(ctx, query, email))
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email=$1)`
	if err := r.DB.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY userid LIMIT $1 OFFSET $2`
	rows, err := r.DB.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *u)
	}
	return list, rows.Err()
}

// UpdatePassword stores a new hash and stamps password_changed_at so that
// tokens issued before the change fail verification.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string, changedAt time.Time) error {
	query := `UPDATE users SET passwordhash=$1, password_changed_at=$2, updated_at=now() WHERE userid=$3`
	tag, err := r.DB.Exec(ctx, query, passwordHash, changedAt, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	_, err := r.DB.Exec(ctx, `UPDATE users SET last_login=now() WHERE userid=$1`, id)
	return err
}

// SetActive soft-enables or soft-disables an account; users are never
// deleted. Idempotent: setting the state an account is already in succeeds.
func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE users SET is_active=$1, updated_at=now() WHERE userid=$2`
	tag, err := r.DB.Exec(ctx, query, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetEmailVerified(ctx context.Context, email string) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE users
		SET is_email_verified = TRUE, updated_at = now()
		WHERE email = $1
	`, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
