package repositories

import (
	"context"
	"errors"

	"gate-backend/internal/apperrors"
	"gate-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `
	id, name, email, password_hash, role, location,
	totp_enabled, totp_secret, is_disabled, last_login,
	created_by, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Location,
		&u.TOTPEnabled, &u.TOTPSecret, &u.IsDisabled, &u.LastLogin,
		&u.CreatedBy, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role, location, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, user.Name, user.Email, user.PasswordHash, user.Role, user.Location, user.CreatedBy).
		Scan(&user.ID, &user.CreatedAt)
}

func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	return scanUser(r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) SetDisabled(ctx context.Context, id int, disabled bool) error {
	tag, err := r.DB.Exec(ctx, `UPDATE users SET is_disabled = $1, updated_at = NOW() WHERE id = $2`, disabled, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	tag, err := r.DB.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `UPDATE users SET last_login = NOW() WHERE id = $1`, id)
	return err
}

func (r *UserRepository) SetTOTPSecret(ctx context.Context, id int, secret string) error {
	_, err := r.DB.Exec(ctx, `UPDATE users SET totp_secret = $1, totp_enabled = FALSE, updated_at = NOW() WHERE id = $2`, secret, id)
	return err
}

func (r *UserRepository) EnableTOTP(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *UserRepository) DisableTOTP(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `UPDATE users SET totp_enabled = FALSE, totp_secret = '', updated_at = NOW() WHERE id = $1`, id)
	return err
}

// CountAdmins backs the first-run admin seed.
func (r *UserRepository) CountAdmins(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, models.RoleAdmin).Scan(&count)
	return count, err
}
