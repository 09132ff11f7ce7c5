package repositories

import (
	"context"
	"errors"

	"gate-backend/internal/apperrors"
	"gate-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DriverRepository struct {
	DB *pgxpool.Pool
}

func NewDriverRepository(db *pgxpool.Pool) *DriverRepository {
	return &DriverRepository{DB: db}
}

// GetByMobile looks up a driver for the autofill endpoint.
func (r *DriverRepository) GetByMobile(ctx context.Context, mobile string) (*models.Driver, error) {
	var d models.Driver
	err := r.DB.QueryRow(ctx, `
		SELECT mobile, name FROM drivers WHERE mobile = $1
	`, mobile).Scan(&d.Mobile, &d.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DriverRepository) List(ctx context.Context) ([]models.Driver, error) {
	rows, err := r.DB.Query(ctx, `SELECT mobile, name FROM drivers ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := []models.Driver{}
	for rows.Next() {
		var d models.Driver
		if err := rows.Scan(&d.Mobile, &d.Name); err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}
