package repositories

import (
	"context"
	"errors"

	"gate-backend/internal/apperrors"
	"gate-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VehicleRepository struct {
	DB *pgxpool.Pool
}

func NewVehicleRepository(db *pgxpool.Pool) *VehicleRepository {
	return &VehicleRepository{DB: db}
}

// GetByNumber looks up a vehicle for the autofill endpoint. Registration
// numbers are stored uppercase, so the key is normalized before the query.
func (r *VehicleRepository) GetByNumber(ctx context.Context, vehicleNumber string) (*models.Vehicle, error) {
	var v models.Vehicle
	err := r.DB.QueryRow(ctx, `
		SELECT vehicle_number, vehicle_type FROM vehicles WHERE vehicle_number = $1
	`, models.NormalizeVehicleNumber(vehicleNumber)).Scan(&v.VehicleNumber, &v.VehicleType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *VehicleRepository) List(ctx context.Context) ([]models.Vehicle, error) {
	rows, err := r.DB.Query(ctx, `SELECT vehicle_number, vehicle_type FROM vehicles ORDER BY vehicle_number ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := []models.Vehicle{}
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.VehicleNumber, &v.VehicleType); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}
