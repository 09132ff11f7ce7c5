package repositories

import (
	"context"

	"gate-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type LoginLogRepository struct {
	DB *pgxpool.Pool
}

func NewLoginLogRepository(db *pgxpool.Pool) *LoginLogRepository {
	return &LoginLogRepository{DB: db}
}

func (r *LoginLogRepository) Record(ctx context.Context, userID int, ipAddress, userAgent string, success bool) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO login_logs (user_id, ip_address, user_agent, success)
		VALUES ($1, $2, $3, $4)
	`, userID, ipAddress, userAgent, success)
	return err
}

// ListRecent returns the newest login attempts for the admin audit view.
func (r *LoginLogRepository) ListRecent(ctx context.Context, limit int) ([]models.LoginLog, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT l.id, l.user_id, COALESCE(u.email, ''), l.ip_address, l.user_agent, l.success, l.created_at
		FROM login_logs l
		LEFT JOIN users u ON l.user_id = u.id
		ORDER BY l.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.LoginLog{}
	for rows.Next() {
		var l models.LoginLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Email, &l.IPAddress, &l.UserAgent, &l.Success, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
