package repository

import (
	"context"
	"time"

	"agro-analytics/internal/domain"
)

// LoginOTPRepository persiste codigos de inicio de sesion.
type LoginOTPRepository interface {
	Create(ctx context.Context, otp domain.LoginOTP) (domain.LoginOTP, error)
	FindActive(ctx context.Context, email, code string, now time.Time) (domain.LoginOTP, error)
	Consume(ctx context.Context, id int64) (bool, error)
}

type PgLoginOTPRepository struct {
	db DBTX
}

func NewPgLoginOTPRepository(db DBTX) *PgLoginOTPRepository {
	return &PgLoginOTPRepository{db: db}
}

func (r *PgLoginOTPRepository) Create(ctx context.Context, otp domain.LoginOTP) (domain.LoginOTP, error) {
	const query = `
		INSERT INTO login_otps (email, code, expires_at, used, created_at)
		VALUES ($1, $2, $3, FALSE, $4)
		RETURNING id
	`
	if err := r.db.QueryRow(ctx, query,
		otp.Email,
		otp.Code,
		otp.ExpiresAt,
		otp.CreatedAt,
	).Scan(&otp.ID); err != nil {
		return domain.LoginOTP{}, err
	}
	otp.Used = false
	return otp, nil
}

// FindActive devuelve la fila mas reciente que coincide y sigue vigente.
// Devuelve pgx.ErrNoRows si no hay ninguna.
func (r *PgLoginOTPRepository) FindActive(ctx context.Context, email, code string, now time.Time) (domain.LoginOTP, error) {
	const query = `
		SELECT id, email, code, expires_at, used, created_at
		FROM login_otps
		WHERE email = $1 AND code = $2 AND expires_at > $3 AND used = FALSE
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var otp domain.LoginOTP
	err := r.db.QueryRow(ctx, query, email, code, now).Scan(
		&otp.ID,
		&otp.Email,
		&otp.Code,
		&otp.ExpiresAt,
		&otp.Used,
		&otp.CreatedAt,
	)
	if err != nil {
		return domain.LoginOTP{}, err
	}
	return otp, nil
}

// Consume marca el codigo como usado solo si seguia sin usar. Devuelve false
// cuando otro verificador lo consumio antes.
func (r *PgLoginOTPRepository) Consume(ctx context.Context, id int64) (bool, error) {
	const query = `UPDATE login_otps SET used = TRUE WHERE id = $1 AND used = FALSE`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
