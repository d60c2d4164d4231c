package repository

import (
	"context"
	"time"

	"agro-analytics/internal/domain"
)

// RegistrationOTPRepository persiste registros pendientes con su codigo.
type RegistrationOTPRepository interface {
	Create(ctx context.Context, otp domain.RegistrationOTP) (domain.RegistrationOTP, error)
	FindActive(ctx context.Context, email, code string, now time.Time) (domain.RegistrationOTP, error)
	Consume(ctx context.Context, id int64) (bool, error)
}

type PgRegistrationOTPRepository struct {
	db DBTX
}

func NewPgRegistrationOTPRepository(db DBTX) *PgRegistrationOTPRepository {
	return &PgRegistrationOTPRepository{db: db}
}

func (r *PgRegistrationOTPRepository) Create(ctx context.Context, otp domain.RegistrationOTP) (domain.RegistrationOTP, error) {
	const query = `
		INSERT INTO registration_otps (email, name, farm_size, code, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6)
		RETURNING id
	`
	if err := r.db.QueryRow(ctx, query,
		otp.Email,
		otp.Name,
		otp.FarmSize,
		otp.Code,
		otp.ExpiresAt,
		otp.CreatedAt,
	).Scan(&otp.ID); err != nil {
		return domain.RegistrationOTP{}, err
	}
	otp.Used = false
	return otp, nil
}

func (r *PgRegistrationOTPRepository) FindActive(ctx context.Context, email, code string, now time.Time) (domain.RegistrationOTP, error) {
	const query = `
		SELECT id, email, name, farm_size, code, expires_at, used, created_at
		FROM registration_otps
		WHERE email = $1 AND code = $2 AND expires_at > $3 AND used = FALSE
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var otp domain.RegistrationOTP
	err := r.db.QueryRow(ctx, query, email, code, now).Scan(
		&otp.ID,
		&otp.Email,
		&otp.Name,
		&otp.FarmSize,
		&otp.Code,
		&otp.ExpiresAt,
		&otp.Used,
		&otp.CreatedAt,
	)
	if err != nil {
		return domain.RegistrationOTP{}, err
	}
	return otp, nil
}

func (r *PgRegistrationOTPRepository) Consume(ctx context.Context, id int64) (bool, error) {
	const query = `UPDATE registration_otps SET used = TRUE WHERE id = $1 AND used = FALSE`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
