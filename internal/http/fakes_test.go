package http

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"agro-analytics/internal/domain"
	"agro-analytics/internal/repository"
)

type fakeUserRepo struct {
	users map[string]domain.User
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u domain.User) (domain.User, error) {
	if r.err != nil {
		return domain.User{}, r.err
	}
	if _, ok := r.users[u.Email]; ok {
		return domain.User{}, repository.ErrDuplicateEmail
	}
	u.ID = int64(len(r.users) + 1)
	r.users[u.Email] = u
	return u, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (domain.User, error) {
	if r.err != nil {
		return domain.User{}, r.err
	}
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	if r.err != nil {
		return domain.User{}, r.err
	}
	u, ok := r.users[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.users[email]
	return ok, nil
}

type fakeLoginOTPRepo struct {
	rows []domain.LoginOTP
}

func (r *fakeLoginOTPRepo) Create(_ context.Context, otp domain.LoginOTP) (domain.LoginOTP, error) {
	otp.ID = int64(len(r.rows) + 1)
	r.rows = append(r.rows, otp)
	return otp, nil
}

func (r *fakeLoginOTPRepo) FindActive(_ context.Context, email, code string, now time.Time) (domain.LoginOTP, error) {
	for i := len(r.rows) - 1; i >= 0; i-- {
		o := r.rows[i]
		if o.Email == email && o.Code == code && !o.Used && o.ExpiresAt.After(now) {
			return o, nil
		}
	}
	return domain.LoginOTP{}, pgx.ErrNoRows
}

func (r *fakeLoginOTPRepo) Consume(_ context.Context, id int64) (bool, error) {
	for i := range r.rows {
		if r.rows[i].ID == id && !r.rows[i].Used {
			r.rows[i].Used = true
			return true, nil
		}
	}
	return false, nil
}

type fakeRegistrationOTPRepo struct {
	rows []domain.RegistrationOTP
}

func (r *fakeRegistrationOTPRepo) Create(_ context.Context, otp domain.RegistrationOTP) (domain.RegistrationOTP, error) {
	otp.ID = int64(len(r.rows) + 1)
	r.rows = append(r.rows, otp)
	return otp, nil
}

func (r *fakeRegistrationOTPRepo) FindActive(_ context.Context, email, code string, now time.Time) (domain.RegistrationOTP, error) {
	for i := len(r.rows) - 1; i >= 0; i-- {
		o := r.rows[i]
		if o.Email == email && o.Code == code && !o.Used && o.ExpiresAt.After(now) {
			return o, nil
		}
	}
	return domain.RegistrationOTP{}, pgx.ErrNoRows
}

func (r *fakeRegistrationOTPRepo) Consume(_ context.Context, id int64) (bool, error) {
	for i := range r.rows {
		if r.rows[i].ID == id && !r.rows[i].Used {
			r.rows[i].Used = true
			return true, nil
		}
	}
	return false, nil
}

type fakeSnapshotRepo struct {
	rows []domain.WeatherSnapshot
}

func (r *fakeSnapshotRepo) Create(_ context.Context, s domain.WeatherSnapshot) error {
	s.ID = int64(len(r.rows) + 1)
	r.rows = append(r.rows, s)
	return nil
}

func (r *fakeSnapshotRepo) ListByLocation(_ context.Context, location string, limit int) ([]domain.WeatherSnapshot, error) {
	out := []domain.WeatherSnapshot{}
	for i := len(r.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if r.rows[i].Location == location {
			out = append(out, r.rows[i])
		}
	}
	return out, nil
}
