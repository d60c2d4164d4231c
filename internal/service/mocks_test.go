package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"agro-analytics/internal/domain"
	"agro-analytics/internal/email"
	"agro-analytics/internal/repository"
)

// memStore simula las tablas con las mismas garantias que Postgres:
// email unico en users y UPDATE condicional para consumir codigos.
type memStore struct {
	mu         sync.Mutex
	users      map[string]domain.User
	nextUserID int64
	loginOTPs  []domain.LoginOTP
	regOTPs    []domain.RegistrationOTP
	err        error
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]domain.User)}
}

type mockUserRepo struct{ s *memStore }
type mockLoginOTPRepo struct{ s *memStore }
type mockRegistrationOTPRepo struct{ s *memStore }

func (m mockUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return domain.User{}, m.s.err
	}
	if _, ok := m.s.users[user.Email]; ok {
		return domain.User{}, repository.ErrDuplicateEmail
	}
	m.s.nextUserID++
	user.ID = m.s.nextUserID
	user.UpdatedAt = user.CreatedAt
	m.s.users[user.Email] = user
	return user, nil
}

func (m mockUserRepo) GetByID(_ context.Context, id int64) (domain.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return domain.User{}, m.s.err
	}
	for _, u := range m.s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func (m mockUserRepo) GetByEmail(_ context.Context, emailAddr string) (domain.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return domain.User{}, m.s.err
	}
	u, ok := m.s.users[emailAddr]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (m mockUserRepo) ExistsByEmail(_ context.Context, emailAddr string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return false, m.s.err
	}
	_, ok := m.s.users[emailAddr]
	return ok, nil
}

func (m mockLoginOTPRepo) Create(_ context.Context, otp domain.LoginOTP) (domain.LoginOTP, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return domain.LoginOTP{}, m.s.err
	}
	otp.ID = int64(len(m.s.loginOTPs) + 1)
	m.s.loginOTPs = append(m.s.loginOTPs, otp)
	return otp, nil
}

func (m mockLoginOTPRepo) FindActive(_ context.Context, emailAddr, code string, now time.Time) (domain.LoginOTP, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return domain.LoginOTP{}, m.s.err
	}
	var best *domain.LoginOTP
	for i := range m.s.loginOTPs {
		o := &m.s.loginOTPs[i]
		if o.Email != emailAddr || o.Code != code || o.Used || !o.ExpiresAt.After(now) {
			continue
		}
		if best == nil || o.CreatedAt.After(best.CreatedAt) || (o.CreatedAt.Equal(best.CreatedAt) && o.ID > best.ID) {
			best = o
		}
	}
	if best == nil {
		return domain.LoginOTP{}, pgx.ErrNoRows
	}
	return *best, nil
}

func (m mockLoginOTPRepo) Consume(_ context.Context, id int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return false, m.s.err
	}
	for i := range m.s.loginOTPs {
		if m.s.loginOTPs[i].ID == id && !m.s.loginOTPs[i].Used {
			m.s.loginOTPs[i].Used = true
			return true, nil
		}
	}
	return false, nil
}

func (m mockRegistrationOTPRepo) Create(_ context.Context, otp domain.RegistrationOTP) (domain.RegistrationOTP, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return domain.RegistrationOTP{}, m.s.err
	}
	otp.ID = int64(len(m.s.regOTPs) + 1)
	m.s.regOTPs = append(m.s.regOTPs, otp)
	return otp, nil
}

func (m mockRegistrationOTPRepo) FindActive(_ context.Context, emailAddr, code string, now time.Time) (domain.RegistrationOTP, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return domain.RegistrationOTP{}, m.s.err
	}
	var best *domain.RegistrationOTP
	for i := range m.s.regOTPs {
		o := &m.s.regOTPs[i]
		if o.Email != emailAddr || o.Code != code || o.Used || !o.ExpiresAt.After(now) {
			continue
		}
		if best == nil || o.CreatedAt.After(best.CreatedAt) || (o.CreatedAt.Equal(best.CreatedAt) && o.ID > best.ID) {
			best = o
		}
	}
	if best == nil {
		return domain.RegistrationOTP{}, pgx.ErrNoRows
	}
	return *best, nil
}

func (m mockRegistrationOTPRepo) Consume(_ context.Context, id int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.err != nil {
		return false, m.s.err
	}
	for i := range m.s.regOTPs {
		if m.s.regOTPs[i].ID == id && !m.s.regOTPs[i].Used {
			m.s.regOTPs[i].Used = true
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) loginCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.loginOTPs)
}

func (s *memStore) registrationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.regOTPs)
}

func (s *memStore) userCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

type mockEmailSender struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (m *mockEmailSender) Send(_ context.Context, msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *mockEmailSender) messages() []email.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]email.Message, len(m.sent))
	copy(out, m.sent)
	return out
}

type mockLimiter struct {
	allow bool
}

func (m *mockLimiter) Allow(_ context.Context, _ string) bool {
	return m.allow
}
