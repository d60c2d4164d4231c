package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agro-analytics/internal/domain"
)

func TestPgLoginOTPRepository_Create(t *testing.T) {
	db := &fakeDB{row: fakeRow{values: []any{int64(11)}}}
	repo := NewPgLoginOTPRepository(db)
	now := time.Now().UTC()

	otp, err := repo.Create(context.Background(), domain.LoginOTP{
		Email:     "farmer@example.com",
		Code:      "012345",
		ExpiresAt: now.Add(10 * time.Minute),
		CreatedAt: now,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), otp.ID)
	assert.False(t, otp.Used)
	assert.Equal(t, "012345", db.lastArgs[1])
}

func TestPgLoginOTPRepository_FindActiveFiltersAndOrders(t *testing.T) {
	now := time.Now().UTC()
	db := &fakeDB{row: fakeRow{values: []any{int64(4), "farmer@example.com", "123456", now.Add(time.Minute), false, now}}}
	repo := NewPgLoginOTPRepository(db)

	otp, err := repo.FindActive(context.Background(), "farmer@example.com", "123456", now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), otp.ID)
	assert.Contains(t, db.lastSQL, "expires_at > $3")
	assert.Contains(t, db.lastSQL, "used = FALSE")
	assert.Contains(t, db.lastSQL, "ORDER BY created_at DESC")
	assert.Equal(t, []any{"farmer@example.com", "123456", now}, db.lastArgs)
}

func TestPgLoginOTPRepository_FindActiveNoRows(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}
	repo := NewPgLoginOTPRepository(db)

	_, err := repo.FindActive(context.Background(), "farmer@example.com", "000000", time.Now())
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestPgLoginOTPRepository_ConsumeCompareAndSet(t *testing.T) {
	db := &fakeDB{tag: pgconn.NewCommandTag("UPDATE 1")}
	repo := NewPgLoginOTPRepository(db)

	ok, err := repo.Consume(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, db.lastSQL, "WHERE id = $1 AND used = FALSE")

	db.tag = pgconn.NewCommandTag("UPDATE 0")
	ok, err = repo.Consume(context.Background(), 4)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPgLoginOTPRepository_ConsumeError(t *testing.T) {
	boom := errors.New("db down")
	db := &fakeDB{execErr: boom}
	repo := NewPgLoginOTPRepository(db)

	_, err := repo.Consume(context.Background(), 1)
	require.ErrorIs(t, err, boom)
}

func TestPgRegistrationOTPRepository_RoundTripFields(t *testing.T) {
	now := time.Now().UTC()
	db := &fakeDB{row: fakeRow{values: []any{int64(2)}}}
	repo := NewPgRegistrationOTPRepository(db)

	otp, err := repo.Create(context.Background(), domain.RegistrationOTP{
		Email:     "new@x.com",
		Name:      "New",
		FarmSize:  0,
		Code:      "999999",
		ExpiresAt: now.Add(10 * time.Minute),
		CreatedAt: now,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), otp.ID)
	assert.Equal(t, float64(0), db.lastArgs[2])

	db.row = fakeRow{values: []any{int64(2), "new@x.com", "New", float64(0), "999999", now.Add(10 * time.Minute), false, now}}
	found, err := repo.FindActive(context.Background(), "new@x.com", "999999", now)
	require.NoError(t, err)
	assert.Equal(t, "New", found.Name)
	assert.Equal(t, float64(0), found.FarmSize)

	db.tag = pgconn.NewCommandTag("UPDATE 1")
	ok, err := repo.Consume(context.Background(), found.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, db.lastSQL, "registration_otps")
}
