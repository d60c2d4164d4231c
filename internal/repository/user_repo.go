package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"agro-analytics/internal/domain"
)

const pgUniqueViolation = "23505"

// ErrDuplicateEmail indica que ya existe un usuario con ese email.
var ErrDuplicateEmail = errors.New("duplicate email")

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// PgUserRepository implementa UserRepository usando pgx.
type PgUserRepository struct {
	db DBTX
}

func NewPgUserRepository(db DBTX) *PgUserRepository {
	return &PgUserRepository{db: db}
}

// Create inserta el usuario y devuelve la fila con id asignado. La unicidad del
// email la garantiza el indice UNIQUE, no un chequeo previo.
func (r *PgUserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const query = `
		INSERT INTO users (email, name, farm_size, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		user.Email,
		user.Name,
		user.FarmSize,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.User{}, ErrDuplicateEmail
		}
		return domain.User{}, err
	}
	user.UpdatedAt = user.CreatedAt
	return user, nil
}

func (r *PgUserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	const query = `
		SELECT id, email, name, farm_size, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `
		SELECT id, email, name, farm_size, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *PgUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.FarmSize,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}
