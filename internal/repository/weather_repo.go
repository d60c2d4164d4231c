package repository

import (
	"context"

	"agro-analytics/internal/domain"
)

type WeatherSnapshotRepository interface {
	Create(ctx context.Context, snapshot domain.WeatherSnapshot) error
	ListByLocation(ctx context.Context, location string, limit int) ([]domain.WeatherSnapshot, error)
}

type PgWeatherSnapshotRepository struct {
	db DBTX
}

func NewPgWeatherSnapshotRepository(db DBTX) *PgWeatherSnapshotRepository {
	return &PgWeatherSnapshotRepository{db: db}
}

func (r *PgWeatherSnapshotRepository) Create(ctx context.Context, s domain.WeatherSnapshot) error {
	const query = `
		INSERT INTO weather_snapshots (location, temperature, humidity, pressure, wind_speed, description, icon, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		s.Location,
		s.Temperature,
		s.Humidity,
		s.Pressure,
		s.WindSpeed,
		s.Description,
		s.Icon,
		s.CreatedAt,
	)
	return err
}

func (r *PgWeatherSnapshotRepository) ListByLocation(ctx context.Context, location string, limit int) ([]domain.WeatherSnapshot, error) {
	const query = `
		SELECT id, location,
			COALESCE(temperature, 0), COALESCE(humidity, 0), COALESCE(pressure, 0), COALESCE(wind_speed, 0),
			COALESCE(description, ''), COALESCE(icon, ''), created_at
		FROM weather_snapshots
		WHERE location = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, location, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]domain.WeatherSnapshot, 0, limit)
	for rows.Next() {
		var s domain.WeatherSnapshot
		if err := rows.Scan(
			&s.ID,
			&s.Location,
			&s.Temperature,
			&s.Humidity,
			&s.Pressure,
			&s.WindSpeed,
			&s.Description,
			&s.Icon,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
