package repository

import (
	"context"
	"fmt"

	"rehab-server/internal/models"
	"rehab-server/internal/records"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	findProfileQuery = `
		SELECT user_id, name, gender, dob, country, height, weight, updated_at
		FROM profiles
		WHERE user_id = $1;
	`
	// INSERT ... ON CONFLICT DO UPDATE: одна атомарная операция на user_id,
	// конкурирующие первые записи не могут создать две строки.
	upsertProfileQuery = `
		INSERT INTO profiles (user_id, name, gender, dob, country, height, weight, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			gender = EXCLUDED.gender,
			dob = EXCLUDED.dob,
			country = EXCLUDED.country,
			height = EXCLUDED.height,
			weight = EXCLUDED.weight,
			updated_at = NOW()
		RETURNING user_id, name, gender, dob, country, height, weight, updated_at;
	`
)

// Compile-time check to ensure pgProfileRepository implements records.Repository
var _ records.Repository[models.Profile] = (*pgProfileRepository)(nil)

type pgProfileRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgProfileRepository creates a PostgreSQL-backed profile record store.
func NewPgProfileRepository(db DBTX, logger *zap.Logger) *pgProfileRepository {
	return &pgProfileRepository{
		db:     db,
		logger: logger.Named("PgProfileRepo"),
	}
}

// Find returns the profile for the user, or models.ErrRecordNotFound.
func (r *pgProfileRepository) Find(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile := &models.Profile{}
	err := pgxscan.Get(ctx, r.db, profile, findProfileQuery, userID)
	if err != nil {
		if pgxscan.NotFound(err) {
			r.logger.Debug("Profile not found", zap.String("userID", userID.String()))
			return nil, models.ErrRecordNotFound
		}
		r.logger.Error("Failed to query profile", zap.String("userID", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("db error querying profile: %w", err)
	}
	return profile, nil
}

// Upsert writes the profile wholesale, creating the row on first save.
func (r *pgProfileRepository) Upsert(ctx context.Context, userID uuid.UUID, p *models.Profile) (*models.Profile, error) {
	saved := &models.Profile{}
	err := pgxscan.Get(ctx, r.db, saved, upsertProfileQuery,
		userID, p.Name, p.Gender, p.DateOfBirth, p.Country, p.Height, p.Weight)
	if err != nil {
		r.logger.Error("Failed to upsert profile", zap.String("userID", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("db error upserting profile: %w", err)
	}

	r.logger.Debug("Successfully upserted profile", zap.String("userID", userID.String()))
	return saved, nil
}
