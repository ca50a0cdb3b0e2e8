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
	findRehabilitationQuery = `
		SELECT user_id, description, audio_recording, audio_mime_type, updated_at
		FROM rehabilitations
		WHERE user_id = $1;
	`
	// COALESCE сохраняет ранее загруженное аудио, когда повторное сохранение
	// приходит без нового файла. Замена и сохранение остаются одним
	// атомарным стейтментом.
	upsertRehabilitationQuery = `
		INSERT INTO rehabilitations (user_id, description, audio_recording, audio_mime_type, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET
			description = EXCLUDED.description,
			audio_recording = COALESCE(EXCLUDED.audio_recording, rehabilitations.audio_recording),
			audio_mime_type = COALESCE(EXCLUDED.audio_mime_type, rehabilitations.audio_mime_type),
			updated_at = NOW()
		RETURNING user_id, description, audio_recording, audio_mime_type, updated_at;
	`
)

// Compile-time check to ensure pgRehabilitationRepository implements records.Repository
var _ records.Repository[models.Rehabilitation] = (*pgRehabilitationRepository)(nil)

type pgRehabilitationRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgRehabilitationRepository creates a PostgreSQL-backed rehabilitation record store.
func NewPgRehabilitationRepository(db DBTX, logger *zap.Logger) *pgRehabilitationRepository {
	return &pgRehabilitationRepository{
		db:     db,
		logger: logger.Named("PgRehabRepo"),
	}
}

// Find returns the rehabilitation record for the user, or models.ErrRecordNotFound.
func (r *pgRehabilitationRepository) Find(ctx context.Context, userID uuid.UUID) (*models.Rehabilitation, error) {
	rehab := &models.Rehabilitation{}
	err := pgxscan.Get(ctx, r.db, rehab, findRehabilitationQuery, userID)
	if err != nil {
		if pgxscan.NotFound(err) {
			r.logger.Debug("Rehabilitation record not found", zap.String("userID", userID.String()))
			return nil, models.ErrRecordNotFound
		}
		r.logger.Error("Failed to query rehabilitation record", zap.String("userID", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("db error querying rehabilitation record: %w", err)
	}
	return rehab, nil
}

// Upsert saves the description and, when supplied, the audio attachment as
// one unit. A nil audio payload leaves any stored recording in place.
func (r *pgRehabilitationRepository) Upsert(ctx context.Context, userID uuid.UUID, rec *models.Rehabilitation) (*models.Rehabilitation, error) {
	saved := &models.Rehabilitation{}
	err := pgxscan.Get(ctx, r.db, saved, upsertRehabilitationQuery,
		userID, rec.Description, rec.AudioRecording, rec.AudioMimeType)
	if err != nil {
		r.logger.Error("Failed to upsert rehabilitation record", zap.String("userID", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("db error upserting rehabilitation record: %w", err)
	}

	r.logger.Debug("Successfully upserted rehabilitation record",
		zap.String("userID", userID.String()),
		zap.Bool("hasAudio", saved.HasAudio()),
	)
	return saved, nil
}
