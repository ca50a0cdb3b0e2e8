// Package records implements the keyed-upsert pattern shared by the profile
// and rehabilitation stores: get-or-default on reads, validate-then-write on
// saves, one record per user.
package records

import (
	"context"
	"errors"
	"fmt"

	"rehab-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Repository is the storage contract for a one-per-user record type. Upsert
// must be atomic per userID (conditional insert-or-update on the unique key)
// so concurrent first-writes cannot produce duplicate rows.
type Repository[R any] interface {
	// Find returns the stored record or models.ErrRecordNotFound.
	Find(ctx context.Context, userID uuid.UUID) (*R, error)

	// Upsert creates the record on first save and overwrites it afterwards,
	// returning the stored state.
	Upsert(ctx context.Context, userID uuid.UUID, record *R) (*R, error)
}

// Validator checks (and may normalize) a record before it is written.
// Ошибка валидации должна быть *models.ValidationError.
type Validator[R any] func(*R) error

// Engine applies the get-or-create-or-update pattern for one entity type.
type Engine[R any] struct {
	repo     Repository[R]
	validate Validator[R]
	empty    func(uuid.UUID) *R
	logger   *zap.Logger
}

// NewEngine builds an Engine over the given store. empty produces the
// default-empty shape returned when no record exists yet.
func NewEngine[R any](repo Repository[R], validate Validator[R], empty func(uuid.UUID) *R, logger *zap.Logger) *Engine[R] {
	return &Engine[R]{
		repo:     repo,
		validate: validate,
		empty:    empty,
		logger:   logger,
	}
}

// Get returns the user's record, or the default-empty shape when none exists.
// Отсутствие записи - не ошибка: читающим не нужно обрабатывать "not found".
func (e *Engine[R]) Get(ctx context.Context, userID uuid.UUID) (*R, error) {
	record, err := e.repo.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return e.empty(userID), nil
		}
		// Ошибка уже залогирована репозиторием
		return nil, fmt.Errorf("failed to load record: %w", err)
	}
	return record, nil
}

// Upsert validates the record and writes it as a single logical operation.
// On validation failure nothing is written or altered.
func (e *Engine[R]) Upsert(ctx context.Context, userID uuid.UUID, record *R) (*R, error) {
	if err := e.validate(record); err != nil {
		e.logger.Warn("Record rejected by validation",
			zap.String("userID", userID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	saved, err := e.repo.Upsert(ctx, userID, record)
	if err != nil {
		// Ошибка уже залогирована репозиторием
		return nil, fmt.Errorf("failed to upsert record: %w", err)
	}

	e.logger.Debug("Record upserted", zap.String("userID", userID.String()))
	return saved, nil
}
