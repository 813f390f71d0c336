// Package store holds the backing-store adapters: workouts, identities and sessions.
package store

import (
	"context"
	"errors"

	"activeflow/models"
)

var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrInvalidID       = errors.New("invalid workout id")
)

// WorkoutStore is implemented by every workout backend.
type WorkoutStore interface {
	// Create assigns an identifier to w, persists it and returns the identifier.
	Create(ctx context.Context, w *models.Workout) (string, error)
	Get(ctx context.Context, id string) (*models.Workout, error)
	// ListByUser never returns a nil slice.
	ListByUser(ctx context.Context, userID string) ([]models.Workout, error)
	Update(ctx context.Context, id string, w *models.Workout) error
	// Delete is a no-op for unknown identifiers.
	Delete(ctx context.Context, id string) error
}
