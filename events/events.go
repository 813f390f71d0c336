// Package events publishes workout lifecycle messages.
package events

import (
	"context"
	"time"

	"activeflow/models"
)

// WorkoutCreated is emitted once a workout has been stored.
type WorkoutCreated struct {
	WorkoutID       string    `json:"workout_id"`
	UserID          string    `json:"user_id"`
	Type            string    `json:"type"`
	Date            time.Time `json:"date"`
	DurationMinutes int       `json:"duration_minutes"`
	OccurredAt      time.Time `json:"occurred_at"`
}

func NewWorkoutCreated(w models.Workout, now time.Time) WorkoutCreated {
	return WorkoutCreated{
		WorkoutID:       w.ID,
		UserID:          w.UserID,
		Type:            w.Type,
		Date:            w.Date.UTC(),
		DurationMinutes: w.DurationMinutes,
		OccurredAt:      now.UTC(),
	}
}

type Publisher interface {
	PublishWorkoutCreated(ctx context.Context, evt WorkoutCreated) error
	Close() error
}

// Nop discards every event. Used when no broker is configured.
type Nop struct{}

func (Nop) PublishWorkoutCreated(context.Context, WorkoutCreated) error { return nil }
func (Nop) Close() error { return nil }
