package models

import (
	"time"
)

type Workout struct {
	ID              string    `bson:"-" json:"id"`
	UserID          string    `bson:"user_id" json:"user_id"`
	Type            string    `bson:"type" json:"type" binding:"required"`
	Date            time.Time `bson:"date" json:"date" binding:"required"`
	DurationMinutes int       `bson:"duration_minutes" json:"duration_minutes" binding:"gte=0"`

	// Optional attributes. Which ones apply depends on Type, but nothing enforces it.
	Location       string   `bson:"location,omitempty" json:"location,omitempty"`
	Details        string   `bson:"details,omitempty" json:"details,omitempty"`
	StartLocation  string   `bson:"start_location,omitempty" json:"start_location,omitempty"`
	EndLocation    string   `bson:"end_location,omitempty" json:"end_location,omitempty"`
	Distance       *float64 `bson:"distance,omitempty" json:"distance,omitempty"`
	CaloriesBurned *int     `bson:"calories_burned,omitempty" json:"calories_burned,omitempty"`
	MainMuscles    []string `bson:"main_muscles,omitempty" json:"main_muscles,omitempty"`
	Poses          []string `bson:"poses,omitempty" json:"poses,omitempty"`
	EquipmentUsed  []string `bson:"equipment_used,omitempty" json:"equipment_used,omitempty"`
}

// Clone returns a deep copy so stores never share slices with callers.
func (w Workout) Clone() Workout {
	out := w
	if w.Distance != nil {
		d := *w.Distance
		out.Distance = &d
	}
	if w.CaloriesBurned != nil {
		c := *w.CaloriesBurned
		out.CaloriesBurned = &c
	}
	out.MainMuscles = append([]string(nil), w.MainMuscles...)
	out.Poses = append([]string(nil), w.Poses...)
	out.EquipmentUsed = append([]string(nil), w.EquipmentUsed...)
	return out
}
