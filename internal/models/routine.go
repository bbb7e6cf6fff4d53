package models

import "time"

// Routine is a reusable workout definition authored by a coach, e.g.
// "5x800m + 3x500m, 2min recovery".
type Routine struct {
	ID             int64     `json:"id"`
	CoachID        int64     `json:"coach_id"`
	ActivityTypeID int64     `json:"activity_type_id"`
	RoutineTypeID  *int64    `json:"routine_type_id,omitempty"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Details        string    `json:"details"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
