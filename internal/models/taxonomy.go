package models

import "time"

// ActivityType classifies routines and plans (running, cycling, ...).
// A nil CoachID means the type is global; otherwise it is private to the
// owning coach, who may shadow a global name with their own definition.
type ActivityType struct {
	ID          int64     `json:"id"`
	CoachID     *int64    `json:"coach_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// RoutineType classifies routines by workout style (intervals, strength,
// endurance, ...). Same global/owned split as ActivityType.
type RoutineType struct {
	ID          int64     `json:"id"`
	CoachID     *int64    `json:"coach_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (a *ActivityType) IsGlobal() bool {
	return a.CoachID == nil
}

func (r *RoutineType) IsGlobal() bool {
	return r.CoachID == nil
}
