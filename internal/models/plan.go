package models

import "time"

// Weekday is the template slot vocabulary. Values match the lowercase
// English weekday names stored in the database.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// WeekdayOf maps a calendar date to its template slot.
func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

func (w Weekday) Valid() bool {
	switch w {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// Plan is a multi-week training template authored by a coach.
type Plan struct {
	ID             int64     `json:"id"`
	CoachID        int64     `json:"coach_id"`
	ActivityTypeID int64     `json:"activity_type_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	DurationWeeks  int       `json:"duration_weeks"`
	IsTemplate     bool      `json:"is_template"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Week is one numbered week inside a plan. Numbers start at 1 and are
// unique per plan.
type Week struct {
	ID          int64  `json:"id"`
	PlanID      int64  `json:"plan_id"`
	Number      int    `json:"number"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TemplateDay is a weekday slot within a week. A nil RoutineID makes the
// slot a rest day; there is no separate stored flag.
type TemplateDay struct {
	ID        int64   `json:"id"`
	WeekID    int64   `json:"week_id"`
	RoutineID *int64  `json:"routine_id,omitempty"`
	Weekday   Weekday `json:"weekday"`
	Position  int     `json:"position"`
	Notes     string  `json:"notes"`
}

func (d *TemplateDay) IsRestDay() bool {
	return d.RoutineID == nil
}
