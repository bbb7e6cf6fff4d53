package models

import "time"

const (
	AssignmentActive    = "active"
	AssignmentCompleted = "completed"
	AssignmentCancelled = "cancelled"
)

// PlanAssignment binds a plan to a trainee over a date range. Creating one
// materializes the plan's template into dated AssignedDay rows.
type PlanAssignment struct {
	ID        int64      `json:"id"`
	PlanID    int64      `json:"plan_id"`
	TraineeID int64      `json:"trainee_id"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TotalDays is the inclusive day count of an explicitly bounded
// assignment, nil while the assignment is open ended.
func (a *PlanAssignment) TotalDays() *int {
	if a.EndDate == nil {
		return nil
	}
	days := int(a.EndDate.Sub(a.StartDate).Hours()/24) + 1
	return &days
}

// AssignedDay is a concrete calendar-dated instance of a TemplateDay.
// Dates are unique within an assignment.
type AssignedDay struct {
	ID            int64     `json:"id"`
	AssignmentID  int64     `json:"assignment_id"`
	TemplateDayID int64     `json:"template_day_id"`
	Date          time.Time `json:"date"`
	Weekday       Weekday   `json:"weekday"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
