package repository

import (
	"context"

	"github.com/joninet/app-activapro/internal/models"
)

type CreatePlanInput struct {
	CoachID        int64
	ActivityTypeID int64
	Name           string
	Description    string
	DurationWeeks  int
	IsTemplate     bool
}

type CreateWeekInput struct {
	PlanID      int64
	Number      int
	Name        string
	Description string
}

type CreateTemplateDayInput struct {
	WeekID    int64
	RoutineID *int64
	Weekday   models.Weekday
	Position  int
	Notes     string
}

type PlanRepository struct {
	db DBTX
}

func NewPlanRepository(db DBTX) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(ctx context.Context, input CreatePlanInput) (*models.Plan, error) {
	query := `
		INSERT INTO plans (coach_id, activity_type_id, name, description, duration_weeks, is_template)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, coach_id, activity_type_id, name, description, duration_weeks, is_template, created_at, updated_at
	`
	var plan models.Plan
	err := r.db.QueryRow(ctx, query,
		input.CoachID, input.ActivityTypeID, input.Name, input.Description,
		input.DurationWeeks, input.IsTemplate).Scan(
		&plan.ID, &plan.CoachID, &plan.ActivityTypeID, &plan.Name, &plan.Description,
		&plan.DurationWeeks, &plan.IsTemplate, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) GetByID(ctx context.Context, id int64) (*models.Plan, error) {
	query := `
		SELECT id, coach_id, activity_type_id, name, description, duration_weeks, is_template, created_at, updated_at
		FROM plans
		WHERE id = $1
	`
	var plan models.Plan
	err := r.db.QueryRow(ctx, query, id).Scan(
		&plan.ID, &plan.CoachID, &plan.ActivityTypeID, &plan.Name, &plan.Description,
		&plan.DurationWeeks, &plan.IsTemplate, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) ListByCoachID(ctx context.Context, coachID int64) ([]models.Plan, error) {
	query := `
		SELECT id, coach_id, activity_type_id, name, description, duration_weeks, is_template, created_at, updated_at
		FROM plans
		WHERE coach_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []models.Plan
	for rows.Next() {
		var plan models.Plan
		if err := rows.Scan(
			&plan.ID, &plan.CoachID, &plan.ActivityTypeID, &plan.Name, &plan.Description,
			&plan.DurationWeeks, &plan.IsTemplate, &plan.CreatedAt, &plan.UpdatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func (r *PlanRepository) CreateWeek(ctx context.Context, input CreateWeekInput) (*models.Week, error) {
	query := `
		INSERT INTO weeks (plan_id, number, name, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, plan_id, number, name, description
	`
	var week models.Week
	err := r.db.QueryRow(ctx, query, input.PlanID, input.Number, input.Name, input.Description).Scan(
		&week.ID, &week.PlanID, &week.Number, &week.Name, &week.Description)
	if err != nil {
		return nil, err
	}
	return &week, nil
}

func (r *PlanRepository) GetWeekByID(ctx context.Context, id int64) (*models.Week, error) {
	query := `
		SELECT id, plan_id, number, name, description
		FROM weeks
		WHERE id = $1
	`
	var week models.Week
	err := r.db.QueryRow(ctx, query, id).Scan(
		&week.ID, &week.PlanID, &week.Number, &week.Name, &week.Description)
	if err != nil {
		return nil, err
	}
	return &week, nil
}

func (r *PlanRepository) ListWeeks(ctx context.Context, planID int64) ([]models.Week, error) {
	query := `
		SELECT id, plan_id, number, name, description
		FROM weeks
		WHERE plan_id = $1
		ORDER BY number
	`
	rows, err := r.db.Query(ctx, query, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var weeks []models.Week
	for rows.Next() {
		var week models.Week
		if err := rows.Scan(&week.ID, &week.PlanID, &week.Number, &week.Name, &week.Description); err != nil {
			return nil, err
		}
		weeks = append(weeks, week)
	}
	return weeks, rows.Err()
}

func (r *PlanRepository) CreateTemplateDay(ctx context.Context, input CreateTemplateDayInput) (*models.TemplateDay, error) {
	query := `
		INSERT INTO template_days (week_id, routine_id, weekday, position, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, week_id, routine_id, weekday, position, notes
	`
	var day models.TemplateDay
	err := r.db.QueryRow(ctx, query,
		input.WeekID, input.RoutineID, input.Weekday, input.Position, input.Notes).Scan(
		&day.ID, &day.WeekID, &day.RoutineID, &day.Weekday, &day.Position, &day.Notes)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// ListTemplateDaysByPlanID returns every template day of the plan across
// all weeks, ordered by week number then position.
func (r *PlanRepository) ListTemplateDaysByPlanID(ctx context.Context, planID int64) ([]models.TemplateDay, error) {
	query := `
		SELECT td.id, td.week_id, td.routine_id, td.weekday, td.position, td.notes
		FROM template_days td
		JOIN weeks w ON w.id = td.week_id
		WHERE w.plan_id = $1
		ORDER BY w.number, td.position
	`
	rows, err := r.db.Query(ctx, query, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []models.TemplateDay
	for rows.Next() {
		var day models.TemplateDay
		if err := rows.Scan(&day.ID, &day.WeekID, &day.RoutineID, &day.Weekday, &day.Position, &day.Notes); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}
