package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joninet/app-activapro/internal/models"
)

type CreateAssignmentInput struct {
	PlanID    int64
	TraineeID int64
	StartDate time.Time
	EndDate   *time.Time
}

type CreateAssignedDayInput struct {
	AssignmentID  int64
	TemplateDayID int64
	Date          time.Time
	Weekday       models.Weekday
}

type AssignmentRepository struct {
	db DBTX
}

func NewAssignmentRepository(db DBTX) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, input CreateAssignmentInput) (*models.PlanAssignment, error) {
	query := `
		INSERT INTO plan_assignments (plan_id, trainee_id, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, 'active')
		RETURNING id, plan_id, trainee_id, start_date, end_date, status, created_at, updated_at
	`
	return r.scanAssignment(r.db.QueryRow(ctx, query,
		input.PlanID, input.TraineeID, input.StartDate, input.EndDate))
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*models.PlanAssignment, error) {
	query := `
		SELECT id, plan_id, trainee_id, start_date, end_date, status, created_at, updated_at
		FROM plan_assignments
		WHERE id = $1
	`
	return r.scanAssignment(r.db.QueryRow(ctx, query, id))
}

func (r *AssignmentRepository) ListByTraineeID(ctx context.Context, traineeID int64) ([]models.PlanAssignment, error) {
	query := `
		SELECT id, plan_id, trainee_id, start_date, end_date, status, created_at, updated_at
		FROM plan_assignments
		WHERE trainee_id = $1
		ORDER BY start_date DESC
	`
	rows, err := r.db.Query(ctx, query, traineeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignments(rows)
}

// ListByCoachID returns assignments of every plan owned by the coach.
func (r *AssignmentRepository) ListByCoachID(ctx context.Context, coachID int64) ([]models.PlanAssignment, error) {
	query := `
		SELECT pa.id, pa.plan_id, pa.trainee_id, pa.start_date, pa.end_date, pa.status, pa.created_at, pa.updated_at
		FROM plan_assignments pa
		JOIN plans p ON p.id = pa.plan_id
		WHERE p.coach_id = $1
		ORDER BY pa.start_date DESC
	`
	rows, err := r.db.Query(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignments(rows)
}

func (r *AssignmentRepository) UpdateStatusIfCurrent(ctx context.Context, id int64, currentStatus, nextStatus string) (*models.PlanAssignment, error) {
	query := `
		UPDATE plan_assignments
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING id, plan_id, trainee_id, start_date, end_date, status, created_at, updated_at
	`
	return r.scanAssignment(r.db.QueryRow(ctx, query, id, currentStatus, nextStatus))
}

func (r *AssignmentRepository) CreateAssignedDay(ctx context.Context, input CreateAssignedDayInput) (*models.AssignedDay, error) {
	query := `
		INSERT INTO assigned_days (assignment_id, template_day_id, date, weekday)
		VALUES ($1, $2, $3, $4)
		RETURNING id, assignment_id, template_day_id, date, weekday, completed, created_at, updated_at
	`
	return r.scanAssignedDay(r.db.QueryRow(ctx, query,
		input.AssignmentID, input.TemplateDayID, input.Date, input.Weekday))
}

func (r *AssignmentRepository) GetAssignedDayByID(ctx context.Context, id int64) (*models.AssignedDay, error) {
	query := `
		SELECT id, assignment_id, template_day_id, date, weekday, completed, created_at, updated_at
		FROM assigned_days
		WHERE id = $1
	`
	return r.scanAssignedDay(r.db.QueryRow(ctx, query, id))
}

func (r *AssignmentRepository) ListAssignedDays(ctx context.Context, assignmentID int64) ([]models.AssignedDay, error) {
	query := `
		SELECT id, assignment_id, template_day_id, date, weekday, completed, created_at, updated_at
		FROM assigned_days
		WHERE assignment_id = $1
		ORDER BY date
	`
	rows, err := r.db.Query(ctx, query, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []models.AssignedDay
	for rows.Next() {
		var day models.AssignedDay
		if err := rows.Scan(
			&day.ID, &day.AssignmentID, &day.TemplateDayID, &day.Date,
			&day.Weekday, &day.Completed, &day.CreatedAt, &day.UpdatedAt); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

func (r *AssignmentRepository) CountAssignedDays(ctx context.Context, assignmentID int64) (int, error) {
	query := `SELECT COUNT(*) FROM assigned_days WHERE assignment_id = $1`
	var count int
	if err := r.db.QueryRow(ctx, query, assignmentID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// MarkAssignedDayCompleted flips the completed flag. The guard keeps
// repeated executions against the same day from rewriting the row.
func (r *AssignmentRepository) MarkAssignedDayCompleted(ctx context.Context, id int64) error {
	query := `
		UPDATE assigned_days
		SET completed = TRUE, updated_at = NOW()
		WHERE id = $1 AND completed = FALSE
	`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *AssignmentRepository) scanAssignment(row pgx.Row) (*models.PlanAssignment, error) {
	var a models.PlanAssignment
	err := row.Scan(
		&a.ID, &a.PlanID, &a.TraineeID, &a.StartDate, &a.EndDate,
		&a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssignmentRepository) scanAssignedDay(row pgx.Row) (*models.AssignedDay, error) {
	var d models.AssignedDay
	err := row.Scan(
		&d.ID, &d.AssignmentID, &d.TemplateDayID, &d.Date,
		&d.Weekday, &d.Completed, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func scanAssignments(rows pgx.Rows) ([]models.PlanAssignment, error) {
	var assignments []models.PlanAssignment
	for rows.Next() {
		var a models.PlanAssignment
		if err := rows.Scan(
			&a.ID, &a.PlanID, &a.TraineeID, &a.StartDate, &a.EndDate,
			&a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
