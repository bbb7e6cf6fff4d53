package repository

import (
	"context"

	"github.com/joninet/app-activapro/internal/models"
)

type CreateRoutineInput struct {
	CoachID        int64
	ActivityTypeID int64
	RoutineTypeID  *int64
	Name           string
	Description    string
	Details        string
}

type RoutineRepository struct {
	db DBTX
}

func NewRoutineRepository(db DBTX) *RoutineRepository {
	return &RoutineRepository{db: db}
}

func (r *RoutineRepository) Create(ctx context.Context, input CreateRoutineInput) (*models.Routine, error) {
	query := `
		INSERT INTO routines (coach_id, activity_type_id, routine_type_id, name, description, details)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, coach_id, activity_type_id, routine_type_id, name, description, details, created_at, updated_at
	`
	var routine models.Routine
	err := r.db.QueryRow(ctx, query,
		input.CoachID, input.ActivityTypeID, input.RoutineTypeID,
		input.Name, input.Description, input.Details).Scan(
		&routine.ID, &routine.CoachID, &routine.ActivityTypeID, &routine.RoutineTypeID,
		&routine.Name, &routine.Description, &routine.Details,
		&routine.CreatedAt, &routine.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &routine, nil
}

func (r *RoutineRepository) GetByID(ctx context.Context, id int64) (*models.Routine, error) {
	query := `
		SELECT id, coach_id, activity_type_id, routine_type_id, name, description, details, created_at, updated_at
		FROM routines
		WHERE id = $1
	`
	var routine models.Routine
	err := r.db.QueryRow(ctx, query, id).Scan(
		&routine.ID, &routine.CoachID, &routine.ActivityTypeID, &routine.RoutineTypeID,
		&routine.Name, &routine.Description, &routine.Details,
		&routine.CreatedAt, &routine.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &routine, nil
}

func (r *RoutineRepository) ListByCoachID(ctx context.Context, coachID int64) ([]models.Routine, error) {
	query := `
		SELECT id, coach_id, activity_type_id, routine_type_id, name, description, details, created_at, updated_at
		FROM routines
		WHERE coach_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routines []models.Routine
	for rows.Next() {
		var routine models.Routine
		if err := rows.Scan(
			&routine.ID, &routine.CoachID, &routine.ActivityTypeID, &routine.RoutineTypeID,
			&routine.Name, &routine.Description, &routine.Details,
			&routine.CreatedAt, &routine.UpdatedAt); err != nil {
			return nil, err
		}
		routines = append(routines, routine)
	}
	return routines, rows.Err()
}
