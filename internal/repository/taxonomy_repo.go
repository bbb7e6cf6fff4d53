package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/joninet/app-activapro/internal/models"
)

type ActivityTypeRepository struct {
	db DBTX
}

func NewActivityTypeRepository(db DBTX) *ActivityTypeRepository {
	return &ActivityTypeRepository{db: db}
}

func (r *ActivityTypeRepository) Create(ctx context.Context, coachID *int64, name, description string) (*models.ActivityType, error) {
	query := `
		INSERT INTO activity_types (coach_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, coach_id, name, description, created_at
	`
	var at models.ActivityType
	err := r.db.QueryRow(ctx, query, coachID, name, description).Scan(
		&at.ID, &at.CoachID, &at.Name, &at.Description, &at.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &at, nil
}

func (r *ActivityTypeRepository) GetByID(ctx context.Context, id int64) (*models.ActivityType, error) {
	query := `
		SELECT id, coach_id, name, description, created_at
		FROM activity_types
		WHERE id = $1
	`
	var at models.ActivityType
	err := r.db.QueryRow(ctx, query, id).Scan(
		&at.ID, &at.CoachID, &at.Name, &at.Description, &at.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &at, nil
}

// GetOwnedByName returns the coach's private type with the given name.
func (r *ActivityTypeRepository) GetOwnedByName(ctx context.Context, coachID int64, name string) (*models.ActivityType, error) {
	query := `
		SELECT id, coach_id, name, description, created_at
		FROM activity_types
		WHERE coach_id = $1 AND name = $2
	`
	var at models.ActivityType
	err := r.db.QueryRow(ctx, query, coachID, name).Scan(
		&at.ID, &at.CoachID, &at.Name, &at.Description, &at.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &at, nil
}

// GetGlobalByName returns the shared type with the given name.
func (r *ActivityTypeRepository) GetGlobalByName(ctx context.Context, name string) (*models.ActivityType, error) {
	query := `
		SELECT id, coach_id, name, description, created_at
		FROM activity_types
		WHERE coach_id IS NULL AND name = $1
	`
	var at models.ActivityType
	err := r.db.QueryRow(ctx, query, name).Scan(
		&at.ID, &at.CoachID, &at.Name, &at.Description, &at.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &at, nil
}

// ListVisible returns global types plus the coach's own, globals first.
func (r *ActivityTypeRepository) ListVisible(ctx context.Context, coachID int64) ([]models.ActivityType, error) {
	query := `
		SELECT id, coach_id, name, description, created_at
		FROM activity_types
		WHERE coach_id IS NULL OR coach_id = $1
		ORDER BY coach_id NULLS FIRST, name
	`
	rows, err := r.db.Query(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanActivityTypes(rows)
}

func scanActivityTypes(rows pgx.Rows) ([]models.ActivityType, error) {
	var types []models.ActivityType
	for rows.Next() {
		var at models.ActivityType
		if err := rows.Scan(&at.ID, &at.CoachID, &at.Name, &at.Description, &at.CreatedAt); err != nil {
			return nil, err
		}
		types = append(types, at)
	}
	return types, rows.Err()
}

type RoutineTypeRepository struct {
	db DBTX
}

func NewRoutineTypeRepository(db DBTX) *RoutineTypeRepository {
	return &RoutineTypeRepository{db: db}
}

func (r *RoutineTypeRepository) Create(ctx context.Context, coachID *int64, name, description string) (*models.RoutineType, error) {
	query := `
		INSERT INTO routine_types (coach_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, coach_id, name, description, created_at
	`
	var rt models.RoutineType
	err := r.db.QueryRow(ctx, query, coachID, name, description).Scan(
		&rt.ID, &rt.CoachID, &rt.Name, &rt.Description, &rt.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *RoutineTypeRepository) GetByID(ctx context.Context, id int64) (*models.RoutineType, error) {
	query := `
		SELECT id, coach_id, name, description, created_at
		FROM routine_types
		WHERE id = $1
	`
	var rt models.RoutineType
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rt.ID, &rt.CoachID, &rt.Name, &rt.Description, &rt.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *RoutineTypeRepository) GetOwnedByName(ctx context.Context, coachID int64, name string) (*models.RoutineType, error) {
	query := `
		SELECT id, coach_id, name, description, created_at
		FROM routine_types
		WHERE coach_id = $1 AND name = $2
	`
	var rt models.RoutineType
	err := r.db.QueryRow(ctx, query, coachID, name).Scan(
		&rt.ID, &rt.CoachID, &rt.Name, &rt.Description, &rt.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *RoutineTypeRepository) GetGlobalByName(ctx context.Context, name string) (*models.RoutineType, error) {
	query := `
		SELECT id, coach_id, name, description, created_at
		FROM routine_types
		WHERE coach_id IS NULL AND name = $1
	`
	var rt models.RoutineType
	err := r.db.QueryRow(ctx, query, name).Scan(
		&rt.ID, &rt.CoachID, &rt.Name, &rt.Description, &rt.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *RoutineTypeRepository) ListVisible(ctx context.Context, coachID int64) ([]models.RoutineType, error) {
	query := `
		SELECT id, coach_id, name, description, created_at
		FROM routine_types
		WHERE coach_id IS NULL OR coach_id = $1
		ORDER BY coach_id NULLS FIRST, name
	`
	rows, err := r.db.Query(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []models.RoutineType
	for rows.Next() {
		var rt models.RoutineType
		if err := rows.Scan(&rt.ID, &rt.CoachID, &rt.Name, &rt.Description, &rt.CreatedAt); err != nil {
			return nil, err
		}
		types = append(types, rt)
	}
	return types, rows.Err()
}
