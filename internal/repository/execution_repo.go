package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joninet/app-activapro/internal/models"
)

type CreateExecutionInput struct {
	AssignedDayID   int64
	PerformedAt     time.Time
	Comments        string
	Pace            string
	AvgHeartRate    *int
	MaxHeartRate    *int
	DistanceKM      *float64
	DurationMinutes *int
	Rating          *int
}

type CreateExecutionImageInput struct {
	ExecutionID int64
	ImageURL    string
	Description string
}

type ExecutionRepository struct {
	db DBTX
}

func NewExecutionRepository(db DBTX) *ExecutionRepository {
	return &ExecutionRepository{db: db}
}

func (r *ExecutionRepository) Create(ctx context.Context, input CreateExecutionInput) (*models.Execution, error) {
	query := `
		INSERT INTO executions (assigned_day_id, performed_at, comments, pace,
			avg_heart_rate, max_heart_rate, distance_km, duration_minutes, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, assigned_day_id, performed_at, comments, pace,
			avg_heart_rate, max_heart_rate, distance_km, duration_minutes, rating,
			created_at, updated_at
	`
	return r.scanExecution(r.db.QueryRow(ctx, query,
		input.AssignedDayID, input.PerformedAt, input.Comments, input.Pace,
		input.AvgHeartRate, input.MaxHeartRate, input.DistanceKM,
		input.DurationMinutes, input.Rating))
}

func (r *ExecutionRepository) GetByID(ctx context.Context, id int64) (*models.Execution, error) {
	query := `
		SELECT id, assigned_day_id, performed_at, comments, pace,
			avg_heart_rate, max_heart_rate, distance_km, duration_minutes, rating,
			created_at, updated_at
		FROM executions
		WHERE id = $1
	`
	return r.scanExecution(r.db.QueryRow(ctx, query, id))
}

func (r *ExecutionRepository) ListByAssignedDayID(ctx context.Context, assignedDayID int64) ([]models.Execution, error) {
	query := `
		SELECT id, assigned_day_id, performed_at, comments, pace,
			avg_heart_rate, max_heart_rate, distance_km, duration_minutes, rating,
			created_at, updated_at
		FROM executions
		WHERE assigned_day_id = $1
		ORDER BY performed_at DESC
	`
	rows, err := r.db.Query(ctx, query, assignedDayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var executions []models.Execution
	for rows.Next() {
		var e models.Execution
		if err := rows.Scan(
			&e.ID, &e.AssignedDayID, &e.PerformedAt, &e.Comments, &e.Pace,
			&e.AvgHeartRate, &e.MaxHeartRate, &e.DistanceKM, &e.DurationMinutes,
			&e.Rating, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		executions = append(executions, e)
	}
	return executions, rows.Err()
}

func (r *ExecutionRepository) CreateImage(ctx context.Context, input CreateExecutionImageInput) (*models.ExecutionImage, error) {
	query := `
		INSERT INTO execution_images (execution_id, image_url, description)
		VALUES ($1, $2, $3)
		RETURNING id, execution_id, image_url, description, uploaded_at
	`
	var img models.ExecutionImage
	err := r.db.QueryRow(ctx, query, input.ExecutionID, input.ImageURL, input.Description).Scan(
		&img.ID, &img.ExecutionID, &img.ImageURL, &img.Description, &img.UploadedAt)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *ExecutionRepository) ListImages(ctx context.Context, executionID int64) ([]models.ExecutionImage, error) {
	query := `
		SELECT id, execution_id, image_url, description, uploaded_at
		FROM execution_images
		WHERE execution_id = $1
		ORDER BY uploaded_at
	`
	rows, err := r.db.Query(ctx, query, executionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []models.ExecutionImage
	for rows.Next() {
		var img models.ExecutionImage
		if err := rows.Scan(&img.ID, &img.ExecutionID, &img.ImageURL, &img.Description, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *ExecutionRepository) scanExecution(row pgx.Row) (*models.Execution, error) {
	var e models.Execution
	err := row.Scan(
		&e.ID, &e.AssignedDayID, &e.PerformedAt, &e.Comments, &e.Pace,
		&e.AvgHeartRate, &e.MaxHeartRate, &e.DistanceKM, &e.DurationMinutes,
		&e.Rating, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
