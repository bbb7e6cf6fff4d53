package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joninet/app-activapro/internal/models"
)

type CreateTraineeInput struct {
	UserID    int64
	CoachID   int64
	BirthDate *time.Time
	Phone     string
	WeightKG  *float64
	HeightM   *float64
	Notes     string
}

type TraineeRepository struct {
	db DBTX
}

func NewTraineeRepository(db DBTX) *TraineeRepository {
	return &TraineeRepository{db: db}
}

func (r *TraineeRepository) Create(ctx context.Context, input CreateTraineeInput) (*models.Trainee, error) {
	query := `
		INSERT INTO trainees (user_id, coach_id, birth_date, phone, weight_kg, height_m, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, coach_id, birth_date, phone, weight_kg, height_m, notes, created_at, updated_at
	`
	return r.scanTrainee(r.db.QueryRow(ctx, query,
		input.UserID, input.CoachID, input.BirthDate, input.Phone,
		input.WeightKG, input.HeightM, input.Notes))
}

func (r *TraineeRepository) GetByID(ctx context.Context, id int64) (*models.Trainee, error) {
	query := `
		SELECT id, user_id, coach_id, birth_date, phone, weight_kg, height_m, notes, created_at, updated_at
		FROM trainees
		WHERE id = $1
	`
	return r.scanTrainee(r.db.QueryRow(ctx, query, id))
}

func (r *TraineeRepository) GetByUserID(ctx context.Context, userID int64) (*models.Trainee, error) {
	query := `
		SELECT id, user_id, coach_id, birth_date, phone, weight_kg, height_m, notes, created_at, updated_at
		FROM trainees
		WHERE user_id = $1
	`
	return r.scanTrainee(r.db.QueryRow(ctx, query, userID))
}

func (r *TraineeRepository) ListByCoachID(ctx context.Context, coachID int64) ([]models.Trainee, error) {
	query := `
		SELECT id, user_id, coach_id, birth_date, phone, weight_kg, height_m, notes, created_at, updated_at
		FROM trainees
		WHERE coach_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrainees(rows)
}

func (r *TraineeRepository) ListByCoachIDPaged(ctx context.Context, coachID int64, limit, offset int) ([]models.Trainee, error) {
	query := `
		SELECT id, user_id, coach_id, birth_date, phone, weight_kg, height_m, notes, created_at, updated_at
		FROM trainees
		WHERE coach_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, coachID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrainees(rows)
}

func (r *TraineeRepository) CountByCoachID(ctx context.Context, coachID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM trainees WHERE coach_id = $1`, coachID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func scanTrainees(rows pgx.Rows) ([]models.Trainee, error) {
	var trainees []models.Trainee
	for rows.Next() {
		var t models.Trainee
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.CoachID, &t.BirthDate, &t.Phone,
			&t.WeightKG, &t.HeightM, &t.Notes, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		trainees = append(trainees, t)
	}
	return trainees, rows.Err()
}

func (r *TraineeRepository) scanTrainee(row pgx.Row) (*models.Trainee, error) {
	var t models.Trainee
	err := row.Scan(
		&t.ID, &t.UserID, &t.CoachID, &t.BirthDate, &t.Phone,
		&t.WeightKG, &t.HeightM, &t.Notes, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
