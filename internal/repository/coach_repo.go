package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/joninet/app-activapro/internal/models"
)

type CreateCoachInput struct {
	UserID    int64
	Specialty string
	Phone     string
	Bio       string
}

type CoachRepository struct {
	db DBTX
}

func NewCoachRepository(db DBTX) *CoachRepository {
	return &CoachRepository{db: db}
}

// Create inserts a coach profile. is_active defaults to FALSE in the
// schema; activation is a separate step after payment confirmation.
func (r *CoachRepository) Create(ctx context.Context, input CreateCoachInput) (*models.Coach, error) {
	query := `
		INSERT INTO coaches (user_id, specialty, phone, bio)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, specialty, phone, bio, is_active, created_at, updated_at
	`
	var coach models.Coach
	err := r.db.QueryRow(ctx, query, input.UserID, input.Specialty, input.Phone, input.Bio).Scan(
		&coach.ID, &coach.UserID, &coach.Specialty, &coach.Phone, &coach.Bio,
		&coach.IsActive, &coach.CreatedAt, &coach.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &coach, nil
}

func (r *CoachRepository) GetByID(ctx context.Context, id int64) (*models.Coach, error) {
	query := `
		SELECT id, user_id, specialty, phone, bio, is_active, created_at, updated_at
		FROM coaches
		WHERE id = $1
	`
	return r.scanCoach(r.db.QueryRow(ctx, query, id))
}

func (r *CoachRepository) GetByUserID(ctx context.Context, userID int64) (*models.Coach, error) {
	query := `
		SELECT id, user_id, specialty, phone, bio, is_active, created_at, updated_at
		FROM coaches
		WHERE user_id = $1
	`
	return r.scanCoach(r.db.QueryRow(ctx, query, userID))
}

// Activate flips the active flag. The WHERE guard makes repeated calls a
// no-op write-wise.
func (r *CoachRepository) Activate(ctx context.Context, id int64) error {
	query := `
		UPDATE coaches
		SET is_active = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_active = FALSE
	`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *CoachRepository) scanCoach(row pgx.Row) (*models.Coach, error) {
	var coach models.Coach
	err := row.Scan(
		&coach.ID, &coach.UserID, &coach.Specialty, &coach.Phone, &coach.Bio,
		&coach.IsActive, &coach.CreatedAt, &coach.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &coach, nil
}
