package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joninet/app-activapro/internal/models"
	"github.com/joninet/app-activapro/internal/repository"
	"github.com/joninet/app-activapro/pkg/utils"
)

// txBeginner is the slice of pgxpool.Pool the registration flow needs.
// Narrowed to an interface so tests can substitute an in-memory
// transaction.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type coachReader interface {
	GetByID(ctx context.Context, id int64) (*models.Coach, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Coach, error)
	Activate(ctx context.Context, id int64) error
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string

	// Coach profile fields.
	Specialty string
	Bio       string

	// Trainee profile fields.
	CoachID   int64
	BirthDate *time.Time
	WeightKG  *float64
	HeightM   *float64
	Notes     string

	// Shared.
	Phone string
}

// RegistrationService creates a user and its role profile atomically and
// handles the payment-driven coach activation step.
type RegistrationService struct {
	db        txBeginner
	coachRepo coachReader
}

func NewRegistrationService(db txBeginner, coachRepo *repository.CoachRepository) *RegistrationService {
	return &RegistrationService{db: db, coachRepo: coachRepo}
}

// Register creates the base user and the role-specific profile inside one
// transaction; a failure in either insert persists nothing.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if input.Role != models.RoleCoach && input.Role != models.RoleStudent {
		return nil, ErrInvalidRole
	}

	if input.Role == models.RoleStudent {
		coach, err := s.coachRepo.GetByID(ctx, input.CoachID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrCoachNotFound
			}
			return nil, err
		}
		if !coach.IsActive {
			return nil, ErrCoachInactive
		}
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashed,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
	}
	if err := repository.NewUserRepository(tx).Create(ctx, user); err != nil {
		if repository.UniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if input.Role == models.RoleCoach {
		_, err = repository.NewCoachRepository(tx).Create(ctx, repository.CreateCoachInput{
			UserID:    user.ID,
			Specialty: input.Specialty,
			Phone:     input.Phone,
			Bio:       input.Bio,
		})
	} else {
		_, err = repository.NewTraineeRepository(tx).Create(ctx, repository.CreateTraineeInput{
			UserID:    user.ID,
			CoachID:   input.CoachID,
			BirthDate: input.BirthDate,
			Phone:     input.Phone,
			WeightKG:  input.WeightKG,
			HeightM:   input.HeightM,
			Notes:     input.Notes,
		})
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return user, nil
}

// ActivateCoach flips the coach's active flag after payment confirmation.
// Returns true when the coach was already active; the call is idempotent.
func (s *RegistrationService) ActivateCoach(ctx context.Context, userID int64) (alreadyActive bool, err error) {
	coach, err := s.coachRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrCoachNotFound
		}
		return false, err
	}
	if coach.IsActive {
		return true, nil
	}
	if err := s.coachRepo.Activate(ctx, coach.ID); err != nil {
		return false, err
	}
	return false, nil
}
