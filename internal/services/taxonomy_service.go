package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/joninet/app-activapro/internal/models"
	"github.com/joninet/app-activapro/internal/repository"
)

type activityTypeStore interface {
	Create(ctx context.Context, coachID *int64, name, description string) (*models.ActivityType, error)
	GetByID(ctx context.Context, id int64) (*models.ActivityType, error)
	GetOwnedByName(ctx context.Context, coachID int64, name string) (*models.ActivityType, error)
	GetGlobalByName(ctx context.Context, name string) (*models.ActivityType, error)
	ListVisible(ctx context.Context, coachID int64) ([]models.ActivityType, error)
}

type routineTypeStore interface {
	Create(ctx context.Context, coachID *int64, name, description string) (*models.RoutineType, error)
	GetByID(ctx context.Context, id int64) (*models.RoutineType, error)
	GetOwnedByName(ctx context.Context, coachID int64, name string) (*models.RoutineType, error)
	GetGlobalByName(ctx context.Context, name string) (*models.RoutineType, error)
	ListVisible(ctx context.Context, coachID int64) ([]models.RoutineType, error)
}

// TaxonomyService manages activity and routine types. Both follow the
// same ownership rule: a nil owner is a global entry, and a coach's own
// entry shadows a global one with the same name.
type TaxonomyService struct {
	activityTypes activityTypeStore
	routineTypes  routineTypeStore
}

func NewTaxonomyService(
	activityTypes *repository.ActivityTypeRepository,
	routineTypes *repository.RoutineTypeRepository,
) *TaxonomyService {
	return &TaxonomyService{activityTypes: activityTypes, routineTypes: routineTypes}
}

func (s *TaxonomyService) CreateActivityType(ctx context.Context, coachID int64, name, description string) (*models.ActivityType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	created, err := s.activityTypes.Create(ctx, &coachID, name, strings.TrimSpace(description))
	if err != nil {
		if repository.UniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return created, nil
}

func (s *TaxonomyService) ListActivityTypes(ctx context.Context, coachID int64) ([]models.ActivityType, error) {
	return s.activityTypes.ListVisible(ctx, coachID)
}

// ResolveActivityType looks a name up for a coach, preferring the coach's
// private definition over the global one.
func (s *TaxonomyService) ResolveActivityType(ctx context.Context, coachID int64, name string) (*models.ActivityType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	owned, err := s.activityTypes.GetOwnedByName(ctx, coachID, name)
	if err == nil {
		return owned, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	global, err := s.activityTypes.GetGlobalByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return global, nil
}

func (s *TaxonomyService) CreateRoutineType(ctx context.Context, coachID int64, name, description string) (*models.RoutineType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	created, err := s.routineTypes.Create(ctx, &coachID, name, strings.TrimSpace(description))
	if err != nil {
		if repository.UniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return created, nil
}

func (s *TaxonomyService) ListRoutineTypes(ctx context.Context, coachID int64) ([]models.RoutineType, error) {
	return s.routineTypes.ListVisible(ctx, coachID)
}

// ResolveRoutineType mirrors ResolveActivityType for routine types.
func (s *TaxonomyService) ResolveRoutineType(ctx context.Context, coachID int64, name string) (*models.RoutineType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	owned, err := s.routineTypes.GetOwnedByName(ctx, coachID, name)
	if err == nil {
		return owned, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	global, err := s.routineTypes.GetGlobalByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return global, nil
}

// visibleToCoach reports whether a taxonomy owner (nil = global) is
// usable by the given coach.
func visibleToCoach(owner *int64, coachID int64) bool {
	return owner == nil || *owner == coachID
}
