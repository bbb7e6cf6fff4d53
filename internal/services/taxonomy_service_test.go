package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/joninet/app-activapro/internal/models"
)

type stubActivityTypeStore struct {
	created    *models.ActivityType
	createErr  error
	byID       *models.ActivityType
	byIDErr    error
	owned      *models.ActivityType
	ownedErr   error
	global     *models.ActivityType
	globalErr  error
	visible    []models.ActivityType
	lastCreate string
}

func (s *stubActivityTypeStore) Create(_ context.Context, _ *int64, name, _ string) (*models.ActivityType, error) {
	s.lastCreate = name
	return s.created, s.createErr
}

func (s *stubActivityTypeStore) GetByID(_ context.Context, _ int64) (*models.ActivityType, error) {
	return s.byID, s.byIDErr
}

func (s *stubActivityTypeStore) GetOwnedByName(_ context.Context, _ int64, _ string) (*models.ActivityType, error) {
	return s.owned, s.ownedErr
}

func (s *stubActivityTypeStore) GetGlobalByName(_ context.Context, _ string) (*models.ActivityType, error) {
	return s.global, s.globalErr
}

func (s *stubActivityTypeStore) ListVisible(_ context.Context, _ int64) ([]models.ActivityType, error) {
	return s.visible, nil
}

func TestResolveActivityTypePrefersOwnedOverGlobal(t *testing.T) {
	coachID := int64(5)
	store := &stubActivityTypeStore{
		owned:  &models.ActivityType{ID: 2, CoachID: &coachID, Name: "running"},
		global: &models.ActivityType{ID: 1, Name: "running"},
	}
	service := &TaxonomyService{activityTypes: store}

	resolved, err := service.ResolveActivityType(context.Background(), 5, "running")
	if err != nil {
		t.Fatalf("ResolveActivityType: %v", err)
	}
	if resolved.ID != 2 {
		t.Fatalf("expected the coach's own entry to shadow the global one, got id %d", resolved.ID)
	}
}

func TestResolveActivityTypeFallsBackToGlobal(t *testing.T) {
	store := &stubActivityTypeStore{
		ownedErr: pgx.ErrNoRows,
		global:   &models.ActivityType{ID: 1, Name: "running"},
	}
	service := &TaxonomyService{activityTypes: store}

	resolved, err := service.ResolveActivityType(context.Background(), 5, "running")
	if err != nil {
		t.Fatalf("ResolveActivityType: %v", err)
	}
	if resolved.ID != 1 {
		t.Fatalf("expected the global entry, got id %d", resolved.ID)
	}
}

func TestResolveActivityTypeUnknownName(t *testing.T) {
	store := &stubActivityTypeStore{
		ownedErr:  pgx.ErrNoRows,
		globalErr: pgx.ErrNoRows,
	}
	service := &TaxonomyService{activityTypes: store}

	if _, err := service.ResolveActivityType(context.Background(), 5, "rowing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateActivityTypeTrimsNameAndMapsConflict(t *testing.T) {
	store := &stubActivityTypeStore{created: &models.ActivityType{ID: 3, Name: "trail running"}}
	service := &TaxonomyService{activityTypes: store}

	if _, err := service.CreateActivityType(context.Background(), 5, "  trail running  ", ""); err != nil {
		t.Fatalf("CreateActivityType: %v", err)
	}
	if store.lastCreate != "trail running" {
		t.Fatalf("expected trimmed name, got %q", store.lastCreate)
	}

	if _, err := service.CreateActivityType(context.Background(), 5, "   ", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a blank name, got %v", err)
	}

	store.createErr = &pgconn.PgError{Code: "23505"}
	if _, err := service.CreateActivityType(context.Background(), 5, "trail running", ""); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestVisibleToCoach(t *testing.T) {
	owner := int64(5)
	if !visibleToCoach(nil, 5) {
		t.Fatal("global entries must be visible to every coach")
	}
	if !visibleToCoach(&owner, 5) {
		t.Fatal("own entries must be visible")
	}
	if visibleToCoach(&owner, 6) {
		t.Fatal("foreign entries must not be visible")
	}
}
