package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/joninet/app-activapro/internal/models"
	"github.com/joninet/app-activapro/internal/services"
)

type stubAssignmentService struct {
	detail      *services.AssignmentDetail
	detailErr   error
	days        []models.AssignedDay
	expandErr   error
	assignments []models.PlanAssignment
	updated     *models.PlanAssignment
	updateErr   error
	lastActorID int64
	lastRole    string
	lastInput   services.AssignPlanInput
}

func (s *stubAssignmentService) AssignPlan(_ context.Context, coachID int64, input services.AssignPlanInput) (*services.AssignmentDetail, error) {
	s.lastActorID = coachID
	s.lastInput = input
	return s.detail, s.detailErr
}

func (s *stubAssignmentService) ExpandAssignment(_ context.Context, coachID int64, _ int64) ([]models.AssignedDay, error) {
	s.lastActorID = coachID
	return s.days, s.expandErr
}

func (s *stubAssignmentService) GetAssignment(_ context.Context, actorID int64, role string, _ int64) (*services.AssignmentDetail, error) {
	s.lastActorID = actorID
	s.lastRole = role
	return s.detail, s.detailErr
}

func (s *stubAssignmentService) ListAssignments(_ context.Context, actorID int64, role string) ([]models.PlanAssignment, error) {
	s.lastActorID = actorID
	s.lastRole = role
	return s.assignments, nil
}

func (s *stubAssignmentService) ListAssignedDays(_ context.Context, actorID int64, role string, _ int64) ([]models.AssignedDay, error) {
	s.lastActorID = actorID
	s.lastRole = role
	return s.days, nil
}

func (s *stubAssignmentService) UpdateStatus(_ context.Context, coachID int64, _ int64, nextStatus string) (*models.PlanAssignment, error) {
	s.lastActorID = coachID
	return s.updated, s.updateErr
}

type stubCoachProfiles struct {
	coach *models.Coach
	err   error
}

func (s *stubCoachProfiles) GetByUserID(_ context.Context, _ int64) (*models.Coach, error) {
	return s.coach, s.err
}

type stubTraineeProfiles struct {
	trainee *models.Trainee
	err     error
}

func (s *stubTraineeProfiles) GetByUserID(_ context.Context, _ int64) (*models.Trainee, error) {
	return s.trainee, s.err
}

func newAssignmentApp(service *stubAssignmentService, role string) *fiber.App {
	handler := &AssignmentHandler{
		assignments: service,
		coachRepo:   &stubCoachProfiles{coach: &models.Coach{ID: 5, UserID: 42}},
		traineeRepo: &stubTraineeProfiles{trainee: &models.Trainee{ID: 2, UserID: 43, CoachID: 5}},
	}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "42")
		c.Locals("role", role)
		return c.Next()
	})
	app.Post("/api/v1/assignments", handler.AssignPlan)
	app.Get("/api/v1/assignments", handler.ListAssignments)
	app.Get("/api/v1/assignments/:id", handler.GetAssignment)
	app.Post("/api/v1/assignments/:id/expand", handler.ExpandAssignment)
	return app
}

func TestAssignPlanParsesDatesAndResolvesCoach(t *testing.T) {
	service := &stubAssignmentService{
		detail: &services.AssignmentDetail{
			PlanAssignment: models.PlanAssignment{ID: 42, PlanID: 1, TraineeID: 2},
		},
	}
	app := newAssignmentApp(service, models.RoleCoach)

	resp := postJSON(t, app, "/api/v1/assignments", `{
		"plan_id": 1, "trainee_id": 2, "start_date": "2025-06-02", "end_date": "2025-06-15"
	}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastActorID != 5 {
		t.Fatalf("expected coach profile id 5, got %d", service.lastActorID)
	}
	if service.lastInput.EndDate == nil {
		t.Fatal("expected end date to be forwarded")
	}
	if service.lastInput.StartDate.Format("2006-01-02") != "2025-06-02" {
		t.Fatalf("unexpected start date %s", service.lastInput.StartDate)
	}
}

func TestAssignPlanRejectsBadDate(t *testing.T) {
	app := newAssignmentApp(&stubAssignmentService{}, models.RoleCoach)

	resp := postJSON(t, app, "/api/v1/assignments", `{
		"plan_id": 1, "trainee_id": 2, "start_date": "02/06/2025"
	}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestListAssignmentsResolvesTraineeProfile(t *testing.T) {
	service := &stubAssignmentService{}
	app := newAssignmentApp(service, models.RoleStudent)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assignments", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastRole != models.RoleStudent {
		t.Fatalf("expected student role forwarded, got %q", service.lastRole)
	}
	if service.lastActorID != 2 {
		t.Fatalf("expected trainee profile id 2, got %d", service.lastActorID)
	}
}

func TestExpandAssignmentConflictWhenAlreadyExpanded(t *testing.T) {
	service := &stubAssignmentService{expandErr: services.ErrAlreadyExpanded}
	app := newAssignmentApp(service, models.RoleCoach)

	resp := postJSON(t, app, "/api/v1/assignments/42/expand", `{}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestGetAssignmentForbidden(t *testing.T) {
	service := &stubAssignmentService{detailErr: services.ErrForbidden}
	app := newAssignmentApp(service, models.RoleStudent)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assignments/42", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}
