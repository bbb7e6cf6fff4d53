package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/joninet/app-activapro/internal/models"
	"github.com/joninet/app-activapro/internal/services"
)

type assignmentApplicationService interface {
	AssignPlan(ctx context.Context, coachID int64, input services.AssignPlanInput) (*services.AssignmentDetail, error)
	ExpandAssignment(ctx context.Context, coachID int64, assignmentID int64) ([]models.AssignedDay, error)
	GetAssignment(ctx context.Context, actorID int64, role string, assignmentID int64) (*services.AssignmentDetail, error)
	ListAssignments(ctx context.Context, actorID int64, role string) ([]models.PlanAssignment, error)
	ListAssignedDays(ctx context.Context, actorID int64, role string, assignmentID int64) ([]models.AssignedDay, error)
	UpdateStatus(ctx context.Context, coachID int64, assignmentID int64, nextStatus string) (*models.PlanAssignment, error)
}

type AssignmentHandler struct {
	assignments assignmentApplicationService
	coachRepo   coachProfileReader
	traineeRepo traineeProfileReader
}

func NewAssignmentHandler(
	assignments *services.AssignmentService,
	coachRepo coachProfileReader,
	traineeRepo traineeProfileReader,
) *AssignmentHandler {
	return &AssignmentHandler{
		assignments: assignments,
		coachRepo:   coachRepo,
		traineeRepo: traineeRepo,
	}
}

type assignPlanRequest struct {
	PlanID    int64  `json:"plan_id"`
	TraineeID int64  `json:"trainee_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type updateAssignmentStatusRequest struct {
	Status string `json:"status"`
}

func (h *AssignmentHandler) AssignPlan(c *fiber.Ctx) error {
	coach, err := h.resolveCoach(c)
	if err != nil {
		return err
	}

	var req assignPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"start_date": "Must be a date in YYYY-MM-DD format."})
	}
	var endDate *time.Time
	if req.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"end_date": "Must be a date in YYYY-MM-DD format."})
		}
		endDate = &parsed
	}

	detail, err := h.assignments.AssignPlan(c.Context(), coach.ID, services.AssignPlanInput{
		PlanID:    req.PlanID,
		TraineeID: req.TraineeID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return assignmentError(c, err, "Failed to assign plan")
	}
	return c.Status(fiber.StatusCreated).JSON(detail)
}

func (h *AssignmentHandler) ExpandAssignment(c *fiber.Ctx) error {
	coach, err := h.resolveCoach(c)
	if err != nil {
		return err
	}
	assignmentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid assignment id"})
	}

	days, err := h.assignments.ExpandAssignment(c.Context(), coach.ID, assignmentID)
	if err != nil {
		return assignmentError(c, err, "Failed to expand assignment")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"days": days})
}

func (h *AssignmentHandler) GetAssignment(c *fiber.Ctx) error {
	actorID, role, err := h.resolveActor(c)
	if err != nil {
		return err
	}
	assignmentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid assignment id"})
	}

	detail, err := h.assignments.GetAssignment(c.Context(), actorID, role, assignmentID)
	if err != nil {
		return assignmentError(c, err, "Failed to fetch assignment")
	}
	return c.JSON(detail)
}

func (h *AssignmentHandler) ListAssignments(c *fiber.Ctx) error {
	actorID, role, err := h.resolveActor(c)
	if err != nil {
		return err
	}

	assignments, err := h.assignments.ListAssignments(c.Context(), actorID, role)
	if err != nil {
		return assignmentError(c, err, "Failed to fetch assignments")
	}
	return c.JSON(fiber.Map{"assignments": assignments})
}

func (h *AssignmentHandler) ListAssignedDays(c *fiber.Ctx) error {
	actorID, role, err := h.resolveActor(c)
	if err != nil {
		return err
	}
	assignmentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid assignment id"})
	}

	days, err := h.assignments.ListAssignedDays(c.Context(), actorID, role, assignmentID)
	if err != nil {
		return assignmentError(c, err, "Failed to fetch assigned days")
	}
	return c.JSON(fiber.Map{"days": days})
}

func (h *AssignmentHandler) UpdateStatus(c *fiber.Ctx) error {
	coach, err := h.resolveCoach(c)
	if err != nil {
		return err
	}
	assignmentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid assignment id"})
	}

	var req updateAssignmentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	assignment, err := h.assignments.UpdateStatus(c.Context(), coach.ID, assignmentID, req.Status)
	if err != nil {
		return assignmentError(c, err, "Failed to update assignment")
	}
	return c.JSON(assignment)
}

func (h *AssignmentHandler) resolveCoach(c *fiber.Ctx) (*models.Coach, error) {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	coach, err := h.coachRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Coach profile required"})
		}
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}
	return coach, nil
}

// resolveActor maps the authenticated user to their profile id, coach or
// trainee depending on the token role.
func (h *AssignmentHandler) resolveActor(c *fiber.Ctx) (int64, string, error) {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return 0, "", c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	role, _ := c.Locals("role").(string)

	switch role {
	case models.RoleCoach:
		coach, err := h.coachRepo.GetByUserID(c.Context(), userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return 0, "", c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Profile not found"})
			}
			return 0, "", c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
		}
		return coach.ID, role, nil
	case models.RoleStudent:
		trainee, err := h.traineeRepo.GetByUserID(c.Context(), userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return 0, "", c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Profile not found"})
			}
			return 0, "", c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
		}
		return trainee.ID, role, nil
	default:
		return 0, "", c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}
}

func assignmentError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	case errors.Is(err, services.ErrInvalidDateRange):
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"end_date": "Must not be before start date."})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrAlreadyExpanded):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Assignment already has days"})
	case errors.Is(err, services.ErrInvalidStateTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Assignment is not active"})
	case errors.Is(err, services.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
	}
}
