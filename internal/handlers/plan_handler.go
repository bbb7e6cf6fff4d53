package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/joninet/app-activapro/internal/models"
	"github.com/joninet/app-activapro/internal/services"
)

type planApplicationService interface {
	CreateRoutine(ctx context.Context, coachID int64, input services.CreateRoutineInput) (*models.Routine, error)
	ListRoutines(ctx context.Context, coachID int64) ([]models.Routine, error)
	CreatePlan(ctx context.Context, coachID int64, input services.CreatePlanInput) (*models.Plan, error)
	ListPlans(ctx context.Context, coachID int64) ([]models.Plan, error)
	AddWeek(ctx context.Context, coachID int64, input services.AddWeekInput) (*models.Week, error)
	SetTemplateDay(ctx context.Context, coachID int64, input services.SetTemplateDayInput) (*models.TemplateDay, error)
	GetPlanStructure(ctx context.Context, coachID int64, planID int64) (*services.PlanStructure, error)
}

type PlanHandler struct {
	plans     planApplicationService
	coachRepo coachProfileReader
}

func NewPlanHandler(plans *services.PlanService, coachRepo coachProfileReader) *PlanHandler {
	return &PlanHandler{plans: plans, coachRepo: coachRepo}
}

type createRoutineRequest struct {
	ActivityTypeID int64  `json:"activity_type_id"`
	RoutineTypeID  *int64 `json:"routine_type_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Details        string `json:"details"`
}

type createPlanRequest struct {
	ActivityTypeID int64  `json:"activity_type_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	DurationWeeks  int    `json:"duration_weeks"`
	IsTemplate     bool   `json:"is_template"`
}

type addWeekRequest struct {
	Number      int    `json:"number"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type setTemplateDayRequest struct {
	RoutineID *int64 `json:"routine_id"`
	Weekday   string `json:"weekday"`
	Position  int    `json:"position"`
	Notes     string `json:"notes"`
}

func (h *PlanHandler) CreateRoutine(c *fiber.Ctx) error {
	coach, err := h.resolveCoach(c)
	if err != nil {
		return err
	}

	var req createRoutineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	routine, err := h.plans.CreateRoutine(c.Context(), coach.ID, services.CreateRoutineInput{
		ActivityTypeID: req.ActivityTypeID,
		RoutineTypeID:  req.RoutineTypeID,
		Name:           req.Name,
		Description:    req.Description,
		Details:        req.Details,
	})
	if err != nil {
		return planError(c, err, "Failed to create routine")
	}
	return c.Status(fiber.StatusCreated).JSON(routine)
}

func (h *PlanHandler) ListRoutines(c *fiber.Ctx) error {
	coach, err := h.resolveCoach(c)
	if err != nil {
		return err
	}
	routines, err := h.plans.ListRoutines(c.Context(), coach.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch routines"})
	}
	return c.JSON(fiber.Map{"routines": routines})
}

func (h *PlanHandler) CreatePlan(c *fiber.Ctx) error {
	coach, err := h.resolveCoach(c)
	if err != nil {
		return err
	}

	var req createPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	plan, err := h.plans.CreatePlan(c.Context(), coach.ID, services.CreatePlanInput{
		ActivityTypeID: req.ActivityTypeID,
		Name:           req.Name,
		Description:    req.Description,
		DurationWeeks:  req.DurationWeeks,
		IsTemplate:     req.IsTemplate,
	})
	if err != nil {
		return planError(c, err, "Failed to create plan")
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

func (h *PlanHandler) ListPlans(c *fiber.Ctx) error {
	coach, err := h.resolveCoach(c)
	if err != nil {
		return err
	}
	plans, err := h.plans.ListPlans(c.Context(), coach.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch plans"})
	}
	return c.JSON(fiber.Map{"plans": plans})
}

func (h *PlanHandler) GetPlanStructure(c *fiber.Ctx) error {
	coach, err := h.resolveCoach(c)
	if err != nil {
		return err
	}
	planID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid plan id"})
	}

	structure, err := h.plans.GetPlanStructure(c.Context(), coach.ID, planID)
	if err != nil {
		return planError(c, err, "Failed to fetch plan")
	}
	return c.JSON(structure)
}

func (h *PlanHandler) AddWeek(c *fiber.Ctx) error {
	coach, err := h.resolveCoach(c)
	if err != nil {
		return err
	}
	planID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid plan id"})
	}

	var req addWeekRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	week, err := h.plans.AddWeek(c.Context(), coach.ID, services.AddWeekInput{
		PlanID:      planID,
		Number:      req.Number,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return planError(c, err, "Failed to add week")
	}
	return c.Status(fiber.StatusCreated).JSON(week)
}

func (h *PlanHandler) SetTemplateDay(c *fiber.Ctx) error {
	coach, err := h.resolveCoach(c)
	if err != nil {
		return err
	}
	weekID, err := parseIDParam(c, "weekId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid week id"})
	}

	var req setTemplateDayRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	day, err := h.plans.SetTemplateDay(c.Context(), coach.ID, services.SetTemplateDayInput{
		WeekID:    weekID,
		RoutineID: req.RoutineID,
		Weekday:   models.Weekday(req.Weekday),
		Position:  req.Position,
		Notes:     req.Notes,
	})
	if err != nil {
		return planError(c, err, "Failed to set template day")
	}
	return c.Status(fiber.StatusCreated).JSON(day)
}

func (h *PlanHandler) resolveCoach(c *fiber.Ctx) (*models.Coach, error) {
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

func planError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Already exists"})
	case errors.Is(err, services.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
	}
}
