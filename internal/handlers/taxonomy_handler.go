package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/joninet/app-activapro/internal/models"
	"github.com/joninet/app-activapro/internal/services"
)

type taxonomyService interface {
	CreateActivityType(ctx context.Context, coachID int64, name, description string) (*models.ActivityType, error)
	ListActivityTypes(ctx context.Context, coachID int64) ([]models.ActivityType, error)
	CreateRoutineType(ctx context.Context, coachID int64, name, description string) (*models.RoutineType, error)
	ListRoutineTypes(ctx context.Context, coachID int64) ([]models.RoutineType, error)
}

type TaxonomyHandler struct {
	taxonomies taxonomyService
	coachRepo  coachProfileReader
}

func NewTaxonomyHandler(taxonomies *services.TaxonomyService, coachRepo coachProfileReader) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomies: taxonomies, coachRepo: coachRepo}
}

type createTaxonomyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *TaxonomyHandler) CreateActivityType(c *fiber.Ctx) error {
	coach, err := h.resolveCoach(c)
	if err != nil {
		return err
	}

	var req createTaxonomyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := h.taxonomies.CreateActivityType(c.Context(), coach.ID, req.Name, req.Description)
	if err != nil {
		return taxonomyError(c, err, "activity type")
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *TaxonomyHandler) ListActivityTypes(c *fiber.Ctx) error {
	coach, err := h.resolveCoach(c)
	if err != nil {
		return err
	}
	types, err := h.taxonomies.ListActivityTypes(c.Context(), coach.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch activity types"})
	}
	return c.JSON(fiber.Map{"activity_types": types})
}

func (h *TaxonomyHandler) CreateRoutineType(c *fiber.Ctx) error {
	coach, err := h.resolveCoach(c)
	if err != nil {
		return err
	}

	var req createTaxonomyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := h.taxonomies.CreateRoutineType(c.Context(), coach.ID, req.Name, req.Description)
	if err != nil {
		return taxonomyError(c, err, "routine type")
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *TaxonomyHandler) ListRoutineTypes(c *fiber.Ctx) error {
	coach, err := h.resolveCoach(c)
	if err != nil {
		return err
	}
	types, err := h.taxonomies.ListRoutineTypes(c.Context(), coach.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch routine types"})
	}
	return c.JSON(fiber.Map{"routine_types": types})
}

func (h *TaxonomyHandler) resolveCoach(c *fiber.Ctx) (*models.Coach, error) {
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

func taxonomyError(c *fiber.Ctx, err error, kind string) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"name": "Name is required."})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A " + kind + " with that name already exists"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create " + kind})
	}
}
