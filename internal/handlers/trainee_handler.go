package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/joninet/app-activapro/internal/models"
)

type traineeLister interface {
	ListByCoachIDPaged(ctx context.Context, coachID int64, limit, offset int) ([]models.Trainee, error)
	CountByCoachID(ctx context.Context, coachID int64) (int, error)
	GetByID(ctx context.Context, id int64) (*models.Trainee, error)
}

// TraineeHandler serves a coach's roster with derived metrics.
type TraineeHandler struct {
	coachRepo   coachProfileReader
	traineeRepo traineeLister
}

func NewTraineeHandler(coachRepo coachProfileReader, traineeRepo traineeLister) *TraineeHandler {
	return &TraineeHandler{coachRepo: coachRepo, traineeRepo: traineeRepo}
}

type traineeView struct {
	models.Trainee
	Age *int     `json:"age"`
	BMI *float64 `json:"bmi"`
}

func (h *TraineeHandler) ListTrainees(c *fiber.Ctx) error {
	coach, err := h.resolveCoach(c)
	if err != nil {
		return err
	}

	page, limit := parsePagination(c)
	trainees, err := h.traineeRepo.ListByCoachIDPaged(c.Context(), coach.ID, limit, (page-1)*limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch trainees"})
	}
	total, err := h.traineeRepo.CountByCoachID(c.Context(), coach.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch trainees"})
	}

	now := time.Now()
	views := make([]traineeView, 0, len(trainees))
	for _, trainee := range trainees {
		views = append(views, traineeView{
			Trainee: trainee,
			Age:     trainee.Age(now),
			BMI:     trainee.BMI(),
		})
	}
	return c.JSON(fiber.Map{
		"trainees":   views,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *TraineeHandler) GetTrainee(c *fiber.Ctx) error {
	coach, err := h.resolveCoach(c)
	if err != nil {
		return err
	}
	traineeID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid trainee id"})
	}

	trainee, err := h.traineeRepo.GetByID(c.Context(), traineeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trainee not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch trainee"})
	}
	if trainee.CoachID != coach.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	return c.JSON(traineeView{
		Trainee: *trainee,
		Age:     trainee.Age(time.Now()),
		BMI:     trainee.BMI(),
	})
}

func (h *TraineeHandler) resolveCoach(c *fiber.Ctx) (*models.Coach, error) {
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
