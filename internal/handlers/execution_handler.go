package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/joninet/app-activapro/internal/models"
	"github.com/joninet/app-activapro/internal/services"
)

type executionApplicationService interface {
	RecordExecution(ctx context.Context, traineeID int64, input services.RecordExecutionInput) (*models.Execution, error)
	ListExecutions(ctx context.Context, traineeID int64, assignedDayID int64) ([]models.Execution, error)
	AttachImage(ctx context.Context, traineeID int64, executionID int64, file multipart.File, filename, description string) (*models.ExecutionImage, error)
	ListImages(ctx context.Context, traineeID int64, executionID int64) ([]services.ExecutionImageView, error)
}

type ExecutionHandler struct {
	executions  executionApplicationService
	traineeRepo traineeProfileReader
}

func NewExecutionHandler(executions *services.ExecutionService, traineeRepo traineeProfileReader) *ExecutionHandler {
	return &ExecutionHandler{executions: executions, traineeRepo: traineeRepo}
}

type recordExecutionRequest struct {
	PerformedAt     string   `json:"performed_at"`
	Comments        string   `json:"comments"`
	Pace            string   `json:"pace"`
	AvgHeartRate    *int     `json:"avg_heart_rate"`
	MaxHeartRate    *int     `json:"max_heart_rate"`
	DistanceKM      *float64 `json:"distance_km"`
	DurationMinutes *int     `json:"duration_minutes"`
	Rating          *int     `json:"rating"`
}

func (h *ExecutionHandler) RecordExecution(c *fiber.Ctx) error {
	trainee, err := h.resolveTrainee(c)
	if err != nil {
		return err
	}
	dayID, err := parseIDParam(c, "dayId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid day id"})
	}

	var req recordExecutionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	performedAt := time.Now()
	if req.PerformedAt != "" {
		performedAt, err = time.Parse(time.RFC3339, req.PerformedAt)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"performed_at": "Must be an RFC 3339 timestamp."})
		}
	}

	execution, err := h.executions.RecordExecution(c.Context(), trainee.ID, services.RecordExecutionInput{
		AssignedDayID:   dayID,
		PerformedAt:     performedAt,
		Comments:        req.Comments,
		Pace:            req.Pace,
		AvgHeartRate:    req.AvgHeartRate,
		MaxHeartRate:    req.MaxHeartRate,
		DistanceKM:      req.DistanceKM,
		DurationMinutes: req.DurationMinutes,
		Rating:          req.Rating,
	})
	if err != nil {
		return executionError(c, err, "Failed to record execution")
	}
	return c.Status(fiber.StatusCreated).JSON(execution)
}

func (h *ExecutionHandler) ListExecutions(c *fiber.Ctx) error {
	trainee, err := h.resolveTrainee(c)
	if err != nil {
		return err
	}
	dayID, err := parseIDParam(c, "dayId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid day id"})
	}

	executions, err := h.executions.ListExecutions(c.Context(), trainee.ID, dayID)
	if err != nil {
		return executionError(c, err, "Failed to fetch executions")
	}
	return c.JSON(fiber.Map{"executions": executions})
}

func (h *ExecutionHandler) AttachImage(c *fiber.Ctx) error {
	trainee, err := h.resolveTrainee(c)
	if err != nil {
		return err
	}
	executionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid execution id"})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"image": "An image file is required."})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"image": "Could not read the uploaded file."})
	}
	defer file.Close()

	image, err := h.executions.AttachImage(c.Context(), trainee.ID, executionID, file,
		fileHeader.Filename, c.FormValue("description"))
	if err != nil {
		return executionError(c, err, "Failed to attach image")
	}
	return c.Status(fiber.StatusCreated).JSON(image)
}

func (h *ExecutionHandler) ListImages(c *fiber.Ctx) error {
	trainee, err := h.resolveTrainee(c)
	if err != nil {
		return err
	}
	executionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid execution id"})
	}

	images, err := h.executions.ListImages(c.Context(), trainee.ID, executionID)
	if err != nil {
		return executionError(c, err, "Failed to fetch images")
	}
	return c.JSON(fiber.Map{"images": images})
}

func (h *ExecutionHandler) resolveTrainee(c *fiber.Ctx) (*models.Trainee, error) {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	trainee, err := h.traineeRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Student profile required"})
		}
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}
	return trainee, nil
}

func executionError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrStorageUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Image storage is not configured"})
	case errors.Is(err, services.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
	}
}
