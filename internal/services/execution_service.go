package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joninet/app-activapro/internal/models"
	"github.com/joninet/app-activapro/internal/repository"
)

type executionStore interface {
	Create(ctx context.Context, input repository.CreateExecutionInput) (*models.Execution, error)
	GetByID(ctx context.Context, id int64) (*models.Execution, error)
	ListByAssignedDayID(ctx context.Context, assignedDayID int64) ([]models.Execution, error)
	CreateImage(ctx context.Context, input repository.CreateExecutionImageInput) (*models.ExecutionImage, error)
	ListImages(ctx context.Context, executionID int64) ([]models.ExecutionImage, error)
}

type assignedDayStore interface {
	GetByID(ctx context.Context, id int64) (*models.PlanAssignment, error)
	GetAssignedDayByID(ctx context.Context, id int64) (*models.AssignedDay, error)
}

type RecordExecutionInput struct {
	AssignedDayID   int64
	PerformedAt     time.Time
	Comments        string
	Pace            string
	AvgHeartRate    *int
	MaxHeartRate    *int
	DistanceKM      *float64
	DurationMinutes *int
	Rating          *int
}

// ExecutionService records performed workouts against assigned days and
// manages their image attachments.
type ExecutionService struct {
	db             txBeginner
	executionRepo  executionStore
	assignmentRepo assignedDayStore
	storage        StorageService
}

func NewExecutionService(
	db txBeginner,
	executionRepo *repository.ExecutionRepository,
	assignmentRepo *repository.AssignmentRepository,
	storage StorageService,
) *ExecutionService {
	return &ExecutionService{
		db:             db,
		executionRepo:  executionRepo,
		assignmentRepo: assignmentRepo,
		storage:        storage,
	}
}

// RecordExecution persists the execution and, when the parent day is not
// yet completed, marks it so. Both writes share one transaction; later
// executions against an already-completed day leave the flag untouched.
func (s *ExecutionService) RecordExecution(ctx context.Context, traineeID int64, input RecordExecutionInput) (*models.Execution, error) {
	if err := validateExecutionInput(input); err != nil {
		return nil, err
	}

	day, err := s.assignmentRepo.GetAssignedDayByID(ctx, input.AssignedDayID)
	if err != nil {
		return nil, err
	}
	assignment, err := s.assignmentRepo.GetByID(ctx, day.AssignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.TraineeID != traineeID {
		return nil, ErrForbidden
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	execution, err := repository.NewExecutionRepository(tx).Create(ctx, repository.CreateExecutionInput{
		AssignedDayID:   input.AssignedDayID,
		PerformedAt:     input.PerformedAt,
		Comments:        strings.TrimSpace(input.Comments),
		Pace:            strings.TrimSpace(input.Pace),
		AvgHeartRate:    input.AvgHeartRate,
		MaxHeartRate:    input.MaxHeartRate,
		DistanceKM:      input.DistanceKM,
		DurationMinutes: input.DurationMinutes,
		Rating:          input.Rating,
	})
	if err != nil {
		return nil, err
	}

	if !day.Completed {
		if err := repository.NewAssignmentRepository(tx).MarkAssignedDayCompleted(ctx, day.ID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return execution, nil
}

func (s *ExecutionService) ListExecutions(ctx context.Context, traineeID int64, assignedDayID int64) ([]models.Execution, error) {
	day, err := s.assignmentRepo.GetAssignedDayByID(ctx, assignedDayID)
	if err != nil {
		return nil, err
	}
	assignment, err := s.assignmentRepo.GetByID(ctx, day.AssignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.TraineeID != traineeID {
		return nil, ErrForbidden
	}
	return s.executionRepo.ListByAssignedDayID(ctx, assignedDayID)
}

// AttachImage uploads the file to object storage and records the
// attachment. A failed insert deletes the uploaded object again.
func (s *ExecutionService) AttachImage(ctx context.Context, traineeID int64, executionID int64, file multipart.File, filename, description string) (*models.ExecutionImage, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	if file == nil {
		return nil, ErrInvalidInput
	}

	execution, err := s.executionRepo.GetByID(ctx, executionID)
	if err != nil {
		return nil, err
	}
	if err := s.checkExecutionOwnership(ctx, traineeID, execution); err != nil {
		return nil, err
	}

	imageURL, err := s.storage.UploadFile(ctx, file, buildImageObjectName(executionID, filename), "executions")
	if err != nil {
		return nil, err
	}

	image, err := s.executionRepo.CreateImage(ctx, repository.CreateExecutionImageInput{
		ExecutionID: executionID,
		ImageURL:    imageURL,
		Description: strings.TrimSpace(description),
	})
	if err != nil {
		if cleanupErr := s.storage.DeleteFile(ctx, imageURL); cleanupErr != nil {
			return nil, errors.Join(err, fmt.Errorf("cleanup failed: %w", cleanupErr))
		}
		return nil, err
	}
	return image, nil
}

// ExecutionImageView pairs a stored attachment with a short-lived
// download URL. The stored image_url is the object key, not a link a
// client can fetch directly.
type ExecutionImageView struct {
	models.ExecutionImage
	DownloadURL string `json:"download_url,omitempty"`
}

func (s *ExecutionService) ListImages(ctx context.Context, traineeID int64, executionID int64) ([]ExecutionImageView, error) {
	execution, err := s.executionRepo.GetByID(ctx, executionID)
	if err != nil {
		return nil, err
	}
	if err := s.checkExecutionOwnership(ctx, traineeID, execution); err != nil {
		return nil, err
	}

	images, err := s.executionRepo.ListImages(ctx, executionID)
	if err != nil {
		return nil, err
	}

	views := make([]ExecutionImageView, 0, len(images))
	for _, image := range images {
		view := ExecutionImageView{ExecutionImage: image}
		if s.storage != nil {
			url, err := s.storage.GetSignedURL(ctx, image.ImageURL)
			if err != nil {
				return nil, err
			}
			view.DownloadURL = url
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *ExecutionService) checkExecutionOwnership(ctx context.Context, traineeID int64, execution *models.Execution) error {
	day, err := s.assignmentRepo.GetAssignedDayByID(ctx, execution.AssignedDayID)
	if err != nil {
		return err
	}
	assignment, err := s.assignmentRepo.GetByID(ctx, day.AssignmentID)
	if err != nil {
		return err
	}
	if assignment.TraineeID != traineeID {
		return ErrForbidden
	}
	return nil
}

func validateExecutionInput(input RecordExecutionInput) error {
	if input.AssignedDayID <= 0 || input.PerformedAt.IsZero() {
		return ErrInvalidInput
	}
	for _, hr := range []*int{input.AvgHeartRate, input.MaxHeartRate} {
		if hr != nil && (*hr < models.HeartRateMin || *hr > models.HeartRateMax) {
			return ErrInvalidInput
		}
	}
	if input.DistanceKM != nil && *input.DistanceKM < 0 {
		return ErrInvalidInput
	}
	if input.DurationMinutes != nil && *input.DurationMinutes < 0 {
		return ErrInvalidInput
	}
	if input.Rating != nil && (*input.Rating < models.RatingMin || *input.Rating > models.RatingMax) {
		return ErrInvalidInput
	}
	return nil
}

func buildImageObjectName(executionID int64, original string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(original)))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%d-%s%s", executionID, uuid.NewString(), ext)
}
