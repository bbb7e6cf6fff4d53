package services

import (
	"context"
	"time"

	"github.com/joninet/app-activapro/internal/models"
	"github.com/joninet/app-activapro/internal/repository"
)

type traineeReader interface {
	GetByID(ctx context.Context, id int64) (*models.Trainee, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Trainee, error)
}

type assignmentStore interface {
	GetByID(ctx context.Context, id int64) (*models.PlanAssignment, error)
	ListByCoachID(ctx context.Context, coachID int64) ([]models.PlanAssignment, error)
	ListByTraineeID(ctx context.Context, traineeID int64) ([]models.PlanAssignment, error)
	ListAssignedDays(ctx context.Context, assignmentID int64) ([]models.AssignedDay, error)
	CountAssignedDays(ctx context.Context, assignmentID int64) (int, error)
	UpdateStatusIfCurrent(ctx context.Context, id int64, currentStatus, nextStatus string) (*models.PlanAssignment, error)
}

type AssignPlanInput struct {
	PlanID    int64
	TraineeID int64
	StartDate time.Time
	EndDate   *time.Time
}

// AssignmentDetail is an assignment together with its materialized days,
// ascending by date.
type AssignmentDetail struct {
	models.PlanAssignment
	Days []models.AssignedDay `json:"days"`
}

// AssignmentService binds plans to trainees and materializes the
// template structure into calendar-dated assigned days.
type AssignmentService struct {
	db             txBeginner
	planRepo       planStore
	traineeRepo    traineeReader
	assignmentRepo assignmentStore
}

func NewAssignmentService(
	db txBeginner,
	planRepo *repository.PlanRepository,
	traineeRepo *repository.TraineeRepository,
	assignmentRepo *repository.AssignmentRepository,
) *AssignmentService {
	return &AssignmentService{
		db:             db,
		planRepo:       planRepo,
		traineeRepo:    traineeRepo,
		assignmentRepo: assignmentRepo,
	}
}

// AssignPlan creates the assignment and expands it into assigned days in
// one transaction, so a failure partway through leaves nothing behind.
func (s *AssignmentService) AssignPlan(ctx context.Context, coachID int64, input AssignPlanInput) (*AssignmentDetail, error) {
	if input.PlanID <= 0 || input.TraineeID <= 0 || input.StartDate.IsZero() {
		return nil, ErrInvalidInput
	}
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return nil, ErrInvalidDateRange
	}

	plan, err := s.planRepo.GetByID(ctx, input.PlanID)
	if err != nil {
		return nil, err
	}
	if plan.CoachID != coachID {
		return nil, ErrForbidden
	}
	trainee, err := s.traineeRepo.GetByID(ctx, input.TraineeID)
	if err != nil {
		return nil, err
	}
	if trainee.CoachID != coachID {
		return nil, ErrForbidden
	}

	weeks, err := s.planRepo.ListWeeks(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	templateDays, err := s.planRepo.ListTemplateDaysByPlanID(ctx, plan.ID)
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

	txRepo := repository.NewAssignmentRepository(tx)
	assignment, err := txRepo.Create(ctx, repository.CreateAssignmentInput{
		PlanID:    plan.ID,
		TraineeID: trainee.ID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	})
	if err != nil {
		return nil, err
	}

	days, err := insertAssignedDays(ctx, txRepo, assignment.ID, plan, weeks, templateDays, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &AssignmentDetail{PlanAssignment: *assignment, Days: days}, nil
}

// ExpandAssignment materializes days for an assignment created without
// them. It refuses to run twice; the (assignment, date) unique index
// backstops concurrent calls.
func (s *AssignmentService) ExpandAssignment(ctx context.Context, coachID int64, assignmentID int64) ([]models.AssignedDay, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetByID(ctx, assignment.PlanID)
	if err != nil {
		return nil, err
	}
	if plan.CoachID != coachID {
		return nil, ErrForbidden
	}

	existing, err := s.assignmentRepo.CountAssignedDays(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrAlreadyExpanded
	}

	weeks, err := s.planRepo.ListWeeks(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	templateDays, err := s.planRepo.ListTemplateDaysByPlanID(ctx, plan.ID)
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

	days, err := insertAssignedDays(ctx, repository.NewAssignmentRepository(tx),
		assignment.ID, plan, weeks, templateDays, assignment.StartDate, assignment.EndDate)
	if err != nil {
		if repository.UniqueViolation(err) {
			return nil, ErrAlreadyExpanded
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return days, nil
}

func (s *AssignmentService) GetAssignment(ctx context.Context, actorID int64, role string, assignmentID int64) (*AssignmentDetail, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, actorID, role, assignment); err != nil {
		return nil, err
	}
	days, err := s.assignmentRepo.ListAssignedDays(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	return &AssignmentDetail{PlanAssignment: *assignment, Days: days}, nil
}

func (s *AssignmentService) ListAssignments(ctx context.Context, actorID int64, role string) ([]models.PlanAssignment, error) {
	switch role {
	case models.RoleCoach:
		return s.assignmentRepo.ListByCoachID(ctx, actorID)
	case models.RoleStudent:
		return s.assignmentRepo.ListByTraineeID(ctx, actorID)
	default:
		return nil, ErrForbidden
	}
}

func (s *AssignmentService) ListAssignedDays(ctx context.Context, actorID int64, role string, assignmentID int64) ([]models.AssignedDay, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, actorID, role, assignment); err != nil {
		return nil, err
	}
	return s.assignmentRepo.ListAssignedDays(ctx, assignmentID)
}

// UpdateStatus moves an active assignment to completed or cancelled.
// Both target states are terminal.
func (s *AssignmentService) UpdateStatus(ctx context.Context, coachID int64, assignmentID int64, nextStatus string) (*models.PlanAssignment, error) {
	if nextStatus != models.AssignmentCompleted && nextStatus != models.AssignmentCancelled {
		return nil, ErrInvalidInput
	}

	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetByID(ctx, assignment.PlanID)
	if err != nil {
		return nil, err
	}
	if plan.CoachID != coachID {
		return nil, ErrForbidden
	}
	if assignment.Status != models.AssignmentActive {
		return nil, ErrInvalidStateTransition
	}

	return s.assignmentRepo.UpdateStatusIfCurrent(ctx, assignmentID, models.AssignmentActive, nextStatus)
}

func (s *AssignmentService) checkAccess(ctx context.Context, actorID int64, role string, assignment *models.PlanAssignment) error {
	switch role {
	case models.RoleStudent:
		if assignment.TraineeID != actorID {
			return ErrForbidden
		}
		return nil
	case models.RoleCoach:
		plan, err := s.planRepo.GetByID(ctx, assignment.PlanID)
		if err != nil {
			return err
		}
		if plan.CoachID != actorID {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}

type templateSlot struct {
	week    int
	weekday models.Weekday
}

// plannedDay is one entry of the deterministic expansion of a plan
// template over a start date.
type plannedDay struct {
	TemplateDayID int64
	Date          time.Time
	Weekday       models.Weekday
}

// expandTemplate computes the assigned-day set for an assignment: one
// entry per calendar date whose (week, weekday) slot exists in the
// template, ascending by date. The span is the plan's duration, truncated
// by the end date when one is set. Missing slots are skipped, not
// fabricated as rest days.
func expandTemplate(plan *models.Plan, weeks []models.Week, templateDays []models.TemplateDay, start time.Time, end *time.Time) []plannedDay {
	weekNumbers := make(map[int64]int, len(weeks))
	for _, week := range weeks {
		weekNumbers[week.ID] = week.Number
	}
	slots := make(map[templateSlot]int64, len(templateDays))
	for _, day := range templateDays {
		number, ok := weekNumbers[day.WeekID]
		if !ok {
			continue
		}
		slots[templateSlot{week: number, weekday: day.Weekday}] = day.ID
	}

	totalDays := plan.DurationWeeks * 7
	if end != nil {
		span := int(end.Sub(start).Hours()/24) + 1
		if span < totalDays {
			totalDays = span
		}
	}

	planned := make([]plannedDay, 0, totalDays)
	for offset := 0; offset < totalDays; offset++ {
		date := start.AddDate(0, 0, offset)
		slot := templateSlot{week: offset/7 + 1, weekday: models.WeekdayOf(date)}
		templateDayID, ok := slots[slot]
		if !ok {
			continue
		}
		planned = append(planned, plannedDay{
			TemplateDayID: templateDayID,
			Date:          date,
			Weekday:       slot.weekday,
		})
	}
	return planned
}

func insertAssignedDays(
	ctx context.Context,
	repo *repository.AssignmentRepository,
	assignmentID int64,
	plan *models.Plan,
	weeks []models.Week,
	templateDays []models.TemplateDay,
	start time.Time,
	end *time.Time,
) ([]models.AssignedDay, error) {
	planned := expandTemplate(plan, weeks, templateDays, start, end)
	days := make([]models.AssignedDay, 0, len(planned))
	for _, p := range planned {
		day, err := repo.CreateAssignedDay(ctx, repository.CreateAssignedDayInput{
			AssignmentID:  assignmentID,
			TemplateDayID: p.TemplateDayID,
			Date:          p.Date,
			Weekday:       p.Weekday,
		})
		if err != nil {
			return nil, err
		}
		days = append(days, *day)
	}
	return days, nil
}
