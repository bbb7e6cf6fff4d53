package services

import (
	"context"
	"strings"

	"github.com/joninet/app-activapro/internal/models"
	"github.com/joninet/app-activapro/internal/repository"
)

type routineStore interface {
	Create(ctx context.Context, input repository.CreateRoutineInput) (*models.Routine, error)
	GetByID(ctx context.Context, id int64) (*models.Routine, error)
	ListByCoachID(ctx context.Context, coachID int64) ([]models.Routine, error)
}

type planStore interface {
	Create(ctx context.Context, input repository.CreatePlanInput) (*models.Plan, error)
	GetByID(ctx context.Context, id int64) (*models.Plan, error)
	ListByCoachID(ctx context.Context, coachID int64) ([]models.Plan, error)
	CreateWeek(ctx context.Context, input repository.CreateWeekInput) (*models.Week, error)
	GetWeekByID(ctx context.Context, id int64) (*models.Week, error)
	ListWeeks(ctx context.Context, planID int64) ([]models.Week, error)
	CreateTemplateDay(ctx context.Context, input repository.CreateTemplateDayInput) (*models.TemplateDay, error)
	ListTemplateDaysByPlanID(ctx context.Context, planID int64) ([]models.TemplateDay, error)
}

type CreateRoutineInput struct {
	ActivityTypeID int64
	RoutineTypeID  *int64
	Name           string
	Description    string
	Details        string
}

type CreatePlanInput struct {
	ActivityTypeID int64
	Name           string
	Description    string
	DurationWeeks  int
	IsTemplate     bool
}

type AddWeekInput struct {
	PlanID      int64
	Number      int
	Name        string
	Description string
}

type SetTemplateDayInput struct {
	WeekID    int64
	RoutineID *int64
	Weekday   models.Weekday
	Position  int
	Notes     string
}

// WeekWithDays is the plan-structure view: a week and its template days
// in display order.
type WeekWithDays struct {
	models.Week
	Days []models.TemplateDay `json:"days"`
}

type PlanStructure struct {
	models.Plan
	Weeks []WeekWithDays `json:"weeks"`
}

// PlanService covers routine authoring and plan/week/template-day
// composition. Every operation is scoped to the acting coach.
type PlanService struct {
	routineRepo   routineStore
	planRepo      planStore
	activityTypes activityTypeStore
	routineTypes  routineTypeStore
}

func NewPlanService(
	routineRepo *repository.RoutineRepository,
	planRepo *repository.PlanRepository,
	activityTypes *repository.ActivityTypeRepository,
	routineTypes *repository.RoutineTypeRepository,
) *PlanService {
	return &PlanService{
		routineRepo:   routineRepo,
		planRepo:      planRepo,
		activityTypes: activityTypes,
		routineTypes:  routineTypes,
	}
}

func (s *PlanService) CreateRoutine(ctx context.Context, coachID int64, input CreateRoutineInput) (*models.Routine, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.ActivityTypeID <= 0 {
		return nil, ErrInvalidInput
	}

	activityType, err := s.activityTypes.GetByID(ctx, input.ActivityTypeID)
	if err != nil {
		return nil, err
	}
	if !visibleToCoach(activityType.CoachID, coachID) {
		return nil, ErrForbidden
	}
	if input.RoutineTypeID != nil {
		routineType, err := s.routineTypes.GetByID(ctx, *input.RoutineTypeID)
		if err != nil {
			return nil, err
		}
		if !visibleToCoach(routineType.CoachID, coachID) {
			return nil, ErrForbidden
		}
	}

	return s.routineRepo.Create(ctx, repository.CreateRoutineInput{
		CoachID:        coachID,
		ActivityTypeID: input.ActivityTypeID,
		RoutineTypeID:  input.RoutineTypeID,
		Name:           name,
		Description:    strings.TrimSpace(input.Description),
		Details:        strings.TrimSpace(input.Details),
	})
}

func (s *PlanService) ListRoutines(ctx context.Context, coachID int64) ([]models.Routine, error) {
	return s.routineRepo.ListByCoachID(ctx, coachID)
}

func (s *PlanService) CreatePlan(ctx context.Context, coachID int64, input CreatePlanInput) (*models.Plan, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.ActivityTypeID <= 0 {
		return nil, ErrInvalidInput
	}
	if input.DurationWeeks < 1 {
		return nil, ErrInvalidInput
	}

	activityType, err := s.activityTypes.GetByID(ctx, input.ActivityTypeID)
	if err != nil {
		return nil, err
	}
	if !visibleToCoach(activityType.CoachID, coachID) {
		return nil, ErrForbidden
	}

	return s.planRepo.Create(ctx, repository.CreatePlanInput{
		CoachID:        coachID,
		ActivityTypeID: input.ActivityTypeID,
		Name:           name,
		Description:    strings.TrimSpace(input.Description),
		DurationWeeks:  input.DurationWeeks,
		IsTemplate:     input.IsTemplate,
	})
}

func (s *PlanService) ListPlans(ctx context.Context, coachID int64) ([]models.Plan, error) {
	return s.planRepo.ListByCoachID(ctx, coachID)
}

func (s *PlanService) AddWeek(ctx context.Context, coachID int64, input AddWeekInput) (*models.Week, error) {
	if input.Number < 1 {
		return nil, ErrInvalidInput
	}

	plan, err := s.planRepo.GetByID(ctx, input.PlanID)
	if err != nil {
		return nil, err
	}
	if plan.CoachID != coachID {
		return nil, ErrForbidden
	}
	if input.Number > plan.DurationWeeks {
		return nil, ErrInvalidInput
	}

	week, err := s.planRepo.CreateWeek(ctx, repository.CreateWeekInput{
		PlanID:      input.PlanID,
		Number:      input.Number,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
	})
	if err != nil {
		if repository.UniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return week, nil
}

// SetTemplateDay fills a weekday slot in a week. A nil routine makes the
// slot a rest day.
func (s *PlanService) SetTemplateDay(ctx context.Context, coachID int64, input SetTemplateDayInput) (*models.TemplateDay, error) {
	if !input.Weekday.Valid() {
		return nil, ErrInvalidInput
	}

	week, err := s.planRepo.GetWeekByID(ctx, input.WeekID)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetByID(ctx, week.PlanID)
	if err != nil {
		return nil, err
	}
	if plan.CoachID != coachID {
		return nil, ErrForbidden
	}
	if input.RoutineID != nil {
		routine, err := s.routineRepo.GetByID(ctx, *input.RoutineID)
		if err != nil {
			return nil, err
		}
		if routine.CoachID != coachID {
			return nil, ErrForbidden
		}
	}

	day, err := s.planRepo.CreateTemplateDay(ctx, repository.CreateTemplateDayInput{
		WeekID:    input.WeekID,
		RoutineID: input.RoutineID,
		Weekday:   input.Weekday,
		Position:  input.Position,
		Notes:     strings.TrimSpace(input.Notes),
	})
	if err != nil {
		if repository.UniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return day, nil
}

// GetPlanStructure loads a plan with its weeks and template days.
func (s *PlanService) GetPlanStructure(ctx context.Context, coachID int64, planID int64) (*PlanStructure, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.CoachID != coachID {
		return nil, ErrForbidden
	}

	weeks, err := s.planRepo.ListWeeks(ctx, planID)
	if err != nil {
		return nil, err
	}
	days, err := s.planRepo.ListTemplateDaysByPlanID(ctx, planID)
	if err != nil {
		return nil, err
	}

	daysByWeek := make(map[int64][]models.TemplateDay, len(weeks))
	for _, day := range days {
		daysByWeek[day.WeekID] = append(daysByWeek[day.WeekID], day)
	}

	structure := &PlanStructure{Plan: *plan, Weeks: make([]WeekWithDays, 0, len(weeks))}
	for _, week := range weeks {
		structure.Weeks = append(structure.Weeks, WeekWithDays{
			Week: week,
			Days: daysByWeek[week.ID],
		})
	}
	return structure, nil
}
