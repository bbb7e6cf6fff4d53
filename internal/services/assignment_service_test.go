package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/joninet/app-activapro/internal/models"
	"github.com/joninet/app-activapro/internal/repository"
)

type stubPlanStore struct {
	plan         *models.Plan
	planErr      error
	plans        []models.Plan
	weeks        []models.Week
	week         *models.Week
	weekErr      error
	templateDays []models.TemplateDay
	routine      *models.Routine
	createdWeek  *models.Week
	createdDay   *models.TemplateDay
	createErr    error
}

func (s *stubPlanStore) Create(_ context.Context, _ repository.CreatePlanInput) (*models.Plan, error) {
	return s.plan, s.planErr
}

func (s *stubPlanStore) GetByID(_ context.Context, _ int64) (*models.Plan, error) {
	return s.plan, s.planErr
}

func (s *stubPlanStore) ListByCoachID(_ context.Context, _ int64) ([]models.Plan, error) {
	return s.plans, nil
}

func (s *stubPlanStore) CreateWeek(_ context.Context, _ repository.CreateWeekInput) (*models.Week, error) {
	return s.createdWeek, s.createErr
}

func (s *stubPlanStore) GetWeekByID(_ context.Context, _ int64) (*models.Week, error) {
	return s.week, s.weekErr
}

func (s *stubPlanStore) ListWeeks(_ context.Context, _ int64) ([]models.Week, error) {
	return s.weeks, nil
}

func (s *stubPlanStore) CreateTemplateDay(_ context.Context, _ repository.CreateTemplateDayInput) (*models.TemplateDay, error) {
	return s.createdDay, s.createErr
}

func (s *stubPlanStore) ListTemplateDaysByPlanID(_ context.Context, _ int64) ([]models.TemplateDay, error) {
	return s.templateDays, nil
}

type stubTraineeReader struct {
	trainee *models.Trainee
	err     error
}

func (s *stubTraineeReader) GetByID(_ context.Context, _ int64) (*models.Trainee, error) {
	return s.trainee, s.err
}

func (s *stubTraineeReader) GetByUserID(_ context.Context, _ int64) (*models.Trainee, error) {
	return s.trainee, s.err
}

type stubAssignmentStore struct {
	assignment    *models.PlanAssignment
	assignmentErr error
	days          []models.AssignedDay
	dayCount      int
	updated       *models.PlanAssignment
	lastNext      string
}

func (s *stubAssignmentStore) GetByID(_ context.Context, _ int64) (*models.PlanAssignment, error) {
	return s.assignment, s.assignmentErr
}

func (s *stubAssignmentStore) ListByCoachID(_ context.Context, _ int64) ([]models.PlanAssignment, error) {
	return nil, nil
}

func (s *stubAssignmentStore) ListByTraineeID(_ context.Context, _ int64) ([]models.PlanAssignment, error) {
	return nil, nil
}

func (s *stubAssignmentStore) ListAssignedDays(_ context.Context, _ int64) ([]models.AssignedDay, error) {
	return s.days, nil
}

func (s *stubAssignmentStore) CountAssignedDays(_ context.Context, _ int64) (int, error) {
	return s.dayCount, nil
}

func (s *stubAssignmentStore) UpdateStatusIfCurrent(_ context.Context, _ int64, _, nextStatus string) (*models.PlanAssignment, error) {
	s.lastNext = nextStatus
	return s.updated, nil
}

// mondayStart is 2025-06-02, a Monday, so week offsets line up with
// calendar weekdays without extra arithmetic in the tests.
var mondayStart = time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

func fullTwoWeekTemplate() (*models.Plan, []models.Week, []models.TemplateDay) {
	plan := &models.Plan{ID: 1, CoachID: 5, DurationWeeks: 2}
	weeks := []models.Week{
		{ID: 11, PlanID: 1, Number: 1},
		{ID: 12, PlanID: 1, Number: 2},
	}
	weekdays := []models.Weekday{
		models.Monday, models.Tuesday, models.Wednesday, models.Thursday,
		models.Friday, models.Saturday, models.Sunday,
	}
	var days []models.TemplateDay
	id := int64(100)
	for _, week := range weeks {
		for _, weekday := range weekdays {
			days = append(days, models.TemplateDay{ID: id, WeekID: week.ID, Weekday: weekday})
			id++
		}
	}
	return plan, weeks, days
}

func TestExpandTemplateFullTwoWeeks(t *testing.T) {
	plan, weeks, templateDays := fullTwoWeekTemplate()

	planned := expandTemplate(plan, weeks, templateDays, mondayStart, nil)
	if len(planned) != 14 {
		t.Fatalf("expected 14 planned days, got %d", len(planned))
	}
	for i, day := range planned {
		wantDate := mondayStart.AddDate(0, 0, i)
		if !day.Date.Equal(wantDate) {
			t.Fatalf("day %d: expected date %s, got %s", i, wantDate, day.Date)
		}
		if day.Weekday != models.WeekdayOf(wantDate) {
			t.Fatalf("day %d: expected weekday %s, got %s", i, models.WeekdayOf(wantDate), day.Weekday)
		}
	}
	if planned[0].TemplateDayID != 100 {
		t.Fatalf("expected first slot from week 1 monday, got template day %d", planned[0].TemplateDayID)
	}
	if planned[13].TemplateDayID != 113 {
		t.Fatalf("expected last slot from week 2 sunday, got template day %d", planned[13].TemplateDayID)
	}
}

func TestExpandTemplateSkipsMissingSlots(t *testing.T) {
	plan := &models.Plan{ID: 1, CoachID: 5, DurationWeeks: 2}
	weeks := []models.Week{
		{ID: 11, PlanID: 1, Number: 1},
		{ID: 12, PlanID: 1, Number: 2},
	}
	templateDays := []models.TemplateDay{
		{ID: 100, WeekID: 11, Weekday: models.Monday},
		{ID: 101, WeekID: 11, Weekday: models.Wednesday},
		{ID: 102, WeekID: 12, Weekday: models.Monday},
	}

	planned := expandTemplate(plan, weeks, templateDays, mondayStart, nil)
	if len(planned) != 3 {
		t.Fatalf("expected 3 planned days, got %d", len(planned))
	}
	wantDates := []time.Time{
		mondayStart,                  // week 1 monday
		mondayStart.AddDate(0, 0, 2), // week 1 wednesday
		mondayStart.AddDate(0, 0, 7), // week 2 monday
	}
	for i, day := range planned {
		if !day.Date.Equal(wantDates[i]) {
			t.Fatalf("day %d: expected %s, got %s", i, wantDates[i], day.Date)
		}
	}
}

func TestExpandTemplateTruncatesAtEndDate(t *testing.T) {
	plan, weeks, templateDays := fullTwoWeekTemplate()

	end := mondayStart.AddDate(0, 0, 6)
	planned := expandTemplate(plan, weeks, templateDays, mondayStart, &end)
	if len(planned) != 7 {
		t.Fatalf("expected 7 planned days up to the end date, got %d", len(planned))
	}
	last := planned[len(planned)-1]
	if !last.Date.Equal(end) {
		t.Fatalf("expected last day on %s, got %s", end, last.Date)
	}
}

func TestAssignPlanRejectsEndBeforeStart(t *testing.T) {
	service := &AssignmentService{}
	end := mondayStart.AddDate(0, 0, -1)
	_, err := service.AssignPlan(context.Background(), 5, AssignPlanInput{
		PlanID:    1,
		TraineeID: 2,
		StartDate: mondayStart,
		EndDate:   &end,
	})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestAssignPlanChecksOwnership(t *testing.T) {
	service := &AssignmentService{
		planRepo:    &stubPlanStore{plan: &models.Plan{ID: 1, CoachID: 99}},
		traineeRepo: &stubTraineeReader{trainee: &models.Trainee{ID: 2, CoachID: 5}},
	}
	_, err := service.AssignPlan(context.Background(), 5, AssignPlanInput{
		PlanID: 1, TraineeID: 2, StartDate: mondayStart,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign plan, got %v", err)
	}

	service.planRepo = &stubPlanStore{plan: &models.Plan{ID: 1, CoachID: 5}}
	service.traineeRepo = &stubTraineeReader{trainee: &models.Trainee{ID: 2, CoachID: 99}}
	_, err = service.AssignPlan(context.Background(), 5, AssignPlanInput{
		PlanID: 1, TraineeID: 2, StartDate: mondayStart,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign trainee, got %v", err)
	}
}

func TestAssignPlanCreatesAssignmentAndDays(t *testing.T) {
	plan, weeks, templateDays := fullTwoWeekTemplate()

	nextDayID := int64(200)
	db := &stubDBTX{
		queryRowFn: func(_ context.Context, query string, args ...any) stubRow {
			switch {
			case strings.Contains(query, "INSERT INTO plan_assignments"):
				return stubRow{values: []any{
					int64(42), int64(1), int64(2), mondayStart, (*time.Time)(nil),
					models.AssignmentActive, testTime, testTime,
				}}
			case strings.Contains(query, "INSERT INTO assigned_days"):
				nextDayID++
				return stubRow{values: []any{
					nextDayID, args[0].(int64), args[1].(int64), args[2].(time.Time),
					args[3].(models.Weekday), false, testTime, testTime,
				}}
			}
			return stubRow{err: errors.New("unexpected query: " + query)}
		},
	}
	tx := &stubTx{db: db}
	service := &AssignmentService{
		db:          &stubPool{tx: tx},
		planRepo:    &stubPlanStore{plan: plan, weeks: weeks, templateDays: templateDays},
		traineeRepo: &stubTraineeReader{trainee: &models.Trainee{ID: 2, CoachID: 5}},
	}

	detail, err := service.AssignPlan(context.Background(), 5, AssignPlanInput{
		PlanID: 1, TraineeID: 2, StartDate: mondayStart,
	})
	if err != nil {
		t.Fatalf("AssignPlan: %v", err)
	}
	if detail.ID != 42 {
		t.Fatalf("expected assignment 42, got %d", detail.ID)
	}
	if len(detail.Days) != 14 {
		t.Fatalf("expected 14 assigned days, got %d", len(detail.Days))
	}
	for i := 1; i < len(detail.Days); i++ {
		if !detail.Days[i-1].Date.Before(detail.Days[i].Date) {
			t.Fatalf("expected dates in ascending order at index %d", i)
		}
	}
	if !tx.committed {
		t.Fatal("expected transaction to be committed")
	}
}

func TestExpandAssignmentRefusesWhenDaysExist(t *testing.T) {
	service := &AssignmentService{
		planRepo: &stubPlanStore{plan: &models.Plan{ID: 1, CoachID: 5, DurationWeeks: 2}},
		assignmentRepo: &stubAssignmentStore{
			assignment: &models.PlanAssignment{ID: 42, PlanID: 1, TraineeID: 2, StartDate: mondayStart},
			dayCount:   14,
		},
	}
	_, err := service.ExpandAssignment(context.Background(), 5, 42)
	if !errors.Is(err, ErrAlreadyExpanded) {
		t.Fatalf("expected ErrAlreadyExpanded, got %v", err)
	}
}

func TestUpdateStatusOnlyLeavesActive(t *testing.T) {
	store := &stubAssignmentStore{
		assignment: &models.PlanAssignment{ID: 42, PlanID: 1, Status: models.AssignmentCompleted},
	}
	service := &AssignmentService{
		planRepo:       &stubPlanStore{plan: &models.Plan{ID: 1, CoachID: 5}},
		assignmentRepo: store,
	}

	_, err := service.UpdateStatus(context.Background(), 5, 42, models.AssignmentCancelled)
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}

	_, err = service.UpdateStatus(context.Background(), 5, 42, "paused")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
}

func TestUpdateStatusMovesActiveAssignment(t *testing.T) {
	store := &stubAssignmentStore{
		assignment: &models.PlanAssignment{ID: 42, PlanID: 1, Status: models.AssignmentActive},
		updated:    &models.PlanAssignment{ID: 42, PlanID: 1, Status: models.AssignmentCompleted},
	}
	service := &AssignmentService{
		planRepo:       &stubPlanStore{plan: &models.Plan{ID: 1, CoachID: 5}},
		assignmentRepo: store,
	}

	updated, err := service.UpdateStatus(context.Background(), 5, 42, models.AssignmentCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != models.AssignmentCompleted {
		t.Fatalf("expected completed status, got %s", updated.Status)
	}
	if store.lastNext != models.AssignmentCompleted {
		t.Fatalf("expected completed passed to store, got %s", store.lastNext)
	}
}

func TestGetAssignmentAccessControl(t *testing.T) {
	store := &stubAssignmentStore{
		assignment: &models.PlanAssignment{ID: 42, PlanID: 1, TraineeID: 2},
	}
	service := &AssignmentService{
		planRepo:       &stubPlanStore{plan: &models.Plan{ID: 1, CoachID: 5}},
		assignmentRepo: store,
	}

	if _, err := service.GetAssignment(context.Background(), 2, models.RoleStudent, 42); err != nil {
		t.Fatalf("own trainee should see the assignment: %v", err)
	}
	if _, err := service.GetAssignment(context.Background(), 3, models.RoleStudent, 42); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a foreign trainee, got %v", err)
	}
	if _, err := service.GetAssignment(context.Background(), 5, models.RoleCoach, 42); err != nil {
		t.Fatalf("owning coach should see the assignment: %v", err)
	}
	if _, err := service.GetAssignment(context.Background(), 6, models.RoleCoach, 42); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a foreign coach, got %v", err)
	}
}
