package routes

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joninet/app-activapro/internal/config"
	"github.com/joninet/app-activapro/internal/handlers"
	"github.com/joninet/app-activapro/internal/middleware"
	"github.com/joninet/app-activapro/internal/models"
	"github.com/joninet/app-activapro/internal/repository"
	"github.com/joninet/app-activapro/internal/services"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) error {
	userRepo := repository.NewUserRepository(db)
	coachRepo := repository.NewCoachRepository(db)
	traineeRepo := repository.NewTraineeRepository(db)
	activityTypeRepo := repository.NewActivityTypeRepository(db)
	routineTypeRepo := repository.NewRoutineTypeRepository(db)
	routineRepo := repository.NewRoutineRepository(db)
	planRepo := repository.NewPlanRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	executionRepo := repository.NewExecutionRepository(db)

	var storageService services.StorageService
	if cfg.StorageConfigured() {
		s3Service, err := services.NewS3StorageService(context.Background(), services.S3StorageConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
		})
		if err != nil {
			return err
		}
		storageService = s3Service
	}

	registrationService := services.NewRegistrationService(db, coachRepo)
	taxonomyService := services.NewTaxonomyService(activityTypeRepo, routineTypeRepo)
	planService := services.NewPlanService(routineRepo, planRepo, activityTypeRepo, routineTypeRepo)
	assignmentService := services.NewAssignmentService(db, planRepo, traineeRepo, assignmentRepo)
	executionService := services.NewExecutionService(db, executionRepo, assignmentRepo, storageService)

	authHandler := handlers.NewAuthHandler(registrationService, userRepo, coachRepo, traineeRepo, cfg.JWTSecret)
	taxonomyHandler := handlers.NewTaxonomyHandler(taxonomyService, coachRepo)
	planHandler := handlers.NewPlanHandler(planService, coachRepo)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService, coachRepo, traineeRepo)
	executionHandler := handlers.NewExecutionHandler(executionService, traineeRepo)
	traineeHandler := handlers.NewTraineeHandler(coachRepo, traineeRepo)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/payment/coach-activate", authHandler.ActivateCoach)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))
	coachOnly := middleware.RequireRole(models.RoleCoach)
	studentOnly := middleware.RequireRole(models.RoleStudent)

	trainees := authProtected.Group("/trainees", coachOnly)
	trainees.Get("", traineeHandler.ListTrainees)
	trainees.Get("/:id", traineeHandler.GetTrainee)

	activityTypes := authProtected.Group("/activity-types", coachOnly)
	activityTypes.Get("", taxonomyHandler.ListActivityTypes)
	activityTypes.Post("", taxonomyHandler.CreateActivityType)

	routineTypes := authProtected.Group("/routine-types", coachOnly)
	routineTypes.Get("", taxonomyHandler.ListRoutineTypes)
	routineTypes.Post("", taxonomyHandler.CreateRoutineType)

	routines := authProtected.Group("/routines", coachOnly)
	routines.Get("", planHandler.ListRoutines)
	routines.Post("", planHandler.CreateRoutine)

	plans := authProtected.Group("/plans", coachOnly)
	plans.Get("", planHandler.ListPlans)
	plans.Post("", planHandler.CreatePlan)
	plans.Get("/:id", planHandler.GetPlanStructure)
	plans.Post("/:id/weeks", planHandler.AddWeek)
	plans.Post("/weeks/:weekId/days", planHandler.SetTemplateDay)

	assignments := authProtected.Group("/assignments")
	assignments.Post("", coachOnly, assignmentHandler.AssignPlan)
	assignments.Get("", assignmentHandler.ListAssignments)
	assignments.Get("/:id", assignmentHandler.GetAssignment)
	assignments.Get("/:id/days", assignmentHandler.ListAssignedDays)
	assignments.Post("/:id/expand", coachOnly, assignmentHandler.ExpandAssignment)
	assignments.Put("/:id/status", coachOnly, assignmentHandler.UpdateStatus)

	days := authProtected.Group("/days", studentOnly)
	days.Post("/:dayId/executions", executionHandler.RecordExecution)
	days.Get("/:dayId/executions", executionHandler.ListExecutions)

	executions := authProtected.Group("/executions", studentOnly)
	executions.Post("/:id/images", executionHandler.AttachImage)
	executions.Get("/:id/images", executionHandler.ListImages)

	return nil
}
