package handlers

import (
	"context"
	"errors"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/joninet/app-activapro/internal/models"
	"github.com/joninet/app-activapro/internal/services"
	"github.com/joninet/app-activapro/pkg/utils"
)

const (
	coachWelcomeMessage   = "Coach registration successful. Please complete the payment to activate your account."
	studentWelcomeMessage = "Student registration successful. Welcome!"
	coachActivationPath   = "/api/auth/payment/coach-activate"
)

type registrationApplicationService interface {
	Register(ctx context.Context, input services.RegisterInput) (*models.User, error)
	ActivateCoach(ctx context.Context, userID int64) (bool, error)
}

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type coachProfileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Coach, error)
}

type traineeProfileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Trainee, error)
}

type AuthHandler struct {
	registration registrationApplicationService
	userRepo     userReader
	coachRepo    coachProfileReader
	traineeRepo  traineeProfileReader
	jwtSecret    string
}

func NewAuthHandler(
	registration *services.RegistrationService,
	userRepo userReader,
	coachRepo coachProfileReader,
	traineeRepo traineeProfileReader,
	jwtSecret string,
) *AuthHandler {
	return &AuthHandler{
		registration: registration,
		userRepo:     userRepo,
		coachRepo:    coachRepo,
		traineeRepo:  traineeRepo,
		jwtSecret:    jwtSecret,
	}
}

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`

	// Coach profile.
	Specialty string `json:"specialty"`
	Bio       string `json:"bio"`

	// Student profile.
	CoachID   int64    `json:"coach_id"`
	BirthDate string   `json:"birth_date"`
	WeightKG  *float64 `json:"weight_kg"`
	HeightM   *float64 `json:"height_m"`
	Notes     string   `json:"notes"`

	Phone string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type activateCoachRequest struct {
	UserID int64 `json:"user_id"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Role != models.RoleCoach && req.Role != models.RoleStudent {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"role": "Must specify a valid role: 'coach' or 'student'."})
	}
	if strings.TrimSpace(req.Username) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"username": "Username is required."})
	}
	parsedEmail, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"email": "Invalid email format."})
	}
	if len(req.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"password": "Password must be at least 8 characters."})
	}

	input := services.RegisterInput{
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.ToLower(parsedEmail.Address),
		Password:  req.Password,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      req.Role,
		Specialty: strings.TrimSpace(req.Specialty),
		Bio:       strings.TrimSpace(req.Bio),
		Phone:     strings.TrimSpace(req.Phone),
		Notes:     strings.TrimSpace(req.Notes),
		WeightKG:  req.WeightKG,
		HeightM:   req.HeightM,
	}

	if req.Role == models.RoleStudent {
		if req.CoachID <= 0 {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"coach_id": "An active coach id is required for student registration."})
		}
		input.CoachID = req.CoachID
		if req.BirthDate != "" {
			birthDate, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).
					JSON(fiber.Map{"birth_date": "Must be a date in YYYY-MM-DD format."})
			}
			input.BirthDate = &birthDate
		}
		if req.WeightKG != nil && *req.WeightKG < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"weight_kg": "Must not be negative."})
		}
		if req.HeightM != nil && *req.HeightM < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"height_m": "Must not be negative."})
		}
	}

	user, err := h.registration.Register(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrConflict):
			return c.Status(fiber.StatusConflict).
				JSON(fiber.Map{"error": "Username or email already exists"})
		case errors.Is(err, services.ErrCoachNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"coach_id": "Coach not found."})
		case errors.Is(err, services.ErrCoachInactive):
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"coach_id": "Coach account is not active."})
		default:
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"detail": "Registration failed.", "error": err.Error()})
		}
	}

	response := fiber.Map{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	}
	if user.Role == models.RoleCoach {
		response["message"] = coachWelcomeMessage
		response["next_step"] = coachActivationPath
	} else {
		response["message"] = studentWelcomeMessage
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

// ActivateCoach is the payment-confirmation webhook that flips a coach's
// account active. Safe to call repeatedly.
func (h *AuthHandler) ActivateCoach(c *fiber.Ctx) error {
	var req activateCoachRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}
	if req.UserID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "user_id is required."})
	}

	alreadyActive, err := h.registration.ActivateCoach(c.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, services.ErrCoachNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Coach not found."})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to activate coach"})
	}

	message := "Coach activated successfully."
	if alreadyActive {
		message = "Coach was already active."
	}
	return c.JSON(fiber.Map{"message": message})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	parsedEmail, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid email format"})
	}

	user, err := h.userRepo.GetByEmail(c.Context(), strings.ToLower(parsedEmail.Address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"error": "Invalid email or password"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to lookup user"})
	}
	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"error": "Invalid email or password"})
	}

	token, err := utils.GenerateToken(strconv.FormatInt(user.ID, 10), user.Role, h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch user"})
	}

	userPayload := fiber.Map{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"role":       user.Role,
	}

	if user.Role == models.RoleCoach {
		coach, err := h.coachRepo.GetByUserID(c.Context(), userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
		}
		return c.JSON(fiber.Map{"user": userPayload, "profile": coach})
	}

	trainee, err := h.traineeRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}
	return c.JSON(fiber.Map{
		"user":    userPayload,
		"profile": trainee,
		"age":     trainee.Age(time.Now()),
		"bmi":     trainee.BMI(),
	})
}
