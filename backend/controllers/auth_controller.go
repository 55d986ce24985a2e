package controllers

import (
	"errors"
	"log"
	"time"

	"littlesteps/backend/config"
	"littlesteps/backend/identity"
	"littlesteps/backend/models"
	"littlesteps/backend/progress"
	"littlesteps/backend/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Merger *progress.Merger
	Logger *log.Logger
}

func NewAuthController(db *gorm.DB, cfg *config.Config, merger *progress.Merger, logger *log.Logger) *AuthController {
	return &AuthController{DB: db, Cfg: cfg, Merger: merger, Logger: logger}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Language string `json:"language"`
}

// Register godoc
// @Summary Register a new account
// @Description Creates an account and folds any anonymous device progress into it
// @Tags auth
// @Accept json
// @Produce json
// @Param input body RegisterInput true "Registration data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Email == "" || input.Password == "" {
		return utils.BadRequest(c, "Email and password are required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Language:     input.Language,
		LastActive:   time.Now(),
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		return utils.BadRequest(c, "Could not create account")
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	ac.mergeDeviceProgress(c, user.ID)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"name":     user.Name,
			"email":    user.Email,
			"language": user.Language,
		},
	})
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login godoc
// @Summary Sign in
// @Description Authenticates, updates the login streak, and folds any anonymous device progress into the account
// @Tags auth
// @Accept json
// @Produce json
// @Param input body LoginInput true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized(c, "Invalid credentials")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Invalid credentials")
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	ac.DB.Create(&models.LoginHistory{
		UserID:    user.ID,
		LoginTime: time.Now(),
	})

	// Keep the streak alive if the last visit was within two days.
	if time.Since(user.LastActive) < 48*time.Hour {
		user.StreakDays++
	} else {
		user.StreakDays = 1
	}
	user.LastActive = time.Now()
	ac.DB.Save(&user)

	ac.mergeDeviceProgress(c, user.ID)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":          user.ID,
			"name":        user.Name,
			"email":       user.Email,
			"language":    user.Language,
			"streak_days": user.StreakDays,
		},
	})
}

// mergeDeviceProgress folds anonymous progress into the account when the
// request carries a device id. Failures are logged and swallowed: the device
// rows survive an incomplete merge, so the next sign-in picks it up again.
func (ac *AuthController) mergeDeviceProgress(c *fiber.Ctx, userID uint) {
	deviceID := identity.FromRequest(c)
	if deviceID == "" {
		return
	}
	if err := ac.Merger.Merge(deviceID, userID); err != nil {
		ac.Logger.Printf("device progress merge for user %d: %v", userID, err)
	}
}
