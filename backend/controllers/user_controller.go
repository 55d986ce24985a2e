package controllers

import (
	"littlesteps/backend/config"
	"littlesteps/backend/models"
	"littlesteps/backend/progress"
	"littlesteps/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Store progress.Store
}

func NewUserController(db *gorm.DB, cfg *config.Config, store progress.Store) *UserController {
	return &UserController{DB: db, Cfg: cfg, Store: store}
}

// GetProfile godoc
// @Summary Get profile
// @Description Returns the authenticated user's profile together with their aggregated progress
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	agg := progress.DefaultSkeleton()
	if records, err := uc.Store.FetchAll(progress.UserOwner(userID)); err == nil {
		agg = progress.ApplyRecords(agg, records)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":          user.ID,
		"name":        user.Name,
		"email":       user.Email,
		"language":    user.Language,
		"streak_days": user.StreakDays,
		"created_at":  user.CreatedAt,
		"progress":    agg,
	})
}

// UpdateProfile godoc
// @Summary Update profile
// @Description Updates the display name, language, or password of the authenticated user
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [put]
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Name        string `json:"name"`
		Language    string `json:"language"`
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Language != "" {
		user.Language = input.Language
	}
	if input.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
			return utils.BadRequest(c, "Old password is incorrect")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return utils.InternalServerError(c, "Could not hash password")
		}
		user.PasswordHash = string(hashed)
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update profile")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":       user.ID,
		"name":     user.Name,
		"language": user.Language,
	})
}
