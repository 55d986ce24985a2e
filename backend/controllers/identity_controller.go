package controllers

import (
	"littlesteps/backend/identity"
	"littlesteps/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type IdentityController struct{}

func NewIdentityController() *IdentityController {
	return &IdentityController{}
}

// RegisterDevice godoc
// @Summary Get or create a device identity
// @Description Returns the device id the request already carries, or mints a new one and sets it as a cookie. Anonymous progress is scoped to this id until sign-in.
// @Tags identity
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /identity/device [post]
func (ic *IdentityController) RegisterDevice(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"device_id": identity.Resolve(c),
	})
}
