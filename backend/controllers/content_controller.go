package controllers

import (
	"log"

	"littlesteps/backend/content"
	"littlesteps/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ContentController struct {
	Client *content.Client
	Logger *log.Logger
}

func NewContentController(client *content.Client, logger *log.Logger) *ContentController {
	return &ContentController{Client: client, Logger: logger}
}

// GenerateExercise godoc
// @Summary Generate an exercise
// @Description Generates a story-with-questions or vocabulary exercise for the given language, theme, and difficulty
// @Tags content
// @Accept json
// @Produce json
// @Param input body content.GenerateRequest true "Exercise parameters"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /content/generate [post]
func (cc *ContentController) GenerateExercise(c *fiber.Ctx) error {
	var input content.GenerateRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Language == "" || input.Theme == "" {
		return utils.BadRequest(c, "Language and theme are required")
	}
	if input.ExerciseType != content.ExerciseStory && input.ExerciseType != content.ExerciseVocabulary {
		return utils.BadRequest(c, "Unknown exercise type")
	}
	if input.WordCount <= 0 {
		input.WordCount = 50
	}
	if input.Difficulty == "" {
		input.Difficulty = "beginner"
	}

	exercise, err := cc.Client.GenerateExercise(input)
	if err != nil {
		cc.Logger.Printf("content generation: %v", err)
		return utils.BadGateway(c, "Could not generate exercise")
	}

	return utils.Success(c, fiber.StatusOK, exercise)
}
