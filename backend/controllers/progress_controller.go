package controllers

import (
	"fmt"
	"log"

	"littlesteps/backend/config"
	"littlesteps/backend/identity"
	"littlesteps/backend/progress"
	"littlesteps/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type ProgressController struct {
	Store  progress.Store
	Cfg    *config.Config
	Logger *log.Logger
}

func NewProgressController(store progress.Store, cfg *config.Config, logger *log.Logger) *ProgressController {
	return &ProgressController{Store: store, Cfg: cfg, Logger: logger}
}

// resolveOwner decides whose progress a request is about: the authenticated
// user when a valid token is present, otherwise the anonymous device.
func (pc *ProgressController) resolveOwner(c *fiber.Ctx) progress.Owner {
	if userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg); err == nil {
		return progress.UserOwner(userID)
	}
	return progress.DeviceOwner(identity.Resolve(c))
}

// GetProgress godoc
// @Summary Get aggregated progress
// @Description Returns the full module/exercise counter map for the current owner (account or anonymous device)
// @Tags progress
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponse
// @Router /progress [get]
func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	owner := pc.resolveOwner(c)

	records, err := pc.Store.FetchAll(owner)
	if err != nil {
		return utils.InternalServerError(c, "Could not load progress")
	}

	agg := progress.ApplyRecords(progress.DefaultSkeleton(), records)
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"progress": agg,
	})
}

type UpdateProgressInput struct {
	Module       string `json:"module"`
	ExerciseType string `json:"exercise_type"`
	Value        int    `json:"value"`
}

// UpdateProgress godoc
// @Summary Update one progress counter
// @Description Upserts a single counter for the current owner. The write is best effort: a storage failure is logged, not surfaced, so the client never blocks on it.
// @Tags progress
// @Accept json
// @Produce json
// @Param input body UpdateProgressInput true "Counter to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Router /progress [post]
func (pc *ProgressController) UpdateProgress(c *fiber.Ctx) error {
	var input UpdateProgressInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if !progress.KnownModule(input.Module) {
		return utils.BadRequest(c, "Unknown module")
	}
	if input.ExerciseType == "" {
		return utils.BadRequest(c, "Missing exercise type")
	}
	if input.Value < 0 {
		return utils.BadRequest(c, "Value must not be negative")
	}

	owner := pc.resolveOwner(c)
	if err := pc.Store.Upsert(owner, input.Module, input.ExerciseType, input.Value); err != nil {
		// A lost counter write is acceptable here; never fail the client for it.
		pc.Logger.Printf("progress write for %s: %v", owner, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"accepted": true,
	})
}

// ExportProgress godoc
// @Summary Export progress as a spreadsheet
// @Description Returns the account's progress as an .xlsx workbook, one sheet per module
// @Tags progress
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/export [get]
func (pc *ProgressController) ExportProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	records, err := pc.Store.FetchAll(progress.UserOwner(userID))
	if err != nil {
		return utils.InternalServerError(c, "Could not load progress")
	}
	agg := progress.ApplyRecords(progress.DefaultSkeleton(), records)

	f := excelize.NewFile()
	defer f.Close()

	for i, module := range progress.ModuleOrder {
		sheet := module
		if i == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else {
			f.NewSheet(sheet)
		}

		f.SetCellValue(sheet, "A1", "Exercise")
		f.SetCellValue(sheet, "B1", "Completed")
		row := 2
		for _, exerciseType := range progress.ExerciseTypes[module] {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), exerciseType)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), agg[module][exerciseType])
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return utils.InternalServerError(c, "Could not build workbook")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="progress.xlsx"`)
	return c.Send(buf.Bytes())
}
