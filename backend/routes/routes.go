package routes

import (
	"log"

	"littlesteps/backend/config"
	"littlesteps/backend/content"
	"littlesteps/backend/controllers"
	"littlesteps/backend/middleware"
	"littlesteps/backend/progress"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *log.Logger) {
	store := progress.NewGormStore(db)
	merger := progress.NewMerger(store, logger)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg, merger, logger)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)

	// Identity routes
	identityController := controllers.NewIdentityController()
	app.Post("/api/identity/device", identityController.RegisterDevice)

	// User routes
	userController := controllers.NewUserController(db, cfg, store)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Progress routes (anonymous devices and signed-in users alike)
	progressController := controllers.NewProgressController(store, cfg, logger)
	app.Get("/api/progress", progressController.GetProgress)
	app.Post("/api/progress", progressController.UpdateProgress)
	app.Get("/api/progress/export", authMiddleware, progressController.ExportProgress)

	// Content generation routes
	contentController := controllers.NewContentController(content.NewClient(cfg), logger)
	app.Post("/api/content/generate", contentController.GenerateExercise)
}
