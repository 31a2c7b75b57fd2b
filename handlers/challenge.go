// handlers/challenge.go
package handlers

import (
	"fitness-challenge-system/middleware"
	"fitness-challenge-system/models"
	"fitness-challenge-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupChallengeRoutes(app *fiber.App, challengeService *services.ChallengeService) {
	challenges := app.Group("/challenges")

	// Public browsing
	challenges.Get("/", challengeService.GetAll)
	challenges.Get("/status/:status", challengeService.GetAllByStatus)
	challenges.Get("/gym/:gymId", challengeService.GetByGymID)
	challenges.Get("/:id", challengeService.GetByID)

	// Management: gym owners and admins
	manage := challenges.Group("/", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin, models.RoleGymOwner))
	manage.Post("/", challengeService.Create)
	manage.Put("/:id", challengeService.Update)
	manage.Patch("/:id/status", challengeService.UpdateStatus)
	manage.Delete("/:id", challengeService.Delete)
}
