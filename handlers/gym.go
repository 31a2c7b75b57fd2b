// handlers/gym.go
package handlers

import (
	"fitness-challenge-system/middleware"
	"fitness-challenge-system/models"
	"fitness-challenge-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGymRoutes(app *fiber.App, gymService *services.GymService, exerciseService *services.ExerciseService) {
	gyms := app.Group("/gyms")
	gyms.Get("/", gymService.GetAll)
	gyms.Get("/:id", gymService.GetByID)

	manageGyms := gyms.Group("/", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin, models.RoleGymOwner))
	manageGyms.Post("/", gymService.Create)
	manageGyms.Put("/:id", gymService.Update)
	manageGyms.Post("/:id/photo", gymService.UploadPhoto)
	manageGyms.Delete("/:id", gymService.Delete)

	exercises := app.Group("/exercises")
	exercises.Get("/", exerciseService.GetAll)
	exercises.Get("/:id", exerciseService.GetByID)

	manageExercises := exercises.Group("/", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin))
	manageExercises.Post("/", exerciseService.Create)
	manageExercises.Put("/:id", exerciseService.Update)
	manageExercises.Delete("/:id", exerciseService.Delete)

	gymExercises := app.Group("/gym-exercises")
	gymExercises.Get("/gym/:gymId", exerciseService.ListForGym)

	manageLinks := gymExercises.Group("/", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin, models.RoleGymOwner))
	manageLinks.Post("/", exerciseService.AttachToGym)
	manageLinks.Delete("/gym/:gymId/exercise/:exerciseId", exerciseService.DetachFromGym)
}
