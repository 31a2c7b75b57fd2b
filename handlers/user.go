// handlers/user.go
package handlers

import (
	"fitness-challenge-system/middleware"
	"fitness-challenge-system/models"
	"fitness-challenge-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService) {
	users := app.Group("/users", middleware.AuthMiddleware())

	users.Get("/", middleware.RequireRole(models.RoleAdmin), userService.GetAll)
	users.Get("/:id", middleware.RequireSelfOrAdmin("id"), userService.GetByID)
	users.Put("/:id", middleware.RequireSelfOrAdmin("id"), userService.Update)
	users.Patch("/:id/deactivate", middleware.RequireRole(models.RoleAdmin), userService.Deactivate)
	users.Patch("/:id/activate", middleware.RequireRole(models.RoleAdmin), userService.Activate)
}
