package handlers

import (
	"fitness-challenge-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService) {
	auth := app.Group("/auth")
	auth.Post("/register", authService.Register)
	auth.Post("/login", authService.Login)
}
