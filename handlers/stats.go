// handlers/stats.go
package handlers

import (
	"errors"

	"fitness-challenge-system/middleware"
	"fitness-challenge-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupStatsRoutes(app *fiber.App, statsService *services.StatsService) {
	stats := app.Group("/stats")

	stats.Get("/leaderboard", func(c *fiber.Ctx) error {
		entries, err := statsService.ScoreLeaderboard(queryLimit(c))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(entries)
	})

	stats.Get("/global", func(c *fiber.Ctx) error {
		global, err := statsService.GlobalStats()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(global)
	})

	stats.Get("/user/:userId", func(c *fiber.Ctx) error {
		userStats, err := statsService.UserStats(c.Params("userId"))
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(userStats)
	})

	stats.Get("/me", middleware.AuthMiddleware(), func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		userStats, err := statsService.UserStats(userID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(userStats)
	})
}
