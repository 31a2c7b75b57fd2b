// handlers/badge.go
package handlers

import (
	"errors"
	"strconv"

	"fitness-challenge-system/middleware"
	"fitness-challenge-system/models"
	"fitness-challenge-system/services"

	"github.com/gofiber/fiber/v2"
)

func awardErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrBadgeNotFound),
		errors.Is(err, services.ErrBadgeNotOwned):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrBadgeAlreadyAwarded):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInactiveUser):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// queryLimit parses ?limit= with a default of 10; the services clamp it.
func queryLimit(c *fiber.Ctx) int {
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		return 10
	}
	return limit
}

func SetupBadgeRoutes(app *fiber.App, catalog *services.BadgeCatalogService, awards *services.BadgeAwardService) {
	// Badge catalog
	badges := app.Group("/badges")
	badges.Get("/", catalog.GetAll)
	badges.Get("/:id", catalog.GetByID)
	badges.Post("/", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin), catalog.Create)
	badges.Put("/:id", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin), catalog.Update)
	badges.Post("/:id/icon", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin), catalog.UploadIcon)
	badges.Delete("/:id", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin), catalog.Delete)

	// Badge ownership
	userBadges := app.Group("/user-badges")

	userBadges.Get("/leaderboard", func(c *fiber.Ctx) error {
		entries, err := awards.Leaderboard(queryLimit(c))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(entries)
	})

	userBadges.Get("/user/:userId", func(c *fiber.Ctx) error {
		owned, err := awards.ListForUser(c.Params("userId"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(owned)
	})

	userBadges.Get("/check/:userId/:badgeId", func(c *fiber.Ctx) error {
		record, has, err := awards.CheckOwnership(c.Params("userId"), c.Params("badgeId"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		if !has {
			return c.JSON(fiber.Map{"has_badge": false})
		}
		return c.JSON(fiber.Map{"has_badge": true, "user_badge": record})
	})

	userBadges.Get("/me", middleware.AuthMiddleware(), func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		owned, err := awards.ListForUser(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(owned)
	})

	userBadges.Post("/award", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		var req struct {
			UserID  string `json:"user_id"`
			BadgeID string `json:"badge_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.UserID == "" || req.BadgeID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields: user_id, badge_id"})
		}

		record, reward, err := awards.Award(req.UserID, req.BadgeID)
		if err != nil {
			return c.Status(awardErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":      "Badge awarded successfully",
			"user_badge":   record,
			"score_reward": reward,
		})
	})

	userBadges.Delete("/revoke/:userId/:badgeId", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		if err := awards.Revoke(c.Params("userId"), c.Params("badgeId")); err != nil {
			return c.Status(awardErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "Badge revoked successfully"})
	})
}
