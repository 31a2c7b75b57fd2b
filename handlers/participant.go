// handlers/participant.go
package handlers

import (
	"errors"

	"fitness-challenge-system/middleware"
	"fitness-challenge-system/models"
	"fitness-challenge-system/services"

	"github.com/gofiber/fiber/v2"
)

// participantErrorStatus maps the state machine's sentinel errors onto HTTP
// codes. Anything unrecognized is an infrastructure fault.
func participantErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrChallengeNotFound),
		errors.Is(err, services.ErrParticipantNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrAlreadyParticipating),
		errors.Is(err, services.ErrParticipantFinished):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidTargetValue),
		errors.Is(err, services.ErrInvalidProgressValue),
		errors.Is(err, services.ErrInvalidParticipantStatus):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func SetupParticipantRoutes(app *fiber.App, participantService *services.ParticipantService) {
	group := app.Group("/challenge-participants")

	group.Get("/", func(c *fiber.Ctx) error {
		participants, err := participantService.GetAll()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(participants)
	})

	group.Get("/challenge/:challengeId", func(c *fiber.Ctx) error {
		participants, err := participantService.GetByChallengeID(c.Params("challengeId"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(participants)
	})

	group.Get("/user/:userId", middleware.AuthMiddleware(), middleware.RequireSelfOrAdmin("userId"), func(c *fiber.Ctx) error {
		participants, err := participantService.GetByUserID(c.Params("userId"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(participants)
	})

	group.Get("/:id", func(c *fiber.Ctx) error {
		participant, err := participantService.GetByID(c.Params("id"))
		if err != nil {
			return c.Status(participantErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(participant)
	})

	group.Post("/join", middleware.AuthMiddleware(), func(c *fiber.Ctx) error {
		var req struct {
			ChallengeID string  `json:"challenge_id"`
			TargetValue float64 `json:"target_value"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.ChallengeID == "" || req.TargetValue == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields: challenge_id, target_value"})
		}

		userID, _ := c.Locals("user_id").(string)
		participant, err := participantService.Join(req.ChallengeID, userID, req.TargetValue)
		if err != nil {
			return c.Status(participantErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(participant)
	})

	group.Patch("/:id/progress", middleware.AuthMiddleware(), func(c *fiber.Ctx) error {
		var req struct {
			ProgressValue *float64 `json:"progress_value"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.ProgressValue == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required field: progress_value"})
		}

		participant, err := participantService.ReportProgress(c.Params("id"), *req.ProgressValue)
		if err != nil {
			return c.Status(participantErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(participant)
	})

	group.Patch("/:id/status", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		var req struct {
			Status string `json:"status"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		participant, err := participantService.SetStatus(c.Params("id"), req.Status)
		if err != nil {
			return c.Status(participantErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(participant)
	})

	group.Patch("/:id/abandon", middleware.AuthMiddleware(), func(c *fiber.Ctx) error {
		participant, err := participantService.Abandon(c.Params("id"))
		if err != nil {
			return c.Status(participantErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{
			"message":     "Challenge abandoned successfully",
			"participant": participant,
		})
	})

	group.Delete("/:id", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		if err := participantService.Delete(c.Params("id")); err != nil {
			return c.Status(participantErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "Participant removed successfully"})
	})
}
