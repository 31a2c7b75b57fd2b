// services/challenge_service.go
package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"fitness-challenge-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type ChallengeService struct {
	DB *gorm.DB
}

func NewChallengeService(db *gorm.DB) *ChallengeService {
	return &ChallengeService{DB: db}
}

// GetAll returns every challenge, optionally filtered by ?gym_id=.
func (s *ChallengeService) GetAll(c *fiber.Ctx) error {
	db := s.DB.Model(&models.Challenge{})
	if gymID := c.Query("gym_id"); gymID != "" {
		db = db.Where("gym_id = ?", gymID)
	}

	var challenges []models.Challenge
	if err := db.Find(&challenges).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(challenges)
}

// GetAllByStatus lists challenges in one lifecycle status.
func (s *ChallengeService) GetAllByStatus(c *fiber.Ctx) error {
	status := c.Params("status")
	if !models.ValidChallengeStatus(status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status. Must be one of: draft, active, paused, completed, cancelled",
		})
	}

	var challenges []models.Challenge
	if err := s.DB.Where("status = ?", status).Find(&challenges).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(challenges)
}

// GetByGymID lists a gym's active challenges, which is what members browse.
func (s *ChallengeService) GetByGymID(c *fiber.Ctx) error {
	gymID := c.Params("gymId")

	var challenges []models.Challenge
	if err := s.DB.
		Where("gym_id = ? AND status = ?", gymID, models.ChallengeStatusActive).
		Find(&challenges).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(challenges)
}

func (s *ChallengeService) GetByID(c *fiber.Ctx) error {
	var challenge models.Challenge
	if err := s.DB.First(&challenge, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Challenge not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(challenge)
}

// Create adds a challenge in draft status.
func (s *ChallengeService) Create(c *fiber.Ctx) error {
	var req struct {
		Name        string                  `json:"name"`
		Description string                  `json:"description"`
		Type        string                  `json:"type"`
		Difficulty  string                  `json:"difficulty"`
		Duration    int                     `json:"duration"`
		Objective   string                  `json:"objective"`
		GymID       string                  `json:"gym_id"`
		Rewards     models.ChallengeRewards `json:"rewards"`
		StartDate   time.Time               `json:"start_date"`
		EndDate     time.Time               `json:"end_date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var missing []string
	if req.Name == "" {
		missing = append(missing, "name")
	}
	if req.Description == "" {
		missing = append(missing, "description")
	}
	if req.Objective == "" {
		missing = append(missing, "objective")
	}
	if req.GymID == "" {
		missing = append(missing, "gym_id")
	}
	if req.Duration <= 0 {
		missing = append(missing, "duration")
	}
	if req.StartDate.IsZero() {
		missing = append(missing, "start_date")
	}
	if req.EndDate.IsZero() {
		missing = append(missing, "end_date")
	}
	if len(missing) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields: " + strings.Join(missing, ", "),
		})
	}
	if !models.ValidChallengeType(req.Type) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid type. Must be one of: cardio, strength, flexibility, endurance",
		})
	}
	if !models.ValidChallengeDifficulty(req.Difficulty) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid difficulty. Must be one of: easy, medium, hard",
		})
	}
	if !req.EndDate.After(req.StartDate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "End date must be after start date"})
	}
	if req.Rewards.ScorePoints < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Reward score points cannot be negative"})
	}

	createdBy, _ := c.Locals("user_id").(string)
	challenge := &models.Challenge{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		Description: req.Description,
		Type:        req.Type,
		Difficulty:  req.Difficulty,
		Duration:    req.Duration,
		Objective:   req.Objective,
		GymID:       req.GymID,
		CreatedBy:   createdBy,
		Rewards:     req.Rewards,
		Status:      models.ChallengeStatusDraft,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if err := s.DB.Create(challenge).Error; err != nil {
		log.Printf("DB Error creating challenge: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create challenge"})
	}
	return c.Status(fiber.StatusCreated).JSON(challenge)
}

// Update patches challenge metadata. Reward points are intentionally not
// editable here once the challenge left draft; participants completing
// mid-edit must see a stable amount.
func (s *ChallengeService) Update(c *fiber.Ctx) error {
	var challenge models.Challenge
	if err := s.DB.First(&challenge, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Challenge not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req struct {
		Name        *string                  `json:"name"`
		Description *string                  `json:"description"`
		Type        *string                  `json:"type"`
		Difficulty  *string                  `json:"difficulty"`
		Duration    *int                     `json:"duration"`
		Objective   *string                  `json:"objective"`
		Rewards     *models.ChallengeRewards `json:"rewards"`
		StartDate   *time.Time               `json:"start_date"`
		EndDate     *time.Time               `json:"end_date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Name != nil {
		challenge.Name = *req.Name
		challenge.Slug = slug.Make(*req.Name)
	}
	if req.Description != nil {
		challenge.Description = *req.Description
	}
	if req.Type != nil {
		if !models.ValidChallengeType(*req.Type) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid type"})
		}
		challenge.Type = *req.Type
	}
	if req.Difficulty != nil {
		if !models.ValidChallengeDifficulty(*req.Difficulty) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid difficulty"})
		}
		challenge.Difficulty = *req.Difficulty
	}
	if req.Duration != nil {
		challenge.Duration = *req.Duration
	}
	if req.Objective != nil {
		challenge.Objective = *req.Objective
	}
	if req.Rewards != nil {
		if challenge.Status != models.ChallengeStatusDraft {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Rewards can only be edited while the challenge is a draft"})
		}
		if req.Rewards.ScorePoints < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Reward score points cannot be negative"})
		}
		challenge.Rewards = *req.Rewards
	}
	if req.StartDate != nil {
		challenge.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		challenge.EndDate = *req.EndDate
	}
	if !challenge.EndDate.After(challenge.StartDate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "End date must be after start date"})
	}

	if err := s.DB.Save(&challenge).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update challenge"})
	}
	return c.JSON(challenge)
}

// UpdateStatus moves a challenge through its lifecycle.
func (s *ChallengeService) UpdateStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if !models.ValidChallengeStatus(req.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status. Must be one of: draft, active, paused, completed, cancelled",
		})
	}

	var challenge models.Challenge
	if err := s.DB.First(&challenge, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Challenge not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	challenge.Status = req.Status
	if err := s.DB.Save(&challenge).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update status"})
	}
	return c.JSON(challenge)
}

func (s *ChallengeService) Delete(c *fiber.Ctx) error {
	res := s.DB.Delete(&models.Challenge{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete challenge"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Challenge not found"})
	}
	return c.JSON(fiber.Map{"message": "Challenge deleted successfully"})
}
