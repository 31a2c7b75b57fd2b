// services/badge_catalog_service.go
package services

import (
	"errors"
	"log"
	"path/filepath"

	"fitness-challenge-system/models"
	"fitness-challenge-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BadgeCatalogService manages badge definitions. Awarding/revoking lives in
// BadgeAwardService; this is the thin CRUD side.
type BadgeCatalogService struct {
	DB *gorm.DB
}

func NewBadgeCatalogService(db *gorm.DB) *BadgeCatalogService {
	return &BadgeCatalogService{DB: db}
}

func (s *BadgeCatalogService) GetAll(c *fiber.Ctx) error {
	var badges []models.Badge
	if err := s.DB.Find(&badges).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(badges)
}

func (s *BadgeCatalogService) GetByID(c *fiber.Ctx) error {
	var badge models.Badge
	if err := s.DB.First(&badge, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Badge not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(badge)
}

func (s *BadgeCatalogService) Create(c *fiber.Ctx) error {
	var req struct {
		Name        string                `json:"name"`
		Description string                `json:"description"`
		Icon        string                `json:"icon"`
		Category    string                `json:"category"`
		Rarity      string                `json:"rarity"`
		Condition   models.BadgeCondition `json:"condition"`
		ScoreReward int                   `json:"score_reward"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required field: name"})
	}
	if req.Category != "" && !models.ValidBadgeCategory(req.Category) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid category. Must be one of: challenge, streak, social, milestone",
		})
	}
	if req.Rarity != "" && !models.ValidBadgeRarity(req.Rarity) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid rarity. Must be one of: common, rare, epic, legendary",
		})
	}
	if req.ScoreReward < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Score reward cannot be negative"})
	}

	badge := &models.Badge{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Category:    req.Category,
		Rarity:      req.Rarity,
		Condition:   datatypes.NewJSONType(req.Condition),
		ScoreReward: req.ScoreReward,
	}
	if badge.Category == "" {
		badge.Category = models.BadgeCategoryMilestone
	}
	if badge.Rarity == "" {
		badge.Rarity = models.BadgeRarityCommon
	}
	if err := s.DB.Create(badge).Error; err != nil {
		log.Printf("DB Error creating badge: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create badge"})
	}
	return c.Status(fiber.StatusCreated).JSON(badge)
}

func (s *BadgeCatalogService) Update(c *fiber.Ctx) error {
	var badge models.Badge
	if err := s.DB.First(&badge, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Badge not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req struct {
		Name        *string                `json:"name"`
		Description *string                `json:"description"`
		Icon        *string                `json:"icon"`
		Category    *string                `json:"category"`
		Rarity      *string                `json:"rarity"`
		Condition   *models.BadgeCondition `json:"condition"`
		ScoreReward *int                   `json:"score_reward"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Name != nil {
		badge.Name = *req.Name
	}
	if req.Description != nil {
		badge.Description = *req.Description
	}
	if req.Icon != nil {
		badge.Icon = *req.Icon
	}
	if req.Category != nil {
		if !models.ValidBadgeCategory(*req.Category) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid category"})
		}
		badge.Category = *req.Category
	}
	if req.Rarity != nil {
		if !models.ValidBadgeRarity(*req.Rarity) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid rarity"})
		}
		badge.Rarity = *req.Rarity
	}
	if req.Condition != nil {
		badge.Condition = datatypes.NewJSONType(*req.Condition)
	}
	if req.ScoreReward != nil {
		if *req.ScoreReward < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Score reward cannot be negative"})
		}
		badge.ScoreReward = *req.ScoreReward
	}

	if err := s.DB.Save(&badge).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update badge"})
	}
	return c.JSON(badge)
}

// UploadIcon stores a badge icon on R2 and saves its URL.
func (s *BadgeCatalogService) UploadIcon(c *fiber.Ctx) error {
	var badge models.Badge
	if err := s.DB.First(&badge, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Badge not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	fileHeader, err := c.FormFile("icon")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing icon file"})
	}

	key := "badges/" + badge.ID + filepath.Ext(fileHeader.Filename)
	url, err := utils.UploadFileToR2(fileHeader, key)
	if err != nil {
		log.Printf("R2 upload failed for badge %s: %v", badge.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload icon"})
	}

	badge.Icon = url
	if err := s.DB.Save(&badge).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save icon URL"})
	}
	return c.JSON(badge)
}

func (s *BadgeCatalogService) Delete(c *fiber.Ctx) error {
	var badge models.Badge
	if err := s.DB.First(&badge, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Badge not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Delete(&badge).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete badge"})
	}

	// Best effort: a leaked icon is not worth failing the delete over.
	if key := utils.R2KeyFromURL(badge.Icon); key != "" {
		if err := utils.DeleteFromR2(key); err != nil {
			log.Printf("R2 cleanup failed for badge %s: %v", badge.ID, err)
		}
	}
	return c.JSON(fiber.Map{"message": "Badge deleted successfully"})
}
