// services/gym_service.go
package services

import (
	"errors"
	"log"
	"path/filepath"

	"fitness-challenge-system/models"
	"fitness-challenge-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type GymService struct {
	DB *gorm.DB
}

func NewGymService(db *gorm.DB) *GymService {
	return &GymService{DB: db}
}

func (s *GymService) GetAll(c *fiber.Ctx) error {
	var gyms []models.Gym
	if err := s.DB.Find(&gyms).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(gyms)
}

func (s *GymService) GetByID(c *fiber.Ctx) error {
	var gym models.Gym
	if err := s.DB.First(&gym, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Gym not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(gym)
}

func (s *GymService) Create(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Address     string `json:"address"`
		City        string `json:"city"`
		Phone       string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" || req.Address == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields: name, address"})
	}

	ownerID, _ := c.Locals("user_id").(string)
	gym := &models.Gym{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		Phone:       req.Phone,
		OwnerID:     ownerID,
	}
	if err := s.DB.Create(gym).Error; err != nil {
		log.Printf("DB Error creating gym: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create gym"})
	}
	return c.Status(fiber.StatusCreated).JSON(gym)
}

func (s *GymService) Update(c *fiber.Ctx) error {
	var gym models.Gym
	if err := s.DB.First(&gym, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Gym not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Address     *string `json:"address"`
		City        *string `json:"city"`
		Phone       *string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Name != nil {
		gym.Name = *req.Name
		gym.Slug = slug.Make(*req.Name)
	}
	if req.Description != nil {
		gym.Description = *req.Description
	}
	if req.Address != nil {
		gym.Address = *req.Address
	}
	if req.City != nil {
		gym.City = *req.City
	}
	if req.Phone != nil {
		gym.Phone = *req.Phone
	}

	if err := s.DB.Save(&gym).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update gym"})
	}
	return c.JSON(gym)
}

// UploadPhoto stores a gym photo on R2 and saves its URL.
func (s *GymService) UploadPhoto(c *fiber.Ctx) error {
	var gym models.Gym
	if err := s.DB.First(&gym, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Gym not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing photo file"})
	}

	key := "gyms/" + gym.ID + filepath.Ext(fileHeader.Filename)
	url, err := utils.UploadFileToR2(fileHeader, key)
	if err != nil {
		log.Printf("R2 upload failed for gym %s: %v", gym.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload photo"})
	}

	gym.PhotoURL = url
	if err := s.DB.Save(&gym).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save photo URL"})
	}
	return c.JSON(gym)
}

func (s *GymService) Delete(c *fiber.Ctx) error {
	var gym models.Gym
	if err := s.DB.First(&gym, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Gym not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Delete(&gym).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete gym"})
	}

	// Best effort: a leaked photo is not worth failing the delete over.
	if key := utils.R2KeyFromURL(gym.PhotoURL); key != "" {
		if err := utils.DeleteFromR2(key); err != nil {
			log.Printf("R2 cleanup failed for gym %s: %v", gym.ID, err)
		}
	}
	return c.JSON(fiber.Map{"message": "Gym deleted successfully"})
}
