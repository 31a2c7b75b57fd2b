// services/user_service.go
package services

import (
	"errors"

	"fitness-challenge-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// GetAll lists active users only.
func (s *UserService) GetAll(c *fiber.Ctx) error {
	var users []models.User
	if err := s.DB.Where("is_active = ?", true).Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(users)
}

func (s *UserService) GetByID(c *fiber.Ctx) error {
	var user models.User
	if err := s.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(user)
}

// Update patches profile fields. Role, active flag and score are not
// editable here: role changes are an admin concern, and score belongs to the
// ledger alone.
func (s *UserService) Update(c *fiber.Ctx) error {
	var user models.User
	if err := s.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Email     *string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil && *req.Email != "" {
		user.Email = *req.Email
	}

	if err := s.DB.Save(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
	}
	return c.JSON(user)
}

// Deactivate soft-disables an account. The row stays; participations and
// badges keep their references.
func (s *UserService) Deactivate(c *fiber.Ctx) error {
	return s.setActive(c, false)
}

func (s *UserService) Activate(c *fiber.Ctx) error {
	return s.setActive(c, true)
}

func (s *UserService) setActive(c *fiber.Ctx, active bool) error {
	res := s.DB.Model(&models.User{}).
		Where("id = ?", c.Params("id")).
		Update("is_active", active)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(user)
}
