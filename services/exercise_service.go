// services/exercise_service.go
package services

import (
	"errors"
	"log"

	"fitness-challenge-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExerciseService struct {
	DB *gorm.DB
}

func NewExerciseService(db *gorm.DB) *ExerciseService {
	return &ExerciseService{DB: db}
}

func (s *ExerciseService) GetAll(c *fiber.Ctx) error {
	var exercises []models.Exercise
	if err := s.DB.Find(&exercises).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(exercises)
}

func (s *ExerciseService) GetByID(c *fiber.Ctx) error {
	var exercise models.Exercise
	if err := s.DB.First(&exercise, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Exercise not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(exercise)
}

func (s *ExerciseService) Create(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		MuscleGroup string `json:"muscle_group"`
		Equipment   string `json:"equipment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required field: name"})
	}

	exercise := &models.Exercise{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		MuscleGroup: req.MuscleGroup,
		Equipment:   req.Equipment,
	}
	if err := s.DB.Create(exercise).Error; err != nil {
		log.Printf("DB Error creating exercise: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create exercise"})
	}
	return c.Status(fiber.StatusCreated).JSON(exercise)
}

func (s *ExerciseService) Update(c *fiber.Ctx) error {
	var exercise models.Exercise
	if err := s.DB.First(&exercise, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Exercise not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		MuscleGroup *string `json:"muscle_group"`
		Equipment   *string `json:"equipment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Name != nil {
		exercise.Name = *req.Name
	}
	if req.Description != nil {
		exercise.Description = *req.Description
	}
	if req.MuscleGroup != nil {
		exercise.MuscleGroup = *req.MuscleGroup
	}
	if req.Equipment != nil {
		exercise.Equipment = *req.Equipment
	}

	if err := s.DB.Save(&exercise).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update exercise"})
	}
	return c.JSON(exercise)
}

func (s *ExerciseService) Delete(c *fiber.Ctx) error {
	res := s.DB.Delete(&models.Exercise{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete exercise"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Exercise not found"})
	}
	return c.JSON(fiber.Map{"message": "Exercise deleted successfully"})
}

// --- Gym exercise links ---

// ListForGym returns a gym's exercise catalog.
func (s *ExerciseService) ListForGym(c *fiber.Ctx) error {
	var links []models.GymExercise
	if err := s.DB.Preload("Exercise").
		Where("gym_id = ?", c.Params("gymId")).
		Find(&links).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(links)
}

// AttachToGym links an exercise into a gym's catalog.
func (s *ExerciseService) AttachToGym(c *fiber.Ctx) error {
	var req struct {
		GymID      string `json:"gym_id"`
		ExerciseID string `json:"exercise_id"`
		Notes      string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.GymID == "" || req.ExerciseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields: gym_id, exercise_id"})
	}

	var gymCount, exCount int64
	s.DB.Model(&models.Gym{}).Where("id = ?", req.GymID).Count(&gymCount)
	s.DB.Model(&models.Exercise{}).Where("id = ?", req.ExerciseID).Count(&exCount)
	if gymCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Gym not found"})
	}
	if exCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Exercise not found"})
	}

	link := &models.GymExercise{
		ID:         uuid.NewString(),
		GymID:      req.GymID,
		ExerciseID: req.ExerciseID,
		Notes:      req.Notes,
	}
	if err := s.DB.Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Exercise already in gym catalog"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to attach exercise"})
	}
	return c.Status(fiber.StatusCreated).JSON(link)
}

// DetachFromGym removes an exercise from a gym's catalog.
func (s *ExerciseService) DetachFromGym(c *fiber.Ctx) error {
	res := s.DB.Unscoped().
		Where("gym_id = ? AND exercise_id = ?", c.Params("gymId"), c.Params("exerciseId")).
		Delete(&models.GymExercise{})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to detach exercise"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Exercise not in gym catalog"})
	}
	return c.JSON(fiber.Map{"message": "Exercise detached successfully"})
}
