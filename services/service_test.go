package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"fitness-challenge-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory sqlite database, named after the test
// so parallel tests never share state.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Gym{},
		&models.Exercise{},
		&models.GymExercise{},
		&models.Challenge{},
		&models.ChallengeParticipant{},
		&models.Badge{},
		&models.UserBadge{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, score int) *models.User {
	t.Helper()
	user := &models.User{
		ID:        uuid.NewString(),
		Email:     uuid.NewString() + "@example.com",
		Password:  "hashed",
		Role:      models.RoleClient,
		IsActive:  true,
		Score:     score,
		FirstName: "Test",
		LastName:  "User",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestChallenge(t *testing.T, db *gorm.DB, scorePoints int) *models.Challenge {
	t.Helper()
	now := time.Now()
	challenge := &models.Challenge{
		ID:          uuid.NewString(),
		Name:        "30 Day Cardio Blast",
		Description: "Run every day",
		Type:        models.ChallengeTypeCardio,
		Difficulty:  models.ChallengeDifficultyMedium,
		Duration:    30,
		Objective:   "Run 50 km",
		GymID:       uuid.NewString(),
		Status:      models.ChallengeStatusActive,
		StartDate:   now,
		EndDate:     now.AddDate(0, 1, 0),
		Rewards: models.ChallengeRewards{
			ScorePoints: scorePoints,
			Description: "Completion reward",
		},
	}
	require.NoError(t, db.Create(challenge).Error)
	return challenge
}

func createTestBadge(t *testing.T, db *gorm.DB, scoreReward int) *models.Badge {
	t.Helper()
	badge := &models.Badge{
		ID:          uuid.NewString(),
		Name:        "Iron Will",
		Description: "Completed ten challenges",
		Category:    models.BadgeCategoryMilestone,
		Rarity:      models.BadgeRarityRare,
		ScoreReward: scoreReward,
	}
	require.NoError(t, db.Create(badge).Error)
	return badge
}

func userScore(t *testing.T, db *gorm.DB, userID string) int {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", userID).Error)
	return user.Score
}
