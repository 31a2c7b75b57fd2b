package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fitness-challenge-system/middleware"
	"fitness-challenge-system/models"
	"fitness-challenge-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Challenge{}, &models.ChallengeParticipant{},
		&models.Badge{}, &models.UserBadge{},
	))

	ledger := services.NewScoreLedger(db)
	app := fiber.New()
	SetupParticipantRoutes(app, services.NewParticipantService(db, ledger))
	SetupBadgeRoutes(app, services.NewBadgeCatalogService(db), services.NewBadgeAwardService(db, ledger))
	SetupStatsRoutes(app, services.NewStatsService(db))
	return app, db
}

func seedUser(t *testing.T, db *gorm.DB, role string) (*models.User, string) {
	t.Helper()
	user := &models.User{
		ID:       uuid.NewString(),
		Email:    uuid.NewString() + "@example.com",
		Password: "hashed",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	token, err := middleware.SignToken(user.ID, user.Role)
	require.NoError(t, err)
	return user, token
}

func seedChallenge(t *testing.T, db *gorm.DB, scorePoints int) *models.Challenge {
	t.Helper()
	now := time.Now()
	challenge := &models.Challenge{
		ID:         uuid.NewString(),
		Name:       "Summer Shred",
		Type:       models.ChallengeTypeStrength,
		Difficulty: models.ChallengeDifficultyHard,
		Duration:   30,
		GymID:      uuid.NewString(),
		Status:     models.ChallengeStatusActive,
		StartDate:  now,
		EndDate:    now.AddDate(0, 1, 0),
		Rewards:    models.ChallengeRewards{ScorePoints: scorePoints},
	}
	require.NoError(t, db.Create(challenge).Error)
	return challenge
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, payload)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestJoinAndProgressFlow(t *testing.T) {
	app, db := setupTestApp(t)
	_, token := seedUser(t, db, models.RoleClient)
	challenge := seedChallenge(t, db, 60)

	status, body := doJSON(t, app, "POST", "/challenge-participants/join", token, fiber.Map{
		"challenge_id": challenge.ID,
		"target_value": 50,
	})
	require.Equal(t, fiber.StatusCreated, status)
	participantID, _ := body["id"].(string)
	require.NotEmpty(t, participantID)
	assert.Equal(t, "joined", body["status"])

	status, _ = doJSON(t, app, "POST", "/challenge-participants/join", token, fiber.Map{
		"challenge_id": challenge.ID,
		"target_value": 50,
	})
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = doJSON(t, app, "PATCH", "/challenge-participants/"+participantID+"/progress", token, fiber.Map{
		"progress_value": 25,
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(50), body["progress"])
	assert.Equal(t, "joined", body["status"])

	status, body = doJSON(t, app, "PATCH", "/challenge-participants/"+participantID+"/progress", token, fiber.Map{
		"progress_value": 50,
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(100), body["progress"])
	assert.Equal(t, "completed", body["status"])
	assert.Equal(t, float64(60), body["score_earned"])

	// Terminal participants refuse further reports.
	status, _ = doJSON(t, app, "PATCH", "/challenge-participants/"+participantID+"/progress", token, fiber.Map{
		"progress_value": 60,
	})
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestJoinValidation(t *testing.T) {
	app, db := setupTestApp(t)
	_, token := seedUser(t, db, models.RoleClient)
	challenge := seedChallenge(t, db, 10)

	status, _ := doJSON(t, app, "POST", "/challenge-participants/join", "", fiber.Map{
		"challenge_id": challenge.ID,
		"target_value": 50,
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = doJSON(t, app, "POST", "/challenge-participants/join", token, fiber.Map{
		"target_value": 50,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = doJSON(t, app, "POST", "/challenge-participants/join", token, fiber.Map{
		"challenge_id": uuid.NewString(),
		"target_value": 50,
	})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = doJSON(t, app, "POST", "/challenge-participants/join", token, fiber.Map{
		"challenge_id": challenge.ID,
		"target_value": -3,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestStatusEndpointRequiresAdmin(t *testing.T) {
	app, db := setupTestApp(t)
	user, token := seedUser(t, db, models.RoleClient)
	_, adminToken := seedUser(t, db, models.RoleAdmin)
	challenge := seedChallenge(t, db, 10)

	status, body := doJSON(t, app, "POST", "/challenge-participants/join", token, fiber.Map{
		"challenge_id": challenge.ID,
		"target_value": 10,
	})
	require.Equal(t, fiber.StatusCreated, status)
	participantID, _ := body["id"].(string)

	status, _ = doJSON(t, app, "PATCH", "/challenge-participants/"+participantID+"/status", token, fiber.Map{
		"status": "failed",
	})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = doJSON(t, app, "PATCH", "/challenge-participants/"+participantID+"/status", adminToken, fiber.Map{
		"status": "failed",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "failed", body["status"])

	status, _ = doJSON(t, app, "PATCH", "/challenge-participants/"+participantID+"/status", adminToken, fiber.Map{
		"status": "paused",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	var fresh models.User
	require.NoError(t, db.First(&fresh, "id = ?", user.ID).Error)
	assert.Equal(t, 0, fresh.Score)
}

func TestAbandonEndpoint(t *testing.T) {
	app, db := setupTestApp(t)
	_, token := seedUser(t, db, models.RoleClient)
	challenge := seedChallenge(t, db, 10)

	status, body := doJSON(t, app, "POST", "/challenge-participants/join", token, fiber.Map{
		"challenge_id": challenge.ID,
		"target_value": 10,
	})
	require.Equal(t, fiber.StatusCreated, status)
	participantID, _ := body["id"].(string)

	status, body = doJSON(t, app, "PATCH", "/challenge-participants/"+participantID+"/abandon", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	participant, _ := body["participant"].(map[string]any)
	require.NotNil(t, participant)
	assert.Equal(t, "abandoned", participant["status"])
}

func TestAwardEndpoints(t *testing.T) {
	app, db := setupTestApp(t)
	user, token := seedUser(t, db, models.RoleClient)
	_, adminToken := seedUser(t, db, models.RoleAdmin)

	badge := &models.Badge{
		ID:          uuid.NewString(),
		Name:        "Early Bird",
		Category:    models.BadgeCategoryStreak,
		Rarity:      models.BadgeRarityCommon,
		ScoreReward: 15,
	}
	require.NoError(t, db.Create(badge).Error)

	status, _ := doJSON(t, app, "POST", "/user-badges/award", token, fiber.Map{
		"user_id":  user.ID,
		"badge_id": badge.ID,
	})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = doJSON(t, app, "POST", "/user-badges/award", adminToken, fiber.Map{
		"user_id":  user.ID,
		"badge_id": badge.ID,
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, _ = doJSON(t, app, "POST", "/user-badges/award", adminToken, fiber.Map{
		"user_id":  user.ID,
		"badge_id": badge.ID,
	})
	assert.Equal(t, fiber.StatusConflict, status)

	status, body := doJSON(t, app, "GET", "/user-badges/check/"+user.ID+"/"+badge.ID, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["has_badge"])

	status, body = doJSON(t, app, "GET", "/stats/user/"+user.ID, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(15), body["total_score"])
	assert.Equal(t, float64(1), body["total_badges"])

	status, _ = doJSON(t, app, "DELETE", "/user-badges/revoke/"+user.ID+"/"+badge.ID, adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, body = doJSON(t, app, "GET", "/user-badges/check/"+user.ID+"/"+badge.ID, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, body["has_badge"])
}
