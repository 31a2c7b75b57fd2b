package services

import (
	"testing"
	"time"

	"fitness-challenge-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAwardBadge(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBadgeAwardService(db, NewScoreLedger(db))
	user := createTestUser(t, db, 10)
	badge := createTestBadge(t, db, 20)

	userBadge, reward, err := svc.Award(user.ID, badge.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, reward)
	assert.Equal(t, user.ID, userBadge.UserID)
	assert.Equal(t, badge.ID, userBadge.BadgeID)
	assert.False(t, userBadge.EarnedAt.IsZero())
	assert.Equal(t, 30, userScore(t, db, user.ID))
}

func TestAwardBadgeDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBadgeAwardService(db, NewScoreLedger(db))
	user := createTestUser(t, db, 0)
	badge := createTestBadge(t, db, 20)

	_, _, err := svc.Award(user.ID, badge.ID)
	require.NoError(t, err)

	_, _, err = svc.Award(user.ID, badge.ID)
	assert.ErrorIs(t, err, ErrBadgeAlreadyAwarded)
	// The duplicate attempt must not credit a second reward.
	assert.Equal(t, 20, userScore(t, db, user.ID))
}

func TestAwardBadgeZeroReward(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBadgeAwardService(db, NewScoreLedger(db))
	user := createTestUser(t, db, 10)
	badge := createTestBadge(t, db, 0)

	_, reward, err := svc.Award(user.ID, badge.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reward)
	assert.Equal(t, 10, userScore(t, db, user.ID))
}

func TestAwardBadgeInactiveUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBadgeAwardService(db, NewScoreLedger(db))
	user := createTestUser(t, db, 0)
	badge := createTestBadge(t, db, 20)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)

	_, _, err := svc.Award(user.ID, badge.ID)
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestAwardBadgeMissingRows(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBadgeAwardService(db, NewScoreLedger(db))
	user := createTestUser(t, db, 0)
	badge := createTestBadge(t, db, 20)

	_, _, err := svc.Award(uuid.NewString(), badge.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, _, err = svc.Award(user.ID, uuid.NewString())
	assert.ErrorIs(t, err, ErrBadgeNotFound)
}

func TestRevokeBadge(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBadgeAwardService(db, NewScoreLedger(db))
	user := createTestUser(t, db, 10)
	badge := createTestBadge(t, db, 20)

	_, _, err := svc.Award(user.ID, badge.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, userScore(t, db, user.ID))

	require.NoError(t, svc.Revoke(user.ID, badge.ID))
	assert.Equal(t, 10, userScore(t, db, user.ID))

	_, owned, err := svc.CheckOwnership(user.ID, badge.ID)
	require.NoError(t, err)
	assert.False(t, owned)

	// Revoking what is no longer owned fails cleanly.
	assert.ErrorIs(t, svc.Revoke(user.ID, badge.ID), ErrBadgeNotOwned)
}

func TestRevokeBadgeClampsAtZero(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBadgeAwardService(db, NewScoreLedger(db))
	user := createTestUser(t, db, 0)
	badge := createTestBadge(t, db, 20)

	_, _, err := svc.Award(user.ID, badge.ID)
	require.NoError(t, err)

	// The user spent score elsewhere since the award.
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("score", 5).Error)

	require.NoError(t, svc.Revoke(user.ID, badge.ID))
	assert.Equal(t, 0, userScore(t, db, user.ID))
}

func TestRevokeLostRaceDoesNotDebitTwice(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBadgeAwardService(db, NewScoreLedger(db))
	user := createTestUser(t, db, 0)
	badge := createTestBadge(t, db, 20)

	_, _, err := svc.Award(user.ID, badge.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, userScore(t, db, user.ID))

	// Pull the row out from under the revoke after its existence check, the
	// way a concurrent revoke that committed first would. Exec bypasses the
	// callback chain, so this fires exactly once.
	fired := false
	err = db.Callback().Delete().Before("gorm:delete").Register("stolen_user_badge", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "user_badges" {
			return
		}
		fired = true
		tx.Session(&gorm.Session{NewDB: true}).
			Exec("DELETE FROM user_badges WHERE user_id = ? AND badge_id = ?", user.ID, badge.ID)
	})
	require.NoError(t, err)
	defer db.Callback().Delete().Remove("stolen_user_badge")

	// The loser must see the missing row and leave the score alone instead of
	// reversing the reward a second time.
	assert.ErrorIs(t, svc.Revoke(user.ID, badge.ID), ErrBadgeNotOwned)
	assert.True(t, fired)
	assert.Equal(t, 20, userScore(t, db, user.ID))
}

func TestRevokeThenReaward(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBadgeAwardService(db, NewScoreLedger(db))
	user := createTestUser(t, db, 0)
	badge := createTestBadge(t, db, 20)

	_, _, err := svc.Award(user.ID, badge.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Revoke(user.ID, badge.ID))

	// Revocation deletes the row outright, so the unique index does not block
	// a later re-award.
	_, reward, err := svc.Award(user.ID, badge.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, reward)
	assert.Equal(t, 20, userScore(t, db, user.ID))
}

func TestCheckOwnership(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBadgeAwardService(db, NewScoreLedger(db))
	user := createTestUser(t, db, 0)
	badge := createTestBadge(t, db, 0)

	_, owned, err := svc.CheckOwnership(user.ID, badge.ID)
	require.NoError(t, err)
	assert.False(t, owned)

	_, _, err = svc.Award(user.ID, badge.ID)
	require.NoError(t, err)

	record, owned, err := svc.CheckOwnership(user.ID, badge.ID)
	require.NoError(t, err)
	assert.True(t, owned)
	require.NotNil(t, record)
	require.NotNil(t, record.Badge)
	assert.Equal(t, badge.ID, record.Badge.ID)
}

func TestListForUserOrdersByEarnedAt(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBadgeAwardService(db, NewScoreLedger(db))
	user := createTestUser(t, db, 0)
	old := createTestBadge(t, db, 0)
	recent := createTestBadge(t, db, 0)

	base := time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&models.UserBadge{
		ID: uuid.NewString(), UserID: user.ID, BadgeID: old.ID, EarnedAt: base,
	}).Error)
	require.NoError(t, db.Create(&models.UserBadge{
		ID: uuid.NewString(), UserID: user.ID, BadgeID: recent.ID, EarnedAt: base.Add(30 * time.Minute),
	}).Error)

	badges, err := svc.ListForUser(user.ID)
	require.NoError(t, err)
	require.Len(t, badges, 2)
	assert.Equal(t, recent.ID, badges[0].BadgeID)
	assert.Equal(t, old.ID, badges[1].BadgeID)
}

func TestBadgeLeaderboard(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBadgeAwardService(db, NewScoreLedger(db))
	collector := createTestUser(t, db, 0)
	casual := createTestUser(t, db, 0)
	createTestUser(t, db, 0) // no badges, never listed

	for i := 0; i < 3; i++ {
		badge := createTestBadge(t, db, 0)
		_, _, err := svc.Award(collector.ID, badge.ID)
		require.NoError(t, err)
		if i == 0 {
			_, _, err = svc.Award(casual.ID, badge.ID)
			require.NoError(t, err)
		}
	}

	entries, err := svc.Leaderboard(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, collector.ID, entries[0].UserID)
	assert.Equal(t, 3, entries[0].BadgeCount)
	assert.Equal(t, casual.ID, entries[1].UserID)
	assert.Equal(t, 1, entries[1].BadgeCount)

	// Out-of-range limits clamp instead of failing.
	entries, err = svc.Leaderboard(0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	entries, err = svc.Leaderboard(500)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 1, clampLimit(0))
	assert.Equal(t, 1, clampLimit(-7))
	assert.Equal(t, 10, clampLimit(10))
	assert.Equal(t, 100, clampLimit(100))
	assert.Equal(t, 100, clampLimit(500))
}
