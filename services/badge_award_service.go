// services/badge_award_service.go
package services

import (
	"errors"
	"time"

	"fitness-challenge-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInactiveUser        = errors.New("cannot award badge to inactive user")
	ErrBadgeNotFound       = errors.New("badge not found")
	ErrBadgeAlreadyAwarded = errors.New("user already has this badge")
	ErrBadgeNotOwned       = errors.New("user does not have this badge")
)

// BadgeAwardService grants and revokes badge ownership with exactly-once
// score side effects: the UserBadge write and the ledger credit/debit live in
// the same transaction, and the composite unique index serializes concurrent
// awards of the same (user, badge) pair.
type BadgeAwardService struct {
	DB     *gorm.DB
	Ledger *ScoreLedger
}

func NewBadgeAwardService(db *gorm.DB, ledger *ScoreLedger) *BadgeAwardService {
	return &BadgeAwardService{DB: db, Ledger: ledger}
}

type BadgeLeaderboardEntry struct {
	UserID     string `json:"user_id"`
	BadgeCount int    `json:"badge_count"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Score      int    `json:"score"`
}

// Award grants badgeID to userID and, if the badge carries a score reward,
// credits it in the same transaction. Returns the created record and the
// reward amount applied (0 if the badge carries none).
func (s *BadgeAwardService) Award(userID, badgeID string) (*models.UserBadge, int, error) {
	var userBadge *models.UserBadge
	reward := 0

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if !user.IsActive {
			return ErrInactiveUser
		}

		var badge models.Badge
		if err := tx.First(&badge, "id = ?", badgeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBadgeNotFound
			}
			return err
		}

		var existing int64
		if err := tx.Model(&models.UserBadge{}).
			Where("user_id = ? AND badge_id = ?", userID, badgeID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrBadgeAlreadyAwarded
		}

		userBadge = &models.UserBadge{
			ID:       uuid.NewString(),
			UserID:   userID,
			BadgeID:  badgeID,
			EarnedAt: time.Now(),
		}
		if err := tx.Create(userBadge).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrBadgeAlreadyAwarded
			}
			return err
		}

		if badge.ScoreReward > 0 {
			reward = badge.ScoreReward
			if err := s.Ledger.ApplyDelta(tx, userID, badge.ScoreReward); err != nil {
				return err
			}
		}
		userBadge.Badge = &badge
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return userBadge, reward, nil
}

// Revoke reverses the reward (bounded at zero) and physically deletes the
// ownership record, as one unit. The row is locked on read and the debit only
// happens when this transaction's delete actually removed it, so two
// concurrent revokes of the same pair reverse the reward exactly once. If the
// badge definition has since been deleted, only the record is removed.
func (s *BadgeAwardService) Revoke(userID, badgeID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var userBadge models.UserBadge
		if err := lockForUpdate(tx).First(&userBadge, "user_id = ? AND badge_id = ?", userID, badgeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBadgeNotOwned
			}
			return err
		}

		res := tx.Delete(&models.UserBadge{}, "id = ?", userBadge.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// A concurrent revoke won the race and already reversed the
			// reward.
			return ErrBadgeNotOwned
		}

		var badge models.Badge
		err := tx.First(&badge, "id = ?", badgeID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil && badge.ScoreReward > 0 {
			return s.Ledger.BoundedDebit(tx, userID, badge.ScoreReward)
		}
		return nil
	})
}

// CheckOwnership reports whether the user holds the badge; the record (with
// badge preloaded) is returned when owned.
func (s *BadgeAwardService) CheckOwnership(userID, badgeID string) (*models.UserBadge, bool, error) {
	var userBadge models.UserBadge
	err := s.DB.Preload("Badge").
		First(&userBadge, "user_id = ? AND badge_id = ?", userID, badgeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &userBadge, true, nil
}

// ListForUser returns a user's badges, most recently earned first.
func (s *BadgeAwardService) ListForUser(userID string) ([]models.UserBadge, error) {
	var userBadges []models.UserBadge
	err := s.DB.Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&userBadges).Error
	return userBadges, err
}

// Leaderboard ranks users by badge count, descending. Ties keep the
// grouping order the database returns, stable but otherwise undefined.
func (s *BadgeAwardService) Leaderboard(limit int) ([]BadgeLeaderboardEntry, error) {
	limit = clampLimit(limit)

	var entries []BadgeLeaderboardEntry
	err := s.DB.Raw(`
		SELECT ub.user_id, COUNT(*) AS badge_count, u.first_name, u.last_name, u.score
		FROM user_badges ub
		INNER JOIN users u ON u.id = ub.user_id
		GROUP BY ub.user_id, u.first_name, u.last_name, u.score
		ORDER BY badge_count DESC
		LIMIT ?
	`, limit).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []BadgeLeaderboardEntry{}
	}
	return entries, nil
}

// clampLimit bounds a caller-supplied leaderboard size to 1..100.
func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > 100 {
		return 100
	}
	return limit
}
