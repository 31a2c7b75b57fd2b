package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	BadgeCategoryChallenge = "challenge"
	BadgeCategoryStreak    = "streak"
	BadgeCategorySocial    = "social"
	BadgeCategoryMilestone = "milestone"
)

const (
	BadgeRarityCommon    = "common"
	BadgeRarityRare      = "rare"
	BadgeRarityEpic      = "epic"
	BadgeRarityLegendary = "legendary"
)

// BadgeCondition describes when a badge should be handed out, e.g.
// {"condition_type": "challenges_completed", "value": 10}. Evaluation is an
// admin/tooling concern; the award engine only cares about ScoreReward.
type BadgeCondition struct {
	ConditionType string `json:"condition_type"`
	Value         int    `json:"value"`
}

type Badge struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	Icon        string `json:"icon" gorm:"type:text"` // R2 URL
	Category    string `json:"category" gorm:"type:varchar(16);default:'milestone'"`
	Rarity      string `json:"rarity" gorm:"type:varchar(16);default:'common'"`

	Condition datatypes.JSONType[BadgeCondition] `json:"condition"`

	ScoreReward int `json:"score_reward" gorm:"default:0"`

	Timestamps
}

// UserBadge: the existence of the row is the sole signal of ownership.
// Revoking deletes it physically; there is no revoked flag and no soft
// delete, otherwise the unique index would block a later re-award.
type UserBadge struct {
	ID       string    `json:"id" gorm:"primaryKey"`
	UserID   string    `json:"user_id" gorm:"uniqueIndex:idx_user_badge;not null"`
	BadgeID  string    `json:"badge_id" gorm:"uniqueIndex:idx_user_badge;not null"`
	EarnedAt time.Time `json:"earned_at"`

	Badge *Badge `json:"badge,omitempty" gorm:"foreignKey:BadgeID"`
	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func ValidBadgeCategory(c string) bool {
	switch c {
	case BadgeCategoryChallenge, BadgeCategoryStreak, BadgeCategorySocial, BadgeCategoryMilestone:
		return true
	}
	return false
}

func ValidBadgeRarity(r string) bool {
	switch r {
	case BadgeRarityCommon, BadgeRarityRare, BadgeRarityEpic, BadgeRarityLegendary:
		return true
	}
	return false
}
