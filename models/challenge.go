package models

import (
	"time"
)

const (
	ChallengeTypeCardio      = "cardio"
	ChallengeTypeStrength    = "strength"
	ChallengeTypeFlexibility = "flexibility"
	ChallengeTypeEndurance   = "endurance"
)

const (
	ChallengeDifficultyEasy   = "easy"
	ChallengeDifficultyMedium = "medium"
	ChallengeDifficultyHard   = "hard"
)

const (
	ChallengeStatusDraft     = "draft"
	ChallengeStatusActive    = "active"
	ChallengeStatusPaused    = "paused"
	ChallengeStatusCompleted = "completed"
	ChallengeStatusCancelled = "cancelled"
)

// ChallengeRewards is what a participant earns on completion. ScorePoints is
// read at completion time; the participation engine tolerates edits mid-flight
// but never re-reads it once a participant's ScoreEarned is set.
type ChallengeRewards struct {
	ScorePoints int    `json:"score_points" gorm:"default:0"`
	Description string `json:"description"`
}

type Challenge struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null"`
	Slug        string `json:"slug" gorm:"index"`
	Description string `json:"description"`
	Type        string `json:"type" gorm:"type:varchar(16)"`
	Difficulty  string `json:"difficulty" gorm:"type:varchar(16)"`

	// Duration in days, informational; the authoritative window is
	// StartDate..EndDate.
	Duration  int    `json:"duration"`
	Objective string `json:"objective"`

	GymID     string `json:"gym_id" gorm:"index;not null"`
	CreatedBy string `json:"created_by" gorm:"index"`

	Rewards ChallengeRewards `json:"rewards" gorm:"embedded;embeddedPrefix:reward_"`

	Status    string    `json:"status" gorm:"type:varchar(16);default:'draft'"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	Timestamps
}

func ValidChallengeType(t string) bool {
	switch t {
	case ChallengeTypeCardio, ChallengeTypeStrength, ChallengeTypeFlexibility, ChallengeTypeEndurance:
		return true
	}
	return false
}

func ValidChallengeDifficulty(d string) bool {
	switch d {
	case ChallengeDifficultyEasy, ChallengeDifficultyMedium, ChallengeDifficultyHard:
		return true
	}
	return false
}

func ValidChallengeStatus(s string) bool {
	switch s {
	case ChallengeStatusDraft, ChallengeStatusActive, ChallengeStatusPaused,
		ChallengeStatusCompleted, ChallengeStatusCancelled:
		return true
	}
	return false
}
