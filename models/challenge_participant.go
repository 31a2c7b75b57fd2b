package models

import (
	"time"
)

const (
	ParticipantStatusJoined    = "joined"
	ParticipantStatusCompleted = "completed"
	ParticipantStatusAbandoned = "abandoned"
	ParticipantStatusFailed    = "failed"
)

// ChallengeParticipant records one user's attempt at one challenge.
// The (challenge_id, user_id) pair is unique; the composite index is the
// storage-level backstop for the duplicate-join check.
type ChallengeParticipant struct {
	ID          string `json:"id" gorm:"primaryKey"`
	ChallengeID string `json:"challenge_id" gorm:"uniqueIndex:idx_challenge_user;not null"`
	UserID      string `json:"user_id" gorm:"uniqueIndex:idx_challenge_user;not null"`

	Status string `json:"status" gorm:"type:varchar(16);default:'joined'"`

	// Progress is derived: clamp(round(ProgressValue/TargetValue*100), 0, 100).
	// Clients only ever send ProgressValue.
	Progress      int     `json:"progress" gorm:"default:0"`
	ProgressValue float64 `json:"progress_value" gorm:"default:0"`

	// TargetValue is fixed at join time.
	TargetValue float64 `json:"target_value" gorm:"not null"`

	// ScoreEarned stays 0 until the completion reward is applied, then is
	// fixed. The grant path is guarded on score_earned = 0, so it is credited
	// at most once per participant.
	ScoreEarned int `json:"score_earned" gorm:"default:0"`

	JoinedAt    time.Time  `json:"joined_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Challenge *Challenge `json:"challenge,omitempty" gorm:"foreignKey:ChallengeID"`
	User      *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`

	Timestamps
}

func ValidParticipantStatus(s string) bool {
	switch s {
	case ParticipantStatusJoined, ParticipantStatusCompleted,
		ParticipantStatusAbandoned, ParticipantStatusFailed:
		return true
	}
	return false
}
