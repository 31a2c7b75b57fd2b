package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin    = "admin"
	RoleGymOwner = "gym_owner"
	RoleClient   = "client"
)

type User struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`
	Role     string `json:"role" gorm:"type:varchar(16);default:'client'"`

	// IsActive gates badge awards and leaderboard visibility.
	// Deactivation is a soft disable; the row stays for history.
	IsActive bool `json:"is_active" gorm:"default:true"`

	// Score is only written through the score ledger (atomic increments,
	// bounded decrements). Never set it directly from request payloads.
	Score int `json:"score" gorm:"default:0"`

	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`

	Timestamps
}

func ValidUserRole(role string) bool {
	switch role {
	case RoleAdmin, RoleGymOwner, RoleClient:
		return true
	}
	return false
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
