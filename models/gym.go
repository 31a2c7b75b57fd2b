package models

type Gym struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null"`
	Slug        string `json:"slug" gorm:"index"`
	Description string `json:"description"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Phone       string `json:"phone,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty" gorm:"type:text"` // R2 URL
	OwnerID     string `json:"owner_id" gorm:"index"`

	Timestamps
}
