package models

type Exercise struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	MuscleGroup string `json:"muscle_group"`
	Equipment   string `json:"equipment,omitempty"`

	Timestamps
}

// GymExercise links an exercise into a gym's catalog, with gym-specific notes
// (machine location, house rules, etc.).
type GymExercise struct {
	ID         string `json:"id" gorm:"primaryKey"`
	GymID      string `json:"gym_id" gorm:"uniqueIndex:idx_gym_exercise;not null"`
	ExerciseID string `json:"exercise_id" gorm:"uniqueIndex:idx_gym_exercise;not null"`
	Notes      string `json:"notes,omitempty"`

	Gym      *Gym      `json:"gym,omitempty" gorm:"foreignKey:GymID"`
	Exercise *Exercise `json:"exercise,omitempty" gorm:"foreignKey:ExerciseID"`

	Timestamps
}
