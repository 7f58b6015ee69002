package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// HealthProfile holds one user's diet preferences, daily targets and the
// current meal-plan window. Created at onboarding, updated on profile edits.
type HealthProfile struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex;not null"`

	// raw inputs the daily needs are derived from
	BirthYear     int
	BirthMonth    int
	Gender        string
	HeightCm      float64
	WeightKg      float64
	ActivityLevel string

	Goal             string
	EatingStyle      string
	Allergens        datatypes.JSON // e.g. ["dairy","peanut"]
	HealthConditions datatypes.JSON

	// derived daily targets
	BMI          float64
	BMIStatus    string
	CalorieNeeds float64
	ProteinNeeds float64
	CarbsNeeds   float64
	FatsNeeds    float64

	MealsPerDay int
	Timeframe   int // plan length in days

	// normalized "YYYY-MM-DD"; empty until a plan has been generated
	PlanStartDate string `gorm:"type:varchar(10)"`
	PlanEndDate   string `gorm:"type:varchar(10)"`
}
