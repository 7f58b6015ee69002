package models

import "gorm.io/gorm"

// MealLogEntry is an immutable record of a dish actually consumed. Totals are
// a snapshot at the logged serving size; rows are only inserted or deleted.
type MealLogEntry struct {
	gorm.Model
	UserID   uint   `gorm:"index;not null"`
	ClientID string `gorm:"type:varchar(36);uniqueIndex"` // dedupes client retries
	DishID   uint   `gorm:"index;not null"`

	MealDate string `gorm:"type:varchar(10);index"` // "YYYY-MM-DD"
	MealType string

	ServingLabel string
	Calories     float64
	Protein      float64
	Carbs        float64
	Fats         float64
}
