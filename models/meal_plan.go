package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MealPlan caches the last generated plan, one row per user. The plan itself
// is derived data; it is rebuilt whenever the window expires or the profile
// timeframe changes.
type MealPlan struct {
	gorm.Model
	UserID    uint   `gorm:"uniqueIndex;not null"`
	StartDate string `gorm:"type:varchar(10)"`
	EndDate   string `gorm:"type:varchar(10)"`
	Timeframe int
	Plan      datatypes.JSON // utils.WeeklyPlan document
}
