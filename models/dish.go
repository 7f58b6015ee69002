package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Dish is a catalog recipe with its ingredient breakdown. Ingredient amounts
// are grams relative to the dish baseline unit (100 g or DefaultServing).
type Dish struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Description string
	Store       string
	ImageURL    string

	DefaultServing   float64        // grams; 0 means unknown (treated as 100)
	MealType         string         // delimited, e.g. "Breakfast,Lunch"
	Goals            datatypes.JSON // e.g. ["weight loss"]
	Dietary          datatypes.JSON // e.g. ["vegan","halal"]
	HealthConditions datatypes.JSON // conditions this dish is unsuitable for
	Allergens        datatypes.JSON // dish-level allergen tags
	PrepSteps        string

	Ingredients []Ingredient

	// image matching
	ImageHash        string         `gorm:"type:varchar(64)"`
	ImageEmbedding   datatypes.JSON // fixed-length vector, null until backfilled
	EmbeddingVersion int
}

type Ingredient struct {
	gorm.Model
	DishID uint `gorm:"index;not null"`

	Name     string  `gorm:"not null"`
	Amount   float64 // grams at the dish baseline unit
	Calories float64 // contribution for Amount grams
	Protein  float64
	Carbs    float64
	Fats     float64

	Adjustable bool   // user may override the amount (e.g. rice)
	Allergen   string // e.g. "milk"
}
