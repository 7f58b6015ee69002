package utils

import (
	"math"

	"backend/models"
)

// Totals is a calorie/macro bundle. All core functions treat missing or zero
// inputs as 0 and never fail for them.
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

func (t *Totals) Add(other Totals) {
	t.Calories += other.Calories
	t.Protein += other.Protein
	t.Carbs += other.Carbs
	t.Fats += other.Fats
}

// DishNutrition sums ingredient contributions at their stored amounts. An
// empty ingredient list yields all-zero totals.
func DishNutrition(ingredients []models.Ingredient) Totals {
	var t Totals
	for _, ing := range ingredients {
		t.Calories += ing.Calories
		t.Protein += ing.Protein
		t.Carbs += ing.Carbs
		t.Fats += ing.Fats
	}
	return t
}

// PreparedIngredient carries per-gram rates alongside the display values for
// the current serving size, so serving changes and per-ingredient edits can be
// recomputed without going back to the raw catalog row.
type PreparedIngredient struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	StoredAmount float64 `json:"stored_amount"` // grams at the dish baseline unit

	CaloriesPerGram float64 `json:"calories_per_gram"`
	ProteinPerGram  float64 `json:"protein_per_gram"`
	CarbsPerGram    float64 `json:"carbs_per_gram"`
	FatsPerGram     float64 `json:"fats_per_gram"`

	// display values at the current serving size; Amount holds the
	// user-supplied grams when CustomAmount is set
	Amount   float64 `json:"amount"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`

	Adjustable   bool `json:"adjustable"`
	CustomAmount bool `json:"custom_amount"`
}

// PreparedDish is a dish normalized for display: authoritative base totals at
// AmountBaseUnit, per-gram ingredient rates, and totals at ServingSize.
type PreparedDish struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	ImageURL       string  `json:"image_url,omitempty"`
	ServingSize    float64 `json:"serving_size"`
	AmountBaseUnit float64 `json:"amount_base_unit"`

	BaseTotals Totals `json:"base_totals"` // at AmountBaseUnit
	Totals     Totals `json:"totals"`      // at ServingSize

	Ingredients []PreparedIngredient `json:"ingredients"`
}

// PrepareDish normalizes a catalog dish for display at servingSize grams
// (0 means the 100 g default).
//
// Ingredient amounts in the catalog are ambiguous between "per 100 g of dish"
// and "per default serving"; the baseline is whichever the raw amount sum is
// numerically closer to. Base totals come from the stored DB contributions,
// not re-derived from rates, so they always agree with DishNutrition.
func PrepareDish(dish *models.Dish, servingSize float64) PreparedDish {
	var sumBase float64
	for _, ing := range dish.Ingredients {
		sumBase += ing.Amount
	}

	amountBaseUnit := 100.0
	if dish.DefaultServing > 0 &&
		math.Abs(sumBase-dish.DefaultServing) < math.Abs(sumBase-100) {
		amountBaseUnit = dish.DefaultServing
	}

	if servingSize <= 0 {
		servingSize = 100
	}
	scale := servingSize / amountBaseUnit

	var base Totals
	ingredients := make([]PreparedIngredient, 0, len(dish.Ingredients))
	for _, ing := range dish.Ingredients {
		stored := ing.Amount
		var calRate, protRate, carbRate, fatRate float64
		if stored > 0 {
			calRate = ing.Calories / stored
			protRate = ing.Protein / stored
			carbRate = ing.Carbs / stored
			fatRate = ing.Fats / stored
		}

		display := round2(stored * scale)
		ingredients = append(ingredients, PreparedIngredient{
			ID:              ing.ID,
			Name:            ing.Name,
			StoredAmount:    stored,
			CaloriesPerGram: calRate,
			ProteinPerGram:  protRate,
			CarbsPerGram:    carbRate,
			FatsPerGram:     fatRate,
			Amount:          display,
			Calories:        round2(calRate * display),
			Protein:         round2(protRate * display),
			Carbs:           round2(carbRate * display),
			Fats:            round2(fatRate * display),
			Adjustable:      ing.Adjustable,
		})

		base.Calories += ing.Calories
		base.Protein += ing.Protein
		base.Carbs += ing.Carbs
		base.Fats += ing.Fats
	}

	return PreparedDish{
		ID:             dish.ID,
		Name:           dish.Name,
		ImageURL:       dish.ImageURL,
		ServingSize:    servingSize,
		AmountBaseUnit: amountBaseUnit,
		BaseTotals: Totals{
			Calories: round2(base.Calories),
			Protein:  round2(base.Protein),
			Carbs:    round2(base.Carbs),
			Fats:     round2(base.Fats),
		},
		Totals: Totals{
			Calories: round2(base.Calories * scale),
			Protein:  round2(base.Protein * scale),
			Carbs:    round2(base.Carbs * scale),
			Fats:     round2(base.Fats * scale),
		},
		Ingredients: ingredients,
	}
}

// RescaleDish recomputes dish totals at p.ServingSize. Ingredients flagged
// CustomAmount contribute as deltas from what proportional scaling would have
// produced, so serving changes and per-ingredient edits compose linearly
// instead of conflicting. Totals are rounded to 2 decimal places.
func RescaleDish(p *PreparedDish) Totals {
	baseline := p.AmountBaseUnit
	if baseline <= 0 {
		baseline = 100
	}
	serving := p.ServingSize
	if serving <= 0 {
		serving = baseline
	}
	scale := serving / baseline

	t := Totals{
		Calories: p.BaseTotals.Calories * scale,
		Protein:  p.BaseTotals.Protein * scale,
		Carbs:    p.BaseTotals.Carbs * scale,
		Fats:     p.BaseTotals.Fats * scale,
	}

	for _, ing := range p.Ingredients {
		if !ing.CustomAmount {
			continue
		}
		defaultAmount := ing.StoredAmount * scale
		t.Calories += ing.CaloriesPerGram * (ing.Amount - defaultAmount)
		t.Protein += ing.ProteinPerGram * (ing.Amount - defaultAmount)
		t.Carbs += ing.CarbsPerGram * (ing.Amount - defaultAmount)
		t.Fats += ing.FatsPerGram * (ing.Amount - defaultAmount)
	}

	return Totals{
		Calories: round2(t.Calories),
		Protein:  round2(t.Protein),
		Carbs:    round2(t.Carbs),
		Fats:     round2(t.Fats),
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
