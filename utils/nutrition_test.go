package utils

import (
	"math"
	"testing"

	"backend/models"

	"gorm.io/gorm"
)

func ing(id uint, name string, amount, calories, protein, carbs, fats float64) models.Ingredient {
	return models.Ingredient{
		Model:    gorm.Model{ID: id},
		Name:     name,
		Amount:   amount,
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fats:     fats,
	}
}

func TestDishNutrition(t *testing.T) {
	tests := []struct {
		name        string
		ingredients []models.Ingredient
		want        Totals
	}{
		{
			name: "sums contributions",
			ingredients: []models.Ingredient{
				ing(1, "Rice", 100, 130, 2.7, 28, 0.3),
				ing(2, "Chicken", 80, 132, 24.8, 0, 2.9),
			},
			want: Totals{Calories: 262, Protein: 27.5, Carbs: 28, Fats: 3.2},
		},
		{
			name:        "empty list yields zeros",
			ingredients: nil,
			want:        Totals{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DishNutrition(tt.ingredients)
			if got != tt.want {
				t.Errorf("DishNutrition() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPrepareDishRoundTripIdentity(t *testing.T) {
	dish := &models.Dish{
		Name: "Chicken Rice",
		Ingredients: []models.Ingredient{
			ing(1, "Rice", 60, 78, 1.62, 16.8, 0.18),
			ing(2, "Chicken", 40, 66, 12.4, 0, 1.45),
		},
	}

	prepared := PrepareDish(dish, 0)
	agg := DishNutrition(dish.Ingredients)

	if math.Abs(prepared.BaseTotals.Calories-agg.Calories) > 0.01 ||
		math.Abs(prepared.BaseTotals.Protein-agg.Protein) > 0.01 ||
		math.Abs(prepared.BaseTotals.Carbs-agg.Carbs) > 0.01 ||
		math.Abs(prepared.BaseTotals.Fats-agg.Fats) > 0.01 {
		t.Errorf("base totals %+v do not match aggregator %+v", prepared.BaseTotals, agg)
	}

	// rates x stored amounts recompose the DB contributions
	for i, pi := range prepared.Ingredients {
		recomposed := pi.CaloriesPerGram * pi.StoredAmount
		if math.Abs(recomposed-dish.Ingredients[i].Calories) > 0.01 {
			t.Errorf("ingredient %s: rate round-trip %v != %v", pi.Name, recomposed, dish.Ingredients[i].Calories)
		}
	}
}

func TestPrepareDishBaselineInference(t *testing.T) {
	tests := []struct {
		name           string
		defaultServing float64
		amounts        []float64
		want           float64
	}{
		{"amounts near 100 keep 100", 250, []float64{60, 40}, 100},
		{"amounts near default serving adopt it", 250, []float64{150, 90}, 250},
		{"no default serving keeps 100", 0, []float64{300, 200}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dish := &models.Dish{DefaultServing: tt.defaultServing}
			for i, a := range tt.amounts {
				dish.Ingredients = append(dish.Ingredients, ing(uint(i+1), "x", a, a, 0, 0, 0))
			}
			got := PrepareDish(dish, 0)
			if got.AmountBaseUnit != tt.want {
				t.Errorf("AmountBaseUnit = %v, want %v", got.AmountBaseUnit, tt.want)
			}
		})
	}
}

func TestPrepareDishZeroAmountIngredient(t *testing.T) {
	dish := &models.Dish{
		Ingredients: []models.Ingredient{ing(1, "Salt", 0, 0, 0, 0, 0)},
	}
	prepared := PrepareDish(dish, 200)
	pi := prepared.Ingredients[0]
	if pi.CaloriesPerGram != 0 || math.IsNaN(pi.CaloriesPerGram) {
		t.Errorf("zero stored amount must yield zero rate, got %v", pi.CaloriesPerGram)
	}
}

func TestRescaleDishProportional(t *testing.T) {
	dish := &models.Dish{
		Ingredients: []models.Ingredient{ing(1, "Oats", 100, 200, 6, 34, 4)},
	}

	prepared := PrepareDish(dish, 50)
	got := RescaleDish(&prepared)
	want := Totals{Calories: 100, Protein: 3, Carbs: 17, Fats: 2}
	if got != want {
		t.Errorf("RescaleDish() = %+v, want %+v", got, want)
	}
}

func TestRescaleDishWithOverride(t *testing.T) {
	// 2 kcal/g rice, stored 100 g; custom amount 50 g at full serving
	dish := &models.Dish{
		Ingredients: []models.Ingredient{ing(1, "Rice", 100, 200, 4, 44, 0.6)},
	}

	prepared := PrepareDish(dish, 100)
	prepared.Ingredients[0].CustomAmount = true
	prepared.Ingredients[0].Amount = 50

	got := RescaleDish(&prepared)
	if got.Calories != 100 {
		t.Errorf("calories = %v, want 100 (delta from halved rice)", got.Calories)
	}
	if got.Protein != 2 || got.Carbs != 22 || got.Fats != 0.3 {
		t.Errorf("macros = %+v, want halved", got)
	}
}

func TestRescaleDishOverrideComposesWithScaling(t *testing.T) {
	dish := &models.Dish{
		Ingredients: []models.Ingredient{
			ing(1, "Rice", 100, 200, 0, 0, 0),
			ing(2, "Beans", 100, 100, 0, 0, 0),
		},
	}

	// half serving scales both to 50 g; rice overridden back up to 100 g
	prepared := PrepareDish(dish, 100)
	prepared.ServingSize = 100
	prepared.AmountBaseUnit = 200
	prepared.Ingredients[0].CustomAmount = true
	prepared.Ingredients[0].Amount = 100

	got := RescaleDish(&prepared)
	// scaled: 300*0.5 = 150; delta: 2*(100-50) = +100
	if got.Calories != 250 {
		t.Errorf("calories = %v, want 250", got.Calories)
	}
}

func TestRescaleDishZeroBaselineDefaults(t *testing.T) {
	prepared := PreparedDish{
		AmountBaseUnit: 0,
		ServingSize:    0,
		BaseTotals:     Totals{Calories: 123.456},
	}
	got := RescaleDish(&prepared)
	if got.Calories != 123.46 {
		t.Errorf("calories = %v, want 123.46 (scale 1, rounded)", got.Calories)
	}
}
