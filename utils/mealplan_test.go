package utils

import (
	"math"
	"reflect"
	"testing"
	"time"

	"backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func jsonList(s string) datatypes.JSON {
	return datatypes.JSON([]byte(s))
}

func testProfile() *models.HealthProfile {
	return &models.HealthProfile{
		Goal:         "Weight loss",
		CalorieNeeds: 2000,
		ProteinNeeds: 150,
		CarbsNeeds:   200,
		FatsNeeds:    65,
		MealsPerDay:  3,
		Timeframe:    7,
	}
}

func dishWithIngredients(id uint, name, mealType string, ingredients ...models.Ingredient) models.Dish {
	return models.Dish{
		Model:       gorm.Model{ID: id},
		Name:        name,
		MealType:    mealType,
		Ingredients: ingredients,
	}
}

func TestEligibleDishesAllergens(t *testing.T) {
	tests := []struct {
		name      string
		allergens string
		dish      models.Dish
		excluded  bool
	}{
		{
			name:      "dairy category excludes milk ingredient",
			allergens: `["dairy"]`,
			dish:      dishWithIngredients(1, "Oatmeal", "Breakfast", ing(1, "Milk", 100, 60, 3, 5, 3)),
			excluded:  true,
		},
		{
			name:      "meat category excludes chicken substring",
			allergens: `["meat"]`,
			dish:      dishWithIngredients(2, "Salad", "Lunch", ing(2, "Grilled Chicken", 80, 130, 25, 0, 3)),
			excluded:  true,
		},
		{
			name:      "allergen in dish name",
			allergens: `["peanut"]`,
			dish:      dishWithIngredients(3, "Peanut Noodles", "Dinner", ing(3, "Noodles", 100, 150, 5, 30, 1)),
			excluded:  true,
		},
		{
			name:      "ingredient allergen tag",
			allergens: `["shrimp"]`,
			dish: dishWithIngredients(4, "Fried Rice", "Dinner", models.Ingredient{
				Model: gorm.Model{ID: 4}, Name: "Secret Protein", Amount: 50, Allergen: "shrimp",
			}),
			excluded: true,
		},
		{
			name:      "unrelated allergen passes",
			allergens: `["dairy"]`,
			dish:      dishWithIngredients(5, "Rice Bowl", "Lunch", ing(5, "Rice", 100, 130, 2.7, 28, 0.3)),
			excluded:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := testProfile()
			profile.Allergens = jsonList(tt.allergens)

			got := EligibleDishes(profile, []models.Dish{tt.dish}, "")
			if tt.excluded && len(got) != 0 {
				t.Errorf("dish %q should be excluded", tt.dish.Name)
			}
			if !tt.excluded && len(got) != 1 {
				t.Errorf("dish %q should be eligible", tt.dish.Name)
			}
		})
	}
}

func TestEligibleDishesHealthConditions(t *testing.T) {
	tests := []struct {
		name     string
		raw      datatypes.JSON
		excluded bool
	}{
		{"json array", jsonList(`["diabetes","hypertension"]`), true},
		{"legacy brace string", jsonList(`"{\"diabetes\"}"`), true},
		{"unparseable string treated as one tag", jsonList(`"diabetes"`), true},
		{"different condition passes", jsonList(`["gout"]`), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := testProfile()
			profile.HealthConditions = jsonList(`["diabetes"]`)

			dish := dishWithIngredients(1, "Sugar Cake", "Snack", ing(1, "Sugar", 50, 194, 0, 50, 0))
			dish.HealthConditions = tt.raw

			got := EligibleDishes(profile, []models.Dish{dish}, "")
			if tt.excluded && len(got) != 0 {
				t.Error("dish should be excluded for the user's condition")
			}
			if !tt.excluded && len(got) != 1 {
				t.Error("dish should be eligible")
			}
		})
	}
}

func TestEligibleDishesEatingStyle(t *testing.T) {
	profile := testProfile()
	profile.EatingStyle = "Vegan"

	keto := dishWithIngredients(1, "Keto Plate", "Dinner", ing(1, "Eggs", 100, 155, 13, 1, 11))
	keto.Dietary = jsonList(`["keto"]`)
	vegan := dishWithIngredients(2, "Tofu Bowl", "Dinner", ing(2, "Tofu", 100, 76, 8, 2, 4.8))
	vegan.Dietary = jsonList(`["vegan","vegetarian"]`)
	untagged := dishWithIngredients(3, "Plain Rice", "Dinner", ing(3, "Rice", 100, 130, 2.7, 28, 0.3))

	got := EligibleDishes(profile, []models.Dish{keto, vegan, untagged}, "")
	if len(got) != 2 {
		t.Fatalf("want 2 eligible dishes, got %d", len(got))
	}
	for _, d := range got {
		if d.Name == "Keto Plate" {
			t.Error("keto dish must not pass a vegan profile")
		}
	}
}

func TestEligibleDishesSearch(t *testing.T) {
	profile := testProfile()
	dishes := []models.Dish{
		dishWithIngredients(1, "Chicken Rice", "Lunch", ing(1, "Rice", 100, 130, 2.7, 28, 0.3)),
		dishWithIngredients(2, "Beef Stew", "Dinner", ing(2, "Beef", 150, 375, 39, 0, 23)),
	}

	got := EligibleDishes(profile, dishes, "rice")
	if len(got) != 1 || got[0].Name != "Chicken Rice" {
		t.Errorf("search %q: got %d dishes", "rice", len(got))
	}

	got = EligibleDishes(profile, dishes, "beef")
	if len(got) != 1 || got[0].Name != "Beef Stew" {
		t.Errorf("search matched by ingredient name failed")
	}
}

func TestScoreDishWeights(t *testing.T) {
	// dish hits the calorie target exactly, misses everything else entirely
	dish := dishWithIngredients(1, "Target Meal", "Lunch", ing(1, "Mix", 100, 500, 0, 0, 0))
	target := Totals{Calories: 500, Protein: 50, Carbs: 60, Fats: 20}

	// default weights: (1 + 0 + 0 + 0) / 4
	if got := ScoreDish(&dish, target, ""); got != 0.25 {
		t.Errorf("default score = %v, want 0.25", got)
	}
	// weight loss boosts calories: 1.5 / 4.3
	want := 1.5 / 4.3
	if got := ScoreDish(&dish, target, "weight loss"); math.Abs(got-want) > 1e-9 {
		t.Errorf("weight loss score = %v, want %v", got, want)
	}
	// zero target contributes 0 rather than dividing by zero
	if got := ScoreDish(&dish, Totals{}, ""); got != 0 {
		t.Errorf("all-zero targets score = %v, want 0", got)
	}
}

func TestBuildWeeklyPlanLength(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	dishes := []models.Dish{
		dishWithIngredients(1, "Oatmeal", "Breakfast", ing(1, "Oats", 100, 389, 17, 66, 7)),
		dishWithIngredients(2, "Chicken Rice", "Lunch,Dinner", ing(2, "Rice", 100, 130, 2.7, 28, 0.3)),
		dishWithIngredients(3, "Fruit Cup", "Snack", ing(3, "Apple", 100, 52, 0.3, 14, 0.2)),
	}

	for _, timeframe := range []int{1, 7, 14} {
		profile := testProfile()
		profile.Timeframe = timeframe

		plan, err := BuildWeeklyPlan(profile, dishes, now)
		if err != nil {
			t.Fatalf("BuildWeeklyPlan: %v", err)
		}
		if len(plan.Plan) != timeframe {
			t.Errorf("timeframe %d: plan has %d days", timeframe, len(plan.Plan))
		}
	}
}

func TestBuildWeeklyPlanWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)
	profile := testProfile()
	profile.Timeframe = 7

	plan, err := BuildWeeklyPlan(profile, nil, now)
	if err != nil {
		t.Fatalf("BuildWeeklyPlan: %v", err)
	}
	if plan.StartDate != "2025-03-10" || plan.EndDate != "2025-03-16" {
		t.Errorf("window = %s..%s, want 2025-03-10..2025-03-16", plan.StartDate, plan.EndDate)
	}

	// stored start date wins
	profile.PlanStartDate = "2025-04-01"
	plan, err = BuildWeeklyPlan(profile, nil, now)
	if err != nil {
		t.Fatalf("BuildWeeklyPlan: %v", err)
	}
	if plan.StartDate != "2025-04-01" || plan.EndDate != "2025-04-07" {
		t.Errorf("window = %s..%s, want 2025-04-01..2025-04-07", plan.StartDate, plan.EndDate)
	}

	// the profile is never mutated
	if profile.PlanEndDate != "" {
		t.Error("BuildWeeklyPlan must not write dates back onto the profile")
	}
}

func TestBuildWeeklyPlanMalformedStartDate(t *testing.T) {
	profile := testProfile()
	profile.PlanStartDate = "03/10/2025"

	if _, err := BuildWeeklyPlan(profile, nil, time.Now()); err == nil {
		t.Fatal("expected error for malformed plan start date")
	}
}

func TestBuildWeeklyPlanSingleDishPool(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	profile := testProfile()
	profile.Timeframe = 10
	profile.MealsPerDay = 4

	only := dishWithIngredients(1, "Everything Bowl", "Breakfast,Lunch,Dinner",
		ing(1, "Mix", 100, 400, 20, 40, 15))

	plan, err := BuildWeeklyPlan(profile, []models.Dish{only}, now)
	if err != nil {
		t.Fatalf("BuildWeeklyPlan: %v", err)
	}

	for _, day := range plan.Plan {
		if len(day.Meals) != 4 {
			t.Fatalf("%s: %d meals, want 4", day.Day, len(day.Meals))
		}
		for _, meal := range day.Meals {
			if meal.Type == "Snack" {
				// empty snack pool degrades to a placeholder
				if meal.Name != "Meal not found" {
					t.Errorf("%s snack = %q, want placeholder", day.Day, meal.Name)
				}
			} else if meal.Name != "Everything Bowl" {
				t.Errorf("%s %s = %q, want deterministic repeat", day.Day, meal.Type, meal.Name)
			}
		}
	}
}

func TestBuildWeeklyPlanDailyTotals(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	profile := testProfile()
	profile.Timeframe = 1

	dishes := []models.Dish{
		dishWithIngredients(1, "Oatmeal", "Breakfast", ing(1, "Oats", 100, 300, 10, 50, 5)),
		dishWithIngredients(2, "Chicken Rice", "Lunch", ing(2, "Rice", 100, 400, 30, 40, 8)),
		dishWithIngredients(3, "Stew", "Dinner", ing(3, "Beef", 100, 500, 40, 10, 25)),
	}

	plan, err := BuildWeeklyPlan(profile, dishes, now)
	if err != nil {
		t.Fatalf("BuildWeeklyPlan: %v", err)
	}
	got := plan.Plan[0].Totals
	want := Totals{Calories: 1200, Protein: 80, Carbs: 100, Fats: 38}
	if got != want {
		t.Errorf("daily totals = %+v, want %+v", got, want)
	}
}

func TestReconcilePlanStatus(t *testing.T) {
	today := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	plan := WeeklyPlan{
		StartDate: "2025-03-09",
		EndDate:   "2025-03-10",
		Plan: []PlanDay{
			{
				Day: "Day 1", Date: "2025-03-09",
				Meals: []PlanMeal{
					{Type: "Breakfast", DishID: 1, Name: "Oatmeal"},
					{Type: "Lunch", DishID: 2, Name: "Chicken Rice"},
				},
			},
			{
				Day: "Day 2", Date: "2025-03-10",
				Meals: []PlanMeal{
					{Type: "Breakfast", DishID: 1, Name: "Oatmeal"},
				},
			},
		},
	}
	log := []models.MealLogEntry{
		{UserID: 1, DishID: 1, MealType: "Breakfast", MealDate: "2025-03-09"},
	}

	got := ReconcilePlanStatus(plan, log, today)

	if s := got.Plan[0].Meals[0].Status; s != StatusAdded {
		t.Errorf("logged yesterday breakfast = %q, want added", s)
	}
	if s := got.Plan[0].Meals[1].Status; s != StatusMissed {
		t.Errorf("unlogged yesterday lunch = %q, want missed", s)
	}
	if s := got.Plan[1].Meals[0].Status; s != StatusPending {
		t.Errorf("today's breakfast = %q, want pending", s)
	}

	// idempotent: reconciling the reconciled plan changes nothing
	again := ReconcilePlanStatus(got, log, today)
	if !reflect.DeepEqual(got, again) {
		t.Error("reconciliation is not idempotent")
	}
}

func TestNeedsRegeneration(t *testing.T) {
	today := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	valid := &WeeklyPlan{
		StartDate: "2025-03-08",
		EndDate:   "2025-03-14",
		Plan:      make([]PlanDay, 7),
	}

	tests := []struct {
		name      string
		plan      *WeeklyPlan
		timeframe int
		want      bool
	}{
		{"no cached plan", nil, 7, true},
		{"valid plan is reused", valid, 7, false},
		{"expired window", &WeeklyPlan{StartDate: "2025-03-01", EndDate: "2025-03-07", Plan: make([]PlanDay, 7)}, 7, true},
		{"timeframe changed", valid, 14, true},
		{"unparseable dates", &WeeklyPlan{StartDate: "soon", EndDate: "later", Plan: make([]PlanDay, 7)}, 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := testProfile()
			profile.Timeframe = tt.timeframe
			if got := NeedsRegeneration(profile, tt.plan, today); got != tt.want {
				t.Errorf("NeedsRegeneration() = %v, want %v", got, tt.want)
			}
		})
	}
}
