package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"backend/models"

	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

// Meal slot statuses set by reconciliation. Status belongs to the
// (day, meal type, dish) triple, never to the dish itself.
const (
	StatusPending = "pending"
	StatusAdded   = "added"
	StatusMissed  = "missed"
)

// allergenGroups expands category allergens into the concrete ingredients
// they cover.
var allergenGroups = map[string][]string{
	"meat":    {"beef", "pork", "chicken", "turkey"},
	"seafood": {"fish", "shellfish", "shrimp", "crab", "lobster", "squid"},
	"dairy":   {"milk", "cheese", "butter", "yogurt"},
}

func jsonStringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return list
}

func lowerTrim(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func expandAllergens(allergens []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(a string) {
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	for _, a := range allergens {
		add(a)
		for _, member := range allergenGroups[a] {
			add(member)
		}
	}
	return out
}

// healthConditionTags reads the dish exclusion list. The column normally
// holds a JSON array; rows imported from the old store may instead hold a
// brace-wrapped string like `{"diabetes","hypertension"}`.
func healthConditionTags(dish *models.Dish) []string {
	raw := dish.HealthConditions
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return lowerTrim(list)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return parseLegacyTags(s)
	}
	return nil
}

// parseLegacyTags converts the old `{...}` pseudo-JSON format. A parse
// failure falls back to treating the whole string as a single tag.
func parseLegacyTags(s string) []string {
	cleaned := strings.TrimSpace(s)
	if strings.HasPrefix(cleaned, "{") && strings.HasSuffix(cleaned, "}") {
		cleaned = "[" + cleaned[1:len(cleaned)-1] + "]"
	}
	var list []string
	if err := json.Unmarshal([]byte(cleaned), &list); err == nil {
		return lowerTrim(list)
	}
	return []string{strings.ToLower(strings.TrimSpace(s))}
}

// EligibleDishes returns the subset of the catalog safe and appropriate for
// the profile: no matching allergens, no excluded health condition, eating
// style compatible, and (if search is non-empty) matching the dish name or an
// ingredient name. Goal is a scoring signal only, never a hard filter.
func EligibleDishes(profile *models.HealthProfile, dishes []models.Dish, search string) []models.Dish {
	if profile == nil || len(dishes) == 0 {
		return nil
	}

	allergens := expandAllergens(lowerTrim(jsonStringList(profile.Allergens)))
	conditions := lowerTrim(jsonStringList(profile.HealthConditions))
	style := strings.ToLower(strings.TrimSpace(profile.EatingStyle))
	query := strings.ToLower(strings.TrimSpace(search))

	var out []models.Dish
	for i := range dishes {
		dish := &dishes[i]
		if dishHasAllergen(dish, allergens) {
			continue
		}
		if overlaps(conditions, healthConditionTags(dish)) {
			continue
		}
		dietary := lowerTrim(jsonStringList(dish.Dietary))
		if style != "" && len(dietary) > 0 && !containsString(dietary, style) {
			continue
		}
		if query != "" && !matchesSearch(dish, query) {
			continue
		}
		out = append(out, *dish)
	}
	return out
}

func dishHasAllergen(dish *models.Dish, allergens []string) bool {
	if len(allergens) == 0 {
		return false
	}

	tags := lowerTrim(jsonStringList(dish.Allergens))
	var ingredientNames []string
	for _, ing := range dish.Ingredients {
		if tag := strings.ToLower(strings.TrimSpace(ing.Allergen)); tag != "" {
			tags = append(tags, tag)
		}
		ingredientNames = append(ingredientNames, strings.ToLower(strings.TrimSpace(ing.Name)))
	}

	name := strings.ToLower(dish.Name)
	description := strings.ToLower(dish.Description)

	for _, a := range allergens {
		if containsString(tags, a) {
			return true
		}
		for _, ing := range ingredientNames {
			if strings.Contains(ing, a) {
				return true
			}
		}
		if strings.Contains(name, a) || strings.Contains(description, a) {
			return true
		}
	}
	return false
}

func matchesSearch(dish *models.Dish, query string) bool {
	if strings.Contains(strings.ToLower(dish.Name), query) {
		return true
	}
	for _, ing := range dish.Ingredients {
		if strings.Contains(strings.ToLower(ing.Name), query) {
			return true
		}
	}
	return false
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		if containsString(b, x) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// scoreWeights picks macro weights for the user's goal text.
func scoreWeights(goal string) (calories, protein, carbs, fats float64) {
	switch {
	case strings.Contains(goal, "weight loss"):
		return 1.5, 1.2, 0.8, 0.8
	case strings.Contains(goal, "athletic"):
		return 1, 1.5, 1.2, 0.8
	}
	return 1, 1, 1, 1
}

// partialScore is 1 - |actual-target|/target, 0 when the target itself is 0.
// It goes negative once actual deviates by more than 100%.
func partialScore(actual, target float64) float64 {
	if target == 0 {
		return 0
	}
	return 1 - math.Abs(actual-target)/target
}

// ScoreDish ranks a dish against per-meal macro targets, weighted by goal.
func ScoreDish(dish *models.Dish, target Totals, goal string) float64 {
	n := DishNutrition(dish.Ingredients)
	wCal, wProt, wCarb, wFat := scoreWeights(goal)
	return (partialScore(n.Calories, target.Calories)*wCal +
		partialScore(n.Protein, target.Protein)*wProt +
		partialScore(n.Carbs, target.Carbs)*wCarb +
		partialScore(n.Fats, target.Fats)*wFat) /
		(wCal + wProt + wCarb + wFat)
}

type scoredDish struct {
	dish  models.Dish
	score float64
}

// hasMealType matches the dish's delimited meal-type string, case-insensitive.
func hasMealType(dish *models.Dish, mealType string) bool {
	if dish.MealType == "" {
		return false
	}
	parts := strings.FieldsFunc(dish.MealType, func(r rune) bool {
		return r == ',' || r == '|' || r == '/'
	})
	for _, p := range parts {
		if strings.EqualFold(strings.TrimSpace(p), mealType) {
			return true
		}
	}
	return false
}

func buildMealPool(dishes []models.Dish, mealType string, target Totals, goal string) []scoredDish {
	var pool []scoredDish
	for i := range dishes {
		if !hasMealType(&dishes[i], mealType) {
			continue
		}
		pool = append(pool, scoredDish{
			dish:  dishes[i],
			score: ScoreDish(&dishes[i], target, goal),
		})
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].score > pool[j].score })
	return pool
}

// PlanMeal is one (day, meal type) slot in a generated plan.
type PlanMeal struct {
	Type      string  `json:"type"`
	DishID    uint    `json:"dish_id,omitempty"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"image_url,omitempty"`
	Score     float64 `json:"score,omitempty"`
	Nutrition Totals  `json:"nutrition"`
	Status    string  `json:"status,omitempty"`
}

type PlanDay struct {
	Day    string     `json:"day"`
	Date   string     `json:"date"`
	Meals  []PlanMeal `json:"meals"`
	Totals Totals     `json:"totals"`
}

type WeeklyPlan struct {
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Plan      []PlanDay `json:"plan"`
}

// selectMeal picks the dayIndex-th pool entry (modulo pool size) among dishes
// not already used today, falling back to the full pool when everything has
// been used. An empty pool degrades to a placeholder slot.
func selectMeal(pool []scoredDish, dayIndex int, usedToday map[uint]bool) PlanMeal {
	if len(pool) == 0 {
		return PlanMeal{Name: "Meal not found"}
	}

	var available []scoredDish
	for _, sd := range pool {
		if !usedToday[sd.dish.ID] {
			available = append(available, sd)
		}
	}

	pick := pool[dayIndex%len(pool)]
	if len(available) > 0 {
		pick = available[dayIndex%len(available)]
	}
	usedToday[pick.dish.ID] = true

	return PlanMeal{
		DishID:    pick.dish.ID,
		Name:      pick.dish.Name,
		ImageURL:  pick.dish.ImageURL,
		Score:     pick.score,
		Nutrition: DishNutrition(pick.dish.Ingredients),
	}
}

// BuildWeeklyPlan generates a day-by-day plan over the profile's timeframe.
// The start date is the profile's stored plan_start_date at UTC midnight if
// present, else today; the normalized window comes back on the result and the
// caller is responsible for persisting it. Inputs are never mutated.
//
// The only error is a malformed stored start date.
func BuildWeeklyPlan(profile *models.HealthProfile, dishes []models.Dish, now time.Time) (WeeklyPlan, error) {
	timeframe := profile.Timeframe
	if timeframe <= 0 {
		timeframe = 7
	}
	mealsPerDay := profile.MealsPerDay
	if mealsPerDay <= 0 {
		mealsPerDay = 3
	}

	perMeal := float64(mealsPerDay)
	target := Totals{
		Calories: profile.CalorieNeeds / perMeal,
		Protein:  profile.ProteinNeeds / perMeal,
		Carbs:    profile.CarbsNeeds / perMeal,
		Fats:     profile.FatsNeeds / perMeal,
	}
	goal := strings.ToLower(strings.TrimSpace(profile.Goal))

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if profile.PlanStartDate != "" {
		parsed, err := time.ParseInLocation(dateLayout, profile.PlanStartDate, time.UTC)
		if err != nil {
			return WeeklyPlan{}, fmt.Errorf("invalid plan start date %q: %w", profile.PlanStartDate, err)
		}
		start = parsed
	}
	end := start.AddDate(0, 0, timeframe-1)

	eligible := EligibleDishes(profile, dishes, "")
	breakfastPool := buildMealPool(eligible, "breakfast", target, goal)
	lunchPool := buildMealPool(eligible, "lunch", target, goal)
	dinnerPool := buildMealPool(eligible, "dinner", target, goal)
	snackPool := buildMealPool(eligible, "snack", target, goal)

	days := make([]PlanDay, 0, timeframe)
	for i := 0; i < timeframe; i++ {
		day := PlanDay{
			Day:  fmt.Sprintf("Day %d", i+1),
			Date: start.AddDate(0, 0, i).Format(dateLayout),
		}

		usedToday := make(map[uint]bool)

		breakfast := selectMeal(breakfastPool, i, usedToday)
		breakfast.Type = "Breakfast"
		lunch := selectMeal(lunchPool, i, usedToday)
		lunch.Type = "Lunch"
		dinner := selectMeal(dinnerPool, i, usedToday)
		dinner.Type = "Dinner"
		day.Meals = append(day.Meals, breakfast, lunch, dinner)

		for j := 0; j < mealsPerDay-3; j++ {
			snack := selectMeal(snackPool, i+j, usedToday)
			snack.Type = "Snack"
			day.Meals = append(day.Meals, snack)
		}

		var totals Totals
		for _, meal := range day.Meals {
			totals.Add(meal.Nutrition)
		}
		day.Totals = totals

		days = append(days, day)
	}

	return WeeklyPlan{
		StartDate: start.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
		Plan:      days,
	}, nil
}

// ReconcilePlanStatus tags every planned slot against the logged meals:
// "added" when a log entry matches dish id, meal type and scheduled date,
// "missed" when the scheduled date is before today, else "pending".
// Statuses are recomputed from scratch, so re-running is a no-op.
func ReconcilePlanStatus(plan WeeklyPlan, log []models.MealLogEntry, today time.Time) WeeklyPlan {
	localDate := today.Format(dateLayout)

	days := make([]PlanDay, len(plan.Plan))
	for i, day := range plan.Plan {
		meals := make([]PlanMeal, len(day.Meals))
		for j, meal := range day.Meals {
			status := StatusPending
			if logged(log, meal.DishID, meal.Type, day.Date) {
				status = StatusAdded
			} else if day.Date < localDate {
				status = StatusMissed
			}
			meal.Status = status
			meals[j] = meal
		}
		day.Meals = meals
		days[i] = day
	}

	return WeeklyPlan{StartDate: plan.StartDate, EndDate: plan.EndDate, Plan: days}
}

func logged(log []models.MealLogEntry, dishID uint, mealType, date string) bool {
	for _, entry := range log {
		if entry.DishID == dishID && entry.MealType == mealType && entry.MealDate == date {
			return true
		}
	}
	return false
}

// NeedsRegeneration reports whether a cached plan can still serve the
// profile: it must exist, its end date must not have passed, and its duration
// must still equal the profile's timeframe.
func NeedsRegeneration(profile *models.HealthProfile, plan *WeeklyPlan, today time.Time) bool {
	if plan == nil || len(plan.Plan) == 0 {
		return true
	}
	start, err := time.ParseInLocation(dateLayout, plan.StartDate, time.UTC)
	if err != nil {
		return true
	}
	end, err := time.ParseInLocation(dateLayout, plan.EndDate, time.UTC)
	if err != nil {
		return true
	}

	todayUTC := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if end.Before(todayUTC) {
		return true
	}

	timeframe := profile.Timeframe
	if timeframe <= 0 {
		timeframe = 7
	}
	duration := int(end.Sub(start).Hours()/24) + 1
	return duration != timeframe
}
