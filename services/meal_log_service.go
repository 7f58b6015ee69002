package services

import (
	"errors"
	"time"

	"backend/config"
	"backend/models"
	"backend/utils"

	"github.com/google/uuid"
)

type MealLogService struct {
	dishSvc *DishService
}

func NewMealLogService(ds *DishService) *MealLogService {
	return &MealLogService{dishSvc: ds}
}

type IngredientOverride struct {
	IngredientID uint    `json:"ingredient_id"`
	Amount       float64 `json:"amount"`
}

type LogMealRequest struct {
	DishID       uint                 `json:"dish_id"`
	MealDate     string               `json:"meal_date"` // "YYYY-MM-DD"; empty means today
	MealType     string               `json:"meal_type"`
	ServingSize  float64              `json:"serving_size"`
	ServingLabel string               `json:"serving_label"`
	Overrides    []IngredientOverride `json:"overrides"`
}

// LogMeal inserts a consumption record with nutrient totals snapshotted at
// the logged serving size (including any per-ingredient amount overrides).
func (s *MealLogService) LogMeal(userID uint, req LogMealRequest) (*models.MealLogEntry, error) {
	if req.DishID == 0 {
		return nil, errors.New("dish_id is required")
	}
	if req.MealType == "" {
		return nil, errors.New("meal_type is required")
	}

	mealDate := req.MealDate
	if mealDate == "" {
		mealDate = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", mealDate); err != nil {
		return nil, errors.New("meal_date must be YYYY-MM-DD")
	}

	dish, err := s.dishSvc.GetDish(req.DishID)
	if err != nil {
		return nil, err
	}

	prepared := utils.PrepareDish(dish, req.ServingSize)
	for _, ov := range req.Overrides {
		for i := range prepared.Ingredients {
			if prepared.Ingredients[i].ID == ov.IngredientID {
				prepared.Ingredients[i].CustomAmount = true
				prepared.Ingredients[i].Amount = ov.Amount
			}
		}
	}
	totals := utils.RescaleDish(&prepared)

	entry := models.MealLogEntry{
		UserID:       userID,
		ClientID:     uuid.NewString(),
		DishID:       dish.ID,
		MealDate:     mealDate,
		MealType:     req.MealType,
		ServingLabel: req.ServingLabel,
		Calories:     totals.Calories,
		Protein:      totals.Protein,
		Carbs:        totals.Carbs,
		Fats:         totals.Fats,
	}
	if err := config.DB.Create(&entry).Error; err != nil {
		return nil, err
	}

	EmitEvent(userID, "meal_logged", entry)

	return &entry, nil
}

func (s *MealLogService) ListMeals(userID uint, from, to string) ([]models.MealLogEntry, error) {
	return listMealLogRange(userID, from, to)
}

func (s *MealLogService) DeleteMeal(userID, entryID uint) error {
	return config.DB.
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&models.MealLogEntry{}).Error
}

func listMealLogRange(userID uint, from, to string) ([]models.MealLogEntry, error) {
	var entries []models.MealLogEntry
	q := config.DB.Where("user_id = ?", userID).Order("meal_date DESC")
	if from != "" && to != "" {
		q = q.Where("meal_date >= ? AND meal_date <= ?", from, to)
	}
	err := q.Find(&entries).Error
	return entries, err
}
