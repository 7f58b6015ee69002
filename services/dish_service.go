package services

import (
	"backend/config"
	"backend/models"
	"backend/utils"
)

type DishService struct{}

func NewDishService() *DishService {
	return &DishService{}
}

func (s *DishService) ListDishes() ([]models.Dish, error) {
	var dishes []models.Dish
	err := config.DB.
		Preload("Ingredients").
		Order("name").
		Find(&dishes).Error
	return dishes, err
}

func (s *DishService) GetDish(id uint) (*models.Dish, error) {
	var dish models.Dish
	err := config.DB.
		Preload("Ingredients").
		First(&dish, id).Error
	if err != nil {
		return nil, err // could be ErrRecordNotFound
	}
	return &dish, nil
}

// SuggestedDishes returns the catalog filtered for the user's profile, with
// an optional free-text search over dish and ingredient names.
func (s *DishService) SuggestedDishes(userID uint, search string) ([]models.Dish, error) {
	profile, err := GetHealthProfile(userID)
	if err != nil {
		return nil, err
	}
	dishes, err := s.ListDishes()
	if err != nil {
		return nil, err
	}
	return utils.EligibleDishes(profile, dishes, search), nil
}
