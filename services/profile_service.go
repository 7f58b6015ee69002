package services

import (
	"encoding/json"
	"errors"
	"time"

	"backend/config"
	"backend/models"
	"backend/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProfileInput struct {
	BirthYear     int     `json:"birth_year"`
	BirthMonth    int     `json:"birth_month"`
	Gender        string  `json:"gender"`
	HeightCm      float64 `json:"height_cm"`
	WeightKg      float64 `json:"weight_kg"`
	ActivityLevel string  `json:"activity_level"`

	Goal             string   `json:"goal"`
	EatingStyle      string   `json:"eating_style"`
	Allergens        []string `json:"allergens"`
	HealthConditions []string `json:"health_conditions"`

	MealsPerDay int `json:"meals_per_day"`
	Timeframe   int `json:"timeframe"`
}

func GetHealthProfile(userID uint) (*models.HealthProfile, error) {
	var profile models.HealthProfile
	if err := config.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpsertHealthProfile writes the profile and recomputes the derived daily
// targets. Changing the timeframe clears the stored plan window so the next
// plan fetch regenerates from today.
func UpsertHealthProfile(userID uint, input ProfileInput) (*models.HealthProfile, error) {
	health, err := utils.CalculateHealth(utils.HealthInput{
		BirthYear:     input.BirthYear,
		BirthMonth:    input.BirthMonth,
		Gender:        input.Gender,
		HeightCm:      input.HeightCm,
		WeightKg:      input.WeightKg,
		ActivityLevel: input.ActivityLevel,
	}, time.Now())
	if err != nil {
		return nil, err
	}

	var profile models.HealthProfile
	err = config.DB.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		profile = models.HealthProfile{UserID: userID}
	}

	if profile.Timeframe != 0 && profile.Timeframe != input.Timeframe {
		profile.PlanStartDate = ""
		profile.PlanEndDate = ""
	}

	profile.BirthYear = input.BirthYear
	profile.BirthMonth = input.BirthMonth
	profile.Gender = input.Gender
	profile.HeightCm = input.HeightCm
	profile.WeightKg = input.WeightKg
	profile.ActivityLevel = input.ActivityLevel

	profile.Goal = input.Goal
	profile.EatingStyle = input.EatingStyle
	profile.Allergens = toJSONList(input.Allergens)
	profile.HealthConditions = toJSONList(input.HealthConditions)

	profile.BMI = health.BMI
	profile.BMIStatus = health.BMIStatus
	profile.CalorieNeeds = health.CaloriesNeeded
	profile.ProteinNeeds = health.ProteinGrams
	profile.CarbsNeeds = health.CarbGrams
	profile.FatsNeeds = health.FatGrams

	profile.MealsPerDay = input.MealsPerDay
	profile.Timeframe = input.Timeframe

	if err := config.DB.Save(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func toJSONList(list []string) datatypes.JSON {
	if list == nil {
		list = []string{}
	}
	b, _ := json.Marshal(list)
	return datatypes.JSON(b)
}
