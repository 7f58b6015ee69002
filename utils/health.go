package utils

import (
	"errors"
	"math"
	"time"
)

// CalculateBMI expects height in centimeters and weight in kilograms.
func CalculateBMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, errors.New("height and weight must be positive")
	}
	// Sanity checks to avoid garbage input
	if heightCm < 50 || heightCm > 250 || weightKg < 10 || weightKg > 400 {
		return 0, errors.New("height/weight out of plausible range")
	}

	h := heightCm / 100.0 // to meters
	return weightKg / (h * h), nil
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	case bmi < 35.0:
		return "Obesity class I"
	case bmi < 40.0:
		return "Obesity class II"
	default:
		return "Obesity class III"
	}
}

type HealthInput struct {
	BirthYear     int
	BirthMonth    int
	Gender        string
	HeightCm      float64
	WeightKg      float64
	ActivityLevel string
}

type HealthResult struct {
	Age            int
	BMI            float64
	BMIStatus      string
	CaloriesNeeded float64
	ProteinGrams   float64
	CarbGrams      float64
	FatGrams       float64
}

var activityFactors = map[string]float64{
	"Sedentary":         1.2,
	"Lightly active":    1.375,
	"Moderately active": 1.55,
	"Very active":       1.725,
}

// CalculateHealth derives age, BMI and daily macro targets from the raw
// profile inputs. Mifflin-St Jeor for BMR; fat at 30% of calories, protein at
// 25%, carbs the remainder.
func CalculateHealth(in HealthInput, now time.Time) (HealthResult, error) {
	age := now.Year() - in.BirthYear
	if int(now.Month()) < in.BirthMonth {
		age--
	}
	if age < 15 {
		return HealthResult{}, errors.New("user must be at least 15 years old")
	}

	bmi, err := CalculateBMI(in.HeightCm, in.WeightKg)
	if err != nil {
		return HealthResult{}, err
	}

	var bmr float64
	switch in.Gender {
	case "Male":
		bmr = 10*in.WeightKg + 6.25*in.HeightCm - 5*float64(age) + 5
	case "Female":
		bmr = 10*in.WeightKg + 6.25*in.HeightCm - 5*float64(age) - 161
	default:
		bmr = 10*in.WeightKg + 6.25*in.HeightCm - 5*float64(age)
	}

	factor, ok := activityFactors[in.ActivityLevel]
	if !ok {
		factor = 1.2
	}
	calories := math.Round(bmr * factor)

	return HealthResult{
		Age:            age,
		BMI:            round2(bmi),
		BMIStatus:      BMICategory(bmi),
		CaloriesNeeded: calories,
		ProteinGrams:   math.Round(calories * 0.25 / 4),
		CarbGrams:      math.Round(calories * 0.45 / 4),
		FatGrams:       math.Round(calories * 0.30 / 9),
	}, nil
}
