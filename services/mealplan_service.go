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

type MealPlanService struct {
	dishSvc *DishService
}

func NewMealPlanService(ds *DishService) *MealPlanService {
	return &MealPlanService{dishSvc: ds}
}

// GetPlan returns the user's plan reconciled against their meal log. The
// cached plan is reused while it is still valid; otherwise (or when force is
// set) a new plan is built, persisted, and the normalized window written back
// to the profile.
func (s *MealPlanService) GetPlan(userID uint, force bool) (*utils.WeeklyPlan, error) {
	profile, err := GetHealthProfile(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	var cached models.MealPlan
	var plan utils.WeeklyPlan
	var cachedPlan *utils.WeeklyPlan
	if err := config.DB.Where("user_id = ?", userID).First(&cached).Error; err == nil {
		if err := json.Unmarshal(cached.Plan, &plan); err == nil {
			cachedPlan = &plan
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if force || utils.NeedsRegeneration(profile, cachedPlan, now) {
		rebuilt, err := s.rebuild(profile, now, force)
		if err != nil {
			return nil, err
		}
		plan = *rebuilt
	}

	entries, err := listMealLogRange(userID, plan.StartDate, plan.EndDate)
	if err != nil {
		return nil, err
	}
	reconciled := utils.ReconcilePlanStatus(plan, entries, now)
	return &reconciled, nil
}

func (s *MealPlanService) rebuild(profile *models.HealthProfile, now time.Time, force bool) (*utils.WeeklyPlan, error) {
	dishes, err := s.dishSvc.ListDishes()
	if err != nil {
		return nil, err
	}

	// An expired or force-replaced window restarts from today instead of
	// rebuilding the same stale range.
	if force || windowExpired(profile.PlanEndDate, now) {
		profile.PlanStartDate = ""
	}

	plan, err := utils.BuildWeeklyPlan(profile, dishes, now)
	if err != nil {
		return nil, err
	}

	doc, err := json.Marshal(plan)
	if err != nil {
		return nil, err
	}

	var cached models.MealPlan
	err = config.DB.Where("user_id = ?", profile.UserID).First(&cached).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		cached = models.MealPlan{UserID: profile.UserID}
	}
	cached.StartDate = plan.StartDate
	cached.EndDate = plan.EndDate
	cached.Timeframe = len(plan.Plan)
	cached.Plan = datatypes.JSON(doc)
	if err := config.DB.Save(&cached).Error; err != nil {
		return nil, err
	}

	profile.PlanStartDate = plan.StartDate
	profile.PlanEndDate = plan.EndDate
	if err := config.DB.Save(profile).Error; err != nil {
		return nil, err
	}

	return &plan, nil
}

func windowExpired(endDate string, now time.Time) bool {
	if endDate == "" {
		return false
	}
	end, err := time.ParseInLocation("2006-01-02", endDate, time.UTC)
	if err != nil {
		return true
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return end.Before(today)
}
