package controllers

import (
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

// GET /mealplan
// Reuses the cached plan while its window is valid and its duration matches
// the profile timeframe; otherwise rebuilds. Always reconciled against the
// user's meal log.
func GetMealPlan(c *gin.Context) {
	userID := c.GetUint("userID")

	planSvc := services.NewMealPlanService(services.NewDishService())
	plan, err := planSvc.GetPlan(userID, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, plan)
}

// POST /mealplan/regenerate
func RegenerateMealPlan(c *gin.Context) {
	userID := c.GetUint("userID")

	planSvc := services.NewMealPlanService(services.NewDishService())
	plan, err := planSvc.GetPlan(userID, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, plan)
}
