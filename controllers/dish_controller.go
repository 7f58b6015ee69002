package controllers

import (
	"net/http"
	"strconv"

	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

// GET /dishes
func ListDishes(c *gin.Context) {
	dishSvc := services.NewDishService()
	dishes, err := dishSvc.ListDishes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dishes)
}

// GET /dishes/suggested?q=chicken
func SuggestedDishes(c *gin.Context) {
	userID := c.GetUint("userID")

	dishSvc := services.NewDishService()
	dishes, err := dishSvc.SuggestedDishes(userID, c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dishes)
}

// GET /dishes/:id?serving_size=150
// Returns the dish normalized for display: per-gram rates, base totals and
// totals at the requested serving size.
func GetDish(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dish id"})
		return
	}
	servingSize, _ := strconv.ParseFloat(c.Query("serving_size"), 64)

	dishSvc := services.NewDishService()
	dish, err := dishSvc.GetDish(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "dish not found"})
		return
	}

	c.JSON(http.StatusOK, utils.PrepareDish(dish, servingSize))
}

type RescaleInput struct {
	ServingSize float64                       `json:"serving_size"`
	Overrides   []services.IngredientOverride `json:"overrides"`
}

// POST /dishes/:id/rescale
// Recomputes dish totals at a serving size with optional per-ingredient
// amount overrides.
func RescaleDish(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dish id"})
		return
	}

	var input RescaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dishSvc := services.NewDishService()
	dish, err := dishSvc.GetDish(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "dish not found"})
		return
	}

	prepared := utils.PrepareDish(dish, input.ServingSize)
	for _, ov := range input.Overrides {
		for i := range prepared.Ingredients {
			if prepared.Ingredients[i].ID == ov.IngredientID {
				prepared.Ingredients[i].CustomAmount = true
				prepared.Ingredients[i].Amount = ov.Amount
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"serving_size": prepared.ServingSize,
		"totals":       utils.RescaleDish(&prepared),
	})
}
