package controllers

import (
	"net/http"
	"strconv"

	"backend/services"

	"github.com/gin-gonic/gin"
)

// POST /meals
func LogMeal(c *gin.Context) {
	userID := c.GetUint("userID")

	var body services.LogMealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logSvc := services.NewMealLogService(services.NewDishService())
	entry, err := logSvc.LogMeal(userID, body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GET /meals?from=2025-01-01&to=2025-01-07
func ListMeals(c *gin.Context) {
	userID := c.GetUint("userID")

	logSvc := services.NewMealLogService(services.NewDishService())
	entries, err := logSvc.ListMeals(userID, c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// DELETE /meals/:id
func DeleteMeal(c *gin.Context) {
	userID := c.GetUint("userID")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	logSvc := services.NewMealLogService(services.NewDishService())
	if err := logSvc.DeleteMeal(userID, uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meal deleted"})
}
