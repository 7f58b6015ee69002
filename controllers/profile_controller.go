package controllers

import (
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

// GET /user/profile
func GetProfile(c *gin.Context) {
	userID := c.GetUint("userID")

	profile, err := services.GetHealthProfile(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "health profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// PUT /user/profile
func UpdateProfile(c *gin.Context) {
	userID := c.GetUint("userID")

	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := services.UpsertHealthProfile(userID, input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, profile)
}
