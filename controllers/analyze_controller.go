package controllers

import (
	"log"
	"net/http"

	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

// POST /analyze/dish  { "image_data": "data:image/jpeg;base64,..." }
// Identifies a food photo against the dish catalog. Responds 200 with a
// structured result even when nothing matched; only a failed catalog read is
// a server error.
func AnalyzeDish(c *gin.Context) {
	var req struct {
		ImageData string `json:"image_data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No image data provided"})
		return
	}

	imageData, contentType, err := utils.DecodeBase64Image(req.ImageData)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	// keep the uploaded photo; identification proceeds even if storage fails
	if _, err := utils.UploadImageToS3(imageData, contentType, "scan-photos"); err != nil {
		log.Printf("scan photo upload failed: %v", err)
	}

	matchSvc := services.NewMatchService(services.NewEmbeddingService())
	result, err := matchSvc.IdentifyDish(imageData)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// POST /analyze/backfill  { "batchSize": 25, "maxBatches": 100 }
// Recomputes missing dish embeddings in bounded batches.
func BackfillEmbeddings(c *gin.Context) {
	var req struct {
		BatchSize  int `json:"batchSize"`
		MaxBatches int `json:"maxBatches"`
	}
	// empty body means defaults
	_ = c.ShouldBindJSON(&req)

	backfillSvc := services.NewBackfillService(services.NewEmbeddingService())
	updated, err := backfillSvc.BackfillEmbeddings(req.BatchSize, req.MaxBatches)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": updated})
}
