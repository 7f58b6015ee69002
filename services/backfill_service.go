package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"backend/config"
	"backend/models"

	"gorm.io/datatypes"
)

type BackfillService struct {
	emb    *EmbeddingService
	client *http.Client
}

func NewBackfillService(emb *EmbeddingService) *BackfillService {
	return &BackfillService{
		emb:    emb,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// BackfillEmbeddings computes embeddings for catalog rows that lack one, in
// bounded batches, stopping after maxBatches or once a batch updates zero
// rows. Per-row fetch/embed failures are logged and skipped so one bad image
// never stalls the job.
func (s *BackfillService) BackfillEmbeddings(batchSize, maxBatches int) (int, error) {
	if batchSize <= 0 {
		batchSize = 25
	}
	if maxBatches <= 0 {
		maxBatches = 100
	}

	total := 0
	for batch := 0; batch < maxBatches; batch++ {
		updated, err := s.backfillBatch(batch*batchSize, batchSize)
		if err != nil {
			return total, err
		}
		total += updated
		if updated == 0 {
			break
		}
	}
	return total, nil
}

func (s *BackfillService) backfillBatch(offset, limit int) (int, error) {
	var rows []models.Dish
	err := config.DB.
		Select("id", "image_url").
		Where("image_embedding IS NULL").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, row := range rows {
		if row.ImageURL == "" {
			continue
		}
		imageData, err := s.fetchImage(row.ImageURL)
		if err != nil {
			log.Printf("backfill: fetch image for dish %d: %v", row.ID, err)
			continue
		}
		vector := s.emb.ComputeImageEmbedding(imageData)
		if vector == nil {
			continue
		}
		doc, _ := json.Marshal(vector)
		err = config.DB.Model(&models.Dish{}).
			Where("id = ?", row.ID).
			Updates(map[string]any{
				"image_embedding":   datatypes.JSON(doc),
				"embedding_version": 1,
			}).Error
		if err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

func (s *BackfillService) fetchImage(url string) ([]byte, error) {
	resp, err := s.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch image: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
