package services

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"backend/config"
	"backend/models"
	"backend/utils"
)

const maxMatches = 5

type MatchService struct {
	emb *EmbeddingService
}

func NewMatchService(emb *EmbeddingService) *MatchService {
	return &MatchService{emb: emb}
}

type DishMatch struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	ImageURL      string  `json:"image_url"`
	CaloriesValue float64 `json:"calories_value"`
	ProteinValue  float64 `json:"protein_value"`
	FatValue      float64 `json:"fat_value"`
	CarbsValue    float64 `json:"carbs_value"`
	Ingredient    string  `json:"ingredient"`
	Store         string  `json:"store"`
	Description   string  `json:"description"`
	Confidence    int     `json:"confidence"`
	HashDistance  int     `json:"hash_distance,omitempty"`
}

type MatchResult struct {
	Success   bool        `json:"success"`
	Matches   []DishMatch `json:"matches,omitempty"`
	BestMatch *DishMatch  `json:"bestMatch,omitempty"`
	Method    string      `json:"method,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// IdentifyDish ranks the catalog against an uploaded photo. The embedding
// strategy is preferred when the provider is configured and yields a vector;
// any embedding problem falls through silently to hash matching. A returned
// error means the catalog itself could not be read.
func (s *MatchService) IdentifyDish(imageData []byte) (*MatchResult, error) {
	var dishes []models.Dish
	if err := config.DB.Preload("Ingredients").Find(&dishes).Error; err != nil {
		return nil, err
	}
	if len(dishes) == 0 {
		return &MatchResult{Success: false, Error: "No dishes found in database"}, nil
	}

	if vector := s.emb.ComputeImageEmbedding(imageData); vector != nil {
		if matches := rankByEmbedding(dishes, vector); len(matches) > 0 {
			return &MatchResult{
				Success:   true,
				Matches:   matches,
				BestMatch: &matches[0],
				Method:    "embeddings",
			}, nil
		}
	}

	uploadedHash := utils.ImageHash(imageData)
	matches := rankByHash(dishes, uploadedHash)
	if len(matches) == 0 {
		return &MatchResult{Success: false, Error: "No matching dish found"}, nil
	}
	return &MatchResult{
		Success:   true,
		Matches:   matches,
		BestMatch: &matches[0],
		Method:    "hash",
	}, nil
}

func rankByEmbedding(dishes []models.Dish, query []float64) []DishMatch {
	type scored struct {
		dish       *models.Dish
		similarity float64
	}

	var candidates []scored
	for i := range dishes {
		stored := dishEmbedding(&dishes[i])
		if stored == nil {
			continue
		}
		candidates = append(candidates, scored{
			dish:       &dishes[i],
			similarity: cosineSimilarity(query, stored),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].similarity > candidates[j].similarity
	})

	matches := make([]DishMatch, 0, maxMatches)
	for _, c := range candidates {
		if len(matches) == maxMatches {
			break
		}
		m := toDishMatch(c.dish)
		m.Confidence = int(math.Round(c.similarity * 100))
		matches = append(matches, m)
	}
	return matches
}

func rankByHash(dishes []models.Dish, uploadedHash string) []DishMatch {
	type scored struct {
		dish     *models.Dish
		score    float64
		distance int
	}

	var candidates []scored
	for i := range dishes {
		if dishes[i].ImageHash == "" {
			continue
		}
		candidates = append(candidates, scored{
			dish:     &dishes[i],
			score:    utils.HashScore(uploadedHash, dishes[i].ImageHash),
			distance: utils.HammingDistance(uploadedHash, dishes[i].ImageHash),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	matches := make([]DishMatch, 0, maxMatches)
	for _, c := range candidates {
		if len(matches) == maxMatches {
			break
		}
		m := toDishMatch(c.dish)
		m.Confidence = int(math.Round(c.score * 100))
		m.HashDistance = c.distance
		matches = append(matches, m)
	}
	return matches
}

func toDishMatch(dish *models.Dish) DishMatch {
	totals := utils.DishNutrition(dish.Ingredients)

	names := make([]string, 0, len(dish.Ingredients))
	for _, ing := range dish.Ingredients {
		names = append(names, ing.Name)
	}

	return DishMatch{
		ID:            dish.ID,
		Name:          dish.Name,
		ImageURL:      dish.ImageURL,
		CaloriesValue: totals.Calories,
		ProteinValue:  totals.Protein,
		FatValue:      totals.Fats,
		CarbsValue:    totals.Carbs,
		Ingredient:    strings.Join(names, ", "),
		Store:         dish.Store,
		Description:   dish.Description,
	}
}

func dishEmbedding(dish *models.Dish) []float64 {
	if len(dish.ImageEmbedding) == 0 {
		return nil
	}
	var vector []float64
	if err := json.Unmarshal(dish.ImageEmbedding, &vector); err != nil || len(vector) == 0 {
		return nil
	}
	return vector
}

func cosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
