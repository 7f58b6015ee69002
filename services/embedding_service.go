package services

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"time"
)

// EmbeddingDim is the fixed vector length stored per dish; provider output is
// trimmed or zero-padded to match.
const EmbeddingDim = 768

type EmbeddingService struct {
	client *http.Client
	url    string
	apiKey string
}

func NewEmbeddingService() *EmbeddingService {
	return &EmbeddingService{
		client: &http.Client{Timeout: 15 * time.Second},
		url:    os.Getenv("EMBEDDINGS_URL"),
		apiKey: os.Getenv("EMBEDDINGS_API_KEY"),
	}
}

func (e *EmbeddingService) Configured() bool {
	return e.url != "" && e.apiKey != ""
}

// ComputeImageEmbedding sends raw image bytes to the provider and returns a
// normalized vector. Any failure (unconfigured, timeout, bad status, unusable
// response) returns nil; the caller falls back to hash matching, so provider
// problems never reach the user.
func (e *EmbeddingService) ComputeImageEmbedding(imageData []byte) []float64 {
	if !e.Configured() {
		return nil
	}

	req, err := http.NewRequest("POST", e.url, bytes.NewReader(imageData))
	if err != nil {
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := e.client.Do(req)
	if err != nil {
		log.Printf("embeddings provider unreachable: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("embeddings provider status %d", resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	return normalizeEmbedding(body)
}

// normalizeEmbedding accepts the response shapes providers actually return:
// a flat vector, a batch of one vector, or {"embedding": [...]}.
func normalizeEmbedding(body []byte) []float64 {
	var nested [][]float64
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 {
		return PadEmbedding(nested[0])
	}

	var flat []float64
	if err := json.Unmarshal(body, &flat); err == nil && len(flat) > 0 {
		return PadEmbedding(flat)
	}

	var wrapped struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && len(wrapped.Embedding) > 0 {
		return PadEmbedding(wrapped.Embedding)
	}

	return nil
}

// PadEmbedding trims or zero-pads a vector to EmbeddingDim. Vectors with
// non-finite values are rejected.
func PadEmbedding(v []float64) []float64 {
	if len(v) == 0 {
		return nil
	}
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
	}
	if len(v) > EmbeddingDim {
		return v[:EmbeddingDim]
	}
	if len(v) < EmbeddingDim {
		padded := make([]float64, EmbeddingDim)
		copy(padded, v)
		return padded
	}
	return v
}
