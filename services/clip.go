package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"time"
)

const huggingFaceAPIURL = "https://api-inference.huggingface.co/models"

const defaultCLIPModel = "openai/clip-vit-large-patch14"

// classifyTimeout bounds a single classification call; anything slower is
// treated as no evidence.
const classifyTimeout = 5 * time.Second

// CLIPClassifier scores images against candidate labels with a zero-shot
// CLIP model behind the Hugging Face inference API.
type CLIPClassifier struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewCLIPClassifier builds a classifier for the given API key and model.
// An empty model selects the default CLIP checkpoint.
func NewCLIPClassifier(apiKey, model string) *CLIPClassifier {
	if model == "" {
		model = defaultCLIPModel
	}
	return &CLIPClassifier{
		apiKey:     apiKey,
		model:      model,
		endpoint:   huggingFaceAPIURL,
		httpClient: &http.Client{},
	}
}

type clipRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters clipParameters `json:"parameters"`
}

type clipParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
}

// Classify runs zero-shot classification, returning labels ranked by score.
// Misconfiguration, timeouts and upstream errors all collapse to an empty
// result.
func (c *CLIPClassifier) Classify(ctx context.Context, imageDataURI string, labels []string) ([]LabelScore, error) {
	if c.apiKey == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	body, err := json.Marshal(clipRequest{
		Inputs:     imageDataURI,
		Parameters: clipParameters{CandidateLabels: labels},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode CLIP request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build CLIP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("CLIP analysis failed or timed out: %v", err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("CLIP API error: status %d: %s", resp.StatusCode, msg)
		return nil, nil
	}

	var results []LabelScore
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		log.Printf("Failed to decode CLIP response: %v", err)
		return nil, nil
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results, nil
}
