package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiClassifier scores images against candidate labels by asking a
// Gemini vision model for a JSON score list.
type GeminiClassifier struct {
	client *genai.Client
	model  string
}

// NewGeminiClassifier initializes the Gemini client. The API key may also
// come from the environment when empty.
func NewGeminiClassifier(apiKey, model string) (*GeminiClassifier, error) {
	cfg := &genai.ClientConfig{}
	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	client, err := genai.NewClient(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClassifier{client: client, model: model}, nil
}

// Classify sends the image and candidate labels to Gemini and parses the
// scored list it returns. Upstream failures collapse to an empty result.
func (g *GeminiClassifier) Classify(ctx context.Context, imageDataURI string, labels []string) ([]LabelScore, error) {
	if g.client == nil {
		return nil, errors.New("gemini client not initialized")
	}

	imgBytes, mimeType, err := decodeDataURI(imageDataURI)
	if err != nil {
		return nil, fmt.Errorf("invalid image payload: %w", err)
	}

	prompt := fmt.Sprintf(
		"Score how well this photo matches each of the following labels. "+
			"Respond with only a JSON array of objects {\"label\": string, \"score\": number} "+
			"where score is between 0 and 1. Labels: %s",
		strings.Join(labels, ", "),
	)

	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	parts := []*genai.Part{
		genai.NewPartFromBytes(imgBytes, mimeType),
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		log.Printf("Gemini classification failed: %v", err)
		return nil, nil
	}

	var results []LabelScore
	if err := json.Unmarshal([]byte(cleanModelOutput(resp.Text())), &results); err != nil {
		log.Printf("Failed to parse gemini label scores: %v", err)
		return nil, nil
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results, nil
}

// decodeDataURI splits a data:<mime>;base64,<payload> URI into raw bytes
// and mime type. Bare base64 payloads default to image/jpeg.
func decodeDataURI(dataURI string) ([]byte, string, error) {
	mimeType := "image/jpeg"
	payload := dataURI

	if strings.HasPrefix(dataURI, "data:") {
		comma := strings.Index(dataURI, ",")
		if comma < 0 {
			return nil, "", errors.New("malformed data URI")
		}
		meta := dataURI[len("data:"):comma]
		payload = dataURI[comma+1:]
		if semi := strings.Index(meta, ";"); semi >= 0 {
			meta = meta[:semi]
		}
		if meta != "" {
			mimeType = meta
		}
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", err
	}
	return raw, mimeType, nil
}

func cleanModelOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
