package services

import (
	"context"

	"questhero/config"
)

// LabelScore is one ranked label from an image classifier. Score is in
// [0, 1].
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier scores an image against a set of candidate text labels.
// Implementations must collapse their own degradation modes (disabled,
// unconfigured, timeout, upstream failure) to an empty result rather than
// an error; a returned error signals an unexpected failure inside the
// adapter itself.
type Classifier interface {
	Classify(ctx context.Context, imageDataURI string, candidateLabels []string) ([]LabelScore, error)
}

// NoopClassifier is the disabled-AI implementation. It always reports no
// labels, which downstream treats as an absence of evidence.
type NoopClassifier struct{}

func (NoopClassifier) Classify(ctx context.Context, imageDataURI string, candidateLabels []string) ([]LabelScore, error) {
	return nil, nil
}

// NewClassifier selects a classifier implementation from configuration.
// The orchestrator never branches on which one is active.
func NewClassifier(cfg *config.Config) (Classifier, error) {
	switch cfg.Classifier.Backend {
	case "clip":
		return NewCLIPClassifier(cfg.HuggingFace.ApiKey, cfg.HuggingFace.Model), nil
	case "gemini":
		return NewGeminiClassifier(cfg.Gemini.ApiKey, cfg.Gemini.Model)
	default:
		return NoopClassifier{}, nil
	}
}
