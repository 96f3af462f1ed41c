package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		URI string `yaml:"uri"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	JWT struct {
		Secret string `yaml:"secret"`
		Expiry int    `yaml:"expiry"` // Token expiry in minutes
	} `yaml:"jwt"`

	Classifier struct {
		// Backend selects the image classifier implementation: "clip",
		// "gemini" or "none".
		Backend string `yaml:"backend"`
	} `yaml:"classifier"`

	HuggingFace struct {
		ApiKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"huggingface"`

	Gemini struct {
		ApiKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"gemini"`

	Verification Verification `yaml:"verification"`
}

// Verification holds the tuning constants of the submission verification
// engine. Everything the scoring algorithm compares against lives here so
// that no threshold is buried as a literal in the decision logic.
type Verification struct {
	MaxDistanceMeters       float64 `yaml:"maxDistanceMeters"`
	LocationPoints          int     `yaml:"locationPoints"`
	PhotoPoints             int     `yaml:"photoPoints"`
	LowQualityPhotoPoints   int     `yaml:"lowQualityPhotoPoints"`
	BasePoints              int     `yaml:"basePoints"`
	MatchPoints             int     `yaml:"matchPoints"`
	HighConfidenceBonus     int     `yaml:"highConfidenceBonus"`
	SuspicionPenalty        int     `yaml:"suspicionPenalty"`
	PositiveThreshold       float64 `yaml:"positiveThreshold"`
	HighConfidenceThreshold float64 `yaml:"highConfidenceThreshold"`
	NegativeThreshold       float64 `yaml:"negativeThreshold"`
	VerifyThreshold         int     `yaml:"verifyThreshold"`
	FallbackConfidence      int     `yaml:"fallbackConfidence"`
	MinPhotoBytes           int64   `yaml:"minPhotoBytes"`
	ApplyStreakBonus        bool    `yaml:"applyStreakBonus"`
	MaxSubmissionsPerMinute int     `yaml:"maxSubmissionsPerMinute"`
}

// DefaultVerification returns the canonical engine tuning.
func DefaultVerification() Verification {
	return Verification{
		MaxDistanceMeters:       200,
		LocationPoints:          40,
		PhotoPoints:             35,
		LowQualityPhotoPoints:   15,
		BasePoints:              10,
		MatchPoints:             40,
		HighConfidenceBonus:     15,
		SuspicionPenalty:        30,
		PositiveThreshold:       0.3,
		HighConfidenceThreshold: 0.7,
		NegativeThreshold:       0.5,
		VerifyThreshold:         60,
		FallbackConfidence:      60,
		MinPhotoBytes:           10000,
		MaxSubmissionsPerMinute: 10,
	}
}

// LoadConfig reads the configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Config{Verification: DefaultVerification()}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	return &cfg, nil
}
