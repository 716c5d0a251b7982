package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/handiism/takeback/internal/audio"
	"github.com/handiism/takeback/internal/elevenlabs"
	"github.com/handiism/takeback/internal/takes"
)

// Strategy names accepted in settings and flags.
const (
	StrategyPositional = "positional"
	StrategySnippet    = "snippet"
)

// Lookback bounds for the snippet strategy's recency window, in hours.
const (
	MinLookbackHours = 1
	MaxLookbackHours = 24
)

// Settings holds all configuration options.
type Settings struct {
	// API settings
	APIBaseURL string `json:"api_base_url"`

	// Output settings
	OutputPath     string `json:"output_path"`
	AudioExtension string `json:"audio_extension"`
	WriteManifest  bool   `json:"write_manifest"`

	// Reconstruction settings
	Strategy      string `json:"strategy"` // positional, snippet
	LookbackHours int    `json:"lookback_hours"`

	// Download settings
	MaxConcurrentDownloads int     `json:"max_concurrent_downloads"`
	DownloadMaxRetries     int     `json:"download_max_retries"`
	DownloadRetryCooldown  float64 `json:"download_retry_cooldown"`
	DownloadRetryExponent  float64 `json:"download_retry_exponent"`

	// Tag settings
	EmbedTakeTags bool   `json:"embed_take_tags"`
	TagAlbum      string `json:"tag_album"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		APIBaseURL: elevenlabs.DefaultBaseURL,

		OutputPath:     filepath.Join(homeDir, "Music", "ElevenLabs Recovery"),
		AudioExtension: ".mp3",
		WriteManifest:  true,

		Strategy:      StrategyPositional,
		LookbackHours: 6,

		MaxConcurrentDownloads: 4,
		DownloadMaxRetries:     3,
		DownloadRetryCooldown:  0.2,
		DownloadRetryExponent:  4.0,

		EmbedTakeTags: false,
		TagAlbum:      "ElevenLabs Recovery",
	}
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ClampedLookback returns LookbackHours forced into the allowed 1-24 range.
func (s *Settings) ClampedLookback() int {
	switch {
	case s.LookbackHours < MinLookbackHours:
		return MinLookbackHours
	case s.LookbackHours > MaxLookbackHours:
		return MaxLookbackHours
	default:
		return s.LookbackHours
	}
}

// ToStrategy converts settings to a reconstruction strategy.
// Unknown strategy names fall back to positional.
func (s *Settings) ToStrategy() takes.Strategy {
	switch s.Strategy {
	case StrategySnippet:
		return takes.SnippetCluster{
			Window: time.Duration(s.ClampedLookback()) * time.Hour,
		}
	default:
		return takes.Positional{}
	}
}

// ToTagConfig converts settings to a TagConfig.
func (s *Settings) ToTagConfig() *audio.TagConfig {
	cfg := audio.DefaultTagConfig()
	if s.TagAlbum != "" {
		cfg.Album = s.TagAlbum
	}
	return cfg
}
