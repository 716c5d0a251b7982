// Package config provides configuration management for takeback.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Conversion to reconstruction strategies and tag configs
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Production ElevenLabs API
//	// Archives written to ~/Music/ElevenLabs Recovery
//	// Positional reconstruction, 4 concurrent downloads
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Configuration Options
//
// Settings includes options for:
//   - API base URL
//   - Output path, audio extension and manifest generation
//   - Reconstruction strategy (positional or snippet) and lookback window
//   - Concurrent download limits and retry behavior
//   - ID3 take tagging
package config
