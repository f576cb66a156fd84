// Package config provides the configuration schema, loader, and provider
// registry for the speakdrill server.
package config

import "time"

// LogLevel controls log verbosity for the speakdrill server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for speakdrill.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Providers ProvidersConfig `yaml:"providers"`
	Course    CourseConfig    `yaml:"course"`
	Speech    SpeechConfig    `yaml:"speech"`
	Drill     DrillConfig     `yaml:"drill"`
}

// ServerConfig holds network and logging settings for the speakdrill server.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// TLS configures TLS for the server. When nil, the server runs plain HTTP.
	TLS *TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate paths for enabling HTTPS.
type TLSConfig struct {
	// CertFile is the path to the PEM-encoded TLS certificate.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded TLS private key.
	KeyFile string `yaml:"key_file"`
}

// ProvidersConfig declares which provider implementation to use for each
// speech stage. Each field selects a named provider registered in the [Registry].
type ProvidersConfig struct {
	STT ProviderEntry `yaml:"stt"`
	TTS ProviderEntry `yaml:"tts"`

	// STTFallbacks lists recognizers tried in order when the primary fails.
	// Each fallback gets its own circuit breaker.
	STTFallbacks []ProviderEntry `yaml:"stt_fallbacks"`

	// TTSFallbacks lists synthesizers tried in order when the primary fails.
	TTSFallbacks []ProviderEntry `yaml:"tts_fallbacks"`
}

// ProviderEntry is the common configuration block shared by all provider types.
// The Name field is used to look up the constructor in the [Registry].
type ProviderEntry struct {
	// Name selects the registered provider implementation (e.g., "whisper", "gcloud").
	Name string `yaml:"name"`

	// APIKey is the authentication key for the provider's API if any.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider's default API endpoint.
	// Leave empty to use the provider's built-in default.
	BaseURL string `yaml:"base_url"`

	// Model selects a specific model within the provider (e.g., "whisper-1", "nova-2").
	Model string `yaml:"model"`

	// Options holds provider-specific configuration values not covered by the
	// standard fields above. Values may be strings, numbers, booleans, or nested maps.
	Options map[string]any `yaml:"options"`
}

// CourseConfig selects the lesson catalog.
type CourseConfig struct {
	// File is the path to a course YAML file. Empty means the built-in
	// five-unit course.
	File string `yaml:"file"`
}

// SpeechConfig holds the default synthesis and recognition parameters applied
// when a request does not specify its own.
type SpeechConfig struct {
	// Language is the BCP-47 tag used for both synthesis and recognition
	// (e.g., "en-US", "en-GB"). Defaults to "en-US".
	Language string `yaml:"language"`

	// Voice is the provider-specific default voice identifier.
	Voice string `yaml:"voice"`

	// Rate adjusts speaking rate in the range [0.5, 2.0]. 0 means the
	// provider default.
	Rate float64 `yaml:"rate"`
}

// DrillConfig tunes the scoring and recording behaviour.
type DrillConfig struct {
	// MatchThreshold is the minimum Jaro-Winkler similarity for a vocabulary
	// suggestion to be offered on a near-miss. Must be in [0, 1]; 0 means the
	// built-in default.
	MatchThreshold float64 `yaml:"match_threshold"`

	// RecordWindow bounds how long a single recognition attempt may run
	// before it is cancelled. 0 means no limit.
	RecordWindow time.Duration `yaml:"record_window"`
}
