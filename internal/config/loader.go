package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ValidProviderNames lists known provider names per provider kind.
// Used by [Validate] to warn about unrecognised provider names.
var ValidProviderNames = map[string][]string{
	"stt": {"whisper", "deepgram", "openai"},
	"tts": {"gcloud", "openai", "httpserver"},
}

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.TLS != nil {
		if cfg.Server.TLS.CertFile == "" || cfg.Server.TLS.KeyFile == "" {
			errs = append(errs, errors.New("server.tls requires both cert_file and key_file"))
		}
	}

	// Provider name validation — warn for unknown provider names.
	validateProviderName("stt", cfg.Providers.STT.Name)
	validateProviderName("tts", cfg.Providers.TTS.Name)
	for _, entry := range cfg.Providers.STTFallbacks {
		validateProviderName("stt", entry.Name)
	}
	for _, entry := range cfg.Providers.TTSFallbacks {
		validateProviderName("tts", entry.Name)
	}

	// Fallbacks without a primary cannot be reached.
	if len(cfg.Providers.STTFallbacks) > 0 && cfg.Providers.STT.Name == "" {
		errs = append(errs, errors.New("providers.stt_fallbacks requires a primary providers.stt"))
	}
	if len(cfg.Providers.TTSFallbacks) > 0 && cfg.Providers.TTS.Name == "" {
		errs = append(errs, errors.New("providers.tts_fallbacks requires a primary providers.tts"))
	}

	// Provider availability warnings. Both stages are optional: without TTS
	// the listen buttons are silent, without STT drills are score-only via
	// typed input.
	if cfg.Providers.TTS.Name == "" {
		slog.Warn("no TTS provider configured; model pronunciations will not be available")
	}
	if cfg.Providers.STT.Name == "" {
		slog.Warn("no STT provider configured; spoken attempts will not be recognised")
	}

	// Speech defaults
	if cfg.Speech.Rate != 0 {
		if cfg.Speech.Rate < 0.5 || cfg.Speech.Rate > 2.0 {
			errs = append(errs, fmt.Errorf("speech.rate %.2f is out of range [0.5, 2.0]", cfg.Speech.Rate))
		}
	}

	// Drill tuning
	if cfg.Drill.MatchThreshold < 0 || cfg.Drill.MatchThreshold > 1 {
		errs = append(errs, fmt.Errorf("drill.match_threshold %.2f is out of range [0, 1]", cfg.Drill.MatchThreshold))
	}
	if cfg.Drill.RecordWindow < 0 {
		errs = append(errs, fmt.Errorf("drill.record_window %s must not be negative", cfg.Drill.RecordWindow))
	}

	return errors.Join(errs...)
}

// validateProviderName logs a warning if name is non-empty and not found in
// the [ValidProviderNames] list for the given kind.
func validateProviderName(kind, name string) {
	if name == "" {
		return
	}
	known, ok := ValidProviderNames[kind]
	if !ok {
		return
	}
	if slices.Contains(known, name) {
		return
	}
	slog.Warn("unknown provider name — may be a typo or third-party provider",
		"kind", kind,
		"name", name,
		"known", known,
	)
}
