package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/dgallion1/tablets/internal/registry"
	"github.com/dgallion1/tablets/internal/segment"
	"github.com/dgallion1/tablets/internal/transcript"
)

type Config struct {
	// Tablet sources
	Root     string
	Manifest string

	// Segmentation and rendering
	Separator    string
	Fence        string
	FenceAliases []string

	// Per-tablet failures
	OnError string

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() Config {
	cfg := Config{
		Root:     envOr("TABLETS_ROOT", "."),
		Manifest: envOr("TABLETS_MANIFEST", "tablets.toml"),

		Separator:    envOr("TABLETS_SEPARATOR", segment.DefaultSeparator),
		Fence:        envOr("TABLETS_FENCE", transcript.DefaultFence),
		FenceAliases: envList("TABLETS_FENCE_ALIASES", transcript.DefaultFenceAliases),

		OnError: envOr("TABLETS_ON_ERROR", string(registry.PolicyAbort)),

		LogLevel:  envOr("TABLETS_LOG_LEVEL", "info"),
		LogFormat: envOr("TABLETS_LOG_FORMAT", "json"),
	}

	if strings.TrimSpace(cfg.Separator) == "" {
		cfg.Separator = segment.DefaultSeparator
	}

	return cfg
}

func (c Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("TABLETS_ROOT is required")
	}
	if c.Manifest == "" {
		return fmt.Errorf("TABLETS_MANIFEST is required")
	}
	if _, err := registry.ParsePolicy(c.OnError); err != nil {
		return fmt.Errorf("TABLETS_ON_ERROR: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("TABLETS_LOG_LEVEL: %w", err)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("TABLETS_LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, err
	}
	return lvl, nil
}

// Policy parses OnError.
func (c Config) Policy() registry.Policy {
	p, err := registry.ParsePolicy(c.OnError)
	if err != nil {
		return registry.PolicyAbort
	}
	return p
}

// SegmentConfig returns the segmenter settings.
func (c Config) SegmentConfig() segment.Config {
	return segment.Config{Separator: c.Separator}
}

// TranscriptConfig returns the line normalization settings.
func (c Config) TranscriptConfig() transcript.Config {
	return transcript.Config{
		Fence:        c.Fence,
		FenceAliases: slices.Clone(c.FenceAliases),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return slices.Clone(fallback)
	}
	// Set but blank means no aliases, not the fallback.
	out := []string{}
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
