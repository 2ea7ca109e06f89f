package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxImageBytes is the default cap on a single input file.
const MaxImageBytes = 16 << 20

// DefaultInputDir is searched for the most recent file when no input is configured.
const DefaultInputDir = "input"

type Config struct {
	InputPath     string   `yaml:"input"`
	OutputDir     string   `yaml:"output"`
	ReportDir     string   `yaml:"reports"`
	Operation     string   `yaml:"operation"`
	Detector      string   `yaml:"detector"`
	Languages     []string `yaml:"languages"`
	Workers       int      `yaml:"workers"`
	MaxImageBytes int64    `yaml:"max_image_bytes"`
	DPI           int      `yaml:"dpi"`
	LogLevel      string   `yaml:"log_level"`
	HumanLog      bool     `yaml:"human_log"`
	BuildVersion  string   `yaml:"-"`
}

// Default returns the settings used when no config file is present.
func Default() *Config {
	return &Config{
		OutputDir:     "output",
		ReportDir:     "reports",
		Operation:     "remove",
		Detector:      "auto",
		Languages:     []string{"eng"},
		MaxImageBytes: MaxImageBytes,
		DPI:           150,
		LogLevel:      "info",
	}
}

// Load reads path over the defaults and applies TEXTSCRUB_* environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("TEXTSCRUB_DETECTOR"); ok && v != "" {
		c.Detector = v
	}
	if v, ok := lookup("TEXTSCRUB_LANGUAGES"); ok && v != "" {
		c.Languages = strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == '+' || r == ' ' })
	}
	if v, ok := lookup("TEXTSCRUB_LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup("TEXTSCRUB_WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TEXTSCRUB_WORKERS: %w", err)
		}
		c.Workers = n
	}
	return nil
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	switch c.Detector {
	case "auto", "model", "heuristic", "contrast", "":
	default:
		return fmt.Errorf("unknown detector %q", c.Detector)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("max_image_bytes must be positive, got %d", c.MaxImageBytes)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", c.DPI)
	}
	return nil
}
