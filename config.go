package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const configPathEnv = "WORDSEARCH_CONFIG"

// Config holds the server settings. Values come from an optional YAML file,
// then environment variables override them.
type Config struct {
	Port        string       `yaml:"port"`
	LogLevel    string       `yaml:"log_level"`
	CORSOrigins []string     `yaml:"cors_origins"`
	GCP         GCPConfig    `yaml:"gcp"`
	Limits      LimitsConfig `yaml:"limits"`
}

// GCPConfig configures image analysis. An empty ProjectID disables it.
type GCPConfig struct {
	ProjectID string `yaml:"project_id"`
	Region    string `yaml:"region"`
	Model     string `yaml:"model"`
}

// LimitsConfig sets the per-IP rate limits of the API.
type LimitsConfig struct {
	UploadsPerMinute int `yaml:"uploads_per_minute"`
	SolvesPerSecond  int `yaml:"solves_per_second"`
}

// LoadConfig reads the file named by WORDSEARCH_CONFIG, if set, and applies
// environment overrides and defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if path := os.Getenv(configPathEnv); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("GCP_PROJECT_ID"); v != "" {
		c.GCP.ProjectID = v
	}
	if v := os.Getenv("GCP_REGION"); v != "" {
		c.GCP.Region = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.GCP.Model = v
	}
}

func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
	if c.GCP.Region == "" {
		c.GCP.Region = defaultRegion
	}
	if c.GCP.Model == "" {
		c.GCP.Model = defaultModel
	}
	if c.Limits.UploadsPerMinute == 0 {
		c.Limits.UploadsPerMinute = 5
	}
	if c.Limits.SolvesPerSecond == 0 {
		c.Limits.SolvesPerSecond = 20
	}
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if c.Limits.UploadsPerMinute < 0 || c.Limits.SolvesPerSecond < 0 {
		return fmt.Errorf("rate limits must be positive")
	}
	return nil
}
