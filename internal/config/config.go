// Package config provides YAML-based configuration for the parse server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultFieldName is the multipart field that carries uploaded files.
const DefaultFieldName = "FILE"

// AppConfig represents the root configuration document.
type AppConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Processing ProcessingConfig `yaml:"processing"`
	Upload     UploadConfig     `yaml:"upload"`
	Advanced   AdvancedConfig   `yaml:"advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `yaml:"port"`
	BindAddress  string `yaml:"bind_address"`
	EnableCORS   bool   `yaml:"enable_cors"`
	AllowOrigins string `yaml:"allow_origins"`
	ReadTimeout  int    `yaml:"read_timeout_seconds"`
	WriteTimeout int    `yaml:"write_timeout_seconds"`
	IdleTimeout  int    `yaml:"idle_timeout_seconds"`
	// BodyLimit uses echo's size syntax ("8M", "2G"). Empty means unlimited.
	BodyLimit string `yaml:"body_limit"`
}

// ProcessingConfig contains extraction settings
type ProcessingConfig struct {
	MaxDurationSeconds int `yaml:"max_duration_seconds"`
	// TempDirectory is the scratch directory for decoder input files.
	// Empty means os.TempDir().
	TempDirectory     string `yaml:"temp_directory"`
	EnableCompression bool   `yaml:"enable_compression"`
	CompressionLevel  int    `yaml:"compression_level"`
}

// UploadConfig contains upload settings
type UploadConfig struct {
	FieldName string `yaml:"field_name"`
	// MaxFileSize is advisory. It is reported at startup but not enforced.
	MaxFileSize string `yaml:"max_file_size"`
}

// AdvancedConfig contains logging options
type AdvancedConfig struct {
	LogLevel             string `yaml:"log_level"`
	Development          bool   `yaml:"development"`
	EnableRequestLogging bool   `yaml:"enable_request_logging"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8089,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 90,
			IdleTimeout:  120,
		},
		Processing: ProcessingConfig{
			MaxDurationSeconds: 60,
			EnableCompression:  true,
			CompressionLevel:   5,
		},
		Upload: UploadConfig{
			FieldName:   DefaultFieldName,
			MaxFileSize: "8MB",
		},
		Advanced: AdvancedConfig{
			LogLevel:             "info",
			EnableRequestLogging: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file, creating it with
// defaults when it does not exist. A .env file in the working directory
// is loaded first so that its values take part in environment overrides.
func LoadConfig(configPath string) (*AppConfig, error) {
	_ = godotenv.Load()

	config := DefaultConfig()

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnvironmentOverrides()
	config.resolvePaths(filepath.Dir(configPath))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save writes the configuration to a YAML file
func (c *AppConfig) Save(configPath string) error {
	output, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# PDF parse server configuration\n# This file is auto-generated on first run\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks value ranges.
func (c *AppConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Processing.MaxDurationSeconds <= 0 {
		return fmt.Errorf("processing.max_duration_seconds must be positive")
	}
	if c.Processing.EnableCompression && (c.Processing.CompressionLevel < 1 || c.Processing.CompressionLevel > 9) {
		return fmt.Errorf("processing.compression_level must be between 1 and 9")
	}
	if c.Upload.FieldName == "" {
		return fmt.Errorf("upload.field_name is required")
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.Advanced.LogLevel)); err != nil {
		return fmt.Errorf("advanced.log_level: %w", err)
	}
	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		c.Server.BindAddress = addr
	}

	if tempDir := os.Getenv("PDFPARSE_TEMP_DIR"); tempDir != "" {
		c.Processing.TempDirectory = tempDir
	}

	if level := os.Getenv("PDFPARSE_LOG_LEVEL"); level != "" {
		c.Advanced.LogLevel = level
	}

	if d := os.Getenv("PDFPARSE_MAX_DURATION"); d != "" {
		if secs, err := strconv.Atoi(d); err == nil {
			c.Processing.MaxDurationSeconds = secs
		}
	}
}

// resolvePaths makes a relative temp directory absolute against the config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if c.Processing.TempDirectory != "" && !filepath.IsAbs(c.Processing.TempDirectory) {
		c.Processing.TempDirectory = filepath.Join(configDir, c.Processing.TempDirectory)
	}
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// GetTempDir returns the scratch directory for decoder input files.
func (c *AppConfig) GetTempDir() string {
	if c.Processing.TempDirectory == "" {
		return os.TempDir()
	}
	return c.Processing.TempDirectory
}

// MaxDuration returns the execution cap for one parse request.
func (c *AppConfig) MaxDuration() time.Duration {
	return time.Duration(c.Processing.MaxDurationSeconds) * time.Second
}
