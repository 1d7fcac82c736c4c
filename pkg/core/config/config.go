// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the main configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Endpoints  EndpointsConfig  `yaml:"endpoints"`
	Auth       AuthConfig       `yaml:"auth"`
	BlobStore  BlobStoreConfig  `yaml:"blob_store"`
	Metadata   MetadataConfig   `yaml:"metadata"`
	Completion CompletionConfig `yaml:"completion"`
	Uploads    UploadsConfig    `yaml:"uploads"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host          string        `yaml:"host"`
	Port          int           `yaml:"port"`
	Timeout       time.Duration `yaml:"timeout"`
	PublicBaseURL string        `yaml:"public_base_url"` // e.g. "https://files.example.com"
}

// EndpointsConfig contains the configurable route base paths. No path is
// hard-coded into routing logic.
type EndpointsConfig struct {
	APIBase      string `yaml:"api_base"`      // default "/api/v1"
	FilesBase    string `yaml:"files_base"`    // default "/api/v1/files"
	GPTBase      string `yaml:"gpt_base"`      // default "/api/v1/gpt"
	DownloadBase string `yaml:"download_base"` // public vanity route, default "/file"
}

// AuthConfig contains the three credential scheme settings
type AuthConfig struct {
	ServiceKey       string        `yaml:"service_key"`       // shared server-to-server secret
	IdentityEndpoint string        `yaml:"identity_endpoint"` // external identity service base URL
	IdentityAPIKey   string        `yaml:"identity_api_key"`
	JWTSecret        string        `yaml:"jwt_secret"` // local HS256 signing secret; empty disables the scheme
	IdentityTimeout  time.Duration `yaml:"identity_timeout"`
}

// BlobStoreConfig contains object store configuration
type BlobStoreConfig struct {
	Type            string        `yaml:"type"` // "s3" (default) or "memory"
	Endpoint        string        `yaml:"endpoint"`
	Region          string        `yaml:"region"`
	AccessKey       string        `yaml:"access_key"`
	SecretKey       string        `yaml:"secret_key"`
	Bucket          string        `yaml:"bucket"`
	SignedURLExpiry time.Duration `yaml:"signed_url_expiry"` // default 1h
}

// MetadataConfig contains relational metadata store configuration
type MetadataConfig struct {
	Driver string `yaml:"driver"` // "postgres", "sqlite" or "memory"
	DSN    string `yaml:"dsn"`
}

// CompletionConfig contains completion API configuration
type CompletionConfig struct {
	Endpoint    string        `yaml:"endpoint"` // OpenAI-compatible base URL
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// UploadsConfig bounds upload handling
type UploadsConfig struct {
	MaxFileSize int64 `yaml:"max_file_size"` // bytes, default 100MB
}

// LogConfig contains logger settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load loads configuration from a YAML file, then applies environment
// variable overrides and defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns configuration built from environment variables and defaults
func Default() *Config {
	cfg := &Config{}
	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("DOMAIN"); v != "" {
		cfg.Server.PublicBaseURL = v
	}
	if v := os.Getenv("API_BASE_PATH"); v != "" {
		cfg.Endpoints.APIBase = v
	}
	if v := os.Getenv("FILE_ENDPOINT_BASE"); v != "" {
		cfg.Endpoints.FilesBase = v
	}
	if v := os.Getenv("GPT_ENDPOINT_BASE"); v != "" {
		cfg.Endpoints.GPTBase = v
	}

	if v := os.Getenv("SERVICE_KEY"); v != "" {
		cfg.Auth.ServiceKey = v
	}
	if v := os.Getenv("IDENTITY_URL"); v != "" {
		cfg.Auth.IdentityEndpoint = v
	}
	if v := os.Getenv("IDENTITY_API_KEY"); v != "" {
		cfg.Auth.IdentityAPIKey = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}

	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		cfg.BlobStore.Endpoint = v
	}
	if v := os.Getenv("S3_REGION"); v != "" {
		cfg.BlobStore.Region = v
	}
	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		cfg.BlobStore.AccessKey = v
	}
	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		cfg.BlobStore.SecretKey = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		cfg.BlobStore.Bucket = v
	}
	if v := os.Getenv("SIGNED_URL_EXPIRY"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.BlobStore.SignedURLExpiry = time.Duration(secs) * time.Second
		}
	}

	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Metadata.Driver = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Metadata.DSN = v
	}

	if v := os.Getenv("GPT_API_URL"); v != "" {
		cfg.Completion.Endpoint = v
	}
	if v := os.Getenv("GPT_API_KEY"); v != "" {
		cfg.Completion.APIKey = v
	}
	if v := os.Getenv("GPT_MODEL"); v != "" {
		cfg.Completion.Model = v
	}

	if v := os.Getenv("MAX_FILE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Uploads.MaxFileSize = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 60 * time.Second
	}
	if cfg.Server.PublicBaseURL == "" {
		cfg.Server.PublicBaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}

	if cfg.Endpoints.APIBase == "" {
		cfg.Endpoints.APIBase = "/api/v1"
	}
	if cfg.Endpoints.FilesBase == "" {
		cfg.Endpoints.FilesBase = cfg.Endpoints.APIBase + "/files"
	}
	if cfg.Endpoints.GPTBase == "" {
		cfg.Endpoints.GPTBase = cfg.Endpoints.APIBase + "/gpt"
	}
	if cfg.Endpoints.DownloadBase == "" {
		cfg.Endpoints.DownloadBase = "/file"
	}

	if cfg.Auth.IdentityTimeout == 0 {
		cfg.Auth.IdentityTimeout = 10 * time.Second
	}

	if cfg.BlobStore.Type == "" {
		cfg.BlobStore.Type = "s3"
	}
	if cfg.BlobStore.Region == "" {
		cfg.BlobStore.Region = "us-east-1"
	}
	if cfg.BlobStore.Bucket == "" {
		cfg.BlobStore.Bucket = "files"
	}
	if cfg.BlobStore.SignedURLExpiry == 0 {
		cfg.BlobStore.SignedURLExpiry = time.Hour
	}

	if cfg.Metadata.Driver == "" {
		cfg.Metadata.Driver = "postgres"
	}

	if cfg.Completion.Endpoint == "" {
		cfg.Completion.Endpoint = "https://api.openai.com/v1"
	}
	if cfg.Completion.Model == "" {
		cfg.Completion.Model = "gpt-3.5-turbo"
	}
	if cfg.Completion.Temperature == 0 {
		cfg.Completion.Temperature = 0.7
	}
	if cfg.Completion.MaxTokens == 0 {
		cfg.Completion.MaxTokens = 2000
	}
	if cfg.Completion.Timeout == 0 {
		cfg.Completion.Timeout = 60 * time.Second
	}

	if cfg.Uploads.MaxFileSize == 0 {
		cfg.Uploads.MaxFileSize = 100 * 1024 * 1024
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}
