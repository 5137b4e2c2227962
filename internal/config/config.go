package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fmuoria/recruit-agent/internal/llm"
)

// Config holds application configuration
type Config struct {
	AIProvider            string  `json:"ai_provider"` // vertex | gemini
	GoogleCloudProject    string  `json:"google_cloud_project"`
	GoogleCloudLocation   string  `json:"google_cloud_location"`
	GoogleCredentialsPath string  `json:"google_credentials_path"`
	GeminiAPIKey          string  `json:"gemini_api_key,omitempty"`
	FastModel             string  `json:"fast_model"`
	ProModel              string  `json:"pro_model"`
	RequestsPerSecond     float64 `json:"requests_per_second"`
	GmailCredentialsPath  string  `json:"gmail_credentials_path"`
	GmailTokenPath        string  `json:"gmail_token_path"`
	GmailSubject          string  `json:"gmail_subject"`
	UploadsDir            string  `json:"uploads_dir"`
	SeedFile              string  `json:"seed_file"`
	Port                  int     `json:"port"`
}

// DefaultConfig returns a new config with default values
func DefaultConfig() *Config {
	return &Config{
		AIProvider:          string(llm.ProviderVertex),
		GoogleCloudLocation: "us-central1",
		FastModel:           llm.DefaultFastModel,
		ProModel:            llm.DefaultProModel,
		RequestsPerSecond:   2,
		GmailTokenPath:      "token.json",
		GmailSubject:        "Job Application",
		UploadsDir:          "uploads",
		Port:                8080,
	}
}

// GetConfigPath returns the path to the configuration file
// On Windows: %APPDATA%/RecruitAgent/config.json
// On Unix: ~/.config/RecruitAgent/config.json
func GetConfigPath() (string, error) {
	var configDir string

	if os.Getenv("APPDATA") != "" {
		configDir = filepath.Join(os.Getenv("APPDATA"), "RecruitAgent")
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "RecruitAgent")
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.json"), nil
}

// Load loads configuration from the default config path
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadFrom(configPath)
}

// LoadFrom loads configuration from a specific path
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveTo saves the configuration to a specific path
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides file values with environment variables
func (c *Config) ApplyEnv() error {
	setString := func(dst *string, keys ...string) {
		for _, key := range keys {
			if v := os.Getenv(key); v != "" {
				*dst = v
				return
			}
		}
	}

	setString(&c.AIProvider, "AI_PROVIDER")
	setString(&c.GoogleCloudProject, "GOOGLE_CLOUD_PROJECT")
	setString(&c.GoogleCloudLocation, "GOOGLE_CLOUD_LOCATION")
	setString(&c.GoogleCredentialsPath, "GOOGLE_APPLICATION_CREDENTIALS")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY", "API_KEY")
	setString(&c.GmailCredentialsPath, "GMAIL_CREDENTIALS")
	setString(&c.GmailTokenPath, "GMAIL_TOKEN")
	setString(&c.GmailSubject, "GMAIL_SUBJECT")
	setString(&c.UploadsDir, "UPLOADS_DIR")
	setString(&c.SeedFile, "SEED_FILE")

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := os.Getenv("AI_REQUESTS_PER_SECOND"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid AI_REQUESTS_PER_SECOND %q: %w", v, err)
		}
		c.RequestsPerSecond = rps
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch llm.Provider(c.AIProvider) {
	case llm.ProviderVertex:
		if c.GoogleCloudProject == "" {
			return fmt.Errorf("google_cloud_project is required for the vertex provider")
		}
		if c.GoogleCloudLocation == "" {
			return fmt.Errorf("google_cloud_location is required")
		}
	case llm.ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("gemini_api_key is required for the gemini provider")
		}
	default:
		return fmt.Errorf("unknown ai_provider %q (want vertex or gemini)", c.AIProvider)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative")
	}
	if c.UploadsDir == "" {
		return fmt.Errorf("uploads_dir is required")
	}

	if c.GoogleCredentialsPath != "" {
		if _, err := os.Stat(c.GoogleCredentialsPath); err != nil {
			return fmt.Errorf("google credentials file not found: %w", err)
		}
	}

	if c.GmailCredentialsPath != "" {
		if _, err := os.Stat(c.GmailCredentialsPath); err != nil {
			return fmt.Errorf("gmail credentials file not found: %w", err)
		}
	}

	return nil
}

// GmailEnabled reports whether mailbox ingestion is configured
func (c *Config) GmailEnabled() bool {
	return c.GmailCredentialsPath != ""
}

// LLMOptions returns the model client settings
func (c *Config) LLMOptions() llm.Options {
	return llm.Options{
		Provider:  llm.Provider(c.AIProvider),
		ProjectID: c.GoogleCloudProject,
		Location:  c.GoogleCloudLocation,
		APIKey:    c.GeminiAPIKey,
		FastModel: c.FastModel,
		ProModel:  c.ProModel,
	}
}

// ApplyToEnv exports credentials for Google client libraries
func (c *Config) ApplyToEnv() {
	if c.GoogleCredentialsPath != "" {
		os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", c.GoogleCredentialsPath)
	}
}
