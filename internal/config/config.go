package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	JWT struct {
		Secret      string `yaml:"secret"`
		ExpiryHours int64  `yaml:"expiry_hours"`
	} `yaml:"jwt"`
	Uploads struct {
		Dir          string `yaml:"dir"`
		PublicPrefix string `yaml:"public_prefix"`
		MaxSizeBytes int64  `yaml:"max_size_bytes"`
	} `yaml:"uploads"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	Notifications struct {
		Enabled          bool   `yaml:"enabled"`
		TelegramBotToken string `yaml:"telegram_bot_token"`
		TelegramChatID   int64  `yaml:"telegram_chat_id"`
	} `yaml:"notifications"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if config.Uploads.Dir == "" {
		config.Uploads.Dir = "./uploads"
	}
	if config.Uploads.PublicPrefix == "" {
		config.Uploads.PublicPrefix = "/uploads"
	}
	if config.Uploads.MaxSizeBytes == 0 {
		config.Uploads.MaxSizeBytes = 5 * 1024 * 1024
	}
	if config.JWT.ExpiryHours == 0 {
		config.JWT.ExpiryHours = 24
	}
	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}

	return config, nil
}
