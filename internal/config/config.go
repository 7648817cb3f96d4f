// Package config loads the eip712 command configuration from the
// environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/erc7824/eip712structs/internal/archive"
	"github.com/erc7824/eip712structs/pkg/log"
)

const (
	configDirPathEnv     = "EIP712_CONFIG_DIR_PATH"
	defaultConfigDirPath = "."
)

// Config is the command configuration.
type Config struct {
	// PrivateKey is only required by commands that sign.
	PrivateKey string `env:"EIP712_PRIVATE_KEY" validate:"omitempty,hexadecimal"`
	Log        log.Config
	Database   archive.DatabaseConfig

	// EnvFile is the .env file that was loaded, empty if none was found.
	EnvFile string
}

// Load reads <EIP712_CONFIG_DIR_PATH>/.env when present, then the process
// environment, and validates the result.
func Load() (*Config, error) {
	configDirPath := os.Getenv(configDirPathEnv)
	if configDirPath == "" {
		configDirPath = defaultConfigDirPath
	}

	envPath := filepath.Join(configDirPath, ".env")
	envErr := godotenv.Load(envPath)

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}
	if envErr == nil {
		cfg.EnvFile = envPath
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
