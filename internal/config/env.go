package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces the environment variables read by parseEnv.
const EnvPrefix = "MYDIARY"

type envConfig struct {
	DatabasePath  string `envconfig:"DATABASE_PATH"`
	CollectionKey string `envconfig:"COLLECTION_KEY"`
	ShareBaseURL  string `envconfig:"SHARE_BASE_URL"`
	ListenAddr    string `envconfig:"LISTEN_ADDR"`
	LogLevel      string `envconfig:"LOG_LEVEL"`
}

func parseEnv(cfg *Config) error {
	var ec envConfig
	if err := envconfig.Process(EnvPrefix, &ec); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	overlay(cfg, Config(ec))
	return nil
}
