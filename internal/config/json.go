package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/mydiary/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	DatabasePath  string `json:"database_path"`
	CollectionKey string `json:"collection_key"`
	ShareBaseURL  string `json:"share_base_url"`
	ListenAddr    string `json:"listen_addr"`
	LogLevel      string `json:"log_level"`
}

// parseJson overlays cfg with values from the JSON file named by -c/-config.
// Without either flag it does nothing.
func parseJson(cfg *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	overlay(cfg, Config(jc))
	return nil
}

func overlay(dst *Config, src Config) {
	set := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	set(&dst.DatabasePath, src.DatabasePath)
	set(&dst.CollectionKey, src.CollectionKey)
	set(&dst.ShareBaseURL, src.ShareBaseURL)
	set(&dst.ListenAddr, src.ListenAddr)
	set(&dst.LogLevel, src.LogLevel)
}
