package config

// Config holds runtime settings for the MyDiary binaries.
//
// Fields:
//   - DatabasePath: SQLite file holding the entry collection ("~/" is expanded).
//   - CollectionKey: key the collection is stored under.
//   - ShareBaseURL: origin prepended to share links.
//   - ListenAddr: host:port of the local viewer API.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	DatabasePath  string
	CollectionKey string
	ShareBaseURL  string
	ListenAddr    string
	LogLevel      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "~/.mydiary/diary.db"
	c.CollectionKey = "diary_entries"
	c.ShareBaseURL = "http://localhost:3000"
	c.ListenAddr = "127.0.0.1:3000"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
