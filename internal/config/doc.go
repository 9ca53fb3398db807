// Package config loads runtime configuration for the MyDiary CLI and viewer.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables prefixed with MYDIARY_ (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   path to the SQLite database file
//	-k string   collection key
//	-s string   base URL for share links
//	-l string   listen address of the viewer API
//	-v string   log level
//
// # JSON schema
//
//	{
//	  "database_path": "~/.mydiary/diary.db",
//	  "collection_key": "diary_entries",
//	  "share_base_url": "http://localhost:3000",
//	  "listen_addr": "127.0.0.1:3000",
//	  "log_level": "info"
//	}
//
// Environment
//
//	MYDIARY_DATABASE_PATH, MYDIARY_COLLECTION_KEY, MYDIARY_SHARE_BASE_URL,
//	MYDIARY_LISTEN_ADDR, MYDIARY_LOG_LEVEL
//
// Empty values in the JSON file or environment leave the previous value in place.
package config
