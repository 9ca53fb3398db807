package config

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/mydiary/internal/flagx"
)

var knownFlags = []string{"-d", "-k", "-s", "-l", "-v"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path to the SQLite database file
//	-k string   collection key
//	-s string   base URL for share links
//	-l string   listen address of the viewer API
//	-v string   log level
//
// os.Args is filtered with flagx.FilterArgs first so that -c/-config and
// anything unknown do not make parsing fail.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the SQLite database file")
	fs.StringVar(&cfg.CollectionKey, "k", cfg.CollectionKey, "collection key")
	fs.StringVar(&cfg.ShareBaseURL, "s", cfg.ShareBaseURL, "base URL for share links")
	fs.StringVar(&cfg.ListenAddr, "l", cfg.ListenAddr, "listen address of the viewer API")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
