// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables and
// an optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
)

// Options holds the configuration values for the application.
type Options struct {
	// BackendURL is the base URL of the remote data platform.
	BackendURL string

	// APIKey is the anonymous API key sent with every backend call.
	APIKey string

	// DatabaseDSN, when set, selects the direct-Postgres gateway instead
	// of the HTTP one.
	DatabaseDSN string

	// StatePath is the path of the durable key-value state file.
	StatePath string

	// SessionTimeoutMinutes overrides the idle-session timeout window.
	// Zero keeps the default of two hours.
	SessionTimeoutMinutes int

	// Config is the path to the config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.BackendURL, "u", "http://localhost:54321", "backend base URL")
	flag.StringVar(&options.APIKey, "k", "", "backend API key")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address (direct gateway)")
	flag.StringVar(&options.StatePath, "s", "state.json", "path to durable state file")
	flag.IntVar(&options.SessionTimeoutMinutes, "t", 0, "idle session timeout in minutes")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if backendURL := os.Getenv("BACKEND_URL"); backendURL != "" {
		options.BackendURL = backendURL
	}
	if apiKey := os.Getenv("BACKEND_API_KEY"); apiKey != "" {
		options.APIKey = apiKey
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if statePath := os.Getenv("STATE_PATH"); statePath != "" {
		options.StatePath = statePath
	}

	return options
}
