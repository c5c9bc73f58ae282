package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvBaseURL overrides site.base_url when set.
const EnvBaseURL = "SITE_URL"

// DefaultBaseURL is used when neither the config file nor the environment provide one.
const DefaultBaseURL = "https://sqrtlabs.com"

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads .env/.env.local next to the working directory. Variables
// already present in the process environment are never overwritten. It returns
// the files that were loaded.
func loadEnvFiles() ([]string, error) {
	var loaded []string
	for _, name := range envFiles {
		if _, err := os.Stat(name); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return loaded, err
		}
		loaded = append(loaded, name)
	}
	return loaded, nil
}

// applyEnvOverrides applies environment variables that take precedence over the file.
func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		cfg.Site.BaseURL = v
	}
}
