package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"ghdigest/internal/digest"
)

// Config is the archive command's TOML configuration.
type Config struct {
	GCPProject string   `toml:"gcp_project"`
	User       string   `toml:"user"`
	RepoOwners []string `toml:"repo_owners"`
}

// Load reads and validates a TOML config file. An absent repo_owners list
// falls back to the built-in exception owners.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if len(cfg.RepoOwners) == 0 {
		cfg.RepoOwners = digest.DefaultOwners
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.GCPProject == "" {
		return fmt.Errorf("gcp_project is required")
	}
	if c.User == "" {
		return fmt.Errorf("user is required")
	}
	return nil
}
