// Package config resolves connection settings from an optional YAML file
// and environment variables. Flags handled by the CLI override both.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no explicit
// config path is given.
const DefaultFile = ".ghcite.yaml"

// DefaultPort is the HTTP endpoint's default listen port.
const DefaultPort = 8080

// Config holds the settings every surface shares.
type Config struct {
	APIURL string `yaml:"api_url"`
	WebURL string `yaml:"web_url"`
	Token  string `yaml:"token"`
	Port   int    `yaml:"port"`
}

// Load reads the config file at path (DefaultFile when empty), then
// applies environment overrides: GHCITE_API_URL, GHCITE_WEB_URL,
// GHCITE_PORT and GITHUB_TOKEN. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{Port: DefaultPort}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
		if cfg.Port == 0 {
			cfg.Port = DefaultPort
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine; defaults and env apply.
	default:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GHCITE_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("GHCITE_WEB_URL"); v != "" {
		cfg.WebURL = v
	}
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("GHCITE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
}
