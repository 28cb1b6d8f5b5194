package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const appName = "pubreport"

// cliConfig is the reportctl configuration file.
//
//	api_url: https://api.lens.dev
//	address: 0x...
//	access_token: eyJ...
//	reason_policy: selected
//	timeout: 10s
type cliConfig struct {
	APIURL       string        `yaml:"api_url"`
	Address      string        `yaml:"address"`
	AccessToken  string        `yaml:"access_token"`
	ReasonPolicy string        `yaml:"reason_policy"`
	Timeout      time.Duration `yaml:"timeout"`
}

func defaultCLIConfig() cliConfig {
	return cliConfig{
		APIURL:       "https://api.lens.dev",
		ReasonPolicy: "fixed",
		Timeout:      10 * time.Second,
	}
}

// defaultConfigPath is $XDG_CONFIG_HOME/pubreport/config.yaml.
func defaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// loadCLIConfig reads path over the defaults. A missing file is not an
// error: show works without credentials.
func loadCLIConfig(path string) (cliConfig, error) {
	cfg := defaultCLIConfig()

	data, err := os.ReadFile(path) //nolint:gosec // user config path
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultCLIConfig().Timeout
	}
	return cfg, nil
}
