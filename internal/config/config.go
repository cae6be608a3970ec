// Package config loads server settings from an optional YAML file.
// Command-line flags take precedence over file values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr              string `yaml:"addr"`
	RPCSocket         string `yaml:"rpc_socket"`
	DBPath            string `yaml:"db_path"`
	BootstrapEmail    string `yaml:"bootstrap_email"`
	BootstrapPassword string `yaml:"bootstrap_password"`
}

func Default() Config {
	return Config{
		Addr:              ":8080",
		RPCSocket:         "/tmp/bones.sock",
		DBPath:            "bones.db",
		BootstrapEmail:    "admin@bones.local",
		BootstrapPassword: "admin",
	}
}

// Load reads the YAML file at path over the defaults. An empty path
// returns the defaults; a missing file is an error so typos surface
// instead of silently starting with defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
