// Package config loads the configuration for the demonstration telnet-echo
// command. It is not part of the telnet core; spec.md places configuration
// loading out of scope for the protocol stack itself.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the flat configuration document for cmd/telnet-echo.
type Config struct {
	ListenAddr string      `yaml:"listenAddr"`
	LogLevel   string      `yaml:"logLevel"`
	Flush      FlushConfig `yaml:"flush"`
	MSSP       MSSPConfig  `yaml:"mssp"`
	Charsets   []string    `yaml:"charsets"`
}

type FlushConfig struct {
	Strategy  string `yaml:"strategy"` // manual | immediate | newline | threshold
	Threshold int    `yaml:"threshold"`
}

type MSSPConfig struct {
	Name  string            `yaml:"name"`
	Extra map[string]string `yaml:"extra"`
}

// Load reads and parses a single YAML document, expanding environment
// variables before unmarshaling.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	expanded := []byte(os.ExpandEnv(string(data)))

	cfg := &Config{
		ListenAddr: ":2323",
		LogLevel:   "info",
		Charsets:   []string{"UTF-8", "US-ASCII"},
	}
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
