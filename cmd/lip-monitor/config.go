package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lip-protocol/lip-go/pkg/connection"
	"github.com/lip-protocol/lip-go/pkg/lip"
)

// FileConfig is the YAML configuration file format. All fields are
// optional; unset values fall back to protocol defaults. Durations use
// Go syntax ("10s", "1m30s").
type FileConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	ConnectTimeout    string `yaml:"connect_timeout"`
	SocketTimeout     string `yaml:"socket_timeout"`
	ReadTimeout       string `yaml:"read_timeout"`
	KeepAliveInterval string `yaml:"keepalive_interval"`

	Reconnect struct {
		InitialDelay string `yaml:"initial_delay"`
		MaxDelay     string `yaml:"max_delay"`
	} `yaml:"reconnect"`

	// Capture is the protocol trace file path.
	Capture string `yaml:"capture"`
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, err
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// ClientConfig converts the file configuration to a client Config.
func (f FileConfig) ClientConfig() (lip.Config, error) {
	cfg := lip.Config{
		Host:     f.Host,
		Port:     f.Port,
		Username: f.Username,
		Password: f.Password,
	}

	var err error
	if cfg.ConnectTimeout, err = parseDuration(f.ConnectTimeout); err != nil {
		return cfg, fmt.Errorf("connect_timeout: %w", err)
	}
	if cfg.SocketTimeout, err = parseDuration(f.SocketTimeout); err != nil {
		return cfg, fmt.Errorf("socket_timeout: %w", err)
	}
	if cfg.ReadTimeout, err = parseDuration(f.ReadTimeout); err != nil {
		return cfg, fmt.Errorf("read_timeout: %w", err)
	}
	if cfg.KeepAliveInterval, err = parseDuration(f.KeepAliveInterval); err != nil {
		return cfg, fmt.Errorf("keepalive_interval: %w", err)
	}

	backoff := connection.DefaultConfig()
	if backoff.Initial, err = parseDuration(f.Reconnect.InitialDelay); err != nil {
		return cfg, fmt.Errorf("reconnect.initial_delay: %w", err)
	}
	if backoff.Initial == 0 {
		backoff.Initial = connection.DefaultInitialDelay
	}
	if backoff.Max, err = parseDuration(f.Reconnect.MaxDelay); err != nil {
		return cfg, fmt.Errorf("reconnect.max_delay: %w", err)
	}
	cfg.Backoff = backoff

	return cfg, nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
