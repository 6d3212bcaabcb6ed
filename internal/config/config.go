package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	ListenAddr    string `yaml:"listen_addr"`
	SessionTTLSec int    `yaml:"session_ttl_sec"`
	MaxSessions   int    `yaml:"max_sessions"`
	RandomSeed    int64  `yaml:"random_seed"`
	AutoReply     bool   `yaml:"auto_reply"`
	MessagesDir   string `yaml:"messages_dir"`
	BoardSquarePx int    `yaml:"board_square_px"`
}

// SessionTTL is SessionTTLSec as a duration.
func (c *AppConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSec) * time.Second
}

func defaults() *AppConfig {
	return &AppConfig{
		ListenAddr:    "127.0.0.1:8080",
		SessionTTLSec: 3600,
		MaxSessions:   64,
		BoardSquarePx: 64,
	}
}

// Load applies defaults, then CHESS_CONFIG_FILE if set, then CHESS_* env.
func Load() (*AppConfig, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CHESS_CONFIG_FILE")); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if v := strings.TrimSpace(os.Getenv("CHESS_LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_SESSION_TTL")); v != "" { // seconds
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionTTLSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_MAX_SESSIONS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxSessions = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_RANDOM_SEED")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("CHESS_RANDOM_SEED: %w", err)
		}
		cfg.RandomSeed = n
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_AUTO_REPLY")); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			cfg.AutoReply = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_MESSAGES_DIR")); v != "" {
		cfg.MessagesDir = v
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_BOARD_SQUARE_PX")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BoardSquarePx = n
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	c.ListenAddr = strings.TrimSpace(c.ListenAddr)
	c.MessagesDir = strings.TrimSpace(c.MessagesDir)
	return nil
}

func (c *AppConfig) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("listen address is required")
	}
	if c.SessionTTLSec <= 0 {
		return errors.New("session ttl must be positive")
	}
	if c.MaxSessions <= 0 {
		return errors.New("max sessions must be positive")
	}
	if c.BoardSquarePx < 16 || c.BoardSquarePx > 256 {
		return fmt.Errorf("board square size %d out of range [16, 256]", c.BoardSquarePx)
	}
	return nil
}
