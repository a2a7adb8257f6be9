// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: JSON configuration for the ember terminal.
// Usage: Load reads the user's config file, filling defaults for anything
//        missing; Save writes it back.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const configName = "ember.json"

// Scroll tunes the viewport inertia physics.
type Scroll struct {
	// Gain is the velocity (rows/s) added per wheel row.
	Gain float64 `json:"gain"`
	// Friction is the exponential decay rate (1/s).
	Friction float64 `json:"friction"`
	// StopThreshold is the speed (rows/s) below which motion snaps to rest.
	StopThreshold float64 `json:"stop_threshold"`
}

// Config holds the user-tunable settings.
type Config struct {
	// Shell is the command to run; empty means $SHELL, then /bin/sh.
	Shell string `json:"shell"`
	// ScrollbackLines bounds retained history rows.
	ScrollbackLines int `json:"scrollback_lines"`
	// Scroll is the wheel inertia tuning.
	Scroll Scroll `json:"scroll"`
	// SearchIndex enables the in-memory full-text history index.
	SearchIndex bool `json:"search_index"`
}

var mu sync.Mutex

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ScrollbackLines: 10000,
		Scroll: Scroll{
			Gain:          12.0,
			Friction:      8.0,
			StopThreshold: 0.02,
		},
		SearchIndex: true,
	}
}

// Path returns the config file location under the user config directory.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ember", configName), nil
}

// Load reads the config file, layering it over the defaults. A missing file
// is not an error; a malformed one is.
func Load() (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	cfg := Default()
	path, err := Path()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes the config file, creating the directory if needed.
func Save(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// normalize replaces out-of-range values with the defaults.
func (c *Config) normalize() {
	def := Default()
	if c.ScrollbackLines <= 0 {
		c.ScrollbackLines = def.ScrollbackLines
	}
	if c.Scroll.Gain <= 0 {
		c.Scroll.Gain = def.Scroll.Gain
	}
	if c.Scroll.Friction <= 0 {
		c.Scroll.Friction = def.Scroll.Friction
	}
	if c.Scroll.StopThreshold <= 0 {
		c.Scroll.StopThreshold = def.Scroll.StopThreshold
	}
}
