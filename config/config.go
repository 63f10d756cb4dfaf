// config/config.go
// Copyright(c) 2022-2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package config is the JSON-persisted part of the configuration surface
// (§6): device selection, the station and ATIS callsigns, the RT toggle,
// bypass-effects-per-frequency, and the transport endpoints. Adapted from the teacher's versioned
// config.json load/save pattern, stripped of anything UI-specific.
package config

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atcvoice/radiostack/log"
)

// CurrentVersion is bumped whenever a field's meaning changes in a way
// that needs a migration step below.
const CurrentVersion = 1

// Config is the full persisted configuration surface.
type Config struct {
	Version int

	Callsign     string
	AtisCallsign string

	HeadsetDevice string
	SpeakerDevice string
	MicDevice     string

	WantRT          bool
	BypassEffectsOn map[uint32]bool

	UDPAddr          string
	HTTPBaseURL      string
	HTTPTokenURL     string
	HTTPClientID     string
	HTTPClientSecret string

	ClientLatDeg float64
	ClientLonDeg float64
}

func filePath(lg *log.Logger) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		lg.Errorf("Unable to find user config dir: %v", err)
		dir = "."
	}
	dir = filepath.Join(dir, "RadioStack")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		lg.Errorf("%s: unable to make directory for config file: %v", dir, err)
	}
	return filepath.Join(dir, "config.json")
}

func defaultConfig() *Config {
	return &Config{
		Version:         CurrentVersion,
		BypassEffectsOn: make(map[uint32]bool),
	}
}

// Encode writes c as indented JSON to w.
func (c *Config) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(c)
}

// Save persists c to the user config directory.
func (c *Config) Save(lg *log.Logger) error {
	fn := filePath(lg)
	lg.Infof("Saving config to: %s", fn)
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()
	return c.Encode(f)
}

// SaveIfChanged re-encodes c and writes it only if the result differs
// from what's currently on disk.
func (c *Config) SaveIfChanged(lg *log.Logger) bool {
	fn := filePath(lg)
	onDisk, err := os.ReadFile(fn)
	if err != nil {
		lg.Warnf("%s: unable to read config file: %v", fn, err)
	}

	var b strings.Builder
	if err := c.Encode(&b); err != nil {
		lg.Errorf("%s: unable to encode config: %v", fn, err)
		return false
	}
	if b.String() == string(onDisk) {
		return false
	}
	if err := c.Save(lg); err != nil {
		lg.Errorf("error saving configuration file: %v", err)
	}
	return true
}

// LoadOrMakeDefault loads config.json, applying any version migrations,
// or returns a fresh default configuration if none exists yet.
func LoadOrMakeDefault(lg *log.Logger) *Config {
	fn := filePath(lg)
	lg.Infof("Loading config from: %s", fn)

	contents, err := os.ReadFile(fn)
	if err != nil {
		return defaultConfig()
	}

	cfg := defaultConfig()
	r := bytes.NewReader(contents)
	if err := json.NewDecoder(r).Decode(cfg); err != nil {
		lg.Errorf("%s: configuration file is corrupt: %v", fn, err)
		return defaultConfig()
	}

	if cfg.BypassEffectsOn == nil {
		cfg.BypassEffectsOn = make(map[uint32]bool)
	}
	if cfg.Version < 1 {
		// Version 0 predates per-frequency bypass-effects persistence.
		cfg.BypassEffectsOn = make(map[uint32]bool)
	}
	cfg.Version = CurrentVersion

	return cfg
}
