// config/config_test.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package config

import (
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/atcvoice/radiostack/log"
)

func testLogger() *log.Logger {
	return &log.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func withTempConfigDir(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoadOrMakeDefaultWithNoFileOnDisk(t *testing.T) {
	withTempConfigDir(t)
	lg := testLogger()

	cfg := LoadOrMakeDefault(lg)
	if cfg.Version != CurrentVersion {
		t.Errorf("expected default Version %d, got %d", CurrentVersion, cfg.Version)
	}
	if cfg.BypassEffectsOn == nil {
		t.Error("expected a non-nil BypassEffectsOn map in the default config")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	withTempConfigDir(t)
	lg := testLogger()

	cfg := LoadOrMakeDefault(lg)
	cfg.Callsign = "TEST01"
	cfg.WantRT = true
	cfg.BypassEffectsOn[118300000] = true
	if err := cfg.Save(lg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := LoadOrMakeDefault(lg)
	if reloaded.Callsign != "TEST01" {
		t.Errorf("expected Callsign to round-trip, got %q", reloaded.Callsign)
	}
	if !reloaded.WantRT {
		t.Error("expected WantRT to round-trip as true")
	}
	if !reloaded.BypassEffectsOn[118300000] {
		t.Error("expected per-frequency bypass-effects map to round-trip")
	}
}

func TestSaveIfChangedSkipsIdenticalWrite(t *testing.T) {
	withTempConfigDir(t)
	lg := testLogger()

	cfg := LoadOrMakeDefault(lg)
	cfg.Callsign = "TEST01"
	if !cfg.SaveIfChanged(lg) {
		t.Fatal("expected the first save to report a change")
	}
	if cfg.SaveIfChanged(lg) {
		t.Error("expected an unchanged config to report no further write")
	}

	cfg.Callsign = "TEST02"
	if !cfg.SaveIfChanged(lg) {
		t.Error("expected a modified config to report a change")
	}
}

func TestLoadOrMakeDefaultMigratesVersionZero(t *testing.T) {
	withTempConfigDir(t)
	lg := testLogger()

	cfg := defaultConfig()
	cfg.Version = 0
	cfg.BypassEffectsOn[118300000] = true
	if err := cfg.Save(lg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := LoadOrMakeDefault(lg)
	if reloaded.Version != CurrentVersion {
		t.Errorf("expected migration to stamp CurrentVersion, got %d", reloaded.Version)
	}
	if len(reloaded.BypassEffectsOn) != 0 {
		t.Error("expected version-0 migration to discard stale per-frequency bypass state")
	}
}

func TestLoadOrMakeDefaultCorruptFile(t *testing.T) {
	withTempConfigDir(t)
	lg := testLogger()

	fn := filePath(lg)
	if err := os.WriteFile(fn, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg := LoadOrMakeDefault(lg)
	if cfg.Version != CurrentVersion {
		t.Errorf("expected a corrupt file to fall back to the default config, got version %d", cfg.Version)
	}
}
