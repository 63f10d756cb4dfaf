// util/sync_test.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/atcvoice/radiostack/log"
)

func testLogger() *log.Logger {
	return &log.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestAtomicBoolJSONRoundTrip(t *testing.T) {
	var a AtomicBool
	a.Store(true)

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "true" {
		t.Errorf("expected JSON true, got %s", data)
	}

	var b AtomicBool
	if err := json.Unmarshal(data, &b); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !b.Load() {
		t.Error("expected unmarshal to restore true")
	}
}

func TestLoggingMutexLockUnlock(t *testing.T) {
	lg := testLogger()
	m := NewLoggingMutex("test-lock")
	m.Lock(lg)
	m.Unlock(lg)
}

func TestLoggingMutexSetWaitHookFiresOnLock(t *testing.T) {
	lg := testLogger()
	m := NewLoggingMutex("test-lock")

	var gotName string
	var called bool
	m.SetWaitHook(func(name string, wait time.Duration) {
		gotName = name
		called = true
	})

	m.Lock(lg)
	m.Unlock(lg)

	if !called {
		t.Fatal("expected the wait hook to fire on Lock")
	}
	if gotName != "test-lock" {
		t.Errorf("expected hook to receive the mutex's name, got %q", gotName)
	}
}

func TestLoggingMutexName(t *testing.T) {
	m := NewLoggingMutex("radio-state")
	if m.Name() != "radio-state" {
		t.Errorf("Name() = %q, want radio-state", m.Name())
	}
}
