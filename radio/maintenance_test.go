// radio/maintenance_test.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

import (
	"context"
	"testing"
	"time"

	"github.com/atcvoice/radiostack/proto"
)

func TestRunMaintenanceLoopStopsOnCancel(t *testing.T) {
	s, _ := newTestStack(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.RunMaintenanceLoop(ctx) }()

	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("expected RunMaintenanceLoop to return promptly after cancellation")
	}
}

func TestMaintainDoesNotEvictFreshStreams(t *testing.T) {
	s, _ := newTestStack(t)
	s.AddFrequency(118300000, true, "Tower", NoHardware)

	s.RxVoicePacket(proto.AudioRxOnTransceivers{
		Callsign:     "TEST01",
		Audio:        []byte("a"),
		Transceivers: []proto.TransceiverRef{{Frequency: 118300000}},
	})

	// a stream that just received a packet is well within the eviction
	// timeout; one sweep must not remove the resulting last-heard state.
	s.Maintain()
	if s.streams.Get("TEST01") == nil {
		t.Error("expected the fresh stream's inbound entry to survive a sweep")
	}
	if got := s.LastTransmitOnFreq(118300000); got != "TEST01" {
		t.Errorf("expected the fresh stream's last transmit callsign to survive a sweep, got %q", got)
	}
}
