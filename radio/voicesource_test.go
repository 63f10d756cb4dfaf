// radio/voicesource_test.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

import (
	"errors"
	"testing"
	"time"
)

// fakeDecompressor decodes a frame to a fixed-value PCM buffer, or fails
// when primed to, without depending on a real Opus decoder.
type fakeDecompressor struct {
	fail       bool
	resetCount int
}

func (d *fakeDecompressor) Decompress(frame []byte, pcm []float32) (int, error) {
	if d.fail {
		return 0, errors.New("fake decode failure")
	}
	n := copy(pcm, []float32{1, 1, 1})
	return n, nil
}
func (d *fakeDecompressor) Reset() { d.resetCount++ }

func TestRemoteVoiceSourcePullOrdersFIFO(t *testing.T) {
	dec := &fakeDecompressor{}
	s := NewRemoteVoiceSource(dec)
	s.Append([]byte("a"))
	s.Append([]byte("b"))

	out := make([]float32, 3)
	if status := s.PullFrame(out); status != StatusOK {
		t.Fatalf("expected StatusOK, got %v", status)
	}
	if out[0] != 1 {
		t.Errorf("expected decoded PCM, got %v", out)
	}
}

func TestRemoteVoiceSourcePullEmptyReturnsEnd(t *testing.T) {
	s := NewRemoteVoiceSource(&fakeDecompressor{})
	out := make([]float32, 3)
	if status := s.PullFrame(out); status != StatusEnd {
		t.Errorf("expected StatusEnd when no frame is queued, got %v", status)
	}
}

func TestRemoteVoiceSourceDecodeFailureReturnsEnd(t *testing.T) {
	s := NewRemoteVoiceSource(&fakeDecompressor{fail: true})
	s.Append([]byte("x"))
	out := make([]float32, 3)
	if status := s.PullFrame(out); status != StatusEnd {
		t.Errorf("expected a decode failure to be treated as a transient StatusEnd, got %v", status)
	}
}

func TestRemoteVoiceSourceAppendBumpsActivity(t *testing.T) {
	s := NewRemoteVoiceSource(&fakeDecompressor{})
	before := s.LastActivityTime()
	time.Sleep(time.Millisecond)
	s.Append([]byte("a"))
	if !s.LastActivityTime().After(before) {
		t.Error("expected Append to advance LastActivityTime")
	}
}

func TestRemoteVoiceSourceResetClearsQueueAndDecoder(t *testing.T) {
	dec := &fakeDecompressor{}
	s := NewRemoteVoiceSource(dec)
	s.Append([]byte("a"))
	s.Reset()

	out := make([]float32, 3)
	if status := s.PullFrame(out); status != StatusEnd {
		t.Error("expected Reset to clear the pending queue")
	}
	if dec.resetCount != 1 {
		t.Errorf("expected Reset to reset the decoder, resetCount=%d", dec.resetCount)
	}
}
