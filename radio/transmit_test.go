// radio/transmit_test.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/atcvoice/radiostack/log"
	"github.com/atcvoice/radiostack/proto"
)

// fakeCompressor is a deterministic stand-in for a real Opus encoder:
// every frame compresses to a fixed-size marker payload, with no DTX.
type fakeCompressor struct {
	resetCount int
}

func (f *fakeCompressor) Compress(pcm []float32) ([]byte, error) {
	return []byte{0xAA}, nil
}
func (f *fakeCompressor) Reset() { f.resetCount++ }

type fakeUDPChannel struct {
	mu   sync.Mutex
	sent []proto.AudioTxOnTransceivers
}

func (f *fakeUDPChannel) RegisterHandler(name string, fn func(proto.AudioRxOnTransceivers)) {}
func (f *fakeUDPChannel) UnregisterHandler(name string)                                     {}
func (f *fakeUDPChannel) IsOpen() bool                                                       { return true }
func (f *fakeUDPChannel) SendDTO(dto proto.AudioTxOnTransceivers) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, dto)
	return nil
}

func newTestStack(t *testing.T) (*RadioStack, *fakeUDPChannel) {
	t.Helper()
	udp := &fakeUDPChannel{}
	s, err := New(Config{
		Logger:       &log.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))},
		UDP:          udp,
		EffectCache:  8,
		Callsign:     "TEST01",
		AtisCallsign: "TEST_ATIS",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.SetCompressor(&fakeCompressor{})
	return s, udp
}

// newTestStackWithEvents is like newTestStack but lets a test install its
// own EventSink to observe PTT/RX edge notifications.
func newTestStackWithEvents(t *testing.T, events EventSink) (*RadioStack, error) {
	t.Helper()
	s, err := New(Config{
		Logger:       &log.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))},
		UDP:          &fakeUDPChannel{},
		EffectCache:  8,
		Callsign:     "TEST01",
		AtisCallsign: "TEST_ATIS",
		Events:       events,
	})
	if err != nil {
		return nil, err
	}
	s.SetCompressor(&fakeCompressor{})
	return s, nil
}

func silentFrame() []float32 { return make([]float32, FrameSizeSamples) }

// Scenario S5: ten silent put_audio_frame calls after PTT has already
// been released produce no further datagrams beyond the one last-packet
// frame; those idle frames only advance the sequence counter.
func TestPutAudioFrameSilenceAfterPttReleaseSendsNoMore(t *testing.T) {
	s, udp := newTestStack(t)
	s.AddFrequency(118300000, true, "Tower", NoHardware)
	s.SetTx(118300000, true)

	s.SetPtt(true)
	s.PutAudioFrame(silentFrame())
	s.SetPtt(false)
	s.PutAudioFrame(silentFrame()) // last packet, LastPacket=true

	sentAfterRelease := len(udp.sent)

	for i := 0; i < 10; i++ {
		s.PutAudioFrame(silentFrame())
	}

	if len(udp.sent) != sentAfterRelease {
		t.Errorf("expected no further datagrams after the last-packet frame, got %d more",
			len(udp.sent)-sentAfterRelease)
	}
}

func TestPutAudioFrameLastPacketFlag(t *testing.T) {
	s, udp := newTestStack(t)
	s.AddFrequency(118300000, true, "Tower", NoHardware)
	s.SetTx(118300000, true)

	s.SetPtt(true)
	s.PutAudioFrame(silentFrame())
	s.PutAudioFrame(silentFrame())

	if len(udp.sent) != 2 {
		t.Fatalf("expected 2 datagrams while PTT held, got %d", len(udp.sent))
	}
	for i, dto := range udp.sent {
		if dto.LastPacket {
			t.Errorf("datagram %d: expected LastPacket=false while PTT is held", i)
		}
	}

	s.SetPtt(false)
	s.PutAudioFrame(silentFrame())
	if len(udp.sent) != 3 {
		t.Fatalf("expected 3rd datagram on PTT release, got %d total", len(udp.sent))
	}
	if !udp.sent[2].LastPacket {
		t.Error("expected LastPacket=true on the frame sent immediately after PTT release")
	}
}

func TestTxSequenceMonotonic(t *testing.T) {
	s, udp := newTestStack(t)
	s.AddFrequency(118300000, true, "Tower", NoHardware)
	s.SetTx(118300000, true)

	s.SetPtt(true)
	for i := 0; i < 5; i++ {
		s.PutAudioFrame(silentFrame())
	}

	if len(udp.sent) != 5 {
		t.Fatalf("expected 5 datagrams, got %d", len(udp.sent))
	}
	for i, dto := range udp.sent {
		if dto.SequenceCounter != uint32(i) {
			t.Errorf("datagram %d: sequence = %d, want %d", i, dto.SequenceCounter, i)
		}
	}
}
