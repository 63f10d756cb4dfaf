// radio/voicesource.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

import (
	"sync"
	"time"

	"github.com/atcvoice/radiostack/codec"
)

// RemoteVoiceSource is the per-callsign jitter buffer and decoder (C4):
// it queues compressed frames as they arrive off the network and emits
// fixed-size decoded PCM frames to the mixer's pull calls. It is
// concurrency-safe on its own because the network thread appends while
// the mixer pulls; the stream-map lock additionally serializes table
// mutation, but the source's internal queue has its own mutex so a pull
// in progress during an append never races.
type RemoteVoiceSource struct {
	mu               sync.Mutex
	dec              codec.Decompressor
	pending          [][]byte
	lastActivityTime time.Time
}

func NewRemoteVoiceSource(dec codec.Decompressor) *RemoteVoiceSource {
	return &RemoteVoiceSource{dec: dec, lastActivityTime: time.Now()}
}

// Append enqueues one compressed frame received over the network and
// bumps the activity clock the maintenance sweep (C10) reads.
func (s *RemoteVoiceSource) Append(frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, frame)
	s.lastActivityTime = time.Now()
}

// LastActivityTime reports the last time Append was called.
func (s *RemoteVoiceSource) LastActivityTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivityTime
}

// PullFrame dequeues and decodes the oldest pending compressed frame. If
// no frame is queued this period, it reports StatusEnd (a transient
// stream fault, per §7, not an eviction).
func (s *RemoteVoiceSource) PullFrame(pcm []float32) PullStatus {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return StatusEnd
	}
	frame := s.pending[0]
	s.pending = s.pending[1:]
	s.mu.Unlock()

	n, err := s.dec.Decompress(frame, pcm)
	if err != nil {
		return StatusEnd
	}
	for i := n; i < len(pcm); i++ {
		pcm[i] = 0
	}
	return StatusOK
}

func (s *RemoteVoiceSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	s.dec.Reset()
}
