// radio/atis.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

import (
	"sync"

	"github.com/atcvoice/radiostack/util"
)

// AtisRecorder captures and loops compressed frames while PTT-
// independent transmit is active (C9).
//
// §9 flags that the original cursor wrap used `cursor > len` rather
// than `cursor >= len`, intending one extra playback of the last frame
// before wrapping. Taken literally against a cursor used directly as a
// slice index, that reads one past the stored frames once per cycle.
// We take the documented-divergence option §9 explicitly allows: wrap
// at `cursor >= len` (the safe, standard form). This produces the same
// cyclic sequence scenario S6 requires (frames 0,1,2,0,1,2,0 for three
// stored frames over seven pulls); only a host that inspects the raw
// cursor value between pulls, rather than the emitted frame sequence,
// could observe the difference.
//
// Append runs on the compressor's completion path, NextFrame on the
// audio-input thread; neither is one of the two named locks (§5), so a
// small private mutex guards the frame buffer and cursor between them.
type AtisRecorder struct {
	recording util.AtomicBool
	playing   util.AtomicBool

	mu       sync.Mutex
	frames   [][]byte
	cursor   int
	callsign string
}

// NewAtisRecorder returns a recorder whose outbound callsign defaults to
// defaultCallsign until a host starts playback with a different one.
func NewAtisRecorder(defaultCallsign string) *AtisRecorder {
	return &AtisRecorder{callsign: defaultCallsign}
}

// SetRecordAtis(true) clears stored_atis_frames and starts accumulating
// subsequent compressed frames; SetRecordAtis(false) stops accumulating.
func (a *AtisRecorder) SetRecordAtis(v bool) {
	a.mu.Lock()
	if v && !a.recording.Load() {
		a.frames = nil
		a.cursor = 0
	}
	a.mu.Unlock()
	a.recording.Store(v)
}

func (a *AtisRecorder) Recording() bool { return a.recording.Load() }

// Append stores one compressed frame while recording is active. It is
// the ATIS branch of process_compressed_frame (§4.4).
func (a *AtisRecorder) Append(frame []byte) {
	if !a.recording.Load() {
		return
	}
	a.mu.Lock()
	a.frames = append(a.frames, frame)
	a.mu.Unlock()
}

// StartPlayback begins cyclic playback from the first stored frame under
// callsign. It is a no-op while a recording is in progress, mirroring
// startAtisPlayback's guard against a recording in flight: the client
// must stop recording before the station can play it back.
func (a *AtisRecorder) StartPlayback(callsign string) {
	if a.recording.Load() {
		return
	}
	a.mu.Lock()
	a.cursor = 0
	a.callsign = callsign
	a.mu.Unlock()
	a.playing.Store(true)
}

// StopPlayback halts playback and clears the stored callsign. The caller
// (RadioStack) is responsible for erasing ATIS stations from the radio
// map, stopAtisPlayback's "Remove atis stations from active frequencies".
func (a *AtisRecorder) StopPlayback() {
	a.playing.Store(false)
	a.mu.Lock()
	a.callsign = ""
	a.mu.Unlock()
}

func (a *AtisRecorder) Playing() bool { return a.playing.Load() }

// Callsign returns the callsign the next cached frame should be sent
// under, set by the most recent StartPlayback call.
func (a *AtisRecorder) Callsign() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.callsign
}

// Len reports how many frames are currently stored.
func (a *AtisRecorder) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.frames)
}

// NextFrame pulls the next compressed frame for send_cached_atis_frame
// (§4.4), wrapping the cursor to 0 once it has advanced past the end of
// the stored sequence.
func (a *AtisRecorder) NextFrame() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.frames) == 0 {
		return nil
	}
	frame := a.frames[a.cursor]
	a.cursor++
	if a.cursor >= len(a.frames) {
		a.cursor = 0
	}
	return frame
}
