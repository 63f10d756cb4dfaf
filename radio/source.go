// radio/source.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

import (
	"math"

	"github.com/atcvoice/radiostack/rand"
)

// PullStatus is the result of pulling one frame from a SampleSource.
type PullStatus int

const (
	// StatusOK means pcm was filled with FrameSizeSamples samples.
	StatusOK PullStatus = iota
	// StatusEnd means the source is exhausted (one-shot effects) or
	// otherwise unable to produce a frame this period.
	StatusEnd
)

// SampleSource is the uniform pull-model producer interface shared by
// looped clips, tone generators, noise generators and the remote-voice
// decoder (C3). The VHF filter is not a SampleSource: it transforms a
// channel buffer in place (VHFFilter.TransformFrame).
type SampleSource interface {
	// PullFrame fills pcm (length FrameSizeSamples) and reports status.
	PullFrame(pcm []float32) PullStatus
	Reset()
}

// SampleSink accepts one frame at a time (§6) — the microphone capture
// device's contract: the platform audio layer pushes captured frames in,
// the stack's transmit path (§4.4) is the sink.
type SampleSink interface {
	PushFrame(pcm []float32)
}

// StackSampleSink adapts RadioStack.PutAudioFrame to the SampleSink
// contract so the platform audio layer can treat the stack uniformly
// with any other sink.
type StackSampleSink struct {
	Stack *RadioStack
}

func (s StackSampleSink) PushFrame(pcm []float32) {
	s.Stack.PutAudioFrame(pcm)
}

// StackSampleSource adapts one of RadioStack's two output mixing
// pipelines to the SampleSource contract so the platform audio layer
// can pull headset/speaker frames uniformly with any other source.
type StackSampleSource struct {
	Stack *RadioStack
	Role  DeviceRole
}

func (s StackSampleSource) PullFrame(pcm []float32) PullStatus {
	if s.Stack.ProcessRadio(s.Role, pcm) {
		return StatusOK
	}
	return StatusEnd
}

func (s StackSampleSource) Reset() {}

// LoopedClipSource replays a fixed PCM asset on a cyclic cursor. Used
// for the crackle/AC-bus/VHF-noise assets held by the effect registry.
type LoopedClipSource struct {
	data   []float32
	cursor int
}

func NewLoopedClipSource(data []float32) *LoopedClipSource {
	return &LoopedClipSource{data: data}
}

func (s *LoopedClipSource) PullFrame(pcm []float32) PullStatus {
	if len(s.data) == 0 {
		return StatusEnd
	}
	for i := range pcm {
		pcm[i] = s.data[s.cursor]
		s.cursor++
		if s.cursor >= len(s.data) {
			s.cursor = 0
		}
	}
	return StatusOK
}

func (s *LoopedClipSource) Reset() { s.cursor = 0 }

// OneShotClipSource plays a fixed PCM asset once and then reports End on
// every subsequent pull, until Reset is called to re-arm it. This backs
// the click effect (§4.3 step 5/7).
type OneShotClipSource struct {
	data   []float32
	cursor int
	done   bool
}

func NewOneShotClipSource(data []float32) *OneShotClipSource {
	return &OneShotClipSource{data: data}
}

func (s *OneShotClipSource) PullFrame(pcm []float32) PullStatus {
	if s.done || len(s.data) == 0 {
		return StatusEnd
	}
	n := copy(pcm, s.data[s.cursor:])
	s.cursor += n
	for i := n; i < len(pcm); i++ {
		pcm[i] = 0
	}
	if s.cursor >= len(s.data) {
		s.done = true
	}
	if s.done {
		return StatusOK
	}
	return StatusOK
}

// Finished reports whether the one-shot has played to completion. The
// mixer uses this to release the click effect (§4.3 step 7).
func (s *OneShotClipSource) Finished() bool { return s.done }

func (s *OneShotClipSource) Reset() {
	s.cursor = 0
	s.done = false
}

// SineSource generates a continuous sine tone at freqHz. Used for the
// 180Hz block tone (§4.3 step 4).
type SineSource struct {
	freqHz float64
	phase  float64
}

func NewSineSource(freqHz float64) *SineSource {
	return &SineSource{freqHz: freqHz}
}

func (s *SineSource) PullFrame(pcm []float32) PullStatus {
	step := 2 * math.Pi * s.freqHz / SampleRateHz
	for i := range pcm {
		pcm[i] = float32(math.Sin(s.phase))
		s.phase += step
		if s.phase > 2*math.Pi {
			s.phase -= 2 * math.Pi
		}
	}
	return StatusOK
}

func (s *SineSource) Reset() { s.phase = 0 }

// PinkNoiseSource generates pink (1/f) noise via a Voss-McCartney style
// octave-summed white-noise approximation, drawn from the package rand
// PCG32 generator. Reset reseeds it, so a reset source replays the same
// sequence as a freshly constructed one with the same seed.
type PinkNoiseSource struct {
	r      rand.Rand
	seed   int64
	rows   [7]float32
	runSum float32
}

func NewPinkNoiseSource(seed int64) *PinkNoiseSource {
	r := rand.New()
	r.Seed(seed)
	return &PinkNoiseSource{r: r, seed: seed}
}

func (s *PinkNoiseSource) PullFrame(pcm []float32) PullStatus {
	for i := range pcm {
		row := i % len(s.rows)
		s.runSum -= s.rows[row]
		s.rows[row] = s.r.Signed()
		s.runSum += s.rows[row]
		pcm[i] = (s.runSum + s.r.Signed()) / float32(len(s.rows)+1)
	}
	return StatusOK
}

func (s *PinkNoiseSource) Reset() {
	for i := range s.rows {
		s.rows[i] = 0
	}
	s.runSum = 0
	s.r.Seed(s.seed)
}
