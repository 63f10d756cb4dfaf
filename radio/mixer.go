// radio/mixer.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// DeviceRole distinguishes the two output-device mixing pipelines.
type DeviceRole int

const (
	HeadsetRole DeviceRole = iota
	SpeakerRole
)

// OutputDeviceState holds one output device's fixed-size PCM buffers
// (§3). All five are allocated once and reused every frame; alignment
// sufficient for 4-wide SIMD mixing is left to the Go runtime's slice
// allocator, which rounds allocations to pointer-aligned boundaries —
// adequate for the float32 mix primitive used here (§9).
type OutputDeviceState struct {
	channel     []float32
	mixing      []float32
	fetch       []float32
	leftMixing  []float32
	rightMixing []float32
}

func newOutputDeviceState() *OutputDeviceState {
	return &OutputDeviceState{
		channel:     make([]float32, FrameSizeSamples),
		mixing:      make([]float32, FrameSizeSamples),
		fetch:       make([]float32, FrameSizeSamples),
		leftMixing:  make([]float32, FrameSizeSamples),
		rightMixing: make([]float32, FrameSizeSamples),
	}
}

func zero(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
}

// mix implements the mix primitive: mixing[i] += gain*src[i] (§4.3).
func mix(dst, src []float32, gain float32) {
	for i := range dst {
		dst[i] += gain * src[i]
	}
}

// ProcessRadio is called once per output device per audio frame-period
// (C7, §4.3). It fills out (length FrameSizeSamples) and reports true
// on success.
func (s *RadioStack) ProcessRadio(role DeviceRole, out []float32) bool {
	if s.metrics != nil {
		start := time.Now()
		defer func() { s.metrics.MixerFrameSeconds.Observe(time.Since(start).Seconds()) }()
	}

	dev := s.deviceFor(role)
	isHeadset := role == HeadsetRole

	rScope := s.newScope()
	s.lockRadioState(rScope)
	defer s.unlockRadioState(rScope)
	sScope := s.newScope()
	s.lockStreamMap(sScope)
	defer s.unlockStreamMap(sScope)

	s.transmit.LatchRT()
	rt := s.transmit.RT()

	// Step A: source prefetch. Cache keyed by each entry's stable UUID
	// (§9), assigned once at stream creation rather than by address.
	sampleCache := make(map[uuid.UUID][]float32)
	var streamsThisFrame int64
	s.streams.Each(func(_ string, e *InboundEntry) {
		if len(e.Transceivers) == 0 {
			return
		}
		freq := e.Transceivers[0].Frequency
		rs := s.radios.Get(freq)
		if rs == nil || !routeToDevice(rs, isHeadset, rt) {
			return
		}
		if _, ok := sampleCache[e.cacheID]; ok {
			return
		}
		frame := make([]float32, FrameSizeSamples)
		if e.Source.PullFrame(frame) != StatusOK {
			return
		}
		sampleCache[e.cacheID] = frame
		streamsThisFrame++
	})
	s.incomingAudioStreams.Store(streamsThisFrame)
	if s.metrics != nil {
		s.metrics.IncomingAudioStreams.Set(float64(streamsThisFrame))
	}

	// Step B: zero mix buffer.
	zero(dev.mixing)

	// Step C: process each active radio matching routing rule R.
	s.radios.Each(func(rs *RadioState) {
		if !routeToDevice(rs, isHeadset, rt) {
			return
		}
		s.processRadioChannel(dev, rs, sampleCache, isHeadset)
	})

	// Step D: copy mixing into the caller's output buffer.
	copy(out, dev.mixing)
	return true
}

func (s *RadioStack) deviceFor(role DeviceRole) *OutputDeviceState {
	if role == HeadsetRole {
		return s.headsetDevice
	}
	return s.speakerDevice
}

// routeToDevice implements routing rule R (§4.3).
func routeToDevice(rs *RadioState, isHeadset, rt bool) bool {
	positiveRTOverride := !isHeadset && rs.OnHeadset && rt
	negativeRTOverride := isHeadset && rs.OnHeadset && rt
	return positiveRTOverride || (rs.OnHeadset == isHeadset && !negativeRTOverride)
}

// processRadioChannel implements process_radio (§4.3 step C) for one
// radio on one device's frame. Caller holds both locks.
func (s *RadioStack) processRadioChannel(dev *OutputDeviceState, rs *RadioState, sampleCache map[uuid.UUID][]float32, isHeadset bool) {
	zero(dev.channel)

	if s.transmit.Ptt() && rs.Tx {
		// Listeners do not hear their own sidetone through this stack.
		rs.releaseEffects()
		rs.click = nil
		rs.LastRxCount = 0
		return
	}

	concurrentStreams := 0
	var closestDR float32 = -1

	s.streams.Each(func(_ string, e *InboundEntry) {
		id := e.cacheID
		frame, cached := sampleCache[id]
		if !cached {
			return
		}
		if !entryMatchesFrequency(e, rs.Frequency) {
			return
		}
		dr := closestTransceiverDR(e, rs.Frequency)
		if dr > closestDR {
			closestDR = dr
		}
		concurrentStreams++

		crackleFactor := crackleFactorFor(dr)
		voiceGain := float32(1 - crackleVoiceK*crackleFactor)
		mix(dev.channel, frame, voiceGain*rs.Gain)
	})

	if concurrentStreams > 0 {
		if rs.LastRxCount == 0 {
			s.events.RxOpen(rs.Frequency)
		}
		if !rs.BypassEffects {
			rs.vhfFilter.TransformFrame(dev.channel)

			crackleFactor := crackleFactorFor(closestDR)
			if rs.crackle == nil {
				rs.crackle = s.effects.NewLoopedSource(AssetCrackle)
			}
			if rs.crackle != nil {
				if rs.crackle.PullFrame(dev.fetch) == StatusOK {
					mix(dev.channel, dev.fetch, float32(crackleGainK*crackleFactor)*rs.Gain)
				} else {
					rs.crackle = nil
				}
			}

			if rs.pinkNoise == nil {
				rs.pinkNoise = NewPinkNoiseSource(int64(rs.Frequency))
			}
			if rs.pinkNoise.PullFrame(dev.fetch) == StatusOK {
				mix(dev.channel, dev.fetch, PinkNoiseGain*rs.Gain)
			} else {
				rs.pinkNoise = nil
			}
		}

		if concurrentStreams > 1 {
			if rs.blockTone == nil {
				rs.blockTone = NewSineSource(BlockToneFreq)
			}
			if rs.blockTone.PullFrame(dev.fetch) == StatusOK {
				mix(dev.channel, dev.fetch, BlockToneGain*rs.Gain)
			}
		} else {
			rs.blockTone = nil
		}
	} else {
		rs.crackle = nil
		rs.pinkNoise = nil
		rs.blockTone = nil

		if rs.LastRxCount > 0 {
			rs.click = s.effects.NewOneShotSource(AssetClick)
			s.events.RxClosed(rs.Frequency)
		}
	}
	rs.LastRxCount = concurrentStreams

	if rs.click != nil {
		if rs.click.PullFrame(dev.fetch) == StatusOK {
			mix(dev.channel, dev.fetch, ClickGain*rs.Gain)
		}
		if rs.click.Finished() {
			rs.click = nil
		}
	}

	mix(dev.mixing, dev.channel, 1)
}

func entryMatchesFrequency(e *InboundEntry, freq uint32) bool {
	for _, tc := range e.Transceivers {
		if tc.Frequency == freq {
			return true
		}
	}
	return false
}

func closestTransceiverDR(e *InboundEntry, freq uint32) float32 {
	var best float32 = -1
	for _, tc := range e.Transceivers {
		if tc.Frequency == freq && tc.DistanceRatio > best {
			best = tc.DistanceRatio
		}
	}
	return best
}

// crackleFactorFor implements the crackle curve (§4.3 step C.3), clamped
// to [0, 0.20]. These constants are wire-visible and must not drift.
func crackleFactorFor(dr float32) float32 {
	if dr < 0 {
		dr = 0
	}
	d := float64(dr)
	v := (math.Exp(d)*math.Pow(d, -4) / crackleDivisor) - crackleBias
	if v < crackleClampMin {
		v = crackleClampMin
	}
	if v > crackleClampMax {
		v = crackleClampMax
	}
	return float32(v)
}
