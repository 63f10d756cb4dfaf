// radio/transmit.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

import (
	"sync/atomic"

	"github.com/atcvoice/radiostack/proto"
	"github.com/atcvoice/radiostack/util"
)

// TransmitState is the transmit-side singleton (§3): PTT, the relay-
// transmit override, the monotone transmit sequence, and the stack's
// own callsign. The ATIS callsign lives on AtisRecorder instead, since
// it changes per StartAtisPlayback call rather than once at construction.
type TransmitState struct {
	ptt          util.AtomicBool
	lastFramePtt bool // audio-input thread only

	// wantRt is the latched configuration toggle; rt is the per-frame
	// effective value routing rule R (§4.3) reads. Latching them
	// separately means a client can flip RT mid-transmission without
	// affecting frames already queued for mixing (§9 point 2).
	wantRt util.AtomicBool
	rt     util.AtomicBool

	txSequence atomic.Uint32

	callsign string
}

func NewTransmitState(callsign string) *TransmitState {
	return &TransmitState{callsign: callsign}
}

func (t *TransmitState) SetPtt(v bool) { t.ptt.Store(v) }
func (t *TransmitState) Ptt() bool     { return t.ptt.Load() }

func (t *TransmitState) SetWantRT(v bool) { t.wantRt.Store(v) }

// RT returns the latched, per-frame effective value routing rule R reads.
func (t *TransmitState) RT() bool { return t.rt.Load() }

// LatchRT copies the configured want_rt into the per-frame effective rt.
// Call once per mixer frame, before evaluating routing rule R.
func (t *TransmitState) LatchRT() { t.rt.Store(t.wantRt.Load()) }

func (t *TransmitState) fetchAddSequence() uint32 {
	return t.txSequence.Add(1) - 1
}

// TxSequence reports the next sequence value that would be assigned,
// for diagnostics/tests only.
func (t *TransmitState) TxSequence() uint32 { return t.txSequence.Load() }

// PutAudioFrame is called once per frame-period by the audio input
// device (§4.4).
func (s *RadioStack) PutAudioFrame(pcm []float32) {
	if s.tickHandle != nil {
		s.tickHandle()
	}

	peakDb := FramePeakDb(pcm)
	s.meter.Update(peakDb)

	if s.atis.Playing() {
		s.sendCachedAtisFrame()
	}

	pttReleased := !s.transmit.Ptt()
	if pttReleased && !s.transmit.lastFramePtt && !s.atis.Recording() {
		if !s.atis.Playing() {
			s.transmit.fetchAddSequence()
		}
		return
	}

	if s.preprocessor != nil {
		filtered := s.preprocessor.Process(pcm)
		s.compressFrame(filtered)
		return
	}
	s.compressFrame(pcm)
}

func (s *RadioStack) compressFrame(pcm []float32) {
	frame, err := s.compressor.Compress(pcm)
	if err != nil {
		s.lg.Warn("compress failed", "error", err)
		return
	}
	if frame == nil {
		// DTX suppressed a silent frame; nothing to send this period.
		return
	}
	s.ProcessCompressedFrame(frame)
}

// ProcessCompressedFrame is the completion callback from the compressor
// (§4.4).
func (s *RadioStack) ProcessCompressedFrame(frame []byte) {
	if s.atis.Recording() {
		s.atis.Append(frame)
		return
	}

	scope := s.newScope()
	s.lockRadioState(scope)
	lastPacket := !s.transmit.Ptt()
	s.transmit.lastFramePtt = !lastPacket
	dto := proto.AudioTxOnTransceivers{
		SequenceCounter: s.transmit.fetchAddSequence(),
		Callsign:        s.transmit.callsign,
		Audio:           frame,
		LastPacket:      lastPacket,
		Transceivers:    s.collectTransceiverIDs(func(rs *RadioState) bool { return rs.Tx }),
	}
	s.unlockRadioState(scope)

	s.sendDatagram(dto)
}

// sendCachedAtisFrame assembles an identical datagram but selects ATIS
// transceivers, uses the ATIS callsign, and pulls from the recorder's
// cyclic frame buffer (§4.4).
func (s *RadioStack) sendCachedAtisFrame() {
	frame := s.atis.NextFrame()
	if frame == nil {
		return
	}

	scope := s.newScope()
	s.lockRadioState(scope)
	lastPacket := !s.transmit.Ptt()
	dto := proto.AudioTxOnTransceivers{
		SequenceCounter: s.transmit.fetchAddSequence(),
		Callsign:        s.atis.Callsign(),
		Audio:           frame,
		LastPacket:      lastPacket,
		Transceivers:    s.collectTransceiverIDs(func(rs *RadioState) bool { return rs.IsATIS }),
	}
	s.unlockRadioState(scope)

	s.sendDatagram(dto)
}

// collectTransceiverIDs must be called with the radio-state lock held.
func (s *RadioStack) collectTransceiverIDs(match func(*RadioState) bool) []proto.OutboundTransceiverRef {
	var out []proto.OutboundTransceiverRef
	s.radios.Each(func(rs *RadioState) {
		if !match(rs) {
			return
		}
		for _, tc := range rs.Transceivers {
			out = append(out, proto.OutboundTransceiverRef{ID: tc.ID})
		}
	})
	return out
}

// sendDatagram drops the datagram silently if the channel is closed;
// PTT continues to count sequence so gaps are auditable (§7).
func (s *RadioStack) sendDatagram(dto proto.AudioTxOnTransceivers) {
	if s.metrics != nil {
		s.metrics.TxSequence.Inc()
	}
	if s.udp == nil || !s.udp.IsOpen() {
		return
	}
	if err := s.udp.SendDTO(dto); err != nil {
		s.lg.Debug("udp send failed", "error", err)
	}
}

// handleInboundDatagram is the UDP channel's "AR" handler.
func (s *RadioStack) handleInboundDatagram(pkt proto.AudioRxOnTransceivers) {
	s.RxVoicePacket(pkt)
}

// RxVoicePacket is §4.2's rx_voice_packet operation.
func (s *RadioStack) RxVoicePacket(pkt proto.AudioRxOnTransceivers) {
	scope := s.newScope()
	s.lockStreamMap(scope)
	defer s.unlockStreamMap(scope)

	accepted := false
	for _, tc := range pkt.Transceivers {
		// Per §5, network ingress acquires only the stream-map lock; this
		// radio-state read is intentionally lock-free (a stale rx flag
		// only ever drops or accepts one straggler packet).
		if rs := s.radios.Get(tc.Frequency); rs != nil && rs.Rx {
			rs.LastTransmitCallsign = pkt.Callsign
			accepted = true
		}
	}
	if !accepted {
		return
	}

	transceivers := make([]Transceiver, len(pkt.Transceivers))
	for i, tc := range pkt.Transceivers {
		transceivers[i] = Transceiver{Frequency: tc.Frequency, DistanceRatio: tc.DistanceRatio}
	}
	s.streams.RxVoicePacket(pkt.Callsign, pkt.Audio, transceivers)
}
