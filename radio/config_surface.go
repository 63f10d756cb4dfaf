// radio/config_surface.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

// The methods below expose the PTT/RT/ATIS/bypass-effects slice of the
// configuration surface (§6) that config.Config persists and a host
// toggles at runtime.

func (s *RadioStack) SetPtt(v bool) {
	wasPressed := s.transmit.Ptt()
	s.transmit.SetPtt(v)
	if v && !wasPressed {
		s.events.PttOpen()
	} else if !v && wasPressed {
		s.events.PttClosed()
	}
}

func (s *RadioStack) Ptt() bool { return s.transmit.Ptt() }

func (s *RadioStack) SetWantRT(v bool) { s.transmit.SetWantRT(v) }

func (s *RadioStack) SetRecordAtis(v bool) { s.atis.SetRecordAtis(v) }
func (s *RadioStack) RecordingAtis() bool  { return s.atis.Recording() }

func (s *RadioStack) StartAtisPlayback(atisCallsign string) { s.atis.StartPlayback(atisCallsign) }

// StopAtisPlayback halts ATIS playback and erases every ATIS station
// from the radio map, mirroring stopAtisPlayback's frequency cleanup.
func (s *RadioStack) StopAtisPlayback() {
	s.atis.StopPlayback()
	scope := s.newScope()
	s.lockRadioState(scope)
	defer s.unlockRadioState(scope)
	s.radios.RemoveAtisStations()
}

func (s *RadioStack) PlayingAtis() bool         { return s.atis.Playing() }
func (s *RadioStack) StoredAtisFrameCount() int { return s.atis.Len() }

func (s *RadioStack) SetBypassEffects(freq uint32, v bool) {
	scope := s.newScope()
	s.lockRadioState(scope)
	defer s.unlockRadioState(scope)
	if rs := s.radios.Get(freq); rs != nil {
		rs.BypassEffects = v
	}
}

func (s *RadioStack) SetPreprocessor(p VoicePreprocessor) {
	s.preprocessor = p
}

func (s *RadioStack) ClientPosition() ClientPosition { return s.clientPos }
func (s *RadioStack) SetClientPosition(pos ClientPosition) { s.clientPos = pos }

// VUMeter exposes the rolling mean/max to a host UI.
func (s *RadioStack) VUMeterMean() float64 { return s.meter.Mean() }
func (s *RadioStack) VUMeterMax() float64  { return s.meter.Max() }
