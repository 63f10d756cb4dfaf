// radio/dto_stack.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

import "github.com/brunoga/deep"

// AssembleTransceiverDTO is the locked entry point for §4.6, called by
// the voice session before it posts the list over HTTP. The returned
// slice is deep-copied before the radio-state lock is released so the
// HTTP session and event layer can hold and mutate it without racing the
// mixer's next pass over the same radio-state transceivers.
func (s *RadioStack) AssembleTransceiverDTO() []Transceiver {
	scope := s.newScope()
	s.lockRadioState(scope)
	live := s.radios.AssembleTransceiverDTO(s.clientPos)
	s.unlockRadioState(scope)

	cp, err := deep.Copy(live)
	if err != nil {
		s.lg.Error("deep-copy of transceiver list failed; returning the live slice", "error", err)
		return live
	}
	return cp
}

// MakeCrossCoupleGroupDTO is the locked entry point for §4.5.
func (s *RadioStack) MakeCrossCoupleGroupDTO() CrossCoupleGroupDTO {
	scope := s.newScope()
	s.lockRadioState(scope)
	defer s.unlockRadioState(scope)
	return s.radios.MakeCrossCoupleGroupDTO()
}
