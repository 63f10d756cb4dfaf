// radio/dto.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

// CrossCoupleGroupDTO is always emitted as a single group (id 0), even
// when empty — the caller must not collapse an empty group to an empty
// list (§9).
type CrossCoupleGroupDTO struct {
	GroupID        int
	TransceiverIDs []uint16
}

// MakeCrossCoupleGroupDTO returns the single group containing the
// transceiver IDs of every radio whose Xc and Tx both hold (§4.5).
func (m *RadioMap) MakeCrossCoupleGroupDTO() CrossCoupleGroupDTO {
	dto := CrossCoupleGroupDTO{GroupID: 0, TransceiverIDs: []uint16{}}
	m.Each(func(rs *RadioState) {
		if rs.Xc && rs.Tx {
			for _, tc := range rs.Transceivers {
				dto.TransceiverIDs = append(dto.TransceiverIDs, tc.ID)
			}
		}
	})
	return dto
}

// ClientPosition is the station position used to synthesize a
// transceiver when a radio has none stored (§4.6).
type ClientPosition struct {
	LatDeg float64
	LonDeg float64
}

// AssembleTransceiverDTO builds the flat transceiver list posted over
// HTTP by the voice session (§4.6): for each radio lacking stored
// transceivers, synthesizes one at the client's position on the radio's
// frequency, then assigns a globally unique sequential ID across the
// whole emission and stamps the assigned IDs back onto the radio state
// so subsequent cross-couple assembly can reference them.
func (m *RadioMap) AssembleTransceiverDTO(pos ClientPosition) []Transceiver {
	var out []Transceiver
	var nextID uint16
	m.Each(func(rs *RadioState) {
		if len(rs.Transceivers) == 0 {
			rs.Transceivers = []Transceiver{{
				Frequency: rs.Frequency,
				LatDeg:    pos.LatDeg,
				LonDeg:    pos.LonDeg,
			}}
		}
		for i := range rs.Transceivers {
			rs.Transceivers[i].ID = nextID
			nextID++
			out = append(out, rs.Transceivers[i])
		}
	})
	return out
}
