// radio/dto_test.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

import "testing"

func TestAssembleTransceiverDTOSynthesizesMissingTransceivers(t *testing.T) {
	m := newTestRadioMap(t)
	m.AddFrequency(118300000, true, "Tower", NoHardware)

	out := m.AssembleTransceiverDTO(ClientPosition{LatDeg: 40.6, LonDeg: -73.7})

	if len(out) != 1 {
		t.Fatalf("expected one synthesized transceiver, got %d", len(out))
	}
	if out[0].Frequency != 118300000 || out[0].LatDeg != 40.6 || out[0].LonDeg != -73.7 {
		t.Errorf("unexpected synthesized transceiver: %+v", out[0])
	}
}

func TestAssembleTransceiverDTOAssignsSequentialIDsAndStampsBack(t *testing.T) {
	m := newTestRadioMap(t)
	m.AddFrequency(118300000, true, "Tower", NoHardware)
	m.AddFrequency(121500000, false, "Guard", NoHardware)

	out := m.AssembleTransceiverDTO(ClientPosition{})

	if len(out) != 2 {
		t.Fatalf("expected 2 transceivers, got %d", len(out))
	}
	seen := map[uint16]bool{}
	for _, tc := range out {
		seen[tc.ID] = true
	}
	if !seen[0] || !seen[1] {
		t.Errorf("expected sequential IDs 0 and 1 across the whole emission, got %v", out)
	}

	rs := m.Get(118300000)
	if len(rs.Transceivers) != 1 {
		t.Fatal("expected the synthesized transceiver to be stamped back onto the radio state")
	}
}

func TestMakeCrossCoupleGroupDTOAlwaysEmitsGroupZero(t *testing.T) {
	m := newTestRadioMap(t)
	// no radios at all — the group must still be present, just empty.
	dto := m.MakeCrossCoupleGroupDTO()

	if dto.GroupID != 0 {
		t.Errorf("expected GroupID 0, got %d", dto.GroupID)
	}
	if dto.TransceiverIDs == nil {
		t.Error("expected an empty-but-non-nil TransceiverIDs slice, not a collapsed nil")
	}
	if len(dto.TransceiverIDs) != 0 {
		t.Errorf("expected 0 transceiver IDs with no radios, got %d", len(dto.TransceiverIDs))
	}
}

func TestMakeCrossCoupleGroupDTOIncludesOnlyXcAndTx(t *testing.T) {
	m := newTestRadioMap(t)
	m.AddFrequency(118300000, true, "Tower", NoHardware)
	m.AddFrequency(121500000, false, "Guard", NoHardware)
	m.Get(118300000).Transceivers = []Transceiver{{ID: 5}}
	m.Get(121500000).Transceivers = []Transceiver{{ID: 9}}

	m.SetXc(118300000, true)
	m.SetTx(118300000, true)
	m.SetXc(121500000, true) // tx still false: must not be included

	dto := m.MakeCrossCoupleGroupDTO()

	if len(dto.TransceiverIDs) != 1 || dto.TransceiverIDs[0] != 5 {
		t.Errorf("expected only the xc&&tx radio's transceiver IDs, got %v", dto.TransceiverIDs)
	}
}
