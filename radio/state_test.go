// radio/state_test.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

import "testing"

func newTestRadioMap(t *testing.T) *RadioMap {
	t.Helper()
	reg, err := NewEffectRegistry(8)
	if err != nil {
		t.Fatalf("NewEffectRegistry: %v", err)
	}
	return NewRadioMap(reg)
}

func TestAddFrequencyDefaults(t *testing.T) {
	m := newTestRadioMap(t)
	rs := m.AddFrequency(118300000, true, "Tower", NoHardware)

	if !rs.Rx || rs.Tx || rs.Xc {
		t.Errorf("expected rx=true tx=false xc=false, got rx=%v tx=%v xc=%v", rs.Rx, rs.Tx, rs.Xc)
	}
	if rs.Gain != 1.0 {
		t.Errorf("expected default gain 1.0, got %v", rs.Gain)
	}
	if !m.IsFrequencyActive(118300000) {
		t.Error("expected frequency to be active after AddFrequency")
	}
}

func TestAddFrequencyATISDetection(t *testing.T) {
	m := newTestRadioMap(t)
	rs := m.AddFrequency(128000000, false, "KJFK_ATIS", NoHardware)

	if !rs.IsATIS {
		t.Error("expected station name containing _ATIS to set IsATIS")
	}
	if rs.Rx || rs.Tx {
		t.Error("expected ATIS stations to start with rx=false tx=false")
	}
}

func TestAutoEraseOnAllFlagsCleared(t *testing.T) {
	m := newTestRadioMap(t)
	m.AddFrequency(121500000, false, "Guard", NoHardware)
	m.SetTx(121500000, true)

	m.SetRx(121500000, false)
	if !m.IsFrequencyActive(121500000) {
		t.Fatal("expected radio to remain active while tx is still set")
	}

	m.SetTx(121500000, false)
	if m.IsFrequencyActive(121500000) {
		t.Error("expected radio to be auto-erased once rx, tx, xc and is_atis are all false")
	}
}

func TestSetGainAll(t *testing.T) {
	m := newTestRadioMap(t)
	m.AddFrequency(118300000, true, "Tower", NoHardware)
	m.AddFrequency(121500000, false, "Guard", NoHardware)

	m.SetGainAll(0.5)

	count := 0
	m.Each(func(rs *RadioState) {
		count++
		if rs.Gain != 0.5 {
			t.Errorf("expected gain 0.5 on %d, got %v", rs.Frequency, rs.Gain)
		}
	})
	if count != 2 {
		t.Errorf("expected 2 radios, got %d", count)
	}
}

func TestIsActive(t *testing.T) {
	rs := &RadioState{}
	if rs.IsActive() {
		t.Error("zero-value radio state should not be active")
	}
	rs.Xc = true
	if !rs.IsActive() {
		t.Error("expected xc=true to make radio active")
	}
}
