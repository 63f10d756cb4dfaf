// radio/mixer_test.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

import (
	"math"
	"testing"
)

func TestRouteToDeviceNoRT(t *testing.T) {
	tests := []struct {
		name      string
		onHeadset bool
		isHeadset bool
		want      bool
	}{
		{"headset radio to headset device", true, true, true},
		{"headset radio to speaker device", true, false, false},
		{"speaker radio to speaker device", false, false, true},
		{"speaker radio to headset device", false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := &RadioState{OnHeadset: tt.onHeadset}
			got := routeToDevice(rs, tt.isHeadset, false)
			if got != tt.want {
				t.Errorf("routeToDevice(onHeadset=%v, isHeadset=%v, rt=false) = %v, want %v",
					tt.onHeadset, tt.isHeadset, got, tt.want)
			}
		})
	}
}

// Routing rule R under relay-transmit (§4.3): a headset-assigned radio
// is positively overridden onto the speaker device and negatively
// overridden off the headset device when rt is latched true.
func TestRouteToDeviceWithRT(t *testing.T) {
	rs := &RadioState{OnHeadset: true}

	if !routeToDevice(rs, false, true) {
		t.Error("expected positive RT override to route a headset radio onto the speaker device")
	}
	if routeToDevice(rs, true, true) {
		t.Error("expected negative RT override to remove a headset radio from the headset device")
	}
}

func TestCrackleFactorFarthestIsMaxed(t *testing.T) {
	got := crackleFactorFor(0)
	if got != crackleClampMax {
		t.Errorf("crackleFactorFor(0) = %v, want max %v (farthest transmission should saturate crackle)", got, crackleClampMax)
	}
}

func TestCrackleFactorClampedNonNegative(t *testing.T) {
	got := crackleFactorFor(-5)
	if got < 0 || math.IsNaN(float64(got)) {
		t.Errorf("crackleFactorFor(-5) = %v, want clamped non-negative value", got)
	}
}

func TestCrackleFactorWithinBounds(t *testing.T) {
	for _, dr := range []float32{0, 0.1, 0.5, 1, 2, 10} {
		got := crackleFactorFor(dr)
		if got < crackleClampMin || got > crackleClampMax {
			t.Errorf("crackleFactorFor(%v) = %v, out of bounds [%v, %v]", dr, got, crackleClampMin, crackleClampMax)
		}
	}
}

func TestMixAccumulates(t *testing.T) {
	dst := []float32{0, 0, 0}
	src := []float32{1, 2, 3}
	mix(dst, src, 0.5)
	mix(dst, src, 0.5)

	want := []float32{1, 2, 3}
	for i := range dst {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}
