// radio/hardware.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

import "math"

// HardwareType selects the VHF filter's impulse response. No_Hardware is
// the identity (bypass) filter.
type HardwareType int

const (
	SchmidED137B HardwareType = iota
	RockwellCollins2100
	Garex220
	NoHardware
)

func (h HardwareType) String() string {
	switch h {
	case SchmidED137B:
		return "Schmid_ED_137B"
	case RockwellCollins2100:
		return "Rockwell_Collins_2100"
	case Garex220:
		return "Garex_220"
	case NoHardware:
		return "No_Hardware"
	default:
		return "Unknown"
	}
}

// bandpassParams is the center frequency and Q of the two-pole band-pass
// cascade that approximates a given hardware model's VHF receiver
// response. No_Hardware carries no params; VHFFilter short-circuits it.
type bandpassParams struct {
	centerHz float64
	q        float64
}

var hardwareParams = map[HardwareType]bandpassParams{
	SchmidED137B:        {centerHz: 1900, q: 0.7},
	RockwellCollins2100: {centerHz: 1700, q: 0.9},
	Garex220:            {centerHz: 2100, q: 0.6},
}

// biquad is a direct-form-II transposed second-order section.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
	z1, z2     float64
}

func newBandpassBiquad(p bandpassParams) biquad {
	w0 := 2 * math.Pi * p.centerHz / SampleRateHz
	alpha := math.Sin(w0) / (2 * p.q)
	cosw0 := math.Cos(w0)

	b0 := alpha
	b1 := 0.0
	b2 := -alpha
	a0 := 1 + alpha
	a1 := -2 * cosw0
	a2 := 1 - alpha

	return biquad{
		b0: b0 / a0,
		b1: b1 / a0,
		b2: b2 / a0,
		a1: a1 / a0,
		a2: a2 / a0,
	}
}

func (bq *biquad) step(x float64) float64 {
	y := bq.b0*x + bq.z1
	bq.z1 = bq.b1*x - bq.a1*y + bq.z2
	bq.z2 = bq.b2*x - bq.a2*y
	return y
}

// VHFFilter band-limits a channel buffer in place to emulate a specific
// radio hardware model's audio response. No_Hardware is an identity
// filter: transforming a frame through it leaves it unmodified.
type VHFFilter struct {
	hw     HardwareType
	stage1 biquad
	stage2 biquad
}

func NewVHFFilter(hw HardwareType) *VHFFilter {
	f := &VHFFilter{hw: hw}
	if p, ok := hardwareParams[hw]; ok {
		f.stage1 = newBandpassBiquad(p)
		f.stage2 = newBandpassBiquad(p)
	}
	return f
}

// TransformFrame filters pcm in place. No_Hardware and any unrecognized
// model leave the frame untouched.
func (f *VHFFilter) TransformFrame(pcm []float32) {
	if f.hw == NoHardware {
		return
	}
	if _, ok := hardwareParams[f.hw]; !ok {
		return
	}
	for i, s := range pcm {
		y := f.stage1.step(float64(s))
		y = f.stage2.step(y)
		pcm[i] = float32(y)
	}
}

func (f *VHFFilter) Reset() {
	f.stage1.z1, f.stage1.z2 = 0, 0
	f.stage2.z1, f.stage2.z2 = 0, 0
}
