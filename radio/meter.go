// radio/meter.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

import "math"

// VUMeter is a bounded-window running max and mean over sample-frame
// peak dB, fed once per audio frame-period by the transmit path.
type VUMeter struct {
	window []float64
	pos    int
	filled bool
}

// NewVUMeter returns a meter with a window of the given number of frames.
func NewVUMeter(frames int) *VUMeter {
	if frames <= 0 {
		frames = 50
	}
	return &VUMeter{window: make([]float64, frames)}
}

// FramePeakDb computes the peak of pcm in dBFS, clamped to [-40, 0], per
// §4.4 step 2.
func FramePeakDb(pcm []float32) float64 {
	var peak float32
	for _, s := range pcm {
		if a := float32(math.Abs(float64(s))); a > peak {
			peak = a
		}
	}
	if peak <= 0 {
		return -40
	}
	db := 20 * math.Log10(float64(peak))
	return clamp(db, -40, 0)
}

// Update feeds one frame's peak dB into the rolling window.
func (m *VUMeter) Update(peakDb float64) {
	m.window[m.pos] = peakDb
	m.pos = (m.pos + 1) % len(m.window)
	if m.pos == 0 {
		m.filled = true
	}
}

func (m *VUMeter) activeWindow() []float64 {
	if m.filled {
		return m.window
	}
	return m.window[:m.pos]
}

// Mean returns the running mean over the populated window; -40 if empty.
func (m *VUMeter) Mean() float64 {
	w := m.activeWindow()
	if len(w) == 0 {
		return -40
	}
	var sum float64
	for _, v := range w {
		sum += v
	}
	return sum / float64(len(w))
}

// Max returns the running max over the populated window; -40 if empty.
func (m *VUMeter) Max() float64 {
	w := m.activeWindow()
	if len(w) == 0 {
		return -40
	}
	max := w[0]
	for _, v := range w[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
