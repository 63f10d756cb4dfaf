// radio/state.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

import "strings"

// atisSubstring flags a station as an ATIS frequency by name (§4.1).
const atisSubstring = "_ATIS"

// Transceiver is a geolocated radio hardware element assigned an ID
// during DTO assembly (§4.6).
type Transceiver struct {
	ID            uint16
	Frequency     uint32
	LatDeg        float64
	LonDeg        float64
	DistanceRatio float32
}

// RadioState is the per-frequency configuration, effect instances,
// transceiver list and receive counters (C5, §3).
type RadioState struct {
	Frequency     uint32
	StationName   string
	Rx, Tx, Xc    bool
	IsATIS        bool
	OnHeadset     bool
	BypassEffects bool
	Gain          float32

	Transceivers        []Transceiver
	LastTransmitCallsign string

	HardwareType HardwareType

	// Lazily-constructed effect instances (§9 "lazy effect instances").
	click     *OneShotClipSource
	crackle   *LoopedClipSource
	pinkNoise *PinkNoiseSource
	blockTone *SineSource
	vhfFilter *VHFFilter

	// LastRxCount is the number of concurrent voice streams mixed into
	// this radio on the previous frame; 0 means the per-frequency
	// receive state machine (§4.7) is Idle.
	LastRxCount int
}

// IsActive reports whether the radio would remain in the map per the
// auto-erase rule (§3): a radio is active iff rx, tx, xc or is_atis holds.
func (r *RadioState) IsActive() bool {
	return r.Rx || r.Tx || r.Xc || r.IsATIS
}

func (r *RadioState) releaseEffects() {
	r.crackle = nil
	r.pinkNoise = nil
	r.blockTone = nil
}

// RadioMap is the keyed mapping frequency → radio state (C5, §4.1).
// Callers are responsible for holding the radio-state lock around every
// method; RadioMap itself performs no synchronization.
type RadioMap struct {
	radios   map[uint32]*RadioState
	registry *EffectRegistry
}

func NewRadioMap(registry *EffectRegistry) *RadioMap {
	return &RadioMap{radios: make(map[uint32]*RadioState), registry: registry}
}

// AddFrequency initializes a radio's flags (rx=true, tx=false, xc=false
// by default), constructs its VHF filter for the given hardware model,
// and marks it as an ATIS station when the name contains "_ATIS".
func (m *RadioMap) AddFrequency(freq uint32, onHeadset bool, name string, hw HardwareType) *RadioState {
	rs := &RadioState{
		Frequency:    freq,
		StationName:  name,
		Rx:           true,
		Tx:           false,
		Xc:           false,
		OnHeadset:    onHeadset,
		Gain:         1.0,
		HardwareType: hw,
		vhfFilter:    NewVHFFilter(hw),
	}
	if strings.Contains(name, atisSubstring) {
		rs.IsATIS = true
		rs.Rx = false
		rs.Tx = false
	}
	m.radios[freq] = rs
	return rs
}

func (m *RadioMap) RemoveFrequency(freq uint32) {
	delete(m.radios, freq)
}

// RemoveAtisStations erases every ATIS station from the map, the
// stop_atis_playback cleanup that keeps a stopped ATIS off active
// frequencies.
func (m *RadioMap) RemoveAtisStations() {
	for freq, rs := range m.radios {
		if rs.IsATIS {
			delete(m.radios, freq)
		}
	}
}

// Get returns the radio state for freq, or nil if it is not active.
func (m *RadioMap) Get(freq uint32) *RadioState {
	return m.radios[freq]
}

// IsFrequencyActive reports whether freq is present in the map.
func (m *RadioMap) IsFrequencyActive(freq uint32) bool {
	_, ok := m.radios[freq]
	return ok
}

// autoErase removes freq from the map if it is no longer active,
// per §3's auto-erase rule.
func (m *RadioMap) autoErase(freq uint32) {
	if rs, ok := m.radios[freq]; ok && !rs.IsActive() {
		delete(m.radios, freq)
	}
}

func (m *RadioMap) SetRx(freq uint32, v bool) {
	if rs, ok := m.radios[freq]; ok {
		rs.Rx = v
		m.autoErase(freq)
	}
}

func (m *RadioMap) SetTx(freq uint32, v bool) {
	if rs, ok := m.radios[freq]; ok {
		rs.Tx = v
		m.autoErase(freq)
	}
}

func (m *RadioMap) SetXc(freq uint32, v bool) {
	if rs, ok := m.radios[freq]; ok {
		rs.Xc = v
		m.autoErase(freq)
	}
}

func (m *RadioMap) SetOnHeadset(freq uint32, v bool) {
	if rs, ok := m.radios[freq]; ok {
		rs.OnHeadset = v
	}
}

func (m *RadioMap) SetGain(freq uint32, gain float32) {
	if rs, ok := m.radios[freq]; ok {
		rs.Gain = gain
	}
}

func (m *RadioMap) SetGainAll(gain float32) {
	for _, rs := range m.radios {
		rs.Gain = gain
	}
}

// Each calls fn for every active radio. fn must not mutate the map.
func (m *RadioMap) Each(fn func(*RadioState)) {
	for _, rs := range m.radios {
		fn(rs)
	}
}

// Reset clears the map, per the teardown contract (§5).
func (m *RadioMap) Reset() {
	m.radios = make(map[uint32]*RadioState)
}
