// radio/constants.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package radio implements the ATC radio mixing stack: per-frequency
// radio state, the inbound voice stream table, the dual-output mixer,
// the PTT-gated transmit path with ATIS record/playback, and the
// periodic maintenance sweep of stale streams.
package radio

import "time"

const (
	// FrameSizeSamples is the fixed PCM frame length the voice protocol
	// and every SampleSource/SampleSink in this package use.
	FrameSizeSamples = 960 // 20ms at 48kHz

	// SampleRateHz is fixed by the voice protocol.
	SampleRateHz = 48000

	// MaintenanceInterval is how often the maintenance scheduler (C10)
	// sweeps the inbound-stream table for stale entries.
	MaintenanceInterval = 30 * time.Second

	// CompressedSourceCacheTimeout is how long an inbound stream entry
	// may go without activity before the maintenance sweep evicts it.
	CompressedSourceCacheTimeout = 30 * time.Second

	// ClickGain, PinkNoiseGain and BlockToneGain scale their respective
	// effect's contribution to a radio's channel buffer; BlockToneFreq is
	// the collision-tone frequency. These are wire-visible in the sense
	// that they determine the perceived radio effect and must not drift.
	ClickGain     = 1.3
	PinkNoiseGain = 0.01
	BlockToneGain = 0.25
	BlockToneFreq = 180.0 // Hz

	crackleClampMin = 0.0
	crackleClampMax = 0.20
	crackleBias     = 0.00776652
	crackleDivisor  = 350.0
	crackleVoiceK   = 3.7
	crackleGainK    = 2.0
)
