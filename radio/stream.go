// radio/stream.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

import (
	"time"

	"github.com/google/uuid"
)

// InboundEntry is the inbound-stream table's value: a callsign's voice
// source and the most recent transceiver set accompanying its packets
// (C6, §3).
type InboundEntry struct {
	Source       *RemoteVoiceSource
	Transceivers []Transceiver

	// cacheID is a stable per-entry sample-cache key, assigned once when
	// the entry is created (§9 "per-callsign voice source keyed by
	// pointer/ID") so the mixer never re-derives identity from a Go
	// pointer that the garbage collector is free to relocate conceptually
	// across a stream's lifetime.
	cacheID uuid.UUID
}

// StreamTable is the map callsign → voice source + latest transceiver
// metadata, with periodic eviction (C6). Callers are responsible for
// holding the stream-map lock around every method.
type StreamTable struct {
	entries map[string]*InboundEntry
	newDec  func() *RemoteVoiceSource
}

// NewStreamTable returns an empty table; newDecoder constructs a fresh
// per-callsign RemoteVoiceSource on first packet arrival.
func NewStreamTable(newDecoder func() *RemoteVoiceSource) *StreamTable {
	return &StreamTable{entries: make(map[string]*InboundEntry), newDec: newDecoder}
}

// RxVoicePacket is step 2 of §4.2: appends the packet payload to the
// per-callsign voice source, creating one on first arrival, and
// overwrites the stored transceivers. The caller (RadioStack) has
// already decided, per step 1, that this packet matches a receive-
// enabled radio and should be accepted.
func (t *StreamTable) RxVoicePacket(callsign string, audio []byte, transceivers []Transceiver) {
	e, ok := t.entries[callsign]
	if !ok {
		e = &InboundEntry{Source: t.newDec(), cacheID: uuid.New()}
		t.entries[callsign] = e
	}
	e.Source.Append(audio)
	e.Transceivers = transceivers
}

// Get returns the entry for callsign, or nil if absent.
func (t *StreamTable) Get(callsign string) *InboundEntry {
	return t.entries[callsign]
}

// Each calls fn(callsign, entry) for every entry. fn must not mutate
// the table.
func (t *StreamTable) Each(fn func(string, *InboundEntry)) {
	for cs, e := range t.entries {
		fn(cs, e)
	}
}

// Maintain evicts any entry whose voice source has been inactive for
// more than timeout, relative to now (C10, §4.2).
func (t *StreamTable) Maintain(now time.Time, timeout time.Duration) {
	for cs, e := range t.entries {
		if now.Sub(e.Source.LastActivityTime()) > timeout {
			delete(t.entries, cs)
		}
	}
}

// Reset clears the table, per the teardown contract (§5).
func (t *StreamTable) Reset() {
	t.entries = make(map[string]*InboundEntry)
}
