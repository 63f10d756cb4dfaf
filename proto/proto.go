// proto/proto.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package proto defines the wire-format datagrams exchanged with the
// voice server over the UDP transport (§6). It has no behavior of its
// own; encoding, compression and encryption live in transport/udp.
package proto

// TransceiverRef is a transceiver as referenced on the wire: an inbound
// datagram carries a distance ratio against the sender's frequency; an
// outbound one carries only the assigned ID.
type TransceiverRef struct {
	ID            uint16  `msgpack:"id"`
	Frequency     uint32  `msgpack:"frequency"`
	DistanceRatio float32 `msgpack:"distance_ratio"`
}

// AudioRxOnTransceivers ("AR") is the inbound voice datagram.
type AudioRxOnTransceivers struct {
	Callsign     string           `msgpack:"callsign"`
	Sequence     uint32           `msgpack:"sequence"`
	LastPacket   bool             `msgpack:"last_packet"`
	Audio        []byte           `msgpack:"audio"`
	Transceivers []TransceiverRef `msgpack:"transceivers"`
}

// OutboundTransceiverRef carries only the assigned ID (§6).
type OutboundTransceiverRef struct {
	ID uint16 `msgpack:"id"`
}

// AudioTxOnTransceivers is the outbound voice datagram.
type AudioTxOnTransceivers struct {
	SequenceCounter uint32                   `msgpack:"sequence_counter"`
	Callsign        string                   `msgpack:"callsign"`
	Audio           []byte                   `msgpack:"audio"`
	LastPacket      bool                     `msgpack:"last_packet"`
	Transceivers    []OutboundTransceiverRef `msgpack:"transceivers"`
}
