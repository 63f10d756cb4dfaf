// radio/events.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

// EventSink is the event callback surface (§6): invoked by the stack,
// consumed by the host. Implementations must not block — the mixer and
// transmit path call these inline while holding locks.
type EventSink interface {
	RxOpen(freq uint32)
	RxClosed(freq uint32)
	PttOpen()
	PttClosed()
	VoiceServerConnected()
	VoiceServerDisconnected()
	VoiceServerError(err error)
	APIServerConnected()
	APIServerDisconnected()
	APIServerError(err error)
	AudioError(err error)
	StationAliasesUpdated()
	StationTransceiversUpdated(name string)
	VccsReceived(name string, vccs map[string]uint32)
}

// NopEventSink implements EventSink with no-ops; useful as a default
// when a host hasn't wired its own listener yet.
type NopEventSink struct{}

func (NopEventSink) RxOpen(uint32)                               {}
func (NopEventSink) RxClosed(uint32)                              {}
func (NopEventSink) PttOpen()                                     {}
func (NopEventSink) PttClosed()                                   {}
func (NopEventSink) VoiceServerConnected()                        {}
func (NopEventSink) VoiceServerDisconnected()                     {}
func (NopEventSink) VoiceServerError(error)                       {}
func (NopEventSink) APIServerConnected()                          {}
func (NopEventSink) APIServerDisconnected()                       {}
func (NopEventSink) APIServerError(error)                         {}
func (NopEventSink) AudioError(error)                             {}
func (NopEventSink) StationAliasesUpdated()                       {}
func (NopEventSink) StationTransceiversUpdated(string)            {}
func (NopEventSink) VccsReceived(string, map[string]uint32)       {}
