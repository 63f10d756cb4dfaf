// radio/stack.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

import (
	"errors"
	"sync/atomic"

	"github.com/atcvoice/radiostack/codec"
	"github.com/atcvoice/radiostack/log"
	"github.com/atcvoice/radiostack/metrics"
	"github.com/atcvoice/radiostack/proto"
	"github.com/atcvoice/radiostack/util"
)

var errNoDecoder = errors.New("radio: no decoder available for this stream")

// UDPChannel is the narrow external collaborator contract for the
// encrypted UDP transport (§6). The stack registers only the "AR"
// handler.
type UDPChannel interface {
	RegisterHandler(name string, fn func(proto.AudioRxOnTransceivers))
	UnregisterHandler(name string)
	SendDTO(dto proto.AudioTxOnTransceivers) error
	IsOpen() bool
}

// VoicePreprocessor optionally conditions a microphone frame before it
// reaches the compressor (the "enable input filters" configuration
// toggle).
type VoicePreprocessor interface {
	Process(pcm []float32) []float32
}

// RadioStack owns the per-frequency radio state, the inbound voice
// stream table, the two output-device mixing pipelines, the PTT-gated
// transmit path, and the periodic maintenance of stale inbound streams.
// It is the core the rest of the repository (HTTP session, UDP crypto
// framing, platform audio I/O) treats as a thin collaborator surface.
type RadioStack struct {
	lg *log.Logger

	radioStateLock *util.LoggingMutex
	streamMapLock  *util.LoggingMutex
	lockChecker    *util.LockOrderChecker

	radios  *RadioMap
	streams *StreamTable
	effects *EffectRegistry

	transmit *TransmitState
	atis     *AtisRecorder
	meter    *VUMeter

	codecFactory *codec.Factory
	compressor   codec.Compressor
	preprocessor VoicePreprocessor

	udp    UDPChannel
	events EventSink

	metrics *metrics.Metrics

	headsetDevice *OutputDeviceState
	speakerDevice *OutputDeviceState

	incomingAudioStreams atomic.Int64

	clientPos ClientPosition

	// tickHandle, if set, is invoked once per put_audio_frame call before
	// any other work, exposed for deterministic test clocks (§4.4 step 1).
	tickHandle func()
}

// Config bundles the construction-time collaborators a RadioStack needs.
type Config struct {
	Logger      *log.Logger
	Codec        *codec.Factory
	UDP          UDPChannel
	Events       EventSink
	EffectCache  int // capacity for the effect registry's LRU
	Callsign     string
	AtisCallsign string
	ClientPos    ClientPosition
	Metrics      *metrics.Metrics // optional; nil disables instrumentation
}

func New(cfg Config) (*RadioStack, error) {
	if cfg.Events == nil {
		cfg.Events = NopEventSink{}
	}
	registry, err := NewEffectRegistry(cfg.EffectCache)
	if err != nil {
		return nil, err
	}
	var compressor codec.Compressor
	if cfg.Codec != nil {
		compressor, err = cfg.Codec.NewCompressor()
		if err != nil {
			return nil, err
		}
	}

	s := &RadioStack{
		lg:             cfg.Logger,
		radioStateLock: util.NewLoggingMutex("radio-state"),
		streamMapLock:  util.NewLoggingMutex("stream-map"),
		lockChecker:    util.NewLockOrderChecker(),
		effects:        registry,
		codecFactory:   cfg.Codec,
		compressor:     compressor,
		udp:            cfg.UDP,
		events:         cfg.Events,
		meter:          NewVUMeter(50),
		atis:           NewAtisRecorder(cfg.AtisCallsign),
		clientPos:      cfg.ClientPos,
		headsetDevice:  newOutputDeviceState(),
		speakerDevice:  newOutputDeviceState(),
		metrics:        cfg.Metrics,
	}
	s.radios = NewRadioMap(registry)
	s.streams = NewStreamTable(s.newRemoteVoiceSource)
	s.transmit = NewTransmitState(cfg.Callsign)

	if s.metrics != nil {
		s.radioStateLock.SetWaitHook(s.metrics.ObserveMutexWait)
		s.streamMapLock.SetWaitHook(s.metrics.ObserveMutexWait)
	}

	if s.udp != nil {
		s.udp.RegisterHandler("AR", s.handleInboundDatagram)
	}
	return s, nil
}

// newRemoteVoiceSource gives each inbound stream its own decoder
// instance (a gopus.Decoder is not safe for concurrent use and carries
// per-stream continuity state); the stack's own compressor field is
// reserved for the transmit path's encoder.
func (s *RadioStack) newRemoteVoiceSource() *RemoteVoiceSource {
	if s.codecFactory == nil {
		return NewRemoteVoiceSource(noopDecompressor{})
	}
	dec, err := s.codecFactory.NewDecompressor()
	if err != nil {
		s.lg.Error("failed to build decoder for inbound stream", "error", err)
		dec = noopDecompressor{}
	}
	return NewRemoteVoiceSource(dec)
}

// noopDecompressor is used when no codec factory is configured, or when
// it fails to build a decoder for a new inbound stream; it always reports
// a transient fault
// so the stream is skipped for mixing rather than crashing the mixer.
type noopDecompressor struct{}

func (noopDecompressor) Decompress([]byte, []float32) (int, error) {
	return 0, errNoDecoder
}
func (noopDecompressor) Reset() {}

func (s *RadioStack) lockRadioState(scope *util.LockOrderScope) {
	scope.Acquire(s.radioStateLock.Name())
	s.radioStateLock.Lock(s.lg)
}

func (s *RadioStack) unlockRadioState(scope *util.LockOrderScope) {
	s.radioStateLock.Unlock(s.lg)
	scope.Release(s.radioStateLock.Name())
}

func (s *RadioStack) lockStreamMap(scope *util.LockOrderScope) {
	scope.Acquire(s.streamMapLock.Name())
	s.streamMapLock.Lock(s.lg)
}

func (s *RadioStack) unlockStreamMap(scope *util.LockOrderScope) {
	s.streamMapLock.Unlock(s.lg)
	scope.Release(s.streamMapLock.Name())
}

// newScope returns a fresh lock-order scope for one call into the
// stack. Scopes are cheap and call-local; the checker's edge set (not
// the scope) is what accumulates ordering knowledge across calls and
// across goroutines.
func (s *RadioStack) newScope() *util.LockOrderScope {
	return s.lockChecker.NewScope()
}

// SetTickHandle installs a hook invoked once per PutAudioFrame call,
// before any other work, for deterministic test clocks.
func (s *RadioStack) SetTickHandle(fn func()) {
	s.tickHandle = fn
}

// SetCompressor overrides the transmit-path encoder, letting tests swap
// in a deterministic fake instead of depending on a real Opus encoder.
func (s *RadioStack) SetCompressor(c codec.Compressor) {
	s.compressor = c
}

// IncomingAudioStreams is the atomic count of streams mixed into any
// device bus during the most recently completed mixer pass.
func (s *RadioStack) IncomingAudioStreams() int64 {
	return s.incomingAudioStreams.Load()
}

// --- Radio state map operations (§4.1), each individually locked. ---

func (s *RadioStack) AddFrequency(freq uint32, onHeadset bool, name string, hw HardwareType) {
	scope := s.newScope()
	s.lockRadioState(scope)
	defer s.unlockRadioState(scope)
	s.radios.AddFrequency(freq, onHeadset, name, hw)
}

func (s *RadioStack) RemoveFrequency(freq uint32) {
	scope := s.newScope()
	s.lockRadioState(scope)
	defer s.unlockRadioState(scope)
	s.radios.RemoveFrequency(freq)
}

func (s *RadioStack) SetRx(freq uint32, v bool) {
	scope := s.newScope()
	s.lockRadioState(scope)
	defer s.unlockRadioState(scope)
	s.radios.SetRx(freq, v)
}

func (s *RadioStack) SetTx(freq uint32, v bool) {
	scope := s.newScope()
	s.lockRadioState(scope)
	defer s.unlockRadioState(scope)
	s.radios.SetTx(freq, v)
}

func (s *RadioStack) SetXc(freq uint32, v bool) {
	scope := s.newScope()
	s.lockRadioState(scope)
	defer s.unlockRadioState(scope)
	s.radios.SetXc(freq, v)
}

func (s *RadioStack) SetOnHeadset(freq uint32, v bool) {
	scope := s.newScope()
	s.lockRadioState(scope)
	defer s.unlockRadioState(scope)
	s.radios.SetOnHeadset(freq, v)
}

func (s *RadioStack) SetGain(freq uint32, gain float32) {
	scope := s.newScope()
	s.lockRadioState(scope)
	defer s.unlockRadioState(scope)
	s.radios.SetGain(freq, gain)
}

func (s *RadioStack) SetGainAll(gain float32) {
	scope := s.newScope()
	s.lockRadioState(scope)
	defer s.unlockRadioState(scope)
	s.radios.SetGainAll(gain)
}

func (s *RadioStack) IsFrequencyActive(freq uint32) bool {
	scope := s.newScope()
	s.lockRadioState(scope)
	defer s.unlockRadioState(scope)
	return s.radios.IsFrequencyActive(freq)
}

// LastTransmitOnFreq returns the last callsign heard on freq, or "" if
// the radio isn't active or nothing has been heard.
func (s *RadioStack) LastTransmitOnFreq(freq uint32) string {
	scope := s.newScope()
	s.lockRadioState(scope)
	defer s.unlockRadioState(scope)
	if rs := s.radios.Get(freq); rs != nil {
		return rs.LastTransmitCallsign
	}
	return ""
}

// Reset clears both maps under their respective locks, zeroes PTT, and
// resets the compressor (§5 teardown contract).
func (s *RadioStack) Reset() {
	rScope := s.newScope()
	s.lockRadioState(rScope)
	s.radios.Reset()
	s.unlockRadioState(rScope)

	sScope := s.newScope()
	s.lockStreamMap(sScope)
	s.streams.Reset()
	s.unlockStreamMap(sScope)

	s.transmit.SetPtt(false)
	if s.compressor != nil {
		s.compressor.Reset()
	}
}

// Close drops PTT and detaches the UDP handler before the caller
// releases the UDP channel itself (§5 destructor contract).
func (s *RadioStack) Close() {
	s.transmit.SetPtt(false)
	if s.udp != nil {
		s.udp.UnregisterHandler("AR")
	}
}
