// codec/opus.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package codec supplies the Compressor the transmit path (C8) and the
// ATIS recorder (C9) call against, and the Decompressor each inbound
// voice source (C4) decodes with. Authoring a codec is out of scope;
// this package only wires an existing one in.
package codec

import (
	"fmt"

	"github.com/thesyncim/gopus"

	"github.com/atcvoice/radiostack/log"
)

// SampleRate and FrameSizeSamples are fixed by the voice protocol.
const (
	SampleRate       = 48000
	FrameSizeSamples = 960 // 20ms at 48kHz
	Channels         = 1
)

// Compressor turns a FrameSizeSamples-length PCM frame into a compressed
// voice frame. put_audio_frame (§4.4) calls Compress directly when no
// pre-processor is installed. process_compressed_frame (§4.4) is the
// completion callback: Compress returning synchronously is treated as
// an immediate completion, matching the "completion callback from the
// compressor" language for implementations (like this one) that don't
// need a separate worker goroutine.
type Compressor interface {
	Compress(pcm []float32) ([]byte, error)
	Reset()
}

// Decompressor turns a received voice frame back into PCM. Each inbound
// stream owns its own Decompressor instance: an Opus decoder carries
// per-stream continuity state (packet-loss concealment history) and is
// not safe to share across callsigns.
type Decompressor interface {
	Decompress(frame []byte, pcm []float32) (int, error)
	Reset()
}

// Factory constructs fresh Compressor/Decompressor instances, all tuned
// to the same sample rate, channel count and frame size.
type Factory struct {
	lg *log.Logger
}

func NewFactory(lg *log.Logger) *Factory {
	return &Factory{lg: lg}
}

// NewCompressor builds the single Compressor the transmit path and ATIS
// recorder share.
func (f *Factory) NewCompressor() (Compressor, error) {
	enc, err := gopus.NewEncoder(SampleRate, Channels, gopus.ApplicationVoIP)
	if err != nil {
		return nil, fmt.Errorf("opus encoder: %w", err)
	}
	if err := enc.SetFrameSize(FrameSizeSamples); err != nil {
		return nil, fmt.Errorf("opus encoder frame size: %w", err)
	}
	return &opusCompressor{enc: enc, lg: f.lg}, nil
}

// NewDecompressor builds a decoder for one inbound stream.
func (f *Factory) NewDecompressor() (Decompressor, error) {
	dec, err := gopus.NewDecoder(SampleRate, Channels)
	if err != nil {
		return nil, fmt.Errorf("opus decoder: %w", err)
	}
	return &opusDecompressor{dec: dec, lg: f.lg}, nil
}

type opusCompressor struct {
	enc *gopus.Encoder
	lg  *log.Logger
	buf [4000]byte
}

// Compress encodes one FrameSizeSamples frame of mono PCM. A zero-length
// return with a nil error means DTX suppressed a silent frame; callers
// must not emit a voice datagram in that case.
func (c *opusCompressor) Compress(pcm []float32) ([]byte, error) {
	if len(pcm) != FrameSizeSamples {
		return nil, fmt.Errorf("codec: expected %d samples, got %d", FrameSizeSamples, len(pcm))
	}
	n, err := c.enc.Encode(pcm, c.buf[:])
	if err != nil {
		c.lg.Warn("opus encode failed", "error", err)
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]byte, n)
	copy(out, c.buf[:n])
	return out, nil
}

func (c *opusCompressor) Reset() { c.enc.Reset() }

type opusDecompressor struct {
	dec *gopus.Decoder
	lg  *log.Logger
}

// Decompress fills pcm (which must have length FrameSizeSamples) from a
// received voice frame and returns the number of samples written.
func (d *opusDecompressor) Decompress(frame []byte, pcm []float32) (int, error) {
	if len(pcm) != FrameSizeSamples {
		return 0, fmt.Errorf("codec: pcm buffer must be %d samples", FrameSizeSamples)
	}
	n, err := d.dec.Decode(frame, pcm)
	if err != nil {
		d.lg.Debug("opus decode failed", "error", err)
		return 0, err
	}
	return n, nil
}

func (d *opusDecompressor) Reset() { d.dec.Reset() }
