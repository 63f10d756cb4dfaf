// platform/audio.go
// Copyright(c) 2022-2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package platform implements the audio device adapter (§6): headset
// and speaker playback devices and the microphone capture device, each
// a callback-driven SDL audio device pulling or pushing one
// radio.FrameSizeSamples frame at a time. It is a thin collaborator —
// the mixing, effects and transmit logic live entirely in package radio.
package platform

// typedef unsigned char uint8;
// void radioPlaybackCallback(void *userdata, uint8 *stream, int len);
// void radioCaptureCallback(void *userdata, uint8 *stream, int len);
import "C"

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/atcvoice/radiostack/log"
	"github.com/atcvoice/radiostack/radio"

	"github.com/veandco/go-sdl2/sdl"
)

// PlaybackDevice drives one output-device mixing pipeline (headset or
// speaker) from an SDL playback callback. It holds a non-owning
// reference to its SampleSource (§9 "weak back-references from
// devices") — closing the device never blocks on the mixer and a
// callback firing after Close is simply a no-op.
type PlaybackDevice struct {
	deviceID sdl.AudioDeviceID
	lg       *log.Logger
	pinner   runtime.Pinner

	mu     sync.Mutex
	source radio.SampleSource
	open   bool

	pcmBuf []float32
}

func NewPlaybackDevice(lg *log.Logger) *PlaybackDevice {
	return &PlaybackDevice{lg: lg, pcmBuf: make([]float32, radio.FrameSizeSamples)}
}

// SetSource installs the SampleSource the callback pulls from. Safe to
// call before or after Open.
func (d *PlaybackDevice) SetSource(src radio.SampleSource) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.source = src
}

// Open opens the named SDL playback device (empty string selects the
// system default) at radio.SampleRateHz, mono, float32.
func (d *PlaybackDevice) Open(deviceName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open {
		return fmt.Errorf("platform: device already open")
	}

	d.pinner.Pin(d)
	user := unsafe.Pointer(d)

	spec := sdl.AudioSpec{
		Freq:     radio.SampleRateHz,
		Format:   sdl.AUDIO_F32SYS,
		Channels: 1,
		Samples:  uint16(radio.FrameSizeSamples),
		Callback: sdl.AudioCallback(C.radioPlaybackCallback),
		UserData: user,
	}
	deviceID, err := sdl.OpenAudioDevice(deviceName, false, &spec, nil, 0)
	if err != nil {
		d.pinner.Unpin()
		return fmt.Errorf("platform: open playback device: %w", err)
	}

	d.deviceID = deviceID
	d.open = true
	sdl.PauseAudioDevice(deviceID, false)
	d.lg.Info("opened playback device", "device", deviceName)
	return nil
}

// Close stops and releases the SDL device. The stack's lifetime is
// never extended by a pending callback: once closed, SDL guarantees no
// further callback invocations.
func (d *PlaybackDevice) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return
	}
	sdl.PauseAudioDevice(d.deviceID, true)
	sdl.CloseAudioDevice(d.deviceID)
	d.open = false
	d.pinner.Unpin()
}

func (d *PlaybackDevice) pull(out []byte) {
	d.mu.Lock()
	src := d.source
	d.mu.Unlock()

	n := len(out) / 4
	if src == nil {
		zeroBytes(out)
		return
	}
	if n != len(d.pcmBuf) {
		d.pcmBuf = make([]float32, n)
	}
	if src.PullFrame(d.pcmBuf) != radio.StatusOK {
		zeroBytes(out)
		return
	}
	floatsToBytes(d.pcmBuf, out)
}

// CaptureDevice drives the microphone capture path: it pushes each
// captured frame into a SampleSink (normally radio.StackSampleSink).
type CaptureDevice struct {
	deviceID sdl.AudioDeviceID
	lg       *log.Logger
	pinner   runtime.Pinner

	mu     sync.Mutex
	sink   radio.SampleSink
	open   bool
	pcmBuf []float32
}

func NewCaptureDevice(lg *log.Logger) *CaptureDevice {
	return &CaptureDevice{lg: lg, pcmBuf: make([]float32, radio.FrameSizeSamples)}
}

func (d *CaptureDevice) SetSink(sink radio.SampleSink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sink = sink
}

func (d *CaptureDevice) Open(deviceName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open {
		return fmt.Errorf("platform: device already open")
	}

	d.pinner.Pin(d)
	user := unsafe.Pointer(d)

	spec := sdl.AudioSpec{
		Freq:     radio.SampleRateHz,
		Format:   sdl.AUDIO_F32SYS,
		Channels: 1,
		Samples:  uint16(radio.FrameSizeSamples),
		Callback: sdl.AudioCallback(C.radioCaptureCallback),
		UserData: user,
	}
	deviceID, err := sdl.OpenAudioDevice(deviceName, true, &spec, nil, 0)
	if err != nil {
		d.pinner.Unpin()
		return fmt.Errorf("platform: open capture device: %w", err)
	}

	d.deviceID = deviceID
	d.open = true
	sdl.PauseAudioDevice(deviceID, false)
	d.lg.Info("opened capture device", "device", deviceName)
	return nil
}

func (d *CaptureDevice) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return
	}
	sdl.PauseAudioDevice(d.deviceID, true)
	sdl.CloseAudioDevice(d.deviceID)
	d.open = false
	d.pinner.Unpin()
}

func (d *CaptureDevice) push(in []byte) {
	d.mu.Lock()
	sink := d.sink
	d.mu.Unlock()
	if sink == nil {
		return
	}

	n := len(in) / 4
	if n != len(d.pcmBuf) {
		d.pcmBuf = make([]float32, n)
	}
	bytesToFloats(in, d.pcmBuf)
	sink.PushFrame(d.pcmBuf)
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func floatsToBytes(src []float32, dst []byte) {
	for i, v := range src {
		bits := *(*uint32)(unsafe.Pointer(&v))
		dst[4*i] = byte(bits)
		dst[4*i+1] = byte(bits >> 8)
		dst[4*i+2] = byte(bits >> 16)
		dst[4*i+3] = byte(bits >> 24)
	}
}

func bytesToFloats(src []byte, dst []float32) {
	for i := range dst {
		bits := uint32(src[4*i]) | uint32(src[4*i+1])<<8 | uint32(src[4*i+2])<<16 | uint32(src[4*i+3])<<24
		dst[i] = *(*float32)(unsafe.Pointer(&bits))
	}
}

//export radioPlaybackCallback
func radioPlaybackCallback(user unsafe.Pointer, ptr *C.uint8, size C.int) {
	out := unsafe.Slice((*byte)(unsafe.Pointer(ptr)), int(size))
	d := (*PlaybackDevice)(user)
	d.pull(out)
}

//export radioCaptureCallback
func radioCaptureCallback(user unsafe.Pointer, ptr *C.uint8, size C.int) {
	in := unsafe.Slice((*byte)(unsafe.Pointer(ptr)), int(size))
	d := (*CaptureDevice)(user)
	d.push(in)
}

// GetAudioOutputDevices returns the names of available SDL playback
// devices (headset/speaker selection in the configuration surface, §6).
func GetAudioOutputDevices() []string {
	count := sdl.GetNumAudioDevices(false)
	devices := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if name := sdl.GetAudioDeviceName(i, false); name != "" {
			devices = append(devices, name)
		}
	}
	return devices
}

// GetAudioInputDevices returns the names of available SDL capture
// devices.
func GetAudioInputDevices() []string {
	count := sdl.GetNumAudioDevices(true)
	devices := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if name := sdl.GetAudioDeviceName(i, true); name != "" {
			devices = append(devices, name)
		}
	}
	return devices
}
