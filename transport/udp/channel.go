// transport/udp/channel.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package udp implements the encrypted UDP voice transport (§6):
// msgpack-encoded, flate-compressed, nacl/secretbox-sealed datagrams
// carrying the AudioRxOnTransceivers / AudioTxOnTransceivers DTOs.
package udp

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/atcvoice/radiostack/log"
	"github.com/atcvoice/radiostack/proto"

	"github.com/klauspost/compress/flate"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/crypto/nacl/secretbox"
)

const maxDatagramSize = 8192

// Channel implements radio.UDPChannel over a real net.UDPConn. The
// session key is established out of band (§6 "key exchange is out of
// scope") and supplied to Dial.
type Channel struct {
	lg   *log.Logger
	conn *net.UDPConn
	key  [32]byte

	mu       sync.RWMutex
	handlers map[string]func(proto.AudioRxOnTransceivers)

	closed bool
}

// Dial opens a UDP socket to addr and returns a Channel keyed with key.
func Dial(addr string, key [32]byte, lg *log.Logger) (*Channel, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport/udp: resolve %q: %w", addr, err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("transport/udp: dial %q: %w", addr, err)
	}

	c := &Channel{
		lg:       lg,
		conn:     conn,
		key:      key,
		handlers: make(map[string]func(proto.AudioRxOnTransceivers)),
	}
	go c.readLoop()
	return c, nil
}

// RegisterHandler installs fn under name. Datagrams carry no type tag:
// every inbound datagram is decoded as AudioRxOnTransceivers and passed
// to the handler registered as "AR"; handlers under other names are
// stored but never called. The radio stack only ever registers "AR" (§6).
func (c *Channel) RegisterHandler(name string, fn func(proto.AudioRxOnTransceivers)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[name] = fn
}

func (c *Channel) UnregisterHandler(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handlers, name)
}

func (c *Channel) IsOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed
}

// SendDTO frames dto as an untagged payload: msgpack, deflate, seal.
func (c *Channel) SendDTO(dto proto.AudioTxOnTransceivers) error {
	body, err := msgpack.Marshal(&dto)
	if err != nil {
		return fmt.Errorf("transport/udp: marshal: %w", err)
	}
	compressed, err := deflate(body)
	if err != nil {
		return fmt.Errorf("transport/udp: compress: %w", err)
	}

	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("transport/udp: nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], compressed, &nonce, &c.key)

	if len(sealed) > maxDatagramSize {
		return fmt.Errorf("transport/udp: payload %d bytes exceeds datagram limit", len(sealed))
	}
	_, err = c.conn.Write(sealed)
	return err
}

func (c *Channel) readLoop() {
	buf := make([]byte, maxDatagramSize)
	for {
		n, err := c.conn.Read(buf)
		if err != nil {
			c.mu.Lock()
			c.closed = true
			c.mu.Unlock()
			c.lg.Warn("udp channel closed", "error", err)
			return
		}
		c.handleDatagram(buf[:n])
	}
}

func (c *Channel) handleDatagram(sealed []byte) {
	if len(sealed) < 24 {
		c.lg.Warn("udp: short datagram dropped", "len", len(sealed))
		return
	}
	var nonce [24]byte
	copy(nonce[:], sealed[:24])
	compressed, ok := secretbox.Open(nil, sealed[24:], &nonce, &c.key)
	if !ok {
		c.lg.Warn("udp: datagram failed authentication, dropped")
		return
	}
	body, err := inflate(compressed)
	if err != nil {
		c.lg.Warn("udp: decompress failed, dropped", "error", err)
		return
	}

	var dto proto.AudioRxOnTransceivers
	if err := msgpack.Unmarshal(body, &dto); err != nil {
		c.lg.Warn("udp: unmarshal failed, dropped", "error", err)
		return
	}

	c.mu.RLock()
	fn := c.handlers["AR"]
	c.mu.RUnlock()
	if fn != nil {
		fn(dto)
	}
}

func deflate(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestSpeed)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(body); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func inflate(compressed []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	return io.ReadAll(r)
}

// Close stops the read loop and releases the socket.
func (c *Channel) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return c.conn.Close()
}
