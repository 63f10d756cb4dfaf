// rand/rand.go
// Copyright(c) 2022-2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package rand provides a small, fast PRNG used on the real-time audio
// path (pink-noise generation) where the
// allocation and locking overhead of math/rand is unwelcome.
package rand

import (
	"github.com/MichaelTJones/pcg"
)

// Rand wraps a PCG32 generator. The zero value is not usable; construct
// with New. Each radio effect that needs noise owns its own Rand so that
// concurrent mixer passes never share generator state.
type Rand struct {
	r *pcg.PCG32
}

func New() Rand {
	return Rand{r: pcg.NewPCG32()}
}

func (r *Rand) Seed(s int64) {
	r.r.Seed(uint64(s), 0xda3e39cb94b95bdb)
}

func (r *Rand) Intn(n int) int {
	return int(r.r.Bounded(uint32(n)))
}

// Float32 returns a uniform value in [0, 1).
func (r *Rand) Float32() float32 {
	return float32(r.r.Random()>>8) / (1 << 24)
}

// Signed returns a uniform value in [-1, 1), the natural range for a
// white-noise PCM sample.
func (r *Rand) Signed() float32 {
	return 2*r.Float32() - 1
}

func (r *Rand) Uint32() uint32 {
	return r.r.Random()
}
