// radio/effects.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Well-known effect asset names held by the registry and referenced by
// radio state's lazily-constructed effect instances.
const (
	AssetClick    = "click"
	AssetCrackle  = "crackle"
	AssetACBus    = "ac_bus"
	AssetVHFNoise = "vhf_noise"
	AssetHFNoise  = "hf_noise"
)

// EffectRegistry holds decoded PCM assets (click, crackle, AC-bus, VHF/HF
// noise) referenced by radio state (C2). It is backed by a bounded LRU
// so a host that registers many station-specific variants over a long
// session doesn't grow this table without limit; the handful of built-in
// assets a radio actually touches per frame stay hot.
type EffectRegistry struct {
	assets *lru.Cache[string, []float32]
}

// NewEffectRegistry returns a registry with room for capacity assets.
func NewEffectRegistry(capacity int) (*EffectRegistry, error) {
	if capacity <= 0 {
		capacity = 32
	}
	c, err := lru.New[string, []float32](capacity)
	if err != nil {
		return nil, err
	}
	return &EffectRegistry{assets: c}, nil
}

// Register stores (or replaces) a decoded PCM asset under name.
func (r *EffectRegistry) Register(name string, pcm []float32) {
	r.assets.Add(name, pcm)
}

// Asset retrieves a previously registered PCM asset.
func (r *EffectRegistry) Asset(name string) ([]float32, bool) {
	return r.assets.Get(name)
}

// NewLoopedSource builds a fresh LoopedClipSource over the named asset,
// or nil if the asset isn't registered.
func (r *EffectRegistry) NewLoopedSource(name string) *LoopedClipSource {
	data, ok := r.Asset(name)
	if !ok {
		return nil
	}
	return NewLoopedClipSource(data)
}

// NewOneShotSource builds a fresh OneShotClipSource over the named
// asset, or nil if the asset isn't registered.
func (r *EffectRegistry) NewOneShotSource(name string) *OneShotClipSource {
	data, ok := r.Asset(name)
	if !ok {
		return nil
	}
	return NewOneShotClipSource(data)
}
