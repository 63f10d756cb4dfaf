// radio/effects_test.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

import "testing"

func TestEffectRegistryRegisterAndRetrieve(t *testing.T) {
	r, err := NewEffectRegistry(4)
	if err != nil {
		t.Fatalf("NewEffectRegistry: %v", err)
	}
	r.Register(AssetClick, []float32{1, 2, 3})

	got, ok := r.Asset(AssetClick)
	if !ok {
		t.Fatal("expected registered asset to be found")
	}
	if len(got) != 3 {
		t.Errorf("expected 3 samples, got %d", len(got))
	}
}

func TestEffectRegistryMissingAsset(t *testing.T) {
	r, err := NewEffectRegistry(4)
	if err != nil {
		t.Fatalf("NewEffectRegistry: %v", err)
	}
	if _, ok := r.Asset(AssetCrackle); ok {
		t.Error("expected an unregistered asset to be absent")
	}
	if r.NewLoopedSource(AssetCrackle) != nil {
		t.Error("expected NewLoopedSource to return nil for an unregistered asset")
	}
	if r.NewOneShotSource(AssetClick) != nil {
		t.Error("expected NewOneShotSource to return nil for an unregistered asset")
	}
}

func TestEffectRegistryLRUEviction(t *testing.T) {
	r, err := NewEffectRegistry(2)
	if err != nil {
		t.Fatalf("NewEffectRegistry: %v", err)
	}
	r.Register("a", []float32{1})
	r.Register("b", []float32{2})
	r.Register("c", []float32{3}) // evicts "a", the least recently used

	if _, ok := r.Asset("a"); ok {
		t.Error("expected the least recently used asset to be evicted once capacity is exceeded")
	}
	if _, ok := r.Asset("b"); !ok {
		t.Error("expected \"b\" to survive eviction")
	}
	if _, ok := r.Asset("c"); !ok {
		t.Error("expected \"c\" to survive eviction")
	}
}

func TestEffectRegistryBuildsIndependentSourceInstances(t *testing.T) {
	r, err := NewEffectRegistry(4)
	if err != nil {
		t.Fatalf("NewEffectRegistry: %v", err)
	}
	r.Register(AssetClick, []float32{9, 9})

	a := r.NewOneShotSource(AssetClick)
	b := r.NewOneShotSource(AssetClick)

	out := make([]float32, 2)
	a.PullFrame(out)
	if !a.Finished() {
		t.Fatal("expected the first instance to finish after one pull")
	}
	if b.Finished() {
		t.Error("expected a freshly built instance to be independent of a previously drained one")
	}
}
