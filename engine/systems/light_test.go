package systems

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
)

func TestNewLightSystem(t *testing.T) {
	if _, err := NewLightSystem(LightSystemConfig{}); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("zero capacity: %v", err)
	}
}

func TestLightSystemLifecycle(t *testing.T) {
	ls, err := NewLightSystem(LightSystemConfig{MaxLightCount: 2})
	if err != nil {
		t.Fatal(err)
	}
	a := createLight(t, ls, caster(512))
	b := createLight(t, ls, metadata.LightConfig{Type: metadata.LightTypeOmni})
	if _, err := ls.Create(metadata.LightConfig{}); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("full system: %v", err)
	}

	got, err := ls.Get(a.Handle())
	if err != nil || got != a {
		t.Fatalf("Get() = %v, %v", got, err)
	}

	a.SetShadowMapIndex(3)
	if err := ls.Destroy(a.Handle()); err != nil {
		t.Fatal(err)
	}
	if a.ShadowMapIndex() != metadata.NoShadowMapIndex {
		t.Error("a destroyed light keeps its shadow map index")
	}
	if _, err := ls.Get(a.Handle()); !errors.Is(err, core.ErrStaleHandle) {
		t.Errorf("stale Get: %v", err)
	}
	if err := ls.Destroy(a.Handle()); !errors.Is(err, core.ErrStaleHandle) {
		t.Errorf("double Destroy: %v", err)
	}

	c := createLight(t, ls, caster(256))
	if c.Handle() == a.Handle() {
		t.Error("a reused slot must not reissue the old handle")
	}
	lights := ls.Lights()
	if len(lights) != 2 || lights[0] != b || lights[1] != c {
		t.Errorf("Lights() = %v, want creation order", lights)
	}

	if err := ls.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if ls.Len() != 0 || len(ls.Lights()) != 0 {
		t.Error("lights survive Shutdown")
	}
}

func TestShadowPassCache(t *testing.T) {
	cache := newShadowPassCache(4)
	h1 := core.Handle{Index: 0, Generation: 1}
	h2 := core.Handle{Index: 1, Generation: 1}
	cache.put(h2, nil)
	cache.put(h1, nil)
	cache.put(h2, nil)
	if cache.len() != 2 || !cache.contains(h1) || cache.contains(core.Handle{Index: 0, Generation: 2}) {
		t.Errorf("cache %v", cache.handles())
	}
	assertHandles(t, cache.handles(), []core.Handle{h2, h1})
}
