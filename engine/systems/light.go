package systems

import (
	"fmt"

	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
)

/** @brief The configuration for the light system. */
type LightSystemConfig struct {
	/** @brief The maximum number of lights alive at the same time. */
	MaxLightCount uint16
}

/**
 * @brief Owns the lights of the scene. Each light is identified by a
 * generation checked handle, so a handle kept after Destroy never resolves
 * to a light created later in the same slot.
 */
type LightSystem struct {
	maxLightCount int
	lights        *core.HandleArena[*metadata.Light]
	// live handles in creation order
	order []core.Handle
}

func NewLightSystem(config LightSystemConfig) (*LightSystem, error) {
	if config.MaxLightCount == 0 {
		return nil, fmt.Errorf("func NewLightSystem - config.MaxLightCount must be > 0: %w", core.ErrInvalidConfig)
	}
	return &LightSystem{
		maxLightCount: int(config.MaxLightCount),
		lights:        core.NewHandleArena[*metadata.Light](int(config.MaxLightCount)),
	}, nil
}

func (ls *LightSystem) Create(config metadata.LightConfig) (*metadata.Light, error) {
	if ls.lights.Len() >= ls.maxLightCount {
		return nil, fmt.Errorf("light system is full (%d lights): %w", ls.maxLightCount, core.ErrInvalidConfig)
	}
	h := ls.lights.Acquire(nil)
	light := metadata.NewLight(h, config)
	if err := ls.lights.Set(h, light); err != nil {
		return nil, err
	}
	ls.order = append(ls.order, h)
	core.LogDebug("light %s created (%s, casts shadow: %t)", h, light.Type(), light.CastsShadow())
	return light, nil
}

func (ls *LightSystem) Get(h core.Handle) (*metadata.Light, error) {
	return ls.lights.Get(h)
}

func (ls *LightSystem) Destroy(h core.Handle) error {
	light, err := ls.lights.Get(h)
	if err != nil {
		return err
	}
	light.SetShadowMapIndex(metadata.NoShadowMapIndex)
	if err := ls.lights.Release(h); err != nil {
		return err
	}
	for i, o := range ls.order {
		if o == h {
			ls.order = append(ls.order[:i], ls.order[i+1:]...)
			break
		}
	}
	return nil
}

// Lights returns the live lights in creation order.
func (ls *LightSystem) Lights() []*metadata.Light {
	lights := make([]*metadata.Light, 0, len(ls.order))
	for _, h := range ls.order {
		if l, err := ls.lights.Get(h); err == nil {
			lights = append(lights, l)
		}
	}
	return lights
}

func (ls *LightSystem) Len() int {
	return ls.lights.Len()
}

func (ls *LightSystem) Shutdown() error {
	for _, h := range append([]core.Handle(nil), ls.order...) {
		if err := ls.Destroy(h); err != nil {
			return err
		}
	}
	return nil
}
