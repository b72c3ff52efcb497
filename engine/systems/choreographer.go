package systems

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/spaghettifunk/anima-choreographer/engine/math"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/passes"
)

/** @brief The configuration of the frame composition pipeline. */
type ChoreographerConfig struct {
	/** @brief Render shadow maps for shadow casting lights. */
	Shadows bool
	/** @brief Render in HDR and gamma correct at tone mapping. Also requires driver support. */
	GammaCorrection bool
	/** @brief Blur and blend the bright pass back. Requires HDR and driver support. */
	Bloom bool
	/** @brief Initial render-to-texture state. */
	RenderToTexture bool
	/** @brief Size of the blur targets relative to the frame, in (0, 1]. */
	BlurScaling float32
	/** @brief Separable blur steps per frame; rounded up to even. */
	BlurIterations int
	/** @brief Number of shadow map slots. At most metadata.MaxLights. */
	MaxShadowLights int
	/** @brief Use one discrete depth texture per slot instead of a texture array. */
	DebugShadowMaps bool
	/** @brief Tone mapping operator used at construction. */
	ToneMapping metadata.ToneMappingMethod
}

func DefaultChoreographerConfig() ChoreographerConfig {
	return ChoreographerConfig{
		Shadows:         true,
		GammaCorrection: true,
		Bloom:           true,
		BlurScaling:     0.25,
		BlurIterations:  passes.DefaultBlurIterations,
		MaxShadowLights: metadata.MaxLights,
		ToneMapping:     metadata.ToneMappingReinhard,
	}
}

// TargetID names the render targets owned by the pipeline.
type TargetID int

const (
	TargetBlit TargetID = iota
	TargetRenderToTexture
	TargetPostProcess
	TargetShadow
	TargetHDR
	TargetHDRBloom
	TargetBlurA
	TargetBlurB
)

func (t TargetID) String() string {
	switch t {
	case TargetBlit:
		return "blit"
	case TargetRenderToTexture:
		return "render_to_texture"
	case TargetPostProcess:
		return "post_process"
	case TargetShadow:
		return "shadow"
	case TargetHDR:
		return "hdr"
	case TargetHDRBloom:
		return "hdr_bloom"
	case TargetBlurA:
		return "blur_a"
	case TargetBlurB:
		return "blur_b"
	default:
		return fmt.Sprintf("target(%d)", int(t))
	}
}

/** @brief Counters of the last frame; reset on the first eye of a frame. */
type FrameStats struct {
	Frame                uint64
	Eyes                 int
	ShadowPasses         int
	ShadowCastersDropped int
	BloomPasses          int
	PostProcessed        int
	ToneMapped           int
	RenderToTextureBlits int
}

/**
 * @brief The frame composition pipeline. Decides which passes run each frame,
 * against which intermediate targets, from the capability flags fixed at
 * construction and the render-to-texture flag toggled at runtime.
 *
 * Not safe for concurrent use; every method must be called from the render
 * thread.
 */
type Choreographer struct {
	id     uuid.UUID
	driver renderer.Driver

	renderShadows   bool
	renderHDR       bool
	renderBloom     bool
	renderToTexture bool
	debugShadowMaps bool
	blurScaling     float32

	targets [TargetBlurB + 1]renderer.RenderTarget

	blitPostProcess     renderer.ImagePostProcess
	additiveBlend       renderer.ImagePostProcess
	basePass            *passes.BasePass
	gaussianBlurPass    *passes.GaussianBlurPass
	toneMappingPass     *passes.ToneMappingPass
	postProcessFactory  *PostProcessEffectFactory
	shadowPasses        *shadowPassCache
	renderToTextureDone func()

	io        renderer.PassIO
	stats     FrameStats
	destroyed bool

	// frame of the last first eye
	shadowFrame     uint64
	shadowFrameSeen bool
}

func NewChoreographer(driver renderer.Driver, config ChoreographerConfig) (*Choreographer, error) {
	if config.MaxShadowLights == 0 {
		config.MaxShadowLights = metadata.MaxLights
	}
	if config.MaxShadowLights > metadata.MaxLights {
		return nil, fmt.Errorf("%d shadow lights requested, at most %d supported: %w", config.MaxShadowLights, metadata.MaxLights, core.ErrTooManyLights)
	}
	if config.MaxShadowLights < 0 {
		return nil, fmt.Errorf("max shadow lights must be positive, got %d: %w", config.MaxShadowLights, core.ErrInvalidConfig)
	}
	if config.BlurScaling <= 0 {
		config.BlurScaling = 0.25
	}

	// HDR is tied to gamma correction: the tone mapping pass also applies gamma
	renderHDR := config.GammaCorrection && driver.IsGammaCorrectionEnabled()
	c := &Choreographer{
		id:                 uuid.New(),
		driver:             driver,
		renderShadows:      config.Shadows,
		renderHDR:          renderHDR,
		renderBloom:        renderHDR && config.Bloom && driver.IsBloomEnabled(),
		renderToTexture:    config.RenderToTexture,
		debugShadowMaps:    config.DebugShadowMaps,
		blurScaling:        math.Clamp(config.BlurScaling, 0.01, 1),
		basePass:           passes.NewBasePass(),
		postProcessFactory: NewPostProcessEffectFactory(),
		shadowPasses:       newShadowPassCache(config.MaxShadowLights),
	}
	if err := c.initTargets(driver, config); err != nil {
		c.Destroy()
		return nil, err
	}
	if err := c.initHDR(driver, config); err != nil {
		c.Destroy()
		return nil, err
	}
	if vp := driver.Display().Viewport(); !vp.IsEmpty() {
		if err := c.SetViewport(vp); err != nil {
			c.Destroy()
			return nil, err
		}
	}

	core.LogInfo("choreographer %s ready (shadows: %t, hdr: %t, bloom: %t, render to texture: %t)",
		c.id, c.renderShadows, c.renderHDR, c.renderBloom, c.renderToTexture)
	return c, nil
}

func (c *Choreographer) initTargets(driver renderer.Driver, config ChoreographerConfig) error {
	blit, err := driver.NewImagePostProcess(passes.BlitShader())
	if err != nil {
		return fmt.Errorf("blit program: %w", err)
	}
	c.blitPostProcess = blit

	if err := c.newTarget(driver, TargetBlit, metadata.RenderTargetColor, 1, 1); err != nil {
		return err
	}
	if err := c.newTarget(driver, TargetRenderToTexture, metadata.RenderTargetColor, 1, 1); err != nil {
		return err
	}
	if err := c.newTarget(driver, TargetPostProcess, metadata.RenderTargetColor, 1, 1); err != nil {
		return err
	}
	if c.renderShadows && config.MaxShadowLights > 0 {
		kind := metadata.RenderTargetDepthArray
		if c.debugShadowMaps {
			kind = metadata.RenderTargetDepth
		}
		if err := c.newTarget(driver, TargetShadow, kind, 1, config.MaxShadowLights); err != nil {
			return err
		}
	} else {
		c.renderShadows = false
	}
	return nil
}

func (c *Choreographer) initHDR(driver renderer.Driver, config ChoreographerConfig) error {
	if !c.renderHDR {
		return nil
	}
	if err := c.newTarget(driver, TargetHDR, metadata.RenderTargetColorHDR16, 1, 1); err != nil {
		return err
	}
	tm, err := passes.NewToneMappingPass(config.ToneMapping, driver)
	if err != nil {
		return err
	}
	c.toneMappingPass = tm

	if !c.renderBloom {
		return nil
	}
	// colour plus bright pass
	if err := c.newTarget(driver, TargetHDRBloom, metadata.RenderTargetColorHDR16, 2, 1); err != nil {
		return err
	}
	if err := c.newTarget(driver, TargetBlurA, metadata.RenderTargetColorHDR16, 1, 1); err != nil {
		return err
	}
	if err := c.newTarget(driver, TargetBlurB, metadata.RenderTargetColorHDR16, 1, 1); err != nil {
		return err
	}
	blur, err := passes.NewGaussianBlurPass(config.BlurIterations, driver)
	if err != nil {
		return err
	}
	c.gaussianBlurPass = blur
	blend, err := driver.NewImagePostProcess(passes.AdditiveBlendShader())
	if err != nil {
		return fmt.Errorf("additive blend program: %w", err)
	}
	c.additiveBlend = blend
	return nil
}

func (c *Choreographer) newTarget(driver renderer.Driver, id TargetID, kind metadata.RenderTargetKind, attachments, layers int) error {
	t, err := driver.NewRenderTarget(kind, attachments, layers)
	if err != nil {
		return fmt.Errorf("%s target: %w", id, err)
	}
	c.targets[id] = t
	return nil
}

// ID identifies this pipeline in logs.
func (c *Choreographer) ID() uuid.UUID {
	return c.id
}

/**
 * @brief Renders one eye of a frame. Shadow maps are view independent and
 * only rendered for an eye with FirstInFrame set; the base pass and post
 * processing run for every eye. A zero value Eye is not a first eye, so use
 * metadata.MonocularEye or metadata.StereoEyes to build them.
 */
func (c *Choreographer) Render(eye metadata.Eye, scene renderer.Scene, md renderer.RenderMetadata, context *metadata.RenderContext, driver renderer.Driver) error {
	if c.destroyed {
		return fmt.Errorf("render on destroyed choreographer %s: %w", c.id, core.ErrTargetDestroyed)
	}
	if eye.FirstInFrame {
		c.stats = FrameStats{Frame: context.Frame}
	}
	c.stats.Eyes++
	context.Eye = eye.Type

	if c.renderShadows {
		if eye.FirstInFrame {
			c.shadowFrame, c.shadowFrameSeen = context.Frame, true
			if err := c.renderShadowPasses(scene, context, driver); err != nil {
				return err
			}
		} else if !c.shadowFrameSeen || c.shadowFrame != context.Frame {
			core.LogDebug("choreographer %s: no first eye rendered for frame %d, skipping shadow maps", c.id, context.Frame)
		}
	}
	return c.renderBasePass(scene, md, context, driver)
}

func (c *Choreographer) renderShadowPasses(scene renderer.Scene, context *metadata.RenderContext, driver renderer.Driver) error {
	lights := scene.Lights()
	shadowTarget := c.targets[TargetShadow]

	// every light starts without a slot; the largest requested size sizes the
	// whole target
	maxSize := 0
	for _, light := range lights {
		light.SetShadowMapIndex(metadata.NoShadowMapIndex)
		if light.CastsShadow() {
			maxSize = max(maxSize, light.ShadowMapSize())
		}
	}
	if maxSize <= 0 {
		context.ShadowMap = nil
		c.shadowPasses = newShadowPassCache(shadowTarget.LayerCount())
		return nil
	}
	shadowTarget.SetViewport(metadata.NewViewport(0, 0, int32(maxSize), int32(maxSize)))

	active := newShadowPassCache(shadowTarget.LayerCount())
	capacity := shadowTarget.LayerCount()
	slot, dropped := 0, 0
	for _, light := range lights {
		if !light.CastsShadow() {
			continue
		}
		h := light.Handle()
		if active.contains(h) {
			continue
		}
		if slot >= capacity {
			light.SetShadowMapIndex(metadata.NoShadowMapIndex)
			dropped++
			continue
		}

		pass, ok := c.shadowPasses.get(h)
		if !ok {
			pass = passes.NewShadowMapPass(light)
		}
		active.put(h, pass)

		if !c.debugShadowMaps {
			if err := shadowTarget.SetTextureImageIndex(slot, 0); err != nil {
				return fmt.Errorf("shadow map slot %d: %w", slot, err)
			}
		}
		light.SetShadowMapIndex(slot)
		pass.SetSlot(slot)

		c.io.Reset()
		c.io.Set(metadata.SlotSingleOutput, shadowTarget)
		if err := pass.Render(scene, &c.io, context, driver); err != nil {
			return err
		}
		driver.UnbindShader()
		slot++
	}

	if dropped > 0 {
		core.LogWarn("choreographer %s: %d shadow casting light(s) exceed the %d shadow map slots and render without shadows", c.id, dropped, capacity)
	}
	if slot > 0 {
		context.ShadowMap = shadowTarget.Texture(0)
	} else {
		context.ShadowMap = nil
	}
	c.shadowPasses = active
	c.stats.ShadowPasses += slot
	c.stats.ShadowCastersDropped += dropped
	return nil
}

func (c *Choreographer) renderBasePass(scene renderer.Scene, md renderer.RenderMetadata, context *metadata.RenderContext, driver renderer.Driver) error {
	io := &c.io
	io.Reset()
	display := driver.Display()

	if !c.renderHDR {
		context.BloomEnabled = false
		if c.renderToTexture {
			blit := c.targets[TargetBlit]
			io.Set(metadata.SlotSingleOutput, blit)
			if err := c.basePass.Render(scene, io, context, driver); err != nil {
				return err
			}
			blit.DiscardTransientBuffers()
			return c.renderToTextureAndDisplay(blit, driver)
		}
		// straight to the display
		io.Set(metadata.SlotSingleOutput, display)
		return c.basePass.Render(scene, io, context, driver)
	}

	var toneMapInput renderer.RenderTarget
	if c.renderBloom && md != nil && md.RequiresBloomPass() {
		hdr := c.targets[TargetHDRBloom]
		postProcess := c.targets[TargetPostProcess]
		context.BloomEnabled = true

		io.Set(metadata.SlotSingleOutput, hdr)
		if err := c.basePass.Render(scene, io, context, driver); err != nil {
			return err
		}
		hdr.DiscardTransientBuffers()

		// the blurred bright pass ends up in blur B
		io.Set(metadata.SlotGaussianInput, hdr)
		io.Set(metadata.SlotGaussianPingPongA, c.targets[TargetBlurA])
		io.Set(metadata.SlotGaussianPingPongB, c.targets[TargetBlurB])
		if err := c.gaussianBlurPass.Render(scene, io, context, driver); err != nil {
			return err
		}
		c.stats.BloomPasses++

		bloom := []*metadata.Texture{c.targets[TargetBlurB].Texture(0)}
		if err := c.additiveBlend.Blit(hdr, 0, postProcess, bloom, driver); err != nil {
			return fmt.Errorf("additive blend: %w", err)
		}
		postProcess.DiscardTransientBuffers()

		processed, err := c.postProcessFactory.Handle(postProcess, hdr, driver)
		if err != nil {
			return err
		}
		if processed {
			c.stats.PostProcessed++
			hdr.DiscardTransientBuffers()
			toneMapInput = hdr
		} else {
			toneMapInput = postProcess
		}
	} else {
		hdr := c.targets[TargetHDR]
		postProcess := c.targets[TargetPostProcess]
		context.BloomEnabled = false

		io.Set(metadata.SlotSingleOutput, hdr)
		if err := c.basePass.Render(scene, io, context, driver); err != nil {
			return err
		}
		hdr.DiscardTransientBuffers()

		processed, err := c.postProcessFactory.Handle(hdr, postProcess, driver)
		if err != nil {
			return err
		}
		if processed {
			c.stats.PostProcessed++
			postProcess.DiscardTransientBuffers()
			toneMapInput = postProcess
		} else {
			toneMapInput = hdr
		}
	}

	io.Set(metadata.SlotToneMappingHDRInput, toneMapInput)
	if c.renderToTexture {
		blit := c.targets[TargetBlit]
		io.Set(metadata.SlotToneMappingOutput, blit)
		if err := c.toneMappingPass.Render(scene, io, context, driver); err != nil {
			return err
		}
		c.stats.ToneMapped++
		blit.DiscardTransientBuffers()
		return c.renderToTextureAndDisplay(blit, driver)
	}
	io.Set(metadata.SlotToneMappingOutput, display)
	if err := c.toneMappingPass.Render(scene, io, context, driver); err != nil {
		return err
	}
	c.stats.ToneMapped++
	return nil
}

// renderToTextureAndDisplay flips the finished image into the render-to-texture
// target and copies it, unflipped, to the display. The display is
// multisampled, so the copy goes through the blit program.
func (c *Choreographer) renderToTextureAndDisplay(input renderer.RenderTarget, driver renderer.Driver) error {
	if err := input.BlitColor(c.targets[TargetRenderToTexture], true); err != nil {
		return fmt.Errorf("render to texture: %w", err)
	}
	if err := c.blitPostProcess.Blit(input, 0, driver.Display(), nil, driver); err != nil {
		return fmt.Errorf("render to texture display copy: %w", err)
	}
	c.stats.RenderToTextureBlits++
	if c.renderToTextureDone != nil {
		c.renderToTextureDone()
	}
	return nil
}

/**
 * @brief Resizes the pipeline. The display gets the full viewport, which may
 * be translated (one half of a stereo display); the owned targets get the
 * untranslated size since the final copy to the display does the translation.
 */
func (c *Choreographer) SetViewport(viewport metadata.Viewport) error {
	if viewport.IsEmpty() {
		return fmt.Errorf("viewport %s: %w", viewport, core.ErrInvalidViewport)
	}
	c.driver.Display().SetViewport(viewport)

	rt := viewport.Untranslated()
	for _, id := range []TargetID{TargetBlit, TargetPostProcess, TargetRenderToTexture, TargetHDR, TargetHDRBloom} {
		if t := c.targets[id]; t != nil {
			t.SetViewport(rt)
		}
	}

	blur := rt.Scaled(c.blurScaling)
	blur.Width, blur.Height = max(blur.Width, 1), max(blur.Height, 1)
	for _, id := range []TargetID{TargetBlurA, TargetBlurB} {
		if t := c.targets[id]; t != nil {
			t.SetViewport(blur)
		}
	}
	core.LogDebug("choreographer %s viewport %s (blur %s)", c.id, viewport, blur)
	return nil
}

func (c *Choreographer) SetRenderToTextureEnabled(enabled bool) {
	c.renderToTexture = enabled
}

func (c *Choreographer) IsRenderToTextureEnabled() bool {
	return c.renderToTexture
}

// SetRenderToTextureCallback sets the function invoked after each eye rendered
// to texture, so twice per stereo frame. A nil callback disables the
// notification.
func (c *Choreographer) SetRenderToTextureCallback(callback func()) {
	c.renderToTextureDone = callback
}

// SetRenderTexture makes texture the destination of render-to-texture frames.
func (c *Choreographer) SetRenderTexture(texture *metadata.Texture) error {
	if c.destroyed {
		return fmt.Errorf("render texture on destroyed choreographer %s: %w", c.id, core.ErrTargetDestroyed)
	}
	return c.targets[TargetRenderToTexture].AttachTexture(texture, 0)
}

// ToneMapping returns the tone mapping pass, or nil when HDR is disabled.
func (c *Choreographer) ToneMapping() *passes.ToneMappingPass {
	return c.toneMappingPass
}

func (c *Choreographer) PostProcessEffectFactory() *PostProcessEffectFactory {
	return c.postProcessFactory
}

func (c *Choreographer) IsHDREnabled() bool {
	return c.renderHDR
}

func (c *Choreographer) IsBloomEnabled() bool {
	return c.renderBloom
}

func (c *Choreographer) IsShadowsEnabled() bool {
	return c.renderShadows
}

// Target returns an owned render target, or nil if it was not allocated.
func (c *Choreographer) Target(id TargetID) renderer.RenderTarget {
	if id < 0 || int(id) >= len(c.targets) {
		return nil
	}
	return c.targets[id]
}

// ShadowPassCount returns the number of cached shadow passes.
func (c *Choreographer) ShadowPassCount() int {
	return c.shadowPasses.len()
}

// CachedLights returns the handles of the lights with a cached shadow pass,
// in the order they were rendered.
func (c *Choreographer) CachedLights() []core.Handle {
	return c.shadowPasses.handles()
}

// ShadowPass returns the cached shadow pass of a light.
func (c *Choreographer) ShadowPass(h core.Handle) (*passes.ShadowMapPass, bool) {
	return c.shadowPasses.get(h)
}

func (c *Choreographer) Stats() FrameStats {
	return c.stats
}

// Destroy releases every owned target and program. The display is left alone.
func (c *Choreographer) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	for i, t := range c.targets {
		if t != nil {
			t.Destroy()
			c.targets[i] = nil
		}
	}
	if c.blitPostProcess != nil {
		c.blitPostProcess.Destroy()
	}
	if c.additiveBlend != nil {
		c.additiveBlend.Destroy()
	}
	if c.gaussianBlurPass != nil {
		c.gaussianBlurPass.Destroy()
	}
	if c.toneMappingPass != nil {
		c.toneMappingPass.Destroy()
	}
	c.postProcessFactory.Destroy()
	c.shadowPasses = newShadowPassCache(0)
	c.io.Reset()
	core.LogDebug("choreographer %s destroyed", c.id)
}
