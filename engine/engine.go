package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/spaghettifunk/anima-choreographer/engine/config"
	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-choreographer/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine was shut down and cannot be run again
	EngineStageShutdown
)

var ErrEngineNotInitialized = errors.New("engine is not initialized")

type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    bool
	isSuspended  bool

	config        *config.Config
	watcher       *config.Watcher
	driver        renderer.Driver
	choreographer *systems.Choreographer
	lightSystem   *systems.LightSystem

	clock    *core.Clock
	metrics  *core.Metrics
	context  *metadata.RenderContext
	frame    uint64
	viewport metadata.Viewport
	lastTime float64
}

func New(g *Game, driver renderer.Driver) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, fmt.Errorf("game and application config are required: %w", core.ErrInvalidConfig)
	}
	if driver == nil {
		return nil, fmt.Errorf("a render driver is required: %w", core.ErrInvalidConfig)
	}
	cfg, err := g.ApplicationConfig.load()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	core.SetLogLevel(cfg.LogLevel())

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		config:       cfg,
		driver:       driver,
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
		context:      metadata.NewRenderContext(),
		viewport:     metadata.NewViewport(0, 0, cfg.App.Width, cfg.App.Height),
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	// initialize events
	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}

	// register some events
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	core.EventRegister(core.EVENT_CODE_RESIZED, e, e.onResized)
	core.EventRegister(core.EVENT_CODE_CONFIG_RELOADED, e, e.onConfigReloaded)

	ls, err := systems.NewLightSystem(systems.LightSystemConfig{
		MaxLightCount: 256,
	})
	if err != nil {
		return err
	}
	e.lightSystem = ls
	e.gameInstance.Lights = ls

	ch, err := systems.NewChoreographer(e.driver, e.config.Choreographer())
	if err != nil {
		return err
	}
	e.choreographer = ch
	if err := e.applyRuntimeConfig(e.config); err != nil {
		return err
	}
	if err := e.resize(e.viewport); err != nil {
		return err
	}

	if e.gameInstance.ApplicationConfig.WatchConfig && e.gameInstance.ApplicationConfig.ConfigPath != "" {
		w, err := config.NewWatcher(e.gameInstance.ApplicationConfig.ConfigPath)
		if err != nil {
			return err
		}
		e.watcher = w
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(uint32(e.viewport.Width), uint32(e.viewport.Height)); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	e.isRunning = true
	core.LogInfo("%s initialized (%dx%d, stereo: %t)", e.config.App.Name, e.viewport.Width, e.viewport.Height, e.config.App.Stereo)
	return nil
}

// Run renders frames until the application quits or ctx is cancelled. The
// context is only checked between frames.
func (e *Engine) Run(ctx context.Context) error {
	if e.currentStage < EngineStageInitialized {
		return ErrEngineNotInitialized
	}
	e.start()
	for e.isRunning {
		select {
		case <-ctx.Done():
			core.LogInfo("context cancelled, stopping the frame loop")
			e.isRunning = false
			return nil
		default:
		}
		if err := e.Frame(); err != nil {
			e.isRunning = false
			return err
		}
	}
	return nil
}

// RunFrames renders at most n frames, stopping early if the application quits.
func (e *Engine) RunFrames(n int) error {
	if e.currentStage < EngineStageInitialized {
		return ErrEngineNotInitialized
	}
	e.start()
	for i := 0; i < n && e.isRunning; i++ {
		if err := e.Frame(); err != nil {
			e.isRunning = false
			return err
		}
	}
	return nil
}

func (e *Engine) start() {
	if e.currentStage == EngineStageRunning {
		return
	}
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()
}

// Frame runs one iteration of the loop: pending configuration changes, game
// update, then every eye of the frame.
func (e *Engine) Frame() error {
	e.pollConfig()
	if !e.isRunning || e.isSuspended {
		return nil
	}

	e.clock.Update()
	currentTime := e.clock.Elapsed()
	delta := currentTime - e.lastTime

	if e.gameInstance.FnUpdate != nil {
		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("game update failed: %s", err)
			return err
		}
	}

	e.frame++
	e.context.Frame = e.frame
	packet := &RenderPacket{
		DeltaTime: delta,
		Context:   e.context,
	}
	if e.gameInstance.FnRender != nil {
		if err := e.gameInstance.FnRender(packet, delta); err != nil {
			core.LogError("game render failed: %s", err)
			return err
		}
	}
	if packet.Scene == nil {
		return fmt.Errorf("frame %d: game did not provide a scene", e.frame)
	}

	if err := e.drawFrame(packet); err != nil {
		core.LogError("frame %d: %s", e.frame, err)
		return err
	}

	e.clock.Update()
	e.metrics.Update(e.clock.Elapsed() - currentTime)
	e.lastTime = currentTime
	return nil
}

func (e *Engine) drawFrame(packet *RenderPacket) error {
	if !e.config.App.Stereo {
		return e.choreographer.Render(metadata.MonocularEye(), packet.Scene, packet.Metadata, packet.Context, e.driver)
	}
	// each eye gets its half of the display
	half := e.viewport.Width / 2
	for i, eye := range metadata.StereoEyes() {
		vp := metadata.NewViewport(e.viewport.X+int32(i)*half, e.viewport.Y, half, e.viewport.Height)
		if err := e.choreographer.SetViewport(vp); err != nil {
			return err
		}
		if err := e.choreographer.Render(eye, packet.Scene, packet.Metadata, packet.Context, e.driver); err != nil {
			return fmt.Errorf("%s eye: %w", eye.Type, err)
		}
	}
	return nil
}

func (e *Engine) pollConfig() {
	if e.watcher == nil {
		return
	}
	select {
	case cfg, ok := <-e.watcher.Updates():
		if ok {
			core.EventFire(core.EventContext{Type: core.EVENT_CODE_CONFIG_RELOADED, Data: cfg})
		}
	default:
	}
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShutdown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning = false

	var errs []error
	if e.gameInstance.FnShutdown != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	if e.watcher != nil {
		errs = append(errs, e.watcher.Close())
		e.watcher = nil
	}
	core.EventUnregister(core.EVENT_CODE_APPLICATION_QUIT, e)
	core.EventUnregister(core.EVENT_CODE_RESIZED, e)
	core.EventUnregister(core.EVENT_CODE_CONFIG_RELOADED, e)
	errs = append(errs, core.EventSystemShutdown())
	if e.choreographer != nil {
		e.choreographer.Destroy()
	}
	if e.lightSystem != nil {
		errs = append(errs, e.lightSystem.Shutdown())
	}
	e.currentStage = EngineStageShutdown
	return errors.Join(errs...)
}

func (e *Engine) Choreographer() *systems.Choreographer {
	return e.choreographer
}

func (e *Engine) LightSystem() *systems.LightSystem {
	return e.lightSystem
}

func (e *Engine) Config() *config.Config {
	return e.config
}

func (e *Engine) Metrics() *core.Metrics {
	return e.metrics
}

func (e *Engine) FrameNumber() uint64 {
	return e.frame
}

func (e *Engine) IsRunning() bool {
	return e.isRunning
}

func (e *Engine) IsSuspended() bool {
	return e.isSuspended
}

// GetFramebufferSize returns the width and height (in this order) of the
// application framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return uint32(e.viewport.Width), uint32(e.viewport.Height)
}

func (e *Engine) resize(viewport metadata.Viewport) error {
	e.viewport = viewport
	if e.config.App.Stereo {
		// per eye viewports are set every frame
		return e.choreographer.SetViewport(metadata.NewViewport(viewport.X, viewport.Y, max(viewport.Width/2, 1), viewport.Height))
	}
	return e.choreographer.SetViewport(viewport)
}

// applyRuntimeConfig applies the settings that can change without rebuilding
// the pipeline.
func (e *Engine) applyRuntimeConfig(cfg *config.Config) error {
	core.SetLogLevel(cfg.LogLevel())
	e.choreographer.SetRenderToTextureEnabled(cfg.Pipeline.RenderToTexture)
	if tm := e.choreographer.ToneMapping(); tm != nil {
		tm.SetMethod(cfg.ToneMappingMethod())
		tm.SetExposure(cfg.ToneMapping.Exposure)
		tm.SetWhitePoint(cfg.ToneMapping.WhitePoint)
	}
	return e.choreographer.PostProcessEffectFactory().EnableEffectsByName(cfg.PostProcess.Effects...)
}

func (e *Engine) onEvent(context core.EventContext) {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		{
			core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
			e.isRunning = false
		}
	}
}

func (e *Engine) onResized(context core.EventContext) {
	if context.Type != core.EVENT_CODE_RESIZED {
		return
	}
	re, ok := context.Data.(*core.ResizeEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return
	}

	// Handle minimization
	if re.Width == 0 || re.Height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}

	viewport := metadata.NewViewport(re.X, re.Y, int32(re.Width), int32(re.Height))
	if viewport == e.viewport {
		return
	}
	core.LogDebug("Window resize: %d, %d", re.Width, re.Height)
	if err := e.resize(viewport); err != nil {
		core.LogError(err.Error())
		return
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(re.Width, re.Height); err != nil {
			core.LogError(err.Error())
		}
	}
}

func (e *Engine) onConfigReloaded(context core.EventContext) {
	cfg, ok := context.Data.(*config.Config)
	if !ok || cfg == nil {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return
	}
	if cfg.Pipeline.Shadows != e.config.Pipeline.Shadows ||
		cfg.Pipeline.GammaCorrection != e.config.Pipeline.GammaCorrection ||
		cfg.Pipeline.Bloom != e.config.Pipeline.Bloom ||
		cfg.Pipeline.MaxShadowLights != e.config.Pipeline.MaxShadowLights {
		core.LogWarn("pipeline capabilities changed on disk; they apply on the next start")
	}
	if err := e.applyRuntimeConfig(cfg); err != nil {
		core.LogError("config reload rejected: %s", err)
		return
	}
	e.config = cfg
}
