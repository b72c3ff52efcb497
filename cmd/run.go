package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/anima-choreographer/engine"
	"github.com/spaghettifunk/anima-choreographer/engine/config"
	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/headless"
	"github.com/spaghettifunk/anima-choreographer/testbed"
	"github.com/urfave/cli"
)

// Run renders the testbed scene with the headless driver.
func Run(ctx *cli.Context) error {
	appConfig := &engine.ApplicationConfig{
		ConfigPath:  ctx.String("config"),
		WatchConfig: ctx.Bool("watch"),
	}
	if appConfig.ConfigPath == "" {
		if _, err := os.Stat(config.DefaultFileName); err == nil {
			appConfig.ConfigPath = config.DefaultFileName
		}
	}

	// the driver options have to match the file the engine will load
	cfg, err := loadConfig(appConfig)
	if err != nil {
		return err
	}
	driver := headless.New(
		headless.WithGammaCorrection(cfg.Pipeline.GammaCorrection),
		headless.WithBloom(cfg.Pipeline.Bloom),
		headless.WithDisplaySize(cfg.App.Width, cfg.App.Height),
	)

	tb := testbed.NewTestGame(appConfig)
	e, err := engine.New(tb.Game, driver)
	if err != nil {
		return err
	}
	setupLogging(ctx)
	if err := e.Initialize(); err != nil {
		return err
	}
	defer func() {
		if err := e.Shutdown(); err != nil {
			core.LogError(err.Error())
		}
	}()

	if frames := ctx.Int("frames"); frames > 0 {
		for i := 0; i < frames; i++ {
			if ctx.Bool("dump") {
				driver.Reset()
			}
			if err := e.RunFrames(1); err != nil {
				return err
			}
		}
	} else {
		runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
		defer stop()
		if err := e.Run(runCtx); err != nil {
			return err
		}
	}

	stats := e.Choreographer().Stats()
	fps, ms := e.Metrics().Frame()
	core.LogInfo("%d frames, %.1f fps, %.3f ms/frame; last frame: %d shadow pass(es), %d bloom, %d tone mapped, %d render-to-texture",
		e.FrameNumber(), fps, ms, stats.ShadowPasses, stats.BloomPasses, stats.ToneMapped, stats.RenderToTextureBlits)
	if ctx.Bool("dump") {
		fmt.Fprintln(ctx.App.Writer, driver.Dump())
	}
	return nil
}

func loadConfig(ac *engine.ApplicationConfig) (*config.Config, error) {
	if ac.ConfigPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(ac.ConfigPath)
	if err != nil {
		return nil, err
	}
	ac.Config = cfg
	return cfg, nil
}
