/*
Runs the frame composition pipeline against the headless driver, either for a
fixed number of frames or until interrupted.
*/
package main

import (
	"os"

	"github.com/spaghettifunk/anima-choreographer/cmd"
	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "choreographer"
	app.Usage = "drive the frame composition pipeline"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "run the testbed scene",
			Description: `
Render the testbed scene with the headless driver. Lights change over time so
the shadow pass cache, bloom gating and render-to-texture paths are exercised.
Runs until interrupted unless --frames is given.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config, c",
					Usage: "path of the TOML configuration",
				},
				cli.IntFlag{
					Name:  "frames, n",
					Value: 0,
					Usage: "number of frames to render (0 = until interrupted)",
				},
				cli.BoolFlag{
					Name:  "watch, w",
					Usage: "reload the configuration when it changes on disk",
				},
				cli.BoolFlag{
					Name:  "dump",
					Usage: "print the driver command log of the last frame",
				},
			},
			Action: cmd.Run,
		},
		{
			Name:   "config",
			Usage:  "print the default configuration",
			Action: cmd.PrintConfig,
		},
	}

	if err := app.Run(os.Args); err != nil {
		core.LogError(err.Error())
		os.Exit(1)
	}
}
