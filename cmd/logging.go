package cmd

import (
	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/urfave/cli"
)

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		core.SetLogLevel(core.DebugLevel)
	}
}
