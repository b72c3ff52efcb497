package cmd

import (
	"fmt"

	"github.com/spaghettifunk/anima-choreographer/engine/config"
	"github.com/urfave/cli"
)

// PrintConfig writes the default configuration as TOML to stdout.
func PrintConfig(ctx *cli.Context) error {
	data, err := config.Default().Marshal()
	if err != nil {
		return err
	}
	fmt.Fprint(ctx.App.Writer, string(data))
	return nil
}
