//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Renders the testbed scene for ten seconds worth of frames.
func (Run) Demo() error {
	mg.Deps(Build.All)
	fmt.Println("Run demo...")
	return goCmd(withArgs("run", ".", "-v", "run", "--frames", "600"))
}

// Prints the driver command log of a single frame.
func (Run) Dump() error {
	return goCmd(withArgs("run", ".", "run", "--frames", "1", "--dump"))
}
