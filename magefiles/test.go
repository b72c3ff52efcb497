//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs the whole test suite.
func (Test) All() error {
	opts := []cmdOption{withArgs("test", "./...")}
	if mg.Verbose() {
		opts = append(opts, withArgs("-v"))
	}
	return goCmd(opts...)
}

// Runs the engine tests with the race detector. The config watcher is the
// only goroutine, so this mostly guards the reload hand-off.
func (Test) Race() error {
	return goCmd(withArgs("test", "-race", "./engine/..."), withEnv("CGO_ENABLED=1"))
}
