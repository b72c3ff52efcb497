//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Downloads the modules and builds every package.
func (Build) All() error {
	if err := goCmd(withArgs("mod", "download")); err != nil {
		return err
	}
	return goCmd(withArgs("build", "./..."))
}

// Vets every package.
func (Build) Vet() error {
	return goCmd(withArgs("vet", "./..."))
}
