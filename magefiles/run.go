//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Sandbox opens the demo in a window, reloading sandbox.toml on change.
func (Run) Sandbox() error {
	fmt.Println("Run sandbox...")
	_, err := executeCmd("go", withArgs("run", "./cmd/sandbox", "-config", "cmd/sandbox/sandbox.toml", "-watch"), withStream())
	return err
}

// Headless drives the demo for a fixed number of frames without a window.
func (Run) Headless() error {
	mg.Deps(TestBatch)
	_, err := executeCmd("go", withArgs("run", "./cmd/sandbox", "-config", "cmd/sandbox/sandbox.toml", "-headless", "-frames", "300"), withStream())
	return err
}
