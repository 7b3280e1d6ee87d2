//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Sandbox compiles the demo program into bin/.
func (Build) Sandbox() error {
	_, err := executeCmd("go", withArgs("build", "-o", "bin/sandbox", "./cmd/sandbox"), withStream())
	return err
}

// Test runs every package's tests. The GL and GLFW packages need cgo.
func Test() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// TestBatch runs only the packages that need no display or GPU.
func TestBatch() error {
	_, err := executeCmd("go", withArgs("test",
		"./engine/gfx/batch/...",
		"./engine/gfx/matrix/...",
		"./engine/gfx/headless/...",
		"./engine/gfx/renderer2d/...",
		"./engine/core/...",
		"./engine/colors/...",
		"./engine/assets/...",
		"./engine/scene/...",
		"./engine/profiler/...",
	), withEnv("CGO_ENABLED=0"), withStream())
	return err
}
