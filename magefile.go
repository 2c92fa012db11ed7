//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "wortschatz"

var Default = Build

// Build compiles the wortschatz binary into ./bin
func Build() error {
	if err := os.MkdirAll("bin", 0755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-o", filepath.Join("bin", binary), "./cmd/wortschatz")
}

// Test runs the unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Lint runs go vet
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Install builds and copies the binary to $GOPATH/bin
func Install() error {
	mg.Deps(Test)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	fmt.Printf("Installing %s to %s\n", binary, filepath.Join(gopath, "bin"))
	return sh.RunV("go", "install", "./cmd/wortschatz")
}

// Clean removes build artifacts
func Clean() error {
	return sh.Rm("bin")
}
