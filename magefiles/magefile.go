//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary  = "yakuza-tower"
	mainPkg = "./cmd/yakuza-tower"
)

var Default = Build

// Build compiles the demo into bin/.
func Build() error {
	mg.Deps(Vet)
	out := filepath.Join("bin", binary)
	fmt.Println("Building", out)
	return sh.RunV("go", "build", "-o", out, mainPkg)
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "-count=1", "./...")
}

// Vet runs go vet over every package.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Run starts the demo. Extra flags are taken from YT_FLAGS, e.g. YT_FLAGS="-no-vsync".
func Run() error {
	mg.Deps(Build)
	args := []string{}
	if flags := os.Getenv("YT_FLAGS"); flags != "" {
		args = append(args, strings.Fields(flags)...)
	}
	return sh.RunV(filepath.Join("bin", binary), args...)
}

// Clean removes build output.
func Clean() error {
	return sh.Rm("bin")
}
