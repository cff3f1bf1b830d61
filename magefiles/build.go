//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "bin/sdfpack"

var goexec = sh.RunCmd(mg.GoCmd())

type Build mg.Namespace

// Binary compiles sdfpack into bin/.
func (Build) Binary() error {
	fmt.Println("Building", binary)
	return sh.RunWithV(map[string]string{"CGO_ENABLED": "0"}, mg.GoCmd(), "build", "-trimpath", "-o", binary, ".")
}

// Tidy runs go mod tidy.
func (Build) Tidy() error {
	return goexec("mod", "tidy")
}

// Clean removes build output.
func (Build) Clean() error {
	return sh.Rm("bin")
}

type Test mg.Namespace

// Unit runs the test suite with the race detector.
func (Test) Unit() error {
	return sh.RunV(mg.GoCmd(), "test", "-race", "./...")
}

// Vet runs go vet.
func (Test) Vet() error {
	return sh.RunV(mg.GoCmd(), "vet", "./...")
}

// All runs vet, then the tests.
func (Test) All() {
	mg.SerialDeps(Test.Vet, Test.Unit)
}
