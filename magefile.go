//go:build mage

// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName    = "jtmomentum"
	modulePath    = "github.com/penny-vault/jtmomentum"
	commonPackage = modulePath + "/common"
	coverProfile  = "coverage.out"
)

// override with GOEXE=xxx mage build
var goexe = "go"

func init() {
	if exe := os.Getenv("GOEXE"); exe != "" {
		goexe = exe
	}
}

// Build the jtmomentum binary with the commit hash and build date stamped in
func Build() error {
	fmt.Println("Building...")
	return sh.RunWith(flagEnv(), goexe, goArgs("build", "-o", binaryName, "-ldflags", ldflags(), "-v", ".")...)
}

// Install jtmomentum into GOBIN
func Install() error {
	return sh.RunWith(flagEnv(), goexe, goArgs("install", "-ldflags", ldflags(), ".")...)
}

// Clean removes the binary and coverage output
func Clean() {
	fmt.Println("Cleaning...")
	os.RemoveAll(binaryName)
	os.RemoveAll(coverProfile)
}

// Check formats, vets and runs the race enabled test suite
func Check() {
	mg.SerialDeps(Fmt, Vet, TestRace)
}

// Test runs every ginkgo suite
func Test() error {
	fmt.Println("Go Test")
	return sh.RunV(goexe, goArgs("test", "./...")...)
}

// TestRace runs every ginkgo suite with the race detector
func TestRace() error {
	fmt.Println("Go Test Race")
	return sh.RunV(goexe, goArgs("test", "-race", "./...")...)
}

// Cover writes a coverage profile for all packages and opens it in a browser
func Cover() error {
	fmt.Println("Generate Test Coverage HTML")
	if err := sh.RunV(goexe, "test", "-coverprofile="+coverProfile, "-covermode=count", "./..."); err != nil {
		return err
	}
	return sh.Run(goexe, "tool", "cover", "-html="+coverProfile)
}

// Fmt fails when any go file is not gofmt'ed
func Fmt() error {
	fmt.Println("Go Format")

	// gofmt exits 0 even when files need formatting, so look at its output
	out, err := sh.Output("gofmt", "-l", "cmd", "common", "data", "dataframe", "momentum",
		"observability", "pgxmockhelper", "report", "main.go", "magefile.go")
	if err != nil {
		return fmt.Errorf("error running gofmt: %w", err)
	}
	if out = strings.TrimSpace(out); out != "" {
		fmt.Println("The following files are not gofmt'ed:")
		fmt.Println(out)
		return errors.New("improperly formatted go files")
	}
	return nil
}

// Vet runs go vet over the module
func Vet() error {
	fmt.Println("Go Vet")
	if err := sh.Run(goexe, "vet", "./..."); err != nil {
		return fmt.Errorf("error running go vet: %w", err)
	}
	return nil
}

// Helpers

func ldflags() string {
	return fmt.Sprintf("-X %s.commitHash=$COMMIT_HASH -X %s.buildDate=$BUILD_DATE", commonPackage, commonPackage)
}

// goArgs appends the platform build flags after the subcommand and its flags
func goArgs(args ...string) []string {
	if runtime.GOOS == "windows" {
		// keep the package path last
		n := len(args)
		res := append([]string{}, args[:n-1]...)
		res = append(res, "-buildmode", "exe")
		return append(res, args[n-1])
	}
	return args
}

func flagEnv() map[string]string {
	hash, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	return map[string]string{
		"COMMIT_HASH": hash,
		"BUILD_DATE":  time.Now().Format("2006-01-02T15:04:05Z0700"),
	}
}
