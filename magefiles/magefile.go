//go:build mage

// Package main contains Mage build targets for rfc-engine developer tooling.
// Implements: directory setup, build, test and project statistics.
package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the engine expects.
var projectDirs = []string{
	"rfcs/raw",
	"rfcs/metadata",
	"rfcs/markdown",
	"index",
}

// Init creates the project directory structure for the mirror and index.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "rfc-engine"
	cmdPkg  = "./cmd/rfc-engine"
)

// Build compiles the CLI binary into bin/. The version is taken from
// RFC_ENGINE_VERSION when set.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	ldflags := "-X main.version=" + versionString()
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet over the module.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and the tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Fetch builds the CLI and mirrors the RFCs listed in RFCS (space separated).
func Fetch() error {
	mg.Deps(Build, Init)
	return runWithRFCs("fetch")
}

// Index builds the CLI and indexes the RFCs listed in RFCS.
func Index() error {
	mg.Deps(Build, Init)
	return runWithRFCs("index", "store")
}

func runWithRFCs(args ...string) error {
	rfcs := strings.Fields(os.Getenv("RFCS"))
	if len(rfcs) == 0 {
		return fmt.Errorf("set RFCS to the RFC numbers to process, e.g. RFCS=\"6455 9110\"")
	}
	return sh.RunV(filepath.Join(binDir, binName), append(args, rfcs...)...)
}

func versionString() string {
	if v := os.Getenv("RFC_ENGINE_VERSION"); v != "" {
		return v
	}
	return "dev"
}

// Stats prints Go line counts for production and test code and the number
// of RFCs in the local mirror.
func Stats() error {
	prod, tests, err := countGoLines(".")
	if err != nil {
		return err
	}
	raw := countFiles("rfcs/raw")
	md := countFiles("rfcs/markdown")

	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", tests)
	fmt.Printf("RFCs mirrored:                  %d\n", raw)
	fmt.Printf("RFCs converted to Markdown:     %d\n", md)
	return nil
}

// countGoLines counts non-blank lines in .go files under root, split into
// production and _test.go files. Hidden and underscore directories are
// skipped, as the go tool does.
func countGoLines(root string) (prod, tests int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		n, err := nonBlankLines(path)
		if err != nil {
			return err
		}
		if strings.HasSuffix(path, "_test.go") {
			tests += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, tests, err
}

func nonBlankLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	return n, sc.Err()
}

// countFiles returns the number of regular files in dir, or 0 when dir does
// not exist.
func countFiles(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if e.Type().IsRegular() {
			n++
		}
	}
	return n
}
