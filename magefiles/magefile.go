//go:build mage

// Package main contains Mage build targets for bookbinder developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binDir = "bin"

// binaries maps each output binary to its command package.
var binaries = map[string]string{
	"volrename": "./cmd/volrename",
	"imgbundle": "./cmd/imgbundle",
}

// Build compiles both CLI binaries into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	for name, pkg := range binaries {
		out := filepath.Join(binDir, name)
		if err := sh.RunV("go", "build", "-o", out, pkg); err != nil {
			return fmt.Errorf("go build %s: %w", pkg, err)
		}
		fmt.Printf("Built %s\n", out)
	}
	return nil
}

// Test runs the unit tests of every package.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// All builds the binaries after the tests pass.
func All() {
	mg.SerialDeps(Test, Build)
}

// tally holds the counts printed by Stats.
type tally struct {
	prodLines, testLines, docWords int
}

// Stats prints non-blank Go lines, split into production and test code, and
// the word count of the Markdown documents at the repository root.
func Stats() error {
	var t tally
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != "." && strings.ContainsAny(d.Name()[:1], "._") {
				return filepath.SkipDir
			}
			return nil
		}
		return t.add(path)
	})
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", t.prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", t.testLines)
	fmt.Printf("Words (documentation):           %d\n", t.docWords)
	return nil
}

// add counts one file: Go sources by non-blank line, top-level Markdown by word.
func (t *tally) add(path string) error {
	isGo := strings.HasSuffix(path, ".go")
	isDoc := strings.HasSuffix(path, ".md") && filepath.Dir(path) == "."
	if !isGo && !isDoc {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if isDoc {
		t.docWords += len(strings.Fields(string(data)))
		return nil
	}

	n := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	if strings.HasSuffix(path, "_test.go") {
		t.testLines += n
	} else {
		t.prodLines += n
	}
	return sc.Err()
}
