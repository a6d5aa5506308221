//go:build stave

package main

import (
	"bytes"
	"cmp"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const (
	binary       = "bin/twigcs"
	templatesDir = "testdata/templates"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":  Build,
	"t":  Test,
	"l":  Lint,
	"d":  Docs,
	"sc": SelfCheck,
}

// Build compiles bin/twigcs with version info when sources changed.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary, "is up to date")
		return nil
	}
	fmt.Println("Building twigcs...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/twigcs")
}

// Test runs the test suite with race detection through gotestsum.
func Test() error {
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", "pkgname-and-test-fails",
		"--",
		"-race",
		"-p", nCores,
		"./...",
	)
}

// Bench runs the tokenizer and linter benchmarks.
func Bench() error {
	return sh.RunV("go", "test", "-run", "^$", "-bench", ".", "-benchmem", "./pkg/linter/")
}

// Lint runs go vet and golangci-lint.
func Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// Check runs lint, tests and the template self-check in order.
func Check() {
	st.SerialDeps(Lint, Test, SelfCheck)
}

// Docs writes docs/sniffs.md from the sniff reference of the built binary.
func Docs() error {
	st.Deps(Build)
	out, err := sh.Output(binary, "sniffs", "--format", "markdown")
	if err != nil {
		return fmt.Errorf("list sniffs: %w", err)
	}
	if err := os.MkdirAll("docs", 0o755); err != nil {
		return fmt.Errorf("create docs directory: %w", err)
	}
	return os.WriteFile("docs/sniffs.md", []byte(out+"\n"), 0o644) //nolint:gosec // docs are world-readable
}

// SelfCheck fixes a copy of the sample templates and verifies that the
// copy lints clean at error level and that a second fix changes nothing.
func SelfCheck() error {
	st.Deps(Build)

	work, err := os.MkdirTemp("", "twigcs-selfcheck-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(work)

	if err := copyTemplates(templatesDir, work); err != nil {
		return err
	}

	if err := sh.Run(binary, "lint", "--fix", "--color", "never", "--level", "error", work); err != nil {
		return fmt.Errorf("first fix: %w", err)
	}
	fixed, err := snapshot(work)
	if err != nil {
		return err
	}

	if err := sh.Run(binary, "lint", "--fix", "--color", "never", "--level", "error", work); err != nil {
		return fmt.Errorf("second fix: %w", err)
	}
	again, err := snapshot(work)
	if err != nil {
		return err
	}

	for name, content := range fixed {
		if !bytes.Equal(content, again[name]) {
			return fmt.Errorf("%s changed on the second fix", name)
		}
	}
	fmt.Printf("%d template(s) fixed and stable\n", len(fixed))
	return nil
}

func copyTemplates(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out := filepath.Join(dst, rel)
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return err
		}
		return os.WriteFile(out, content, 0o600)
	})
}

func snapshot(dir string) (map[string][]byte, error) {
	files := make(map[string][]byte)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[path] = content
		return nil
	})
	return files, err
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s", version, commit, date)
}
