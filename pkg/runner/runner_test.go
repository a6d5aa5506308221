package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/twigcs/pkg/linter"
	"github.com/yaklabco/twigcs/pkg/report"
	"github.com/yaklabco/twigcs/pkg/ruleset"
	"github.com/yaklabco/twigcs/pkg/runner"
	"github.com/yaklabco/twigcs/pkg/sniff/generic"
	"github.com/yaklabco/twigcs/pkg/twig"
)

func newRunner() (*runner.Runner, *ruleset.Ruleset) {
	rs := ruleset.New()
	rs.AddStandard(generic.New())
	return runner.New(linter.New(twig.NewEnvironment()), nil), rs
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	dir := makeTree(t, "clean.twig", "sub/other.twig")
	if err := os.WriteFile(filepath.Join(dir, "dirty.twig"), []byte("{{a}}\n{{ dump(b) }}\n"), 0o600); err != nil {
		t.Fatalf("setup write: %v", err)
	}

	r, rs := newRunner()
	result, err := r.Run(context.Background(), runner.Options{WorkingDir: dir}, rs, false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesDiscovered != 3 {
		t.Errorf("expected 3 files discovered, got %d", result.Stats.FilesDiscovered)
	}
	if result.Stats.FilesWithViolations != 1 {
		t.Errorf("expected 1 file with violations, got %d", result.Stats.FilesWithViolations)
	}
	if got := result.Stats.ViolationsByLevel[report.Error]; got != 3 {
		t.Errorf("expected 3 errors, got %d", got)
	}
	if result.Report.TotalFiles() != 3 {
		t.Errorf("expected 3 files in report, got %d", result.Report.TotalFiles())
	}
	if result.Stats.Duration <= 0 {
		t.Error("expected a positive duration")
	}
}

func TestRunner_RunFix(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.twig")
	if err := os.WriteFile(path, []byte("{{a}}"), 0o600); err != nil {
		t.Fatalf("setup write: %v", err)
	}

	r, rs := newRunner()
	result, err := r.Run(context.Background(), runner.Options{WorkingDir: dir}, rs, true)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Report.TotalMessages() != 0 {
		t.Errorf("expected a clean report after fixing, got %d violations", result.Report.TotalMessages())
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "{{ a }}\n" {
		t.Errorf("unexpected fixed content %q", got)
	}
}

func TestRunner_RunNoFiles(t *testing.T) {
	t.Parallel()

	r, rs := newRunner()
	result, err := r.Run(context.Background(), runner.Options{WorkingDir: t.TempDir()}, rs, false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stats.FilesDiscovered != 0 || result.Report.TotalMessages() != 0 {
		t.Errorf("expected an empty result, got %+v", result.Stats)
	}
}
