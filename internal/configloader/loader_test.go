package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/yaklabco/twigcs/pkg/config"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:       dir,
		IgnoreUserConfig: true,
		IgnoreEnv:        true,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(t.TempDir()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config == nil {
		t.Fatal("Load() returned nil config")
	}
	if result.Config.Level != config.DefaultLevel {
		t.Errorf("expected level %q, got %q", config.DefaultLevel, result.Config.Level)
	}
	if !slices.Equal(result.Config.Extensions, []string{config.DefaultExtension}) {
		t.Errorf("expected default extensions, got %v", result.Config.Extensions)
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("expected no loaded files, got %v", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	configPath := writeConfig(t, tmpDir, ".twigcs.yml", `
level: warning
exclude:
  - "vendor/**"
sniffs:
  EmptyLines:
    enabled: false
`)

	sub := filepath.Join(tmpDir, "templates", "admin")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	result, err := Load(context.Background(), isolated(sub))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Paths.Project != configPath {
		t.Errorf("expected project config %q, got %q", configPath, result.Paths.Project)
	}
	if result.Config.Level != "warning" {
		t.Errorf("expected level warning, got %q", result.Config.Level)
	}
	if !slices.Equal(result.Config.Exclude, []string{"vendor/**"}) {
		t.Errorf("unexpected exclude: %v", result.Config.Exclude)
	}
	if result.Config.SniffEnabled("EmptyLines") {
		t.Error("expected EmptyLines to be disabled")
	}
	if !slices.Equal(result.Config.Extensions, []string{config.DefaultExtension}) {
		t.Errorf("defaults should survive a partial config, got %v", result.Config.Extensions)
	}
}

func TestFindProjectConfig_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".twigcs.yml", "level: error\n")

	repo := filepath.Join(tmpDir, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := FindProjectConfig(context.Background(), repo)
	if err != nil {
		t.Fatalf("FindProjectConfig() error = %v", err)
	}
	if got != "" {
		t.Errorf("expected search to stop at the repository root, found %q", got)
	}
}

func TestLoad_ExplicitConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".twigcs.yml", "level: error\n")
	explicit := writeConfig(t, t.TempDir(), "custom.yaml", "stub_tags: [trans]\n")

	opts := isolated(tmpDir)
	opts.ExplicitPath = explicit

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !slices.Equal(result.LoadedFrom, []string{explicit}) {
		t.Errorf("expected only the explicit config to load, got %v", result.LoadedFrom)
	}
	if result.Config.Level != config.DefaultLevel {
		t.Errorf("project config must be skipped, got level %q", result.Config.Level)
	}
	if !slices.Equal(result.Config.StubTags, []string{"trans"}) {
		t.Errorf("unexpected stub tags: %v", result.Config.StubTags)
	}
}

func TestLoad_UserConfig(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	if err := os.Mkdir(filepath.Join(configHome, "twigcs"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	userPath := writeConfig(t, filepath.Join(configHome, "twigcs"), "config.yaml", "level: error\nbackups: true\n")

	projectDir := t.TempDir()
	projectPath := writeConfig(t, projectDir, ".twigcs.yml", "level: warning\n")

	result, err := Load(context.Background(), LoadOptions{WorkingDir: projectDir, IgnoreEnv: true})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !slices.Equal(result.LoadedFrom, []string{userPath, projectPath}) {
		t.Errorf("unexpected load order: %v", result.LoadedFrom)
	}
	if result.Config.Level != "warning" {
		t.Errorf("project config should override user config, got %q", result.Config.Level)
	}
	if !result.Config.Backups {
		t.Error("user config backups setting should survive")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TWIGCS_LEVEL", "error")
	t.Setenv("TWIGCS_EXCLUDE", "cache/**, vendor/**")
	t.Setenv("TWIGCS_FIX", "1")

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".twigcs.yml", "level: warning\n")

	result, err := Load(context.Background(), LoadOptions{WorkingDir: tmpDir, IgnoreUserConfig: true})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Level != "error" {
		t.Errorf("expected env to override file, got %q", result.Config.Level)
	}
	if !slices.Equal(result.Config.Exclude, []string{"cache/**", "vendor/**"}) {
		t.Errorf("unexpected exclude: %v", result.Config.Exclude)
	}
	if !result.Config.Fix {
		t.Error("expected fix from environment")
	}
}

func TestLoad_EnvInvalidBool(t *testing.T) {
	t.Setenv("TWIGCS_BACKUPS", "sometimes")

	_, err := Load(context.Background(), LoadOptions{WorkingDir: t.TempDir(), IgnoreUserConfig: true})
	if err == nil || !strings.Contains(err.Error(), "TWIGCS_BACKUPS") {
		t.Fatalf("expected error naming TWIGCS_BACKUPS, got %v", err)
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".twigcs.yml", `
level: warning
sniffs:
  DumpUsage:
    enabled: false
`)

	opts := isolated(tmpDir)
	opts.CLIConfig = &config.Config{
		Level:        "fatal",
		Format:       config.FormatJSON,
		EnableSniffs: []string{"DumpUsage"},
	}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Level != "fatal" {
		t.Errorf("expected CLI level, got %q", result.Config.Level)
	}
	if result.Config.Format != config.FormatJSON {
		t.Errorf("expected CLI format, got %q", result.Config.Format)
	}
	if !result.Config.SniffEnabled("DumpUsage") {
		t.Error("--enable should win over the sniffs section")
	}
	if result.Config.Color != config.ColorAuto {
		t.Errorf("unset CLI color should keep default, got %q", result.Config.Color)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{name: "level", content: "level: severe\n", field: "level"},
		{name: "extension", content: "extensions: [twig]\n", field: "extensions[0]"},
		{name: "exclude", content: "exclude: [\"[a\"]\n", field: "exclude[0]"},
		{name: "unknown key", content: "levle: error\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			path := writeConfig(t, tmpDir, ".twigcs.yml", tt.content)

			_, err := Load(context.Background(), isolated(tmpDir))
			if err == nil {
				t.Fatal("expected error for invalid config")
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
			if vErr.FilePath != path {
				t.Errorf("expected file path %q, got %q", path, vErr.FilePath)
			}
			if tt.field != "" && vErr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, vErr.Field)
			}
		})
	}
}

func TestLoad_InvalidCLIValue(t *testing.T) {
	t.Parallel()

	opts := isolated(t.TempDir())
	opts.CLIConfig = &config.Config{Format: "xml"}

	_, err := Load(context.Background(), opts)
	if err == nil || !strings.Contains(err.Error(), `invalid format "xml"`) {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestLoad_UnknownSniffWarnings(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".twigcs.yml", `
sniffs:
  EmptyLines:
    enabled: false
  NoSuchSniff:
    enabled: false
`)

	opts := isolated(tmpDir)
	opts.KnownSniffs = []string{"EmptyLines", "DumpUsage"}
	opts.CLIConfig = &config.Config{DisableSniffs: []string{"Typo"}}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(result.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], `unknown sniff "NoSuchSniff"`) {
		t.Errorf("unexpected warning: %s", result.Warnings[0])
	}
	if !strings.Contains(result.Warnings[1], `unknown sniff "Typo"`) {
		t.Errorf("unexpected warning: %s", result.Warnings[1])
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Load(ctx, isolated(t.TempDir())); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	off := false
	on := true
	base := &config.Config{
		Level:  "notice",
		Sniffs: map[string]config.SniffConfig{"A": {Enabled: &off}, "B": {Enabled: &off}},
	}
	mid := &config.Config{Sniffs: map[string]config.SniffConfig{"B": {Enabled: &on}, "A": {}}}
	top := &config.Config{Level: "error", Exclude: []string{"x/**"}}

	got := MergeAll(base, mid, top)

	if got.Level != "error" {
		t.Errorf("expected level error, got %q", got.Level)
	}
	if got.SniffEnabled("A") {
		t.Error("an empty sniff entry must not reset A")
	}
	if !got.SniffEnabled("B") {
		t.Error("expected B to be enabled")
	}
	if !slices.Equal(got.Exclude, []string{"x/**"}) {
		t.Errorf("unexpected exclude: %v", got.Exclude)
	}
	if MergeAll() != nil {
		t.Error("MergeAll() with no configs should be nil")
	}
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	for _, name := range []string{"TWIGCS_LEVEL", "TWIGCS_FORMAT", "TWIGCS_STUB_TAGS"} {
		if vars[name] == "" {
			t.Errorf("missing %s", name)
		}
	}
}
