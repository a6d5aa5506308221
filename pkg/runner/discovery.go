package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-enry/go-enry/v2"
)

// twigLanguage is the linguist name of the Twig language.
const twigLanguage = "Twig"

// Discover finds templates matching opts. It returns a deterministically
// sorted, deduplicated list of absolute file paths.
//
// Directories are walked recursively, skipping dot directories, vendored
// directories and excluded paths. A file named explicitly is accepted when
// its extension is configured or it is recognized as a Twig template; the
// exclude patterns still apply to it.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	extensions := opts.effectiveExtensions()
	seen := make(map[string]struct{})
	var files []string

	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			if isExcluded(relativeTo(workDir, absPath), opts.ExcludeGlobs) {
				continue
			}
			if hasMatchingExtension(absPath, extensions) || isTwig(absPath) {
				add(absPath)
			}
			continue
		}

		discovered, err := walkDirectory(ctx, absPath, workDir, extensions, opts)
		if err != nil {
			return nil, err
		}
		for _, f := range discovered {
			add(f)
		}
	}

	sort.Strings(files)
	return files, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

func walkDirectory(ctx context.Context, root, workDir string, extensions []string, opts Options) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		relPath := relativeTo(workDir, path)

		if entry.IsDir() {
			if path == root {
				return nil
			}
			dirPath := filepath.ToSlash(relPath) + "/"
			if enry.IsDotFile(dirPath) {
				return filepath.SkipDir
			}
			if !opts.IncludeVendored && enry.IsVendor(dirPath) {
				return filepath.SkipDir
			}
			if isExcluded(relPath, opts.ExcludeGlobs) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, evalErr := filepath.EvalSymlinks(path)
			if evalErr != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			info, statErr := os.Stat(realPath)
			if statErr != nil {
				return nil //nolint:nilerr // Inaccessible symlink targets are skipped.
			}
			if info.IsDir() {
				if !opts.FollowSymlinks {
					return nil
				}
				// Walk the target; WalkDir does not follow a symlinked root.
				subFiles, err := walkDirectory(ctx, realPath, workDir, extensions, opts)
				if err != nil {
					return err
				}
				files = append(files, subFiles...)
				return nil
			}
		}

		if enry.IsDotFile(filepath.ToSlash(relPath)) {
			return nil
		}
		if hasMatchingExtension(path, extensions) && !isExcluded(relPath, opts.ExcludeGlobs) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

func relativeTo(workDir, path string) string {
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return path
	}
	return rel
}

// hasMatchingExtension checks if the file has a matching extension.
func hasMatchingExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// isTwig reports whether linguist maps the file's extension to Twig.
func isTwig(path string) bool {
	lang, _ := enry.GetLanguageByExtension(path)
	return lang == twigLanguage
}

// isExcluded matches relPath against the patterns, first as a whole, then
// by base name, then by every trailing subpath so that "cache/**" skips a
// cache directory at any depth.
func isExcluded(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	slashPath := filepath.ToSlash(relPath)
	parts := strings.Split(slashPath, "/")

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		for i := range parts {
			if matched, err := doublestar.Match(pattern, strings.Join(parts[i:], "/")); err == nil && matched {
				return true
			}
		}
	}
	return false
}
