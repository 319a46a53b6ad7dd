package annotate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ResolveInputs expands model path patterns to absolute file paths.
// Supports single-level (*) and recursive (**) wildcards. A literal path
// that does not exist, or a pattern that matches no file, fails with
// ErrInputNotFound. Duplicates are dropped; order follows the patterns, with
// the matches of each glob sorted.
func ResolveInputs(patterns []string) ([]string, error) {
	var resolved []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		paths, err := resolveInput(pattern)
		if err != nil {
			return nil, err
		}

		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				resolved = append(resolved, p)
			}
		}
	}

	return resolved, nil
}

func resolveInput(pattern string) ([]string, error) {
	if !containsGlob(pattern) {
		absPath, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(absPath)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, missingInput(pattern)
		}
		if err != nil {
			return nil, NewPreconditionError(fmt.Errorf("stat %s: %w", pattern, err))
		}
		if info.IsDir() {
			return nil, NewPreconditionError(fmt.Errorf("input is a directory: %s", pattern))
		}
		return []string{absPath}, nil
	}

	absPattern, err := makeAbsolutePattern(pattern)
	if err != nil {
		return nil, err
	}

	// Use doublestar for ** support
	matches, err := doublestar.FilepathGlob(absPattern)
	if err != nil {
		return nil, NewConfigError(fmt.Errorf("glob %q: %w", pattern, err))
	}

	var files []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue // Skip paths that can't be stat'd
		}
		if !info.IsDir() {
			files = append(files, match)
		}
	}
	if len(files) == 0 {
		return nil, missingInput(pattern)
	}
	sort.Strings(files)
	return files, nil
}

// containsGlob checks if a pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// makeAbsolutePattern converts a relative pattern to absolute, keeping the
// glob part intact.
func makeAbsolutePattern(pattern string) (string, error) {
	globIdx := strings.IndexAny(pattern, "*?[{")
	if globIdx == -1 {
		return filepath.Abs(pattern)
	}

	dirPart, globPart := ".", string(filepath.Separator)+pattern
	if lastSep := strings.LastIndexAny(pattern[:globIdx], "/"+string(filepath.Separator)); lastSep > 0 {
		dirPart, globPart = pattern[:lastSep], pattern[lastSep:]
	} else if lastSep == 0 {
		dirPart, globPart = pattern[:1], pattern[1:]
	}

	absDir, err := filepath.Abs(dirPart)
	if err != nil {
		return "", err
	}
	return absDir + filepath.FromSlash(globPart), nil
}

// SourceName returns the logical name of a model file inside the archive:
// its path relative to root with forward slashes, or its base name when
// root is empty.
func SourceName(path, root string) (string, error) {
	if root == "" {
		return filepath.Base(path), nil
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", NewConfigError(fmt.Errorf("model %s is outside archive root %s", path, root))
	}
	return filepath.ToSlash(rel), nil
}
