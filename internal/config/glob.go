package config

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// Stdin is the path argument that selects standard input.
const Stdin = "-"

// ExpandGlobs expands file paths and glob patterns into a unique list.
// Arguments keep their command-line order and each glob contributes its
// matches sorted. Stdin passes through unchanged. Directories, including
// those matched by a glob, are rejected.
func ExpandGlobs(fs afero.Fs, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no file patterns provided")
	}

	files := make([]string, 0, len(patterns))
	seen := make(map[string]struct{})
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, pattern := range patterns {
		if pattern == Stdin {
			add(pattern)
			continue
		}

		if hasGlobMeta(pattern) {
			matches, err := afero.Glob(fs, pattern)
			if err != nil {
				return nil, err
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no matches for pattern %q", pattern)
			}
			for _, match := range matches {
				if err := checkFile(fs, match); err != nil {
					return nil, err
				}
				add(match)
			}
			continue
		}

		if err := checkFile(fs, pattern); err != nil {
			return nil, err
		}
		add(pattern)
	}

	return files, nil
}

func checkFile(fs afero.Fs, path string) error {
	info, err := fs.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[")
}
