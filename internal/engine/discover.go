package engine

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"deporder/internal/errors"
	"deporder/internal/parse"
	"deporder/internal/paths"
)

// Discover walks root and returns every supported source file whose root-relative path
// matches one of include (all supported files when include is empty) and none of ignore.
// Ignored directories are not descended into.
func Discover(root string, include, ignore []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && paths.IsIgnored(rel, ignore) {
				return filepath.SkipDir
			}
			return nil
		}
		if !parse.Supported(path) || paths.IsIgnored(rel, ignore) {
			return nil
		}
		if len(include) > 0 && !paths.IsIgnored(rel, include) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.IOFailed, "walk source tree", err).WithPath(root)
	}
	return files, nil
}

// Expand resolves command line arguments: directories are discovered, files are taken
// as given. The result is deduplicated and keeps argument order.
func Expand(args []string, include, ignore []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrap(errors.IOFailed, "stat", err).WithPath(arg)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		found, err := Discover(arg, include, ignore)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	return slices.Clip(out), nil
}
