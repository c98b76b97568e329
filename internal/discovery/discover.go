package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover finds the DDL files named by paths. A file path is taken as is,
// whatever its suffix; a directory is walked recursively for *.sql files.
// The result is sorted by path and free of duplicates. RelativePath is
// relative to the deepest directory containing every given path, so it is
// unique across the whole result.
func Discover(paths ...string) ([]DiscoveredFile, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	seen := make(map[string]bool)
	var (
		files []DiscoveredFile
		roots []string
	)

	for _, p := range paths {
		found, root, err := discoverPath(p)
		if err != nil {
			return nil, err
		}
		roots = append(roots, root)
		for _, f := range found {
			if !seen[f.Path] {
				seen[f.Path] = true
				files = append(files, f)
			}
		}
	}

	base := commonDir(roots)
	for i := range files {
		if rel, err := filepath.Rel(base, files[i].Path); err == nil {
			files[i].RelativePath = rel
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

// commonDir returns the deepest directory containing all dirs
func commonDir(dirs []string) string {
	if len(dirs) == 0 {
		return ""
	}
	common := dirs[0]
	for _, d := range dirs[1:] {
		for !within(common, d) {
			parent := filepath.Dir(common)
			if parent == common {
				break
			}
			common = parent
		}
	}
	return common
}

// within reports whether path is dir or lies below it
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// discoverPath returns the files under rootPath and the directory they are
// relative to: rootPath itself, or its parent for a plain file
func discoverPath(rootPath string) ([]DiscoveredFile, string, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("path not found: %s", absRoot)
		}
		return nil, "", fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		return []DiscoveredFile{{
			Path:         absRoot,
			RelativePath: filepath.Base(absRoot),
			ModTime:      info.ModTime(),
		}}, filepath.Dir(absRoot), nil
	}

	var files []DiscoveredFile

	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Skip directories we can't access
			if os.IsPermission(err) {
				return nil
			}
			return err
		}

		if info.IsDir() || !IsSQLFile(path) {
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}

		files = append(files, DiscoveredFile{
			Path:         path,
			RelativePath: relPath,
			ModTime:      info.ModTime(),
		})

		return nil
	})

	if err != nil {
		return nil, "", fmt.Errorf("failed to walk directory: %w", err)
	}

	return files, absRoot, nil
}
