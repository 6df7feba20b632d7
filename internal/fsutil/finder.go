// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. It returns a slice of their full paths.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// ExpandPaths resolves a mix of file and directory paths into a flat list of
// files carrying the extension. Directories are walked recursively; plain
// files are taken as-is but must carry the extension.
func ExpandPaths(paths []string, extension string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			found, err := FindFilesByExtension(p, extension)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		if !strings.HasSuffix(p, extension) {
			return nil, fmt.Errorf("fsutil: %s does not have extension %s", p, extension)
		}
		files = append(files, p)
	}
	return files, nil
}
