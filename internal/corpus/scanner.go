package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File represents a chunkable document found during a corpus scan.
type File struct {
	RelPath string // Relative path from the corpus root (e.g., "guides/ladders.md")
	Folder  string // Folder path (path components except filename)
	AbsPath string // Absolute file path
}

// chunkableExts are the plain-text formats the scanner picks up. Binary
// formats need a dedicated extraction step and are skipped.
var chunkableExts = map[string]bool{
	".md":  true,
	".txt": true,
}

// Scan walks root and returns every chunkable file in it, hidden
// directories skipped.
func Scan(ctx context.Context, root string) ([]File, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access corpus root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus root %s is not a directory", root)
	}

	var files []File
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if !chunkableExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		relPath = filepath.ToSlash(relPath)

		folder := filepath.Dir(relPath)
		if folder == "." {
			folder = ""
		} else {
			folder = filepath.ToSlash(folder)
		}

		files = append(files, File{
			RelPath: relPath,
			Folder:  folder,
			AbsPath: path,
		})
		return nil
	})
	if err != nil {
		return files, fmt.Errorf("failed to scan corpus %s: %w", root, err)
	}

	return files, nil
}
