package ioutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/handiism/vocal-isolator/internal/model"
)

// DirExists reports whether path exists and is a directory.
//
// Any stat error, including permission problems, counts as "does not exist":
// the caller treats both the same way and reports the resolved path.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// ListEligibleSongs returns the names of eligible songs in dir, sorted.
//
// A song is eligible when it is a regular file (or a symlink to one) whose
// name ends in layout.AudioExt and does not contain layout.ExcludeMarker.
// Subdirectories, including the output folder, are never listed.
//
// Example:
//
//	// dir contains a.mp3, b_Instrumental.mp3, c.txt
//	songs, err := ListEligibleSongs(dir, layout)
//	// songs == []string{"a.mp3"}
func ListEligibleSongs(dir string, layout model.Layout) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var songs []string
	for _, entry := range entries {
		if !model.IsEligible(entry.Name(), layout) {
			continue
		}
		if !isRegular(dir, entry) {
			continue
		}
		songs = append(songs, entry.Name())
	}

	sort.Strings(songs)
	return songs, nil
}

// ListOutputs returns the names of processed songs in dir, sorted.
//
// Outputs end in layout.OutputSuffix + layout.AudioExt. Hidden files, such
// as in-progress temporary outputs, are skipped.
func ListOutputs(dir string, layout model.Layout) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	suffix := layout.OutputSuffix + layout.AudioExt
	var outputs []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, suffix) {
			continue
		}
		if !isRegular(dir, entry) {
			continue
		}
		outputs = append(outputs, name)
	}

	sort.Strings(outputs)
	return outputs, nil
}

func isRegular(dir string, entry os.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned. A regular file
// in the way is reported as an error.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return nil
}

// ReplaceFile moves src onto dst, replacing dst if it exists.
// Both paths must be on the same file system.
func ReplaceFile(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("move %s to %s: %w", filepath.Base(src), dst, err)
	}
	return nil
}

// FileSize returns the size of path in bytes, or 0 if it cannot be read.
func FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// RemoveIfExists deletes path, ignoring a missing file.
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
