// Package testutil provides shared helpers for filesystem-based tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// CreateFile creates a file with the given content in the specified
// directory, creating parents as needed. It fails the test on error.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}

	return path
}

// CreateDir creates a directory in the specified parent directory.
// It fails the test if the directory cannot be created.
func CreateDir(t *testing.T, parent, name string) string {
	t.Helper()

	path := filepath.Join(parent, name)
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", path, err)
	}

	return path
}

// CreateSymlink creates a symbolic link pointing to target.
// It fails the test if the symlink cannot be created.
func CreateSymlink(t *testing.T, target, link string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(link), 0755); err != nil {
		t.Fatalf("Failed to create parent directory for symlink %s: %v", link, err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("Failed to create symlink %s -> %s: %v", link, target, err)
	}
}

// ReadLink returns the target of a symlink, failing the test if the path
// is not a symlink.
func ReadLink(t *testing.T, link string) string {
	t.Helper()

	target, err := os.Readlink(link)
	if err != nil {
		t.Fatalf("Failed to read symlink %s: %v", link, err)
	}
	return target
}

// IsSymlink reports whether path exists and is a symbolic link.
func IsSymlink(t *testing.T, path string) bool {
	t.Helper()

	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

// Exists reports whether path exists (without following symlinks).
func Exists(t *testing.T, path string) bool {
	t.Helper()

	_, err := os.Lstat(path)
	return err == nil
}
