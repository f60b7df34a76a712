// Package types holds the shared interfaces and result types used by the
// polkadots action engine and its collaborators.
package types

import (
	"io/fs"
)

// FS is the filesystem interface required for polkadots operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// WriteFileAtomic writes data so that observers never see a partial
	// file (temp file plus rename on the OS implementation)
	WriteFileAtomic(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	ReadDir(name string) ([]fs.DirEntry, error)
	Mkdir(path string, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Remove(name string) error
}
