// Package actions defines the closed set of action variants a polkadots
// configuration can request. The engine dispatches exhaustively over these
// types; adding a new action kind means adding a variant here, a decode
// case, and an engine case.
package actions

import (
	"fmt"
	"strings"
)

// Action type tags as they appear in configuration files
const (
	KindSymlink = "SymlinkAction"
	KindCopy    = "CopyAction"
	KindMkdir   = "MkdirAction"
	KindCat     = "CatAction"
)

// Action is one configured step. Concrete variants are plain data; all
// filesystem work happens in the engine.
type Action interface {
	// Kind returns the action's configuration type tag
	Kind() string

	// Describe returns a short human-readable summary for logs and reports
	Describe() string
}

// SymlinkAction links Source (relative to the dotfile repository) to
// Destination. With DirMode, every direct child of Source is linked to the
// same name under Destination instead.
type SymlinkAction struct {
	Source      string
	Destination string
	DirMode     bool
}

func (a *SymlinkAction) Kind() string { return KindSymlink }

func (a *SymlinkAction) Describe() string {
	if a.DirMode {
		return fmt.Sprintf("link children of %s into %s", a.Source, a.Destination)
	}
	return fmt.Sprintf("link %s to %s", a.Source, a.Destination)
}

// CopyAction copies Source to Destination. With DirMode, every direct child
// of Source is copied instead. Existing destination files are skipped
// unless Overwrite is set.
type CopyAction struct {
	Source      string
	Destination string
	DirMode     bool
	Overwrite   bool
}

func (a *CopyAction) Kind() string { return KindCopy }

func (a *CopyAction) Describe() string {
	if a.DirMode {
		return fmt.Sprintf("copy children of %s into %s", a.Source, a.Destination)
	}
	return fmt.Sprintf("copy %s to %s", a.Source, a.Destination)
}

// MkdirAction creates Directory if it does not exist already. With Parents,
// missing parent directories are created too.
type MkdirAction struct {
	Directory string
	Parents   bool
}

func (a *MkdirAction) Kind() string { return KindMkdir }

func (a *MkdirAction) Describe() string {
	return fmt.Sprintf("mkdir %s", a.Directory)
}

// CatAction concatenates Sources in order into Destination, overwriting it.
type CatAction struct {
	Sources     []string
	Destination string
}

func (a *CatAction) Kind() string { return KindCat }

func (a *CatAction) Describe() string {
	return fmt.Sprintf("cat %s into %s", strings.Join(a.Sources, ", "), a.Destination)
}
