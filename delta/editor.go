// Package delta exposes the tree delta editor: the visitor interface
// Subversion drives to describe a change between two trees.
//
// A Go Editor is wrapped into a native svn_delta_editor_t whose slots
// dispatch back through the trampoline baton table. Directory and file
// batons are nested registrations, so the native driver can interleave
// opens and closes in any order it likes while every callback still
// lands on the right Go object. Text delta windows are not surfaced;
// ApplyTextDelta reports that content changed and the window stream is
// discarded.
package delta

import gosvn "github.com/gosvn/gosvn"

// Editor receives one whole edit drive: an optional target revision,
// one root open, and a final close or abort.
type Editor interface {
	// SetTargetRevision announces the revision the edit transforms the
	// tree into. Called at most once, before OpenRoot.
	SetTargetRevision(rev gosvn.Revnum) error

	// OpenRoot starts the drive at the tree root as it was at baseRev.
	OpenRoot(baseRev gosvn.Revnum) (DirectoryEditor, error)

	// CloseEdit ends a completed drive.
	CloseEdit() error

	// AbortEdit ends a failed drive. The native driver may call it at
	// any point after OpenRoot.
	AbortEdit() error
}

// DirectoryEditor receives the changes inside one directory. Paths are
// relative to the edit root.
type DirectoryEditor interface {
	DeleteEntry(path string, rev gosvn.Revnum) error
	AddDirectory(path, copyfromPath string, copyfromRev gosvn.Revnum) (DirectoryEditor, error)
	OpenDirectory(path string, baseRev gosvn.Revnum) (DirectoryEditor, error)
	AbsentDirectory(path string) error
	AddFile(path, copyfromPath string, copyfromRev gosvn.Revnum) (FileEditor, error)
	OpenFile(path string, baseRev gosvn.Revnum) (FileEditor, error)
	AbsentFile(path string) error

	// ChangeProp sets, or with a nil value deletes, a property on the
	// directory itself.
	ChangeProp(name string, value []byte) error

	// Close ends this directory; no more callbacks reference it.
	Close() error
}

// FileEditor receives the changes to one file.
type FileEditor interface {
	// ApplyTextDelta announces that the file's contents change.
	// baseChecksum, when non-empty, is the MD5 of the text the delta
	// applies against.
	ApplyTextDelta(baseChecksum string) error

	// ChangeProp sets, or with a nil value deletes, a property.
	ChangeProp(name string, value []byte) error

	// Close ends the file. textChecksum, when non-empty, is the MD5 of
	// the resulting text.
	Close(textChecksum string) error
}
