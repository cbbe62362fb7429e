package gosvn

import "fmt"

// NodeKind is the type of a tree node. Values match svn_node_kind_t.
type NodeKind int32

const (
	NodeNone NodeKind = iota
	NodeFile
	NodeDir
	NodeUnknown
)

func (k NodeKind) String() string {
	switch k {
	case NodeNone:
		return "none"
	case NodeFile:
		return "file"
	case NodeDir:
		return "dir"
	case NodeUnknown:
		return "unknown"
	}
	return fmt.Sprintf("node(%d)", int32(k))
}

// CommitInfo describes one committed revision, copied out of
// svn_commit_info_t before its pool is released.
type CommitInfo struct {
	Revision      Revnum
	Date          string
	Author        string
	PostCommitErr string
	ReposRoot     string
}

// Version identifies a loaded Subversion library.
type Version struct {
	Major int32
	Minor int32
	Patch int32
	Tag   string
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d%s", v.Major, v.Minor, v.Patch, v.Tag)
}

// NotifyAction says what a progress notification is about. Values match
// svn_wc_notify_action_t.
type NotifyAction int32

const (
	NotifyAdd NotifyAction = iota
	NotifyCopy
	NotifyDelete
	NotifyRestore
	NotifyRevert
	NotifyFailedRevert
	NotifyResolved
	NotifySkip
	NotifyUpdateDelete
	NotifyUpdateAdd
	NotifyUpdateUpdate
	NotifyUpdateCompleted
	NotifyUpdateExternal
	NotifyStatusCompleted
	NotifyStatusExternal
	NotifyCommitModified
	NotifyCommitAdded
	NotifyCommitDeleted
	NotifyCommitReplaced
	NotifyCommitPostfixTxdelta
	NotifyBlameRevision
)

func (a NotifyAction) String() string {
	switch a {
	case NotifyAdd:
		return "add"
	case NotifyCopy:
		return "copy"
	case NotifyDelete:
		return "delete"
	case NotifyRestore:
		return "restore"
	case NotifyRevert:
		return "revert"
	case NotifyFailedRevert:
		return "failed-revert"
	case NotifyResolved:
		return "resolved"
	case NotifySkip:
		return "skip"
	case NotifyUpdateDelete:
		return "update-delete"
	case NotifyUpdateAdd:
		return "update-add"
	case NotifyUpdateUpdate:
		return "update"
	case NotifyUpdateCompleted:
		return "update-completed"
	case NotifyUpdateExternal:
		return "update-external"
	case NotifyStatusCompleted:
		return "status-completed"
	case NotifyStatusExternal:
		return "status-external"
	case NotifyCommitModified:
		return "commit-modified"
	case NotifyCommitAdded:
		return "commit-added"
	case NotifyCommitDeleted:
		return "commit-deleted"
	case NotifyCommitReplaced:
		return "commit-replaced"
	case NotifyCommitPostfixTxdelta:
		return "commit-postfix-txdelta"
	case NotifyBlameRevision:
		return "blame-revision"
	}
	return fmt.Sprintf("action(%d)", int32(a))
}

// Notify is the Go copy of a svn_wc_notify_t progress notification. The
// struct is copied before the callback returns; it never references
// native memory.
type Notify struct {
	Path     string
	Action   NotifyAction
	Kind     NodeKind
	Revision Revnum
}

// StatusKind is the working copy status of an item. Values match
// enum svn_wc_status_kind (which starts at 1).
type StatusKind int32

const (
	StatusNone StatusKind = iota + 1
	StatusUnversioned
	StatusNormal
	StatusAdded
	StatusMissing
	StatusDeleted
	StatusReplaced
	StatusModified
	StatusMerged
	StatusConflicted
	StatusIgnored
	StatusObstructed
	StatusExternal
	StatusIncomplete
)

func (s StatusKind) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusUnversioned:
		return "unversioned"
	case StatusNormal:
		return "normal"
	case StatusAdded:
		return "added"
	case StatusMissing:
		return "missing"
	case StatusDeleted:
		return "deleted"
	case StatusReplaced:
		return "replaced"
	case StatusModified:
		return "modified"
	case StatusMerged:
		return "merged"
	case StatusConflicted:
		return "conflicted"
	case StatusIgnored:
		return "ignored"
	case StatusObstructed:
		return "obstructed"
	case StatusExternal:
		return "external"
	case StatusIncomplete:
		return "incomplete"
	}
	return fmt.Sprintf("status(%d)", int32(s))
}
