package gosvn

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Revnum is a repository revision number. Negative values are invalid;
// InvalidRevnum marks "no revision".
type Revnum int64

const InvalidRevnum Revnum = -1

// Valid reports whether the revision number refers to a real revision.
func (r Revnum) Valid() bool { return r >= 0 }

func (r Revnum) String() string {
	if !r.Valid() {
		return "invalid"
	}
	return strconv.FormatInt(int64(r), 10)
}

// RevisionKind discriminates the Revision variant. The numeric values
// match svn_opt_revision_kind and cross the ABI boundary unchanged.
type RevisionKind int32

const (
	RevisionUnspecified RevisionKind = iota
	RevisionNumber
	RevisionDate
	RevisionCommitted
	RevisionPrevious
	RevisionBase
	RevisionWorking
	RevisionHead
)

// Revision selects a revision the way svn_opt_revision_t does: either
// symbolically (HEAD, BASE, ...), by number, or by date. The zero value
// is Unspecified.
type Revision struct {
	kind   RevisionKind
	number Revnum
	date   int64 // microseconds since epoch, apr_time_t
}

var (
	Unspecified = Revision{kind: RevisionUnspecified}
	Committed   = Revision{kind: RevisionCommitted}
	Previous    = Revision{kind: RevisionPrevious}
	Base        = Revision{kind: RevisionBase}
	Working     = Revision{kind: RevisionWorking}
	Head        = Revision{kind: RevisionHead}
)

// Rev selects revision n.
func Rev(n Revnum) Revision {
	return Revision{kind: RevisionNumber, number: n}
}

// RevDate selects the last revision at or before t.
func RevDate(t time.Time) Revision {
	return Revision{kind: RevisionDate, date: t.UnixMicro()}
}

// Kind returns the variant discriminator.
func (r Revision) Kind() RevisionKind { return r.kind }

// Number returns the revision number for RevisionNumber revisions.
func (r Revision) Number() Revnum { return r.number }

// Date returns the selection time for RevisionDate revisions.
func (r Revision) Date() time.Time { return time.UnixMicro(r.date) }

// Abi returns the (kind, value) pair stored in svn_opt_revision_t.
// The value slot is a union: revision number or apr_time_t.
func (r Revision) Abi() (kind int32, value int64) {
	switch r.kind {
	case RevisionNumber:
		return int32(r.kind), int64(r.number)
	case RevisionDate:
		return int32(r.kind), r.date
	default:
		return int32(r.kind), 0
	}
}

// RevisionFromAbi rebuilds a Revision from its native representation.
func RevisionFromAbi(kind int32, value int64) (Revision, error) {
	k := RevisionKind(kind)
	switch k {
	case RevisionUnspecified, RevisionCommitted, RevisionPrevious,
		RevisionBase, RevisionWorking, RevisionHead:
		return Revision{kind: k}, nil
	case RevisionNumber:
		return Revision{kind: k, number: Revnum(value)}, nil
	case RevisionDate:
		return Revision{kind: k, date: value}, nil
	}
	return Revision{}, fmt.Errorf("unknown revision kind %d", kind)
}

func (r Revision) String() string {
	switch r.kind {
	case RevisionUnspecified:
		return "unspecified"
	case RevisionNumber:
		return r.number.String()
	case RevisionDate:
		return "{" + r.Date().UTC().Format(time.RFC3339) + "}"
	case RevisionCommitted:
		return "COMMITTED"
	case RevisionPrevious:
		return "PREV"
	case RevisionBase:
		return "BASE"
	case RevisionWorking:
		return "WORKING"
	case RevisionHead:
		return "HEAD"
	}
	return fmt.Sprintf("revision(%d)", int32(r.kind))
}

// ParseRevision accepts the forms the svn command line accepts: a bare
// number, a keyword (HEAD, BASE, COMMITTED, PREV, WORKING), or a date in
// braces ({2023-01-01} or {2023-01-01T12:00:00Z}).
func ParseRevision(s string) (Revision, error) {
	switch strings.ToUpper(s) {
	case "":
		return Revision{}, fmt.Errorf("empty revision")
	case "HEAD":
		return Head, nil
	case "BASE":
		return Base, nil
	case "COMMITTED":
		return Committed, nil
	case "PREV", "PREVIOUS":
		return Previous, nil
	case "WORKING":
		return Working, nil
	case "UNSPECIFIED":
		return Unspecified, nil
	}
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		inner := s[1 : len(s)-1]
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, inner); err == nil {
				return RevDate(t), nil
			}
		}
		return Revision{}, fmt.Errorf("invalid revision date %q", inner)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return Revision{}, fmt.Errorf("invalid revision %q", s)
	}
	return Rev(Revnum(n)), nil
}
