package gosvn

import "fmt"

// Depth limits the scope of an operation over a directory tree. The
// zero value is DepthUnknown so option structs can tell "not set" apart
// from an explicit DepthEmpty; Abi converts to the svn_depth_t value.
type Depth int32

const (
	DepthUnknown Depth = iota
	DepthExclude
	DepthEmpty
	DepthFiles
	DepthImmediates
	DepthInfinity
)

// Valid reports whether d is one of the closed set of depths.
func (d Depth) Valid() bool {
	return d >= DepthUnknown && d <= DepthInfinity
}

// Abi returns the svn_depth_t value (unknown is -2, infinity is 3).
func (d Depth) Abi() int32 {
	return int32(d) - 2
}

// DepthFromAbi converts a svn_depth_t value back to a Depth.
func DepthFromAbi(v int32) (Depth, error) {
	d := Depth(v + 2)
	if !d.Valid() {
		return DepthUnknown, fmt.Errorf("invalid svn_depth_t value %d", v)
	}
	return d, nil
}

func (d Depth) String() string {
	switch d {
	case DepthUnknown:
		return "unknown"
	case DepthExclude:
		return "exclude"
	case DepthEmpty:
		return "empty"
	case DepthFiles:
		return "files"
	case DepthImmediates:
		return "immediates"
	case DepthInfinity:
		return "infinity"
	}
	return fmt.Sprintf("depth(%d)", int32(d))
}

// ParseDepth parses the string forms used by the svn command line.
func ParseDepth(s string) (Depth, error) {
	switch s {
	case "unknown":
		return DepthUnknown, nil
	case "exclude":
		return DepthExclude, nil
	case "empty":
		return DepthEmpty, nil
	case "files":
		return DepthFiles, nil
	case "immediates":
		return DepthImmediates, nil
	case "infinity":
		return DepthInfinity, nil
	}
	return DepthUnknown, fmt.Errorf("invalid depth %q", s)
}
