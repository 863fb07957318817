package liveset

import (
	"errors"
	"fmt"
)

var (
	// ErrNotGzip is wrapped by a FormatError when the input is not a gzip stream.
	ErrNotGzip = errors.New("not a gzip stream")
	// ErrBadXML is wrapped by a FormatError when the decompressed content is
	// not well-formed XML.
	ErrBadXML = errors.New("malformed XML")
	// ErrNotLiveSet is wrapped by a FormatError when the document lacks the
	// LiveSet or Tracks containers.
	ErrNotLiveSet = errors.New("not an Ableton Live set")
)

// FormatError is returned when the input cannot be read as a Live set at
// all. No partial LiveSet accompanies it.
type FormatError struct {
	Path   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	path := e.Path
	if path == "" {
		path = "<input>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", path, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", path, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

// MalformedElementError is returned when a warp marker or note event lacks
// a mandatory attribute or carries one that does not parse.
type MalformedElementError struct {
	Tag   string
	Attr  string
	Value string
}

func (e *MalformedElementError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: missing %s", e.Tag, e.Attr)
	}
	return fmt.Sprintf("%s: invalid %s %q", e.Tag, e.Attr, e.Value)
}

// TrackIndexError is returned for a 1-based track index outside the set.
type TrackIndexError struct {
	Path  string
	Index int
	Count int
}

func (e *TrackIndexError) Error() string {
	if e.Index < 1 {
		return fmt.Sprintf("track number must be at least 1, got %d", e.Index)
	}
	path := e.Path
	if path == "" {
		path = "set"
	}
	return fmt.Sprintf("%s has only %d tracks", path, e.Count)
}
