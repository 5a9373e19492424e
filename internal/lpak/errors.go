package lpak

import "errors"

var (
	// ErrBadSignature is returned when the container does not begin with an LPAK magic.
	ErrBadSignature = errors.New("not an LPAK file")

	// ErrUnsupportedVariant is returned when the header identifies the post-Full Throttle
	// record layout, which this reader does not implement.
	ErrUnsupportedVariant = errors.New("post-Full Throttle LPAK variant not supported")

	// ErrTruncated is returned when a declared offset or length exceeds the physical
	// size of the container.
	ErrTruncated = errors.New("bundle truncated")

	// ErrUnsafePath is returned when an entry's stored path would resolve outside the
	// extraction destination.
	ErrUnsafePath = errors.New("unsafe entry path")
)
