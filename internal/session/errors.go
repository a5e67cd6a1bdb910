package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession is returned by Store.Last when no session file exists.
	ErrNoSession = errors.New("no session found")

	// ErrSessionEnded is returned when appending to a stopped session.
	ErrSessionEnded = errors.New("session has already ended")

	// ErrMarkNotEmpty is returned by Write when the last mark already has
	// contents. Erase and retry to overwrite.
	ErrMarkNotEmpty = errors.New("mark already has contents")

	// ErrContentsNotEncodable is returned by Write for text the document
	// format reserves: a heading of level 1 to 3 on any line, or a first
	// line that reads as a label.
	ErrContentsNotEncodable = errors.New("contents cannot be stored in a mark")

	ErrInvalidTag = errors.New("invalid tag")
	ErrEncode     = errors.New("cannot encode session")
)

// Decode failure kinds, wrapped by *DecodeError.
var (
	ErrMalformedHeader   = errors.New("malformed document header")
	ErrMarkDate          = errors.New("invalid mark date")
	ErrMalformedLabel    = errors.New("malformed label line")
	ErrAttributeConflict = errors.New("more than one attribute on a mark")
	ErrNoMarks           = errors.New("no marks found")
)

// DecodeError is returned when a session document cannot be decoded.
// Line is 1-based and zero when the failure is not tied to a line.
type DecodeError struct {
	Path string
	Line int
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("decoding %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("decoding %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
