package inspect

import (
	"errors"
	"fmt"
	"io/fs"

	"lineinspect/internal/document"
)

// Kind classifies why an inspection could not complete.
type Kind string

const (
	KindNotFound      Kind = "not found"
	KindAccessDenied  Kind = "access denied"
	KindDecode        Kind = "decode error"
	KindOutOfRange    Kind = "out of range"
	KindInvalidTarget Kind = "invalid target"
	KindIO            Kind = "io error"
)

// Sentinels for errors.Is matching against an *Error's kind.
var (
	ErrNotFound      = errors.New(string(KindNotFound))
	ErrAccessDenied  = errors.New(string(KindAccessDenied))
	ErrDecode        = errors.New(string(KindDecode))
	ErrOutOfRange    = errors.New(string(KindOutOfRange))
	ErrInvalidTarget = errors.New(string(KindInvalidTarget))
	ErrIO            = errors.New(string(KindIO))
)

var sentinels = map[Kind]error{
	KindNotFound:      ErrNotFound,
	KindAccessDenied:  ErrAccessDenied,
	KindDecode:        ErrDecode,
	KindOutOfRange:    ErrOutOfRange,
	KindInvalidTarget: ErrInvalidTarget,
	KindIO:            ErrIO,
}

// Error is the single error type an inspection reports.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// KindOf returns the kind of err, or KindIO for foreign errors.
func KindOf(err error) Kind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return KindIO
}

// classify maps a document load failure onto the closed kind set.
func classify(path string, err error) *Error {
	var kind Kind
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = KindNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = KindAccessDenied
	case errors.Is(err, document.ErrInvalidUTF8):
		kind = KindDecode
	case errors.Is(err, document.ErrLineOutOfRange):
		kind = KindOutOfRange
	default:
		kind = KindIO
	}
	return &Error{Kind: kind, Path: path, Err: err}
}
