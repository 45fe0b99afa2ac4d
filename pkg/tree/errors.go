package tree

import (
	"errors"
	"fmt"
)

// ErrorKind classifies fatal tree failures.
type ErrorKind int

const (
	// InvalidContainerConfiguration means the source tree cannot be mapped onto
	// Guru's container levels.
	InvalidContainerConfiguration ErrorKind = iota + 1
	// TreePathNotFound means a path was resolved without creating missing nodes.
	TreePathNotFound
	// InvalidTreeOperation means a child was attached to, or traversed through, a card.
	InvalidTreeOperation
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidContainerConfiguration:
		return "invalid container configuration"
	case TreePathNotFound:
		return "tree path not found"
	case InvalidTreeOperation:
		return "invalid tree operation"
	default:
		return "unknown tree error"
	}
}

// Sentinels for errors.Is.
var (
	ErrInvalidContainerConfiguration = &Error{Kind: InvalidContainerConfiguration}
	ErrTreePathNotFound              = &Error{Kind: TreePathNotFound}
	ErrInvalidTreeOperation          = &Error{Kind: InvalidTreeOperation}
)

// Error is a fatal tree failure tied to the offending path.
type Error struct {
	Kind ErrorKind
	Path string
	Msg  string
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Path != "":
		return fmt.Sprintf("%s: %s (at %q)", e.Kind, e.Msg, e.Path)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	case e.Path != "":
		return fmt.Sprintf("%s: %q", e.Kind, e.Path)
	default:
		return e.Kind.String()
	}
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// IsKind reports whether err wraps a tree error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == kind
}

// NewError builds a tree error of the given kind.
func NewError(kind ErrorKind, path, format string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, Msg: fmt.Sprintf(format, args...)}
}
