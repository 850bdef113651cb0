// Package apperror classifies the failures a preview request can hit so that
// handlers can map them to an HTTP status without inspecting messages.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/containerd/errdefs"
)

// Kind is the failure class of an Error.
type Kind int

const (
	// KindConfiguration means a store or asset is not declared in configuration.
	KindConfiguration Kind = iota + 1
	// KindNetwork means a remote fetch failed (transport or non-2xx status).
	KindNetwork
	// KindRender means a fixture was missing/malformed or the renderer failed.
	KindRender
	// KindFileSystem means a local directory or file could not be read.
	KindFileSystem
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration error"
	case KindNetwork:
		return "network error"
	case KindRender:
		return "render error"
	case KindFileSystem:
		return "file system error"
	default:
		return "unknown error"
	}
}

// class returns the errdefs sentinel matching the kind.
func (k Kind) class() error {
	switch k {
	case KindConfiguration:
		return errdefs.ErrNotFound
	case KindNetwork:
		return errdefs.ErrUnavailable
	case KindFileSystem:
		return errdefs.ErrDataLoss
	default:
		return errdefs.ErrInternal
	}
}

// Error carries the kind, the operation that failed and the cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the cause and the errdefs class, so errors.Is and the
// errdefs.Is* helpers work on wrapped values.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.class()}
	}
	return []error{e.Err, e.Kind.class()}
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Configuration wraps err as a configuration error.
func Configuration(op string, err error) error { return newError(KindConfiguration, op, err) }

// Network wraps err as a network error.
func Network(op string, err error) error { return newError(KindNetwork, op, err) }

// Render wraps err as a render error.
func Render(op string, err error) error { return newError(KindRender, op, err) }

// FileSystem wraps err as a file system error.
func FileSystem(op string, err error) error { return newError(KindFileSystem, op, err) }

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps err to the status code a handler should answer with.
// Only a configuration miss is a client error.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errdefs.IsNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
