// Package errors is the error toolkit for infrastructure code: stdlib
// matching plus pkg/errors stack traces. Domain failures use domain/errors.
package errors

import (
	stderrors "errors"

	pkgerrors "github.com/pkg/errors"
)

func New(text string) error {
	return stderrors.New(text)
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Wrap attaches a stack trace and message. A nil err stays nil, so results of
// Close and Shutdown can be returned through it directly.
func Wrap(err error, message string) error {
	return pkgerrors.Wrap(err, message)
}

func Wrapf(err error, format string, args ...any) error {
	return pkgerrors.Wrapf(err, format, args...)
}

func WithStack(err error) error {
	return pkgerrors.WithStack(err)
}

// Ignore returns nil when err matches one of the expected sentinels, such as
// http.ErrServerClosed after a graceful shutdown, and err with a stack otherwise.
func Ignore(err error, expected ...error) error {
	for _, target := range expected {
		if stderrors.Is(err, target) {
			return nil
		}
	}

	return pkgerrors.WithStack(err)
}
