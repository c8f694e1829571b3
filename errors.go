// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import "github.com/pkg/errors"

// ExitCode is the process exit code contract of spec.md §6.
type ExitCode int

const (
	ExitOK                ExitCode = 0
	ExitInputError        ExitCode = 1
	ExitTimeout           ExitCode = 2
	ExitUnsupportedConfig ExitCode = 3
)

// InfraError is an infrastructural failure reported before exploration
// starts (spec.md §7: "file-not-found, unknown CLI option, unsupported
// lattice/machine combination... terminate with a non-zero exit
// code"). Wrapped with github.com/pkg/errors, which records a stack
// trace at the call site; cmd/aam prints only Error() and exits with
// Code.
type InfraError struct {
	Code ExitCode
	err  error
}

func (e *InfraError) Error() string { return e.err.Error() }
func (e *InfraError) Unwrap() error { return e.err }

// NewInfraError wraps msg with the given exit code, attaching a stack
// trace at the call site.
func NewInfraError(code ExitCode, msg string) *InfraError {
	return &InfraError{Code: code, err: errors.New(msg)}
}

// WrapInfraError wraps an existing error with the given exit code and a
// stack trace, for errors surfaced by os/io/parsing before exploration
// starts.
func WrapInfraError(code ExitCode, err error, msg string) *InfraError {
	return &InfraError{Code: code, err: errors.Wrap(err, msg)}
}
