// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import "fmt"

// SemanticErrorKind enumerates the structured semantic failure kinds of
// spec.md §3.
type SemanticErrorKind uint8

const (
	OperatorNotApplicable SemanticErrorKind = iota
	ArityError
	VariadicArityError
	TypeError
	UserError
	UnboundVariable
	UnboundAddress
	MessageNotSupported
	NotSupported
)

// Position is a source position, carried by UserError when available
// (spec.md §7).
type Position struct {
	Line, Col int
}

// SemanticError is a structured semantic failure (spec.md §3/§7): it
// becomes a state whose Control is Error(err) with no successors, never
// a Go panic. Implements the error interface so it composes with
// github.com/pkg/errors at the CLI boundary.
type SemanticError struct {
	Kind    SemanticErrorKind
	Message string
	Pos     *Position // non-nil only for UserError
}

func (e SemanticError) Error() string {
	if e.Pos != nil {
		return fmt.Sprintf("%s at %d:%d: %s", e.kindName(), e.Pos.Line, e.Pos.Col, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.kindName(), e.Message)
}

func (e SemanticError) kindName() string {
	switch e.Kind {
	case OperatorNotApplicable:
		return "operator-not-applicable"
	case ArityError:
		return "arity-error"
	case VariadicArityError:
		return "variadic-arity-error"
	case TypeError:
		return "type-error"
	case UserError:
		return "user-error"
	case UnboundVariable:
		return "unbound-variable"
	case UnboundAddress:
		return "unbound-address"
	case MessageNotSupported:
		return "message-not-supported"
	case NotSupported:
		return "not-supported"
	default:
		return "unknown-error"
	}
}

// FrameKey lets SemanticError double as a Frame in the rare case a
// machine needs to key a halted-with-error state by the error itself.
func (e SemanticError) FrameKey() string { return "error:" + e.Error() }
