// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

// Exp, Identifier and Parser are the kernel's view of the front-end
// collaborator named in spec.md §6. The kernel never inspects an Exp's
// shape beyond comparing it for the purposes of address/timestamp
// allocation (ExpID) and handing it to Semantics; parsing Scheme/ANF
// source text into an Exp tree is explicitly out of scope (spec.md §1).
type Exp interface {
	// ExpID identifies this sub-expression for allocation-site purposes
	// (kont/cell/primitive addresses, k-CFA call-site history). Two
	// syntactically distinct occurrences, even if structurally equal,
	// must return distinct ids; repeated visits to the same occurrence
	// must return the same id.
	ExpID() uintptr
}

// Identifier is a source-level variable name.
type Identifier string

// Parser turns source text into an Exp tree. The kernel depends only on
// this function type, never on a concrete parser implementation
// (spec.md §6 "Input language interface").
type Parser func(source string) (Exp, error)
