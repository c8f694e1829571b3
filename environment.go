// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import (
	"sort"
	"strings"
)

func sortIdentifiers(ids []Identifier) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// Env is the variable-name-to-address environment of spec.md §3.
// It is immutable after construction: Extend and ExtendAll always
// return a fresh Env, the same construction discipline the teacher
// package uses for Expr (ExprBind/ExprMap never mutate their receiver).
type Env struct {
	bindings map[Identifier]Address
}

// NewEnv creates an empty environment.
func NewEnv() Env {
	return Env{bindings: map[Identifier]Address{}}
}

// Lookup returns the address bound to id, or (zero, false) when unbound
// (spec.md §3: "lookup (may be undefined)").
func (e Env) Lookup(id Identifier) (Address, bool) {
	a, ok := e.bindings[id]
	return a, ok
}

// Extend returns a new environment with id bound to a.
func (e Env) Extend(id Identifier, a Address) Env {
	next := make(map[Identifier]Address, len(e.bindings)+1)
	for k, v := range e.bindings {
		next[k] = v
	}
	next[id] = a
	return Env{bindings: next}
}

// Binding is one (name, address) pair for multi-extension.
type Binding struct {
	Name Identifier
	Addr Address
}

// ExtendAll returns a new environment with every binding in bs applied.
func (e Env) ExtendAll(bs []Binding) Env {
	next := make(map[Identifier]Address, len(e.bindings)+len(bs))
	for k, v := range e.bindings {
		next[k] = v
	}
	for _, b := range bs {
		next[b.Name] = b.Addr
	}
	return Env{bindings: next}
}

// Len reports the number of bindings, for test/debug use.
func (e Env) Len() int { return len(e.bindings) }

// Key returns a structural fingerprint of the environment, order
// independent, suitable for composing into a State's hash key. Env
// itself embeds a map and so is not directly usable as a Go map key
// (spec.md §3 "insertion-order irrelevant" is exactly what this must
// preserve: two environments with the same bindings in any insertion
// order produce the same Key).
func (e Env) Key() string {
	names := make([]Identifier, 0, len(e.bindings))
	for id := range e.bindings {
		names = append(names, id)
	}
	sortIdentifiers(names)
	var b strings.Builder
	for _, id := range names {
		b.WriteString(string(id))
		b.WriteByte('=')
		b.WriteString(e.bindings[id].String())
		b.WriteByte(';')
	}
	return b.String()
}
