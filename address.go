// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import "fmt"

// addrKind tags what an Address was allocated for; it participates in
// equality so that a variable address and a cell address never collide
// even if their other coordinates happen to match.
type addrKind uint8

const (
	addrVariable addrKind = iota
	addrPrimitive
	addrCell
	addrKont
)

// Address is the abstract allocation handle of spec.md §3/§4.2.
// It is a plain comparable struct: total equality and hashing are the
// language's own struct-equality and map-key hashing, giving the
// required O(1) amortized behavior without a bespoke hash function.
type Address struct {
	kind addrKind
	name Identifier
	exp  uintptr
	t    Timestamp
	v    valueFingerprint
}

// valueFingerprint is the value-sensitive address coordinate. It must be
// comparable, so it stores a caller-supplied fingerprint of a Value
// rather than the Value itself (Values are not generally comparable).
type valueFingerprint struct {
	present bool
	key     string
}

func (a Address) String() string {
	switch a.kind {
	case addrVariable:
		return fmt.Sprintf("var(%s,%s,%v)", a.name, a.v.key, a.t)
	case addrPrimitive:
		return fmt.Sprintf("prim(%s)", a.name)
	case addrCell:
		return fmt.Sprintf("cell(%d,%v)", a.exp, a.t)
	default:
		return fmt.Sprintf("kont(%d)", a.exp)
	}
}

// AddressPolicy produces addresses from allocation coordinates
// (spec.md §4.2). Distinct coordinates retained by the policy yield
// distinct addresses; identical retained coordinates yield identical
// addresses (§8 property 6).
type AddressPolicy interface {
	Variable(id Identifier, v Value, t Timestamp) Address
	Primitive(name Identifier) Address
	Cell(e Exp, t Timestamp) Address
	Kont(e Exp) Address
}

// Fingerprint produces a comparable key for a Value, for use by
// value-sensitive address policies. Lattices that want value-sensitive
// allocation to be meaningful should implement this; lattices that
// don't are still usable with Classical allocation.
type Fingerprint interface {
	Fingerprint() string
}

// Classical allocates by name/expression and timestamp only (spec.md §4.2).
type Classical struct{}

func (Classical) Variable(id Identifier, _ Value, t Timestamp) Address {
	return Address{kind: addrVariable, name: id, t: t}
}

func (Classical) Primitive(name Identifier) Address {
	return Address{kind: addrPrimitive, name: name}
}

func (Classical) Cell(e Exp, t Timestamp) Address {
	return Address{kind: addrCell, exp: e.ExpID(), t: t}
}

func (Classical) Kont(e Exp) Address {
	return Address{kind: addrKont, exp: e.ExpID()}
}

// ValueSensitive folds the allocated value into the variable address
// (spec.md §4.2). Values that do not implement Fingerprint fall back to
// a shared "unknown" coordinate, collapsing precision instead of
// panicking.
type ValueSensitive struct{}

func fingerprintOf(v Value) valueFingerprint {
	if fp, ok := v.(Fingerprint); ok {
		return valueFingerprint{present: true, key: fp.Fingerprint()}
	}
	return valueFingerprint{present: true, key: "?"}
}

func (ValueSensitive) Variable(id Identifier, v Value, t Timestamp) Address {
	return Address{kind: addrVariable, name: id, t: t, v: fingerprintOf(v)}
}

func (ValueSensitive) Primitive(name Identifier) Address {
	return Address{kind: addrPrimitive, name: name}
}

func (ValueSensitive) Cell(e Exp, t Timestamp) Address {
	return Address{kind: addrCell, exp: e.ExpID(), t: t}
}

func (ValueSensitive) Kont(e Exp) Address {
	return Address{kind: addrKont, exp: e.ExpID()}
}
