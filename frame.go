// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

// Frame is one suspended continuation frame (spec.md §3). It is opaque
// to the machine — defined entirely by a language's Semantics — but
// must be hashable/equable so that States built on top of it can be
// de-duplicated.
//
// This mirrors the teacher's Frame marker interface: a pure marker
// plus a type switch in the consumer, never a tag field.
type Frame interface {
	FrameKey() string
}

// KontHalt is the terminal continuation marker (spec.md §3).
type KontHalt struct{}

func (KontHalt) FrameKey() string { return "halt" }

// kontCell is one cell of a kont-store: a frame paired with the
// address of the rest of the continuation. Chaining by address rather
// than by pointer is what lets recursive continuations coalesce
// (spec.md §3/§9 "Continuations reference prior continuations by
// address, not pointer"; grounded on the teacher's chainedFrame/
// ChainFrames, which link frame chains by value rather than by
// mutating a shared list).
type kontCell struct {
	Frame Frame
	Tail  Address
}

// Kont is an ordered chain of frames addressed through a store, as
// described in spec.md §3 ("Continuation κ"). Addr is the handle into
// whichever kont-store is in scope (the per-state store in AAM, or the
// global kont-store in Free); Direct is populated instead only by
// HaltKont, the one continuation kept inline.
type Kont struct {
	Addr   Address
	Direct *kontCell
}

// HaltKont is the initial/terminal continuation: no frames, nothing to
// pop.
var HaltKont = Kont{Direct: &kontCell{Frame: KontHalt{}, Tail: Address{}}}

// Key returns a structural fingerprint for State de-duplication.
func (k Kont) Key() string {
	if k.Direct != nil {
		return "d:" + k.Direct.Frame.FrameKey() + "/" + k.Direct.Tail.String()
	}
	return "a:" + k.Addr.String()
}
