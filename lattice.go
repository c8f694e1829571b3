// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

// UnaryOperator enumerates the unary operators a Value must dispatch.
type UnaryOperator int

const (
	OpNot UnaryOperator = iota
	OpNeg
	OpIsNull
	OpIsPair
	OpIsVector
	OpIsProcedure
	OpIsString
	OpIsSymbol
)

// BinaryOperator enumerates the binary operators a Value must dispatch.
// opMinus is subtraction: the copy-paste bug documented in spec.md §9
// ("opMinus implemented as addition") is intentionally not reproduced.
type BinaryOperator int

const (
	OpPlus BinaryOperator = iota
	OpMinus
	OpTimes
	OpDiv
	OpModulo
	OpLt
	OpNumEq
	OpEq
	OpCons
)

// Closure summarizes a lambda/environment pair reachable through a Value.
type Closure struct {
	Lambda Exp
	Env    Env
}

// Prim names a primitive operator reachable through a Value.
type Prim string

// Value is the abstract-value lattice contract of spec.md §3/§4.1.
//
// Implementations must never panic out of UnaryOp/BinaryOp: an
// inapplicable operator returns an error-tagged Value instead.
type Value interface {
	Bot() Value
	Join(Value) Value
	Leq(Value) bool

	IsTrue() bool
	IsFalse() bool
	IsError() bool

	UnaryOp(UnaryOperator) Value
	BinaryOp(BinaryOperator, Value) Value

	Closures() []Closure
	Prims() []Prim
	Tids() []ThreadID
	Pids() []PID
	Locks() []Address
	Car() []Address
	Cdr() []Address
}

// Counting is an optional capability: a lattice that can distinguish
// "exactly one allocation" from "more than one" at a given address,
// enabling strong update in the one-shot case (spec.md glossary).
type Counting interface {
	CountsExactly() bool
}

// Product combines two lattices component-wise (spec.md §4.1).
type Product[X, Y Value] struct {
	Fst X
	Snd Y
}

func (p Product[X, Y]) Bot() Value {
	return Product[X, Y]{Fst: p.Fst.Bot().(X), Snd: p.Snd.Bot().(Y)}
}

func (p Product[X, Y]) Join(o Value) Value {
	other := o.(Product[X, Y])
	return Product[X, Y]{
		Fst: p.Fst.Join(other.Fst).(X),
		Snd: p.Snd.Join(other.Snd).(Y),
	}
}

func (p Product[X, Y]) Leq(o Value) bool {
	other := o.(Product[X, Y])
	return p.Fst.Leq(other.Fst) && p.Snd.Leq(other.Snd)
}

func (p Product[X, Y]) IsTrue() bool  { return p.Fst.IsTrue() || p.Snd.IsTrue() }
func (p Product[X, Y]) IsFalse() bool { return p.Fst.IsFalse() || p.Snd.IsFalse() }
func (p Product[X, Y]) IsError() bool { return p.Fst.IsError() || p.Snd.IsError() }

func (p Product[X, Y]) UnaryOp(op UnaryOperator) Value {
	return Product[X, Y]{Fst: p.Fst.UnaryOp(op).(X), Snd: p.Snd.UnaryOp(op).(Y)}
}

func (p Product[X, Y]) BinaryOp(op BinaryOperator, o Value) Value {
	other := o.(Product[X, Y])
	return Product[X, Y]{
		Fst: p.Fst.BinaryOp(op, other.Fst).(X),
		Snd: p.Snd.BinaryOp(op, other.Snd).(Y),
	}
}

func (p Product[X, Y]) Closures() []Closure { return append(p.Fst.Closures(), p.Snd.Closures()...) }
func (p Product[X, Y]) Prims() []Prim       { return append(p.Fst.Prims(), p.Snd.Prims()...) }
func (p Product[X, Y]) Tids() []ThreadID    { return append(p.Fst.Tids(), p.Snd.Tids()...) }
func (p Product[X, Y]) Pids() []PID         { return append(p.Fst.Pids(), p.Snd.Pids()...) }
func (p Product[X, Y]) Locks() []Address    { return append(p.Fst.Locks(), p.Snd.Locks()...) }
func (p Product[X, Y]) Car() []Address      { return append(p.Fst.Car(), p.Snd.Car()...) }
func (p Product[X, Y]) Cdr() []Address      { return append(p.Fst.Cdr(), p.Snd.Cdr()...) }

// CountingProduct reports true iff both components of the product count.
func CountingProduct[X, Y Value](p Product[X, Y]) bool {
	cx, okx := any(p.Fst).(Counting)
	cy, oky := any(p.Snd).(Counting)
	return okx && oky && cx.CountsExactly() && cy.CountsExactly()
}
