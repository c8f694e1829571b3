// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package testlat is a small, hand-built ANF-ish expression language
// and lattice used to drive the kernel end to end (cmd/aam's built-in
// scenarios, the kernel's own scenario tests). It is deliberately not
// a real Scheme/ANF front-end — parsing source text is out of scope —
// programs are built by calling Go constructors directly.
package testlat

import (
	"sync/atomic"

	"github.com/hybscloud/aam"
)

// Kind tags the shape of a Node.
type Kind int

const (
	KInt Kind = iota
	KBool
	KVar
	KIf
	KLambda
	KApp
	KLet
	KLetrec
	KBegin
	KSet
	KPrim
	KCreateActor
	KSend
	KPeek
	KSpawn
	KJoin
)

// Bind is one let-binding.
type Bind struct {
	Name  aam.Identifier
	Value *Node
}

// Node is the sole Exp implementation in this package. Not every field
// is meaningful for every Kind; see the constructors below for which
// fields each Kind uses.
type Node struct {
	id uintptr

	Kind Kind

	IntVal  int
	BoolVal bool
	Name    aam.Identifier

	Params []aam.Identifier
	Body   *Node // Lambda body; Let/Letrec continuation; If's cond holder unused

	ValueExpr *Node // Letrec/Set: the expression producing the bound/written value (Let uses Bindings)
	Bindings  []Bind

	Fn   *Node
	Args []*Node

	Cond, Then, Else *Node

	Seq []*Node // Begin

	Op string // Prim

	BehaviorName string // CreateActor
	Target       *Node  // Send/Peek: expression evaluating to a PID value
	MsgName      string // Send
}

// ExpID implements aam.Exp.
func (n *Node) ExpID() uintptr { return n.id }

var idCounter uint64

func newNode(k Kind) *Node {
	id := atomic.AddUint64(&idCounter, 1)
	return &Node{id: uintptr(id), Kind: k}
}

func Int(v int) *Node        { n := newNode(KInt); n.IntVal = v; return n }
func Bool(v bool) *Node      { n := newNode(KBool); n.BoolVal = v; return n }
func Var(name string) *Node  { n := newNode(KVar); n.Name = aam.Identifier(name); return n }

func If(cond, then, els *Node) *Node {
	n := newNode(KIf)
	n.Cond, n.Then, n.Else = cond, then, els
	return n
}

func Lambda(params []string, body *Node) *Node {
	n := newNode(KLambda)
	ids := make([]aam.Identifier, len(params))
	for i, p := range params {
		ids[i] = aam.Identifier(p)
	}
	n.Params, n.Body = ids, body
	return n
}

func App(fn *Node, args ...*Node) *Node {
	n := newNode(KApp)
	n.Fn, n.Args = fn, args
	return n
}

func Let(name string, value, body *Node) *Node {
	n := newNode(KLet)
	n.Bindings = []Bind{{Name: aam.Identifier(name), Value: value}}
	n.Body = body
	return n
}

func Letrec(name string, value, body *Node) *Node {
	n := newNode(KLetrec)
	n.Name, n.ValueExpr, n.Body = aam.Identifier(name), value, body
	return n
}

func Begin(exprs ...*Node) *Node {
	n := newNode(KBegin)
	n.Seq = exprs
	return n
}

func Set(name string, value *Node) *Node {
	n := newNode(KSet)
	n.Name, n.ValueExpr = aam.Identifier(name), value
	return n
}

func Prim(op string, args ...*Node) *Node {
	n := newNode(KPrim)
	n.Op, n.Args = op, args
	return n
}

// CreateActor builds an expression that spawns a fresh actor of the
// named behavior and evaluates to its PID (spec.md §4.7 Create).
func CreateActor(behaviorName string) *Node {
	n := newNode(KCreateActor)
	n.BehaviorName = behaviorName
	return n
}

// Send builds an expression sending a (possibly zero-arg) message to
// the actor target evaluates to. Message arguments may be any
// expression; they are evaluated left to right after target, before
// the message is sent.
func Send(target *Node, msgName string, args ...*Node) *Node {
	n := newNode(KSend)
	n.Target, n.MsgName, n.Args = target, msgName, args
	return n
}

// Peek reads the store cell backing target's PID directly. This is a
// demonstration-only introspection hook (no real actor language
// exposes this) used so scenario tests can observe an actor's
// internal counter without an ask/reply protocol.
func Peek(target *Node) *Node {
	n := newNode(KPeek)
	n.Target = target
	return n
}

// Spawn builds an expression that forks body into a fresh concurrent
// thread (spec.md §4.6 Spawn) and evaluates to body's own ThreadID, so
// a later Join can name it.
func Spawn(body *Node) *Node {
	n := newNode(KSpawn)
	n.Body = body
	return n
}

// Join builds an expression that blocks until target's thread (target
// must evaluate to a ThreadID) has halted, evaluating to the join of
// that thread's every halted local state's final value (spec.md §4.6
// Join: "only enabled when every current thread state of tid is
// halted").
func Join(target *Node) *Node {
	n := newNode(KJoin)
	n.Target = target
	return n
}
