// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import "sort"

// MessageSpec declares one message a Behavior accepts, for the arity
// checking spec.md §9 asks stepReceive to perform ("ensure stepReceive
// dispatches by message name with arity checks").
type MessageSpec struct {
	Name     string
	Arity    int
	Variadic bool
}

// Behavior is a named table of accepted messages (spec.md §4.7). The
// handler logic itself lives in a language's Semantics.StepReceive;
// Behavior only carries the data StepReceive and CheckArity need —
// mirroring the teacher's Handler/Dispatch split, where the handler
// table is data and dispatch is a separate function.
type Behavior struct {
	Name     string
	Messages map[string]MessageSpec
}

// NewBehavior builds a Behavior from a list of message specs.
func NewBehavior(name string, specs ...MessageSpec) *Behavior {
	b := &Behavior{Name: name, Messages: make(map[string]MessageSpec, len(specs))}
	for _, s := range specs {
		b.Messages[s.Name] = s
	}
	return b
}

// CheckArity validates a message send against the behavior's declared
// table before a Semantics implementation dispatches it, resolving
// spec.md §9's open question without leaving it WIP.
func CheckArity(b *Behavior, messageName string, args []Value) *SemanticError {
	spec, ok := b.Messages[messageName]
	if !ok {
		return &SemanticError{Kind: MessageNotSupported, Message: "unknown message " + messageName + " for behavior " + b.Name}
	}
	if spec.Variadic {
		if len(args) < spec.Arity {
			return &SemanticError{Kind: VariadicArityError, Message: messageName + " expects at least some arguments"}
		}
		return nil
	}
	if len(args) != spec.Arity {
		return &SemanticError{Kind: ArityError, Message: messageName + " arity mismatch"}
	}
	return nil
}

// Mailbox is the set-like (not queue-like) lattice cell of spec.md
// §4.7: message delivery is unordered and at-least-once, so a mailbox
// joins messages in rather than appending them.
type Mailbox struct {
	messages map[string]Value
}

// NewMailbox creates an empty mailbox.
func NewMailbox() Mailbox { return Mailbox{messages: map[string]Value{}} }

// Join delivers msg into the mailbox (spec.md §4.7 Send: "join msg into
// pid's mailbox").
func (m Mailbox) Join(msg Value) Mailbox {
	next := make(map[string]Value, len(m.messages)+1)
	for k, v := range m.messages {
		next[k] = v
	}
	key := "?"
	if fp, ok := msg.(Fingerprint); ok {
		key = fp.Fingerprint()
	}
	if old, ok := next[key]; ok {
		next[key] = old.Join(msg)
	} else {
		next[key] = msg
	}
	return Mailbox{messages: next}
}

// Values returns every distinct message summary currently reachable in
// the mailbox (spec.md §4.7: stepReceive is "joined over all mailbox
// elements").
func (m Mailbox) Values() []Value {
	keys := make([]string, 0, len(m.messages))
	for k := range m.messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vs := make([]Value, 0, len(keys))
	for _, k := range keys {
		vs = append(vs, m.messages[k])
	}
	return vs
}

// Empty reports whether the mailbox holds no messages.
func (m Mailbox) Empty() bool { return len(m.messages) == 0 }

// Key returns a structural fingerprint of the mailbox's contents, used
// by ActorSystem.Key for state de-duplication.
func (m Mailbox) Key() string {
	keys := make([]string, 0, len(m.messages))
	for k := range m.messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out string
	for _, k := range keys {
		out += k + ","
	}
	return out
}

// Message is an optional capability a Value can implement to flow
// through a Mailbox and be dispatched by StepReceive as a named
// message with arguments (spec.md §4.7). A Value placed in a mailbox
// that does not implement Message is delivered but never dispatched —
// the same "optional capability, graceful degradation" pattern as
// Fingerprint and Counting.
type Message interface {
	MessageName() string
	MessageArgs() []Value
}

// pidValue lifts a PID into the Value lattice so Create's result (a
// fresh actor id) can flow through the same channel ReachedValue
// carries any other value on (spec.md §4.7 Create). Mirrors
// semanticErrorValue in driver.go: a kernel-level bridge type, not a
// language lattice the way TypeSet/BoundedInt are.
type pidValue struct{ pid PID }

// PIDValue lifts pid into a Value.
func PIDValue(pid PID) Value { return pidValue{pid: pid} }

func (pidValue) Bot() Value                             { return pidValue{} }
func (p pidValue) Join(o Value) Value                   { return p }
func (p pidValue) Leq(Value) bool                       { return true }
func (pidValue) IsTrue() bool                           { return true }
func (pidValue) IsFalse() bool                          { return false }
func (pidValue) IsError() bool                          { return false }
func (p pidValue) UnaryOp(UnaryOperator) Value          { return p }
func (p pidValue) BinaryOp(BinaryOperator, Value) Value { return p }
func (pidValue) Closures() []Closure                    { return nil }
func (pidValue) Prims() []Prim                          { return nil }
func (pidValue) Tids() []ThreadID                       { return nil }
func (p pidValue) Pids() []PID                          { return []PID{p.pid} }
func (pidValue) Locks() []Address                       { return nil }
func (pidValue) Car() []Address                         { return nil }
func (pidValue) Cdr() []Address                         { return nil }
func (p pidValue) Fingerprint() string                  { return "pid:" + p.pid.String() }

// Actor is one (PID, behavior, mailbox) triple (spec.md §4.7).
type Actor struct {
	PID      PID
	Behavior *Behavior
	Mailbox  Mailbox
	Control  Control
}

// ActorSystem is the set of live actors threaded through actor-extended
// States. Immutable after construction, following the Env/Store
// discipline elsewhere in the kernel.
type ActorSystem struct {
	actors map[PID]Actor
}

// NewActorSystem creates an empty actor system.
func NewActorSystem() ActorSystem { return ActorSystem{actors: map[PID]Actor{}} }

// Lookup returns the actor at pid, if any.
func (s ActorSystem) Lookup(pid PID) (Actor, bool) {
	a, ok := s.actors[pid]
	return a, ok
}

// Create installs a new actor (spec.md §4.7 Create: "allocate a fresh
// PID... start mailbox empty").
func (s ActorSystem) Create(pid PID, behavior *Behavior, initial Control) ActorSystem {
	next := s.clone()
	next.actors[pid] = Actor{PID: pid, Behavior: behavior, Mailbox: NewMailbox(), Control: initial}
	return next
}

// Send joins msg into pid's mailbox.
func (s ActorSystem) Send(pid PID, msg Value) ActorSystem {
	next := s.clone()
	a, ok := next.actors[pid]
	if !ok {
		return next
	}
	a.Mailbox = a.Mailbox.Join(msg)
	next.actors[pid] = a
	return next
}

// Become replaces pid's behavior (spec.md §4.7 Become).
func (s ActorSystem) Become(pid PID, behavior *Behavior) ActorSystem {
	next := s.clone()
	a, ok := next.actors[pid]
	if !ok {
		return next
	}
	a.Behavior = behavior
	next.actors[pid] = a
	return next
}

// SetControl updates pid's current control (evaluation position).
func (s ActorSystem) SetControl(pid PID, c Control) ActorSystem {
	next := s.clone()
	a, ok := next.actors[pid]
	if !ok {
		return next
	}
	a.Control = c
	next.actors[pid] = a
	return next
}

// Terminate removes pid and discards its mailbox (spec.md §4.7
// Terminate).
func (s ActorSystem) Terminate(pid PID) ActorSystem {
	next := s.clone()
	delete(next.actors, pid)
	return next
}

// PIDs returns every live actor id, in a stable order.
func (s ActorSystem) PIDs() []PID {
	ids := make([]PID, 0, len(s.actors))
	for id := range s.actors {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func (s ActorSystem) clone() ActorSystem {
	next := make(map[PID]Actor, len(s.actors))
	for k, v := range s.actors {
		next[k] = v
	}
	return ActorSystem{actors: next}
}

// Key returns a structural fingerprint for State de-duplication. It
// must include mailbox contents: two actor systems differing only in a
// pending message are not the same state (spec.md §3 Invariant 3).
func (s ActorSystem) Key() string {
	var out string
	for _, id := range s.PIDs() {
		a := s.actors[id]
		out += id.String() + ":" + a.Behavior.Name + ":" + a.Control.Key() + ":" + a.Mailbox.Key() + ";"
	}
	return out
}
