// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package testlat

import (
	"sort"
	"strconv"
	"strings"

	"github.com/hybscloud/aam"
)

// Mode selects which numeric abstraction a Val computes under, matching
// the lattice names Config.Lattice accepts at the kernel boundary
// (config.go): Concrete keeps every distinct int exact, TypeSet
// collapses every int to "some integer", BoundedInt keeps ints inside
// [-bound, bound] exact and collapses anything outside to a single
// overflow class.
type Mode int

const (
	ModeConcrete Mode = iota
	ModeTypeSet
	ModeBounded
)

// Sentinel int keys standing in for a collapsed class of integers. Kept
// far outside any value these scenarios compute with (fact/fib/ack/
// collatz never approach 1<<30) so a real result can never alias one.
const (
	sentinelAnyInt   = 1<<30 - 1
	sentinelOverflow = 1<<30 - 2
)

// Val is the sole language Value this package uses for ints, bools,
// closures and prims (spec.md §4.1's Value lattice, concretized).
// Every component is a set, joined pointwise — the same "named sets of
// reachable things" shape lattice.go's Product composes, just folded
// into one struct instead of nested products, since testlat has no need
// to vary the components independently.
type Val struct {
	mode  Mode
	bound int

	ints     map[int]struct{}
	bools    map[bool]struct{}
	closures map[string]aam.Closure
	prims    map[aam.Prim]struct{}
	errored  bool
}

// Bot returns the empty Val for mode/bound, the unit of Join.
func Bot(mode Mode, bound int) Val {
	return Val{
		mode:     mode,
		bound:    bound,
		ints:     map[int]struct{}{},
		bools:    map[bool]struct{}{},
		closures: map[string]aam.Closure{},
		prims:    map[aam.Prim]struct{}{},
	}
}

// collapseInt applies mode's abstraction to a freshly computed int.
func collapseInt(mode Mode, bound, n int) int {
	switch mode {
	case ModeTypeSet:
		return sentinelAnyInt
	case ModeBounded:
		if n > bound || n < -bound {
			return sentinelOverflow
		}
		return n
	default:
		return n
	}
}

// IntVal builds a singleton int Val, abstracted per mode/bound.
func IntVal(mode Mode, bound int, n int) Val {
	v := Bot(mode, bound)
	v.ints[collapseInt(mode, bound, n)] = struct{}{}
	return v
}

// BoolVal builds a singleton bool Val.
func BoolVal(mode Mode, bound int, b bool) Val {
	v := Bot(mode, bound)
	v.bools[b] = struct{}{}
	return v
}

// ClosureVal builds a singleton closure Val.
func ClosureVal(mode Mode, bound int, c aam.Closure) Val {
	v := Bot(mode, bound)
	v.closures[closureKey(c)] = c
	return v
}

// PrimVal builds a singleton primitive-operator Val.
func PrimVal(mode Mode, bound int, p aam.Prim) Val {
	v := Bot(mode, bound)
	v.prims[p] = struct{}{}
	return v
}

// ErrorVal builds an error-tagged Val (UnaryOp/BinaryOp return one of
// these instead of panicking, per the Value contract in lattice.go).
func ErrorVal(mode Mode, bound int) Val {
	v := Bot(mode, bound)
	v.errored = true
	return v
}

func closureKey(c aam.Closure) string {
	return strconv.FormatUint(uint64(c.Lambda.ExpID()), 36) + "@" + c.Env.Key()
}

func (v Val) Bot() aam.Value { return Bot(v.mode, v.bound) }

// Join unions every component set (spec.md §3/§4.1). A foreign Value
// (e.g. a kernel bridge type like a PID lifted via aam.PIDValue) is not
// modeled by this language's lattice; joining one in leaves v
// unchanged rather than panicking, the same graceful-degradation
// convention Fingerprint/Counting already use for optional
// capabilities.
func (v Val) Join(o aam.Value) aam.Value {
	other, ok := o.(Val)
	if !ok {
		return v
	}
	next := Bot(v.mode, v.bound)
	for k := range v.ints {
		next.ints[k] = struct{}{}
	}
	for k := range other.ints {
		next.ints[k] = struct{}{}
	}
	for k := range v.bools {
		next.bools[k] = struct{}{}
	}
	for k := range other.bools {
		next.bools[k] = struct{}{}
	}
	for k, c := range v.closures {
		next.closures[k] = c
	}
	for k, c := range other.closures {
		next.closures[k] = c
	}
	for k := range v.prims {
		next.prims[k] = struct{}{}
	}
	for k := range other.prims {
		next.prims[k] = struct{}{}
	}
	next.errored = v.errored || other.errored
	return next
}

// Leq reports subset inclusion component-wise (spec.md §3 Invariant 2).
func (v Val) Leq(o aam.Value) bool {
	other, ok := o.(Val)
	if !ok {
		return false
	}
	for k := range v.ints {
		if _, ok := other.ints[k]; !ok {
			return false
		}
	}
	for k := range v.bools {
		if _, ok := other.bools[k]; !ok {
			return false
		}
	}
	for k := range v.closures {
		if _, ok := other.closures[k]; !ok {
			return false
		}
	}
	for k := range v.prims {
		if _, ok := other.prims[k]; !ok {
			return false
		}
	}
	return !v.errored || other.errored
}

// IsTrue follows Scheme truthiness: everything except boolean #f is
// true, so any reachable int/closure/prim, or a reachable true, makes
// the whole abstract value possibly-true.
func (v Val) IsTrue() bool {
	return len(v.ints) > 0 || len(v.closures) > 0 || len(v.prims) > 0 || v.bools[true]
}

// IsFalse reports whether #f is one of the reachable values.
func (v Val) IsFalse() bool { return v.bools[false] }

func (v Val) IsError() bool { return v.errored }

func (v Val) UnaryOp(op aam.UnaryOperator) aam.Value {
	r := Bot(v.mode, v.bound)
	switch op {
	case aam.OpNot:
		if v.IsFalse() {
			r.bools[true] = struct{}{}
		}
		if v.IsTrue() {
			r.bools[false] = struct{}{}
		}
	case aam.OpNeg:
		for n := range v.ints {
			r.ints[collapseInt(v.mode, v.bound, -n)] = struct{}{}
		}
	case aam.OpIsProcedure:
		if len(v.closures) > 0 || len(v.prims) > 0 {
			r.bools[true] = struct{}{}
		}
		if len(v.ints) > 0 || len(v.bools) > 0 {
			r.bools[false] = struct{}{}
		}
	case aam.OpIsNull, aam.OpIsPair, aam.OpIsVector, aam.OpIsString, aam.OpIsSymbol:
		// No pair/vector/string/symbol surface in this language
		// (spec.md §1's front-end is out of scope); every value
		// answers false rather than erroring.
		r.bools[false] = struct{}{}
	default:
		return ErrorVal(v.mode, v.bound)
	}
	return r
}

func (v Val) BinaryOp(op aam.BinaryOperator, o aam.Value) aam.Value {
	other, ok := o.(Val)
	if !ok {
		return ErrorVal(v.mode, v.bound)
	}
	r := Bot(v.mode, v.bound)
	switch op {
	case aam.OpPlus, aam.OpMinus, aam.OpTimes, aam.OpDiv, aam.OpModulo:
		for a := range v.ints {
			for b := range other.ints {
				switch op {
				case aam.OpPlus:
					r.ints[collapseInt(v.mode, v.bound, a+b)] = struct{}{}
				case aam.OpMinus:
					r.ints[collapseInt(v.mode, v.bound, a-b)] = struct{}{}
				case aam.OpTimes:
					r.ints[collapseInt(v.mode, v.bound, a*b)] = struct{}{}
				case aam.OpDiv:
					if b == 0 {
						r.errored = true
						continue
					}
					r.ints[collapseInt(v.mode, v.bound, a/b)] = struct{}{}
				case aam.OpModulo:
					if b == 0 {
						r.errored = true
						continue
					}
					r.ints[collapseInt(v.mode, v.bound, a%b)] = struct{}{}
				}
			}
		}
	case aam.OpLt:
		for a := range v.ints {
			for b := range other.ints {
				r.bools[a < b] = struct{}{}
			}
		}
	case aam.OpNumEq:
		for a := range v.ints {
			for b := range other.ints {
				r.bools[a == b] = struct{}{}
			}
		}
	case aam.OpEq:
		eq := false
		for a := range v.ints {
			if _, ok := other.ints[a]; ok {
				eq = true
			}
		}
		for a := range v.bools {
			if _, ok := other.bools[a]; ok {
				eq = true
			}
		}
		r.bools[eq] = struct{}{}
	default:
		// OpCons needs fresh car/cdr store addresses, which a pure
		// Value op has no access to, and this language has no other
		// pair constructor; OpCons and any operator not handled above
		// yield an error-tagged value.
		return ErrorVal(v.mode, v.bound)
	}
	return r
}

func (v Val) Closures() []aam.Closure {
	keys := make([]string, 0, len(v.closures))
	for k := range v.closures {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]aam.Closure, 0, len(keys))
	for _, k := range keys {
		out = append(out, v.closures[k])
	}
	return out
}

func (v Val) Prims() []aam.Prim {
	out := make([]aam.Prim, 0, len(v.prims))
	for p := range v.prims {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (v Val) Tids() []aam.ThreadID { return nil }
func (v Val) Pids() []aam.PID      { return nil }
func (v Val) Locks() []aam.Address { return nil }
func (v Val) Car() []aam.Address   { return nil }
func (v Val) Cdr() []aam.Address   { return nil }

// Fingerprint gives Val's structural key, used by Store.Key/Env.Key and
// by ValueSensitive address allocation.
func (v Val) Fingerprint() string {
	var b strings.Builder
	b.WriteString("mode")
	b.WriteString(strconv.Itoa(int(v.mode)))
	b.WriteByte(':')

	ints := make([]int, 0, len(v.ints))
	for n := range v.ints {
		ints = append(ints, n)
	}
	sort.Ints(ints)
	for _, n := range ints {
		b.WriteString("i")
		b.WriteString(strconv.Itoa(n))
		b.WriteByte(',')
	}

	bools := make([]bool, 0, len(v.bools))
	for bv := range v.bools {
		bools = append(bools, bv)
	}
	sort.Slice(bools, func(i, j int) bool { return !bools[i] && bools[j] })
	for _, bv := range bools {
		b.WriteString("b")
		b.WriteString(strconv.FormatBool(bv))
		b.WriteByte(',')
	}

	for _, k := range v.Closures() {
		b.WriteString("c")
		b.WriteString(closureKey(k))
		b.WriteByte(',')
	}
	for _, p := range v.Prims() {
		b.WriteString("p")
		b.WriteString(string(p))
		b.WriteByte(',')
	}
	if v.errored {
		b.WriteString("err")
	}
	return b.String()
}

// CountsExactly implements aam.Counting: true only when exactly one
// concrete value is reachable at all (spec.md glossary "Counting").
func (v Val) CountsExactly() bool {
	total := len(v.ints) + len(v.bools) + len(v.closures) + len(v.prims)
	return total == 1 && !v.errored
}

// singleInt returns the one concrete (non-collapsed) int Val carries,
// if it carries exactly one. Used by the actor receivers (counterTick,
// indexerPut) to read an int out of a store cell or a message argument.
func (v Val) singleInt() (int, bool) {
	if len(v.ints) != 1 {
		return 0, false
	}
	for n := range v.ints {
		if n == sentinelAnyInt || n == sentinelOverflow {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Msg lifts a named actor message into the Value lattice (spec.md
// §4.7). Like pidValue in actor.go, it is a kernel-adjacent bridge type
// carrying a non-lattice payload (a message name and fixed argument
// list) through the generic Value channel a Mailbox holds — its
// Fingerprint already encodes name and args, so two Msg values only
// ever collide in a Mailbox's dedup map when they are the same message,
// making Join's identity answer exact rather than an approximation.
type Msg struct {
	mode  Mode
	bound int
	name  string
	args  []aam.Value
}

// NewMsg builds a message Value naming the receiver behavior can
// dispatch on (spec.md §4.7 Send/StepReceive).
func NewMsg(mode Mode, bound int, name string, args []aam.Value) Msg {
	return Msg{mode: mode, bound: bound, name: name, args: args}
}

func (m Msg) MessageName() string      { return m.name }
func (m Msg) MessageArgs() []aam.Value { return m.args }

func (m Msg) Bot() aam.Value                                   { return Msg{mode: m.mode, bound: m.bound} }
func (m Msg) Join(aam.Value) aam.Value                         { return m }
func (m Msg) Leq(aam.Value) bool                               { return true }
func (Msg) IsTrue() bool                                       { return true }
func (Msg) IsFalse() bool                                      { return false }
func (Msg) IsError() bool                                      { return false }
func (m Msg) UnaryOp(aam.UnaryOperator) aam.Value               { return m }
func (m Msg) BinaryOp(aam.BinaryOperator, aam.Value) aam.Value { return m }
func (Msg) Closures() []aam.Closure                            { return nil }
func (Msg) Prims() []aam.Prim                                  { return nil }
func (Msg) Tids() []aam.ThreadID                               { return nil }
func (Msg) Pids() []aam.PID                                    { return nil }
func (Msg) Locks() []aam.Address                               { return nil }
func (Msg) Car() []aam.Address                                 { return nil }
func (Msg) Cdr() []aam.Address                                 { return nil }

// Fingerprint encodes name and every argument's own fingerprint, so
// Mailbox's dedup-by-fingerprint only merges genuinely identical sends.
func (m Msg) Fingerprint() string {
	var b strings.Builder
	b.WriteString("msg:")
	b.WriteString(m.name)
	for _, a := range m.args {
		b.WriteByte(':')
		if fp, ok := a.(aam.Fingerprint); ok {
			b.WriteString(fp.Fingerprint())
		} else {
			b.WriteString("?")
		}
	}
	return b.String()
}
