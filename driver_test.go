// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import (
	"strconv"
	"testing"
	"time"
)

// exactValue is a minimal Value stub whose Leq only holds between two
// equal keys, unlike address_test.go's fingerprintValue (whose Leq is
// always true) — these tests need a real subsumption check to be
// meaningful rather than vacuously satisfied.
type exactValue struct{ key string }

func (exactValue) Bot() Value         { return exactValue{} }
func (v exactValue) Join(Value) Value { return v }
func (v exactValue) Leq(o Value) bool {
	ov, ok := o.(exactValue)
	return ok && ov.key == v.key
}
func (exactValue) IsTrue() bool                          { return false }
func (exactValue) IsFalse() bool                         { return false }
func (exactValue) IsError() bool                         { return false }
func (v exactValue) UnaryOp(UnaryOperator) Value         { return v }
func (v exactValue) BinaryOp(BinaryOperator, Value) Value { return v }
func (exactValue) Closures() []Closure                   { return nil }
func (exactValue) Prims() []Prim                         { return nil }
func (exactValue) Tids() []ThreadID                      { return nil }
func (exactValue) Pids() []PID                           { return nil }
func (exactValue) Locks() []Address                      { return nil }
func (exactValue) Car() []Address                        { return nil }
func (exactValue) Cdr() []Address                        { return nil }
func (v exactValue) Fingerprint() string                 { return v.key }

// counterState/counterMachine is the smallest possible Machine: a
// single linear chain from 0 to max, used to exercise Run's basic
// halted/final-value bookkeeping without any real semantics.
type counterState struct{ n, max int }

func (c counterState) Key() string  { return strconv.Itoa(c.n) }
func (c counterState) Halted() bool { return c.n >= c.max }
func (c counterState) FinalValue() Value {
	if !c.Halted() {
		return nil
	}
	return exactValue{"n=" + strconv.Itoa(c.n)}
}

type counterMachine struct{ max int }

func (m counterMachine) Initial(Exp) []MachineState { return []MachineState{counterState{0, m.max}} }
func (m counterMachine) Step(s MachineState) []MachineState {
	c := s.(counterState)
	if c.Halted() {
		return nil
	}
	return []MachineState{counterState{c.n + 1, m.max}}
}

func TestRunReachesHaltedFinalValue(t *testing.T) {
	result := Run(nil, counterMachine{max: 5}, RunOptions{})
	if result.TimedOut {
		t.Fatalf("a finite chain should not time out")
	}
	if !result.ContainsFinalValue(exactValue{"n=5"}) {
		t.Fatalf("expected n=5 among final values, got %v", result.FinalValues())
	}
	if result.NumberOfStates != 6 {
		t.Fatalf("expected 6 distinct states (0..5), got %d", result.NumberOfStates)
	}
}

// diamondState reconverges two branches onto the same successor, so
// the driver's visited set must fold 3's two incoming edges into one
// explored state rather than visiting it twice.
type diamondState struct{ n int }

func (d diamondState) Key() string  { return strconv.Itoa(d.n) }
func (d diamondState) Halted() bool { return d.n == 3 }
func (d diamondState) FinalValue() Value {
	if d.n != 3 {
		return nil
	}
	return exactValue{"done"}
}

type diamondMachine struct{}

func (diamondMachine) Initial(Exp) []MachineState { return []MachineState{diamondState{0}} }
func (diamondMachine) Step(s MachineState) []MachineState {
	switch s.(diamondState).n {
	case 0:
		return []MachineState{diamondState{1}, diamondState{2}}
	case 1, 2:
		return []MachineState{diamondState{3}}
	default:
		return nil
	}
}

func TestRunDedupesReconvergingStates(t *testing.T) {
	result := Run(nil, diamondMachine{}, RunOptions{})
	if result.NumberOfStates != 4 {
		t.Fatalf("expected exactly 4 distinct states (0,1,2,3), got %d", result.NumberOfStates)
	}
}

func TestRunRecordsEveryAttemptedEdgeRegardlessOfDedup(t *testing.T) {
	result := Run(nil, diamondMachine{}, RunOptions{RecordGraph: true})
	edges := result.Edges()
	if len(edges) != 4 {
		t.Fatalf("expected 4 recorded edges (0->1,0->2,1->3,2->3), got %d: %v", len(edges), edges)
	}
}

func TestRunLIFOStrategyStillReachesFixedPoint(t *testing.T) {
	result := Run(nil, counterMachine{max: 10}, RunOptions{Strategy: LIFO})
	if result.NumberOfStates != 11 {
		t.Fatalf("LIFO exploration should still visit every state exactly once, got %d", result.NumberOfStates)
	}
}

// infiniteMachine never halts and never revisits a key, so Run can
// only stop via its timeout.
type infiniteState struct{ id int }

func (s infiniteState) Key() string     { return strconv.Itoa(s.id) }
func (infiniteState) Halted() bool      { return false }
func (infiniteState) FinalValue() Value { return nil }

type infiniteMachine struct{}

func (infiniteMachine) Initial(Exp) []MachineState { return []MachineState{infiniteState{0}} }
func (infiniteMachine) Step(s MachineState) []MachineState {
	id := s.(infiniteState).id
	return []MachineState{infiniteState{id*2 + 1}, infiniteState{id*2 + 2}}
}

func TestRunHonorsTimeout(t *testing.T) {
	result := Run(nil, infiniteMachine{}, RunOptions{Timeout: 20 * time.Millisecond})
	if !result.TimedOut {
		t.Fatalf("an infinite, ever-growing state graph must report TimedOut")
	}
}

func TestRunCollectsSemanticErrorsSeparatelyFromFinalValues(t *testing.T) {
	result := Run(nil, erroringMachine{}, RunOptions{})
	if len(result.FinalValues()) != 0 {
		t.Fatalf("an error-only run should report no ordinary final values, got %v", result.FinalValues())
	}
	if len(result.Errors()) != 1 || result.Errors()[0].Kind != TypeError {
		t.Fatalf("expected exactly one TypeError, got %v", result.Errors())
	}
}

type erroringState struct{}

func (erroringState) Key() string  { return "err" }
func (erroringState) Halted() bool { return true }
func (erroringState) FinalValue() Value {
	return ErrorValue(SemanticError{Kind: TypeError, Message: "boom"})
}

type erroringMachine struct{}

func (erroringMachine) Initial(Exp) []MachineState          { return []MachineState{erroringState{}} }
func (erroringMachine) Step(s MachineState) []MachineState { return nil }
