// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam_test

import (
	"testing"

	"github.com/hybscloud/aam"
	"github.com/hybscloud/aam/internal/testlat"
)

func TestAAMMachineInitialIsUnhaltedEval(t *testing.T) {
	sem := testlat.BuildSemantics(testlat.ModeConcrete, 0, aam.Classical{})
	m := aam.AAMMachine{Sem: sem, AddrPolicy: aam.Classical{}, TimePolicy: aam.KCFA{K: 0}}
	initial := m.Initial(testlat.Int(5))
	if len(initial) != 1 {
		t.Fatalf("expected exactly one initial state, got %d", len(initial))
	}
	if initial[0].Halted() {
		t.Fatalf("the initial state of a literal should still be evaluating, not halted")
	}
}

func TestAAMMachineStepsLiteralToHaltedValue(t *testing.T) {
	sem := testlat.BuildSemantics(testlat.ModeConcrete, 0, aam.Classical{})
	m := aam.AAMMachine{Sem: sem, AddrPolicy: aam.Classical{}, TimePolicy: aam.KCFA{K: 0}}
	states := m.Initial(testlat.Int(5))
	for i := 0; i < 10 && !states[0].Halted(); i++ {
		states = m.Step(states[0])
		if len(states) == 0 {
			t.Fatalf("stepping a literal should always produce a successor until halted")
		}
	}
	if !states[0].Halted() {
		t.Fatalf("expected the literal to halt within a handful of steps")
	}
	fv, ok := states[0].FinalValue().(testlat.Val)
	if !ok {
		t.Fatalf("expected a testlat.Val final value, got %T", states[0].FinalValue())
	}
	if !fv.Leq(testlat.IntVal(testlat.ModeConcrete, 0, 5)) || !testlat.IntVal(testlat.ModeConcrete, 0, 5).Leq(fv) {
		t.Fatalf("expected final value 5, got %v", fv)
	}
}

// TestConcreteMachineDelegatesToAAM confirms ConcreteMachine produces
// the same kind of state graph as AAMMachine (it is a thin wrapper
// fixing the timestamp policy to Concrete), by running the same
// program to completion through aam.Run on both and comparing the
// reachable final value.
func TestConcreteMachineDelegatesToAAM(t *testing.T) {
	sem := testlat.BuildSemantics(testlat.ModeConcrete, 0, aam.Classical{})
	machine := aam.NewConcreteMachine(sem, aam.Classical{})
	program := testlat.Square()
	result := aam.Run(program, machine, aam.RunOptions{})
	if !result.ContainsFinalValue(testlat.IntVal(testlat.ModeConcrete, 0, 9)) {
		t.Fatalf("expected 9 reachable via ConcreteMachine, got %v", result.FinalValues())
	}
}

// TestAAMGlobalStoreMachineReachesSameAnswer confirms the globally-
// widened store variant still finds the concrete answer reachable for
// a program with no precision-losing allocation collisions.
func TestAAMGlobalStoreMachineReachesSameAnswer(t *testing.T) {
	sem := testlat.BuildSemantics(testlat.ModeConcrete, 0, aam.Classical{})
	machine := aam.NewAAMGlobalStoreMachine(sem, aam.Classical{}, aam.KCFA{K: 0})
	result := aam.Run(testlat.Fact(), machine, aam.RunOptions{})
	if !result.ContainsFinalValue(testlat.IntVal(testlat.ModeConcrete, 0, 120)) {
		t.Fatalf("expected fact(5)=120 reachable via AAMGlobalStoreMachine, got %v", result.FinalValues())
	}
}

// TestFreeMachineReachesSameAnswer mirrors the GlobalStore check for
// the Free variant (both value store and kont-store globally shared).
func TestFreeMachineReachesSameAnswer(t *testing.T) {
	sem := testlat.BuildSemantics(testlat.ModeConcrete, 0, aam.Classical{})
	machine := aam.NewFreeMachine(sem, aam.Classical{}, aam.KCFA{K: 0})
	result := aam.Run(testlat.Fib(), machine, aam.RunOptions{})
	if !result.ContainsFinalValue(testlat.IntVal(testlat.ModeConcrete, 0, 3)) {
		t.Fatalf("expected fib(4)=3 reachable via FreeMachine, got %v", result.FinalValues())
	}
}

// TestBlurAddressCollapseIsMachineIndependent confirms the imprecision
// Blur demonstrates under Classical/0-CFA addressing shows up the same
// way in every machine variant, since it is caused by the addressing
// policy, not by which store/kont-store travel per-state.
func TestBlurAddressCollapseIsMachineIndependent(t *testing.T) {
	sem := testlat.BuildSemantics(testlat.ModeConcrete, 0, aam.Classical{})
	program := testlat.Blur()

	aamResult := aam.Run(program, aam.AAMMachine{Sem: sem, AddrPolicy: aam.Classical{}, TimePolicy: aam.KCFA{K: 0}}, aam.RunOptions{})
	gsResult := aam.Run(program, aam.NewAAMGlobalStoreMachine(sem, aam.Classical{}, aam.KCFA{K: 0}), aam.RunOptions{})

	for _, b := range []bool{true, false} {
		want := testlat.BoolVal(testlat.ModeConcrete, 0, b)
		if !aamResult.ContainsFinalValue(want) {
			t.Fatalf("AAMMachine: expected %v reachable", b)
		}
		if !gsResult.ContainsFinalValue(want) {
			t.Fatalf("AAMGlobalStoreMachine: expected %v reachable", b)
		}
	}
}
