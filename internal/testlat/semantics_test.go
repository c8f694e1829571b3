// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package testlat

import (
	"testing"

	"github.com/hybscloud/aam"
)

func newSem() *Semantics { return BuildSemantics(ModeConcrete, 0, aam.Classical{}) }

func TestStepEvalLiteralsReachValueDirectly(t *testing.T) {
	sem := newSem()
	actions := sem.StepEval(Int(7), aam.NewEnv(), aam.NewStore(), aam.Timestamp{})
	if len(actions) != 1 || actions[0].Kind != aam.ActionReachedValue {
		t.Fatalf("an int literal should reach its value in a single action, got %v", actions)
	}
}

func TestStepEvalUnboundVariableErrors(t *testing.T) {
	sem := newSem()
	actions := sem.StepEval(Var("nope"), aam.NewEnv(), aam.NewStore(), aam.Timestamp{})
	if len(actions) != 1 || actions[0].Kind != aam.ActionError {
		t.Fatalf("an unbound variable should produce a single error action, got %v", actions)
	}
	if actions[0].Err.Kind != aam.UnboundVariable {
		t.Fatalf("expected UnboundVariable, got %v", actions[0].Err.Kind)
	}
}

func TestStepEvalIfPushesCondFrame(t *testing.T) {
	sem := newSem()
	n := If(Bool(true), Int(1), Int(2))
	actions := sem.StepEval(n, aam.NewEnv(), aam.NewStore(), aam.Timestamp{})
	if len(actions) != 1 || actions[0].Kind != aam.ActionPush {
		t.Fatalf("if should push a frame to evaluate its condition, got %v", actions)
	}
}

func TestStepKontIfFrameFollowsTrueBranchOnly(t *testing.T) {
	sem := newSem()
	frame := ifFrame{then: Int(1), els: Int(2), env: aam.NewEnv()}
	actions := sem.StepKont(BoolVal(ModeConcrete, 0, true), frame, aam.NewStore(), aam.Timestamp{})
	if len(actions) != 1 || actions[0].Kind != aam.ActionEval || actions[0].Exp != frame.then {
		t.Fatalf("a true condition should only evaluate the then branch, got %v", actions)
	}
}

func TestStepKontIfFrameOnAbstractBooleanFollowsBothBranches(t *testing.T) {
	sem := newSem()
	frame := ifFrame{then: Int(1), els: Int(2), env: aam.NewEnv()}
	both := BoolVal(ModeConcrete, 0, true).Join(BoolVal(ModeConcrete, 0, false))
	actions := sem.StepKont(both, frame, aam.NewStore(), aam.Timestamp{})
	if len(actions) != 2 {
		t.Fatalf("a value that is both truthy and falsy should follow both branches, got %d actions", len(actions))
	}
}

func TestStepKontLetFrameExtendsStoreAndEnv(t *testing.T) {
	sem := newSem()
	body := Var("x")
	frame := letFrame{name: "x", body: body, env: aam.NewEnv()}
	actions := sem.StepKont(IntVal(ModeConcrete, 0, 42), frame, aam.NewStore(), aam.Timestamp{})
	if len(actions) != 1 || actions[0].Kind != aam.ActionEval {
		t.Fatalf("let should resume by evaluating its body, got %v", actions)
	}
	addr, ok := actions[0].Env.Lookup("x")
	if !ok {
		t.Fatalf("let should bind x in the resuming environment")
	}
	v, ok := actions[0].Store.Lookup(addr)
	if !ok {
		t.Fatalf("let should extend the store at x's address")
	}
	got, ok := v.(Val)
	if !ok || !got.Leq(IntVal(ModeConcrete, 0, 42)) {
		t.Fatalf("expected 42 bound to x, got %v", v)
	}
}

func TestStepReceiveRejectsUnknownMessage(t *testing.T) {
	sem := newSem()
	pid := aam.PID{}
	actions := sem.StepReceive(pid, "unknown", nil, counterBehavior, aam.NewEnv(), aam.NewStore(), aam.Timestamp{})
	if len(actions) != 1 || actions[0].Kind != aam.ActionError || actions[0].Err.Kind != aam.MessageNotSupported {
		t.Fatalf("an unregistered message name should report MessageNotSupported, got %v", actions)
	}
}

func TestStepReceiveDispatchesRegisteredHandler(t *testing.T) {
	sem := newSem()
	pid := aam.PID{aam.Classical{}.Variable("counter", nil, aam.Timestamp{})}
	store := aam.NewStore().Extend(pid.Address, IntVal(ModeConcrete, 0, 0))
	actions := sem.StepReceive(pid, "tick", nil, counterBehavior, aam.NewEnv(), store, aam.Timestamp{})
	if len(actions) != 1 || actions[0].Kind != aam.ActionReachedValue {
		t.Fatalf("tick should reach a single incremented value, got %v", actions)
	}
	got, ok := actions[0].Value.(Val)
	if !ok || !got.Leq(IntVal(ModeConcrete, 0, 1)) {
		t.Fatalf("expected the counter to reach 1, got %v", actions[0].Value)
	}
}
