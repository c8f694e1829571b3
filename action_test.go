// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import "testing"

func TestNewCreateCarriesEnv(t *testing.T) {
	addr := Classical{}.Variable("x", nil, Timestamp{})
	env := NewEnv().Extend("x", addr)
	behavior := NewBehavior("B")
	act := NewCreate(behavior, dummyExp{1}, env, NewEffectSet())
	if act.Kind != ActionCreate {
		t.Fatalf("expected ActionCreate, got %v", act.Kind)
	}
	got, ok := act.Env.Lookup("x")
	if !ok || got != addr {
		t.Fatalf("NewCreate must carry the caller's environment through to Action.Env")
	}
}

func TestNewSendCarriesContinuation(t *testing.T) {
	pid := PID{Classical{}.Variable("p", nil, Timestamp{})}
	cont := NewReachedValue(fingerprintValue{"1"}, NewStore(), NewEffectSet())
	act := NewSend(pid, fingerprintValue{"msg"}, cont, NewEffectSet())
	if act.Kind != ActionSend {
		t.Fatalf("expected ActionSend, got %v", act.Kind)
	}
	if act.Continuation == nil || act.Continuation.Kind != ActionReachedValue {
		t.Fatalf("NewSend should carry its continuation action")
	}
}

func TestActionErrorCarriesSemanticError(t *testing.T) {
	err := SemanticError{Kind: UnboundVariable, Message: "x"}
	act := NewErrorAction(err)
	if act.Kind != ActionError || act.Err != err {
		t.Fatalf("NewErrorAction did not preserve the SemanticError")
	}
}
