// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package testlat

import (
	"testing"

	"github.com/hybscloud/aam"
)

func TestIntValFingerprintDeterministic(t *testing.T) {
	a := IntVal(ModeConcrete, 0, 5)
	b := IntVal(ModeConcrete, 0, 5)
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("equal Vals must fingerprint identically")
	}
}

func TestArithmeticOps(t *testing.T) {
	a := IntVal(ModeConcrete, 0, 6)
	b := IntVal(ModeConcrete, 0, 3)
	cases := []struct {
		op   aam.BinaryOperator
		want int
	}{
		{aam.OpPlus, 9},
		{aam.OpMinus, 3},
		{aam.OpTimes, 18},
		{aam.OpDiv, 2},
		{aam.OpModulo, 0},
	}
	for _, c := range cases {
		got := a.BinaryOp(c.op, b)
		want := IntVal(ModeConcrete, 0, c.want)
		if !got.Leq(want) || !want.Leq(got) {
			t.Fatalf("op %v: got %v want %v", c.op, got, want)
		}
	}
}

func TestLtAndNumEq(t *testing.T) {
	a := IntVal(ModeConcrete, 0, 1)
	b := IntVal(ModeConcrete, 0, 2)
	if !a.BinaryOp(aam.OpLt, b).IsTrue() {
		t.Fatalf("1 < 2 should be true")
	}
	if a.BinaryOp(aam.OpNumEq, b).IsTrue() {
		t.Fatalf("1 = 2 should not be true")
	}
}

func TestNotFlipsBooleans(t *testing.T) {
	tru := BoolVal(ModeConcrete, 0, true)
	got := tru.UnaryOp(aam.OpNot)
	if !got.IsFalse() || got.IsTrue() {
		t.Fatalf("not(#t) should be exactly #f, got %v", got)
	}
}

func TestIsProcedureDistinguishesClosuresFromInts(t *testing.T) {
	i := IntVal(ModeConcrete, 0, 1)
	if i.UnaryOp(aam.OpIsProcedure).IsTrue() {
		t.Fatalf("an int should not answer true to procedure?")
	}
}

func TestMsgFingerprintEncodesNameAndArgs(t *testing.T) {
	m1 := NewMsg(ModeConcrete, 0, "tick", nil)
	m2 := NewMsg(ModeConcrete, 0, "tock", nil)
	if m1.Fingerprint() == m2.Fingerprint() {
		t.Fatalf("distinct message names must fingerprint differently")
	}
}

func TestMsgImplementsMessageInterface(t *testing.T) {
	m := NewMsg(ModeConcrete, 0, "tick", []aam.Value{IntVal(ModeConcrete, 0, 1)})
	var v aam.Value = m
	msg, ok := v.(aam.Message)
	if !ok {
		t.Fatalf("Msg should implement aam.Message")
	}
	if msg.MessageName() != "tick" || len(msg.MessageArgs()) != 1 {
		t.Fatalf("MessageName/MessageArgs did not round-trip")
	}
}

func TestValJoinGracefullyDegradesOnForeignValue(t *testing.T) {
	v := IntVal(ModeConcrete, 0, 1)
	foreign := aam.PIDValue(aam.PID{})
	joined := v.Join(foreign)
	if !joined.Leq(v) || !v.Leq(joined) {
		t.Fatalf("joining a foreign Value should leave v unchanged, got %v", joined)
	}
}
