// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import "testing"

// dummyExp is a minimal Exp for address allocation tests.
type dummyExp struct{ id uintptr }

func (d dummyExp) ExpID() uintptr { return d.id }

func TestClassicalVariableDistinctByTimestamp(t *testing.T) {
	c := Classical{}
	t0 := Timestamp{}
	t1 := KCFA{K: 1}.TickCall(t0, dummyExp{1}, dummyExp{1})
	a0 := c.Variable("x", nil, t0)
	a1 := c.Variable("x", nil, t1)
	if a0 == a1 {
		t.Fatalf("distinct timestamps should yield distinct addresses")
	}
}

func TestClassicalVariableIdenticalCoordinatesCollide(t *testing.T) {
	c := Classical{}
	ts := Timestamp{}
	a0 := c.Variable("x", nil, ts)
	a1 := c.Variable("x", nil, ts)
	if a0 != a1 {
		t.Fatalf("identical coordinates should yield identical addresses: %v vs %v", a0, a1)
	}
}

func TestClassicalKindsNeverCollide(t *testing.T) {
	c := Classical{}
	ts := Timestamp{}
	e := dummyExp{1}
	v := c.Variable("x", nil, ts)
	p := c.Primitive("x")
	cell := c.Cell(e, ts)
	k := c.Kont(e)
	seen := map[Address]bool{}
	for _, a := range []Address{v, p, cell, k} {
		if seen[a] {
			t.Fatalf("addresses of different kinds collided: %v", a)
		}
		seen[a] = true
	}
}

func TestValueSensitiveDistinguishesByFingerprint(t *testing.T) {
	vs := ValueSensitive{}
	ts := Timestamp{}
	a0 := vs.Variable("x", fingerprintValue{"1"}, ts)
	a1 := vs.Variable("x", fingerprintValue{"2"}, ts)
	if a0 == a1 {
		t.Fatalf("distinct fingerprints should yield distinct addresses")
	}
}

// fingerprintValue is a minimal Value+Fingerprint stub for address
// tests; it never needs to implement the lattice operators themselves.
type fingerprintValue struct{ key string }

func (fingerprintValue) Bot() Value                            { return fingerprintValue{} }
func (v fingerprintValue) Join(Value) Value                    { return v }
func (fingerprintValue) Leq(Value) bool                        { return true }
func (fingerprintValue) IsTrue() bool                          { return false }
func (fingerprintValue) IsFalse() bool                         { return false }
func (fingerprintValue) IsError() bool                         { return false }
func (v fingerprintValue) UnaryOp(UnaryOperator) Value          { return v }
func (v fingerprintValue) BinaryOp(BinaryOperator, Value) Value { return v }
func (fingerprintValue) Closures() []Closure                    { return nil }
func (fingerprintValue) Prims() []Prim                          { return nil }
func (fingerprintValue) Tids() []ThreadID                       { return nil }
func (fingerprintValue) Pids() []PID                            { return nil }
func (fingerprintValue) Locks() []Address                       { return nil }
func (fingerprintValue) Car() []Address                         { return nil }
func (fingerprintValue) Cdr() []Address                         { return nil }
func (v fingerprintValue) Fingerprint() string                  { return v.key }
