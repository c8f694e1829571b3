// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import "testing"

func TestEnvExtendImmutable(t *testing.T) {
	e0 := NewEnv()
	addr := Address{}
	e1 := e0.Extend("x", addr)
	if _, ok := e0.Lookup("x"); ok {
		t.Fatalf("Extend must not mutate the receiver")
	}
	got, ok := e1.Lookup("x")
	if !ok || got != addr {
		t.Fatalf("Extend did not bind x in the new environment")
	}
}

func TestEnvLookupUnbound(t *testing.T) {
	e := NewEnv()
	if _, ok := e.Lookup("missing"); ok {
		t.Fatalf("Lookup of an unbound name should report false")
	}
}

func TestEnvKeyOrderIndependent(t *testing.T) {
	a1 := Classical{}.Variable("a", nil, Timestamp{})
	a2 := Classical{}.Variable("b", nil, Timestamp{})
	e1 := NewEnv().Extend("a", a1).Extend("b", a2)
	e2 := NewEnv().Extend("b", a2).Extend("a", a1)
	if e1.Key() != e2.Key() {
		t.Fatalf("Env.Key should be insertion-order independent: %q vs %q", e1.Key(), e2.Key())
	}
}

func TestEnvExtendAll(t *testing.T) {
	a1 := Classical{}.Variable("a", nil, Timestamp{})
	a2 := Classical{}.Variable("b", nil, Timestamp{})
	e := NewEnv().ExtendAll([]Binding{{Name: "a", Addr: a1}, {Name: "b", Addr: a2}})
	if e.Len() != 2 {
		t.Fatalf("ExtendAll should install every binding, got %d", e.Len())
	}
}
