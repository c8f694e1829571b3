// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import "testing"

func TestEffectSetJoinUnions(t *testing.T) {
	a1 := Classical{}.Variable("a", nil, Timestamp{})
	a2 := Classical{}.Variable("b", nil, Timestamp{})
	s1 := NewEffectSet(Effect{Kind: ReadVar, Addr: a1})
	s2 := NewEffectSet(Effect{Kind: WriteVar, Addr: a2})
	joined := s1.Join(s2)
	if len(joined) != 2 {
		t.Fatalf("joined effect set should have 2 entries, got %d", len(joined))
	}
}

func TestEffectSetConflictsOnSharedWrite(t *testing.T) {
	a := Classical{}.Variable("x", nil, Timestamp{})
	write := NewEffectSet(Effect{Kind: WriteVar, Addr: a})
	read := NewEffectSet(Effect{Kind: ReadVar, Addr: a})
	if !write.Conflicts(read) {
		t.Fatalf("a write and a read to the same address must conflict")
	}
	if !read.Conflicts(write) {
		t.Fatalf("Conflicts should be symmetric")
	}
}

func TestEffectSetNoConflictOnDisjointReads(t *testing.T) {
	a1 := Classical{}.Variable("a", nil, Timestamp{})
	a2 := Classical{}.Variable("b", nil, Timestamp{})
	r1 := NewEffectSet(Effect{Kind: ReadVar, Addr: a1})
	r2 := NewEffectSet(Effect{Kind: ReadVar, Addr: a2})
	if r1.Conflicts(r2) {
		t.Fatalf("two reads on disjoint addresses must not conflict")
	}
}

func TestEffectSetNoConflictOnSharedReads(t *testing.T) {
	a := Classical{}.Variable("x", nil, Timestamp{})
	r1 := NewEffectSet(Effect{Kind: ReadVar, Addr: a})
	r2 := NewEffectSet(Effect{Kind: ReadVar, Addr: a})
	if r1.Conflicts(r2) {
		t.Fatalf("two reads on the same address must not conflict")
	}
}
