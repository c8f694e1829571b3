// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import "testing"

func TestKCFAZeroRetainsNoHistory(t *testing.T) {
	p := KCFA{K: 0}
	t0 := p.Zero()
	t1 := p.TickCall(t0, dummyExp{1}, dummyExp{2})
	if t0 != t1 {
		t.Fatalf("0-CFA should never distinguish call sites: %v vs %v", t0, t1)
	}
}

func TestKCFARetainsLastK(t *testing.T) {
	p := KCFA{K: 1}
	t0 := p.Zero()
	t1 := p.TickCall(t0, dummyExp{1}, dummyExp{1})
	t2 := p.TickCall(t1, dummyExp{1}, dummyExp{2})
	if t1 == t2 {
		t.Fatalf("1-CFA should distinguish different call sites")
	}
	// A third call from the same site as t1 (site 1) should produce the
	// same timestamp as t1, since only the last 1 call site is kept.
	t3 := p.TickCall(t0, dummyExp{1}, dummyExp{1})
	if t1 != t3 {
		t.Fatalf("identical call-site history should collapse: %v vs %v", t1, t3)
	}
}

func TestConcreteTicksAreGloballyUnique(t *testing.T) {
	p := Concrete{}
	t0 := p.Zero()
	seen := map[Timestamp]bool{t0: true}
	for i := 0; i < 20; i++ {
		t0 = p.Tick(t0, dummyExp{uintptr(i)})
		if seen[t0] {
			t.Fatalf("concrete tick repeated a timestamp")
		}
		seen[t0] = true
	}
}
