// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam_test

import (
	"testing"

	"github.com/hybscloud/aam"
	"github.com/hybscloud/aam/internal/testlat"
)

func TestValueJoinIdempotent(t *testing.T) {
	v := testlat.IntVal(testlat.ModeConcrete, 0, 3)
	joined := v.Join(v)
	if !joined.Leq(v) || !v.Leq(joined) {
		t.Fatalf("Join is not idempotent: %v vs %v", joined, v)
	}
}

func TestValueJoinCommutative(t *testing.T) {
	a := testlat.IntVal(testlat.ModeConcrete, 0, 1)
	b := testlat.IntVal(testlat.ModeConcrete, 0, 2)
	ab := a.Join(b)
	ba := b.Join(a)
	if !ab.Leq(ba) || !ba.Leq(ab) {
		t.Fatalf("Join is not commutative")
	}
}

func TestValueJoinAssociative(t *testing.T) {
	a := testlat.IntVal(testlat.ModeConcrete, 0, 1)
	b := testlat.IntVal(testlat.ModeConcrete, 0, 2)
	c := testlat.IntVal(testlat.ModeConcrete, 0, 3)
	left := a.Join(b).Join(c)
	right := a.Join(b.Join(c))
	if !left.Leq(right) || !right.Leq(left) {
		t.Fatalf("Join is not associative")
	}
}

func TestValueLeqAntisymmetric(t *testing.T) {
	bot := testlat.Bot(testlat.ModeConcrete, 0)
	one := testlat.IntVal(testlat.ModeConcrete, 0, 1)
	if !bot.Leq(one) {
		t.Fatalf("bot should be leq everything")
	}
	// bot ⊑ one holds and one ≠ bot, so antisymmetry forbids one ⊑ bot.
	if one.Leq(bot) {
		t.Fatalf("antisymmetry violated: 1 ⊑ ⊥ and ⊥ ⊑ 1 but 1 ≠ ⊥")
	}
}

func TestValueBotIsUnit(t *testing.T) {
	bot := testlat.Bot(testlat.ModeConcrete, 0)
	v := testlat.IntVal(testlat.ModeConcrete, 0, 42)
	joined := bot.Join(v)
	if !joined.Leq(v) || !v.Leq(joined) {
		t.Fatalf("bot is not a join unit: got %v want %v", joined, v)
	}
}

func TestProductJoinPointwise(t *testing.T) {
	p1 := aam.Product[testlat.Val, testlat.Val]{
		Fst: testlat.IntVal(testlat.ModeConcrete, 0, 1),
		Snd: testlat.BoolVal(testlat.ModeConcrete, 0, true),
	}
	p2 := aam.Product[testlat.Val, testlat.Val]{
		Fst: testlat.IntVal(testlat.ModeConcrete, 0, 2),
		Snd: testlat.BoolVal(testlat.ModeConcrete, 0, false),
	}
	joined := p1.Join(p2).(aam.Product[testlat.Val, testlat.Val])
	if !joined.Fst.Leq(testlat.IntVal(testlat.ModeConcrete, 0, 1).Join(testlat.IntVal(testlat.ModeConcrete, 0, 2))) {
		t.Fatalf("product join did not combine Fst pointwise")
	}
}

func TestBoundedModeCollapsesOverflow(t *testing.T) {
	a := testlat.IntVal(testlat.ModeBounded, 10, 9)
	b := testlat.IntVal(testlat.ModeBounded, 10, 9)
	sum := a.BinaryOp(aam.OpPlus, b)
	if sum.IsError() {
		t.Fatalf("sum should not be an error")
	}
	// 9+9=18 overflows a bound of 10, so it collapses rather than
	// reporting 18 exactly.
	exact := testlat.IntVal(testlat.ModeBounded, 10, 18)
	if sum.Leq(exact) {
		t.Fatalf("bounded mode should not keep 18 exact past the bound")
	}
}

func TestTypeSetModeCollapsesEveryInt(t *testing.T) {
	a := testlat.IntVal(testlat.ModeTypeSet, 0, 1)
	b := testlat.IntVal(testlat.ModeTypeSet, 0, 999)
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("TypeSet mode should collapse every int to one class; got %q vs %q", a.Fingerprint(), b.Fingerprint())
	}
}

func TestDivisionByZeroIsError(t *testing.T) {
	a := testlat.IntVal(testlat.ModeConcrete, 0, 1)
	zero := testlat.IntVal(testlat.ModeConcrete, 0, 0)
	if !a.BinaryOp(aam.OpDiv, zero).IsError() {
		t.Fatalf("division by zero should report an error-tagged value")
	}
}

func TestCountsExactly(t *testing.T) {
	one := testlat.IntVal(testlat.ModeConcrete, 0, 1)
	if !one.CountsExactly() {
		t.Fatalf("a singleton int Val should count exactly")
	}
	two := one.Join(testlat.IntVal(testlat.ModeConcrete, 0, 2))
	if two.(testlat.Val).CountsExactly() {
		t.Fatalf("a two-element Val should not count exactly")
	}
}
