// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

// EffectKind enumerates the read/write fingerprint kinds of spec.md §3.
type EffectKind uint8

const (
	ReadVar EffectKind = iota
	WriteVar
	ReadCar
	WriteCar
	ReadCdr
	WriteCdr
	ReadVec
	WriteVec
	Acquire
	Release
)

func (k EffectKind) isWrite() bool {
	switch k {
	case WriteVar, WriteCar, WriteCdr, WriteVec, Acquire, Release:
		return true
	default:
		return false
	}
}

// Effect is a read or write fingerprint on an address (spec.md §3),
// used only for DPOR/race ordering, never for store content itself.
type Effect struct {
	Kind EffectKind
	Addr Address
}

// EffectSet is the Set<Effect> carried by every Action (spec.md §3).
// Its Join is the monoid spec.md §9 calls for: Read⊔Read=Read, any
// Write dominates — implemented here as "the set union", since two
// effects on the same (Kind, Addr) pair are already equal and de-dupe
// via the underlying map; domination of Write over Read is realized by
// Conflicts (below), not by collapsing reads into writes.
type EffectSet map[Effect]struct{}

// NewEffectSet builds an EffectSet from a list of effects.
func NewEffectSet(effects ...Effect) EffectSet {
	s := make(EffectSet, len(effects))
	for _, e := range effects {
		s[e] = struct{}{}
	}
	return s
}

// Join is the monoid operation combining two effect sets (spec.md §9).
func (s EffectSet) Join(o EffectSet) EffectSet {
	next := make(EffectSet, len(s)+len(o))
	for e := range s {
		next[e] = struct{}{}
	}
	for e := range o {
		next[e] = struct{}{}
	}
	return next
}

// Conflicts reports whether s and o race: some address is written by
// at least one side and touched (read or written) by the other
// (spec.md §4.6 "Ex⋈Ey ≠ ∅ (write-conflict)").
func (s EffectSet) Conflicts(o EffectSet) bool {
	byAddr := make(map[Address]EffectKind, len(s))
	writes := make(map[Address]bool, len(s))
	for e := range s {
		if e.Kind.isWrite() {
			writes[e.Addr] = true
		}
		byAddr[e.Addr] = e.Kind
	}
	for e := range o {
		_, touchedByS := byAddr[e.Addr]
		if !touchedByS {
			continue
		}
		if e.Kind.isWrite() || writes[e.Addr] {
			return true
		}
	}
	return false
}
