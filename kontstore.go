// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import (
	"sort"
	"strings"
)

// HaltAddr is the well-known address of the terminal continuation.
// Every KontStore implicitly maps it to {KontHalt, HaltAddr}; nothing
// ever needs to Extend it explicitly.
var HaltAddr = Address{}

// KontStore is Address → set-of-(frame, tail-address), the kont-store
// of spec.md §3/§4.5: "the continuation store is A → set of
// (frame, A') where A' is the tail address". Cells are joined by set
// union, never overwritten — this is what lets a recursive call's
// continuation coalesce with itself across iterations (spec.md §9).
type KontStore struct {
	cells map[Address]map[string]kontCell
}

// NewKontStore creates an empty kont-store.
func NewKontStore() KontStore {
	return KontStore{cells: map[Address]map[string]kontCell{}}
}

// Push allocates (or reuses) the kont-store cell at ak, joining in the
// (frame, tail) pair (spec.md §4.5 "σ' is extended with ak ↦ (f, old
// κ-address)"). Returns the new store and the Kont referring to ak.
func (ks KontStore) Push(ak Address, frame Frame, tail Kont) (KontStore, Kont) {
	next := ks.clone()
	bucket, ok := next.cells[ak]
	cell := kontCell{Frame: frame, Tail: tail.toAddr()}
	if !ok {
		bucket = map[string]kontCell{}
	} else {
		nb := make(map[string]kontCell, len(bucket)+1)
		for k, v := range bucket {
			nb[k] = v
		}
		bucket = nb
	}
	bucket[cellKey(cell)] = cell
	next.cells[ak] = bucket
	return next, Kont{Addr: ak}
}

func cellKey(c kontCell) string {
	return c.Frame.FrameKey() + "/" + c.Tail.String()
}

// Pop returns every (frame, tail) pair reachable at a Kont handle
// (spec.md §4.5/§9: popping is a join over the cell's set).
func (ks KontStore) Pop(k Kont) []kontCell {
	if k.Direct != nil {
		return []kontCell{*k.Direct}
	}
	if k.Addr == HaltAddr {
		return []kontCell{{Frame: KontHalt{}, Tail: HaltAddr}}
	}
	bucket := ks.cells[k.Addr]
	out := make([]kontCell, 0, len(bucket))
	for _, c := range bucket {
		out = append(out, c)
	}
	return out
}

// Join computes the pointwise (set-union per address) join of two
// kont-stores (spec.md §3, by analogy with Store.Join).
func (ks KontStore) Join(o KontStore) KontStore {
	next := ks.clone()
	for addr, bucket := range o.cells {
		nb, ok := next.cells[addr]
		if !ok {
			nb = map[string]kontCell{}
		} else {
			copied := make(map[string]kontCell, len(nb))
			for k, v := range nb {
				copied[k] = v
			}
			nb = copied
		}
		for k, c := range bucket {
			nb[k] = c
		}
		next.cells[addr] = nb
	}
	return next
}

// Leq reports whether ks is pointwise (set-inclusion per address)
// below o.
func (ks KontStore) Leq(o KontStore) bool {
	for addr, bucket := range ks.cells {
		ob, ok := o.cells[addr]
		if !ok {
			if len(bucket) > 0 {
				return false
			}
			continue
		}
		for k := range bucket {
			if _, ok := ob[k]; !ok {
				return false
			}
		}
	}
	return true
}

func (ks KontStore) clone() KontStore {
	next := make(map[Address]map[string]kontCell, len(ks.cells))
	for addr, bucket := range ks.cells {
		nb := make(map[string]kontCell, len(bucket))
		for k, v := range bucket {
			nb[k] = v
		}
		next[addr] = nb
	}
	return KontStore{cells: next}
}

// Key returns a structural fingerprint, used the same way Store.Key is
// used for State de-duplication.
func (ks KontStore) Key() string {
	addrs := make([]Address, 0, len(ks.cells))
	for a := range ks.cells {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].String() < addrs[j].String() })
	var b strings.Builder
	for _, a := range addrs {
		b.WriteString(a.String())
		b.WriteByte(':')
		keys := make([]string, 0, len(ks.cells[a]))
		for k := range ks.cells[a] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(k)
			b.WriteByte(',')
		}
		b.WriteByte(';')
	}
	return b.String()
}

func (k Kont) toAddr() Address {
	if k.Direct != nil {
		return HaltAddr
	}
	return k.Addr
}
