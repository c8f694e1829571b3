// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import (
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Store is the address-to-lattice-cell map of spec.md §3.
// Lookup of an absent address yields Bot (by convention the caller
// supplies a Bot of the right concrete lattice type via zero); Extend
// joins into the existing cell rather than overwriting it — strong
// update is not used by default (spec.md §3).
type Store struct {
	cells    map[Address]Value
	counting bool
}

// NewStore creates an empty store with abstract counting disabled
// (spec.md §3 default: Extend always joins).
func NewStore() Store {
	return Store{cells: map[Address]Value{}}
}

// NewCountingStore creates an empty store with abstract counting
// enabled per Config.Counting (spec.md glossary "Counting"): Extend
// performs a strong update instead of a join whenever both the
// existing cell and the incoming value report CountsExactly() (each
// asserts there has only ever been one concrete allocation behind it),
// since joining two such singletons only loses precision for no
// soundness benefit.
func NewCountingStore() Store {
	return Store{cells: map[Address]Value{}, counting: true}
}

// Lookup returns the cell at a and whether it was present. Callers that
// need the spec.md "⊥ when absent" behavior should fall back to a
// Bot() of their lattice when ok is false, since Store does not itself
// know which concrete Value type inhabits it until something is
// written.
func (s Store) Lookup(a Address) (Value, bool) {
	v, ok := s.cells[a]
	return v, ok
}

// Extend joins v into the cell at a, returning a new Store (spec.md §3:
// extend(a, v) = σ[a ↦ σ(a) ⊔ v]) — unless abstract counting is enabled
// and both the old cell and v count exactly one allocation, in which
// case it strong-updates instead (see NewCountingStore).
func (s Store) Extend(a Address, v Value) Store {
	next := make(map[Address]Value, len(s.cells)+1)
	for k, val := range s.cells {
		next[k] = val
	}
	if old, ok := next[a]; ok {
		if s.counting && countsExactlyOne(old) && countsExactlyOne(v) {
			next[a] = v
		} else {
			next[a] = old.Join(v)
		}
	} else {
		next[a] = v
	}
	return Store{cells: next, counting: s.counting}
}

// countsExactlyOne reports whether v implements Counting and currently
// denotes exactly one concrete value; a Value without the Counting
// capability is conservatively treated as "not known to be singleton".
func countsExactlyOne(v Value) bool {
	c, ok := v.(Counting)
	return ok && c.CountsExactly()
}

// Overwrite replaces the cell at a instead of joining into it. Used
// by language front-ends modeling mutable storage where repeated
// joining would accumulate every value ever written instead of holding
// the latest (spec.md §4.5 ConcreteMachine: "strong update"): an
// actor's own cell, addressed by its own PID so it can never collide
// with another allocation, and testlat's indexer table slots, whose
// Variable addresses are shared by every put that hashes to the slot.
func (s Store) Overwrite(a Address, v Value) Store {
	next := make(map[Address]Value, len(s.cells)+1)
	for k, val := range s.cells {
		next[k] = val
	}
	next[a] = v
	return Store{cells: next, counting: s.counting}
}

// Join computes the pointwise join of two stores (spec.md §3). Always a
// true join regardless of counting: merging two independently-explored
// stores is exactly the case where more than one allocation may be
// behind a cell, so strong update would be unsound here.
func (s Store) Join(o Store) Store {
	next := make(map[Address]Value, len(s.cells)+len(o.cells))
	for k, v := range s.cells {
		next[k] = v
	}
	for k, v := range o.cells {
		if old, ok := next[k]; ok {
			next[k] = old.Join(v)
		} else {
			next[k] = v
		}
	}
	return Store{cells: next, counting: s.counting || o.counting}
}

// Leq reports whether s is pointwise below o (spec.md §3 Invariant 2:
// σ ⊑ σ').
func (s Store) Leq(o Store) bool {
	for k, v := range s.cells {
		ov, ok := o.cells[k]
		if !ok || !v.Leq(ov) {
			return false
		}
	}
	return true
}

// Key returns a structural fingerprint, used both for State equality
// (spec.md §3 Invariant 3: "Store equality is structural") and as the
// cache key for the interning table below.
func (s Store) Key() string {
	addrs := make([]Address, 0, len(s.cells))
	for a := range s.cells {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].String() < addrs[j].String() })
	var b strings.Builder
	for _, a := range addrs {
		fp, _ := s.cells[a].(Fingerprint)
		b.WriteString(a.String())
		b.WriteByte(':')
		if fp != nil {
			b.WriteString(fp.Fingerprint())
		}
		b.WriteByte(';')
	}
	return b.String()
}

// internTable deduplicates structurally-equal Store values reached by
// AAM (spec.md §4.5: "This gives maximum precision but many distinct
// stores"). Bounded by an LRU so a long exploration cannot grow the
// cache without bound; a cache miss simply means the store is kept as
// its own distinct object, never a correctness issue, only a missed
// deduplication (§3 Invariant 2/3 are unaffected either way).
type internTable struct {
	mu    sync.Mutex
	cache *lru.Cache[string, Store]
}

// newInternTable creates an interning table with the given capacity.
func newInternTable(capacity int) *internTable {
	c, err := lru.New[string, Store](capacity)
	if err != nil {
		// Only returns an error for capacity <= 0.
		c, _ = lru.New[string, Store](1)
	}
	return &internTable{cache: c}
}

// Intern returns the canonical Store structurally equal to s, adding s
// to the table if no such Store is cached yet.
func (t *internTable) Intern(s Store) Store {
	key := s.Key()
	t.mu.Lock()
	defer t.mu.Unlock()
	if canon, ok := t.cache.Get(key); ok {
		return canon
	}
	t.cache.Add(key, s)
	return s
}
