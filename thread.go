// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import "sort"

// ThreadLocalState is the per-thread slice of a concurrent State
// (spec.md §4.6: "State is extended with a thread pool: a mapping
// TID → multi-set of local states"). The AAM, GlobalStore and Free
// machines all use machine_aam.go's threadLocal (Control and Kont, no
// Store); this interface is the minimum the concurrent extension
// itself needs.
type ThreadLocalState interface {
	Key() string
	Halted() bool
	// FinalValue returns the value at KontHalt; only meaningful when
	// Halted() is true.
	FinalValue() Value
}

// ThreadPool is TID → multi-set of local states, represented as a set
// (by Key) rather than a bag: joining in a structurally-equal local
// state a second time is a no-op, matching the store/kont-store join
// discipline elsewhere in the kernel.
type ThreadPool struct {
	threads map[ThreadID]map[string]ThreadLocalState
}

// NewThreadPool creates an empty thread pool.
func NewThreadPool() ThreadPool {
	return ThreadPool{threads: map[ThreadID]map[string]ThreadLocalState{}}
}

// Install adds a local state to tid's multi-set (spec.md §4.6 "re-insert
// its successors"; also used by Spawn to install the child thread).
func (p ThreadPool) Install(tid ThreadID, s ThreadLocalState) ThreadPool {
	next := p.clone()
	bucket, ok := next.threads[tid]
	if !ok {
		bucket = map[string]ThreadLocalState{}
		next.threads[tid] = bucket
	} else {
		nb := make(map[string]ThreadLocalState, len(bucket)+1)
		for k, v := range bucket {
			nb[k] = v
		}
		bucket = nb
		next.threads[tid] = bucket
	}
	bucket[s.Key()] = s
	return next
}

// States returns tid's current multi-set of local states.
func (p ThreadPool) States(tid ThreadID) []ThreadLocalState {
	bucket := p.threads[tid]
	out := make([]ThreadLocalState, 0, len(bucket))
	for _, s := range bucket {
		out = append(out, s)
	}
	return out
}

// AllThreads returns every thread id with at least one local state, in
// a stable order (for the driver's "pick one active thread" step,
// spec.md §4.6).
func (p ThreadPool) AllThreads() []ThreadID {
	ids := make([]ThreadID, 0, len(p.threads))
	for id := range p.threads {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// Joinable reports whether every current local state of tid is halted
// (spec.md §4.6 Join: "only enabled when every current thread state of
// tid is halted") and, if so, returns the join of their final values.
func (p ThreadPool) Joinable(tid ThreadID) (Value, bool) {
	states := p.States(tid)
	if len(states) == 0 {
		return nil, false
	}
	var result Value
	for _, s := range states {
		if !s.Halted() {
			return nil, false
		}
		if result == nil {
			result = s.FinalValue()
		} else {
			result = result.Join(s.FinalValue())
		}
	}
	return result, true
}

func (p ThreadPool) clone() ThreadPool {
	next := make(map[ThreadID]map[string]ThreadLocalState, len(p.threads))
	for tid, bucket := range p.threads {
		nb := make(map[string]ThreadLocalState, len(bucket))
		for k, v := range bucket {
			nb[k] = v
		}
		next[tid] = nb
	}
	return ThreadPool{threads: next}
}

// JoinedSet tracks which thread ids a state has already joined, so a
// halted+joined thread is not re-joined (spec.md §3 State: "in
// concurrent extensions (ThreadPool, JoinedSet)").
type JoinedSet struct {
	ids map[ThreadID]struct{}
}

// NewJoinedSet creates an empty joined set.
func NewJoinedSet() JoinedSet { return JoinedSet{ids: map[ThreadID]struct{}{}} }

// Add returns a new set with tid marked joined.
func (j JoinedSet) Add(tid ThreadID) JoinedSet {
	next := make(map[ThreadID]struct{}, len(j.ids)+1)
	for k := range j.ids {
		next[k] = struct{}{}
	}
	next[tid] = struct{}{}
	return JoinedSet{ids: next}
}

// Has reports whether tid has already been joined.
func (j JoinedSet) Has(tid ThreadID) bool {
	_, ok := j.ids[tid]
	return ok
}

// Key returns a structural fingerprint for State de-duplication.
func (j JoinedSet) Key() string {
	ids := make([]ThreadID, 0, len(j.ids))
	for id := range j.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	var out string
	for _, id := range ids {
		out += id.String() + ","
	}
	return out
}

// Key returns a structural fingerprint for State de-duplication.
func (p ThreadPool) Key() string {
	var out string
	for _, tid := range p.AllThreads() {
		out += tid.String() + ":"
		keys := make([]string, 0, len(p.threads[tid]))
		for k := range p.threads[tid] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out += k + ","
		}
		out += ";"
	}
	return out
}
