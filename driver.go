// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MachineState is the minimum a vertex of the state graph must supply
// to the driver (spec.md §3 State, §4.5 reachability loop). Each
// machine variant (machine_aam.go, machine_globalstore.go,
// machine_free.go, machine_concrete.go) defines its own concrete state
// shape implementing this interface.
type MachineState interface {
	// Key is the structural fingerprint used for visited-set
	// de-duplication (spec.md §3 Invariant 3).
	Key() string
	Halted() bool
	// FinalValue is only meaningful when Halted() is true.
	FinalValue() Value
}

// Machine produces the initial frontier and steps one state to its
// successors. Folding Actions into successor states is the machine
// variant's job, not the driver's (spec.md §4.5 "The variants differ
// in... how step folds actions back into state").
type Machine interface {
	Initial(program Exp) []MachineState
	Step(s MachineState) []MachineState
}

// Strategy selects the work-queue discipline (spec.md §5/§6 "FIFO or
// LIFO policy"). Confluence of the final result does not depend on
// this choice (spec.md §8 property 2).
type Strategy int

const (
	FIFO Strategy = iota
	LIFO
)

// RunOptions configures a single exploration (spec.md §6 config
// surface, restricted to the fields the driver itself consumes).
type RunOptions struct {
	Strategy Strategy
	Workers  int // parallel driver workers (spec.md §5); <=1 means sequential
	Timeout  time.Duration
	Logger   *zap.Logger
	Metrics  *Metrics

	// RecordGraph enables edge recording for dot.go's WriteDOT (spec.md
	// §6 "-d/--dotfile"). Off by default: recording costs an extra
	// string build per transition, wasted on every run that never asks
	// for a DOT file.
	RecordGraph bool
}

// worklist is a simple slice-backed deque; FIFO pops from the front,
// LIFO pops from the back. Adequate at kernel scale — spec.md §8
// property 2 only requires that *some* discipline is honored, not that
// it be lock-free or allocation-free.
type worklist struct {
	mu       sync.Mutex
	items    []MachineState
	strategy Strategy
}

func newWorklist(strategy Strategy) *worklist {
	return &worklist{strategy: strategy}
}

func (w *worklist) push(items ...MachineState) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = append(w.items, items...)
}

func (w *worklist) pop() (MachineState, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.items) == 0 {
		return nil, false
	}
	switch w.strategy {
	case LIFO:
		last := w.items[len(w.items)-1]
		w.items = w.items[:len(w.items)-1]
		return last, true
	default: // FIFO
		first := w.items[0]
		w.items = w.items[1:]
		return first, true
	}
}

func (w *worklist) empty() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items) == 0
}

func (w *worklist) len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// visitedSet is the shared, lock-guarded de-duplication map (spec.md §5
// "a lock-free concurrent map or per-shard locks"; a single mutex is
// the simplest correct instance of "per-shard locks" with one shard,
// adequate at kernel scale — sharding would be a pure performance
// refinement with no semantic difference).
type visitedSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newVisitedSet() *visitedSet {
	return &visitedSet{seen: map[string]struct{}{}}
}

// markIfNew returns true the first time a given key is seen.
func (v *visitedSet) markIfNew(key string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.seen[key]; ok {
		return false
	}
	v.seen[key] = struct{}{}
	return true
}

func (v *visitedSet) size() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.seen)
}

// Run drives m to a fixed point (spec.md §4.5), honoring RunOptions'
// deadline and worker count (spec.md §5). It is the one authority that
// folds successor states into the shared work queue / visited set /
// result accumulator (spec.md §9 "Global mutable state... Encapsulate
// in the driver object").
func Run(program Exp, m Machine, opts RunOptions) Result {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	ctx := context.Background()
	var cancel context.CancelFunc
	if opts.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	logger.Info("exploration started", zap.Int("workers", workers))

	wl := newWorklist(opts.Strategy)
	visited := newVisitedSet()
	var resultMu sync.Mutex
	var finalValues []Value
	var errorStates []SemanticError
	var edges []Edge

	initial := m.Initial(program)
	for _, s := range initial {
		if visited.markIfNew(s.Key()) {
			wl.push(s)
		}
	}
	metrics.FrontierSize.Set(float64(wl.len()))

	timedOut := false
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				default:
				}
				s, ok := wl.pop()
				if !ok {
					if wl.empty() {
						return nil
					}
					continue
				}
				metrics.StatesExplored.Inc()
				if s.Halted() {
					resultMu.Lock()
					if err, ok := s.FinalValue().(semanticErrorValue); ok {
						errorStates = append(errorStates, err.SemanticError)
					} else if s.FinalValue() != nil {
						finalValues = append(finalValues, s.FinalValue())
					}
					resultMu.Unlock()
					continue
				}
				for _, succ := range m.Step(s) {
					if opts.RecordGraph {
						resultMu.Lock()
						edges = append(edges, Edge{From: s.Key(), To: succ.Key()})
						resultMu.Unlock()
					}
					if visited.markIfNew(succ.Key()) {
						wl.push(succ)
					}
				}
				metrics.FrontierSize.Set(float64(wl.len()))
			}
		})
	}
	_ = g.Wait()

	select {
	case <-ctx.Done():
		timedOut = true
	default:
	}

	elapsed := time.Since(start)
	metrics.ExplorationSeconds.Observe(elapsed.Seconds())
	logger.Info("exploration finished",
		zap.Int("states", visited.size()),
		zap.Duration("elapsed", elapsed),
		zap.Bool("timed_out", timedOut),
	)

	return Result{
		finalValues:    finalValues,
		errors:         errorStates,
		edges:          edges,
		NumberOfStates: visited.size(),
		Time:           elapsed,
		TimedOut:       timedOut,
	}
}

// semanticErrorValue wraps a SemanticError so it can flow through the
// same Value-typed FinalValue slot a halted-with-error state reports
// (spec.md §7: "an ActionError(err) becomes a state whose control is
// Error(err) with no successors").
type semanticErrorValue struct {
	SemanticError
}

func (semanticErrorValue) Bot() Value                             { return semanticErrorValue{} }
func (e semanticErrorValue) Join(Value) Value                     { return e }
func (semanticErrorValue) Leq(Value) bool                         { return true }
func (semanticErrorValue) IsTrue() bool                           { return false }
func (semanticErrorValue) IsFalse() bool                          { return false }
func (semanticErrorValue) IsError() bool                          { return true }
func (e semanticErrorValue) UnaryOp(UnaryOperator) Value          { return e }
func (e semanticErrorValue) BinaryOp(BinaryOperator, Value) Value { return e }
func (semanticErrorValue) Closures() []Closure                    { return nil }
func (semanticErrorValue) Prims() []Prim                          { return nil }
func (semanticErrorValue) Tids() []ThreadID                       { return nil }
func (semanticErrorValue) Pids() []PID                            { return nil }
func (semanticErrorValue) Locks() []Address                       { return nil }
func (semanticErrorValue) Car() []Address                         { return nil }
func (semanticErrorValue) Cdr() []Address                         { return nil }
func (e semanticErrorValue) Fingerprint() string                  { return "error:" + e.Error() }

// ErrorValue lifts a SemanticError into a Value, for use by machine
// variants reporting a halted-with-error state.
func ErrorValue(err SemanticError) Value { return semanticErrorValue{err} }
