// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import "time"

// Result is the output contract of spec.md §6: the join of all values
// flowing to the final continuation, the number of states explored,
// wall-clock time, and a subsumption predicate.
type Result struct {
	finalValues []Value
	errors      []SemanticError
	edges       []Edge

	NumberOfStates int
	Time           time.Duration
	TimedOut       bool
}

// FinalValues returns the set of values that reached the final
// continuation (spec.md §6).
func (r Result) FinalValues() []Value { return r.finalValues }

// Errors returns the structured semantic failures reachable on the
// state graph (spec.md §7: "the final report lists reachable errors").
func (r Result) Errors() []SemanticError { return r.errors }

// Edges returns the recorded state-graph transitions, populated only
// when RunOptions.RecordGraph was set (spec.md §6 "-d/--dotfile").
func (r Result) Edges() []Edge { return r.edges }

// ContainsFinalValue reports whether any final value subsumes v
// (spec.md §6: "true iff any final value subsumes v"; spec.md §8
// property 4, subsumption soundness).
func (r Result) ContainsFinalValue(v Value) bool {
	for _, fv := range r.finalValues {
		if v.Leq(fv) {
			return true
		}
	}
	return false
}

// Joined folds every final value into one (convenience; not part of
// spec.md §6's contract, but the natural reduction of it).
func (r Result) Joined() (Value, bool) {
	if len(r.finalValues) == 0 {
		return nil, false
	}
	acc := r.finalValues[0]
	for _, v := range r.finalValues[1:] {
		acc = acc.Join(v)
	}
	return acc, true
}
