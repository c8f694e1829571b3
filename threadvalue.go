// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

// tidValue lifts a ThreadID into the Value lattice so Spawn's result
// (spec.md §4.6: "Spawn... returns a ThreadId") can flow through the
// same channel ReachedValue carries any other value on, the same way
// pidValue (actor.go) lifts Create's PID result.
type tidValue struct{ tid ThreadID }

// TidValue lifts tid into a Value.
func TidValue(tid ThreadID) Value { return tidValue{tid: tid} }

func (tidValue) Bot() Value                             { return tidValue{} }
func (v tidValue) Join(o Value) Value                   { return v }
func (v tidValue) Leq(Value) bool                       { return true }
func (tidValue) IsTrue() bool                           { return true }
func (tidValue) IsFalse() bool                          { return false }
func (tidValue) IsError() bool                          { return false }
func (v tidValue) UnaryOp(UnaryOperator) Value          { return v }
func (v tidValue) BinaryOp(BinaryOperator, Value) Value { return v }
func (tidValue) Closures() []Closure                    { return nil }
func (tidValue) Prims() []Prim                          { return nil }
func (v tidValue) Tids() []ThreadID                     { return []ThreadID{v.tid} }
func (tidValue) Pids() []PID                            { return nil }
func (tidValue) Locks() []Address                       { return nil }
func (tidValue) Car() []Address                         { return nil }
func (tidValue) Cdr() []Address                         { return nil }
func (v tidValue) Fingerprint() string                  { return "tid:" + v.tid.String() }
