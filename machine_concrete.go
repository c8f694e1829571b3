// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

// ConcreteMachine runs spec.md §4.5's concrete variant: unique
// timestamps and addresses, no widening, one store cell per
// allocation.
//
// Concretely this reduces to AAMMachine parameterized by the Concrete
// timestamp policy (timestamp.go): since every Tick mints a fresh
// UUID, every address derived from that timestamp (address.go's
// Classical/ValueSensitive Variable/Cell) is globally unique per
// allocation. Store.Extend's "join into the existing cell" therefore
// always joins into an *absent* cell — which is exactly strong update,
// without needing a separate overwrite code path through Semantics.
// This is the same collapse-to-concrete-execution trick the AAM paper
// itself relies on (allocation uniqueness, not an alternate update
// rule, is what makes the abstract semantics concrete).
type ConcreteMachine struct {
	aam AAMMachine
}

// NewConcreteMachine builds a ConcreteMachine over sem, always using
// the Concrete timestamp policy; addrPolicy is caller-supplied since
// Classical and ValueSensitive both behave correctly once timestamps
// are unique.
func NewConcreteMachine(sem Semantics, addrPolicy AddressPolicy) ConcreteMachine {
	return ConcreteMachine{aam: AAMMachine{Sem: sem, AddrPolicy: addrPolicy, TimePolicy: Concrete{}}}
}

func (m ConcreteMachine) Initial(program Exp) []MachineState { return m.aam.Initial(program) }
func (m ConcreteMachine) Step(s MachineState) []MachineState { return m.aam.Step(s) }
