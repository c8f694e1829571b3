// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

// Semantics is the language plug-in contract of spec.md §4.4. Given
// (e, ρ, σ, t) it produces a set of Actions — non-determinism is
// first-class, so a single call may return more than one Action.
//
// Semantics implementations never mutate σ or ρ; every Action that
// touches the store carries its own σ' (spec.md §3 Invariant 4: "the
// driver is the unique authority that updates global structures").
type Semantics interface {
	// StepEval handles "about to evaluate e".
	StepEval(e Exp, env Env, store Store, t Timestamp) []Action

	// StepKont handles "value v has surfaced, top frame is frame".
	StepKont(v Value, frame Frame, store Store, t Timestamp) []Action

	// StepReceive handles an actor receiving a message (spec.md §4.7).
	// The default behavior (DefaultStepReceive) raises
	// MessageNotSupported; languages with actor extensions override it.
	StepReceive(self PID, messageName string, args []Value, behavior *Behavior, env Env, store Store, t Timestamp) []Action
}

// DefaultStepReceive is the fallback StepReceive required by spec.md
// §4.4 ("the default raises MessageNotSupported"). Semantics
// implementations without actor support can delegate to it directly.
func DefaultStepReceive(_ PID, messageName string, _ []Value, _ *Behavior, _ Env, _ Store, _ Timestamp) []Action {
	return []Action{NewErrorAction(SemanticError{
		Kind:    MessageNotSupported,
		Message: "no actor semantics installed for message " + messageName,
	})}
}
