// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

// ActionKind tags which of the closed set of Action shapes a value
// carries (spec.md §3/§9 "Action as sum type... pattern-match
// exhaustiveness is the contract that every possible step is handled
// by the driver").
type ActionKind uint8

const (
	ActionReachedValue ActionKind = iota
	ActionPush
	ActionEval
	ActionStepIn
	ActionError
	ActionSpawn
	ActionJoin
	ActionSend
	ActionCreate
	ActionBecome
	ActionTerminate
)

// Action is the effect a single semantics step requests of the driver
// (spec.md §3). It is a single struct tagged by Kind rather than an
// interface hierarchy, since the driver must switch on it exhaustively
// and the field sets overlap heavily (Exp/Env/Store are shared by half
// the variants) — the same flat-struct-plus-tag shape the teacher uses
// for Control (spec.md §3 Control is likewise Eval|Kont).
//
// Every Action carries an EffectSet (spec.md §3). No machine variant
// in this package reads it: exploration never calls
// EffectSet.Conflicts.
type Action struct {
	Kind    ActionKind
	Effects EffectSet

	Value Value
	Store Store

	Exp Exp
	Env Env

	PushFrame Frame

	FExp    Exp
	Closure Closure
	Body    Exp
	Argv    []Value

	Err SemanticError

	Tid          ThreadID
	Continuation *Action

	PID PID
	Msg Value

	Behavior  *Behavior
	CreateExp Exp
}

// NewReachedValue builds a ReachedValue(v, σ') action: the semantics is
// done producing v under the updated store σ'.
func NewReachedValue(v Value, store Store, effects EffectSet) Action {
	return Action{Kind: ActionReachedValue, Value: v, Store: store, Effects: effects}
}

// NewPush builds a Push(frame, e, ρ, σ') action: suspend with frame,
// then evaluate e under ρ, σ'.
func NewPush(frame Frame, e Exp, env Env, store Store, effects EffectSet) Action {
	return Action{Kind: ActionPush, PushFrame: frame, Exp: e, Env: env, Store: store, Effects: effects}
}

// NewEval builds an Eval(e, ρ, σ') action: continue evaluating e under
// ρ, σ' without pushing a new frame.
func NewEval(e Exp, env Env, store Store, effects EffectSet) Action {
	return Action{Kind: ActionEval, Exp: e, Env: env, Store: store, Effects: effects}
}

// NewStepIn builds a StepIn(fexp, closure, body, ρ, σ', argv) action:
// enter a closure's body.
func NewStepIn(fexp Exp, closure Closure, body Exp, env Env, store Store, argv []Value, effects EffectSet) Action {
	return Action{
		Kind: ActionStepIn, FExp: fexp, Closure: closure, Body: body,
		Env: env, Store: store, Argv: argv, Effects: effects,
	}
}

// NewErrorAction builds an Error(err) action: the step fails semantically.
func NewErrorAction(err SemanticError) Action {
	return Action{Kind: ActionError, Err: err}
}

// NewSpawn builds a Spawn(tid, e, ρ, σ', continuation) action: install a
// new thread evaluating e, continue the parent with continuation.
func NewSpawn(tid ThreadID, e Exp, env Env, store Store, continuation Action, effects EffectSet) Action {
	return Action{Kind: ActionSpawn, Tid: tid, Exp: e, Env: env, Store: store, Continuation: &continuation, Effects: effects}
}

// NewJoin builds a Join(tid, σ') action: wait for tid to halt.
func NewJoin(tid ThreadID, store Store, effects EffectSet) Action {
	return Action{Kind: ActionJoin, Tid: tid, Store: store, Effects: effects}
}

// NewSend builds a Send(pid, msg, continuation) action: deliver msg to
// pid's mailbox, continue with continuation.
func NewSend(pid PID, msg Value, continuation Action, effects EffectSet) Action {
	return Action{Kind: ActionSend, PID: pid, Msg: msg, Continuation: &continuation, Effects: effects}
}

// NewCreate builds a Create(behavior, expr, ρ) action: allocate a fresh
// actor running behavior, with ρ as its captured environment (the
// environment in scope where the CreateActor expression evaluated),
// for message handlers that close over outer bindings.
func NewCreate(behavior *Behavior, expr Exp, env Env, effects EffectSet) Action {
	return Action{Kind: ActionCreate, Behavior: behavior, CreateExp: expr, Env: env, Effects: effects}
}

// NewBecome builds a Become(behavior) action: replace the acting
// actor's behavior.
func NewBecome(behavior *Behavior, effects EffectSet) Action {
	return Action{Kind: ActionBecome, Behavior: behavior, Effects: effects}
}

// NewTerminate builds a Terminate action: remove the acting actor.
func NewTerminate(effects EffectSet) Action {
	return Action{Kind: ActionTerminate, Effects: effects}
}
