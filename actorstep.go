// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

// actorSuccessor is one way the actor system plus value store can
// evolve by processing a single pending message (spec.md §4.7). Each
// machine variant folds it back into its own state shape (per-state
// store for AAM, global store for GlobalStore/Free) — the stepping
// logic itself does not depend on which.
type actorSuccessor struct {
	Actors ActorSystem
	Store  Store
}

// stepActorMessages explores every (actor, pending message) pair once
// per driver step. Mailboxes are join-sets rather than queues (spec.md
// §4.7: "delivery is unordered and at-least-once"): a mailbox entry is
// never removed once delivered, so the same entry can be redelivered
// on a later step, standing in for the possibility that more than one
// concrete send collapsed onto it. A receive handler whose update is
// idempotent (e.g. a plain strong store overwrite with a constant)
// reaches a fixed point the first time it redelivers; a handler that
// keeps changing the store on every redelivery (e.g. an accumulating
// counter) only reaches a fixed point once the value lattice's finite
// height forces its own successive updates to collapse — callers
// driving such a behavior need a bounded numeric mode, not Concrete,
// for the exploration to terminate.
func stepActorMessages(sem Semantics, addrPolicy AddressPolicy, store Store, t Timestamp, actors ActorSystem) []actorSuccessor {
	var out []actorSuccessor
	for _, pid := range actors.PIDs() {
		actor, ok := actors.Lookup(pid)
		if !ok || actor.Mailbox.Empty() {
			continue
		}
		for _, msg := range actor.Mailbox.Values() {
			mv, ok := msg.(Message)
			if !ok {
				continue
			}
			actions := sem.StepReceive(pid, mv.MessageName(), mv.MessageArgs(), actor.Behavior, actor.Control.Env, store, t)
			for _, act := range actions {
				out = append(out, foldActorAction(addrPolicy, t, actors, store, pid, act))
			}
		}
	}
	return out
}

// foldActorAction applies one Action produced by StepReceive to the
// acting actor's own (Control, Behavior) slice and/or the shared value
// store and rest of the actor system. Become/Terminate apply to pid
// because StepReceive's self parameter identifies the acting actor;
// the Action shapes themselves carry no PID for these two cases
// (spec.md §4.7: "Become/Terminate act on the receiving actor").
func foldActorAction(addrPolicy AddressPolicy, t Timestamp, actors ActorSystem, store Store, pid PID, act Action) actorSuccessor {
	switch act.Kind {
	case ActionBecome:
		return actorSuccessor{Actors: actors.Become(pid, act.Behavior), Store: store}
	case ActionTerminate:
		return actorSuccessor{Actors: actors.Terminate(pid), Store: store}
	case ActionSend:
		return actorSuccessor{Actors: actors.Send(act.PID, act.Msg), Store: store}
	case ActionCreate:
		childPID := PID{addrPolicy.Cell(act.CreateExp, t)}
		next := actors.Create(childPID, act.Behavior, Eval(act.CreateExp, act.Env))
		return actorSuccessor{Actors: next, Store: store}
	case ActionReachedValue:
		return actorSuccessor{Actors: actors.SetControl(pid, KontControl(act.Value)), Store: act.Store}
	case ActionEval:
		return actorSuccessor{Actors: actors.SetControl(pid, Eval(act.Exp, act.Env)), Store: act.Store}
	case ActionPush:
		// act.PushFrame is intentionally dropped: Actor carries a Control
		// but no continuation store to push onto (spec.md §4.7 models one
		// receive as one atomic reaction, not a multi-step evaluation
		// resumed across driver steps — see stepActorMessages, which reads
		// back only actor.Control.Env on the next message, never resumes
		// actor.Control itself through StepEval/StepKont). A StepReceive
		// handler that needs to suspend and come back for a second step
		// cannot do so today; it must finish in one Action. See
		// TestStepReceivePushFrameIsNotAFrameStack.
		return actorSuccessor{Actors: actors.SetControl(pid, Eval(act.Exp, act.Env)), Store: act.Store}
	case ActionStepIn:
		return actorSuccessor{Actors: actors.SetControl(pid, Eval(act.Body, act.Env)), Store: act.Store}
	case ActionError:
		return actorSuccessor{Actors: actors.SetControl(pid, KontControl(ErrorValue(act.Err))), Store: store}
	default:
		return actorSuccessor{Actors: actors, Store: store}
	}
}
