// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package testlat

import (
	"sort"
	"strconv"

	"github.com/hybscloud/aam"
)

// Fact builds (letrec fact (lambda (n) ...) (fact 5)), reaching 120.
func Fact() *Node {
	return Letrec("fact",
		Lambda([]string{"n"},
			If(Prim("=", Var("n"), Int(0)),
				Int(1),
				Prim("*", Var("n"), App(Var("fact"), Prim("-", Var("n"), Int(1)))))),
		App(Var("fact"), Int(5)))
}

// Fib builds the naive doubly-recursive Fibonacci, reaching fib(4) = 3.
func Fib() *Node {
	return Letrec("fib",
		Lambda([]string{"n"},
			If(Prim("<", Var("n"), Int(2)),
				Var("n"),
				Prim("+",
					App(Var("fib"), Prim("-", Var("n"), Int(1))),
					App(Var("fib"), Prim("-", Var("n"), Int(2)))))),
		App(Var("fib"), Int(4)))
}

// Ackermann builds the two-argument Ackermann function, reaching
// ack(2,1) = 5.
func Ackermann() *Node {
	return Letrec("ack",
		Lambda([]string{"m", "n"},
			If(Prim("=", Var("m"), Int(0)),
				Prim("+", Var("n"), Int(1)),
				If(Prim("=", Var("n"), Int(0)),
					App(Var("ack"), Prim("-", Var("m"), Int(1)), Int(1)),
					App(Var("ack"),
						Prim("-", Var("m"), Int(1)),
						App(Var("ack"), Var("m"), Prim("-", Var("n"), Int(1))))))),
		App(Var("ack"), Int(2), Int(1)))
}

// Collatz counts the steps from 5 down to 1 under the 3n+1 rule,
// reaching 5 (5→16→8→4→2→1).
func Collatz() *Node {
	return Letrec("collatz",
		Lambda([]string{"n", "acc"},
			If(Prim("=", Var("n"), Int(1)),
				Var("acc"),
				If(Prim("=", Prim("%", Var("n"), Int(2)), Int(0)),
					App(Var("collatz"), Prim("/", Var("n"), Int(2)), Prim("+", Var("acc"), Int(1))),
					App(Var("collatz"), Prim("+", Prim("*", Int(3), Var("n")), Int(1)), Prim("+", Var("acc"), Int(1)))))),
		App(Var("collatz"), Int(5), Int(0)))
}

// Square applies (lambda (x) (* x x)) to 3, reaching 9.
func Square() *Node {
	return Let("sq", Lambda([]string{"x"}, Prim("*", Var("x"), Var("x"))), App(Var("sq"), Int(3)))
}

// Blur demonstrates allocation-induced imprecision rather than a
// program result in the usual sense: under Classical (context-
// insensitive) addressing, both calls to f bind parameter x to the
// same address, so the second call's (not x) sees the store cell
// already joined with the first call's argument — {#t,#f} — and both
// #t and #f are reachable at the end, not just the #t (from (not #f))
// a concrete interpreter would give. True is one of the reachable final values;
// it is not the only one.
func Blur() *Node {
	return Let("f", Lambda([]string{"x"}, Prim("not", Var("x"))),
		Begin(
			App(Var("f"), Bool(true)),
			App(Var("f"), Bool(false))))
}

// Counter builds a program that spawns a Counter actor, sends it three
// "tick" messages, then Peeks its running total. Message delivery is an
// independent scheduling choice from the sender's own control flow
// (spec.md §4.7), so IntValue(3) is reachable among the explored final
// states rather than guaranteed on every path. counterTick's update is
// not idempotent under redelivery (see stepActorMessages), so exploring
// this scenario to a fixed point needs a bounded numeric mode (a finite
// value lattice) rather than ModeConcrete — ModeConcrete only
// terminates here if the driver's own timeout cuts exploration short
// first.
func Counter() *Node {
	return Let("c", CreateActor("Counter"),
		Begin(
			Send(Var("c"), "tick"),
			Send(Var("c"), "tick"),
			Send(Var("c"), "tick"),
			Peek(Var("c"))))
}

// counterBehavior is the Counter actor's message table: a single
// zero-arity "tick" message that increments its own running total.
var counterBehavior = aam.NewBehavior("Counter", aam.MessageSpec{Name: "tick", Arity: 0})

// counterTick increments the counter cell addressed by the actor's own
// PID (spec.md §4.7; see Store.Overwrite's doc comment for why this
// cell uses strong update instead of the default join).
func counterTick(s *Semantics, self aam.PID, _ []aam.Value, _ aam.Env, store aam.Store, _ aam.Timestamp) []aam.Action {
	n := 0
	if cur, ok := store.Lookup(self.Address); ok {
		if cv, ok := cur.(Val); ok {
			if cn, ok := cv.singleInt(); ok {
				n = cn
			}
		}
	}
	next := IntVal(s.Mode, s.Bound, n+1)
	newStore := store.Overwrite(self.Address, next)
	return []aam.Action{aam.NewReachedValue(next, newStore, aam.NewEffectSet(aam.Effect{Kind: aam.WriteVar, Addr: self.Address}))}
}

// relayBehavior forwards a single "fwd" message to whichever actor its
// creating scope bound the name "next" to, adding one to the carried
// value along the way. sinkBehavior instead stores the received value
// in its own cell, the same Store.Overwrite singleton-cell trick
// counterTick uses.
var relayBehavior = aam.NewBehavior("Relay", aam.MessageSpec{Name: "fwd", Arity: 1})
var sinkBehavior = aam.NewBehavior("Sink", aam.MessageSpec{Name: "fwd", Arity: 1})

// relayForward reads "next"'s PID out of the actor's own captured
// environment (spec.md §4.7: StepReceive is handed the Control.Env the
// actor was Created under) rather than out of a continuation — actors
// have no kont-store to push onto (see actorstep.go's ActionPush case),
// so every piece of state a receiver needs must already be reachable
// through self.Address or the captured env, never through a suspended
// frame.
func relayForward(s *Semantics, self aam.PID, args []aam.Value, env aam.Env, store aam.Store, _ aam.Timestamp) []aam.Action {
	addr, ok := env.Lookup("next")
	if !ok {
		return []aam.Action{aam.NewErrorAction(aam.SemanticError{Kind: aam.UnboundVariable, Message: "next"})}
	}
	nextVal, ok := store.Lookup(addr)
	if !ok {
		return []aam.Action{aam.NewErrorAction(aam.SemanticError{Kind: aam.TypeError, Message: "relay target not yet resolved"})}
	}
	pids := nextVal.Pids()
	if len(pids) == 0 {
		return []aam.Action{aam.NewErrorAction(aam.SemanticError{Kind: aam.TypeError, Message: "next is not an actor"})}
	}
	forwarded := args[0].BinaryOp(aam.OpPlus, IntVal(s.Mode, s.Bound, 1))
	msg := NewMsg(s.Mode, s.Bound, "fwd", []aam.Value{forwarded})
	eff := aam.NewEffectSet()
	actions := make([]aam.Action, 0, len(pids))
	for _, pid := range pids {
		actions = append(actions, aam.NewSend(pid, msg, aam.NewReachedValue(BoolVal(s.Mode, s.Bound, true), store, eff), eff))
	}
	return actions
}

func sinkStore(s *Semantics, self aam.PID, args []aam.Value, _ aam.Env, store aam.Store, _ aam.Timestamp) []aam.Action {
	newStore := store.Overwrite(self.Address, args[0])
	return []aam.Action{aam.NewReachedValue(args[0], newStore, aam.NewEffectSet(aam.Effect{Kind: aam.WriteVar, Addr: self.Address}))}
}

// PipeSeq builds a 3-relay actor pipeline: sink <- r3 <- r2 <- r1.
// Sending fwd(0) into r1 adds one at each hop, so 3 is reachable at the
// sink once every hop has fired exactly once (spec.md §8's end-to-end
// scenario table, "actor pipeline pipe-seq, N=3, per-node +1, sink
// reaches 3"). Each relay's forwarding target is threaded through via a
// "next" binding in the Let chain the relay is Created under, not
// through any continuation (see relayForward).
func PipeSeq() *Node {
	return Let("sink", CreateActor("Sink"),
		Let("next", Var("sink"),
			Let("r3", CreateActor("Relay"),
				Let("next", Var("r3"),
					Let("r2", CreateActor("Relay"),
						Let("next", Var("r2"),
							Let("r1", CreateActor("Relay"),
								Begin(
									Send(Var("r1"), "fwd", Int(0)),
									Peek(Var("sink"))))))))))
}

// indexerTableSize is the slot count of the shared hash table the
// indexer scenario exercises (spec.md §8 "indexer concurrency example
// with 2 threads, 4 messages, table size 128").
const indexerTableSize = 128

// indexerBehavior receives "put" messages carrying (key, value) and
// writes value into the slot key hashes to.
var indexerBehavior = aam.NewBehavior("Indexer", aam.MessageSpec{Name: "put", Arity: 2})

// indexerPut hashes args[0] (the key) into one of indexerTableSize
// slots and strong-updates that slot's own address with args[1] (the
// value). Each slot gets its own synthetic Variable address (named
// "slot<N>") rather than one address for the whole table, so two
// messages landing in different slots are genuinely independent
// writes — and two landing in the *same* slot from different threads
// are a real EffectSet conflict for the driver's DPOR to catch (spec.md
// §4.6/§8 property 5).
func indexerPut(s *Semantics, self aam.PID, args []aam.Value, _ aam.Env, store aam.Store, t aam.Timestamp) []aam.Action {
	key := 0
	if kv, ok := args[0].(Val); ok {
		if kn, ok := kv.singleInt(); ok {
			key = kn
		}
	}
	slot := ((key % indexerTableSize) + indexerTableSize) % indexerTableSize
	addr := s.Addr.Variable(aam.Identifier("slot"+strconv.Itoa(slot)), s.bot(), t)
	// Also strong-update the actor's own cell with the last value
	// written, purely so Peek(idx) (used to observe this scenario's
	// outcome) has something meaningful to read back — the slot address
	// above is the one that matters for table-size/conflict purposes.
	newStore := store.Overwrite(addr, args[1]).Overwrite(self.Address, args[1])
	return []aam.Action{aam.NewReachedValue(args[1], newStore, aam.NewEffectSet(
		aam.Effect{Kind: aam.WriteVar, Addr: addr},
		aam.Effect{Kind: aam.WriteVar, Addr: self.Address},
	))}
}

// IndexerConcurrency spawns two threads against one shared Indexer
// actor, each sending two "put" messages (four total), then joins
// both before peeking the indexer (spec.md §8's concurrency scenario;
// §4.6's Spawn/Join). Keys 2 (thread one) and 130 (thread two) hash to
// the same slot (130 mod 128 = 2), so this scenario's two threads
// genuinely race on one table slot rather than touching disjoint
// memory — the case DPOR's conflict detection exists to prune/explore
// correctly, not a scenario where thread-interleaving is moot.
func IndexerConcurrency() *Node {
	return Let("idx", CreateActor("Indexer"),
		Let("t1", Spawn(Begin(
			Send(Var("idx"), "put", Int(1), Int(11)),
			Send(Var("idx"), "put", Int(2), Int(22)))),
			Let("t2", Spawn(Begin(
				Send(Var("idx"), "put", Int(130), Int(33)),
				Send(Var("idx"), "put", Int(131), Int(44)))),
				Begin(
					Join(Var("t1")),
					Join(Var("t2")),
					Peek(Var("idx"))))))
}

// BuildSemantics configures a Semantics for mode/bound/addr with every
// behavior the built-in scenarios need registered. Safe to use for
// scenarios that never spawn an actor — each registration is inert
// unless a CreateActor node names the matching behavior.
func BuildSemantics(mode Mode, bound int, addr aam.AddressPolicy) *Semantics {
	s := NewSemantics(mode, bound, addr)
	s.RegisterBehavior(counterBehavior)
	s.RegisterReceiver("Counter", "tick", counterTick)
	s.RegisterBehavior(relayBehavior)
	s.RegisterReceiver("Relay", "fwd", relayForward)
	s.RegisterBehavior(sinkBehavior)
	s.RegisterReceiver("Sink", "fwd", sinkStore)
	s.RegisterBehavior(indexerBehavior)
	s.RegisterReceiver("Indexer", "put", indexerPut)
	return s
}

// Registry names every built-in scenario program, for cmd/aam and the
// test suite to look up by name.
var Registry = map[string]func() *Node{
	"fact":     Fact,
	"fib":      Fib,
	"ack":      Ackermann,
	"collatz":  Collatz,
	"sq":       Square,
	"blur":     Blur,
	"counter":  Counter,
	"pipe-seq": PipeSeq,
	"indexer":  IndexerConcurrency,
}

// Build looks up a scenario by name.
func Build(name string) (*Node, bool) {
	ctor, ok := Registry[name]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// Names returns every registered scenario name, sorted, for CLI help
// text and tests.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
