// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import (
	"strconv"
	"sync"
)

// freeGlobal is the single shared (value store, kont-store) pair of
// the Free machine (spec.md §4.5 "Free: both the value store and the
// kont-store are global; State shrinks to (Control, t, kont-address)").
// Both grow monotonically under one lock so a fold that touches either
// bumps one shared version counter.
type freeGlobal struct {
	mu      sync.Mutex
	store   Store
	konts   KontStore
	version int
}

func newFreeGlobal(counting bool) *freeGlobal {
	store := NewStore()
	if counting {
		store = NewCountingStore()
	}
	return &freeGlobal{store: store, konts: NewKontStore()}
}

func (g *freeGlobal) snapshot() (Store, KontStore, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.store, g.konts, g.version
}

func (g *freeGlobal) extendStore(v Store) (Store, KontStore, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !v.Leq(g.store) {
		g.store = g.store.Join(v)
		g.version++
	}
	return g.store, g.konts, g.version
}

func (g *freeGlobal) pushKont(ak Address, frame Frame, tail Kont) (Kont, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	next, handle := g.konts.Push(ak, frame, tail)
	if next.Key() != g.konts.Key() {
		g.konts = next
		g.version++
	}
	return handle, g.version
}

// FreeMachine is spec.md §4.5's Free variant: the leanest State shape,
// since both stores live entirely outside it. Named for the
// free-monad-like decoupling of "what to do next" (the kont-address)
// from "where results/effects live" (the global stores) — the same
// decoupling the teacher's Expr/Handler split models for a single
// effect rather than a whole abstract machine.
type FreeMachine struct {
	Sem        Semantics
	AddrPolicy AddressPolicy
	TimePolicy TimestampPolicy
	Counting   bool
	global     *freeGlobal
}

// NewFreeMachine builds a fresh machine with its own global stores,
// abstract counting disabled.
func NewFreeMachine(sem Semantics, addrPolicy AddressPolicy, timePolicy TimestampPolicy) *FreeMachine {
	return &FreeMachine{Sem: sem, AddrPolicy: addrPolicy, TimePolicy: timePolicy, global: newFreeGlobal(false)}
}

// NewFreeMachineCounting is NewFreeMachine with abstract counting
// enabled on the shared global value store (see NewCountingStore).
func NewFreeMachineCounting(sem Semantics, addrPolicy AddressPolicy, timePolicy TimestampPolicy) *FreeMachine {
	return &FreeMachine{Sem: sem, AddrPolicy: addrPolicy, TimePolicy: timePolicy, Counting: true, global: newFreeGlobal(true)}
}

type freeState struct {
	Self    ThreadID
	Active  threadLocal
	T       Timestamp
	Threads ThreadPool
	Joined  JoinedSet
	Actors  ActorSystem
	Version int
}

func (s freeState) Key() string {
	return s.Self.String() + "|" + s.Active.Key() + "|" + s.T.String() + "|" +
		s.Threads.Key() + "|" + s.Joined.Key() + "|" + s.Actors.Key() +
		"|v" + strconv.Itoa(s.Version)
}

func (s freeState) Halted() bool      { return s.Active.Halted() && len(s.Threads.AllThreads()) == 0 }
func (s freeState) FinalValue() Value { return s.Active.FinalValue() }

func (m *FreeMachine) Initial(program Exp) []MachineState {
	_, _, ver := m.global.snapshot()
	s := freeState{
		Active:  threadLocal{Control: Eval(program, NewEnv()), Kont: HaltKont},
		T:       m.TimePolicy.Zero(),
		Threads: NewThreadPool(),
		Joined:  NewJoinedSet(),
		Actors:  NewActorSystem(),
		Version: ver,
	}
	return []MachineState{s}
}

func (m *FreeMachine) Step(ms MachineState) []MachineState {
	s := ms.(freeState)
	store, konts, _ := m.global.snapshot()
	var out []MachineState
	if !s.Active.Halted() {
		out = append(out, m.stepActive(s, store, konts)...)
	} else if others := s.Threads.AllThreads(); len(others) > 0 {
		out = append(out, m.scheduleThread(s)...)
	}
	for _, asucc := range stepActorMessages(m.Sem, m.AddrPolicy, store, s.T, s.Actors) {
		_, _, ver := m.global.extendStore(asucc.Store)
		next := s
		next.Actors, next.Version = asucc.Actors, ver
		out = append(out, next)
	}
	return out
}

func (m *FreeMachine) scheduleThread(s freeState) []MachineState {
	var out []MachineState
	for _, tid := range s.Threads.AllThreads() {
		for _, ls := range s.Threads.States(tid) {
			tl := ls.(threadLocal)
			next := s
			next.Threads = next.Threads.Install(s.Self, s.Active)
			next.Self = tid
			next.Active = tl
			out = append(out, next)
		}
	}
	return out
}

func (m *FreeMachine) stepActive(s freeState, store Store, konts KontStore) []MachineState {
	var out []MachineState
	if s.Active.Control.IsEval() {
		t := m.TimePolicy.Tick(s.T, s.Active.Control.Exp)
		actions := m.Sem.StepEval(s.Active.Control.Exp, s.Active.Control.Env, store, t)
		for _, act := range actions {
			out = append(out, m.fold(s, act, t, s.Active.Kont)...)
		}
		return out
	}
	cells := konts.Pop(s.Active.Kont)
	for _, c := range cells {
		if _, halt := c.Frame.(KontHalt); halt {
			continue
		}
		actions := m.Sem.StepKont(s.Active.Control.Val, c.Frame, store, s.T)
		for _, act := range actions {
			out = append(out, m.fold(s, act, s.T, Kont{Addr: c.Tail})...)
		}
	}
	return out
}

func (m *FreeMachine) fold(s freeState, act Action, t Timestamp, tail Kont) []MachineState {
	switch act.Kind {
	case ActionReachedValue:
		_, _, ver := m.global.extendStore(act.Store)
		next := s
		next.T, next.Version = t, ver
		next.Active = threadLocal{Control: KontControl(act.Value), Kont: tail}
		return []MachineState{next}

	case ActionPush:
		m.global.extendStore(act.Store)
		ak := m.AddrPolicy.Kont(act.Exp)
		handle, ver := m.global.pushKont(ak, act.PushFrame, tail)
		next := s
		next.T, next.Version = t, ver
		next.Active = threadLocal{Control: Eval(act.Exp, act.Env), Kont: handle}
		return []MachineState{next}

	case ActionEval:
		_, _, ver := m.global.extendStore(act.Store)
		next := s
		next.T, next.Version = t, ver
		next.Active = threadLocal{Control: Eval(act.Exp, act.Env), Kont: tail}
		return []MachineState{next}

	case ActionStepIn:
		_, _, ver := m.global.extendStore(act.Store)
		next := s
		next.T, next.Version = t, ver
		next.Active = threadLocal{Control: Eval(act.Body, act.Env), Kont: tail}
		return []MachineState{next}

	case ActionError:
		next := s
		next.T = t
		next.Active = threadLocal{Control: KontControl(ErrorValue(act.Err)), Kont: HaltKont}
		return []MachineState{next}

	case ActionSpawn:
		_, _, ver := m.global.extendStore(act.Store)
		next := s
		next.T, next.Version = t, ver
		next.Threads = next.Threads.Install(act.Tid, threadLocal{Control: Eval(act.Exp, act.Env), Kont: HaltKont})
		if act.Continuation != nil {
			return m.fold(next, *act.Continuation, t, tail)
		}
		return []MachineState{next}

	case ActionJoin:
		val, ok := s.Threads.Joinable(act.Tid)
		if !ok {
			return nil
		}
		_, _, ver := m.global.extendStore(act.Store)
		next := s
		next.T, next.Version = t, ver
		next.Joined = next.Joined.Add(act.Tid)
		next.Active = threadLocal{Control: KontControl(val), Kont: tail}
		return []MachineState{next}

	case ActionSend:
		next := s
		next.T = t
		next.Actors = next.Actors.Send(act.PID, act.Msg)
		if act.Continuation != nil {
			return m.fold(next, *act.Continuation, t, tail)
		}
		return []MachineState{next}

	case ActionCreate:
		childPID := PID{m.AddrPolicy.Cell(act.CreateExp, t)}
		next := s
		next.T = t
		next.Actors = next.Actors.Create(childPID, act.Behavior, Eval(act.CreateExp, act.Env))
		next.Active = threadLocal{Control: KontControl(PIDValue(childPID)), Kont: tail}
		return []MachineState{next}

	default:
		return nil
	}
}
