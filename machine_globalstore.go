// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import (
	"strconv"
	"sync"
)

// globalStoreCell is the single, monotonically-growing value store
// shared by every state of an AAMGlobalStoreMachine exploration
// (spec.md §4.5 "AAM-GlobalStore: the store is lifted out of State
// into a single global, monotonically growing structure"). version
// increments each time a fold actually widens the store; a state's Key
// embeds version, so once the store grows, previously-explored
// Control/Kont combinations get a fresh Key and are re-pushed onto the
// worklist by the ordinary visited-set check rather than being treated
// as already-visited — this stands in for spec.md §4.5's literal
// re-enqueue-on-delta mechanism. See DESIGN.md, "Global-store
// re-enqueue: Version-stamped Key vs. literal re-enqueue" for the
// equivalence argument and its one known over-approximation.
type globalStoreCell struct {
	mu      sync.Mutex
	store   Store
	version int
}

func newGlobalStoreCell(counting bool) *globalStoreCell {
	store := NewStore()
	if counting {
		store = NewCountingStore()
	}
	return &globalStoreCell{store: store}
}

func (g *globalStoreCell) snapshot() (Store, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.store, g.version
}

// extend joins v into the global store, bumping version only if it
// actually grew (spec.md §4.5 "reprocessed iff the new global store
// properly exceeds the store seen when the state was last expanded").
func (g *globalStoreCell) extend(v Store) (Store, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !v.Leq(g.store) {
		g.store = g.store.Join(v)
		g.version++
	}
	return g.store, g.version
}

// AAMGlobalStoreMachine is the AAM-GlobalStore variant (spec.md §4.5):
// the value store is widened globally; the kont-store stays per-state
// for addressing precision, same as AAMMachine.
type AAMGlobalStoreMachine struct {
	Sem        Semantics
	AddrPolicy AddressPolicy
	TimePolicy TimestampPolicy
	Counting   bool
	global     *globalStoreCell
}

// NewAAMGlobalStoreMachine builds a fresh machine with its own global
// store cell, abstract counting disabled.
func NewAAMGlobalStoreMachine(sem Semantics, addrPolicy AddressPolicy, timePolicy TimestampPolicy) *AAMGlobalStoreMachine {
	return &AAMGlobalStoreMachine{Sem: sem, AddrPolicy: addrPolicy, TimePolicy: timePolicy, global: newGlobalStoreCell(false)}
}

// NewAAMGlobalStoreMachineCounting is NewAAMGlobalStoreMachine with
// abstract counting enabled on the shared global store cell (see
// NewCountingStore).
func NewAAMGlobalStoreMachineCounting(sem Semantics, addrPolicy AddressPolicy, timePolicy TimestampPolicy) *AAMGlobalStoreMachine {
	return &AAMGlobalStoreMachine{Sem: sem, AddrPolicy: addrPolicy, TimePolicy: timePolicy, Counting: true, global: newGlobalStoreCell(true)}
}

type gsState struct {
	Self    ThreadID
	Active  threadLocal
	Konts   KontStore
	T       Timestamp
	Threads ThreadPool
	Joined  JoinedSet
	Actors  ActorSystem
	Version int
}

func (s gsState) Key() string {
	return s.Self.String() + "|" + s.Active.Key() + "|" + s.Konts.Key() + "|" +
		s.T.String() + "|" + s.Threads.Key() + "|" + s.Joined.Key() + "|" +
		s.Actors.Key() + "|v" + strconv.Itoa(s.Version)
}

func (s gsState) Halted() bool      { return s.Active.Halted() && len(s.Threads.AllThreads()) == 0 }
func (s gsState) FinalValue() Value { return s.Active.FinalValue() }

func (m *AAMGlobalStoreMachine) Initial(program Exp) []MachineState {
	_, ver := m.global.snapshot()
	s := gsState{
		Active:  threadLocal{Control: Eval(program, NewEnv()), Kont: HaltKont},
		Konts:   NewKontStore(),
		T:       m.TimePolicy.Zero(),
		Threads: NewThreadPool(),
		Joined:  NewJoinedSet(),
		Actors:  NewActorSystem(),
		Version: ver,
	}
	return []MachineState{s}
}

func (m *AAMGlobalStoreMachine) Step(ms MachineState) []MachineState {
	s := ms.(gsState)
	store, _ := m.global.snapshot()
	var out []MachineState
	if !s.Active.Halted() {
		out = append(out, m.stepActive(s, store)...)
	} else if others := s.Threads.AllThreads(); len(others) > 0 {
		out = append(out, m.scheduleThread(s)...)
	}
	for _, asucc := range stepActorMessages(m.Sem, m.AddrPolicy, store, s.T, s.Actors) {
		_, ver := m.global.extend(asucc.Store)
		next := s
		next.Actors, next.Version = asucc.Actors, ver
		out = append(out, next)
	}
	return out
}

func (m *AAMGlobalStoreMachine) scheduleThread(s gsState) []MachineState {
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

func (m *AAMGlobalStoreMachine) stepActive(s gsState, store Store) []MachineState {
	var out []MachineState
	if s.Active.Control.IsEval() {
		t := m.TimePolicy.Tick(s.T, s.Active.Control.Exp)
		actions := m.Sem.StepEval(s.Active.Control.Exp, s.Active.Control.Env, store, t)
		for _, act := range actions {
			out = append(out, m.fold(s, act, t, s.Active.Kont)...)
		}
		return out
	}
	cells := s.Konts.Pop(s.Active.Kont)
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

func (m *AAMGlobalStoreMachine) fold(s gsState, act Action, t Timestamp, tail Kont) []MachineState {
	switch act.Kind {
	case ActionReachedValue:
		_, ver := m.global.extend(act.Store)
		next := s
		next.T, next.Version = t, ver
		next.Active = threadLocal{Control: KontControl(act.Value), Kont: tail}
		return []MachineState{next}

	case ActionPush:
		_, ver := m.global.extend(act.Store)
		ak := m.AddrPolicy.Kont(act.Exp)
		newKonts, handle := s.Konts.Push(ak, act.PushFrame, tail)
		next := s
		next.Konts, next.T, next.Version = newKonts, t, ver
		next.Active = threadLocal{Control: Eval(act.Exp, act.Env), Kont: handle}
		return []MachineState{next}

	case ActionEval:
		_, ver := m.global.extend(act.Store)
		next := s
		next.T, next.Version = t, ver
		next.Active = threadLocal{Control: Eval(act.Exp, act.Env), Kont: tail}
		return []MachineState{next}

	case ActionStepIn:
		_, ver := m.global.extend(act.Store)
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
		_, ver := m.global.extend(act.Store)
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
		_, ver := m.global.extend(act.Store)
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
